package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pftracker/ledger/ledger-backend/internal/domain"
	"github.com/pftracker/ledger/ledger-backend/internal/repository/storage"
	"github.com/rs/zerolog/log"
)

const csvContentType = "text/csv"

var exportHeader = []string{"date", "type", "amount", "category", "account", "description"}

// ExportService renders a user's transactions as CSV
type ExportService struct {
	transactionRepo domain.TransactionRepository
	store           storage.ExportStore
	urlExpiry       time.Duration
	now             func() time.Time
}

// NewExportService creates a new ExportService. store may be nil, in which
// case exports are only delivered inline.
func NewExportService(transactionRepo domain.TransactionRepository, store storage.ExportStore, urlExpiry time.Duration) *ExportService {
	return &ExportService{
		transactionRepo: transactionRepo,
		store:           store,
		urlExpiry:       urlExpiry,
		now:             time.Now,
	}
}

// UploadEnabled reports whether exports can be delivered as download links
func (s *ExportService) UploadEnabled() bool {
	return s.store != nil
}

// ExportInput selects the window of an export and how it is delivered
type ExportInput struct {
	StartDate *time.Time
	EndDate   *time.Time
	Upload    bool
}

// ExportResult carries the CSV inline, or a download link when uploaded
type ExportResult struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Rows        int       `json:"rows"`
	DownloadURL string    `json:"downloadUrl,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt,omitempty"`
	Data        []byte    `json:"-"`
}

// ExportTransactions writes the owner's transactions in the window as CSV, oldest first
func (s *ExportService) ExportTransactions(ctx context.Context, ownerID uuid.UUID, input ExportInput) (*ExportResult, error) {
	if input.Upload && s.store == nil {
		return nil, domain.ErrExportStorageDisabled
	}

	start, end, err := resolveWindow(s.now(), input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.GetByDateRange(ctx, ownerID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	data, err := writeTransactionsCSV(transactions)
	if err != nil {
		return nil, fmt.Errorf("%w: write csv: %v", domain.ErrInternalError, err)
	}

	result := &ExportResult{
		Filename:    fmt.Sprintf("transactions_%s_%s.csv", start.Format("20060102"), end.Format("20060102")),
		ContentType: csvContentType,
		Rows:        len(transactions),
	}

	if !input.Upload {
		result.Data = data
		return result, nil
	}

	createdAt := s.now()
	key := storage.ExportKey(ownerID, createdAt, ".csv")
	if err := s.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), csvContentType); err != nil {
		log.Error().Err(err).Str("owner_id", ownerID.String()).Str("key", key).Msg("Failed to upload export")
		return nil, fmt.Errorf("%w: upload export: %v", domain.ErrInternalError, err)
	}
	url, err := s.store.DownloadURL(ctx, key, s.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: presign export: %v", domain.ErrInternalError, err)
	}

	log.Info().Str("owner_id", ownerID.String()).Str("key", key).Int("rows", len(transactions)).Msg("Export uploaded")
	result.DownloadURL = url
	result.ExpiresAt = createdAt.Add(s.urlExpiry).UTC()
	return result, nil
}

func writeTransactionsCSV(transactions []*domain.TransactionView) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, t := range transactions {
		account := ""
		if t.AccountName != nil {
			account = *t.AccountName
		}
		record := []string{
			t.Date.UTC().Format("2006-01-02"),
			string(t.Type),
			strconv.FormatInt(t.Amount, 10),
			categoryLabel(t.CategoryName),
			account,
			t.Description,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

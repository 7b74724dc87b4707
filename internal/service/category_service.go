package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pftracker/ledger/ledger-backend/internal/domain"
	"github.com/pftracker/ledger/ledger-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// CategoryService handles category-related business logic
type CategoryService struct {
	categoryRepo   domain.CategoryRepository
	eventPublisher websocket.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *CategoryService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateCategory creates a category for the owner
func (s *CategoryService) CreateCategory(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Category, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	return s.categoryRepo.Create(ctx, &domain.Category{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    name,
	})
}

// GetCategories lists the owner's categories by name
func (s *CategoryService) GetCategories(ctx context.Context, ownerID uuid.UUID) ([]*domain.Category, error) {
	return s.categoryRepo.GetAllByOwner(ctx, ownerID)
}

// GetCategoryByID retrieves a category by ID for its owner
func (s *CategoryService) GetCategoryByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Category, error) {
	return s.categoryRepo.GetByID(ctx, ownerID, id)
}

// UpdateCategory renames a category
func (s *CategoryService) UpdateCategory(ctx context.Context, ownerID, id uuid.UUID, name string) (*domain.Category, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	return s.categoryRepo.Update(ctx, ownerID, id, name)
}

// DeleteCategory removes a category that no transaction or goal references.
// The foreign key still guards the race between the check and the delete.
func (s *CategoryService) DeleteCategory(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.categoryRepo.GetByID(ctx, ownerID, id); err != nil {
		return err
	}

	inUse, err := s.categoryRepo.HasReferences(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if inUse {
		return domain.ErrCategoryInUse
	}

	if err := s.categoryRepo.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	log.Info().Str("owner_id", ownerID.String()).Str("category_id", id.String()).Msg("Category deleted")
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(ownerID, websocket.CategoryDeleted(map[string]interface{}{"id": id}))
	}
	return nil
}

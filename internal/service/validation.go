package service

import (
	"strings"
	"unicode/utf8"

	"github.com/pftracker/ledger/ledger-backend/internal/domain"
)

// validateName trims a display name and checks its length in characters
func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if n := utf8.RuneCountInString(name); n < domain.MinNameLength || n > domain.MaxNameLength {
		return "", domain.ErrNameLength
	}
	return name, nil
}

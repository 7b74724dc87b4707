package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Category, error)
	GetAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Category, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, name string) (*Category, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	HasReferences(ctx context.Context, ownerID, id uuid.UUID) (bool, error)
}

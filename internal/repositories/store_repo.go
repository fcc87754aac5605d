package repositories

import (
	"context"

	"medfind/internal/models"
)

// StoreRepository defines the data access for pharmacy stores.
type StoreRepository interface {
	Create(ctx context.Context, store *models.Store) error
	GetByEmail(ctx context.Context, email string) (*models.Store, error)
	GetByID(ctx context.Context, id string) (*models.Store, error)
	ListByPincode(ctx context.Context, pincode string) ([]models.Store, error)
}

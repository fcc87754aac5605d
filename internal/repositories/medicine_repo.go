package repositories

import (
	"context"

	"medfind/internal/models"
)

// Page bounds a listing. A zero Limit means no bound.
type Page struct {
	Limit  int
	Offset int
}

// MedicineRepository defines the data access for medicines.
// Every read and write is filtered by the owning store id.
type MedicineRepository interface {
	ListByStore(ctx context.Context, storeID string, page Page) ([]models.Medicine, error)
	GetByID(ctx context.Context, storeID, id string) (*models.Medicine, error)
	Create(ctx context.Context, medicine *models.Medicine) error
	// Update persists medicine if its stored version still equals expectedVersion.
	Update(ctx context.Context, storeID string, medicine *models.Medicine, expectedVersion int) error
	Delete(ctx context.Context, storeID, id string) error
	// SearchInStores returns medicines of the given stores whose name, generic name
	// or brand contains query as a case-insensitive literal substring, ordered by
	// status priority and then most recently updated first.
	SearchInStores(ctx context.Context, storeIDs []string, query string) ([]models.Medicine, error)
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"medfind/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMStoreRepository is a GORM implementation of StoreRepository.
type GORMStoreRepository struct {
	db *gorm.DB
}

// NewGORMStoreRepository creates a new instance of GORMStoreRepository.
func NewGORMStoreRepository(db *gorm.DB) *GORMStoreRepository {
	return &GORMStoreRepository{
		db: db,
	}
}

// Create creates a new store in the database.
func (r *GORMStoreRepository) Create(ctx context.Context, store *models.Store) error {
	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create store: %w", err)
	}
	return nil
}

// GetByEmail retrieves a store by its exact email.
func (r *GORMStoreRepository) GetByEmail(ctx context.Context, email string) (*models.Store, error) {
	return r.first(ctx, "email = ?", email)
}

// GetByID retrieves a store by its ID.
func (r *GORMStoreRepository) GetByID(ctx context.Context, id string) (*models.Store, error) {
	return r.first(ctx, "id = ?", id)
}

// ListByPincode retrieves every store registered in pincode, oldest first.
func (r *GORMStoreRepository) ListByPincode(ctx context.Context, pincode string) ([]models.Store, error) {
	stores := []models.Store{}
	if err := r.db.WithContext(ctx).Where("pincode = ?", pincode).Order("created_at ASC").Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to list stores in pincode %s: %w", pincode, err)
	}
	return stores, nil
}

func (r *GORMStoreRepository) first(ctx context.Context, cond string, arg string) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, cond, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get store (%s): %w", cond, err)
	}
	return &store, nil
}

package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"medfind/internal/models"

	"github.com/google/uuid"
)

// MockStoreRepository is an in-memory implementation of StoreRepository.
type MockStoreRepository struct {
	stores map[string]models.Store
	mu     sync.RWMutex
}

// NewMockStoreRepository creates a new instance of MockStoreRepository.
func NewMockStoreRepository() *MockStoreRepository {
	return &MockStoreRepository{
		stores: make(map[string]models.Store),
	}
}

// Create adds a new store, rejecting a duplicate email.
func (r *MockStoreRepository) Create(_ context.Context, store *models.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.stores {
		if s.Email == store.Email {
			return ErrDuplicateEmail
		}
	}
	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	now := time.Now()
	store.CreatedAt = now
	store.UpdatedAt = now
	r.stores[store.ID] = *store
	return nil
}

// GetByEmail returns the store registered with email.
func (r *MockStoreRepository) GetByEmail(_ context.Context, email string) (*models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.stores {
		if s.Email == email {
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

// GetByID returns a store by its ID.
func (r *MockStoreRepository) GetByID(_ context.Context, id string) (*models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stores[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

// ListByPincode returns the stores in pincode, oldest registration first.
func (r *MockStoreRepository) ListByPincode(_ context.Context, pincode string) ([]models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := []models.Store{}
	for _, s := range r.stores {
		if s.Pincode == pincode {
			list = append(list, s)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

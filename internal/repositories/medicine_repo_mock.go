package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"medfind/internal/models"

	"github.com/google/uuid"
)

// MockMedicineRepository is an in-memory implementation of MedicineRepository.
type MockMedicineRepository struct {
	medicines map[string]models.Medicine
	mu        sync.RWMutex
}

// NewMockMedicineRepository creates a new instance of MockMedicineRepository.
func NewMockMedicineRepository() *MockMedicineRepository {
	return &MockMedicineRepository{
		medicines: make(map[string]models.Medicine),
	}
}

// ListByStore returns the medicines of storeID, most recently updated first.
func (r *MockMedicineRepository) ListByStore(_ context.Context, storeID string, page Page) ([]models.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := []models.Medicine{}
	for _, m := range r.medicines {
		if m.StoreID == storeID {
			list = append(list, m)
		}
	}
	sort.Slice(list, func(i, j int) bool { return newerFirst(list[i], list[j]) })

	if page.Limit > 0 {
		if page.Offset >= len(list) {
			return []models.Medicine{}, nil
		}
		end := page.Offset + page.Limit
		if end > len(list) {
			end = len(list)
		}
		list = list[page.Offset:end]
	}
	return list, nil
}

// GetByID returns a medicine by its ID if storeID owns it.
func (r *MockMedicineRepository) GetByID(_ context.Context, storeID, id string) (*models.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.medicines[id]
	if !ok || m.StoreID != storeID {
		return nil, ErrNotFound
	}
	return &m, nil
}

// Create adds a new medicine.
func (r *MockMedicineRepository) Create(_ context.Context, medicine *models.Medicine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if medicine.ID == "" {
		medicine.ID = uuid.New().String()
	}
	now := time.Now()
	if medicine.CreatedAt.IsZero() {
		medicine.CreatedAt = now
	}
	if medicine.UpdatedAt.IsZero() {
		medicine.UpdatedAt = now
	}
	r.medicines[medicine.ID] = *medicine
	return nil
}

// Update replaces a medicine if storeID owns it and its version is unchanged.
func (r *MockMedicineRepository) Update(_ context.Context, storeID string, medicine *models.Medicine, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.medicines[medicine.ID]
	if !ok || current.StoreID != storeID {
		return ErrNotFound
	}
	if current.Version != expectedVersion {
		return ErrStaleVersion
	}
	updated := *medicine
	updated.StoreID = current.StoreID
	updated.CreatedAt = current.CreatedAt
	if updated.UpdatedAt.IsZero() {
		updated.UpdatedAt = time.Now()
	}
	r.medicines[medicine.ID] = updated
	return nil
}

// Delete removes a medicine if storeID owns it.
func (r *MockMedicineRepository) Delete(_ context.Context, storeID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.medicines[id]
	if !ok || m.StoreID != storeID {
		return ErrNotFound
	}
	delete(r.medicines, id)
	return nil
}

// SearchInStores matches the same lower-cased search key as the GORM repository.
func (r *MockMedicineRepository) SearchInStores(_ context.Context, storeIDs []string, query string) ([]models.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owners := make(map[string]struct{}, len(storeIDs))
	for _, id := range storeIDs {
		owners[id] = struct{}{}
	}
	needle := strings.ToLower(query)

	list := []models.Medicine{}
	for _, m := range r.medicines {
		if _, ok := owners[m.StoreID]; !ok {
			continue
		}
		if strings.Contains(m.SearchKey(), needle) {
			list = append(list, m)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		pi, pj := list[i].Status.Priority(), list[j].Status.Priority()
		if pi != pj {
			return pi < pj
		}
		return newerFirst(list[i], list[j])
	})
	return list, nil
}

func newerFirst(a, b models.Medicine) bool {
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.ID < b.ID
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medfind/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// statusPriorityOrder sorts IN_STOCK first, then LOW_STOCK, then OUT_OF_STOCK.
const statusPriorityOrder = "CASE status WHEN 'IN_STOCK' THEN 0 WHEN 'LOW_STOCK' THEN 1 ELSE 2 END"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching query as a literal, lower-cased substring.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
}

// GORMMedicineRepository is a GORM implementation of MedicineRepository.
type GORMMedicineRepository struct {
	db *gorm.DB
}

// NewGORMMedicineRepository creates a new instance of GORMMedicineRepository.
func NewGORMMedicineRepository(db *gorm.DB) *GORMMedicineRepository {
	return &GORMMedicineRepository{
		db: db,
	}
}

// ListByStore retrieves the medicines of a store, most recently updated first.
func (r *GORMMedicineRepository) ListByStore(ctx context.Context, storeID string, page Page) ([]models.Medicine, error) {
	medicines := []models.Medicine{}
	q := r.db.WithContext(ctx).Where("store_id = ?", storeID).Order("updated_at DESC")
	if page.Limit > 0 {
		q = q.Limit(page.Limit).Offset(page.Offset)
	}
	if err := q.Find(&medicines).Error; err != nil {
		return nil, fmt.Errorf("failed to list medicines for store %s: %w", storeID, err)
	}
	return medicines, nil
}

// GetByID retrieves a medicine by id, only if it belongs to storeID.
func (r *GORMMedicineRepository) GetByID(ctx context.Context, storeID, id string) (*models.Medicine, error) {
	var medicine models.Medicine
	err := r.db.WithContext(ctx).First(&medicine, "id = ? AND store_id = ?", id, storeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get medicine %s: %w", id, err)
	}
	return &medicine, nil
}

// Create inserts a new medicine.
func (r *GORMMedicineRepository) Create(ctx context.Context, medicine *models.Medicine) error {
	if medicine.ID == "" {
		medicine.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(medicine).Error; err != nil {
		return fmt.Errorf("failed to create medicine: %w", err)
	}
	return nil
}

// Update writes every mutable column of medicine, guarded by owner and version.
// UpdateColumns skips hooks, so search_text is written here.
func (r *GORMMedicineRepository) Update(ctx context.Context, storeID string, medicine *models.Medicine, expectedVersion int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Medicine{}).
		Where("id = ? AND store_id = ? AND version = ?", medicine.ID, storeID, expectedVersion).
		UpdateColumns(map[string]interface{}{
			"name":         medicine.Name,
			"generic_name": medicine.GenericName,
			"brand":        medicine.Brand,
			"quantity":     medicine.Quantity,
			"price":        medicine.Price,
			"status":       medicine.Status,
			"version":      medicine.Version,
			"last_updated": medicine.LastUpdated,
			"updated_at":   medicine.UpdatedAt,
			"search_text":  medicine.SearchKey(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update medicine %s: %w", medicine.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		// Either gone, not ours, or someone else bumped the version.
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Medicine{}).
			Where("id = ? AND store_id = ?", medicine.ID, storeID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check medicine %s: %w", medicine.ID, err)
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrStaleVersion
	}
	return nil
}

// Delete removes a medicine owned by storeID.
func (r *GORMMedicineRepository) Delete(ctx context.Context, storeID, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Medicine{}, "id = ? AND store_id = ?", id, storeID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete medicine %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchInStores finds medicines in the given stores matching query.
func (r *GORMMedicineRepository) SearchInStores(ctx context.Context, storeIDs []string, query string) ([]models.Medicine, error) {
	medicines := []models.Medicine{}
	if len(storeIDs) == 0 {
		return medicines, nil
	}
	err := r.db.WithContext(ctx).
		Where("store_id IN ?", storeIDs).
		Where(`search_text LIKE ? ESCAPE '\'`, containsPattern(query)).
		Order(statusPriorityOrder).
		Order("updated_at DESC").
		Find(&medicines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search medicines: %w", err)
	}
	return medicines, nil
}

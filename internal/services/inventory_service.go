package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"medfind/internal/models"
	"medfind/internal/repositories"

	"github.com/shopspring/decimal"
)

// CreateMedicineInput is the body of a create request. Numbers are kept raw so
// that JSON numbers and numeric strings are accepted, and anything else gets a
// field-specific validation message.
type CreateMedicineInput struct {
	Name        string          `json:"name"`
	GenericName string          `json:"genericName"`
	Brand       string          `json:"brand"`
	Quantity    json.RawMessage `json:"quantity"`
	Price       json.RawMessage `json:"price"`
	Status      string          `json:"status"`
}

// UpdateMedicineInput is the body of a partial update. Nil fields are left unchanged.
type UpdateMedicineInput struct {
	Name        *string         `json:"name"`
	GenericName *string         `json:"genericName"`
	Brand       *string         `json:"brand"`
	Quantity    json.RawMessage `json:"quantity"`
	Price       json.RawMessage `json:"price"`
	Status      *string         `json:"status"`
	Version     *int            `json:"version"`
}

// InventoryService handles business logic for a store's medicines.
type InventoryService struct {
	repo   repositories.MedicineRepository
	events EventPublisher
	now    func() time.Time
}

// NewInventoryService creates a new InventoryService. events may be nil.
func NewInventoryService(repo repositories.MedicineRepository, events EventPublisher) *InventoryService {
	return &InventoryService{
		repo:   repo,
		events: events,
		now:    time.Now,
	}
}

// ListMedicines returns the store's medicines, most recently updated first.
func (s *InventoryService) ListMedicines(ctx context.Context, storeID string, page repositories.Page) ([]models.Medicine, error) {
	medicines, err := s.repo.ListByStore(ctx, storeID, page)
	if err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	return medicines, nil
}

// GetMedicine returns one medicine owned by the store.
func (s *InventoryService) GetMedicine(ctx context.Context, storeID, id string) (*models.Medicine, error) {
	medicine, err := s.repo.GetByID(ctx, storeID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errMedicineNotFound
		}
		return nil, fmt.Errorf("get medicine: %w", err)
	}
	return medicine, nil
}

// CreateMedicine validates the input, settles the status and stores a new medicine.
func (s *InventoryService) CreateMedicine(ctx context.Context, storeID string, in CreateMedicineInput) (*models.Medicine, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationError("Medicine name is required")
	}
	rawQuantity, present, err := rawDecimal(in.Quantity)
	if !present || err != nil {
		return nil, validationError("Quantity is required")
	}
	quantity, err := parseQuantity(rawQuantity)
	if err != nil {
		return nil, err
	}
	price, err := optionalPrice(in.Price)
	if err != nil {
		return nil, err
	}

	status, ok := models.ParseStatus(in.Status)
	if !ok {
		status = models.DeriveStatus(quantity)
	}

	now := s.now()
	medicine := &models.Medicine{
		StoreID:     storeID,
		Name:        name,
		GenericName: strings.TrimSpace(in.GenericName),
		Brand:       strings.TrimSpace(in.Brand),
		Quantity:    quantity,
		Price:       price,
		Status:      status,
		Version:     1,
		LastUpdated: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, medicine); err != nil {
		return nil, fmt.Errorf("create medicine: %w", err)
	}

	publishMedicineEvent(s.events, EventMedicineCreated, medicine, now)
	return medicine, nil
}

// UpdateMedicine applies a partial update to a medicine owned by the store.
func (s *InventoryService) UpdateMedicine(ctx context.Context, storeID, id string, in UpdateMedicineInput) (*models.Medicine, error) {
	var name *string
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		if trimmed == "" {
			return nil, validationError("Medicine name cannot be empty")
		}
		name = &trimmed
	}
	var quantity *int
	if raw, present, err := rawDecimal(in.Quantity); err != nil {
		return nil, validationError("Quantity must be a number")
	} else if present {
		q, err := parseQuantity(raw)
		if err != nil {
			return nil, err
		}
		quantity = &q
	}
	var price *decimal.Decimal
	if raw, present, err := rawDecimal(in.Price); err != nil {
		return nil, validationError("Price must be a number")
	} else if present {
		p, err := checkPrice(raw)
		if err != nil {
			return nil, err
		}
		price = &p
	}
	var status *models.Status
	if in.Status != nil {
		// An unknown status is ignored, as on create.
		if st, ok := models.ParseStatus(*in.Status); ok {
			status = &st
		}
	}

	medicine, err := s.GetMedicine(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if in.Version != nil && *in.Version != medicine.Version {
		return nil, errMedicineOutOfDate
	}

	if name != nil {
		medicine.Name = *name
	}
	if in.GenericName != nil {
		medicine.GenericName = strings.TrimSpace(*in.GenericName)
	}
	if in.Brand != nil {
		medicine.Brand = strings.TrimSpace(*in.Brand)
	}
	if price != nil {
		medicine.Price = *price
	}
	if stock := NewStockUpdate(quantity, status); stock != nil {
		stock.apply(medicine)
	}

	now := s.now()
	expected := medicine.Version
	medicine.Version++
	medicine.LastUpdated = now
	medicine.UpdatedAt = now

	if err := s.repo.Update(ctx, storeID, medicine, expected); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, errMedicineNotFound
		case errors.Is(err, repositories.ErrStaleVersion):
			return nil, errMedicineOutOfDate
		}
		return nil, fmt.Errorf("update medicine: %w", err)
	}

	publishMedicineEvent(s.events, EventMedicineUpdated, medicine, now)
	return medicine, nil
}

// DeleteMedicine removes a medicine owned by the store.
func (s *InventoryService) DeleteMedicine(ctx context.Context, storeID, id string) error {
	medicine, err := s.GetMedicine(ctx, storeID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, storeID, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errMedicineNotFound
		}
		return fmt.Errorf("delete medicine: %w", err)
	}

	publishMedicineEvent(s.events, EventMedicineDeleted, medicine, s.now())
	return nil
}

// maxPrice is the first value a numeric(12,2) column cannot hold.
var maxPrice = decimal.New(1, 10)

// rawDecimal reads a JSON number or a numeric string. An absent or null value
// is reported as not present.
func rawDecimal(raw json.RawMessage) (decimal.Decimal, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, false, nil
	}
	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Zero, true, err
		}
		text = strings.TrimSpace(text)
	}
	d, err := decimal.NewFromString(text)
	return d, true, err
}

// parseQuantity accepts integral, non-negative numbers ("5" and "5.0" alike).
func parseQuantity(d decimal.Decimal) (int, error) {
	if !d.IsInteger() || d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, validationError("Quantity must be a whole number")
	}
	if d.IsNegative() {
		return 0, validationError("Quantity cannot be negative")
	}
	return int(d.IntPart()), nil
}

// optionalPrice defaults an absent price to zero.
func optionalPrice(raw json.RawMessage) (decimal.Decimal, error) {
	d, present, err := rawDecimal(raw)
	if err != nil {
		return decimal.Zero, validationError("Price must be a number")
	}
	if !present {
		return decimal.Zero, nil
	}
	return checkPrice(d)
}

// checkPrice rounds to cents, as the column stores them, and enforces the column bounds.
func checkPrice(d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsNegative() {
		return decimal.Zero, validationError("Price cannot be negative")
	}
	price := d.Round(2)
	if price.GreaterThanOrEqual(maxPrice) {
		return decimal.Zero, validationError("Price must be less than 10000000000")
	}
	return price, nil
}

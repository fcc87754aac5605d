package services

import "medfind/internal/models"

// StockUpdate is the quantity/status part of a medicine update.
// Its concrete type decides whether status is derived or taken as given.
type StockUpdate interface {
	apply(m *models.Medicine)
}

// SetQuantity changes the quantity and re-derives the status from it.
type SetQuantity struct {
	Quantity int
}

func (u SetQuantity) apply(m *models.Medicine) {
	m.Quantity = u.Quantity
	m.Status = models.DeriveStatus(u.Quantity)
}

// SetStatus overrides the status and leaves the quantity alone.
type SetStatus struct {
	Status models.Status
}

func (u SetStatus) apply(m *models.Medicine) {
	m.Status = u.Status
}

// SetQuantityAndStatus changes the quantity and overrides the status.
type SetQuantityAndStatus struct {
	Quantity int
	Status   models.Status
}

func (u SetQuantityAndStatus) apply(m *models.Medicine) {
	m.Quantity = u.Quantity
	m.Status = u.Status
}

// NewStockUpdate builds the update for the fields present in a request.
// It returns nil when neither a quantity nor a status was given.
func NewStockUpdate(quantity *int, status *models.Status) StockUpdate {
	switch {
	case quantity != nil && status != nil:
		return SetQuantityAndStatus{Quantity: *quantity, Status: *status}
	case quantity != nil:
		return SetQuantity{Quantity: *quantity}
	case status != nil:
		return SetStatus{Status: *status}
	default:
		return nil
	}
}

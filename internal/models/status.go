package models

// Status is the stock level classification of a medicine.
type Status string

const (
	StatusInStock    Status = "IN_STOCK"
	StatusLowStock   Status = "LOW_STOCK"
	StatusOutOfStock Status = "OUT_OF_STOCK"
)

// LowStockThreshold is the highest quantity still reported as LOW_STOCK.
const LowStockThreshold = 10

// DeriveStatus maps a quantity to its stock status.
func DeriveStatus(quantity int) Status {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// ParseStatus accepts exactly one of the three status values.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusInStock, StatusLowStock, StatusOutOfStock:
		return st, true
	}
	return "", false
}

// Priority ranks statuses for search results, most available first.
func (s Status) Priority() int {
	switch s {
	case StatusInStock:
		return 0
	case StatusLowStock:
		return 1
	default:
		return 2
	}
}

package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Prices go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Medicine is a single stocked item owned by exactly one store.
type Medicine struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	StoreID     string          `json:"storeId" gorm:"type:varchar(36);not null;index"`
	Name        string          `json:"name" gorm:"type:varchar(255);not null"`
	GenericName string          `json:"genericName,omitempty" gorm:"type:varchar(255)"`
	Brand       string          `json:"brand,omitempty" gorm:"type:varchar(255)"`
	Quantity    int             `json:"quantity" gorm:"not null;default:0"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null;default:0"`
	Status      Status          `json:"status" gorm:"type:varchar(20);not null;default:'OUT_OF_STOCK'"`
	Version     int             `json:"version" gorm:"not null;default:1"`
	LastUpdated time.Time       `json:"lastUpdated"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt" gorm:"index"`
	// SearchText is SearchKey as stored, so LIKE never depends on the database's case folding.
	SearchText  string          `json:"-" gorm:"type:text"`
}

// SearchKey is the lower-cased name, generic name and brand matched by public search.
func (m *Medicine) SearchKey() string {
	return strings.ToLower(m.Name + "\n" + m.GenericName + "\n" + m.Brand)
}

// BeforeSave keeps SearchText in step with the searchable columns.
func (m *Medicine) BeforeSave(tx *gorm.DB) error {
	m.SearchText = m.SearchKey()
	return nil
}

package models

import "time"

// Store is a registered pharmacy account.
type Store struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	OwnerName   string    `json:"ownerName,omitempty" gorm:"type:varchar(255)"`
	Email       string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password    string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	Phone       string    `json:"phone,omitempty" gorm:"type:varchar(32)"`
	AddressLine string    `json:"addressLine,omitempty" gorm:"type:varchar(255)"`
	City        string    `json:"city,omitempty" gorm:"type:varchar(100)"`
	State       string    `json:"state,omitempty" gorm:"type:varchar(100)"`
	Pincode     string    `json:"pincode" gorm:"type:varchar(12);not null;index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

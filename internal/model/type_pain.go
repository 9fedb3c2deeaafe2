package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TypePain is a sellable bread type. Prix and poids are snapshotted onto
// order lines at creation time, so historical totals survive price changes.
// Deletion policy: archived (Active=false) when referenced by any order line,
// hard-deleted otherwise.
type TypePain struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string          `gorm:"uniqueIndex;not null"`
	Prix        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Poids       decimal.Decimal `gorm:"type:decimal(12,2);not null"` // grams per unit
	Description *string
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (TypePain) TableName() string { return "types_pain" }

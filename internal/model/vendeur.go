package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vendeur is a customer/reseller identity addressable by a unique card number.
// Orders keep a denormalized card/name snapshot, so a vendeur can be archived
// or renamed without rewriting history.
type Vendeur struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	CarteNumero string    `gorm:"uniqueIndex;not null"`
	Telephone   *string
	Adresse     *string
	// PourcentageCommission is applied to total sales; constrained to [0,100].
	PourcentageCommission decimal.Decimal `gorm:"type:decimal(5,2);not null;default:25"`
	Active                bool            `gorm:"not null;default:true"`
	CreatedAt             time.Time
	UpdatedAt             time.Time

	Commandes []Commande `gorm:"foreignKey:VendeurID"`
}

func (Vendeur) TableName() string { return "vendeurs" }

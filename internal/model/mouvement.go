package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mouvement directions.
const (
	MouvementEntree = "entree"
	MouvementSortie = "sortie"
)

// Mouvement is a single entry or exit of cash against a session's drawer.
// Montant is always positive; direction is carried by Type. Mouvements are
// immutable history, with one exception: an order retracts (deletes) its
// linked mouvement on cancellation.
type Mouvement struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type      string          `gorm:"type:varchar(10);not null"`
	Montant   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Motif is mandatory for sorties.
	Motif  string    `gorm:"not null"`
	UserID uuid.UUID `gorm:"type:uuid;not null"`
	// CommandeID links back to the originating order, if any. The link is
	// exclusive: each mouvement traces to at most one commande.
	CommandeID *uuid.UUID `gorm:"type:uuid"`
	// PaieRef tags sorties issued by the external payroll flow. Passed
	// explicitly by the caller, never derived from ambient context.
	PaieRef   *string `gorm:"type:varchar(64)"`
	CreatedAt time.Time
}

func (Mouvement) TableName() string { return "mouvements" }

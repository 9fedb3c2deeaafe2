package model

import (
	"time"

	"github.com/google/uuid"
)

// Session states.
const (
	SessionOuverte = "ouvert"
	SessionFermee  = "ferme"
)

// Session represents one cashier's working period. At most one open session
// may exist per cashier, enforced by a partial unique index on
// (user_id) WHERE state = 'ouvert' (see infra.applySchemaPatches).
// Sessions are never deleted; they are kept for audit.
type Session struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"not null"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	State       string    `gorm:"type:varchar(20);not null;default:'ouvert'"`
	Date        time.Time `gorm:"not null"`
	DateCloture *time.Time

	Commandes  []Commande  `gorm:"foreignKey:SessionID"`
	Mouvements []Mouvement `gorm:"foreignKey:SessionID"`
}

func (Session) TableName() string { return "sessions" }

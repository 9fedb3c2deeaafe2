package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Commande states. Confirmation passes through CommandeConfirmee transiently
// and rests in CommandeEnAttenteLivraison; the intermediate state is never
// persisted on its own.
const (
	CommandeDraft              = "draft"
	CommandeConfirmee          = "confirme"
	CommandeEnAttenteLivraison = "en_attente_livraison"
	CommandeLivree             = "livre"
	CommandeAnnulee            = "annule"
)

// Payment types.
const (
	PaiementCash = "cash"
	PaiementBP   = "bp" // settled at end of month, excluded from cash-in-drawer
)

// Payment states.
const (
	PaiementNonPayee = "non_payee"
	PaiementPayee    = "payee"
)

// Commande is a customer order. A confirmed cash commande owns exactly one
// entree mouvement whose montant tracks the commande total until cancellation.
type Commande struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// Numero comes from the commandes_numero_seq Postgres sequence; Name is
	// its printable form (CMD-00042) and is immutable once assigned.
	Numero    int       `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index"`
	Date      time.Time `gorm:"not null"`

	// VendeurID is nullified if the vendeur is ever deleted; the card/name
	// snapshots below preserve the historical identity.
	VendeurID  *uuid.UUID `gorm:"type:uuid;index"`
	ClientCard *string    `gorm:"index"`
	ClientName *string

	TypePaiement string `gorm:"type:varchar(10);not null;default:'cash'"`
	// IsVC marks a cash sale whose delivery target total includes the 25%
	// commission surcharge. Informational; does not alter the cash movement.
	IsVC bool `gorm:"not null;default:false"`

	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	State         string          `gorm:"type:varchar(30);not null;default:'draft'"`
	PaiementState string          `gorm:"type:varchar(20);not null;default:'non_payee'"`

	MouvementID    *uuid.UUID `gorm:"type:uuid"`
	IdempotencyKey *string    `gorm:"uniqueIndex"`

	Lines []CommandeLine `gorm:"foreignKey:CommandeID;constraint:OnDelete:CASCADE"`

	Vendeur   *Vendeur   `gorm:"foreignKey:VendeurID"`
	Mouvement *Mouvement `gorm:"foreignKey:MouvementID"`
}

func (Commande) TableName() string { return "commandes" }

// CommandeLine snapshots prix/poids from the referenced TypePain at creation
// time. SousTotal and PoidsTotal are stored, not recomputed live.
type CommandeLine struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CommandeID uuid.UUID `gorm:"type:uuid;not null;index"`
	TypePainID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantite   int       `gorm:"not null"`

	PrixUnitaire  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PoidsUnitaire decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SousTotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PoidsTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	TypePain *TypePain `gorm:"foreignKey:TypePainID"`
}

func (CommandeLine) TableName() string { return "commande_lines" }

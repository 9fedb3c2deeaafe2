package dto

import "github.com/shopspring/decimal"

// CashRequest is shared by cashIn (entree) and cashOut (sortie).
// Motif is optional for entrees and mandatory for sorties.
type CashRequest struct {
	SessionID string          `json:"session_id" validate:"required,uuid"`
	Montant   decimal.Decimal `json:"montant"    validate:"required"`
	Motif     string          `json:"motif"`
	// PaieRef links a sortie to the external payroll flow, when present.
	PaieRef *string `json:"paie_ref"`
}

type MouvementResponse struct {
	ID         string          `json:"id"`
	SessionID  string          `json:"session_id"`
	Type       string          `json:"type"`
	Montant    decimal.Decimal `json:"montant"`
	Motif      string          `json:"motif"`
	CommandeID *string         `json:"commande_id"`
	PaieRef    *string         `json:"paie_ref"`
	CreatedAt  string          `json:"created_at"`
}

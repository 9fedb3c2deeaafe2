package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LigneCommandeRequest struct {
	TypePainID string `json:"type_pain_id" validate:"required,uuid"`
	Quantite   int    `json:"quantite"     validate:"required,min=1"`
}

type CreateCommandeRequest struct {
	// SessionID is optional; it defaults to the caller's open session.
	SessionID    *string `json:"session_id"  validate:"omitempty,uuid"`
	ClientCard   *string `json:"client_card"`
	ClientName   *string `json:"client_name"`
	TypePaiement string  `json:"type_paiement" validate:"required,oneof=cash bp"`
	// IsVC marks a cash sale whose delivery target includes +25% commission.
	IsVC    bool                   `json:"is_vc"`
	Lignes  []LigneCommandeRequest `json:"lignes"  validate:"required,min=1,dive"`
	Confirm bool                   `json:"confirm"`
	// IdempotencyKey: repeated submissions with the same key return the
	// original commande instead of creating a duplicate.
	IdempotencyKey *string `json:"idempotency_key"`
}

// UpdateClientRequest updates the client card (re-running vendor resolution)
// and optionally replaces the order lines in the same atomic update.
type UpdateClientRequest struct {
	ClientCard string                 `json:"client_card" validate:"required"`
	ClientName *string                `json:"client_name"`
	Lignes     []LigneCommandeRequest `json:"lignes" validate:"omitempty,min=1,dive"`
}

type CommandeListFilter struct {
	SessionID string `form:"session_id" validate:"omitempty,uuid"`
	State     string `form:"state"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LigneCommandeResponse struct {
	TypePain     string          `json:"type_pain"`
	Quantite     int             `json:"quantite"`
	PrixUnitaire decimal.Decimal `json:"prix_unitaire"`
	SousTotal    decimal.Decimal `json:"sous_total"`
	PoidsTotal   decimal.Decimal `json:"poids_total"`
}

type CommandeResponse struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	SessionID      string                  `json:"session_id"`
	ClientCard     *string                 `json:"client_card"`
	ClientName     *string                 `json:"client_name"`
	TypePaiement   string                  `json:"type_paiement"`
	IsVC           bool                    `json:"is_vc"`
	State          string                  `json:"state"`
	PaiementState  string                  `json:"paiement_state"`
	Total          decimal.Decimal         `json:"total"`
	MouvementID    *string                 `json:"mouvement_id"`
	Lignes         []LigneCommandeResponse `json:"lignes"`
	Date           string                  `json:"date"`
}

type CommandeListResponse struct {
	Data  []CommandeResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

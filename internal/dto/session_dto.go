package dto

import "github.com/shopspring/decimal"

// ManageSessionsRequest drives POST /v1/sessions:
//   - state "open"            → open (or return) the caller's session
//   - state "close"           → close session_id
//   - state "ouvert"/"ferme"  → list sessions filtered by state
//   - state empty             → list all sessions
type ManageSessionsRequest struct {
	State     string  `json:"state"      validate:"omitempty,oneof=open close ouvert ferme"`
	SessionID *string `json:"session_id" validate:"omitempty,uuid"`
	Page      int     `json:"page"`
	Limit     int     `json:"limit"`
}

// SessionResponse carries the session row plus its dashboard aggregates,
// recomputed from the current commande/mouvement sets at read time.
type SessionResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Date            string          `json:"date"`
	DateCloture     *string         `json:"date_cloture"`
	State           string          `json:"state"`
	TotalCommandes  int             `json:"total_commandes"`
	TotalMontant    decimal.Decimal `json:"total_montant"`
	TotalMouvements int             `json:"total_mouvements"`
	MontantEnCaisse decimal.Decimal `json:"montant_en_caisse"`
	MontantSortie   decimal.Decimal `json:"montant_sortie"`
	TotalBP         decimal.Decimal `json:"total_bp"`
}

type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
	Total    int64             `json:"total"`
}

package dto

import "github.com/shopspring/decimal"

type CreateVendeurRequest struct {
	Name                  string          `json:"name"         validate:"required"`
	CarteNumero           string          `json:"carte_numero" validate:"required"`
	Telephone             *string         `json:"telephone"`
	Adresse               *string         `json:"adresse"`
	PourcentageCommission decimal.Decimal `json:"pourcentage_commission" validate:"min=0,max=100"`
}

type VendeurResponse struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	CarteNumero           string          `json:"carte_numero"`
	Telephone             *string         `json:"telephone"`
	Adresse               *string         `json:"adresse"`
	PourcentageCommission decimal.Decimal `json:"pourcentage_commission"`
	Active                bool            `json:"active"`
}

// VendeurStatsResponse adds the derived sales figures, recomputed from the
// vendeur's associated commandes on every read.
type VendeurStatsResponse struct {
	VendeurResponse
	TotalCommandes   int64           `json:"total_commandes"`
	TotalVentes      decimal.Decimal `json:"total_ventes"`
	CommissionTotale decimal.Decimal `json:"commission_totale"`
}

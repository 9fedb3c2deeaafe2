package dto

import "github.com/shopspring/decimal"

type CreatePainRequest struct {
	Name        string          `json:"name"  validate:"required"`
	Prix        decimal.Decimal `json:"prix"  validate:"required"`
	Poids       decimal.Decimal `json:"poids" validate:"required"`
	Description *string         `json:"description"`
}

type UpdatePainRequest struct {
	Name        *string          `json:"name"  validate:"omitempty,min=1"`
	Prix        *decimal.Decimal `json:"prix"`
	Poids       *decimal.Decimal `json:"poids"`
	Description *string          `json:"description"`
	Active      *bool            `json:"active"`
}

type PainResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Prix        decimal.Decimal `json:"prix"`
	Poids       decimal.Decimal `json:"poids"`
	Description *string         `json:"description"`
	Active      bool            `json:"active"`
}

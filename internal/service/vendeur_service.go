package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/arliBukasa/pos-caisse/internal/dto"
	"github.com/arliBukasa/pos-caisse/internal/model"
	"github.com/arliBukasa/pos-caisse/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VendeurService interface {
	// ResolveOrCreate looks a vendeur up by exact card number, creating it if
	// absent. Safe under concurrent calls with the same unseen card: a create
	// that loses the race re-fetches and returns the winner's row.
	ResolveOrCreate(ctx context.Context, carte, fallbackName string) (*model.Vendeur, error)
	ResolveOrCreateTx(tx *gorm.DB, carte, fallbackName string) (*model.Vendeur, error)
	Search(ctx context.Context, query string, limit int) ([]dto.VendeurResponse, error)
	Creer(ctx context.Context, req dto.CreateVendeurRequest) (*dto.VendeurResponse, error)
	Stats(ctx context.Context, id uuid.UUID) (*dto.VendeurStatsResponse, error)
}

type vendeurService struct {
	repo repository.VendeurRepository
}

func NewVendeurService(repo repository.VendeurRepository) VendeurService {
	return &vendeurService{repo: repo}
}

func (s *vendeurService) ResolveOrCreate(ctx context.Context, carte, fallbackName string) (*model.Vendeur, error) {
	var v *model.Vendeur
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var txErr error
		v, txErr = s.ResolveOrCreateTx(tx, carte, fallbackName)
		return txErr
	})
	return v, err
}

func (s *vendeurService) ResolveOrCreateTx(tx *gorm.DB, carte, fallbackName string) (*model.Vendeur, error) {
	carte = strings.TrimSpace(carte)
	if carte == "" {
		return nil, fmt.Errorf("%w: numero de carte vide", ErrValidation)
	}

	if v, err := s.repo.FindByCarteTx(tx, carte); err == nil {
		return v, nil
	}

	name := strings.TrimSpace(fallbackName)
	if name == "" {
		name = fmt.Sprintf("Carte %s", carte)
	}
	v := &model.Vendeur{
		Name:                  name,
		CarteNumero:           carte,
		PourcentageCommission: decimal.NewFromInt(25),
		Active:                true,
	}
	if err := s.repo.CreateTx(tx, v); err != nil {
		// Lost a creation race on the unique card index; the row exists now.
		if existing, ferr := s.repo.FindByCarteTx(tx, carte); ferr == nil {
			return existing, nil
		}
		return nil, err
	}
	return v, nil
}

func (s *vendeurService) Search(ctx context.Context, query string, limit int) ([]dto.VendeurResponse, error) {
	if limit < 1 || limit > 200 {
		limit = 100
	}
	vendeurs, err := s.repo.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VendeurResponse, 0, len(vendeurs))
	for _, v := range vendeurs {
		out = append(out, vendeurToResponse(&v))
	}
	return out, nil
}

func (s *vendeurService) Creer(ctx context.Context, req dto.CreateVendeurRequest) (*dto.VendeurResponse, error) {
	carte := strings.TrimSpace(req.CarteNumero)
	if carte == "" {
		return nil, fmt.Errorf("%w: numero de carte vide", ErrValidation)
	}
	pct := req.PourcentageCommission
	if pct.IsZero() {
		pct = decimal.NewFromInt(25)
	}
	v := &model.Vendeur{
		Name:                  req.Name,
		CarteNumero:           carte,
		Telephone:             req.Telephone,
		Adresse:               req.Adresse,
		PourcentageCommission: pct,
		Active:                true,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("%w: le numero de carte doit etre unique", ErrValidation)
	}
	resp := vendeurToResponse(v)
	return &resp, nil
}

// Stats recomputes the derived sales figures from the vendeur's commandes.
func (s *vendeurService) Stats(ctx context.Context, id uuid.UUID) (*dto.VendeurStatsResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	count, totalVentes, err := s.repo.SumCommandes(ctx, v.ID, v.CarteNumero)
	if err != nil {
		return nil, err
	}
	commission := totalVentes.Mul(v.PourcentageCommission).Div(decimal.NewFromInt(100))
	return &dto.VendeurStatsResponse{
		VendeurResponse:  vendeurToResponse(v),
		TotalCommandes:   count,
		TotalVentes:      totalVentes,
		CommissionTotale: commission,
	}, nil
}

func vendeurToResponse(v *model.Vendeur) dto.VendeurResponse {
	return dto.VendeurResponse{
		ID:                    v.ID.String(),
		Name:                  v.Name,
		CarteNumero:           v.CarteNumero,
		Telephone:             v.Telephone,
		Adresse:               v.Adresse,
		PourcentageCommission: v.PourcentageCommission,
		Active:                v.Active,
	}
}

package service

import (
	"context"
	"strings"

	"github.com/arliBukasa/pos-caisse/internal/dto"
	"github.com/arliBukasa/pos-caisse/internal/model"
	"github.com/arliBukasa/pos-caisse/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AppendMouvement carries everything Ledger.Append needs. PaieRef is passed
// explicitly by the payroll flow rather than smuggled through the context.
type AppendMouvement struct {
	SessionID  uuid.UUID
	Type       string
	Montant    decimal.Decimal
	Motif      string
	UserID     uuid.UUID
	CommandeID *uuid.UUID
	PaieRef    *string
}

type MouvementService interface {
	Append(ctx context.Context, req AppendMouvement) (*model.Mouvement, error)
	// AppendTx runs inside the caller's transaction; it locks the session row
	// before the open-state check so an append racing a close never partially
	// applies.
	AppendTx(tx *gorm.DB, req AppendMouvement) (*model.Mouvement, error)
	// Retract deletes a mouvement (order cancellation only); no-op when the
	// mouvement is already gone.
	Retract(ctx context.Context, id uuid.UUID) error
	RetractTx(tx *gorm.DB, id uuid.UUID) error
	// SyncCommandeTx re-points a linked mouvement at its order's new total.
	SyncCommandeTx(tx *gorm.DB, id uuid.UUID, montant decimal.Decimal, motif string) error
	// CashIn / CashOut are the manual drawer operations; the acting user must
	// own the session or be an administrator.
	CashIn(ctx context.Context, userID uuid.UUID, isAdmin bool, req dto.CashRequest) (*model.Mouvement, error)
	CashOut(ctx context.Context, userID uuid.UUID, isAdmin bool, req dto.CashRequest) (*model.Mouvement, error)
	List(ctx context.Context, sessionID uuid.UUID) ([]model.Mouvement, error)
}

type mouvementService struct {
	repo     repository.MouvementRepository
	sessions repository.SessionRepository
}

func NewMouvementService(repo repository.MouvementRepository, sessions repository.SessionRepository) MouvementService {
	return &mouvementService{repo: repo, sessions: sessions}
}

func (s *mouvementService) Append(ctx context.Context, req AppendMouvement) (*model.Mouvement, error) {
	var mov *model.Mouvement
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var txErr error
		mov, txErr = s.AppendTx(tx, req)
		return txErr
	})
	return mov, err
}

func (s *mouvementService) AppendTx(tx *gorm.DB, req AppendMouvement) (*model.Mouvement, error) {
	if !req.Montant.IsPositive() {
		return nil, ErrMontantInvalide
	}
	motif := strings.TrimSpace(req.Motif)
	if req.Type == model.MouvementSortie && motif == "" {
		return nil, ErrMotifManquant
	}
	if motif == "" {
		motif = "Entree de caisse"
	}

	session, err := s.sessions.FindForUpdateTx(tx, req.SessionID)
	if err != nil {
		return nil, ErrNotFound
	}
	if session.State != model.SessionOuverte {
		return nil, ErrSessionFermee
	}

	mov := &model.Mouvement{
		SessionID:  req.SessionID,
		Type:       req.Type,
		Montant:    req.Montant,
		Motif:      motif,
		UserID:     req.UserID,
		CommandeID: req.CommandeID,
		PaieRef:    req.PaieRef,
	}
	if err := s.repo.CreateTx(tx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

func (s *mouvementService) Retract(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.RetractTx(tx, id)
	})
}

func (s *mouvementService) RetractTx(tx *gorm.DB, id uuid.UUID) error {
	// Delete is a no-op when the row no longer exists.
	return s.repo.DeleteTx(tx, id)
}

func (s *mouvementService) SyncCommandeTx(tx *gorm.DB, id uuid.UUID, montant decimal.Decimal, motif string) error {
	if !montant.IsPositive() {
		return ErrMontantInvalide
	}
	mov, err := s.repo.FindByIDTx(tx, id)
	if err != nil {
		return ErrNotFound
	}
	mov.Montant = montant
	mov.Motif = motif
	return s.repo.UpdateTx(tx, mov)
}

func (s *mouvementService) CashIn(ctx context.Context, userID uuid.UUID, isAdmin bool, req dto.CashRequest) (*model.Mouvement, error) {
	return s.manual(ctx, model.MouvementEntree, userID, isAdmin, req)
}

func (s *mouvementService) CashOut(ctx context.Context, userID uuid.UUID, isAdmin bool, req dto.CashRequest) (*model.Mouvement, error) {
	return s.manual(ctx, model.MouvementSortie, userID, isAdmin, req)
}

func (s *mouvementService) manual(ctx context.Context, typ string, userID uuid.UUID, isAdmin bool, req dto.CashRequest) (*model.Mouvement, error) {
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return nil, ErrValidation
	}

	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, ErrNotFound
	}
	if session.UserID != userID && !isAdmin {
		return nil, ErrForbidden
	}

	return s.Append(ctx, AppendMouvement{
		SessionID: sessionID,
		Type:      typ,
		Montant:   req.Montant,
		Motif:     req.Motif,
		UserID:    userID,
		PaieRef:   req.PaieRef,
	})
}

func (s *mouvementService) List(ctx context.Context, sessionID uuid.UUID) ([]model.Mouvement, error) {
	return s.repo.ListBySession(ctx, sessionID)
}

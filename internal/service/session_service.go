package service

import (
	"context"
	"fmt"
	"time"

	"github.com/arliBukasa/pos-caisse/internal/dto"
	"github.com/arliBukasa/pos-caisse/internal/model"
	"github.com/arliBukasa/pos-caisse/internal/repository"
	"github.com/arliBukasa/pos-caisse/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SessionService interface {
	// Open returns the cashier's existing open session, creating one only if
	// none exists. At most one open session per cashier, even under races.
	Open(ctx context.Context, userID uuid.UUID) (*dto.SessionResponse, error)
	// Close fails with ErrForbidden unless the acting user owns the session
	// or is an administrator. Closing never invalidates existing history.
	Close(ctx context.Context, sessionID, actingUserID uuid.UUID, isAdmin bool) error
	// Reopen clears the closing timestamp (administrative override).
	Reopen(ctx context.Context, sessionID uuid.UUID) error
	Dashboard(ctx context.Context, sessionID uuid.UUID) (*dto.SessionResponse, error)
	List(ctx context.Context, state string, page, limit int) (*dto.SessionListResponse, error)
	// EnqueueRapport dispatches the end-of-session sales report PDF job;
	// fire-and-forget, never blocks a core transaction.
	EnqueueRapport(ctx context.Context, sessionID uuid.UUID) error
}

type sessionService struct {
	repo       repository.SessionRepository
	mouvements repository.MouvementRepository
	dispatcher *worker.Dispatcher
}

func NewSessionService(repo repository.SessionRepository, mouvements repository.MouvementRepository, dispatcher *worker.Dispatcher) SessionService {
	return &sessionService{repo: repo, mouvements: mouvements, dispatcher: dispatcher}
}

func (s *sessionService) Open(ctx context.Context, userID uuid.UUID) (*dto.SessionResponse, error) {
	if existing, err := s.repo.FindOuverteParUser(ctx, userID); err == nil && existing != nil {
		return s.Dashboard(ctx, existing.ID)
	}

	session := &model.Session{
		Name:   fmt.Sprintf("Session-%s", time.Now().Format("2006-01-02")),
		UserID: userID,
		State:  model.SessionOuverte,
		Date:   time.Now(),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		// Two opens racing: the partial unique index on (user_id) WHERE
		// state='ouvert' rejects the loser, which must return the winner's
		// session instead of failing.
		if existing, ferr := s.repo.FindOuverteParUser(ctx, userID); ferr == nil && existing != nil {
			return s.Dashboard(ctx, existing.ID)
		}
		return nil, err
	}
	return s.Dashboard(ctx, session.ID)
}

func (s *sessionService) Close(ctx context.Context, sessionID, actingUserID uuid.UUID, isAdmin bool) error {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return ErrNotFound
	}
	if session.UserID != actingUserID && !isAdmin {
		return ErrForbidden
	}
	if session.State == model.SessionFermee {
		return nil // already closed, nothing to do
	}
	now := time.Now()
	session.State = model.SessionFermee
	session.DateCloture = &now
	return s.repo.Update(ctx, session)
}

func (s *sessionService) Reopen(ctx context.Context, sessionID uuid.UUID) error {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return ErrNotFound
	}
	if session.State == model.SessionOuverte {
		return nil
	}
	// The owner may not hold two open sessions at once.
	if existing, err := s.repo.FindOuverteParUser(ctx, session.UserID); err == nil && existing != nil {
		return ErrEtatInvalide
	}
	session.State = model.SessionOuverte
	session.DateCloture = nil
	return s.repo.Update(ctx, session)
}

func (s *sessionService) Dashboard(ctx context.Context, sessionID uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.repo.FindWithChildren(ctx, sessionID)
	if err != nil {
		return nil, ErrNotFound
	}
	resp := sessionToResponse(session)

	// Drawer totals come from the SQL aggregate rather than the loaded slice,
	// so the figures reflect every mouvement committed at read time.
	entrees, sorties, err := s.mouvements.SumParType(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	resp.MontantEnCaisse = entrees.Sub(sorties)
	resp.MontantSortie = sorties
	return &resp, nil
}

func (s *sessionService) List(ctx context.Context, state string, page, limit int) (*dto.SessionListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	sessions, total, err := s.repo.List(ctx, state, page, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, sessionToResponse(&sessions[i]))
	}
	return &dto.SessionListResponse{Sessions: out, Page: page, Limit: limit, Total: total}, nil
}

func (s *sessionService) EnqueueRapport(ctx context.Context, sessionID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, sessionID); err != nil {
		return ErrNotFound
	}
	if s.dispatcher == nil {
		return nil
	}
	return s.dispatcher.EnqueueRapport(ctx, worker.RapportPayload{SessionID: sessionID.String()})
}

// sessionToResponse recomputes every dashboard aggregate from the loaded
// commande/mouvement sets; nothing is read from stored aggregate columns.
func sessionToResponse(s *model.Session) dto.SessionResponse {
	totalMontant, totalBP := decimal.Zero, decimal.Zero
	for _, c := range s.Commandes {
		totalMontant = totalMontant.Add(c.Total)
		if c.TypePaiement == model.PaiementBP {
			totalBP = totalBP.Add(c.Total)
		}
	}

	entrees, sorties := decimal.Zero, decimal.Zero
	for _, m := range s.Mouvements {
		switch m.Type {
		case model.MouvementEntree:
			entrees = entrees.Add(m.Montant)
		case model.MouvementSortie:
			sorties = sorties.Add(m.Montant)
		}
	}

	var cloture *string
	if s.DateCloture != nil {
		t := s.DateCloture.Format("2006-01-02T15:04:05Z")
		cloture = &t
	}

	return dto.SessionResponse{
		ID:              s.ID.String(),
		Name:            s.Name,
		Date:            s.Date.Format("2006-01-02T15:04:05Z"),
		DateCloture:     cloture,
		State:           s.State,
		TotalCommandes:  len(s.Commandes),
		TotalMontant:    totalMontant,
		TotalMouvements: len(s.Mouvements),
		MontantEnCaisse: entrees.Sub(sorties),
		MontantSortie:   sorties,
		TotalBP:         totalBP,
	}
}

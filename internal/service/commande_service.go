package service

import (
	"context"
	"fmt"
	"time"

	"github.com/arliBukasa/pos-caisse/internal/dto"
	"github.com/arliBukasa/pos-caisse/internal/model"
	"github.com/arliBukasa/pos-caisse/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CommandeService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateCommandeRequest) (*dto.CommandeResponse, error)
	// Confirmer moves a draft through confirme into en_attente_livraison and,
	// for cash orders, creates the single entree mouvement tracking the total.
	// Confirming a non-draft commande is a no-op success.
	Confirmer(ctx context.Context, id, userID uuid.UUID) (*dto.CommandeResponse, error)
	// Annuler retracts the linked mouvement (if any) and sets state=annule.
	// Re-cancelling is idempotent; a delivered commande cannot be cancelled.
	Annuler(ctx context.Context, id uuid.UUID) error
	Livrer(ctx context.Context, id uuid.UUID) error
	MarquerPayee(ctx context.Context, id uuid.UUID) error
	// UpdateClient re-runs vendor resolution for the new card and optionally
	// replaces the lines; when the total changes and a mouvement is linked,
	// the mouvement's montant and motif are synced in the same transaction.
	UpdateClient(ctx context.Context, id, userID uuid.UUID, req dto.UpdateClientRequest) (*dto.CommandeResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CommandeResponse, error)
	List(ctx context.Context, filter dto.CommandeListFilter) (*dto.CommandeListResponse, error)
}

type commandeService struct {
	repo       repository.CommandeRepository
	sessions   repository.SessionRepository
	pains      repository.PainRepository
	vendeurs   VendeurService
	mouvements MouvementService
}

func NewCommandeService(
	repo repository.CommandeRepository,
	sessions repository.SessionRepository,
	pains repository.PainRepository,
	vendeurs VendeurService,
	mouvements MouvementService,
) CommandeService {
	return &commandeService{
		repo:       repo,
		sessions:   sessions,
		pains:      pains,
		vendeurs:   vendeurs,
		mouvements: mouvements,
	}
}

// ── Create ────────────────────────────────────────────────────────────────────
// 1. Idempotency-key replay returns the original commande untouched.
// 2. Session resolution: explicit id, else the caller's open session.
// 3. Lines validated against active types de pain; prix/poids snapshotted.
// 4. Vendor resolved or auto-created from the client card.
// 5. Commande persisted in draft (plus optional immediate confirmation) in
//    one transaction.

func (s *commandeService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateCommandeRequest) (*dto.CommandeResponse, error) {
	if req.IdempotencyKey != nil && *req.IdempotencyKey != "" {
		if existing, err := s.repo.FindByIdempotencyKey(ctx, *req.IdempotencyKey); err == nil {
			return commandeToResponse(existing), nil
		}
	}

	session, err := s.resolveSession(ctx, userID, req.SessionID)
	if err != nil {
		return nil, err
	}

	lines, total, err := s.buildLines(ctx, req.Lignes)
	if err != nil {
		return nil, err
	}

	var commande model.Commande
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumero(tx)
		if err != nil {
			return err
		}

		commande = model.Commande{
			Numero:         numero,
			Name:           fmt.Sprintf("CMD-%05d", numero),
			Date:           time.Now(),
			SessionID:      session.ID,
			ClientCard:     req.ClientCard,
			ClientName:     req.ClientName,
			TypePaiement:   req.TypePaiement,
			IsVC:           req.IsVC,
			Total:          total,
			State:          model.CommandeDraft,
			PaiementState:  model.PaiementNonPayee,
			IdempotencyKey: req.IdempotencyKey,
			Lines:          lines,
		}

		if req.ClientCard != nil && *req.ClientCard != "" {
			fallback := ""
			if req.ClientName != nil {
				fallback = *req.ClientName
			}
			vendeur, err := s.vendeurs.ResolveOrCreateTx(tx, *req.ClientCard, fallback)
			if err != nil {
				return err
			}
			commande.VendeurID = &vendeur.ID
			if commande.ClientName == nil || *commande.ClientName == "" {
				name := vendeur.Name
				commande.ClientName = &name
			}
		}

		if err := s.repo.CreateTx(tx, &commande); err != nil {
			return err
		}

		if req.Confirm {
			return s.confirmTx(tx, &commande, userID)
		}
		return nil
	})
	if txErr != nil {
		// A concurrent duplicate submission may have won the race on the
		// idempotency key; in that case the stored commande IS the result.
		if req.IdempotencyKey != nil && *req.IdempotencyKey != "" {
			if existing, err := s.repo.FindByIdempotencyKey(ctx, *req.IdempotencyKey); err == nil {
				return commandeToResponse(existing), nil
			}
		}
		return nil, txErr
	}

	return commandeToResponse(&commande), nil
}

func (s *commandeService) resolveSession(ctx context.Context, userID uuid.UUID, sessionID *string) (*model.Session, error) {
	if sessionID != nil && *sessionID != "" {
		id, err := uuid.Parse(*sessionID)
		if err != nil {
			return nil, ErrValidation
		}
		session, err := s.sessions.FindByID(ctx, id)
		if err != nil {
			return nil, ErrNotFound
		}
		return session, nil
	}
	session, err := s.sessions.FindOuverteParUser(ctx, userID)
	if err != nil || session == nil {
		return nil, ErrAucuneSessionOuverte
	}
	return session, nil
}

func (s *commandeService) buildLines(ctx context.Context, lignes []dto.LigneCommandeRequest) ([]model.CommandeLine, decimal.Decimal, error) {
	if len(lignes) == 0 {
		return nil, decimal.Zero, ErrLigneInvalide
	}
	lines := make([]model.CommandeLine, 0, len(lignes))
	total := decimal.Zero
	for _, l := range lignes {
		painID, err := uuid.Parse(l.TypePainID)
		if err != nil || l.Quantite <= 0 {
			return nil, decimal.Zero, ErrLigneInvalide
		}
		pain, err := s.pains.FindByID(ctx, painID)
		if err != nil || !pain.Active {
			return nil, decimal.Zero, ErrLigneInvalide
		}
		qty := decimal.NewFromInt(int64(l.Quantite))
		line := model.CommandeLine{
			TypePainID:    pain.ID,
			Quantite:      l.Quantite,
			PrixUnitaire:  pain.Prix,
			PoidsUnitaire: pain.Poids,
			SousTotal:     pain.Prix.Mul(qty),
			PoidsTotal:    pain.Poids.Mul(qty),
		}
		total = total.Add(line.SousTotal)
		lines = append(lines, line)
	}
	return lines, total, nil
}

// ── Confirmer ─────────────────────────────────────────────────────────────────

func (s *commandeService) Confirmer(ctx context.Context, id, userID uuid.UUID) (*dto.CommandeResponse, error) {
	var commande *model.Commande
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return ErrNotFound
		}
		commande = c
		if c.State != model.CommandeDraft {
			return nil // already confirmed (or beyond), nothing to redo
		}
		return s.confirmTx(tx, c, userID)
	})
	if txErr != nil {
		return nil, txErr
	}
	return commandeToResponse(commande), nil
}

// confirmTx is the only path that creates a cash mouvement from a commande.
// The confirme state is transient: the commande rests in en_attente_livraison.
func (s *commandeService) confirmTx(tx *gorm.DB, c *model.Commande, userID uuid.UUID) error {
	c.State = model.CommandeConfirmee

	if c.TypePaiement == model.PaiementCash && c.MouvementID == nil {
		clientName := ""
		if c.ClientName != nil {
			clientName = *c.ClientName
		}
		mov, err := s.mouvements.AppendTx(tx, AppendMouvement{
			SessionID:  c.SessionID,
			Type:       model.MouvementEntree,
			Montant:    c.Total,
			Motif:      fmt.Sprintf("Commande %s - Client: %s", c.Name, clientName),
			UserID:     userID,
			CommandeID: &c.ID,
		})
		if err != nil {
			return err
		}
		c.MouvementID = &mov.ID
	}

	c.State = model.CommandeEnAttenteLivraison
	return s.repo.SaveTx(tx, c)
}

// ── Annuler ───────────────────────────────────────────────────────────────────

func (s *commandeService) Annuler(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return ErrNotFound
		}
		switch c.State {
		case model.CommandeAnnulee:
			return nil // idempotent
		case model.CommandeLivree:
			return ErrEtatInvalide
		}

		if c.MouvementID != nil {
			if err := s.mouvements.RetractTx(tx, *c.MouvementID); err != nil {
				return err
			}
			c.MouvementID = nil
		}
		c.State = model.CommandeAnnulee
		return s.repo.SaveTx(tx, c)
	})
}

// ── Livrer / MarquerPayee ─────────────────────────────────────────────────────

func (s *commandeService) Livrer(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return ErrNotFound
		}
		if c.State != model.CommandeEnAttenteLivraison {
			return ErrEtatInvalide
		}
		c.State = model.CommandeLivree
		return s.repo.SaveTx(tx, c)
	})
}

func (s *commandeService) MarquerPayee(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return ErrNotFound
		}
		if c.State == model.CommandeAnnulee {
			return ErrEtatInvalide
		}
		c.PaiementState = model.PaiementPayee
		return s.repo.SaveTx(tx, c)
	})
}

// ── UpdateClient ──────────────────────────────────────────────────────────────

func (s *commandeService) UpdateClient(ctx context.Context, id, userID uuid.UUID, req dto.UpdateClientRequest) (*dto.CommandeResponse, error) {
	var commande *model.Commande
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return ErrNotFound
		}
		if c.State == model.CommandeAnnulee || c.State == model.CommandeLivree {
			return ErrEtatInvalide
		}
		commande = c

		cardChanged := c.ClientCard == nil || *c.ClientCard != req.ClientCard
		if cardChanged {
			fallback := ""
			if req.ClientName != nil {
				fallback = *req.ClientName
			}
			vendeur, err := s.vendeurs.ResolveOrCreateTx(tx, req.ClientCard, fallback)
			if err != nil {
				return err
			}
			card := req.ClientCard
			c.VendeurID = &vendeur.ID
			c.ClientCard = &card
			if req.ClientName != nil && *req.ClientName != "" {
				c.ClientName = req.ClientName
			} else {
				name := vendeur.Name
				c.ClientName = &name
			}
		}

		oldTotal := c.Total
		if len(req.Lignes) > 0 {
			lines, total, err := s.buildLinesTx(tx, req.Lignes)
			if err != nil {
				return err
			}
			if err := s.repo.ReplaceLinesTx(tx, c, lines); err != nil {
				return err
			}
			c.Total = total
		}

		// The linked mouvement must never drift from a live order's total.
		if c.MouvementID != nil && !c.Total.Equal(oldTotal) {
			if err := s.syncMouvementTx(tx, c); err != nil {
				return err
			}
		}

		return s.repo.SaveTx(tx, c)
	})
	if txErr != nil {
		return nil, txErr
	}
	return commandeToResponse(commande), nil
}

// buildLinesTx mirrors buildLines but reads products inside the caller's
// transaction, so the line replacement and the total stay consistent.
func (s *commandeService) buildLinesTx(tx *gorm.DB, lignes []dto.LigneCommandeRequest) ([]model.CommandeLine, decimal.Decimal, error) {
	lines := make([]model.CommandeLine, 0, len(lignes))
	total := decimal.Zero
	for _, l := range lignes {
		painID, err := uuid.Parse(l.TypePainID)
		if err != nil || l.Quantite <= 0 {
			return nil, decimal.Zero, ErrLigneInvalide
		}
		pain, err := s.pains.FindByIDTx(tx, painID)
		if err != nil || !pain.Active {
			return nil, decimal.Zero, ErrLigneInvalide
		}
		qty := decimal.NewFromInt(int64(l.Quantite))
		line := model.CommandeLine{
			TypePainID:    pain.ID,
			Quantite:      l.Quantite,
			PrixUnitaire:  pain.Prix,
			PoidsUnitaire: pain.Poids,
			SousTotal:     pain.Prix.Mul(qty),
			PoidsTotal:    pain.Poids.Mul(qty),
		}
		total = total.Add(line.SousTotal)
		lines = append(lines, line)
	}
	return lines, total, nil
}

func (s *commandeService) syncMouvementTx(tx *gorm.DB, c *model.Commande) error {
	clientName := ""
	if c.ClientName != nil {
		clientName = *c.ClientName
	}
	motif := fmt.Sprintf("Commande %s - Client: %s (Mise a jour)", c.Name, clientName)
	return s.mouvements.SyncCommandeTx(tx, *c.MouvementID, c.Total, motif)
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *commandeService) Get(ctx context.Context, id uuid.UUID) (*dto.CommandeResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return commandeToResponse(c), nil
}

func (s *commandeService) List(ctx context.Context, filter dto.CommandeListFilter) (*dto.CommandeListResponse, error) {
	repoFilter := repository.CommandeFilter{
		State: filter.State,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	if repoFilter.Page < 1 {
		repoFilter.Page = 1
	}
	if repoFilter.Limit < 1 {
		repoFilter.Limit = 50
	}
	if filter.SessionID != "" {
		id, err := uuid.Parse(filter.SessionID)
		if err != nil {
			return nil, ErrValidation
		}
		repoFilter.SessionID = &id
	}
	commandes, total, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CommandeResponse, 0, len(commandes))
	for i := range commandes {
		data = append(data, *commandeToResponse(&commandes[i]))
	}
	return &dto.CommandeListResponse{
		Data:  data,
		Total: total,
		Page:  repoFilter.Page,
		Limit: repoFilter.Limit,
	}, nil
}

func commandeToResponse(c *model.Commande) *dto.CommandeResponse {
	lignes := make([]dto.LigneCommandeResponse, 0, len(c.Lines))
	for _, l := range c.Lines {
		name := ""
		if l.TypePain != nil {
			name = l.TypePain.Name
		}
		lignes = append(lignes, dto.LigneCommandeResponse{
			TypePain:     name,
			Quantite:     l.Quantite,
			PrixUnitaire: l.PrixUnitaire,
			SousTotal:    l.SousTotal,
			PoidsTotal:   l.PoidsTotal,
		})
	}
	var mouvementID *string
	if c.MouvementID != nil {
		id := c.MouvementID.String()
		mouvementID = &id
	}
	return &dto.CommandeResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		SessionID:     c.SessionID.String(),
		ClientCard:    c.ClientCard,
		ClientName:    c.ClientName,
		TypePaiement:  c.TypePaiement,
		IsVC:          c.IsVC,
		State:         c.State,
		PaiementState: c.PaiementState,
		Total:         c.Total,
		MouvementID:   mouvementID,
		Lignes:        lignes,
		Date:          c.Date.Format("2006-01-02T15:04:05Z"),
	}
}

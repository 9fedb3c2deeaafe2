package service

import (
	"context"
	"testing"
	"time"

	"github.com/arliBukasa/pos-caisse/internal/dto"
	"github.com/arliBukasa/pos-caisse/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mouvementEnv struct {
	repo     *fakeMouvementRepo
	sessions *fakeSessionRepo
	svc      MouvementService
	userID   uuid.UUID
	session  *model.Session
}

func newMouvementEnv(t *testing.T) *mouvementEnv {
	t.Helper()

	env := &mouvementEnv{
		repo:     newFakeMouvementRepo(),
		sessions: newFakeSessionRepo(),
		userID:   uuid.New(),
	}
	env.session = &model.Session{
		UserID: env.userID,
		State:  model.SessionOuverte,
		Date:   time.Now(),
	}
	require.NoError(t, env.sessions.Create(context.Background(), env.session))
	env.svc = NewMouvementService(env.repo, env.sessions)
	return env
}

func TestAppendMontantInvalide(t *testing.T) {
	env := newMouvementEnv(t)

	for _, montant := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-50)} {
		_, err := env.svc.Append(context.Background(), AppendMouvement{
			SessionID: env.session.ID,
			Type:      model.MouvementEntree,
			Montant:   montant,
			UserID:    env.userID,
		})
		assert.ErrorIs(t, err, ErrMontantInvalide)
	}
	assert.Empty(t, env.repo.mouvements)
}

func TestAppendSortieSansMotif(t *testing.T) {
	env := newMouvementEnv(t)

	_, err := env.svc.Append(context.Background(), AppendMouvement{
		SessionID: env.session.ID,
		Type:      model.MouvementSortie,
		Montant:   decimal.NewFromInt(100),
		Motif:     "   ",
		UserID:    env.userID,
	})
	assert.ErrorIs(t, err, ErrMotifManquant)
}

func TestAppendEntreeMotifParDefaut(t *testing.T) {
	env := newMouvementEnv(t)

	mov, err := env.svc.Append(context.Background(), AppendMouvement{
		SessionID: env.session.ID,
		Type:      model.MouvementEntree,
		Montant:   decimal.NewFromInt(100),
		UserID:    env.userID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Entree de caisse", mov.Motif)
}

func TestAppendSurSessionFermee(t *testing.T) {
	env := newMouvementEnv(t)
	env.session.State = model.SessionFermee

	_, err := env.svc.Append(context.Background(), AppendMouvement{
		SessionID: env.session.ID,
		Type:      model.MouvementEntree,
		Montant:   decimal.NewFromInt(100),
		UserID:    env.userID,
	})
	assert.ErrorIs(t, err, ErrSessionFermee)
	assert.Empty(t, env.repo.mouvements)
}

func TestCashOutOwnership(t *testing.T) {
	env := newMouvementEnv(t)
	autre := uuid.New()

	req := dto.CashRequest{
		SessionID: env.session.ID.String(),
		Montant:   decimal.NewFromInt(200),
		Motif:     "Achat farine",
	}

	// A stranger without admin rights is refused.
	_, err := env.svc.CashOut(context.Background(), autre, false, req)
	assert.ErrorIs(t, err, ErrForbidden)

	// An administrator may act on any session.
	mov, err := env.svc.CashOut(context.Background(), autre, true, req)
	require.NoError(t, err)
	assert.Equal(t, model.MouvementSortie, mov.Type)
	assert.Equal(t, "Achat farine", mov.Motif)
}

func TestCashInProprietaire(t *testing.T) {
	env := newMouvementEnv(t)

	mov, err := env.svc.CashIn(context.Background(), env.userID, false, dto.CashRequest{
		SessionID: env.session.ID.String(),
		Montant:   decimal.NewFromInt(5000),
		Motif:     "Fonds de caisse",
	})
	require.NoError(t, err)
	assert.Equal(t, model.MouvementEntree, mov.Type)
	assert.True(t, mov.Montant.Equal(decimal.NewFromInt(5000)))
}

func TestCashOutPaieRef(t *testing.T) {
	env := newMouvementEnv(t)

	ref := "PAIE-2026-08"
	mov, err := env.svc.CashOut(context.Background(), env.userID, false, dto.CashRequest{
		SessionID: env.session.ID.String(),
		Montant:   decimal.NewFromInt(300),
		Motif:     "Salaire boulanger",
		PaieRef:   &ref,
	})
	require.NoError(t, err)
	require.NotNil(t, mov.PaieRef)
	assert.Equal(t, ref, *mov.PaieRef)
}

func TestRetractInexistantSansErreur(t *testing.T) {
	env := newMouvementEnv(t)
	assert.NoError(t, env.svc.Retract(context.Background(), uuid.New()))
}

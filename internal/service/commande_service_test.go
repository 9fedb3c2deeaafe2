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

type commandeEnv struct {
	commandes  *fakeCommandeRepo
	sessions   *fakeSessionRepo
	pains      *fakePainRepo
	mouvements *fakeMouvementRepo
	vendeurs   *fakeVendeurRepo

	svc     CommandeService
	userID  uuid.UUID
	session *model.Session
	pain    *model.TypePain
}

func newCommandeEnv(t *testing.T) *commandeEnv {
	t.Helper()

	env := &commandeEnv{
		commandes:  newFakeCommandeRepo(),
		sessions:   newFakeSessionRepo(),
		pains:      newFakePainRepo(),
		mouvements: newFakeMouvementRepo(),
		vendeurs:   newFakeVendeurRepo(),
		userID:     uuid.New(),
	}
	env.vendeurs.commandeRepo = env.commandes

	env.session = &model.Session{
		Name:   "Session-2026-09-01",
		UserID: env.userID,
		State:  model.SessionOuverte,
		Date:   time.Now(),
	}
	require.NoError(t, env.sessions.Create(context.Background(), env.session))

	env.pain = &model.TypePain{
		Name:   "Baguette",
		Prix:   decimal.NewFromInt(500),
		Poids:  decimal.NewFromInt(200),
		Active: true,
	}
	require.NoError(t, env.pains.Create(context.Background(), env.pain))

	vendeurSvc := NewVendeurService(env.vendeurs)
	mouvementSvc := NewMouvementService(env.mouvements, env.sessions)
	env.svc = NewCommandeService(env.commandes, env.sessions, env.pains, vendeurSvc, mouvementSvc)
	return env
}

func (env *commandeEnv) createReq(quantite int) dto.CreateCommandeRequest {
	return dto.CreateCommandeRequest{
		TypePaiement: model.PaiementCash,
		Lignes: []dto.LigneCommandeRequest{
			{TypePainID: env.pain.ID.String(), Quantite: quantite},
		},
	}
}

func TestCreateCommandeDraft(t *testing.T) {
	env := newCommandeEnv(t)

	resp, err := env.svc.Create(context.Background(), env.userID, env.createReq(2))
	require.NoError(t, err)

	assert.Equal(t, "CMD-00001", resp.Name)
	assert.Equal(t, model.CommandeDraft, resp.State)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(1000)))
	assert.Nil(t, resp.MouvementID)
	assert.Empty(t, env.mouvements.mouvements)
}

func TestCreateCommandeConfirmCashCreatesMouvement(t *testing.T) {
	env := newCommandeEnv(t)

	req := env.createReq(2)
	req.Confirm = true
	name := "Alice"
	card := "12345"
	req.ClientCard = &card
	req.ClientName = &name

	resp, err := env.svc.Create(context.Background(), env.userID, req)
	require.NoError(t, err)

	assert.Equal(t, model.CommandeEnAttenteLivraison, resp.State)
	require.NotNil(t, resp.MouvementID)

	require.Len(t, env.mouvements.mouvements, 1)
	for _, mov := range env.mouvements.mouvements {
		assert.Equal(t, model.MouvementEntree, mov.Type)
		assert.True(t, mov.Montant.Equal(decimal.NewFromInt(1000)))
		assert.Equal(t, "Commande CMD-00001 - Client: Alice", mov.Motif)
		assert.Equal(t, env.session.ID, mov.SessionID)
		require.NotNil(t, mov.CommandeID)
	}
}

func TestCreateCommandeBPHasNoMouvement(t *testing.T) {
	env := newCommandeEnv(t)

	req := env.createReq(1)
	req.Confirm = true
	req.TypePaiement = model.PaiementBP

	resp, err := env.svc.Create(context.Background(), env.userID, req)
	require.NoError(t, err)

	assert.Equal(t, model.CommandeEnAttenteLivraison, resp.State)
	assert.Nil(t, resp.MouvementID)
	assert.Empty(t, env.mouvements.mouvements)
}

func TestCreateCommandeIdempotencyKeyReplay(t *testing.T) {
	env := newCommandeEnv(t)

	key := "terminal-7-42"
	req := env.createReq(1)
	req.IdempotencyKey = &key

	first, err := env.svc.Create(context.Background(), env.userID, req)
	require.NoError(t, err)

	second, err := env.svc.Create(context.Background(), env.userID, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, env.commandes.commandes, 1)
}

func TestCreateCommandeSansSessionOuverte(t *testing.T) {
	env := newCommandeEnv(t)
	env.session.State = model.SessionFermee

	_, err := env.svc.Create(context.Background(), env.userID, env.createReq(1))
	assert.ErrorIs(t, err, ErrAucuneSessionOuverte)
}

func TestCreateCommandeLigneInactive(t *testing.T) {
	env := newCommandeEnv(t)
	env.pain.Active = false

	_, err := env.svc.Create(context.Background(), env.userID, env.createReq(1))
	assert.ErrorIs(t, err, ErrLigneInvalide)
}

func TestCreateCommandeAutoCreatesVendeur(t *testing.T) {
	env := newCommandeEnv(t)

	card := "777"
	req := env.createReq(1)
	req.ClientCard = &card

	resp, err := env.svc.Create(context.Background(), env.userID, req)
	require.NoError(t, err)

	v, err := env.vendeurs.FindByCarte(context.Background(), card)
	require.NoError(t, err)
	assert.Equal(t, "Carte 777", v.Name)
	assert.True(t, v.PourcentageCommission.Equal(decimal.NewFromInt(25)))
	require.NotNil(t, resp.ClientName)
	assert.Equal(t, "Carte 777", *resp.ClientName)
}

func TestCreateCommandeReusesExistingVendeur(t *testing.T) {
	env := newCommandeEnv(t)

	existing := &model.Vendeur{
		Name:                  "Bob",
		CarteNumero:           "888",
		PourcentageCommission: decimal.NewFromInt(25),
		Active:                true,
	}
	require.NoError(t, env.vendeurs.Create(context.Background(), existing))

	card := "888"
	req := env.createReq(1)
	req.ClientCard = &card

	resp, err := env.svc.Create(context.Background(), env.userID, req)
	require.NoError(t, err)

	assert.Len(t, env.vendeurs.vendeurs, 1)
	require.NotNil(t, resp.ClientName)
	assert.Equal(t, "Bob", *resp.ClientName)
}

func TestConfirmerIdempotent(t *testing.T) {
	env := newCommandeEnv(t)

	resp, err := env.svc.Create(context.Background(), env.userID, env.createReq(1))
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	first, err := env.svc.Confirmer(context.Background(), id, env.userID)
	require.NoError(t, err)
	assert.Equal(t, model.CommandeEnAttenteLivraison, first.State)
	require.Len(t, env.mouvements.mouvements, 1)

	// Re-confirming must not create a second mouvement.
	second, err := env.svc.Confirmer(context.Background(), id, env.userID)
	require.NoError(t, err)
	assert.Equal(t, model.CommandeEnAttenteLivraison, second.State)
	assert.Len(t, env.mouvements.mouvements, 1)
}

func TestConfirmerSurSessionFermee(t *testing.T) {
	env := newCommandeEnv(t)

	resp, err := env.svc.Create(context.Background(), env.userID, env.createReq(1))
	require.NoError(t, err)

	env.session.State = model.SessionFermee

	_, err = env.svc.Confirmer(context.Background(), uuid.MustParse(resp.ID), env.userID)
	assert.ErrorIs(t, err, ErrSessionFermee)
}

func TestAnnulerRetractsMouvement(t *testing.T) {
	env := newCommandeEnv(t)

	req := env.createReq(1)
	req.Confirm = true
	resp, err := env.svc.Create(context.Background(), env.userID, req)
	require.NoError(t, err)
	require.Len(t, env.mouvements.mouvements, 1)

	id := uuid.MustParse(resp.ID)
	require.NoError(t, env.svc.Annuler(context.Background(), id))

	assert.Empty(t, env.mouvements.mouvements)
	c := env.commandes.commandes[id]
	assert.Equal(t, model.CommandeAnnulee, c.State)
	assert.Nil(t, c.MouvementID)

	// Cancelling again is a no-op.
	assert.NoError(t, env.svc.Annuler(context.Background(), id))
}

func TestAnnulerCommandeLivree(t *testing.T) {
	env := newCommandeEnv(t)

	req := env.createReq(1)
	req.Confirm = true
	resp, err := env.svc.Create(context.Background(), env.userID, req)
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	require.NoError(t, env.svc.Livrer(context.Background(), id))
	assert.ErrorIs(t, env.svc.Annuler(context.Background(), id), ErrEtatInvalide)
}

func TestLivrerExigeEnAttente(t *testing.T) {
	env := newCommandeEnv(t)

	resp, err := env.svc.Create(context.Background(), env.userID, env.createReq(1))
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	// Still draft: delivery refused.
	assert.ErrorIs(t, env.svc.Livrer(context.Background(), id), ErrEtatInvalide)

	_, err = env.svc.Confirmer(context.Background(), id, env.userID)
	require.NoError(t, err)
	require.NoError(t, env.svc.Livrer(context.Background(), id))
	assert.Equal(t, model.CommandeLivree, env.commandes.commandes[id].State)
}

func TestMarquerPayee(t *testing.T) {
	env := newCommandeEnv(t)

	req := env.createReq(1)
	req.TypePaiement = model.PaiementBP
	req.Confirm = true
	resp, err := env.svc.Create(context.Background(), env.userID, req)
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	require.NoError(t, env.svc.MarquerPayee(context.Background(), id))
	assert.Equal(t, model.PaiementPayee, env.commandes.commandes[id].PaiementState)

	require.NoError(t, env.svc.Annuler(context.Background(), id))
	assert.ErrorIs(t, env.svc.MarquerPayee(context.Background(), id), ErrEtatInvalide)
}

func TestUpdateClientSyncsMouvement(t *testing.T) {
	env := newCommandeEnv(t)

	card := "111"
	req := env.createReq(2) // total 1000
	req.Confirm = true
	req.ClientCard = &card
	resp, err := env.svc.Create(context.Background(), env.userID, req)
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	newName := "Chantal"
	updated, err := env.svc.UpdateClient(context.Background(), id, env.userID, dto.UpdateClientRequest{
		ClientCard: "222",
		ClientName: &newName,
		Lignes: []dto.LigneCommandeRequest{
			{TypePainID: env.pain.ID.String(), Quantite: 3}, // total 1500
		},
	})
	require.NoError(t, err)

	assert.True(t, updated.Total.Equal(decimal.NewFromInt(1500)))
	require.NotNil(t, updated.ClientCard)
	assert.Equal(t, "222", *updated.ClientCard)

	// A second vendeur was resolved for the new card.
	_, err = env.vendeurs.FindByCarte(context.Background(), "222")
	require.NoError(t, err)

	// The linked mouvement follows the new total with the update motif.
	require.Len(t, env.mouvements.mouvements, 1)
	for _, mov := range env.mouvements.mouvements {
		assert.True(t, mov.Montant.Equal(decimal.NewFromInt(1500)))
		assert.Equal(t, "Commande CMD-00001 - Client: Chantal (Mise a jour)", mov.Motif)
	}
}

func TestUpdateClientRefuseEtatsFinaux(t *testing.T) {
	env := newCommandeEnv(t)

	req := env.createReq(1)
	req.Confirm = true
	resp, err := env.svc.Create(context.Background(), env.userID, req)
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	require.NoError(t, env.svc.Livrer(context.Background(), id))

	_, err = env.svc.UpdateClient(context.Background(), id, env.userID, dto.UpdateClientRequest{ClientCard: "999"})
	assert.ErrorIs(t, err, ErrEtatInvalide)
}

func TestListCommandesParSession(t *testing.T) {
	env := newCommandeEnv(t)

	_, err := env.svc.Create(context.Background(), env.userID, env.createReq(1))
	require.NoError(t, err)
	_, err = env.svc.Create(context.Background(), env.userID, env.createReq(2))
	require.NoError(t, err)

	resp, err := env.svc.List(context.Background(), dto.CommandeListFilter{
		SessionID: env.session.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	assert.Len(t, resp.Data, 2)
}

func TestCreateCommandeHorodatee(t *testing.T) {
	env := newCommandeEnv(t)

	avant := time.Now().Add(-time.Second)
	resp, err := env.svc.Create(context.Background(), env.userID, env.createReq(1))
	require.NoError(t, err)

	// The store persists the commande exactly as built, so the timestamp must
	// be set before the insert, not left to the zero value.
	stored, err := env.commandes.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	require.False(t, stored.Date.IsZero())
	assert.True(t, stored.Date.After(avant))

	date, err := time.Parse("2006-01-02T15:04:05Z", resp.Date)
	require.NoError(t, err)
	assert.False(t, date.IsZero())
}

package service

import (
	"context"
	"testing"

	"github.com/arliBukasa/pos-caisse/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPainSvc() (*fakePainRepo, PainService) {
	repo := newFakePainRepo()
	return repo, NewPainService(repo, nil)
}

func creerPain(t *testing.T, svc PainService, name string) uuid.UUID {
	t.Helper()
	resp, err := svc.Creer(context.Background(), dto.CreatePainRequest{
		Name:  name,
		Prix:  decimal.NewFromInt(500),
		Poids: decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

func TestCreerPainPrixInvalide(t *testing.T) {
	_, svc := newPainSvc()

	_, err := svc.Creer(context.Background(), dto.CreatePainRequest{
		Name:  "Gratuit",
		Prix:  decimal.Zero,
		Poids: decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdatePainPartiel(t *testing.T) {
	_, svc := newPainSvc()
	id := creerPain(t, svc, "Baguette")

	prix := decimal.NewFromInt(600)
	resp, err := svc.Update(context.Background(), id, dto.UpdatePainRequest{Prix: &prix})
	require.NoError(t, err)

	assert.True(t, resp.Prix.Equal(prix))
	assert.Equal(t, "Baguette", resp.Name)
	assert.True(t, resp.Poids.Equal(decimal.NewFromInt(200)))
}

func TestDeletePainSansReferenceSupprime(t *testing.T) {
	repo, svc := newPainSvc()
	id := creerPain(t, svc, "Croissant")

	require.NoError(t, svc.Delete(context.Background(), id))
	assert.Empty(t, repo.pains)
}

func TestDeletePainReferenceArchive(t *testing.T) {
	repo, svc := newPainSvc()
	id := creerPain(t, svc, "Complet")
	repo.lineCounts[id] = 3 // referenced by order lines

	require.NoError(t, svc.Delete(context.Background(), id))

	p, ok := repo.pains[id]
	require.True(t, ok, "archived, not removed")
	assert.False(t, p.Active)

	// Archived types disappear from the catalog.
	out, err := svc.List(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestListPainFiltre(t *testing.T) {
	_, svc := newPainSvc()
	creerPain(t, svc, "Baguette")
	creerPain(t, svc, "Pain complet")

	out, err := svc.List(context.Background(), "complet", 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Pain complet", out[0].Name)
}

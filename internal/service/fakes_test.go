package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/arliBukasa/pos-caisse/internal/model"
	"github.com/arliBukasa/pos-caisse/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errFakeNotFound = errors.New("not found")

// ── Sessions ─────────────────────────────────────────────────────────────────

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*model.Session
}

var _ repository.SessionRepository = (*fakeSessionRepo)(nil)

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*model.Session)}
}

func (r *fakeSessionRepo) DB() *gorm.DB { return nil }

func (r *fakeSessionRepo) Create(_ context.Context, s *model.Session) error {
	// The partial unique index rejects a second open session per user.
	for _, existing := range r.sessions {
		if existing.UserID == s.UserID && existing.State == model.SessionOuverte {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, errFakeNotFound
	}
	return s, nil
}

func (r *fakeSessionRepo) FindWithChildren(_ context.Context, id uuid.UUID) (*model.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, errFakeNotFound
	}
	return s, nil
}

func (r *fakeSessionRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, errFakeNotFound
	}
	return s, nil
}

func (r *fakeSessionRepo) FindOuverteParUser(_ context.Context, userID uuid.UUID) (*model.Session, error) {
	for _, s := range r.sessions {
		if s.UserID == userID && s.State == model.SessionOuverte {
			return s, nil
		}
	}
	return nil, errFakeNotFound
}

func (r *fakeSessionRepo) Update(_ context.Context, s *model.Session) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) List(_ context.Context, state string, _, _ int) ([]model.Session, int64, error) {
	var out []model.Session
	for _, s := range r.sessions {
		if state == "" || s.State == state {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

// ── Commandes ────────────────────────────────────────────────────────────────

type fakeCommandeRepo struct {
	commandes  map[uuid.UUID]*model.Commande
	nextNumero int
}

var _ repository.CommandeRepository = (*fakeCommandeRepo)(nil)

func newFakeCommandeRepo() *fakeCommandeRepo {
	return &fakeCommandeRepo{commandes: make(map[uuid.UUID]*model.Commande)}
}

func (r *fakeCommandeRepo) DB() *gorm.DB { return nil }

func (r *fakeCommandeRepo) CreateTx(_ *gorm.DB, c *model.Commande) error {
	if c.IdempotencyKey != nil && *c.IdempotencyKey != "" {
		for _, existing := range r.commandes {
			if existing.IdempotencyKey != nil && *existing.IdempotencyKey == *c.IdempotencyKey {
				return errors.New("duplicate key value violates unique constraint")
			}
		}
	}
	// Like the real insert: only the id is database-generated, every other
	// column is stored exactly as the caller set it.
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.commandes[c.ID] = c
	return nil
}

func (r *fakeCommandeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Commande, error) {
	c, ok := r.commandes[id]
	if !ok {
		return nil, errFakeNotFound
	}
	return c, nil
}

func (r *fakeCommandeRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Commande, error) {
	c, ok := r.commandes[id]
	if !ok {
		return nil, errFakeNotFound
	}
	return c, nil
}

func (r *fakeCommandeRepo) FindByIdempotencyKey(_ context.Context, key string) (*model.Commande, error) {
	for _, c := range r.commandes {
		if c.IdempotencyKey != nil && *c.IdempotencyKey == key {
			return c, nil
		}
	}
	return nil, errFakeNotFound
}

func (r *fakeCommandeRepo) SaveTx(_ *gorm.DB, c *model.Commande) error {
	r.commandes[c.ID] = c
	return nil
}

func (r *fakeCommandeRepo) ReplaceLinesTx(_ *gorm.DB, c *model.Commande, lines []model.CommandeLine) error {
	for i := range lines {
		lines[i].CommandeID = c.ID
	}
	c.Lines = lines
	return nil
}

func (r *fakeCommandeRepo) NextNumero(_ *gorm.DB) (int, error) {
	r.nextNumero++
	return r.nextNumero, nil
}

func (r *fakeCommandeRepo) List(_ context.Context, filter repository.CommandeFilter) ([]model.Commande, int64, error) {
	var out []model.Commande
	for _, c := range r.commandes {
		if filter.SessionID != nil && c.SessionID != *filter.SessionID {
			continue
		}
		if filter.State != "" && filter.State != "all" && c.State != filter.State {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

// ── Mouvements ───────────────────────────────────────────────────────────────

type fakeMouvementRepo struct {
	mouvements map[uuid.UUID]*model.Mouvement
}

var _ repository.MouvementRepository = (*fakeMouvementRepo)(nil)

func newFakeMouvementRepo() *fakeMouvementRepo {
	return &fakeMouvementRepo{mouvements: make(map[uuid.UUID]*model.Mouvement)}
}

func (r *fakeMouvementRepo) DB() *gorm.DB { return nil }

func (r *fakeMouvementRepo) CreateTx(_ *gorm.DB, m *model.Mouvement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.mouvements[m.ID] = m
	return nil
}

func (r *fakeMouvementRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Mouvement, error) {
	m, ok := r.mouvements[id]
	if !ok {
		return nil, errFakeNotFound
	}
	return m, nil
}

func (r *fakeMouvementRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Mouvement, error) {
	m, ok := r.mouvements[id]
	if !ok {
		return nil, errFakeNotFound
	}
	return m, nil
}

func (r *fakeMouvementRepo) UpdateTx(_ *gorm.DB, m *model.Mouvement) error {
	r.mouvements[m.ID] = m
	return nil
}

func (r *fakeMouvementRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.mouvements, id)
	return nil
}

func (r *fakeMouvementRepo) ListBySession(_ context.Context, sessionID uuid.UUID) ([]model.Mouvement, error) {
	var out []model.Mouvement
	for _, m := range r.mouvements {
		if m.SessionID == sessionID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMouvementRepo) SumParType(_ context.Context, sessionID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	entrees, sorties := decimal.Zero, decimal.Zero
	for _, m := range r.mouvements {
		if m.SessionID != sessionID {
			continue
		}
		switch m.Type {
		case model.MouvementEntree:
			entrees = entrees.Add(m.Montant)
		case model.MouvementSortie:
			sorties = sorties.Add(m.Montant)
		}
	}
	return entrees, sorties, nil
}

// ── Vendeurs ─────────────────────────────────────────────────────────────────

type fakeVendeurRepo struct {
	vendeurs map[uuid.UUID]*model.Vendeur
	// commandeRepo lets SumCommandes see orders, mirroring the SQL aggregate.
	commandeRepo *fakeCommandeRepo
}

var _ repository.VendeurRepository = (*fakeVendeurRepo)(nil)

func newFakeVendeurRepo() *fakeVendeurRepo {
	return &fakeVendeurRepo{vendeurs: make(map[uuid.UUID]*model.Vendeur)}
}

func (r *fakeVendeurRepo) DB() *gorm.DB { return nil }

func (r *fakeVendeurRepo) Create(_ context.Context, v *model.Vendeur) error {
	return r.CreateTx(nil, v)
}

func (r *fakeVendeurRepo) CreateTx(_ *gorm.DB, v *model.Vendeur) error {
	for _, existing := range r.vendeurs {
		if existing.CarteNumero == v.CarteNumero {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.vendeurs[v.ID] = v
	return nil
}

func (r *fakeVendeurRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Vendeur, error) {
	v, ok := r.vendeurs[id]
	if !ok {
		return nil, errFakeNotFound
	}
	return v, nil
}

func (r *fakeVendeurRepo) FindByCarte(_ context.Context, carte string) (*model.Vendeur, error) {
	return r.FindByCarteTx(nil, carte)
}

func (r *fakeVendeurRepo) FindByCarteTx(_ *gorm.DB, carte string) (*model.Vendeur, error) {
	for _, v := range r.vendeurs {
		if v.CarteNumero == carte {
			return v, nil
		}
	}
	return nil, errFakeNotFound
}

func (r *fakeVendeurRepo) Update(_ context.Context, v *model.Vendeur) error {
	r.vendeurs[v.ID] = v
	return nil
}

func (r *fakeVendeurRepo) Search(_ context.Context, query string, limit int) ([]model.Vendeur, error) {
	var out []model.Vendeur
	for _, v := range r.vendeurs {
		if !v.Active {
			continue
		}
		if query == "" || strings.Contains(v.CarteNumero, query) ||
			strings.Contains(strings.ToLower(v.Name), strings.ToLower(query)) {
			out = append(out, *v)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *fakeVendeurRepo) SumCommandes(_ context.Context, id uuid.UUID, carte string) (int64, decimal.Decimal, error) {
	var count int64
	total := decimal.Zero
	if r.commandeRepo == nil {
		return 0, total, nil
	}
	for _, c := range r.commandeRepo.commandes {
		matchesID := c.VendeurID != nil && *c.VendeurID == id
		matchesCarte := c.ClientCard != nil && *c.ClientCard == carte
		if matchesID || matchesCarte {
			count++
			total = total.Add(c.Total)
		}
	}
	return count, total, nil
}

// ── Types de pain ────────────────────────────────────────────────────────────

type fakePainRepo struct {
	pains      map[uuid.UUID]*model.TypePain
	lineCounts map[uuid.UUID]int64
}

var _ repository.PainRepository = (*fakePainRepo)(nil)

func newFakePainRepo() *fakePainRepo {
	return &fakePainRepo{
		pains:      make(map[uuid.UUID]*model.TypePain),
		lineCounts: make(map[uuid.UUID]int64),
	}
}

func (r *fakePainRepo) Create(_ context.Context, p *model.TypePain) error {
	for _, existing := range r.pains {
		if existing.Name == p.Name {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pains[p.ID] = p
	return nil
}

func (r *fakePainRepo) FindByID(_ context.Context, id uuid.UUID) (*model.TypePain, error) {
	p, ok := r.pains[id]
	if !ok {
		return nil, errFakeNotFound
	}
	return p, nil
}

func (r *fakePainRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.TypePain, error) {
	p, ok := r.pains[id]
	if !ok {
		return nil, errFakeNotFound
	}
	return p, nil
}

func (r *fakePainRepo) List(_ context.Context, search string, limit int) ([]model.TypePain, error) {
	var out []model.TypePain
	for _, p := range r.pains {
		if !p.Active {
			continue
		}
		if search == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			out = append(out, *p)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *fakePainRepo) Update(_ context.Context, p *model.TypePain) error {
	r.pains[p.ID] = p
	return nil
}

func (r *fakePainRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.pains, id)
	return nil
}

func (r *fakePainRepo) CountLines(_ context.Context, id uuid.UUID) (int64, error) {
	return r.lineCounts[id], nil
}

// ── Utilisateurs ─────────────────────────────────────────────────────────────

type fakeUtilisateurRepo struct {
	users map[uuid.UUID]*model.Utilisateur
}

var _ repository.UtilisateurRepository = (*fakeUtilisateurRepo)(nil)

func newFakeUtilisateurRepo() *fakeUtilisateurRepo {
	return &fakeUtilisateurRepo{users: make(map[uuid.UUID]*model.Utilisateur)}
}

func (r *fakeUtilisateurRepo) Create(_ context.Context, u *model.Utilisateur) error {
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUtilisateurRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Utilisateur, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errFakeNotFound
	}
	return u, nil
}

func (r *fakeUtilisateurRepo) FindByUsername(_ context.Context, username string) (*model.Utilisateur, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, errFakeNotFound
}

func (r *fakeUtilisateurRepo) List(_ context.Context) ([]model.Utilisateur, error) {
	var out []model.Utilisateur
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUtilisateurRepo) Update(_ context.Context, u *model.Utilisateur) error {
	r.users[u.ID] = u
	return nil
}

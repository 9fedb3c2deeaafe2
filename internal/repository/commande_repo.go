package repository

import (
	"context"

	"github.com/arliBukasa/pos-caisse/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommandeFilter narrows List results.
type CommandeFilter struct {
	SessionID *uuid.UUID
	State     string
	Page      int
	Limit     int
}

type CommandeRepository interface {
	CreateTx(tx *gorm.DB, c *model.Commande) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Commande, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Commande, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*model.Commande, error)
	SaveTx(tx *gorm.DB, c *model.Commande) error
	ReplaceLinesTx(tx *gorm.DB, c *model.Commande, lines []model.CommandeLine) error
	// NextNumero pulls the next order number from the commandes_numero_seq
	// Postgres sequence, atomic across concurrent transactions.
	NextNumero(tx *gorm.DB) (int, error)
	List(ctx context.Context, filter CommandeFilter) ([]model.Commande, int64, error)
	DB() *gorm.DB
}

type commandeRepo struct{ db *gorm.DB }

func NewCommandeRepository(db *gorm.DB) CommandeRepository { return &commandeRepo{db: db} }

func (r *commandeRepo) DB() *gorm.DB { return r.db }

func (r *commandeRepo) CreateTx(tx *gorm.DB, c *model.Commande) error {
	return tx.Create(c).Error
}

func (r *commandeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Commande, error) {
	var c model.Commande
	err := r.db.WithContext(ctx).
		Preload("Lines.TypePain").Preload("Vendeur").Preload("Mouvement").
		First(&c, id).Error
	return &c, err
}

func (r *commandeRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Commande, error) {
	var c model.Commande
	err := tx.Preload("Lines").First(&c, id).Error
	return &c, err
}

func (r *commandeRepo) FindByIdempotencyKey(ctx context.Context, key string) (*model.Commande, error) {
	var c model.Commande
	err := r.db.WithContext(ctx).
		Preload("Lines.TypePain").
		Where("idempotency_key = ?", key).First(&c).Error
	return &c, err
}

func (r *commandeRepo) SaveTx(tx *gorm.DB, c *model.Commande) error {
	return tx.Omit("Lines", "Vendeur", "Mouvement").Save(c).Error
}

func (r *commandeRepo) ReplaceLinesTx(tx *gorm.DB, c *model.Commande, lines []model.CommandeLine) error {
	if err := tx.Where("commande_id = ?", c.ID).Delete(&model.CommandeLine{}).Error; err != nil {
		return err
	}
	for i := range lines {
		lines[i].CommandeID = c.ID
	}
	if err := tx.Create(&lines).Error; err != nil {
		return err
	}
	c.Lines = lines
	return nil
}

func (r *commandeRepo) NextNumero(tx *gorm.DB) (int, error) {
	var num int
	err := tx.Raw("SELECT nextval('commandes_numero_seq')").Scan(&num).Error
	return num, err
}

func (r *commandeRepo) List(ctx context.Context, filter CommandeFilter) ([]model.Commande, int64, error) {
	var commandes []model.Commande
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Commande{})
	if filter.SessionID != nil {
		q = q.Where("session_id = ?", *filter.SessionID)
	}
	if filter.State != "" && filter.State != "all" {
		q = q.Where("state = ?", filter.State)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Lines.TypePain").
		Order("date DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&commandes).Error
	return commandes, total, err
}

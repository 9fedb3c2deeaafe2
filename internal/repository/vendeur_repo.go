package repository

import (
	"context"

	"github.com/arliBukasa/pos-caisse/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VendeurRepository interface {
	Create(ctx context.Context, v *model.Vendeur) error
	CreateTx(tx *gorm.DB, v *model.Vendeur) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Vendeur, error)
	FindByCarte(ctx context.Context, carte string) (*model.Vendeur, error)
	FindByCarteTx(tx *gorm.DB, carte string) (*model.Vendeur, error)
	Update(ctx context.Context, v *model.Vendeur) error
	Search(ctx context.Context, query string, limit int) ([]model.Vendeur, error)
	// SumCommandes aggregates order count and total sales for one vendeur,
	// matching by linked id or by historical card snapshot.
	SumCommandes(ctx context.Context, id uuid.UUID, carte string) (int64, decimal.Decimal, error)
	DB() *gorm.DB
}

type vendeurRepo struct{ db *gorm.DB }

func NewVendeurRepository(db *gorm.DB) VendeurRepository { return &vendeurRepo{db: db} }

func (r *vendeurRepo) DB() *gorm.DB { return r.db }

func (r *vendeurRepo) Create(ctx context.Context, v *model.Vendeur) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *vendeurRepo) CreateTx(tx *gorm.DB, v *model.Vendeur) error {
	return tx.Create(v).Error
}

func (r *vendeurRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Vendeur, error) {
	var v model.Vendeur
	err := r.db.WithContext(ctx).First(&v, id).Error
	return &v, err
}

func (r *vendeurRepo) FindByCarte(ctx context.Context, carte string) (*model.Vendeur, error) {
	var v model.Vendeur
	err := r.db.WithContext(ctx).Where("carte_numero = ?", carte).First(&v).Error
	return &v, err
}

func (r *vendeurRepo) FindByCarteTx(tx *gorm.DB, carte string) (*model.Vendeur, error) {
	var v model.Vendeur
	err := tx.Where("carte_numero = ?", carte).First(&v).Error
	return &v, err
}

func (r *vendeurRepo) Update(ctx context.Context, v *model.Vendeur) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *vendeurRepo) Search(ctx context.Context, query string, limit int) ([]model.Vendeur, error) {
	var vendeurs []model.Vendeur
	q := r.db.WithContext(ctx).Where("active = true")
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("carte_numero ILIKE ? OR name ILIKE ?", like, like)
	}
	err := q.Order("name ASC").Limit(limit).Find(&vendeurs).Error
	return vendeurs, err
}

func (r *vendeurRepo) SumCommandes(ctx context.Context, id uuid.UUID, carte string) (int64, decimal.Decimal, error) {
	var row struct {
		Count int64
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.Commande{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Where("vendeur_id = ? OR client_card = ?", id, carte).
		Scan(&row).Error
	return row.Count, row.Total, err
}

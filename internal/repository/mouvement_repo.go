package repository

import (
	"context"

	"github.com/arliBukasa/pos-caisse/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MouvementRepository interface {
	CreateTx(tx *gorm.DB, m *model.Mouvement) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Mouvement, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Mouvement, error)
	// UpdateTx exists solely for the order-total sync: a live order's linked
	// mouvement must track its total. All other mouvements are immutable.
	UpdateTx(tx *gorm.DB, m *model.Mouvement) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Mouvement, error)
	// SumParType returns total entrees and total sorties for a session.
	SumParType(ctx context.Context, sessionID uuid.UUID) (entrees, sorties decimal.Decimal, err error)
	DB() *gorm.DB
}

type mouvementRepo struct{ db *gorm.DB }

func NewMouvementRepository(db *gorm.DB) MouvementRepository { return &mouvementRepo{db: db} }

func (r *mouvementRepo) DB() *gorm.DB { return r.db }

func (r *mouvementRepo) CreateTx(tx *gorm.DB, m *model.Mouvement) error {
	return tx.Create(m).Error
}

func (r *mouvementRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Mouvement, error) {
	var m model.Mouvement
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *mouvementRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Mouvement, error) {
	var m model.Mouvement
	err := tx.First(&m, id).Error
	return &m, err
}

func (r *mouvementRepo) UpdateTx(tx *gorm.DB, m *model.Mouvement) error {
	return tx.Save(m).Error
}

func (r *mouvementRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Mouvement{}, id).Error
}

func (r *mouvementRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Mouvement, error) {
	var movs []model.Mouvement
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").Find(&movs).Error
	return movs, err
}

func (r *mouvementRepo) SumParType(ctx context.Context, sessionID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	var rows []struct {
		Type  string
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.Mouvement{}).
		Select("type, COALESCE(SUM(montant), 0) AS total").
		Where("session_id = ?", sessionID).
		Group("type").Scan(&rows).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	entrees, sorties := decimal.Zero, decimal.Zero
	for _, row := range rows {
		switch row.Type {
		case model.MouvementEntree:
			entrees = row.Total
		case model.MouvementSortie:
			sorties = row.Total
		}
	}
	return entrees, sorties, nil
}

package repository

import (
	"context"

	"github.com/arliBukasa/pos-caisse/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PainRepository interface {
	Create(ctx context.Context, p *model.TypePain) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TypePain, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.TypePain, error)
	List(ctx context.Context, search string, limit int) ([]model.TypePain, error)
	Update(ctx context.Context, p *model.TypePain) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CountLines returns how many order lines reference this type de pain;
	// it drives the archive-instead-of-delete policy.
	CountLines(ctx context.Context, id uuid.UUID) (int64, error)
}

type painRepo struct{ db *gorm.DB }

func NewPainRepository(db *gorm.DB) PainRepository { return &painRepo{db: db} }

func (r *painRepo) Create(ctx context.Context, p *model.TypePain) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *painRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TypePain, error) {
	var p model.TypePain
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *painRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.TypePain, error) {
	var p model.TypePain
	err := tx.First(&p, id).Error
	return &p, err
}

func (r *painRepo) List(ctx context.Context, search string, limit int) ([]model.TypePain, error) {
	var pains []model.TypePain
	q := r.db.WithContext(ctx).Where("active = true")
	if search != "" {
		q = q.Where("name ILIKE ?", "%"+search+"%")
	}
	err := q.Order("name ASC").Limit(limit).Find(&pains).Error
	return pains, err
}

func (r *painRepo) Update(ctx context.Context, p *model.TypePain) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *painRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TypePain{}, id).Error
}

func (r *painRepo) CountLines(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CommandeLine{}).
		Where("type_pain_id = ?", id).Count(&count).Error
	return count, err
}

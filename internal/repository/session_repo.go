package repository

import (
	"context"

	"github.com/arliBukasa/pos-caisse/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Session, error)
	// FindWithChildren loads the session plus its commandes and mouvements in
	// one read transaction, so dashboard aggregates are computed over a
	// consistent snapshot.
	FindWithChildren(ctx context.Context, id uuid.UUID) (*model.Session, error)
	// FindForUpdateTx locks the session row (SELECT … FOR UPDATE) so that a
	// mouvement append racing a close either fully precedes it or observes
	// state = ferme.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Session, error)
	FindOuverteParUser(ctx context.Context, userID uuid.UUID) (*model.Session, error)
	Update(ctx context.Context, s *model.Session) error
	List(ctx context.Context, state string, page, limit int) ([]model.Session, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type sessionRepo struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &sessionRepo{db: db} }

func (r *sessionRepo) DB() *gorm.DB { return r.db }

func (r *sessionRepo) Create(ctx context.Context, s *model.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *sessionRepo) FindWithChildren(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Preload("Commandes").Preload("Mouvements").First(&s, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Session, error) {
	var s model.Session
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, id).Error
	return &s, err
}

func (r *sessionRepo) FindOuverteParUser(ctx context.Context, userID uuid.UUID) (*model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND state = ?", userID, model.SessionOuverte).
		Order("date DESC").First(&s).Error
	return &s, err
}

func (r *sessionRepo) Update(ctx context.Context, s *model.Session) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *sessionRepo) List(ctx context.Context, state string, page, limit int) ([]model.Session, int64, error) {
	var sessions []model.Session
	var total int64
	offset := (page - 1) * limit

	q := r.db.WithContext(ctx).Model(&model.Session{})
	if state != "" {
		q = q.Where("state = ?", state)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Commandes").Preload("Mouvements").
		Order("date DESC").
		Offset(offset).Limit(limit).
		Find(&sessions).Error
	return sessions, total, err
}

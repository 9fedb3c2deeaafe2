package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/arliBukasa/pos-caisse/internal/dto"
	"github.com/arliBukasa/pos-caisse/internal/model"
	"github.com/arliBukasa/pos-caisse/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	painCacheKey = "cache:types_pain"
	painCacheTTL = 5 * time.Minute
)

// PainService is the catalog of sellable bread types. Prices live here; order
// lines snapshot them at creation time.
type PainService interface {
	Creer(ctx context.Context, req dto.CreatePainRequest) (*dto.PainResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PainResponse, error)
	List(ctx context.Context, search string, limit int) ([]dto.PainResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdatePainRequest) (*dto.PainResponse, error)
	// Delete archives the type when any order line references it, hard-deletes
	// otherwise. Existing lines keep their snapshots either way.
	Delete(ctx context.Context, id uuid.UUID) error
}

type painService struct {
	repo repository.PainRepository
	rdb  *redis.Client
}

func NewPainService(repo repository.PainRepository, rdb *redis.Client) PainService {
	return &painService{repo: repo, rdb: rdb}
}

func (s *painService) Creer(ctx context.Context, req dto.CreatePainRequest) (*dto.PainResponse, error) {
	if !req.Prix.IsPositive() || !req.Poids.IsPositive() {
		return nil, ErrValidation
	}
	p := &model.TypePain{
		Name:        strings.TrimSpace(req.Name),
		Prix:        req.Prix,
		Poids:       req.Poids,
		Description: req.Description,
		Active:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, ErrValidation // duplicate name
	}
	s.invalidateCache(ctx)
	resp := painToResponse(p)
	return &resp, nil
}

func (s *painService) Get(ctx context.Context, id uuid.UUID) (*dto.PainResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	resp := painToResponse(p)
	return &resp, nil
}

func (s *painService) List(ctx context.Context, search string, limit int) ([]dto.PainResponse, error) {
	if limit < 1 || limit > 500 {
		limit = 200
	}

	// Only the unfiltered catalog is cached; it is what every POS terminal
	// polls between sales.
	cacheable := search == ""
	if cacheable && s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, painCacheKey).Result(); err == nil {
			var cached []dto.PainResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}

	pains, err := s.repo.List(ctx, search, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PainResponse, 0, len(pains))
	for i := range pains {
		out = append(out, painToResponse(&pains[i]))
	}

	if cacheable && s.rdb != nil {
		if data, err := json.Marshal(out); err == nil {
			if err := s.rdb.Set(ctx, painCacheKey, data, painCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("pain_service: cache write failed")
			}
		}
	}
	return out, nil
}

func (s *painService) Update(ctx context.Context, id uuid.UUID, req dto.UpdatePainRequest) (*dto.PainResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Prix != nil {
		if !req.Prix.IsPositive() {
			return nil, ErrValidation
		}
		p.Prix = *req.Prix
	}
	if req.Poids != nil {
		if !req.Poids.IsPositive() {
			return nil, ErrValidation
		}
		p.Poids = *req.Poids
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	resp := painToResponse(p)
	return &resp, nil
}

func (s *painService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	refs, err := s.repo.CountLines(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		p.Active = false
		err = s.repo.Update(ctx, p)
	} else {
		err = s.repo.Delete(ctx, id)
	}
	if err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *painService) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, painCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("pain_service: cache invalidation failed")
	}
}

func painToResponse(p *model.TypePain) dto.PainResponse {
	return dto.PainResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Prix:        p.Prix,
		Poids:       p.Poids,
		Description: p.Description,
		Active:      p.Active,
	}
}

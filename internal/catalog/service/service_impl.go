package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cocinamqb/stockdiario/internal/catalog/domain"
	"github.com/cocinamqb/stockdiario/pkg/db"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, domain.ErrInvalidCategory
	}

	if req.MinThreshold.IsNegative() {
		return nil, domain.ErrInvalidThreshold
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = "unidad"
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	existing, err := s.repo.FindByName(ctx, s.db, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrNameTaken
	}

	now := time.Now().UTC()
	id := s.genID.Generate().Int64()
	p := &domain.Product{
		ID:           id,
		Code:         s.uniqueCode(ctx, name, id),
		Name:         name,
		Category:     category,
		Unit:         unit,
		MinThreshold: req.MinThreshold,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, s.db, p); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrNameTaken
		}
		return nil, err
	}

	s.log.Info("product created", zap.String("code", p.Code), zap.String("name", p.Name))
	resp := s.toResponse(p)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	item, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		if !strings.EqualFold(name, item.Name) {
			other, err := s.repo.FindByName(ctx, s.db, name)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != item.ID {
				return nil, domain.ErrNameTaken
			}
		}
		// The code stays fixed across renames so count history keeps
		// pointing at the same product.
		item.Name = name
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return nil, domain.ErrInvalidCategory
		}
		item.Category = category
	}
	if req.Unit != nil {
		unit := strings.TrimSpace(*req.Unit)
		if unit != "" {
			item.Unit = unit
		}
	}
	if req.MinThreshold != nil {
		if req.MinThreshold.IsNegative() {
			return nil, domain.ErrInvalidThreshold
		}
		item.MinThreshold = *req.MinThreshold
	}
	if req.Active != nil {
		item.Active = *req.Active
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}

	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) GetByName(ctx context.Context, name string) (*domain.Response, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	item, err := s.repo.FindByName(ctx, s.db, name)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	filter := domain.ListRequest{
		Category:    strings.TrimSpace(req.Category),
		Active:      req.Active,
		WithMinimum: req.WithMinimum,
		SortBy:      strings.TrimSpace(req.SortBy),
		OrderBy:     strings.ToLower(strings.TrimSpace(req.OrderBy)),
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, s.toResponse(&item))
	}
	return resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	item, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, item.ID)
}

func (s *Service) find(ctx context.Context, id string) (*domain.Product, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	item, err := s.repo.FindByID(ctx, s.db, productID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// uniqueCode derives a stable slug from the product name. Two distinct
// names can collapse to the same slug, so a taken slug gets the product
// id appended.
func (s *Service) uniqueCode(ctx context.Context, name string, id int64) string {
	code := slug.Make(name)
	existing, err := s.repo.FindByCode(ctx, s.db, code)
	if err == nil && existing == nil {
		return code
	}
	return fmt.Sprintf("%s-%d", code, id)
}

func (s *Service) toResponse(p *domain.Product) domain.Response {
	return domain.Response{
		ID:           snowflake.ID(p.ID).String(),
		Code:         p.Code,
		Name:         p.Name,
		Category:     p.Category,
		Unit:         p.Unit,
		MinThreshold: p.MinThreshold,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

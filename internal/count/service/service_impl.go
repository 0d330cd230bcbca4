package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/cocinamqb/stockdiario/internal/catalog/domain"
	"github.com/cocinamqb/stockdiario/internal/clock"
	"github.com/cocinamqb/stockdiario/internal/count/domain"
	"github.com/cocinamqb/stockdiario/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Catalog catalogdomain.Service
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	catalog catalogdomain.Service
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("count.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		catalog: p.Catalog,
		metrics: p.Metrics,
	}
}

func (s *Service) Upsert(ctx context.Context, req domain.UpsertRequest) (*domain.Response, error) {
	entry, err := s.buildEntry(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, s.db, entry); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordCountUpsert(ctx, string(entry.Phase))
	}
	s.log.Debug("count entry upserted",
		zap.String("phase", string(entry.Phase)),
		zap.String("product", entry.ProductName),
		zap.String("date", entry.DateKey),
	)

	stored, err := s.repo.Find(ctx, s.db, entry.Phase, entry.ProductName, entry.DateKey)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, domain.ErrNotFound
	}
	resp := toResponse(stored)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	if !req.Phase.Valid() {
		return nil, domain.ErrInvalidPhase
	}
	dateKey, err := s.resolveDate(req.Date)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByPhase(ctx, s.db, req.Phase, dateKey)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, toResponse(&item))
	}
	return resp, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeleteRequest) error {
	if !req.Phase.Valid() {
		return domain.ErrInvalidPhase
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ErrInvalidName
	}
	dateKey, err := s.resolveDate(req.Date)
	if err != nil {
		return err
	}

	existing, err := s.repo.Find(ctx, s.db, req.Phase, name, dateKey)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, req.Phase, name, dateKey)
}

// ReplaceInitial swaps the whole initial count for dateKey in one
// transaction. A validation failure on any entry leaves the stored count
// untouched.
func (s *Service) ReplaceInitial(ctx context.Context, dateKey string, entries []domain.UpsertRequest) ([]domain.Response, error) {
	dateKey, err := s.resolveDate(dateKey)
	if err != nil {
		return nil, err
	}

	built := make([]*domain.Entry, 0, len(entries))
	for _, req := range entries {
		req.Phase = domain.PhaseInitial
		req.Date = dateKey
		entry, err := s.buildEntry(ctx, req)
		if err != nil {
			return nil, err
		}
		built = append(built, entry)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.DeleteByPhaseDate(ctx, tx, domain.PhaseInitial, dateKey); err != nil {
			return err
		}
		for _, entry := range built {
			if err := s.repo.Upsert(ctx, tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(built))
	for _, entry := range built {
		resp = append(resp, toResponse(entry))
	}
	return resp, nil
}

func (s *Service) buildEntry(ctx context.Context, req domain.UpsertRequest) (*domain.Entry, error) {
	if !req.Phase.Valid() {
		return nil, domain.ErrInvalidPhase
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.Quantity.IsNegative() {
		return nil, domain.ErrInvalidQuantity
	}
	dateKey, err := s.resolveDate(req.Date)
	if err != nil {
		return nil, err
	}

	unit := strings.TrimSpace(req.Unit)
	code := ""
	category := "General"
	// Entries stay usable for products outside the catalog; known products
	// contribute their code, category and default unit.
	if product, err := s.catalog.GetByName(ctx, name); err == nil && product != nil {
		code = product.Code
		if product.Category != "" {
			category = product.Category
		}
		if unit == "" {
			unit = product.Unit
		}
	}
	if unit == "" {
		unit = "unidad"
	}

	now := s.clock.Now()
	return &domain.Entry{
		ID:          s.genID.Generate().Int64(),
		Phase:       req.Phase,
		ProductName: name,
		ProductCode: code,
		Category:    category,
		DateKey:     dateKey,
		Quantity:    req.Quantity,
		Unit:        unit,
		Note:        strings.TrimSpace(req.Note),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *Service) resolveDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return clock.DateKey(s.clock.Now()), nil
	}
	if _, err := clock.ParseDateKey(date); err != nil {
		return "", domain.ErrInvalidDate
	}
	return date, nil
}

func toResponse(e *domain.Entry) domain.Response {
	return domain.Response{
		ID:        snowflake.ID(e.ID).String(),
		Phase:     e.Phase,
		Name:      e.ProductName,
		Code:      e.ProductCode,
		Category:  e.Category,
		Date:      e.DateKey,
		Quantity:  e.Quantity,
		Unit:      e.Unit,
		Note:      e.Note,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

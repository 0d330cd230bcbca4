package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/cocinamqb/stockdiario/internal/catalog/domain"
	"github.com/cocinamqb/stockdiario/internal/clock"
	"github.com/cocinamqb/stockdiario/internal/observability/metrics"
	"github.com/cocinamqb/stockdiario/internal/shortage/domain"
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
		log:     p.Log.Named("shortage.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		catalog: p.Catalog,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.ProductName)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.CurrentQuantity.IsNegative() || req.Threshold.IsNegative() {
		return nil, domain.ErrInvalidQuantity
	}
	dateKey, err := s.resolveDate(req.Date)
	if err != nil {
		return nil, err
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = "unidad"
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "General"
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = domain.Describe(name, req.CurrentQuantity, req.Threshold, unit)
	}

	now := s.clock.Now()
	rec := &domain.Record{
		ID:              s.genID.Generate().Int64(),
		Description:     description,
		Category:        category,
		ProductName:     name,
		DateKey:         dateKey,
		CurrentQuantity: req.CurrentQuantity,
		Threshold:       req.Threshold,
		Unit:            unit,
		Automatic:       false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, s.db, rec); err != nil {
		return nil, err
	}
	resp := toResponse(rec)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	dateKey, err := s.resolveDate(req.Date)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByDate(ctx, s.db, dateKey)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		if req.Automatic != nil && item.Automatic != *req.Automatic {
			continue
		}
		resp = append(resp, toResponse(&item))
	}
	return resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	rec, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, rec.ID)
}

func (s *Service) Resolve(ctx context.Context, id string) (*domain.Response, error) {
	rec, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Resolved = true
	rec.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, rec); err != nil {
		return nil, err
	}
	resp := toResponse(rec)
	return &resp, nil
}

// Reconcile converges the automatic shortage records for dateKey with the
// supplied count entries. Manual records pass through untouched. Deletions
// run before creations and the whole pass is one transaction, so a crash
// leaves either the old or the new set, never a mix.
func (s *Service) Reconcile(ctx context.Context, dateKey string, entries []domain.ReconcileEntry) (*domain.ReconcileResult, error) {
	dateKey, err := s.resolveDate(dateKey)
	if err != nil {
		return nil, err
	}

	active := true
	monitored, err := s.catalog.List(ctx, catalogdomain.ListRequest{WithMinimum: true, Active: &active})
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]catalogdomain.Response, len(monitored))
	byName := make(map[string]catalogdomain.Response, len(monitored))
	for _, p := range monitored {
		if p.Code != "" {
			byCode[p.Code] = p
		}
		byName[strings.ToLower(p.Name)] = p
	}

	existing, err := s.repo.ListAutomaticByDate(ctx, s.db, dateKey)
	if err != nil {
		return nil, err
	}
	existingByName := make(map[string]*domain.Record, len(existing))
	for i := range existing {
		existingByName[strings.ToLower(existing[i].ProductName)] = &existing[i]
	}

	now := s.clock.Now()
	result := &domain.ReconcileResult{}
	var toCreate, toUpdate []*domain.Record
	var toDelete []*domain.Record
	seen := make(map[string]bool, len(entries))

	for _, entry := range entries {
		product, ok := byCode[entry.Code]
		if !ok {
			product, ok = byName[strings.ToLower(entry.Name)]
		}
		if !ok {
			// No configured minimum for this product.
			continue
		}
		key := strings.ToLower(product.Name)
		seen[key] = true
		current := existingByName[key]

		if entry.Quantity.LessThan(product.MinThreshold) {
			if current == nil {
				toCreate = append(toCreate, &domain.Record{
					ID:              s.genID.Generate().Int64(),
					Description:     domain.Describe(product.Name, entry.Quantity, product.MinThreshold, entry.Unit),
					Category:        product.Category,
					ProductName:     product.Name,
					ProductCode:     product.Code,
					DateKey:         dateKey,
					CurrentQuantity: entry.Quantity,
					Threshold:       product.MinThreshold,
					Unit:            entry.Unit,
					Automatic:       true,
					CreatedAt:       now,
					UpdatedAt:       now,
				})
			} else if !current.CurrentQuantity.Equal(entry.Quantity) || !current.Threshold.Equal(product.MinThreshold) {
				current.CurrentQuantity = entry.Quantity
				current.Threshold = product.MinThreshold
				current.Description = domain.Describe(product.Name, entry.Quantity, product.MinThreshold, current.Unit)
				current.UpdatedAt = now
				toUpdate = append(toUpdate, current)
			}
			continue
		}

		if current != nil {
			// Recovered above the minimum.
			toDelete = append(toDelete, current)
		}
	}

	for key, rec := range existingByName {
		if !seen[key] {
			// Product no longer in the count.
			toDelete = append(toDelete, rec)
		}
	}

	if len(toCreate) == 0 && len(toUpdate) == 0 && len(toDelete) == 0 {
		return result, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range toDelete {
			if err := s.repo.Delete(ctx, tx, rec.ID); err != nil {
				return err
			}
		}
		for _, rec := range toUpdate {
			if err := s.repo.Update(ctx, tx, rec); err != nil {
				return err
			}
		}
		for _, rec := range toCreate {
			if err := s.repo.Create(ctx, tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, rec := range toCreate {
		result.Created = append(result.Created, toResponse(rec))
	}
	for _, rec := range toUpdate {
		result.Updated = append(result.Updated, toResponse(rec))
	}
	for _, rec := range toDelete {
		result.Deleted = append(result.Deleted, toResponse(rec))
	}

	if s.metrics != nil {
		s.metrics.RecordShortagesCreated(ctx, len(result.Created))
		s.metrics.RecordShortagesResolved(ctx, len(result.Deleted))
	}
	s.log.Info("shortages reconciled",
		zap.String("date", dateKey),
		zap.Int("created", len(result.Created)),
		zap.Int("updated", len(result.Updated)),
		zap.Int("deleted", len(result.Deleted)),
	)
	return result, nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.Record, error) {
	recordID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	rec, err := s.repo.FindByID(ctx, s.db, recordID.Int64())
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec, nil
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

func toResponse(rec *domain.Record) domain.Response {
	return domain.Response{
		ID:              snowflake.ID(rec.ID).String(),
		Description:     rec.Description,
		Category:        rec.Category,
		ProductName:     rec.ProductName,
		ProductCode:     rec.ProductCode,
		Date:            rec.DateKey,
		CurrentQuantity: rec.CurrentQuantity,
		Threshold:       rec.Threshold,
		Unit:            rec.Unit,
		Automatic:       rec.Automatic,
		Resolved:        rec.Resolved,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
}

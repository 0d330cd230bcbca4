package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/cocinamqb/stockdiario/internal/clock"
	"github.com/cocinamqb/stockdiario/internal/history/domain"
	"github.com/cocinamqb/stockdiario/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("history.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) Upsert(ctx context.Context, req domain.UpsertRequest) (*domain.Response, error) {
	dateKey := strings.TrimSpace(req.Date)
	if dateKey == "" {
		return nil, domain.ErrInvalidDate
	}
	if _, err := clock.ParseDateKey(dateKey); err != nil {
		return nil, domain.ErrInvalidDate
	}

	record := &domain.DayRecord{
		DateKey:     dateKey,
		RunID:       req.RunID,
		Summary:     req.Summary,
		FinalizedAt: req.FinalizedAt,
	}
	var err error
	if record.InitialSnapshot, err = marshalSnapshot(req.Initial); err != nil {
		return nil, err
	}
	if record.FinalSnapshot, err = marshalSnapshot(req.Final); err != nil {
		return nil, err
	}
	if record.ShortageSnapshot, err = marshalSnapshot(req.Shortages); err != nil {
		return nil, err
	}
	if record.PendingSnapshot, err = marshalSnapshot(req.Pendings); err != nil {
		return nil, err
	}
	if record.TaskSnapshot, err = marshalSnapshot(req.Tasks); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByDate(ctx, s.db, dateKey)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	record.UpdatedAt = now
	overwrote := existing != nil

	if overwrote {
		s.log.Warn("overwriting archived day record",
			zap.String("date", dateKey),
			zap.String("previous_run_id", existing.RunID),
			zap.String("run_id", req.RunID),
		)
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		if err := s.repo.Update(ctx, s.db, record); err != nil {
			return nil, err
		}
	} else {
		record.ID = s.genID.Generate().Int64()
		record.CreatedAt = now
		if err := s.repo.Create(ctx, s.db, record); err != nil {
			return nil, err
		}
	}

	if s.metrics != nil {
		s.metrics.RecordHistoryUpsert(ctx, overwrote)
	}

	resp := toResponse(record)
	resp.Overwrote = overwrote
	return &resp, nil
}

func (s *Service) FindByDate(ctx context.Context, dateKey string) (*domain.Response, error) {
	dateKey = strings.TrimSpace(dateKey)
	if dateKey == "" {
		return nil, domain.ErrInvalidDate
	}
	record, err := s.repo.FindByDate(ctx, s.db, dateKey)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) ListDates(ctx context.Context) ([]string, error) {
	return s.repo.ListDates(ctx, s.db)
}

func marshalSnapshot(v any) (datatypes.JSON, error) {
	if v == nil {
		return datatypes.JSON([]byte(`[]`)), nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, domain.ErrInvalidSnapshot
	}
	return datatypes.JSON(raw), nil
}

func toResponse(record *domain.DayRecord) domain.Response {
	return domain.Response{
		ID:          snowflake.ID(record.ID).String(),
		Date:        record.DateKey,
		RunID:       record.RunID,
		Initial:     record.InitialSnapshot,
		Final:       record.FinalSnapshot,
		Shortages:   record.ShortageSnapshot,
		Pendings:    domain.NormalizePendings(record.PendingSnapshot),
		Tasks:       domain.NormalizeTasks(record.TaskSnapshot),
		Summary:     record.Summary,
		FinalizedAt: record.FinalizedAt,
	}
}

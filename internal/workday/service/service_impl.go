package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/cocinamqb/stockdiario/internal/clock"
	"github.com/cocinamqb/stockdiario/internal/config"
	countdomain "github.com/cocinamqb/stockdiario/internal/count/domain"
	historydomain "github.com/cocinamqb/stockdiario/internal/history/domain"
	"github.com/cocinamqb/stockdiario/internal/observability/metrics"
	shortagedomain "github.com/cocinamqb/stockdiario/internal/shortage/domain"
	taskdomain "github.com/cocinamqb/stockdiario/internal/task/domain"
	"github.com/cocinamqb/stockdiario/internal/workday/domain"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Holder       *config.ReportConfigHolder
	CountSvc     countdomain.Service
	CountRepo    countdomain.Repository
	ShortageSvc  shortagedomain.Service
	ShortageRepo shortagedomain.Repository
	TaskSvc      taskdomain.Service
	TaskRepo     taskdomain.Repository
	HistorySvc   historydomain.Service
	Metrics      *metrics.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	holder       *config.ReportConfigHolder
	countSvc     countdomain.Service
	countRepo    countdomain.Repository
	shortageSvc  shortagedomain.Service
	shortageRepo shortagedomain.Repository
	taskSvc      taskdomain.Service
	taskRepo     taskdomain.Repository
	historySvc   historydomain.Service
	metrics      *metrics.Metrics

	// mu serializes finalize runs. A double-click is a second complete run
	// against the already-cleared day, not a race.
	mu   sync.Mutex
	step domain.Step
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("workday.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		holder:       p.Holder,
		countSvc:     p.CountSvc,
		countRepo:    p.CountRepo,
		shortageSvc:  p.ShortageSvc,
		shortageRepo: p.ShortageRepo,
		taskSvc:      p.TaskSvc,
		taskRepo:     p.TaskRepo,
		historySvc:   p.HistorySvc,
		metrics:      p.Metrics,
		step:         domain.StepIdle,
	}
}

func (s *Service) Load(ctx context.Context, date string) (*domain.WorkingSet, error) {
	dateKey, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}

	initial, err := s.countSvc.List(ctx, countdomain.ListRequest{Phase: countdomain.PhaseInitial, Date: dateKey})
	if err != nil {
		return nil, err
	}
	final, err := s.countSvc.List(ctx, countdomain.ListRequest{Phase: countdomain.PhaseFinal, Date: dateKey})
	if err != nil {
		return nil, err
	}
	shortages, err := s.shortageSvc.List(ctx, shortagedomain.ListRequest{Date: dateKey})
	if err != nil {
		return nil, err
	}
	pendings, err := s.taskSvc.ListPendings(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskSvc.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.WorkingSet{
		Date:      dateKey,
		Initial:   initial,
		Final:     final,
		Shortages: shortages,
		Pendings:  pendings,
		Tasks:     tasks,
	}, nil
}

func (s *Service) Summary(ctx context.Context, date string) (string, error) {
	set, err := s.Load(ctx, date)
	if err != nil {
		return "", err
	}
	completed := CompleteFinalCount(set.Initial, set.Final, s.clock.Now())
	return s.buildSummary(set, completed), nil
}

func (s *Service) Finalize(ctx context.Context, date string) (*domain.FinalizeResult, error) {
	s.mu.Lock()
	defer func() {
		s.setStep(domain.StepIdle)
		s.mu.Unlock()
	}()

	result, err := s.finalize(ctx, date)
	if s.metrics != nil {
		if err != nil {
			s.metrics.RecordDayFinalized(ctx, "error")
		} else {
			s.metrics.RecordDayFinalized(ctx, "ok")
		}
	}
	return result, err
}

func (s *Service) finalize(ctx context.Context, date string) (*domain.FinalizeResult, error) {
	dateKey, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}

	set, err := s.Load(ctx, dateKey)
	if err != nil {
		return nil, err
	}
	if set.Empty() {
		return nil, domain.ErrNothingToFinalize
	}

	now := s.clock.Now()
	runID := uuid.NewString()
	log := s.log.With(zap.String("run_id", runID), zap.String("date", dateKey))
	log.Info("finalizing working day")

	s.setStep(domain.StepCompleting)
	completed := CompleteFinalCount(set.Initial, set.Final, now)
	entriesCompleted := len(completed) - len(set.Final)
	if s.metrics != nil && entriesCompleted > 0 {
		s.metrics.RecordEntriesCompleted(ctx, entriesCompleted)
	}

	// From here on the shortage store may already reflect this run even if a
	// later step fails. Callers retry the whole finalize; reconciliation is
	// idempotent so the rerun converges.
	s.setStep(domain.StepDetecting)
	reconcileEntries := make([]shortagedomain.ReconcileEntry, 0, len(completed))
	for _, entry := range completed {
		reconcileEntries = append(reconcileEntries, shortagedomain.ReconcileEntry{
			Name:     entry.Name,
			Code:     entry.Code,
			Category: entry.Category,
			Quantity: entry.Quantity,
			Unit:     entry.Unit,
		})
	}
	reconciled, err := s.shortageSvc.Reconcile(ctx, dateKey, reconcileEntries)
	if err != nil {
		return nil, fmt.Errorf("detect shortages: %w", err)
	}

	s.setStep(domain.StepArchiving)
	set.Shortages, err = s.shortageSvc.List(ctx, shortagedomain.ListRequest{Date: dateKey})
	if err != nil {
		return nil, fmt.Errorf("archive day: %w", err)
	}
	summary := s.buildSummary(set, completed)
	archived, err := s.historySvc.Upsert(ctx, historydomain.UpsertRequest{
		Date:        dateKey,
		RunID:       runID,
		Initial:     set.Initial,
		Final:       completed,
		Shortages:   set.Shortages,
		Pendings:    pendingSnapshots(set.Pendings),
		Tasks:       taskSnapshots(set.Tasks),
		Summary:     summary,
		FinalizedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("archive day: %w", err)
	}

	s.setStep(domain.StepCarryingForward)
	nextDate := s.nextDate(dateKey)
	carried := false
	if len(set.Initial) > 0 {
		if err := s.carryForward(ctx, nextDate, set.Initial, completed); err != nil {
			// The day is archived; tomorrow just starts without a
			// pre-filled initial count. Today's rows go with the rest
			// of the clear either way, nothing is silently retained.
			log.Error("carry forward failed, next day starts empty", zap.Error(err))
		} else {
			carried = true
		}
	}

	s.setStep(domain.StepClearing)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.countRepo.DeleteByPhaseDate(ctx, tx, countdomain.PhaseFinal, dateKey); err != nil {
			return err
		}
		if err := s.shortageRepo.DeleteByDate(ctx, tx, dateKey); err != nil {
			return err
		}
		if err := s.taskRepo.DeleteAllPendings(ctx, tx); err != nil {
			return err
		}
		if err := s.taskRepo.DeleteAllTasks(ctx, tx); err != nil {
			return err
		}
		return s.countRepo.DeleteByPhaseDate(ctx, tx, countdomain.PhaseInitial, dateKey)
	})
	if err != nil {
		return nil, fmt.Errorf("clear working day: %w", err)
	}

	log.Info("working day finalized",
		zap.String("next_date", nextDate),
		zap.Int("entries_completed", entriesCompleted),
		zap.Int("shortages_created", len(reconciled.Created)),
		zap.Int("shortages_resolved", len(reconciled.Deleted)),
		zap.Bool("carried_forward", carried),
		zap.Bool("overwrote", archived.Overwrote),
	)

	return &domain.FinalizeResult{
		RunID:             runID,
		Date:              dateKey,
		NextDate:          nextDate,
		EntriesCompleted:  entriesCompleted,
		ShortagesCreated:  len(reconciled.Created),
		ShortagesResolved: len(reconciled.Deleted),
		CarriedForward:    carried,
		Overwrote:         archived.Overwrote,
		Summary:           summary,
		FinalizedAt:       now,
	}, nil
}

// carryForward seeds nextDate's initial count from the completed final
// list in one atomic replace. Only products counted this morning roll
// over; an evening-only entry is usage data, not tomorrow's stock.
func (s *Service) carryForward(ctx context.Context, nextDate string, initial, completed []countdomain.Response) error {
	fromInitial := make(map[string]struct{}, len(initial))
	for _, entry := range initial {
		fromInitial[foldName(entry.Name)] = struct{}{}
	}

	entries := make([]countdomain.UpsertRequest, 0, len(completed))
	for _, entry := range completed {
		if _, ok := fromInitial[foldName(entry.Name)]; !ok {
			continue
		}
		note := domain.NoteUpdatedFromFinal
		if entry.Note == domain.NoteRetainedFromInitial {
			note = domain.NoteRetainedFromInitial
		}
		entries = append(entries, countdomain.UpsertRequest{
			Name:     entry.Name,
			Quantity: entry.Quantity,
			Unit:     entry.Unit,
			Note:     note,
		})
	}
	_, err := s.countSvc.ReplaceInitial(ctx, nextDate, entries)
	return err
}

func (s *Service) setStep(step domain.Step) {
	s.step = step
	if step != domain.StepIdle {
		s.log.Debug("finalize step", zap.String("step", string(step)))
	}
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

func (s *Service) nextDate(dateKey string) string {
	day, err := clock.ParseDateKey(dateKey)
	if err != nil {
		return dateKey
	}
	return clock.DateKey(day.AddDate(0, 0, 1))
}

func pendingSnapshots(pendings []taskdomain.PendingResponse) []historydomain.PendingSnapshot {
	out := make([]historydomain.PendingSnapshot, 0, len(pendings))
	for _, pending := range pendings {
		out = append(out, historydomain.PendingSnapshot{Text: pending.Text})
	}
	return out
}

func taskSnapshots(tasks []taskdomain.TaskResponse) []historydomain.TaskSnapshot {
	out := make([]historydomain.TaskSnapshot, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, historydomain.TaskSnapshot{
			Description: task.Description,
			DueDate:     task.DueDate,
			Assignee:    task.Assignee,
			Done:        task.Done,
		})
	}
	return out
}

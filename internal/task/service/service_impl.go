package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/cocinamqb/stockdiario/internal/clock"
	"github.com/cocinamqb/stockdiario/internal/task/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("task.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) CreatePending(ctx context.Context, text string) (*domain.PendingResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrInvalidText
	}

	now := s.clock.Now()
	pending := &domain.Pending{
		ID:        s.genID.Generate().Int64(),
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreatePending(ctx, s.db, pending); err != nil {
		return nil, err
	}
	resp := toPendingResponse(pending)
	return &resp, nil
}

func (s *Service) ListPendings(ctx context.Context) ([]domain.PendingResponse, error) {
	items, err := s.repo.ListPendings(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.PendingResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toPendingResponse(&item))
	}
	return resp, nil
}

func (s *Service) DeletePending(ctx context.Context, id string) error {
	pendingID, err := parseID(id)
	if err != nil {
		return err
	}
	existing, err := s.repo.FindPending(ctx, s.db, pendingID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	return s.repo.DeletePending(ctx, s.db, pendingID)
}

func (s *Service) CreateTask(ctx context.Context, req domain.CreateTaskRequest) (*domain.TaskResponse, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, domain.ErrInvalidDescription
	}

	now := s.clock.Now()
	task := &domain.Task{
		ID:          s.genID.Generate().Int64(),
		Description: description,
		DueDate:     strings.TrimSpace(req.DueDate),
		Assignee:    strings.TrimSpace(req.Assignee),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateTask(ctx, s.db, task); err != nil {
		return nil, err
	}
	resp := toTaskResponse(task)
	return &resp, nil
}

func (s *Service) UpdateTask(ctx context.Context, req domain.UpdateTaskRequest) (*domain.TaskResponse, error) {
	task, err := s.findTask(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, domain.ErrInvalidDescription
		}
		task.Description = description
	}
	if req.DueDate != nil {
		task.DueDate = strings.TrimSpace(*req.DueDate)
	}
	if req.Assignee != nil {
		task.Assignee = strings.TrimSpace(*req.Assignee)
	}
	if req.Done != nil {
		task.Done = *req.Done
	}

	task.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateTask(ctx, s.db, task); err != nil {
		return nil, err
	}
	resp := toTaskResponse(task)
	return &resp, nil
}

func (s *Service) ListTasks(ctx context.Context) ([]domain.TaskResponse, error) {
	items, err := s.repo.ListTasks(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.TaskResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toTaskResponse(&item))
	}
	return resp, nil
}

func (s *Service) CompleteTask(ctx context.Context, id string) error {
	task, err := s.findTask(ctx, id)
	if err != nil {
		return err
	}
	s.log.Debug("task completed", zap.String("description", task.Description))
	return s.repo.DeleteTask(ctx, s.db, task.ID)
}

func (s *Service) DeleteTask(ctx context.Context, id string) error {
	task, err := s.findTask(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.DeleteTask(ctx, s.db, task.ID)
}

func (s *Service) findTask(ctx context.Context, id string) (*domain.Task, error) {
	taskID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	task, err := s.repo.FindTask(ctx, s.db, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrNotFound
	}
	return task, nil
}

func parseID(id string) (int64, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return parsed.Int64(), nil
}

func toPendingResponse(p *domain.Pending) domain.PendingResponse {
	return domain.PendingResponse{
		ID:        snowflake.ID(p.ID).String(),
		Text:      p.Text,
		CreatedAt: p.CreatedAt,
	}
}

func toTaskResponse(t *domain.Task) domain.TaskResponse {
	return domain.TaskResponse{
		ID:          snowflake.ID(t.ID).String(),
		Description: t.Description,
		DueDate:     t.DueDate,
		Assignee:    t.Assignee,
		Done:        t.Done,
		CreatedAt:   t.CreatedAt,
	}
}

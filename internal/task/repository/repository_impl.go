package repository

import (
	"context"

	"github.com/cocinamqb/stockdiario/internal/task/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CreatePending(ctx context.Context, db *gorm.DB, pending *domain.Pending) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO pendings (id, text, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		pending.ID,
		pending.Text,
		pending.CreatedAt,
		pending.UpdatedAt,
	).Error
}

func (r *repo) DeletePending(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Exec(`DELETE FROM pendings WHERE id = ?`, id).Error
}

func (r *repo) FindPending(ctx context.Context, db *gorm.DB, id int64) (*domain.Pending, error) {
	var p domain.Pending
	err := db.WithContext(ctx).Raw(
		`SELECT id, text, created_at, updated_at FROM pendings WHERE id = ?`, id,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) ListPendings(ctx context.Context, db *gorm.DB) ([]domain.Pending, error) {
	var items []domain.Pending
	err := db.WithContext(ctx).Raw(
		`SELECT id, text, created_at, updated_at FROM pendings ORDER BY created_at ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) DeleteAllPendings(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Exec(`DELETE FROM pendings`).Error
}

func (r *repo) CreateTask(ctx context.Context, db *gorm.DB, task *domain.Task) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO tasks (id, description, due_date, assignee, done, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.ID,
		task.Description,
		task.DueDate,
		task.Assignee,
		task.Done,
		task.CreatedAt,
		task.UpdatedAt,
	).Error
}

func (r *repo) UpdateTask(ctx context.Context, db *gorm.DB, task *domain.Task) error {
	if task == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE tasks SET description = ?, due_date = ?, assignee = ?, done = ?, updated_at = ?
		 WHERE id = ?`,
		task.Description,
		task.DueDate,
		task.Assignee,
		task.Done,
		task.UpdatedAt,
		task.ID,
	).Error
}

func (r *repo) DeleteTask(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Exec(`DELETE FROM tasks WHERE id = ?`, id).Error
}

func (r *repo) FindTask(ctx context.Context, db *gorm.DB, id int64) (*domain.Task, error) {
	var t domain.Task
	err := db.WithContext(ctx).Raw(
		`SELECT id, description, due_date, assignee, done, created_at, updated_at
		 FROM tasks WHERE id = ?`, id,
	).Scan(&t).Error
	if err != nil {
		return nil, err
	}
	if t.ID == 0 {
		return nil, nil
	}
	return &t, nil
}

func (r *repo) ListTasks(ctx context.Context, db *gorm.DB) ([]domain.Task, error) {
	var items []domain.Task
	err := db.WithContext(ctx).Raw(
		`SELECT id, description, due_date, assignee, done, created_at, updated_at
		 FROM tasks ORDER BY created_at ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) DeleteAllTasks(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Exec(`DELETE FROM tasks`).Error
}

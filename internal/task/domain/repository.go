package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreatePending(ctx context.Context, db *gorm.DB, pending *Pending) error
	DeletePending(ctx context.Context, db *gorm.DB, id int64) error
	FindPending(ctx context.Context, db *gorm.DB, id int64) (*Pending, error)
	ListPendings(ctx context.Context, db *gorm.DB) ([]Pending, error)
	DeleteAllPendings(ctx context.Context, db *gorm.DB) error

	CreateTask(ctx context.Context, db *gorm.DB, task *Task) error
	UpdateTask(ctx context.Context, db *gorm.DB, task *Task) error
	DeleteTask(ctx context.Context, db *gorm.DB, id int64) error
	FindTask(ctx context.Context, db *gorm.DB, id int64) (*Task, error)
	ListTasks(ctx context.Context, db *gorm.DB) ([]Task, error)
	DeleteAllTasks(ctx context.Context, db *gorm.DB) error
}

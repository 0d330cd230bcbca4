package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	CreatePending(ctx context.Context, text string) (*PendingResponse, error)
	ListPendings(ctx context.Context) ([]PendingResponse, error)
	DeletePending(ctx context.Context, id string) error

	CreateTask(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error)
	UpdateTask(ctx context.Context, req UpdateTaskRequest) (*TaskResponse, error)
	ListTasks(ctx context.Context) ([]TaskResponse, error)
	// CompleteTask removes the task, matching the original workflow where a
	// finished task disappears from the board.
	CompleteTask(ctx context.Context, id string) error
	DeleteTask(ctx context.Context, id string) error
}

type CreateTaskRequest struct {
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Assignee    string `json:"assignee"`
}

type UpdateTaskRequest struct {
	ID          string  `json:"-"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Assignee    *string `json:"assignee"`
	Done        *bool   `json:"done"`
}

type PendingResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type TaskResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	DueDate     string    `json:"due_date"`
	Assignee    string    `json:"assignee"`
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"created_at"`
}

var (
	ErrInvalidText        = errors.New("invalid_text")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
)

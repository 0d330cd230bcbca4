package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	GetByName(ctx context.Context, name string) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Delete(ctx context.Context, id string) error
}

type ListRequest struct {
	Category    string
	Active      *bool
	WithMinimum bool
	SortBy      string
	OrderBy     string
}

type CreateRequest struct {
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	MinThreshold decimal.Decimal `json:"min_threshold"`
	Active       *bool           `json:"active"`
}

type UpdateRequest struct {
	ID           string           `json:"-"`
	Name         *string          `json:"name"`
	Category     *string          `json:"category"`
	Unit         *string          `json:"unit"`
	MinThreshold *decimal.Decimal `json:"min_threshold"`
	Active       *bool            `json:"active"`
}

type Response struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	MinThreshold decimal.Decimal `json:"min_threshold"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidCategory  = errors.New("invalid_category")
	ErrInvalidThreshold = errors.New("invalid_min_threshold")
	ErrInvalidID        = errors.New("invalid_id")
	ErrNameTaken        = errors.New("name_taken")
	ErrNotFound         = errors.New("not_found")
)

package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Delete(ctx context.Context, id string) error
	Resolve(ctx context.Context, id string) (*Response, error)
	Reconcile(ctx context.Context, dateKey string, entries []ReconcileEntry) (*ReconcileResult, error)
}

// CreateRequest adds a manual shortage record. Manual records are never
// touched by reconciliation.
type CreateRequest struct {
	ProductName     string          `json:"product_name"`
	Category        string          `json:"category"`
	Date            string          `json:"date"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	Threshold       decimal.Decimal `json:"threshold"`
	Unit            string          `json:"unit"`
	Description     string          `json:"description"`
}

type ListRequest struct {
	Date      string `json:"date"`
	Automatic *bool  `json:"automatic"`
}

// ReconcileEntry is the slice of a final count entry that shortage
// detection needs.
type ReconcileEntry struct {
	Name     string
	Code     string
	Category string
	Quantity decimal.Decimal
	Unit     string
}

// ReconcileResult reports what one reconciliation pass changed. A second
// pass over the same inputs yields an empty result.
type ReconcileResult struct {
	Created []Response `json:"created"`
	Updated []Response `json:"updated"`
	Deleted []Response `json:"deleted"`
}

func (r *ReconcileResult) Empty() bool {
	return len(r.Created) == 0 && len(r.Updated) == 0 && len(r.Deleted) == 0
}

type Response struct {
	ID              string          `json:"id"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	ProductName     string          `json:"product_name"`
	ProductCode     string          `json:"product_code"`
	Date            string          `json:"date"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	Threshold       decimal.Decimal `json:"threshold"`
	Unit            string          `json:"unit"`
	Automatic       bool            `json:"automatic"`
	Resolved        bool            `json:"resolved"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidDate     = errors.New("invalid_date")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
)

package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	Upsert(ctx context.Context, req UpsertRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Delete(ctx context.Context, req DeleteRequest) error
	ReplaceInitial(ctx context.Context, dateKey string, entries []UpsertRequest) ([]Response, error)
}

type UpsertRequest struct {
	Phase    Phase           `json:"phase"`
	Name     string          `json:"name"`
	Date     string          `json:"date"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Note     string          `json:"note"`
}

type ListRequest struct {
	Phase Phase  `json:"phase"`
	Date  string `json:"date"`
}

type DeleteRequest struct {
	Phase Phase  `json:"phase"`
	Name  string `json:"name"`
	Date  string `json:"date"`
}

type Response struct {
	ID        string          `json:"id"`
	Phase     Phase           `json:"phase"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	Category  string          `json:"category"`
	Date      string          `json:"date"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	Note      string          `json:"note"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// IndexByName maps count entries by lower-cased product name, the key both
// counts share for pairing initial against final.
func IndexByName(entries []Response) map[string]Response {
	idx := make(map[string]Response, len(entries))
	for _, e := range entries {
		idx[strings.ToLower(e.Name)] = e
	}
	return idx
}

// Usage derives how much of a product was consumed during the day: the
// initial quantity minus the final one. Products counted only at closing
// report zero usage.
func Usage(initialByName map[string]Response, final Response) decimal.Decimal {
	initial, ok := initialByName[strings.ToLower(final.Name)]
	if !ok {
		return decimal.Zero
	}
	return initial.Quantity.Sub(final.Quantity)
}

var (
	ErrInvalidPhase    = errors.New("invalid_phase")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidDate     = errors.New("invalid_date")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrNotFound        = errors.New("not_found")
)

package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
)

type Service interface {
	// Upsert archives a finalized day. A record already stored for the same
	// date is overwritten, last write wins.
	Upsert(ctx context.Context, req UpsertRequest) (*Response, error)
	FindByDate(ctx context.Context, dateKey string) (*Response, error)
	ListDates(ctx context.Context) ([]string, error)
}

type UpsertRequest struct {
	Date        string
	RunID       string
	Initial     any
	Final       any
	Shortages   any
	Pendings    any
	Tasks       any
	Summary     string
	FinalizedAt time.Time
}

type Response struct {
	ID          string            `json:"id"`
	Date        string            `json:"date"`
	RunID       string            `json:"run_id"`
	Initial     datatypes.JSON    `json:"initial"`
	Final       datatypes.JSON    `json:"final"`
	Shortages   datatypes.JSON    `json:"shortages"`
	Pendings    []PendingSnapshot `json:"pendings"`
	Tasks       []TaskSnapshot    `json:"tasks"`
	Summary     string            `json:"summary"`
	FinalizedAt time.Time         `json:"finalized_at"`
	Overwrote   bool              `json:"-"`
}

var (
	ErrInvalidDate     = errors.New("invalid_date")
	ErrInvalidSnapshot = errors.New("invalid_snapshot")
	ErrNotFound        = errors.New("not_found")
)

package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Load(ctx context.Context, date string) (*WorkingSet, error)
	// Summary renders the day report for date without writing anything.
	Summary(ctx context.Context, date string) (string, error)
	// Finalize archives the day and rolls the stock over to the next one.
	// Concurrent calls are serialized; the second caller runs a fresh pass.
	Finalize(ctx context.Context, date string) (*FinalizeResult, error)
}

type FinalizeResult struct {
	RunID             string    `json:"run_id"`
	Date              string    `json:"date"`
	NextDate          string    `json:"next_date"`
	EntriesCompleted  int       `json:"entries_completed"`
	ShortagesCreated  int       `json:"shortages_created"`
	ShortagesResolved int       `json:"shortages_resolved"`
	CarriedForward    bool      `json:"carried_forward"`
	Overwrote         bool      `json:"overwrote"`
	Summary           string    `json:"summary"`
	FinalizedAt       time.Time `json:"finalized_at"`
}

var (
	ErrInvalidDate = errors.New("invalid_date")
	// ErrNothingToFinalize guards an empty day: no initial and no final
	// count means nothing is written anywhere.
	ErrNothingToFinalize = errors.New("nothing_to_finalize")
)

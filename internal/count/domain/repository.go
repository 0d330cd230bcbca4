package domain

import (
	"context"

	"gorm.io/gorm"
)

// Repository methods take the db handle so callers can run several of them
// inside one transaction.
type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, entry *Entry) error
	Find(ctx context.Context, db *gorm.DB, phase Phase, name, dateKey string) (*Entry, error)
	ListByPhase(ctx context.Context, db *gorm.DB, phase Phase, dateKey string) ([]Entry, error)
	Delete(ctx context.Context, db *gorm.DB, phase Phase, name, dateKey string) error
	DeleteByPhaseDate(ctx context.Context, db *gorm.DB, phase Phase, dateKey string) error
}

package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, record *DayRecord) error
	Update(ctx context.Context, db *gorm.DB, record *DayRecord) error
	FindByDate(ctx context.Context, db *gorm.DB, dateKey string) (*DayRecord, error)
	ListDates(ctx context.Context, db *gorm.DB) ([]string, error)
}

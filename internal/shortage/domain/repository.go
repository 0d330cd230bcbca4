package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, record *Record) error
	Update(ctx context.Context, db *gorm.DB, record *Record) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
	DeleteByDate(ctx context.Context, db *gorm.DB, dateKey string) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Record, error)
	ListByDate(ctx context.Context, db *gorm.DB, dateKey string) ([]Record, error)
	ListAutomaticByDate(ctx context.Context, db *gorm.DB, dateKey string) ([]Record, error)
}

package repository

import (
	"context"

	"github.com/cocinamqb/stockdiario/internal/shortage/domain"
	"gorm.io/gorm"
)

const recordColumns = `id, description, category, product_name, product_code, date_key,
	current_quantity, threshold, unit, automatic, resolved, created_at, updated_at`

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, record *domain.Record) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO shortage_records (id, description, category, product_name, product_code, date_key,
		   current_quantity, threshold, unit, automatic, resolved, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Description,
		record.Category,
		record.ProductName,
		record.ProductCode,
		record.DateKey,
		record.CurrentQuantity,
		record.Threshold,
		record.Unit,
		record.Automatic,
		record.Resolved,
		record.CreatedAt,
		record.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, record *domain.Record) error {
	if record == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE shortage_records
		 SET description = ?, current_quantity = ?, threshold = ?, resolved = ?, updated_at = ?
		 WHERE id = ?`,
		record.Description,
		record.CurrentQuantity,
		record.Threshold,
		record.Resolved,
		record.UpdatedAt,
		record.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Exec(`DELETE FROM shortage_records WHERE id = ?`, id).Error
}

func (r *repo) DeleteByDate(ctx context.Context, db *gorm.DB, dateKey string) error {
	return db.WithContext(ctx).Exec(`DELETE FROM shortage_records WHERE date_key = ?`, dateKey).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Record, error) {
	var rec domain.Record
	err := db.WithContext(ctx).Raw(
		`SELECT `+recordColumns+` FROM shortage_records WHERE id = ?`,
		id,
	).Scan(&rec).Error
	if err != nil {
		return nil, err
	}
	if rec.ID == 0 {
		return nil, nil
	}
	return &rec, nil
}

func (r *repo) ListByDate(ctx context.Context, db *gorm.DB, dateKey string) ([]domain.Record, error) {
	var items []domain.Record
	err := db.WithContext(ctx).Raw(
		`SELECT `+recordColumns+` FROM shortage_records
		 WHERE date_key = ? ORDER BY product_name ASC`,
		dateKey,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListAutomaticByDate(ctx context.Context, db *gorm.DB, dateKey string) ([]domain.Record, error) {
	var items []domain.Record
	err := db.WithContext(ctx).Raw(
		`SELECT `+recordColumns+` FROM shortage_records
		 WHERE date_key = ? AND automatic ORDER BY product_name ASC`,
		dateKey,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

package repository

import (
	"context"

	"github.com/cocinamqb/stockdiario/internal/count/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, entry *domain.Entry) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO count_entries (id, phase, product_name, product_code, category, date_key, quantity, unit, note, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (phase, LOWER(product_name), date_key) DO UPDATE SET
		   product_code = excluded.product_code,
		   category = excluded.category,
		   quantity = excluded.quantity,
		   unit = excluded.unit,
		   note = excluded.note,
		   updated_at = excluded.updated_at`,
		entry.ID,
		entry.Phase,
		entry.ProductName,
		entry.ProductCode,
		entry.Category,
		entry.DateKey,
		entry.Quantity,
		entry.Unit,
		entry.Note,
		entry.CreatedAt,
		entry.UpdatedAt,
	).Error
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, phase domain.Phase, name, dateKey string) (*domain.Entry, error) {
	var e domain.Entry
	err := db.WithContext(ctx).Raw(
		`SELECT id, phase, product_name, product_code, category, date_key, quantity, unit, note, created_at, updated_at
		 FROM count_entries
		 WHERE phase = ? AND LOWER(product_name) = LOWER(?) AND date_key = ?`,
		phase,
		name,
		dateKey,
	).Scan(&e).Error
	if err != nil {
		return nil, err
	}
	if e.ID == 0 {
		return nil, nil
	}
	return &e, nil
}

func (r *repo) ListByPhase(ctx context.Context, db *gorm.DB, phase domain.Phase, dateKey string) ([]domain.Entry, error) {
	var items []domain.Entry
	err := db.WithContext(ctx).Raw(
		`SELECT id, phase, product_name, product_code, category, date_key, quantity, unit, note, created_at, updated_at
		 FROM count_entries
		 WHERE phase = ? AND date_key = ?
		 ORDER BY product_name ASC`,
		phase,
		dateKey,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, phase domain.Phase, name, dateKey string) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM count_entries
		 WHERE phase = ? AND LOWER(product_name) = LOWER(?) AND date_key = ?`,
		phase,
		name,
		dateKey,
	).Error
}

func (r *repo) DeleteByPhaseDate(ctx context.Context, db *gorm.DB, phase domain.Phase, dateKey string) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM count_entries WHERE phase = ? AND date_key = ?`,
		phase,
		dateKey,
	).Error
}

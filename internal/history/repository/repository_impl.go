package repository

import (
	"context"

	"github.com/cocinamqb/stockdiario/internal/history/domain"
	"gorm.io/gorm"
)

const recordColumns = `id, date_key, run_id, initial_snapshot, final_snapshot,
	shortage_snapshot, pending_snapshot, task_snapshot, summary, finalized_at,
	created_at, updated_at`

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, record *domain.DayRecord) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO day_records (id, date_key, run_id, initial_snapshot, final_snapshot,
		   shortage_snapshot, pending_snapshot, task_snapshot, summary, finalized_at,
		   created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.DateKey,
		record.RunID,
		record.InitialSnapshot,
		record.FinalSnapshot,
		record.ShortageSnapshot,
		record.PendingSnapshot,
		record.TaskSnapshot,
		record.Summary,
		record.FinalizedAt,
		record.CreatedAt,
		record.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, record *domain.DayRecord) error {
	if record == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE day_records
		 SET run_id = ?, initial_snapshot = ?, final_snapshot = ?, shortage_snapshot = ?,
		   pending_snapshot = ?, task_snapshot = ?, summary = ?, finalized_at = ?, updated_at = ?
		 WHERE date_key = ?`,
		record.RunID,
		record.InitialSnapshot,
		record.FinalSnapshot,
		record.ShortageSnapshot,
		record.PendingSnapshot,
		record.TaskSnapshot,
		record.Summary,
		record.FinalizedAt,
		record.UpdatedAt,
		record.DateKey,
	).Error
}

func (r *repo) FindByDate(ctx context.Context, db *gorm.DB, dateKey string) (*domain.DayRecord, error) {
	var rec domain.DayRecord
	err := db.WithContext(ctx).Raw(
		`SELECT `+recordColumns+` FROM day_records WHERE date_key = ?`,
		dateKey,
	).Scan(&rec).Error
	if err != nil {
		return nil, err
	}
	if rec.ID == 0 {
		return nil, nil
	}
	return &rec, nil
}

func (r *repo) ListDates(ctx context.Context, db *gorm.DB) ([]string, error) {
	var dates []string
	err := db.WithContext(ctx).Raw(
		`SELECT date_key FROM day_records ORDER BY finalized_at DESC`,
	).Scan(&dates).Error
	if err != nil {
		return nil, err
	}
	return dates, nil
}

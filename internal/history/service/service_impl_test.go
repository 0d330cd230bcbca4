package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cocinamqb/stockdiario/internal/clock"
	"github.com/cocinamqb/stockdiario/internal/history/domain"
	"github.com/cocinamqb/stockdiario/internal/history/repository"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupHistoryService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	prepareHistorySchema(t, db)

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2024, 5, 15, 22, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})
	return svc, db
}

func prepareHistorySchema(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := db.Exec(`CREATE TABLE day_records (
		id BIGINT PRIMARY KEY,
		date_key TEXT NOT NULL,
		run_id TEXT NOT NULL DEFAULT '',
		initial_snapshot TEXT,
		final_snapshot TEXT,
		shortage_snapshot TEXT,
		pending_snapshot TEXT,
		task_snapshot TEXT,
		summary TEXT NOT NULL DEFAULT '',
		finalized_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`).Error; err != nil {
		t.Fatalf("create day_records: %v", err)
	}
	if err := db.Exec(`CREATE UNIQUE INDEX idx_day_records_date ON day_records (date_key)`).Error; err != nil {
		t.Fatalf("create date index: %v", err)
	}
}

func TestUpsertAndFindByDate(t *testing.T) {
	svc, _ := setupHistoryService(t)
	ctx := context.Background()

	resp, err := svc.Upsert(ctx, domain.UpsertRequest{
		Date:        "15/05/2024",
		RunID:       "run-1",
		Initial:     []map[string]any{{"name": "Tomate", "quantity": "5"}},
		Pendings:    []domain.PendingSnapshot{{Text: "Comprar gas"}},
		Summary:     "RESUMEN",
		FinalizedAt: time.Date(2024, 5, 15, 22, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if resp.Overwrote {
		t.Fatal("first upsert must not overwrite")
	}

	found, err := svc.FindByDate(ctx, "15/05/2024")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Summary != "RESUMEN" || found.RunID != "run-1" {
		t.Fatalf("unexpected record %+v", found)
	}
	if len(found.Pendings) != 1 || found.Pendings[0].Text != "Comprar gas" {
		t.Fatalf("unexpected pendings %+v", found.Pendings)
	}
}

func TestUpsertSameDateOverwrites(t *testing.T) {
	svc, db := setupHistoryService(t)
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, domain.UpsertRequest{Date: "15/05/2024", RunID: "run-1", Summary: "primero"}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	resp, err := svc.Upsert(ctx, domain.UpsertRequest{Date: "15/05/2024", RunID: "run-2", Summary: "segundo"})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if !resp.Overwrote {
		t.Fatal("expected overwrite on same date")
	}

	var total int
	if err := db.Raw(`SELECT COUNT(1) FROM day_records`).Scan(&total).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 record after overwrite, got %d", total)
	}

	found, err := svc.FindByDate(ctx, "15/05/2024")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Summary != "segundo" || found.RunID != "run-2" {
		t.Fatalf("expected last write to win, got %+v", found)
	}
}

func TestUpsertRejectsMalformedDate(t *testing.T) {
	svc, _ := setupHistoryService(t)

	if _, err := svc.Upsert(context.Background(), domain.UpsertRequest{Date: "2024-05-15"}); err != domain.ErrInvalidDate {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestListDatesNewestFirst(t *testing.T) {
	svc, _ := setupHistoryService(t)
	ctx := context.Background()

	for i, date := range []string{"13/05/2024", "14/05/2024", "15/05/2024"} {
		if _, err := svc.Upsert(ctx, domain.UpsertRequest{
			Date:        date,
			FinalizedAt: time.Date(2024, 5, 13+i, 22, 0, 0, 0, time.UTC),
		}); err != nil {
			t.Fatalf("upsert %s: %v", date, err)
		}
	}

	dates, err := svc.ListDates(ctx)
	if err != nil {
		t.Fatalf("list dates: %v", err)
	}
	if len(dates) != 3 || dates[0] != "15/05/2024" {
		t.Fatalf("unexpected dates %v", dates)
	}
}

func TestNormalizeLegacySnapshots(t *testing.T) {
	pendings := domain.NormalizePendings(datatypes.JSON([]byte(`["Comprar gas", {"text": "Llamar proveedor"}]`)))
	if len(pendings) != 2 {
		t.Fatalf("expected 2 pendings, got %d", len(pendings))
	}
	if pendings[0].Text != "Comprar gas" || pendings[1].Text != "Llamar proveedor" {
		t.Fatalf("unexpected pendings %+v", pendings)
	}

	tasks := domain.NormalizeTasks(datatypes.JSON([]byte(`[{"descripcion": "Limpiar plancha", "completada": true}, "Revisar botiquín"]`)))
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Description != "Limpiar plancha" || !tasks[0].Done {
		t.Fatalf("unexpected task %+v", tasks[0])
	}
	if tasks[1].Description != "Revisar botiquín" || tasks[1].Done {
		t.Fatalf("unexpected task %+v", tasks[1])
	}
}

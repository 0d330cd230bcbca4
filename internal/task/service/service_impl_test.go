package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cocinamqb/stockdiario/internal/clock"
	"github.com/cocinamqb/stockdiario/internal/task/domain"
	"github.com/cocinamqb/stockdiario/internal/task/repository"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTaskService(t *testing.T) domain.Service {
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
	prepareTaskSchema(t, db)

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})
}

func prepareTaskSchema(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := db.Exec(`CREATE TABLE pendings (
		id BIGINT PRIMARY KEY,
		text TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`).Error; err != nil {
		t.Fatalf("create pendings: %v", err)
	}
	if err := db.Exec(`CREATE TABLE tasks (
		id BIGINT PRIMARY KEY,
		description TEXT NOT NULL,
		due_date TEXT NOT NULL DEFAULT '',
		assignee TEXT NOT NULL DEFAULT '',
		done BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`).Error; err != nil {
		t.Fatalf("create tasks: %v", err)
	}
}

func TestPendingLifecycle(t *testing.T) {
	svc := setupTaskService(t)
	ctx := context.Background()

	created, err := svc.CreatePending(ctx, "Comprar gas")
	if err != nil {
		t.Fatalf("create pending: %v", err)
	}

	items, err := svc.ListPendings(ctx)
	if err != nil {
		t.Fatalf("list pendings: %v", err)
	}
	if len(items) != 1 || items[0].Text != "Comprar gas" {
		t.Fatalf("unexpected pendings %+v", items)
	}

	if err := svc.DeletePending(ctx, created.ID); err != nil {
		t.Fatalf("delete pending: %v", err)
	}
	if err := svc.DeletePending(ctx, created.ID); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCreatePendingRejectsBlankText(t *testing.T) {
	svc := setupTaskService(t)

	if _, err := svc.CreatePending(context.Background(), "  "); err != domain.ErrInvalidText {
		t.Fatalf("expected ErrInvalidText, got %v", err)
	}
}

func TestCompleteTaskDeletes(t *testing.T) {
	svc := setupTaskService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, domain.CreateTaskRequest{
		Description: "Limpiar plancha",
		Assignee:    "Turno tarde",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := svc.CompleteTask(ctx, created.ID); err != nil {
		t.Fatalf("complete task: %v", err)
	}

	items, err := svc.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no tasks after completion, got %d", len(items))
	}
}

func TestUpdateTask(t *testing.T) {
	svc := setupTaskService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, domain.CreateTaskRequest{Description: "Revisar botiquín"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	done := true
	due := "16/05/2024"
	updated, err := svc.UpdateTask(ctx, domain.UpdateTaskRequest{ID: created.ID, Done: &done, DueDate: &due})
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if !updated.Done || updated.DueDate != due {
		t.Fatalf("unexpected task %+v", updated)
	}
}

package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/cocinamqb/stockdiario/internal/catalog/domain"
	"github.com/cocinamqb/stockdiario/internal/clock"
	"github.com/cocinamqb/stockdiario/internal/count/domain"
	"github.com/cocinamqb/stockdiario/internal/count/repository"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type catalogStub struct {
	products map[string]catalogdomain.Response
}

func (c *catalogStub) Create(ctx context.Context, req catalogdomain.CreateRequest) (*catalogdomain.Response, error) {
	return nil, nil
}

func (c *catalogStub) Update(ctx context.Context, req catalogdomain.UpdateRequest) (*catalogdomain.Response, error) {
	return nil, nil
}

func (c *catalogStub) Get(ctx context.Context, id string) (*catalogdomain.Response, error) {
	return nil, catalogdomain.ErrNotFound
}

func (c *catalogStub) GetByName(ctx context.Context, name string) (*catalogdomain.Response, error) {
	if p, ok := c.products[name]; ok {
		return &p, nil
	}
	return nil, catalogdomain.ErrNotFound
}

func (c *catalogStub) List(ctx context.Context, req catalogdomain.ListRequest) ([]catalogdomain.Response, error) {
	items := make([]catalogdomain.Response, 0, len(c.products))
	for _, p := range c.products {
		if req.WithMinimum && !p.MinThreshold.IsPositive() {
			continue
		}
		items = append(items, p)
	}
	return items, nil
}

func (c *catalogStub) Delete(ctx context.Context, id string) error { return nil }

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return node
}

func setupCountService(t *testing.T, fakeClock clock.Clock, catalog catalogdomain.Service) (domain.Service, *gorm.DB) {
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
	prepareCountSchema(t, db)

	if catalog == nil {
		catalog = &catalogStub{}
	}

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   mustNode(t),
		Clock:   fakeClock,
		Repo:    repository.Provide(),
		Catalog: catalog,
	})
	return svc, db
}

func prepareCountSchema(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := db.Exec(`CREATE TABLE count_entries (
		id BIGINT PRIMARY KEY,
		phase TEXT NOT NULL,
		product_name TEXT NOT NULL,
		product_code TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT 'General',
		date_key TEXT NOT NULL,
		quantity DECIMAL(20,4) NOT NULL DEFAULT 0,
		unit TEXT NOT NULL DEFAULT 'unidad',
		note TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`).Error; err != nil {
		t.Fatalf("create count_entries: %v", err)
	}
	if err := db.Exec(`CREATE UNIQUE INDEX idx_count_entries_phase_name_date
		ON count_entries (phase, LOWER(product_name), date_key)`).Error; err != nil {
		t.Fatalf("create count index: %v", err)
	}
}

func testDay(t *testing.T) (clock.Clock, string) {
	t.Helper()
	start := time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC)
	return clock.NewFakeClock(start), "15/05/2024"
}

func TestUpsertDefaultsToToday(t *testing.T) {
	fakeClock, today := testDay(t)
	svc, _ := setupCountService(t, fakeClock, nil)

	resp, err := svc.Upsert(context.Background(), domain.UpsertRequest{
		Phase:    domain.PhaseInitial,
		Name:     "Tomate",
		Quantity: decimal.NewFromInt(5),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if resp.Date != today {
		t.Fatalf("expected date %s, got %s", today, resp.Date)
	}
}

func TestUpsertOverwritesSameProductAndDay(t *testing.T) {
	fakeClock, _ := testDay(t)
	svc, db := setupCountService(t, fakeClock, nil)
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, domain.UpsertRequest{
		Phase:    domain.PhaseInitial,
		Name:     "Cebolla",
		Quantity: decimal.NewFromInt(3),
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	resp, err := svc.Upsert(ctx, domain.UpsertRequest{
		Phase:    domain.PhaseInitial,
		Name:     "Cebolla",
		Quantity: decimal.NewFromInt(7),
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if !resp.Quantity.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("expected quantity 7, got %s", resp.Quantity)
	}

	var total int
	if err := db.Raw(`SELECT COUNT(1) FROM count_entries`).Scan(&total).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 row after overwrite, got %d", total)
	}
}

func TestUpsertMatchesProductNameCaseInsensitively(t *testing.T) {
	fakeClock, _ := testDay(t)
	svc, db := setupCountService(t, fakeClock, nil)
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, domain.UpsertRequest{
		Phase:    domain.PhaseInitial,
		Name:     "Tomate",
		Quantity: decimal.NewFromInt(5),
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	resp, err := svc.Upsert(ctx, domain.UpsertRequest{
		Phase:    domain.PhaseInitial,
		Name:     "tomate",
		Quantity: decimal.NewFromInt(7),
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if !resp.Quantity.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("expected quantity 7, got %s", resp.Quantity)
	}
	// The first spelling stays on the row; only the counted values change.
	if resp.Name != "Tomate" {
		t.Fatalf("expected stored name Tomate, got %q", resp.Name)
	}

	var total int
	if err := db.Raw(`SELECT COUNT(1) FROM count_entries`).Scan(&total).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 row for one product, got %d", total)
	}
}

func TestUpsertRejectsNegativeQuantity(t *testing.T) {
	fakeClock, _ := testDay(t)
	svc, _ := setupCountService(t, fakeClock, nil)

	_, err := svc.Upsert(context.Background(), domain.UpsertRequest{
		Phase:    domain.PhaseFinal,
		Name:     "Queso",
		Quantity: decimal.NewFromInt(-2),
	})
	if err != domain.ErrInvalidQuantity {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestUpsertRejectsUnknownPhase(t *testing.T) {
	fakeClock, _ := testDay(t)
	svc, _ := setupCountService(t, fakeClock, nil)

	_, err := svc.Upsert(context.Background(), domain.UpsertRequest{
		Phase:    domain.Phase("weekly"),
		Name:     "Queso",
		Quantity: decimal.NewFromInt(1),
	})
	if err != domain.ErrInvalidPhase {
		t.Fatalf("expected ErrInvalidPhase, got %v", err)
	}
}

func TestUpsertBorrowsUnitFromCatalog(t *testing.T) {
	fakeClock, _ := testDay(t)
	catalog := &catalogStub{products: map[string]catalogdomain.Response{
		"Queso Blanco": {Name: "Queso Blanco", Unit: "kg"},
	}}
	svc, _ := setupCountService(t, fakeClock, catalog)

	resp, err := svc.Upsert(context.Background(), domain.UpsertRequest{
		Phase:    domain.PhaseInitial,
		Name:     "Queso Blanco",
		Quantity: decimal.NewFromInt(4),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if resp.Unit != "kg" {
		t.Fatalf("expected unit kg, got %q", resp.Unit)
	}
}

func TestDeleteMissingEntry(t *testing.T) {
	fakeClock, _ := testDay(t)
	svc, _ := setupCountService(t, fakeClock, nil)

	err := svc.Delete(context.Background(), domain.DeleteRequest{
		Phase: domain.PhaseInitial,
		Name:  "Fantasma",
	})
	if err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReplaceInitialSwapsWholeCount(t *testing.T) {
	fakeClock, today := testDay(t)
	svc, db := setupCountService(t, fakeClock, nil)
	ctx := context.Background()

	for _, name := range []string{"Tomate", "Cebolla", "Lechuga"} {
		if _, err := svc.Upsert(ctx, domain.UpsertRequest{
			Phase:    domain.PhaseInitial,
			Name:     name,
			Quantity: decimal.NewFromInt(1),
		}); err != nil {
			t.Fatalf("seed upsert: %v", err)
		}
	}

	replaced, err := svc.ReplaceInitial(ctx, today, []domain.UpsertRequest{
		{Name: "Queso", Quantity: decimal.NewFromInt(9)},
	})
	if err != nil {
		t.Fatalf("replace initial: %v", err)
	}
	if len(replaced) != 1 {
		t.Fatalf("expected 1 replaced entry, got %d", len(replaced))
	}

	var total int
	if err := db.Raw(`SELECT COUNT(1) FROM count_entries WHERE phase = ?`, domain.PhaseInitial).Scan(&total).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 initial row after replace, got %d", total)
	}
}

func TestReplaceInitialValidationLeavesStoredCount(t *testing.T) {
	fakeClock, today := testDay(t)
	svc, db := setupCountService(t, fakeClock, nil)
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, domain.UpsertRequest{
		Phase:    domain.PhaseInitial,
		Name:     "Tomate",
		Quantity: decimal.NewFromInt(5),
	}); err != nil {
		t.Fatalf("seed upsert: %v", err)
	}

	_, err := svc.ReplaceInitial(ctx, today, []domain.UpsertRequest{
		{Name: "Queso", Quantity: decimal.NewFromInt(2)},
		{Name: "", Quantity: decimal.NewFromInt(1)},
	})
	if err != domain.ErrInvalidName {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}

	var total int
	if err := db.Raw(`SELECT COUNT(1) FROM count_entries WHERE product_name = 'Tomate'`).Scan(&total).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected original entry preserved, got %d rows", total)
	}
}

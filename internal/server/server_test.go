package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	catalogdomain "github.com/cocinamqb/stockdiario/internal/catalog/domain"
	countdomain "github.com/cocinamqb/stockdiario/internal/count/domain"
	"github.com/gin-gonic/gin"
	workdaydomain "github.com/cocinamqb/stockdiario/internal/workday/domain"
	"github.com/shopspring/decimal"
)

type fakeCatalogService struct {
	created   *catalogdomain.CreateRequest
	createErr error
	listReq   catalogdomain.ListRequest
}

func (f *fakeCatalogService) Create(ctx context.Context, req catalogdomain.CreateRequest) (*catalogdomain.Response, error) {
	f.created = &req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &catalogdomain.Response{ID: "1", Name: req.Name, Category: req.Category}, nil
}

func (f *fakeCatalogService) Update(ctx context.Context, req catalogdomain.UpdateRequest) (*catalogdomain.Response, error) {
	return nil, catalogdomain.ErrNotFound
}

func (f *fakeCatalogService) Get(ctx context.Context, id string) (*catalogdomain.Response, error) {
	return nil, catalogdomain.ErrNotFound
}

func (f *fakeCatalogService) GetByName(ctx context.Context, name string) (*catalogdomain.Response, error) {
	return nil, catalogdomain.ErrNotFound
}

func (f *fakeCatalogService) List(ctx context.Context, req catalogdomain.ListRequest) ([]catalogdomain.Response, error) {
	f.listReq = req
	return []catalogdomain.Response{}, nil
}

func (f *fakeCatalogService) Delete(ctx context.Context, id string) error {
	return catalogdomain.ErrNotFound
}

type fakeCountService struct {
	upserted *countdomain.UpsertRequest
	err      error
}

func (f *fakeCountService) Upsert(ctx context.Context, req countdomain.UpsertRequest) (*countdomain.Response, error) {
	f.upserted = &req
	if f.err != nil {
		return nil, f.err
	}
	return &countdomain.Response{ID: "1", Phase: req.Phase, Name: req.Name}, nil
}

func (f *fakeCountService) List(ctx context.Context, req countdomain.ListRequest) ([]countdomain.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []countdomain.Response{}, nil
}

func (f *fakeCountService) Delete(ctx context.Context, req countdomain.DeleteRequest) error {
	return f.err
}

func (f *fakeCountService) ReplaceInitial(ctx context.Context, dateKey string, entries []countdomain.UpsertRequest) ([]countdomain.Response, error) {
	return nil, f.err
}

type fakeWorkdayService struct {
	finalizeErr  error
	finalizeDate string
	summary      string
}

func (f *fakeWorkdayService) Load(ctx context.Context, date string) (*workdaydomain.WorkingSet, error) {
	return &workdaydomain.WorkingSet{Date: date}, nil
}

func (f *fakeWorkdayService) Summary(ctx context.Context, date string) (string, error) {
	return f.summary, nil
}

func (f *fakeWorkdayService) Finalize(ctx context.Context, date string) (*workdaydomain.FinalizeResult, error) {
	f.finalizeDate = date
	if f.finalizeErr != nil {
		return nil, f.finalizeErr
	}
	return &workdaydomain.FinalizeResult{RunID: "run-1", Date: date}, nil
}

func newTestRouter(srv *Server) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	srv.engine = router
	srv.registerAPIRoutes()
	return router
}

func TestCreateProductHandler(t *testing.T) {
	catalogSvc := &fakeCatalogService{}
	router := newTestRouter(&Server{catalogSvc: catalogSvc})

	body := `{"name":"  Tomate  ","category":"Verduras","unit":"kg","min_threshold":"4"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if catalogSvc.created == nil || catalogSvc.created.Name != "Tomate" {
		t.Fatalf("expected trimmed name, got %+v", catalogSvc.created)
	}
	if !catalogSvc.created.MinThreshold.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("expected threshold 4, got %s", catalogSvc.created.MinThreshold)
	}

	var envelope struct {
		Data catalogdomain.Response `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Name != "Tomate" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestCreateProductValidationErrorMapsTo400(t *testing.T) {
	catalogSvc := &fakeCatalogService{createErr: catalogdomain.ErrInvalidName}
	router := newTestRouter(&Server{catalogSvc: catalogSvc})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewBufferString(`{"name":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "invalid_name") {
		t.Fatalf("expected invalid_name code, got %s", resp.Body.String())
	}
}

func TestCreateProductNameTakenMapsTo409(t *testing.T) {
	catalogSvc := &fakeCatalogService{createErr: catalogdomain.ErrNameTaken}
	router := newTestRouter(&Server{catalogSvc: catalogSvc})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewBufferString(`{"name":"Tomate"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}

func TestListProductsParsesFilters(t *testing.T) {
	catalogSvc := &fakeCatalogService{}
	router := newTestRouter(&Server{catalogSvc: catalogSvc})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category=Verduras&active=true&with_minimum=true", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if catalogSvc.listReq.Category != "Verduras" || !catalogSvc.listReq.WithMinimum {
		t.Fatalf("unexpected list request %+v", catalogSvc.listReq)
	}
	if catalogSvc.listReq.Active == nil || !*catalogSvc.listReq.Active {
		t.Fatal("expected active filter true")
	}
}

func TestUpsertCountTakesPhaseFromPath(t *testing.T) {
	countSvc := &fakeCountService{}
	router := newTestRouter(&Server{countSvc: countSvc})

	body := `{"name":"Tomate","date":"15/05/2024","quantity":"2","unit":"kg"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/counts/final", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if countSvc.upserted == nil || countSvc.upserted.Phase != countdomain.PhaseFinal {
		t.Fatalf("expected final phase, got %+v", countSvc.upserted)
	}
}

func TestUpsertCountInvalidPhaseMapsTo400(t *testing.T) {
	countSvc := &fakeCountService{err: countdomain.ErrInvalidPhase}
	router := newTestRouter(&Server{countSvc: countSvc})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/counts/weekly", bytes.NewBufferString(`{"name":"Tomate"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestFinalizeWorkdayEmptyDayMapsTo409(t *testing.T) {
	workdaySvc := &fakeWorkdayService{finalizeErr: workdaydomain.ErrNothingToFinalize}
	router := newTestRouter(&Server{workdaySvc: workdaySvc})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workday/finalize", bytes.NewBufferString(`{"date":"15/05/2024"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
	if workdaySvc.finalizeDate != "15/05/2024" {
		t.Fatalf("expected date passed through, got %q", workdaySvc.finalizeDate)
	}
}

func TestFinalizeWorkdayWithoutBodyDefaultsToToday(t *testing.T) {
	workdaySvc := &fakeWorkdayService{}
	router := newTestRouter(&Server{workdaySvc: workdaySvc})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workday/finalize", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if workdaySvc.finalizeDate != "" {
		t.Fatalf("expected empty date so the service resolves today, got %q", workdaySvc.finalizeDate)
	}
}

func TestWorkdaySummaryIsPlainText(t *testing.T) {
	workdaySvc := &fakeWorkdayService{summary: "📋 RESUMEN DEL DÍA - 15/05/2024"}
	router := newTestRouter(&Server{workdaySvc: workdaySvc})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workday/summary?date=15/05/2024", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.HasPrefix(resp.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("expected text/plain, got %s", resp.Header().Get("Content-Type"))
	}
	if !strings.Contains(resp.Body.String(), "RESUMEN DEL DÍA") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/cocinamqb/stockdiario/internal/clock"
	countdomain "github.com/cocinamqb/stockdiario/internal/count/domain"
	obsmetrics "github.com/cocinamqb/stockdiario/internal/observability/metrics"
	shortagedomain "github.com/cocinamqb/stockdiario/internal/shortage/domain"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type countStub struct {
	entries []countdomain.Response
	lastReq countdomain.ListRequest
}

func (s *countStub) Upsert(ctx context.Context, req countdomain.UpsertRequest) (*countdomain.Response, error) {
	return nil, nil
}

func (s *countStub) List(ctx context.Context, req countdomain.ListRequest) ([]countdomain.Response, error) {
	s.lastReq = req
	return s.entries, nil
}

func (s *countStub) Delete(ctx context.Context, req countdomain.DeleteRequest) error {
	return nil
}

func (s *countStub) ReplaceInitial(ctx context.Context, dateKey string, entries []countdomain.UpsertRequest) ([]countdomain.Response, error) {
	return nil, nil
}

type shortageStub struct {
	lastDate    string
	lastEntries []shortagedomain.ReconcileEntry
	result      shortagedomain.ReconcileResult
}

func (s *shortageStub) Create(ctx context.Context, req shortagedomain.CreateRequest) (*shortagedomain.Response, error) {
	return nil, nil
}

func (s *shortageStub) List(ctx context.Context, req shortagedomain.ListRequest) ([]shortagedomain.Response, error) {
	return nil, nil
}

func (s *shortageStub) Delete(ctx context.Context, id string) error { return nil }

func (s *shortageStub) Resolve(ctx context.Context, id string) (*shortagedomain.Response, error) {
	return nil, nil
}

func (s *shortageStub) Reconcile(ctx context.Context, dateKey string, entries []shortagedomain.ReconcileEntry) (*shortagedomain.ReconcileResult, error) {
	s.lastDate = dateKey
	s.lastEntries = entries
	return &s.result, nil
}

func TestRunJobTimeoutDoesNotReturnErrorAndIncrementsTimeout(t *testing.T) {
	registry := prometheus.NewRegistry()
	restore := swapPrometheusRegistry(registry)
	defer restore()

	obsmetrics.ResetJobMetricsForTest()
	obsmetrics.JobsWithConfig(obsmetrics.Config{
		ServiceName: "stockdiario",
		Environment: "test",
	})

	s := &Scheduler{log: zap.NewNop(), clock: clock.NewFakeClock(time.Time{})}
	err := s.runJob(context.Background(), "timeout_job", 5*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	labels := map[string]string{
		"service": "stockdiario",
		"env":     "test",
		"job":     "timeout_job",
	}
	if got := getCounterValue(t, registry, "stockdiario_job_timeouts_total", labels); got != 1 {
		t.Fatalf("expected timeout count 1, got %v", got)
	}

	errorLabels := map[string]string{
		"service": "stockdiario",
		"env":     "test",
		"job":     "timeout_job",
		"reason":  obsmetrics.JobReasonDeadlineExceeded,
	}
	if got := getCounterValue(t, registry, "stockdiario_job_errors_total", errorLabels); got != 1 {
		t.Fatalf("expected error count 1, got %v", got)
	}
}

func TestShortageReconcileJobFeedsTodaysFinalCount(t *testing.T) {
	counts := &countStub{entries: []countdomain.Response{
		{Name: "Tomate", Code: "tomate", Category: "Verduras", Quantity: decimal.NewFromInt(2), Unit: "kg"},
	}}
	shortages := &shortageStub{}

	s, err := New(Params{
		Log:         zap.NewNop(),
		Clock:       clock.NewFakeClock(time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)),
		CountSvc:    counts,
		ShortageSvc: shortages,
	})
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	if err := s.ShortageReconcileJob(context.Background()); err != nil {
		t.Fatalf("reconcile job: %v", err)
	}

	if counts.lastReq.Phase != countdomain.PhaseFinal || counts.lastReq.Date != "15/05/2024" {
		t.Fatalf("unexpected count query %+v", counts.lastReq)
	}
	if shortages.lastDate != "15/05/2024" {
		t.Fatalf("expected reconcile for today, got %q", shortages.lastDate)
	}
	if len(shortages.lastEntries) != 1 || shortages.lastEntries[0].Code != "tomate" {
		t.Fatalf("unexpected reconcile entries %+v", shortages.lastEntries)
	}
}

func TestDisabledJobIsSkipped(t *testing.T) {
	counts := &countStub{}
	shortages := &shortageStub{}

	s, err := New(Params{
		Log:         zap.NewNop(),
		Clock:       clock.NewFakeClock(time.Time{}),
		CountSvc:    counts,
		ShortageSvc: shortages,
		Config:      Config{EnabledJobs: []string{"none"}},
	})
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	if err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if shortages.lastDate != "" {
		t.Fatal("disabled job must not run")
	}
}

func swapPrometheusRegistry(registry *prometheus.Registry) func() {
	oldRegisterer := prometheus.DefaultRegisterer
	oldGatherer := prometheus.DefaultGatherer
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
	return func() {
		prometheus.DefaultRegisterer = oldRegisterer
		prometheus.DefaultGatherer = oldGatherer
		obsmetrics.ResetJobMetricsForTest()
	}
}

func getCounterValue(t *testing.T, registry *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metricFamilies {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.Metric {
			if !labelsMatch(metric, labels) {
				continue
			}
			if metric.Counter == nil {
				t.Fatalf("metric %s is not a counter", name)
			}
			return metric.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return 0
}

func labelsMatch(metric *dto.Metric, labels map[string]string) bool {
	if len(metric.Label) != len(labels) {
		return false
	}
	for _, label := range metric.Label {
		if labels[label.GetName()] != label.GetValue() {
			return false
		}
	}
	return true
}

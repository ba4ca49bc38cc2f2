package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evagobi/internal/config"
	apierrors "evagobi/internal/errors"
	"evagobi/internal/files"
	"evagobi/internal/infrastructure"
	"evagobi/internal/middleware"
	"evagobi/internal/operations"
	"evagobi/internal/shared/testutil"
	"evagobi/pkg/contracts/domain"
	"evagobi/pkg/contracts/events"
)

type fakeOperations struct {
	mu        sync.Mutex
	started   []operations.OperationRequest
	startErr  error
	running   string
	snapshots map[string]events.OperationSnapshot
	cancelled []string
}

func newFakeOperations() *fakeOperations {
	return &fakeOperations{snapshots: make(map[string]events.OperationSnapshot)}
}

func (f *fakeOperations) Start(_ context.Context, req operations.OperationRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return "", f.startErr
	}
	f.started = append(f.started, req)
	return "operation-1", nil
}

func (f *fakeOperations) Get(id string) (events.OperationSnapshot, error) {
	if s, ok := f.snapshots[id]; ok {
		return s, nil
	}
	return events.OperationSnapshot{}, apierrors.NewNotFoundError("operation " + id)
}

func (f *fakeOperations) List() []events.OperationSnapshot {
	var out []events.OperationSnapshot
	for _, s := range f.snapshots {
		out = append(out, s)
	}
	return out
}

func (f *fakeOperations) Running() string { return f.running }

func (f *fakeOperations) Cancel(id string) error {
	if id != f.running {
		return apierrors.NewConflictError("operation " + id + " is not running")
	}
	f.cancelled = append(f.cancelled, id)
	return nil
}

type stubHub map[string]interface{}

func (s stubHub) GetHubMetrics() map[string]interface{} { return s }

type stubSystem struct{}

func (stubSystem) Stats() infrastructure.SystemStats {
	return infrastructure.SystemStats{GoRoutines: 12, CPUCount: 4}
}

type fixture struct {
	paths  *config.Paths
	ops    *fakeOperations
	router http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	errHandler := apierrors.NewErrorHandler(logger, false)
	paths := testutil.NewPaths(t)
	catalog := files.NewCatalog(paths)
	ops := newFakeOperations()

	health := NewHealthHandler(ops, catalog, stubHub{"active_clients": 2}, stubSystem{}, logger)
	data := NewDataHandler(catalog, errHandler, logger)
	opsHandler := NewOperationsHandler(ops, errHandler, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.HealthCheck)
		r.Get("/version", health.Version)
		r.Mount("/charts", data.ChartRoutes())
		r.Mount("/datasets", data.DatasetRoutes())
		r.Mount("/operations", opsHandler.Routes())
	})
	return &fixture{paths: paths, ops: ops, router: r}
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestHealthCheck(t *testing.T) {
	f := newFixture(t)
	f.ops.running = "operation-7"
	writeFile(t, f.paths.ChartFile(domain.ChartRevenueTrends), "week,total_revenue\n2024-01-01,10\n")

	rec := f.do(t, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "operation-7", resp.RunningOperation)
	assert.Equal(t, 1, resp.ChartsAvailable)
	assert.NotNil(t, resp.LastUpdated)
	assert.Equal(t, float64(2), resp.WebSocket["active_clients"])
	assert.Equal(t, float64(12), resp.System["goroutines"])
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestVersion(t *testing.T) {
	rec := newFixture(t).do(t, http.MethodGet, "/api/version", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decodeJSON(t, rec, &body)
	assert.Contains(t, body, "version")
	assert.Contains(t, body, "go_version")
}

func TestListCharts(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.paths.ChartFile(domain.ChartKPIDashboard), "metric,value\nTotal Revenue,10\n")
	writeFile(t, f.paths.ChartImage(domain.ChartKPIDashboard), "png")
	writeFile(t, f.paths.ChartSummaryJSON, `{"charts_prepared":1,"total_files":1,"files_created":["powerbi_chart10_kpi_dashboard.csv"],"chart_descriptions":{}}`)

	rec := f.do(t, http.MethodGet, "/api/charts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChartList
	decodeJSON(t, rec, &resp)
	require.Len(t, resp.Charts, len(domain.Charts))
	kpi := resp.Charts[len(resp.Charts)-1]
	assert.Equal(t, domain.ChartKPIDashboard, kpi.Key)
	assert.Equal(t, "KPI Dashboard - Cards/Gauges", kpi.Description)
	assert.True(t, kpi.File.Exists)
	assert.NotNil(t, kpi.Image)
	assert.False(t, resp.Charts[0].File.Exists)
	assert.Nil(t, resp.Charts[0].Image)
	require.NotNil(t, resp.Summary)
	assert.Equal(t, 1, resp.Summary.ChartsPrepared)

	writeFile(t, f.paths.ChartFile(domain.ChartAcquisitionImpact), "metric,value,category,impact\nROAS,3,ROI,Improved\n")
	rec = f.do(t, http.MethodGet, "/api/charts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp = ChartList{}
	decodeJSON(t, rec, &resp)
	require.Len(t, resp.Charts, len(domain.Charts)+1)
	impact := resp.Charts[len(resp.Charts)-1]
	assert.Equal(t, domain.ChartAcquisitionImpact, impact.Key)
	assert.True(t, impact.Profile)
	assert.Equal(t, "Acquisition Impact Dashboard - Cards/Gauges", impact.Description)
}

func TestGetChart(t *testing.T) {
	f := newFixture(t)
	var sb strings.Builder
	sb.WriteString("week,total_revenue\n")
	for i := 0; i < 12; i++ {
		sb.WriteString("2024-01-01,10\n")
	}
	writeFile(t, f.paths.ChartFile(domain.ChartRevenueTrends), sb.String())

	t.Run("full table", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/charts/"+domain.ChartRevenueTrends, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp TableResponse
		decodeJSON(t, rec, &resp)
		assert.Equal(t, "Revenue Trends", resp.Title)
		assert.Equal(t, []string{"week", "total_revenue"}, resp.Headers)
		assert.Len(t, resp.Rows, 12)
		assert.Equal(t, 12, resp.TotalRows)
		assert.False(t, resp.Truncated)
	})

	t.Run("limited", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/charts/"+domain.ChartRevenueTrends+"?limit=5", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp TableResponse
		decodeJSON(t, rec, &resp)
		assert.Len(t, resp.Rows, 5)
		assert.Equal(t, 12, resp.TotalRows)
		assert.True(t, resp.Truncated)
	})

	t.Run("bad limit", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/charts/"+domain.ChartRevenueTrends+"?limit=abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not prepared", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/charts/"+domain.ChartSocialMedia, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "json")
	})

	t.Run("unknown chart", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/charts/chart42", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)

		var problem map[string]interface{}
		decodeJSON(t, rec, &problem)
		assert.Equal(t, apierrors.TypeDataNotFound, problem["type"])
		assert.Equal(t, "chart42", problem["chart"])
	})
}

func TestGetChartImage(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/charts/"+domain.ChartRevenueTrends+"/image", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	writeFile(t, f.paths.ChartImage(domain.ChartRevenueTrends), "\x89PNG")
	rec = f.do(t, http.MethodGet, "/api/charts/"+domain.ChartRevenueTrends+"/image", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestDatasets(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.paths.RawDataFile(domain.DatasetTimeSeries), "date,total_traffic\n2024-01-01,1000\n2024-01-02,1100\n")
	writeFile(t, f.paths.DataSummaryJSON, `{"datasets_generated":1,"date_range":"2024-01-01 to 2024-01-02","total_records":2,"files_created":["evago_time_series_data.csv"]}`)

	rec := f.do(t, http.MethodGet, "/api/datasets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list DatasetList
	decodeJSON(t, rec, &list)
	require.Len(t, list.Datasets, len(domain.DatasetNames))
	assert.True(t, list.Datasets[len(list.Datasets)-1].Exists)
	require.NotNil(t, list.Summary)
	assert.Equal(t, 2, list.Summary.TotalRecords)
	assert.NotEmpty(t, list.Artifacts)

	rec = f.do(t, http.MethodGet, "/api/datasets/"+domain.DatasetTimeSeries+"?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var table TableResponse
	decodeJSON(t, rec, &table)
	assert.Equal(t, [][]string{{"2024-01-01", "1000"}}, table.Rows)
	assert.True(t, table.Truncated)

	rec = f.do(t, http.MethodGet, "/api/datasets/weather", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunOperation(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/operations/run",
		`{"steps":["generate","prepare"],"start_date":"2024-01-01","end_date":"2024-03-31","seed":7,"profile":"global","event_date":"2024-02-01"}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var resp RunResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "operation-1", resp.ID)
	assert.Equal(t, "/api/operations/operation-1", rec.Header().Get("Location"))

	require.Len(t, f.ops.started, 1)
	assert.Equal(t, []string{"generate", "prepare"}, f.ops.started[0].Steps)
	assert.Equal(t, map[string]string{
		operations.ParamStartDate: "2024-01-01",
		operations.ParamEndDate:   "2024-03-31",
		operations.ParamSeed:      "7",
		operations.ParamProfile:   "global",
		operations.ParamEventDate: "2024-02-01",
	}, f.ops.started[0].Parameters)
}

func TestRunOperation_EmptyBody(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/operations/run", "")
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	require.Len(t, f.ops.started, 1)
	assert.Empty(t, f.ops.started[0].Steps)
	assert.Empty(t, f.ops.started[0].Parameters)
}

func TestRunOperation_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"unknown step", `{"steps":["deploy"]}`, http.StatusBadRequest},
		{"duplicate step", `{"steps":["generate","generate"]}`, http.StatusBadRequest},
		{"bad date", `{"start_date":"2024/01/01"}`, http.StatusBadRequest},
		{"unknown profile", `{"profile":"regional"}`, http.StatusBadRequest},
		{"malformed", `{"steps":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rec := f.do(t, http.MethodPost, "/api/operations/run", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Empty(t, f.ops.started)
		})
	}
}

func TestRunOperation_Conflict(t *testing.T) {
	f := newFixture(t)
	f.ops.startErr = apierrors.NewConflictError("operation operation-0 is already running").
		WithContext("operation_id", "operation-0")

	rec := f.do(t, http.MethodPost, "/api/operations/run", `{}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	var problem map[string]interface{}
	decodeJSON(t, rec, &problem)
	assert.Equal(t, apierrors.TypeConflict, problem["type"])
	assert.Equal(t, "operation-0", problem["operation_id"])
	assert.NotEmpty(t, problem["trace_id"])
}

func TestGetAndListOperations(t *testing.T) {
	f := newFixture(t)
	f.ops.snapshots["operation-1"] = events.OperationSnapshot{
		OperationID: "operation-1",
		Status:      "completed",
		Progress:    100,
		StartedAt:   time.Now(),
	}

	rec := f.do(t, http.MethodGet, "/api/operations/operation-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var snapshot events.OperationSnapshot
	decodeJSON(t, rec, &snapshot)
	assert.Equal(t, "completed", snapshot.Status)

	rec = f.do(t, http.MethodGet, "/api/operations/operation-404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/operations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list OperationList
	decodeJSON(t, rec, &list)
	assert.Len(t, list.Operations, 1)
}

func TestCancelOperation(t *testing.T) {
	f := newFixture(t)
	f.ops.running = "operation-3"

	rec := f.do(t, http.MethodPost, "/api/operations/operation-3/cancel", "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"operation-3"}, f.ops.cancelled)

	rec = f.do(t, http.MethodPost, "/api/operations/operation-1/cancel", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

package httpadapter_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/outbreak-etl/internal/adapter/httpadapter"
	"github.com/couchcryptid/outbreak-etl/internal/analysis"
	"github.com/couchcryptid/outbreak-etl/internal/domain"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

var testHeadlines = []string{
	"2024-04-20: Ebola outbreak in Kampala",
	"2024-04-25: Malaria is Spreading in Johannesburg",
	"2024-03-01: Lower Hospitalization in Entebbe after Rabies Vaccine becomes Mandatory",
	"Tourist Perishes from Malaria in Arusha",
	"2024-04-24: Influenza season begins in Gulu",
	"2024-04-20: Ebola outbreak in Kampala claims more lives",
}

func newTestServer(readyErr error) *httpadapter.Server {
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, slog.Default())
}

func newLoadedServer(t *testing.T) *httpadapter.Server {
	t.Helper()
	analysis.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 12, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { analysis.SetClock(nil) })

	p := domain.DefaultParser()
	records := make([]domain.OutbreakRecord, len(testHeadlines))
	for i, h := range testHeadlines {
		records[i] = p.ParseRaw(domain.RawHeadline{Line: i + 1, Text: h})
	}

	srv := newTestServer(nil)
	srv.SetAnalyzer(analysis.New(records, p.Catalog()))
	return srv
}

func get(t *testing.T, srv http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(t, newTestServer(nil), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(t, newTestServer(nil), "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(t, newTestServer(fmt.Errorf("pipeline has not completed")), "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "pipeline has not completed", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(nil), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestAPIReturns503BeforeDatasetLoaded(t *testing.T) {
	rec := get(t, newTestServer(nil), "/api/summary")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "dataset not loaded")
}

func TestRecordsByRegion(t *testing.T) {
	srv := newLoadedServer(t)

	rec := get(t, srv, "/api/records")
	require.Equal(t, http.StatusOK, rec.Code)
	var all []domain.OutbreakRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, len(testHeadlines))

	rec = get(t, srv, "/api/records?region=uganda")
	require.Equal(t, http.StatusOK, rec.Code)
	var uganda []domain.OutbreakRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uganda))
	require.Len(t, uganda, 4)
	for _, r := range uganda {
		assert.True(t, r.Region.IsUganda, r.Headline)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	rec := get(t, newLoadedServer(t), "/api/summary?region=Uganda")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 4, body["total_outbreaks"])
	assert.Equal(t, "Ebola", body["most_common_disease"])
}

func TestDiseasesEndpoint(t *testing.T) {
	rec := get(t, newLoadedServer(t), "/api/diseases?region=east_africa")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats []analysis.DiseaseStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.NotEmpty(t, stats)
	assert.Equal(t, "Ebola", stats[0].Disease)
	assert.Equal(t, 2, stats[0].Count)
}

func TestSeverityEndpoint(t *testing.T) {
	rec := get(t, newLoadedServer(t), "/api/severity?window_days=7")
	require.Equal(t, http.StatusOK, rec.Code)

	var trends []analysis.SeverityTrend
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trends))
	require.Len(t, trends, 3)
	total := 0
	for _, tr := range trends {
		total += tr.Count
	}
	// Undated and March headlines fall outside the last week.
	assert.Equal(t, 4, total)
}

func TestHighPriorityEndpoint(t *testing.T) {
	rec := get(t, newLoadedServer(t), "/api/high-priority?region=uganda&min_severity=medium")
	require.Equal(t, http.StatusOK, rec.Code)

	var records []domain.OutbreakRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.NotEmpty(t, records)
	for _, r := range records {
		assert.Equal(t, "Ebola", r.Disease)
	}
}

func TestTemporalEndpoint(t *testing.T) {
	rec := get(t, newLoadedServer(t), "/api/temporal?disease=Ebola")
	require.Equal(t, http.StatusOK, rec.Code)

	var patterns analysis.TemporalPatterns
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patterns))
	require.Len(t, patterns.Points, 1)
	assert.Equal(t, 2, patterns.Points[0].Count)
	assert.Equal(t, 2, patterns.Total)
}

func TestReportEndpoint(t *testing.T) {
	rec := get(t, newLoadedServer(t), "/api/report?region=EastAfrica&window_days=30")
	require.Equal(t, http.StatusOK, rec.Code)

	var report analysis.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, domain.RegionEastAfrica, report.Region)
	assert.Len(t, report.Severity, 3)
	assert.NotEmpty(t, report.Diseases)
}

func TestAPIValidationErrors(t *testing.T) {
	srv := newLoadedServer(t)

	tests := []struct {
		name   string
		target string
	}{
		{"unknown region", "/api/records?region=europe"},
		{"negative window", "/api/severity?window_days=-1"},
		{"non-numeric window", "/api/temporal?window_days=week"},
		{"unknown severity", "/api/high-priority?min_severity=critical"},
		{"report bad window", "/api/report?window_days=-5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.target)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestAPIRejectsNonGet(t *testing.T) {
	srv := newLoadedServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/records", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

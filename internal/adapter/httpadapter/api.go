package httpadapter

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/outbreak-etl/internal/analysis"
	"github.com/couchcryptid/outbreak-etl/internal/domain"
)

var errInvalidParam = errors.New("invalid query parameter")

type analyzerHandler func(w http.ResponseWriter, r *http.Request, a *analysis.Analyzer)

func (s *Server) withAnalyzer(h analyzerHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := s.analyzer.Load()
		if a == nil {
			writeError(w, http.StatusServiceUnavailable, errors.New("dataset not loaded"))
			return
		}
		h(w, r, a)
	}
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request, a *analysis.Analyzer) {
	region, err := regionParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	records, err := a.Records(region)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, records)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, a *analysis.Analyzer) {
	region, err := regionParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	summary, err := a.SummaryStatistics(region)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, summary)
}

func (s *Server) handleDiseases(w http.ResponseWriter, r *http.Request, a *analysis.Analyzer) {
	region, err := regionParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	stats, err := a.DiseaseDistribution(region)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSeverity(w http.ResponseWriter, r *http.Request, a *analysis.Analyzer) {
	region, err := regionParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	window, err := windowParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	trends, err := a.SeverityTrends(region, window)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, trends)
}

func (s *Server) handleHighPriority(w http.ResponseWriter, r *http.Request, a *analysis.Analyzer) {
	region, err := regionParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	minSeverity, err := severityParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	records, err := a.HighPriorityOutbreaks(region, minSeverity)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, records)
}

func (s *Server) handleTemporal(w http.ResponseWriter, r *http.Request, a *analysis.Analyzer) {
	region, err := regionParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	window, err := windowParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	patterns, err := a.TemporalPatterns(region, analysis.TemporalQuery{
		Disease:    r.URL.Query().Get("disease"),
		WindowDays: window,
		ByDisease:  true,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, patterns)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request, a *analysis.Analyzer) {
	region, err := regionParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	window, err := windowParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	minSeverity, err := severityParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	report, err := a.BuildReport(r.Context(), region, analysis.ReportOptions{
		WindowDays:  window,
		MinSeverity: minSeverity,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, report)
}

// fail maps validation errors to 400 and everything else to 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if isValidationError(err) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.logger.Error("api request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, err)
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrInvalidRegion) ||
		errors.Is(err, domain.ErrInvalidSeverity) ||
		errors.Is(err, analysis.ErrInvalidWindow) ||
		errors.Is(err, errInvalidParam)
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}

// regionParam reads ?region=, defaulting to All.
func regionParam(r *http.Request) (domain.RegionTag, error) {
	v := r.URL.Query().Get("region")
	if v == "" {
		return domain.RegionAll, nil
	}
	return domain.ParseRegionTag(v)
}

// windowParam reads ?window_days=. Absent means no window.
func windowParam(r *http.Request) (*int, error) {
	v := r.URL.Query().Get("window_days")
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%w: window_days %q", errInvalidParam, v)
	}
	return analysis.Days(n), nil
}

// severityParam reads ?min_severity=, defaulting to High.
func severityParam(r *http.Request) (domain.Severity, error) {
	v := r.URL.Query().Get("min_severity")
	if v == "" {
		return domain.SeverityHigh, nil
	}
	return domain.ParseSeverity(v)
}

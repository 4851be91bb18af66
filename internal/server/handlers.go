package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/runnerr0/pulse/internal/config"
	"github.com/runnerr0/pulse/internal/logging"
	"github.com/runnerr0/pulse/internal/report"
	"github.com/runnerr0/pulse/internal/storage"
)

// Health status values.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

const defaultListLimit = 20

var errStorageDisabled = errors.New("report storage is not configured")

// HealthStatus is the body of GET /api/health.
type HealthStatus struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Timestamp int64                  `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// CheckResult is the outcome of one dependency check.
type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    StatusHealthy,
		Version:   s.version,
		Timestamp: time.Now().Unix(),
		Checks:    map[string]CheckResult{},
	}

	if s.store != nil {
		start := time.Now()
		if _, err := s.store.GetStats(r.Context()); err != nil {
			status.Status = StatusUnhealthy
			status.Checks["database"] = CheckResult{Status: StatusUnhealthy, Message: err.Error()}
		} else {
			status.Checks["database"] = CheckResult{Status: StatusHealthy, Latency: time.Since(start).String()}
		}
	} else {
		status.Status = StatusDegraded
		status.Checks["database"] = CheckResult{Status: StatusDegraded, Message: errStorageDisabled.Error()}
	}

	code := http.StatusOK
	if status.Status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	respondWithJSON(w, code, status)
}

// handleAnalyze builds a report from the posts document in the request
// body. Query parameters: handle (required), platform, save, format.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	handle := strings.TrimSpace(q.Get("handle"))
	if handle == "" {
		s.respondWithError(w, http.StatusBadRequest, "handle is required", nil)
		return
	}
	platform := q.Get("platform")
	if platform == "" {
		platform = s.defaultPlatform
	}
	save := q.Get("save") == "true"
	if save && s.store == nil {
		s.respondWithError(w, http.StatusServiceUnavailable, errStorageDisabled.Error(), nil)
		return
	}

	body := r.Body
	if s.cfg.MaxRequestSize > 0 {
		body = http.MaxBytesReader(w, r.Body, s.cfg.MaxRequestSize)
	}
	posts, err := report.DecodePosts(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondWithError(w, http.StatusRequestEntityTooLarge, "request body too large", err)
			return
		}
		s.respondWithError(w, http.StatusBadRequest, err.Error(), err)
		return
	}

	start := time.Now()
	rep := s.builder.Build(handle, platform, posts)
	s.metrics.ObserveAnalysis(platform, rep.Health.Score, time.Since(start))

	log := s.logger.WithFields(logging.Fields{
		"request_id": middleware.GetReqID(r.Context()),
		"report_id":  rep.ID,
		"posts":      rep.Meta.PostCount,
		"score":      rep.Health.Score,
	})

	if save {
		if err := s.store.SaveReport(r.Context(), rep); err != nil {
			s.respondWithError(w, http.StatusInternalServerError, "failed to save report", err)
			return
		}
		s.metrics.reportsSaved.Inc()
	}
	log.WithField("saved", save).Info("Report built")

	if q.Get("format") == config.FormatMarkdown {
		respondWithMarkdown(w, http.StatusOK, report.RenderMarkdown(rep))
		return
	}
	respondWithJSON(w, http.StatusOK, rep)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondWithError(w, http.StatusServiceUnavailable, errStorageDisabled.Error(), nil)
		return
	}

	q := r.URL.Query()
	limit, err := intParam(q.Get("limit"), defaultListLimit)
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, "invalid limit parameter", err)
		return
	}
	offset, err := intParam(q.Get("offset"), 0)
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, "invalid offset parameter", err)
		return
	}

	summaries, err := s.store.ListReports(r.Context(), storage.ListQuery{
		Handle:   q.Get("handle"),
		Platform: q.Get("platform"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "failed to list reports", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reports": summaries,
		"count":   len(summaries),
	})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondWithError(w, http.StatusServiceUnavailable, errStorageDisabled.Error(), nil)
		return
	}

	id := chi.URLParam(r, "id")
	rep, err := s.store.GetReport(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "report not found", err)
			return
		}
		s.respondWithError(w, http.StatusInternalServerError, "failed to load report", err)
		return
	}

	if r.URL.Query().Get("format") == config.FormatMarkdown {
		respondWithMarkdown(w, http.StatusOK, report.RenderMarkdown(rep))
		return
	}
	respondWithJSON(w, http.StatusOK, rep)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondWithError(w, http.StatusServiceUnavailable, errStorageDisabled.Error(), nil)
		return
	}

	q := r.URL.Query()
	text := strings.TrimSpace(q.Get("q"))
	if text == "" {
		s.respondWithError(w, http.StatusBadRequest, "q is required", nil)
		return
	}
	limit, err := intParam(q.Get("limit"), defaultListLimit)
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, "invalid limit parameter", err)
		return
	}

	hits, err := s.store.SearchPosts(r.Context(), text, limit)
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "search failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"query": text,
		"hits":  hits,
		"count": len(hits),
	})
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("must not be negative")
	}
	return n, nil
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithMarkdown(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(code)
	w.Write([]byte(body))
}

// respondWithError writes {"error": message}. err is logged for server
// errors and never exposed to the client.
func (s *Server) respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil && code >= 500 {
		s.logger.WithError(err).WithField("code", code).Error(message)
	}
	respondWithJSON(w, code, map[string]string{"error": message})
}

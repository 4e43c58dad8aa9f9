// Package chi exposes the search pipeline over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shopgrid/querykit/internal/domain"
	"github.com/shopgrid/querykit/internal/domain/search/request"
	"github.com/shopgrid/querykit/internal/logger"
	"github.com/shopgrid/querykit/internal/metrics"
	eventsuc "github.com/shopgrid/querykit/internal/usecase/events"
	healthuc "github.com/shopgrid/querykit/internal/usecase/health"
	ingestuc "github.com/shopgrid/querykit/internal/usecase/ingest"
	searchuc "github.com/shopgrid/querykit/internal/usecase/search"
	statsuc "github.com/shopgrid/querykit/internal/usecase/stats"
)

const maxIngestBatch = 100

// Server wires the usecases into HTTP handlers.
type Server struct {
	search *searchuc.Service
	ingest *ingestuc.Service
	events *eventsuc.Worker
	health *healthuc.Service
	stats  *statsuc.Service
	limits request.Limits
	logger *zap.Logger
}

// NewServer creates an HTTP API server. Zero-valued limits fall back to
// the request package defaults.
func NewServer(
	search *searchuc.Service,
	ingest *ingestuc.Service,
	events *eventsuc.Worker,
	health *healthuc.Service,
	stats *statsuc.Service,
	limits request.Limits,
	log *zap.Logger,
) *Server {
	return &Server{
		search: search,
		ingest: ingest,
		events: events,
		health: health,
		stats:  stats,
		limits: limits,
		logger: log,
	}
}

// Routes builds the router with middleware and all endpoints.
func (s *Server) Routes(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(s.loggerInjector())
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/stats", s.handleStats)
	r.Post("/search", s.handleSearch)
	r.Post("/events", s.handleTrackEvent)
	r.Post("/products", s.handleIngestProducts)
	r.Get("/products", s.handleListProducts)

	return r
}

// loggerInjector puts the request-scoped logger into the context so
// usecases can log without holding a logger reference.
func (s *Server) loggerInjector() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := s.logger.With(zap.String("request_id", chiMiddleware.GetReqID(r.Context())))
			next.ServeHTTP(w, r.WithContext(logger.ContextWithLogger(r.Context(), log)))
		})
	}
}

// handleSearch handles POST /search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	domReq, err := request.NewWithLimits(req.Query, req.Filters, req.Limit, s.limits)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	results, err := s.search.Search(r.Context(), &domReq)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		s.handleDomainError(w, r, err)
		return
	}
	metrics.SearchRequestsTotal.WithLabelValues("success").Inc()

	resp := searchResponse{Results: make([]searchResultDTO, len(results)), Count: len(results)}
	for i, res := range results {
		resp.Results[i] = resultToDTO(res)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleTrackEvent handles POST /events. The producer gets 202 whether or
// not the queue had room; drops are an operational signal, not a caller
// failure.
func (s *Server) handleTrackEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.EventType) == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "event_type is required")
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "session_id is required")
		return
	}

	accepted := s.events.Track(req.EventType, req.SessionID, req.Payload)
	writeJSON(w, http.StatusAccepted, eventResponse{Accepted: accepted})
}

// handleIngestProducts handles POST /products.
func (s *Server) handleIngestProducts(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Products) == 0 || len(req.Products) > maxIngestBatch {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"products count must be between 1 and 100")
		return
	}

	products := make([]domain.Product, len(req.Products))
	for i, p := range req.Products {
		products[i] = productFromDTO(p)
	}

	if err := s.ingest.Ingest(r.Context(), products); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ingestResponse{Ingested: len(products)})
}

// handleListProducts handles GET /products.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.ingest.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := listProductsResponse{Products: make([]productDTO, len(products)), Count: len(products)}
	for i, p := range products {
		resp.Products[i] = productToDTO(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleStats handles GET /stats. An optional product_ids query parameter
// (comma-separated) adds per-product behavior aggregates.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	report, err := s.stats.Overview(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := statsResponse{
		ProductCount:    report.ProductCount,
		EventsProcessed: report.EventsProcessed,
		EventsDropped:   report.EventsDropped,
	}

	if raw := r.URL.Query().Get("product_ids"); raw != "" {
		ids := strings.Split(raw, ",")
		perProduct, err := s.stats.ProductMetrics(r.Context(), ids)
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		resp.Products = make(map[string]behaviorMetricDTO, len(perProduct))
		for id, m := range perProduct {
			resp.Products[id] = behaviorMetricDTO{Clicks: m.Clicks, Impressions: m.Impressions}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrProductNotFound,
		domain.ErrInvalidRequest,
		domain.ErrVectorDimMismatch,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	msg := safeDomainMessage(err)

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, codeValidationFailed, msg)
	case errors.Is(err, domain.ErrVectorDimMismatch):
		writeError(w, http.StatusBadRequest, codeValidationFailed, msg)
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		log.Warn("embedding provider error", zap.Error(err))
		writeError(w, http.StatusBadGateway, codeProviderError, msg)
	default:
		log.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

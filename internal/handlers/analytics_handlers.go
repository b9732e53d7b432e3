package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"climate-analytics/internal/models"
	"climate-analytics/internal/query"
	"climate-analytics/internal/services"
	"climate-analytics/pkg/logging"
	"climate-analytics/pkg/metrics"
)

// AnalyticsHandler handles climate analytics API endpoints.
type AnalyticsHandler struct {
	analytics *services.AnalyticsService
	logger    *logging.StructuredLogger
	metrics   *metrics.Collector
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(analytics *services.AnalyticsService, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		logger:    logger,
		metrics:   metricsCollector,
	}
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// RecordsResponse wraps a record list with its count.
type RecordsResponse struct {
	Data  []models.Observation `json:"data"`
	Count int                  `json:"count"`
}

// GetRecords handles GET /api/climate?year=all|YYYY
func (h *AnalyticsHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	defer h.observe("/api/climate")()

	selector := r.URL.Query().Get("year")
	if selector == "" {
		selector = query.YearSelectorAll
	}

	records := h.analytics.Records(r.Context(), selector)

	h.metrics.RecordAPIRequest("/api/climate", "GET", "200")
	h.sendJSON(w, RecordsResponse{Data: records, Count: len(records)}, http.StatusOK)
}

// GetYears handles GET /api/climate/years
func (h *AnalyticsHandler) GetYears(w http.ResponseWriter, r *http.Request) {
	defer h.observe("/api/climate/years")()

	years := h.analytics.Years(r.Context())

	h.metrics.RecordAPIRequest("/api/climate/years", "GET", "200")
	h.sendJSON(w, map[string]interface{}{"years": years}, http.StatusOK)
}

// GetSeason handles GET /api/climate/season?name=winter&year=2022
func (h *AnalyticsHandler) GetSeason(w http.ResponseWriter, r *http.Request) {
	defer h.observe("/api/climate/season")()

	name := r.URL.Query().Get("name")
	if name == "" {
		h.sendError(w, r, "season name is required", http.StatusBadRequest)
		return
	}

	var year *int
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil {
			h.sendError(w, r, "invalid year, expected integer", http.StatusBadRequest)
			return
		}
		year = &y
	}

	records := h.analytics.Season(r.Context(), name, year)

	h.metrics.RecordAPIRequest("/api/climate/season", "GET", "200")
	h.sendJSON(w, RecordsResponse{Data: records, Count: len(records)}, http.StatusOK)
}

// GetDateRange handles GET /api/climate/range?start=2020-01&end=2021-12
func (h *AnalyticsHandler) GetDateRange(w http.ResponseWriter, r *http.Request) {
	defer h.observe("/api/climate/range")()

	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" || end == "" {
		h.sendError(w, r, "start and end are required, expected YYYY-MM", http.StatusBadRequest)
		return
	}

	records := h.analytics.DateRange(r.Context(), start, end)

	h.metrics.RecordAPIRequest("/api/climate/range", "GET", "200")
	h.sendJSON(w, RecordsResponse{Data: records, Count: len(records)}, http.StatusOK)
}

// GetMonth handles GET /api/climate/month?name=Jul
func (h *AnalyticsHandler) GetMonth(w http.ResponseWriter, r *http.Request) {
	defer h.observe("/api/climate/month")()

	name := r.URL.Query().Get("name")
	if models.MonthIndexOf(name) < 0 {
		h.sendError(w, r, "invalid month, expected three-letter label (Jan..Dec)", http.StatusBadRequest)
		return
	}

	records := h.analytics.MonthAcrossYears(r.Context(), name)

	h.metrics.RecordAPIRequest("/api/climate/month", "GET", "200")
	h.sendJSON(w, RecordsResponse{Data: records, Count: len(records)}, http.StatusOK)
}

// GetExtremes handles GET /api/climate/extremes?field=rainfall&direction=max&limit=5
func (h *AnalyticsHandler) GetExtremes(w http.ResponseWriter, r *http.Request) {
	defer h.observe("/api/climate/extremes")()

	field, ok := models.ParseField(r.URL.Query().Get("field"))
	if !ok {
		h.sendError(w, r, "invalid field name", http.StatusBadRequest)
		return
	}

	direction := query.DirectionMax
	if d := r.URL.Query().Get("direction"); d != "" {
		switch query.Direction(d) {
		case query.DirectionMax, query.DirectionMin:
			direction = query.Direction(d)
		default:
			h.sendError(w, r, "invalid direction, expected max or min", http.StatusBadRequest)
			return
		}
	}

	limit := 5
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	records := h.analytics.Extremes(r.Context(), field, direction, limit)

	h.metrics.RecordAPIRequest("/api/climate/extremes", "GET", "200")
	h.sendJSON(w, RecordsResponse{Data: records, Count: len(records)}, http.StatusOK)
}

// SearchRequest is the POST /api/climate/search payload: field name to
// exact-or-range condition.
type SearchRequest struct {
	Criteria map[string]query.Criterion `json:"criteria"`
}

// Search handles POST /api/climate/search
func (h *AnalyticsHandler) Search(w http.ResponseWriter, r *http.Request) {
	defer h.observe("/api/climate/search")()

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, r, "invalid request body", http.StatusBadRequest)
		return
	}

	criteria := query.Criteria{}
	for name, criterion := range req.Criteria {
		field, ok := models.ParseField(name)
		if !ok {
			h.sendError(w, r, "unknown field in criteria: "+name, http.StatusBadRequest)
			return
		}
		criteria[field] = criterion
	}

	records := h.analytics.Search(r.Context(), criteria)

	h.metrics.RecordAPIRequest("/api/climate/search", "POST", "200")
	h.sendJSON(w, RecordsResponse{Data: records, Count: len(records)}, http.StatusOK)
}

// GetSummary handles GET /api/climate/summary?year=all|YYYY
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	defer h.observe("/api/climate/summary")()

	selector := r.URL.Query().Get("year")
	if selector == "" {
		selector = query.YearSelectorAll
	}

	summary := h.analytics.Summary(r.Context(), selector)

	h.metrics.RecordAPIRequest("/api/climate/summary", "GET", "200")
	h.sendJSON(w, summary, http.StatusOK)
}

// GetCorrelations handles GET /api/climate/correlations?fields=temp,rainfall&year=all
func (h *AnalyticsHandler) GetCorrelations(w http.ResponseWriter, r *http.Request) {
	defer h.observe("/api/climate/correlations")()

	fields := []models.Field{}
	fieldsParam := r.URL.Query().Get("fields")
	if fieldsParam == "" {
		fields = models.NumericFields
	} else {
		for _, name := range strings.Split(fieldsParam, ",") {
			field, ok := models.ParseField(strings.TrimSpace(name))
			if !ok {
				h.sendError(w, r, "unknown field: "+name, http.StatusBadRequest)
				return
			}
			fields = append(fields, field)
		}
	}

	selector := r.URL.Query().Get("year")
	if selector == "" {
		selector = query.YearSelectorAll
	}

	matrix := h.analytics.Correlations(r.Context(), fields, selector)

	h.metrics.RecordAPIRequest("/api/climate/correlations", "GET", "200")
	h.sendJSON(w, matrix, http.StatusOK)
}

// GetAnomalies handles GET /api/climate/anomalies?field=temp&threshold=1.5&year=all
func (h *AnalyticsHandler) GetAnomalies(w http.ResponseWriter, r *http.Request) {
	defer h.observe("/api/climate/anomalies")()

	field, ok := models.ParseField(r.URL.Query().Get("field"))
	if !ok {
		h.sendError(w, r, "invalid field name", http.StatusBadRequest)
		return
	}

	threshold := 2.0
	if thresholdStr := r.URL.Query().Get("threshold"); thresholdStr != "" {
		t, err := strconv.ParseFloat(thresholdStr, 64)
		if err != nil || t < 0 {
			h.sendError(w, r, "invalid threshold, expected non-negative number", http.StatusBadRequest)
			return
		}
		threshold = t
	}

	selector := r.URL.Query().Get("year")
	if selector == "" {
		selector = query.YearSelectorAll
	}

	records := h.analytics.Anomalies(r.Context(), selector, field, threshold)

	h.metrics.RecordAPIRequest("/api/climate/anomalies", "GET", "200")
	h.sendJSON(w, RecordsResponse{Data: records, Count: len(records)}, http.StatusOK)
}

// GetTrend handles GET /api/climate/trend?field=temp&window=3
func (h *AnalyticsHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	defer h.observe("/api/climate/trend")()

	field, ok := models.ParseField(r.URL.Query().Get("field"))
	if !ok {
		h.sendError(w, r, "invalid field name", http.StatusBadRequest)
		return
	}

	window := 3
	if windowStr := r.URL.Query().Get("window"); windowStr != "" {
		if n, err := strconv.Atoi(windowStr); err == nil && n > 0 && n <= 60 {
			window = n
		}
	}

	trend := h.analytics.Trend(r.Context(), field, window)

	h.metrics.RecordAPIRequest("/api/climate/trend", "GET", "200")
	h.sendJSON(w, trend, http.StatusOK)
}

// GetAggregates handles GET /api/climate/aggregates
func (h *AnalyticsHandler) GetAggregates(w http.ResponseWriter, r *http.Request) {
	defer h.observe("/api/climate/aggregates")()

	aggregates := h.analytics.Aggregates(r.Context())

	h.metrics.RecordAPIRequest("/api/climate/aggregates", "GET", "200")
	h.sendJSON(w, map[string]interface{}{"data": aggregates, "count": len(aggregates)}, http.StatusOK)
}

// GetComparison handles GET /api/climate/compare?year1=2020&year2=2021
func (h *AnalyticsHandler) GetComparison(w http.ResponseWriter, r *http.Request) {
	defer h.observe("/api/climate/compare")()

	year1, err1 := strconv.Atoi(r.URL.Query().Get("year1"))
	year2, err2 := strconv.Atoi(r.URL.Query().Get("year2"))
	if err1 != nil || err2 != nil {
		h.sendError(w, r, "year1 and year2 are required, expected integers", http.StatusBadRequest)
		return
	}

	comparison := h.analytics.Compare(r.Context(), year1, year2)
	if comparison == nil {
		h.sendError(w, r, "no data for one or both years", http.StatusNotFound)
		return
	}

	h.metrics.RecordAPIRequest("/api/climate/compare", "GET", "200")
	h.sendJSON(w, comparison, http.StatusOK)
}

// GetNormalDeviations handles GET /api/climate/normals?metric=temp&normal=9.8
func (h *AnalyticsHandler) GetNormalDeviations(w http.ResponseWriter, r *http.Request) {
	defer h.observe("/api/climate/normals")()

	metric, ok := models.ParseField(r.URL.Query().Get("metric"))
	if !ok {
		h.sendError(w, r, "invalid metric name", http.StatusBadRequest)
		return
	}

	normal, err := strconv.ParseFloat(r.URL.Query().Get("normal"), 64)
	if err != nil {
		h.sendError(w, r, "normal is required, expected number", http.StatusBadRequest)
		return
	}

	deviations := h.analytics.NormalDeviations(r.Context(), metric, normal)

	h.metrics.RecordAPIRequest("/api/climate/normals", "GET", "200")
	h.sendJSON(w, map[string]interface{}{"data": deviations, "count": len(deviations)}, http.StatusOK)
}

// HealthCheck handles GET /health
func (h *AnalyticsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	h.sendJSON(w, status, http.StatusOK)
}

// observe returns a deferred duration observer for an endpoint.
func (h *AnalyticsHandler) observe(endpoint string) func() {
	start := time.Now()
	return func() {
		h.metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}

// sendJSON sends a JSON response.
func (h *AnalyticsHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response.
func (h *AnalyticsHandler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	h.metrics.RecordAPIRequest(r.URL.Path, r.Method, strconv.Itoa(statusCode))
	if statusCode >= 500 {
		h.metrics.RecordAPIError("internal_error", r.URL.Path)
	}

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	h.sendJSON(w, response, statusCode)
}

// RegisterRoutes registers all analytics API routes.
func (h *AnalyticsHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/climate", h.GetRecords).Methods("GET")
	router.HandleFunc("/api/climate/years", h.GetYears).Methods("GET")
	router.HandleFunc("/api/climate/season", h.GetSeason).Methods("GET")
	router.HandleFunc("/api/climate/range", h.GetDateRange).Methods("GET")
	router.HandleFunc("/api/climate/month", h.GetMonth).Methods("GET")
	router.HandleFunc("/api/climate/extremes", h.GetExtremes).Methods("GET")
	router.HandleFunc("/api/climate/search", h.Search).Methods("POST")
	router.HandleFunc("/api/climate/summary", h.GetSummary).Methods("GET")
	router.HandleFunc("/api/climate/correlations", h.GetCorrelations).Methods("GET")
	router.HandleFunc("/api/climate/anomalies", h.GetAnomalies).Methods("GET")
	router.HandleFunc("/api/climate/trend", h.GetTrend).Methods("GET")
	router.HandleFunc("/api/climate/aggregates", h.GetAggregates).Methods("GET")
	router.HandleFunc("/api/climate/compare", h.GetComparison).Methods("GET")
	router.HandleFunc("/api/climate/normals", h.GetNormalDeviations).Methods("GET")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
}

package services

import (
	"context"
	"time"

	"climate-analytics/internal/aggregate"
	"climate-analytics/internal/dataset"
	"climate-analytics/internal/models"
	"climate-analytics/internal/query"
	"climate-analytics/internal/stats"
	"climate-analytics/pkg/logging"
	"climate-analytics/pkg/metrics"
)

// AnalyticsService fronts the query, statistics, and aggregation engines for
// the API layer, adding logging and metrics around the pure computations.
type AnalyticsService struct {
	store   *dataset.Store
	engine  *query.Engine
	seasons models.SeasonConfig
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewAnalyticsService creates a new analytics service over a loaded dataset.
func NewAnalyticsService(store *dataset.Store, seasons models.SeasonConfig, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *AnalyticsService {
	if seasons == nil {
		seasons = models.DefaultSeasons()
	}

	metricsCollector.UpdateDatasetSize(store.Size(), len(store.Climatology()))

	return &AnalyticsService{
		store:   store,
		engine:  query.NewEngine(store, seasons),
		seasons: seasons,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// ClimateSummary bundles the per-selection summaries consumed by the
// dashboard: temperature, rainfall, and the summer-winter spread.
type ClimateSummary struct {
	Temperature       *models.TemperatureSummary `json:"temperature"`
	Rainfall          *models.RainfallSummary    `json:"rainfall"`
	SeasonalVariation float64                    `json:"seasonal_variation"`
	RecordCount       int                        `json:"record_count"`
}

// TrendSeries is a chronological field series with its smoothed counterpart.
type TrendSeries struct {
	Field    models.Field `json:"field"`
	Window   int          `json:"window"`
	Dates    []string     `json:"dates"`
	Values   []float64    `json:"values"`
	Smoothed []float64    `json:"smoothed"`
}

// Records returns the record subset for a year selector ("all" or a year).
func (s *AnalyticsService) Records(ctx context.Context, selector string) []models.Observation {
	start := time.Now()
	records := s.engine.FilterByYear(selector)
	s.metrics.RecordQuery("filter_by_year", time.Since(start), len(records))

	s.logger.Debug(ctx, "[QUERY_YEAR] Year filter applied", logging.Fields{
		"selector": selector,
		"matched":  len(records),
	})
	return records
}

// Years returns the distinct years available, most recent first.
func (s *AnalyticsService) Years(ctx context.Context) []int {
	return s.engine.AvailableYears()
}

// Season returns a season's records for a year, or from the climatology when
// year is nil.
func (s *AnalyticsService) Season(ctx context.Context, season string, year *int) []models.Observation {
	start := time.Now()
	records := s.engine.FilterBySeason(season, year)
	s.metrics.RecordQuery("filter_by_season", time.Since(start), len(records))
	return records
}

// DateRange returns records between two YYYY-MM keys inclusive. Unparseable
// keys yield an empty result.
func (s *AnalyticsService) DateRange(ctx context.Context, startKey, endKey string) []models.Observation {
	from, okFrom := query.ParseDateKey(startKey)
	to, okTo := query.ParseDateKey(endKey)
	if !okFrom || !okTo {
		return []models.Observation{}
	}

	start := time.Now()
	records := s.engine.FilterByDateRange(from, to)
	s.metrics.RecordQuery("filter_by_date_range", time.Since(start), len(records))
	return records
}

// MonthAcrossYears returns every record for a month label, ascending by year.
func (s *AnalyticsService) MonthAcrossYears(ctx context.Context, month string) []models.Observation {
	start := time.Now()
	records := s.engine.FilterByMonthAcrossYears(month)
	s.metrics.RecordQuery("filter_by_month", time.Since(start), len(records))
	return records
}

// Search returns records matching every criterion.
func (s *AnalyticsService) Search(ctx context.Context, criteria query.Criteria) []models.Observation {
	start := time.Now()
	records := s.engine.SearchByCriteria(criteria)
	s.metrics.RecordQuery("search_by_criteria", time.Since(start), len(records))

	s.logger.Debug(ctx, "[QUERY_SEARCH] Criteria search applied", logging.Fields{
		"criteria_count": len(criteria),
		"matched":        len(records),
	})
	return records
}

// Extremes returns the top records ranked by a field.
func (s *AnalyticsService) Extremes(ctx context.Context, field models.Field, direction query.Direction, limit int) []models.Observation {
	start := time.Now()
	records := s.engine.TopExtremeRecords(field, direction, limit)
	s.metrics.RecordQuery("top_extreme_records", time.Since(start), len(records))
	return records
}

// Summary computes the dashboard summary for a year selector.
func (s *AnalyticsService) Summary(ctx context.Context, selector string) *ClimateSummary {
	records := s.engine.FilterByYear(selector)

	timer := s.metrics.NewTimer(s.metrics.ComputationDuration.WithLabelValues("summary"))
	defer timer.ObserveDuration()

	return &ClimateSummary{
		Temperature:       stats.TemperatureSummary(records),
		Rainfall:          stats.RainfallSummary(records),
		SeasonalVariation: stats.SeasonalVariation(records, s.seasons),
		RecordCount:       len(records),
	}
}

// Correlations computes the pairwise correlation matrix for the given fields
// over a year selector's subset.
func (s *AnalyticsService) Correlations(ctx context.Context, fields []models.Field, selector string) models.CorrelationMatrix {
	records := s.engine.FilterByYear(selector)

	timer := s.metrics.NewTimer(s.metrics.ComputationDuration.WithLabelValues("correlation_matrix"))
	defer timer.ObserveDuration()

	return stats.CorrelationMatrix(fields, records)
}

// Anomalies flags records deviating from the subset mean by more than
// threshold standard deviations.
func (s *AnalyticsService) Anomalies(ctx context.Context, selector string, field models.Field, threshold float64) []models.Observation {
	records := s.engine.FilterByYear(selector)

	timer := s.metrics.NewTimer(s.metrics.ComputationDuration.WithLabelValues("detect_anomalies"))
	anomalies := stats.DetectAnomalies(records, field, threshold)
	timer.ObserveDuration()

	s.metrics.AnomaliesDetected.Add(float64(len(anomalies)))
	s.logger.Debug(ctx, "[STATS_ANOMALIES] Anomaly detection completed", logging.Fields{
		"field":     string(field),
		"threshold": threshold,
		"flagged":   len(anomalies),
	})
	return anomalies
}

// Trend returns a field's chronological series over the yearly set together
// with its centered moving average. Records missing the field are skipped.
func (s *AnalyticsService) Trend(ctx context.Context, field models.Field, window int) *TrendSeries {
	timer := s.metrics.NewTimer(s.metrics.ComputationDuration.WithLabelValues("moving_average"))
	defer timer.ObserveDuration()

	yearly := s.store.Yearly()
	dates := []string{}
	values := []float64{}
	for i := range yearly {
		if v, ok := field.Value(&yearly[i]); ok {
			dates = append(dates, yearly[i].Date)
			values = append(values, v)
		}
	}

	return &TrendSeries{
		Field:    field,
		Window:   window,
		Dates:    dates,
		Values:   values,
		Smoothed: stats.MovingAverage(values, window),
	}
}

// Aggregates rolls the yearly set up into one row per year.
func (s *AnalyticsService) Aggregates(ctx context.Context) []models.YearlyAggregate {
	timer := s.metrics.NewTimer(s.metrics.ComputationDuration.WithLabelValues("yearly_aggregates"))
	defer timer.ObserveDuration()

	return aggregate.YearlyAggregates(s.store.Yearly())
}

// Compare computes year-vs-year deltas for the fixed metric set. Returns nil
// when either year has no records.
func (s *AnalyticsService) Compare(ctx context.Context, year1, year2 int) *models.YearComparison {
	timer := s.metrics.NewTimer(s.metrics.ComputationDuration.WithLabelValues("year_comparison"))
	defer timer.ObserveDuration()

	return aggregate.YearComparison(year1, year2, s.store.Yearly())
}

// NormalDeviations subtracts a reference normal from each yearly aggregate.
func (s *AnalyticsService) NormalDeviations(ctx context.Context, metric models.Field, normal float64) []models.NormalDeviation {
	aggregates := aggregate.YearlyAggregates(s.store.Yearly())
	return aggregate.NormalDeviations(aggregates, metric, normal)
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"climate-analytics/internal/models"
	"climate-analytics/pkg/database"
	"climate-analytics/pkg/logging"
	"climate-analytics/pkg/metrics"
)

// ObservationRepository provides data access for climate observations. It is
// the data-acquisition side of the system: the analytics core only ever sees
// fully materialized record collections loaded through it.
type ObservationRepository interface {
	CreateObservation(ctx context.Context, obs *models.Observation) error
	CreateObservationsBatch(ctx context.Context, observations []*models.Observation) error
	GetObservation(ctx context.Context, year, monthIndex int) (*models.Observation, error)
	LoadYearlySet(ctx context.Context) ([]models.Observation, error)
	LoadClimatology(ctx context.Context) ([]models.Observation, error)
	CountObservations(ctx context.Context) (int, error)
	HealthCheck(ctx context.Context) error
}

// observationRepository implements ObservationRepository.
type observationRepository struct {
	db      *database.PostgresDB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewObservationRepository creates a new observation repository.
func NewObservationRepository(db *database.PostgresDB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) ObservationRepository {
	return &observationRepository{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

const observationColumns = `
	year, month, month_index, date,
	temp, temp_min, temp_max, rainfall, humidity, sunshine,
	climate_pattern, extreme_event
`

// CreateObservation upserts a single monthly observation.
func (r *observationRepository) CreateObservation(ctx context.Context, obs *models.Observation) error {
	query := `
		INSERT INTO climate_observations (` + observationColumns + `, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (year, month_index) DO UPDATE SET
			temp = EXCLUDED.temp,
			temp_min = EXCLUDED.temp_min,
			temp_max = EXCLUDED.temp_max,
			rainfall = EXCLUDED.rainfall,
			humidity = EXCLUDED.humidity,
			sunshine = EXCLUDED.sunshine,
			climate_pattern = EXCLUDED.climate_pattern,
			extreme_event = EXCLUDED.extreme_event
		RETURNING id
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		obs.Year,
		obs.Month,
		obs.MonthIndex,
		obs.Date,
		obs.Temp,
		obs.TempMin,
		obs.TempMax,
		obs.Rainfall,
		obs.Humidity,
		obs.Sunshine,
		obs.ClimatePattern,
		obs.ExtremeEvent,
		time.Now().UTC(),
	).Scan(&obs.ID)

	if err != nil {
		return fmt.Errorf("failed to create observation: %w", err)
	}

	return nil
}

// CreateObservationsBatch upserts multiple observations in a single transaction.
func (r *observationRepository) CreateObservationsBatch(ctx context.Context, observations []*models.Observation) error {
	if len(observations) == 0 {
		return nil
	}

	timer := time.Now()
	defer func() {
		r.metrics.IngestionBatchSize.Observe(float64(len(observations)))
		r.logger.Debug(ctx, "[REPO_BATCH_INSERT] Batch insert completed", logging.Fields{
			"count":       len(observations),
			"duration_ms": time.Since(timer).Milliseconds(),
		})
	}()

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO climate_observations (`+observationColumns+`, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (year, month_index) DO UPDATE SET
			temp = EXCLUDED.temp,
			temp_min = EXCLUDED.temp_min,
			temp_max = EXCLUDED.temp_max,
			rainfall = EXCLUDED.rainfall,
			humidity = EXCLUDED.humidity,
			sunshine = EXCLUDED.sunshine,
			climate_pattern = EXCLUDED.climate_pattern,
			extreme_event = EXCLUDED.extreme_event
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, obs := range observations {
		_, err := stmt.ExecContext(ctx,
			obs.Year,
			obs.Month,
			obs.MonthIndex,
			obs.Date,
			obs.Temp,
			obs.TempMin,
			obs.TempMax,
			obs.Rainfall,
			obs.Humidity,
			obs.Sunshine,
			obs.ClimatePattern,
			obs.ExtremeEvent,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert observation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.metrics.IngestionRecordsTotal.Add(float64(len(observations)))

	return nil
}

// GetObservation retrieves the observation for one calendar month.
func (r *observationRepository) GetObservation(ctx context.Context, year, monthIndex int) (*models.Observation, error) {
	query := `
		SELECT id, ` + observationColumns + `
		FROM climate_observations
		WHERE year = $1 AND month_index = $2
	`

	var obs models.Observation
	err := r.db.GetContext(ctx, "get_observation", &obs, query, year, monthIndex)

	if err == sql.ErrNoRows {
		return nil, &NotFoundError{
			Resource: "climate_observation",
			ID:       fmt.Sprintf("%04d-%02d", year, monthIndex+1),
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get observation: %w", err)
	}

	return &obs, nil
}

// LoadYearlySet loads the full granular series in chronological order.
func (r *observationRepository) LoadYearlySet(ctx context.Context) ([]models.Observation, error) {
	query := `
		SELECT id, ` + observationColumns + `
		FROM climate_observations
		ORDER BY year, month_index
	`

	var observations []models.Observation
	if err := r.db.SelectContext(ctx, "load_yearly_set", &observations, query); err != nil {
		return nil, fmt.Errorf("failed to load yearly set: %w", err)
	}

	return observations, nil
}

// LoadClimatology loads the canonical 12-record monthly climatology. An empty
// result is not an error: the dataset store derives the climatology from the
// yearly set when no explicit one has been published.
func (r *observationRepository) LoadClimatology(ctx context.Context) ([]models.Observation, error) {
	query := `
		SELECT month, month_index,
		       temp, temp_min, temp_max, rainfall, humidity, sunshine
		FROM monthly_climatology
		ORDER BY month_index
	`

	var observations []models.Observation
	if err := r.db.SelectContext(ctx, "load_climatology", &observations, query); err != nil {
		return nil, fmt.Errorf("failed to load climatology: %w", err)
	}

	return observations, nil
}

// CountObservations returns the number of stored observations.
func (r *observationRepository) CountObservations(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, "count_observations", &count,
		"SELECT COUNT(*) FROM climate_observations")
	if err != nil {
		return 0, fmt.Errorf("failed to count observations: %w", err)
	}
	return count, nil
}

// HealthCheck performs a repository health check.
func (r *observationRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

// NotFoundError represents a resource not found error.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) IsTransient() bool {
	return false
}

// Package dataset holds the in-memory observation store: the full per-year
// granular series plus the 12-record monthly climatology used for the
// "all years" view. The store is immutable once constructed; every accessor
// returns copies so downstream consumers can never mutate engine state.
package dataset

import (
	"sort"

	"climate-analytics/internal/models"
)

// Store is the ordered in-memory collection of monthly observations.
type Store struct {
	climatology []models.Observation // exactly 12 records, one per month
	yearly      []models.Observation // N years × 12 months, chronological
}

// New constructs a store from a yearly set and an explicit climatology.
// Both inputs are copied and sorted chronologically; a nil or non-12-record
// climatology is replaced by one derived from the yearly set.
func New(yearly, climatology []models.Observation) *Store {
	s := &Store{
		yearly: sortChronological(yearly),
	}

	if len(climatology) == 12 {
		clim := make([]models.Observation, 12)
		copy(clim, climatology)
		sort.SliceStable(clim, func(i, j int) bool {
			return clim[i].MonthIndex < clim[j].MonthIndex
		})
		s.climatology = clim
	} else {
		s.climatology = deriveClimatology(s.yearly)
	}

	return s
}

// Yearly returns a copy of the full granular series.
func (s *Store) Yearly() []models.Observation {
	out := make([]models.Observation, len(s.yearly))
	copy(out, s.yearly)
	return out
}

// Climatology returns a copy of the 12-record long-run monthly average set.
func (s *Store) Climatology() []models.Observation {
	out := make([]models.Observation, len(s.climatology))
	copy(out, s.climatology)
	return out
}

// Size returns the number of records in the yearly set.
func (s *Store) Size() int {
	return len(s.yearly)
}

func sortChronological(records []models.Observation) []models.Observation {
	out := make([]models.Observation, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].MonthIndex < out[j].MonthIndex
	})
	return out
}

// deriveClimatology builds the 12-record long-run view as per-month means of
// the yearly set. Missing values are excluded from each mean; a month with no
// valid values for a field stays NULL. Pattern and event annotations do not
// average and are left empty.
func deriveClimatology(yearly []models.Observation) []models.Observation {
	clim := make([]models.Observation, 12)

	for idx := 0; idx < 12; idx++ {
		obs := models.Observation{
			Month:      models.MonthLabels[idx],
			MonthIndex: idx,
		}

		obs.Temp = monthlyMean(yearly, idx, models.FieldTemp)
		obs.TempMin = monthlyMean(yearly, idx, models.FieldTempMin)
		obs.TempMax = monthlyMean(yearly, idx, models.FieldTempMax)
		obs.Rainfall = monthlyMean(yearly, idx, models.FieldRainfall)
		obs.Humidity = monthlyMean(yearly, idx, models.FieldHumidity)
		obs.Sunshine = monthlyMean(yearly, idx, models.FieldSunshine)

		clim[idx] = obs
	}

	return clim
}

func monthlyMean(yearly []models.Observation, monthIndex int, field models.Field) *float64 {
	var sum float64
	var count int

	for i := range yearly {
		if yearly[i].MonthIndex != monthIndex {
			continue
		}
		if v, ok := field.Value(&yearly[i]); ok {
			sum += v
			count++
		}
	}

	if count == 0 {
		return nil
	}
	mean := sum / float64(count)
	return &mean
}

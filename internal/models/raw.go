package models

import (
	"fmt"
	"strconv"
	"strings"
)

// RawClimateRecord represents a single line from input data files.
// Numeric columns carry tenths-scaled integers with -9999 as the missing
// sentinel; the trailing text columns are optional.
type RawClimateRecord struct {
	Date           string // YYYY-MM
	TempTenths     int
	TempMinTenths  int
	TempMaxTenths  int
	RainfallTenths int
	HumidityTenths int
	SunshineTenths int
	ClimatePattern string
	ExtremeEvent   string
}

// ToObservation converts a RawClimateRecord to an Observation.
// Handles -9999 sentinel values and tenths-to-unit conversion.
func (r *RawClimateRecord) ToObservation() (*Observation, error) {
	year, monthIndex, err := splitDateKey(r.Date)
	if err != nil {
		return nil, &ValidationError{
			Field:   "date",
			Value:   r.Date,
			Message: "invalid date format, expected YYYY-MM",
		}
	}

	obs := &Observation{
		Year:           year,
		Month:          MonthLabels[monthIndex],
		MonthIndex:     monthIndex,
		Date:           fmt.Sprintf("%04d-%02d", year, monthIndex+1),
		ClimatePattern: strings.TrimSpace(r.ClimatePattern),
		ExtremeEvent:   strings.TrimSpace(r.ExtremeEvent),
	}

	obs.Temp = tenthsToValue(r.TempTenths)
	obs.TempMin = tenthsToValue(r.TempMinTenths)
	obs.TempMax = tenthsToValue(r.TempMaxTenths)
	obs.Rainfall = tenthsToValue(r.RainfallTenths)
	obs.Humidity = tenthsToValue(r.HumidityTenths)
	obs.Sunshine = tenthsToValue(r.SunshineTenths)

	return obs, nil
}

// tenthsToValue converts a tenths-scaled integer to a unit value, mapping the
// -9999 sentinel to NULL.
func tenthsToValue(tenths int) *float64 {
	if tenths == -9999 {
		return nil
	}
	v := float64(tenths) / 10.0
	return &v
}

// splitDateKey parses a YYYY-MM key into year and 0-based month index.
func splitDateKey(date string) (int, int, error) {
	parts := strings.SplitN(strings.TrimSpace(date), "-", 2)
	if len(parts) != 2 || len(parts[0]) != 4 {
		return 0, 0, fmt.Errorf("malformed date key: %q", date)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed year in date key: %q", date)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("malformed month in date key: %q", date)
	}

	return year, month - 1, nil
}

// ValidationError represents a data validation error.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsTransient returns false as validation errors are permanent.
func (e *ValidationError) IsTransient() bool {
	return false
}

package models

import (
	"strings"
	"time"
)

// MonthLabels holds the fixed three-letter month labels in calendar order.
// MonthIndex values (0-11) index into this slice.
var MonthLabels = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// MonthIndexOf returns the 0-based index for a three-letter month label,
// or -1 if the label is unknown.
func MonthIndexOf(label string) int {
	for i, m := range MonthLabels {
		if m == label {
			return i
		}
	}
	return -1
}

// Observation represents a single monthly climate data point.
// NULL values represented as pointers, matching the database schema.
type Observation struct {
	ID             int64    `json:"id,omitempty" db:"id"`
	Year           int      `json:"year" db:"year"`
	Month          string   `json:"month" db:"month"`
	MonthIndex     int      `json:"month_index" db:"month_index"`
	Date           string   `json:"date" db:"date"` // YYYY-MM sort key
	Temp           *float64 `json:"temp,omitempty" db:"temp"`
	TempMin        *float64 `json:"temp_min,omitempty" db:"temp_min"`
	TempMax        *float64 `json:"temp_max,omitempty" db:"temp_max"`
	Rainfall       *float64 `json:"rainfall,omitempty" db:"rainfall"`
	Humidity       *float64 `json:"humidity,omitempty" db:"humidity"`
	Sunshine       *float64 `json:"sunshine,omitempty" db:"sunshine"`
	ClimatePattern string   `json:"climate_pattern,omitempty" db:"climate_pattern"`
	ExtremeEvent   string   `json:"extreme_event,omitempty" db:"extreme_event"`
}

// Time synthesizes a chronological timestamp from the observation's year and
// month index. An out-of-range month index falls back to January rather than
// failing, so malformed records still sort deterministically.
func (o *Observation) Time() time.Time {
	month := time.January
	if o.MonthIndex >= 0 && o.MonthIndex < 12 {
		month = time.Month(o.MonthIndex + 1)
	}
	return time.Date(o.Year, month, 1, 0, 0, 0, 0, time.UTC)
}

// Field identifies a numeric observation field for dynamic queries and
// statistics. Using an enumerated type instead of runtime field-name lookup
// keeps accessors explicit and extensible.
type Field string

const (
	FieldTemp     Field = "temp"
	FieldTempMin  Field = "tempMin"
	FieldTempMax  Field = "tempMax"
	FieldRainfall Field = "rainfall"
	FieldHumidity Field = "humidity"
	FieldSunshine Field = "sunshine"
	FieldYear     Field = "year"
)

// NumericFields lists the fields carrying measured values, in presentation order.
var NumericFields = []Field{
	FieldTemp, FieldTempMin, FieldTempMax,
	FieldRainfall, FieldHumidity, FieldSunshine,
}

// ParseField maps a field name string to its Field, reporting whether the
// name is recognized.
func ParseField(name string) (Field, bool) {
	switch Field(name) {
	case FieldTemp, FieldTempMin, FieldTempMax, FieldRainfall, FieldHumidity, FieldSunshine, FieldYear:
		return Field(name), true
	}
	return "", false
}

// Value returns the observation's value for the field and whether it is
// present. Missing numeric fields report ok=false and must be excluded from
// statistics rather than treated as zero.
func (f Field) Value(o *Observation) (float64, bool) {
	switch f {
	case FieldTemp:
		return deref(o.Temp)
	case FieldTempMin:
		return deref(o.TempMin)
	case FieldTempMax:
		return deref(o.TempMax)
	case FieldRainfall:
		return deref(o.Rainfall)
	case FieldHumidity:
		return deref(o.Humidity)
	case FieldSunshine:
		return deref(o.Sunshine)
	case FieldYear:
		return float64(o.Year), true
	}
	return 0, false
}

// ValueOrZero returns the field value, substituting 0 when missing.
// Used by extreme-record ranking where absent values rank lowest.
func (f Field) ValueOrZero(o *Observation) float64 {
	v, ok := f.Value(o)
	if !ok {
		return 0
	}
	return v
}

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Season represents a meteorological season name.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
)

// SeasonConfig maps seasons to their month indexes. The mapping is
// configuration, not logic: datasets from other hemispheres supply their own.
type SeasonConfig map[Season][]int

// DefaultSeasons is the northern-hemisphere meteorological mapping.
func DefaultSeasons() SeasonConfig {
	return SeasonConfig{
		SeasonSpring: {2, 3, 4},
		SeasonSummer: {5, 6, 7},
		SeasonFall:   {8, 9, 10},
		SeasonWinter: {11, 0, 1},
	}
}

// Months returns the month indexes for a season name, case-insensitively.
// Unknown season names yield nil.
func (c SeasonConfig) Months(name string) []int {
	for season, months := range c {
		if strings.EqualFold(string(season), name) {
			return months
		}
	}
	return nil
}

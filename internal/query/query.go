// Package query selects record subsets from the observation store. All
// operations are read-only and total: unknown selectors, unparseable years and
// empty stores yield empty results, never errors, since these inputs arrive
// straight from UI boundaries.
package query

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"climate-analytics/internal/dataset"
	"climate-analytics/internal/models"
)

// YearSelectorAll is the sentinel selecting the monthly climatology instead
// of a specific year.
const YearSelectorAll = "all"

// Direction orders extreme-record rankings.
type Direction string

const (
	DirectionMax Direction = "max"
	DirectionMin Direction = "min"
)

// Criterion matches a field either exactly or within an inclusive range.
// Equals takes precedence when set; otherwise Min/Max bound the value, with a
// nil bound meaning unbounded on that side.
type Criterion struct {
	Equals *float64 `json:"equals,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// Criteria maps fields to match conditions. A record matches only if it
// satisfies every criterion.
type Criteria map[models.Field]Criterion

// Engine answers filter queries against a store.
type Engine struct {
	store   *dataset.Store
	seasons models.SeasonConfig
}

// NewEngine creates a query engine. A nil season config falls back to the
// default northern-hemisphere mapping.
func NewEngine(store *dataset.Store, seasons models.SeasonConfig) *Engine {
	if seasons == nil {
		seasons = models.DefaultSeasons()
	}
	return &Engine{store: store, seasons: seasons}
}

// FilterByYear returns the monthly climatology for the "all" sentinel, or the
// matching year's records. Unparseable selectors yield an empty result.
func (e *Engine) FilterByYear(selector string) []models.Observation {
	selector = strings.TrimSpace(selector)
	if strings.EqualFold(selector, YearSelectorAll) {
		return e.store.Climatology()
	}

	year, err := strconv.Atoi(selector)
	if err != nil {
		return []models.Observation{}
	}

	return filter(e.store.Yearly(), func(o *models.Observation) bool {
		return o.Year == year
	})
}

// AvailableYears returns the distinct years in the yearly set, most recent
// first.
func (e *Engine) AvailableYears() []int {
	seen := map[int]bool{}
	years := []int{}
	for _, o := range e.store.Yearly() {
		if !seen[o.Year] {
			seen[o.Year] = true
			years = append(years, o.Year)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// FilterByDateRange returns yearly-set records whose synthesized date falls
// within [start, end] inclusive. Records with an out-of-range month index
// synthesize as January rather than being dropped.
func (e *Engine) FilterByDateRange(start, end time.Time) []models.Observation {
	return filter(e.store.Yearly(), func(o *models.Observation) bool {
		t := o.Time()
		return !t.Before(start) && !t.After(end)
	})
}

// FilterBySeason returns the season's months from a specific year, or from
// the climatology when year is nil. Unknown season names yield an empty
// result.
func (e *Engine) FilterBySeason(season string, year *int) []models.Observation {
	months := e.seasons.Months(season)
	if months == nil {
		return []models.Observation{}
	}

	inSeason := map[int]bool{}
	for _, m := range months {
		inSeason[m] = true
	}

	var pool []models.Observation
	if year != nil {
		pool = e.FilterByYear(strconv.Itoa(*year))
	} else {
		pool = e.store.Climatology()
	}

	return filter(pool, func(o *models.Observation) bool {
		return inSeason[o.MonthIndex]
	})
}

// FilterByMonthAcrossYears returns every yearly-set record for the given
// month label, ascending by year.
func (e *Engine) FilterByMonthAcrossYears(month string) []models.Observation {
	matched := filter(e.store.Yearly(), func(o *models.Observation) bool {
		return o.Month == month
	})
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Year < matched[j].Year
	})
	return matched
}

// SearchByCriteria returns yearly-set records satisfying every criterion.
// Range bounds are inclusive; records missing a criterion's field never match.
func (e *Engine) SearchByCriteria(criteria Criteria) []models.Observation {
	return filter(e.store.Yearly(), func(o *models.Observation) bool {
		for field, criterion := range criteria {
			v, ok := field.Value(o)
			if !ok {
				return false
			}
			if criterion.Equals != nil {
				if v != *criterion.Equals {
					return false
				}
				continue
			}
			if criterion.Min != nil && v < *criterion.Min {
				return false
			}
			if criterion.Max != nil && v > *criterion.Max {
				return false
			}
		}
		return true
	})
}

// TopExtremeRecords ranks the yearly set by the named field and returns the
// first limit records. Missing values rank as 0; ties keep their original
// relative order.
func (e *Engine) TopExtremeRecords(field models.Field, direction Direction, limit int) []models.Observation {
	records := e.store.Yearly()

	sort.SliceStable(records, func(i, j int) bool {
		vi := field.ValueOrZero(&records[i])
		vj := field.ValueOrZero(&records[j])
		if direction == DirectionMin {
			return vi < vj
		}
		return vi > vj
	})

	if limit < 0 {
		limit = 0
	}
	if limit > len(records) {
		limit = len(records)
	}
	return records[:limit]
}

// ParseDateKey parses a YYYY-MM key into a timestamp. A malformed or missing
// month component defaults to January; a malformed year reports ok=false.
func ParseDateKey(key string) (time.Time, bool) {
	key = strings.TrimSpace(key)
	yearPart := key
	monthPart := ""
	if i := strings.Index(key, "-"); i >= 0 {
		yearPart, monthPart = key[:i], key[i+1:]
	}

	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return time.Time{}, false
	}

	month := 1
	if m, err := strconv.Atoi(monthPart); err == nil && m >= 1 && m <= 12 {
		month = m
	}

	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
}

func filter(records []models.Observation, keep func(*models.Observation) bool) []models.Observation {
	out := []models.Observation{}
	for i := range records {
		if keep(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

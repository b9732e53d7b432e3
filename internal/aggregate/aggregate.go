// Package aggregate rolls granular monthly records up into one row per year
// and computes year-vs-year deltas. Like the statistics engine it is pure:
// identical input always yields identical output, and degenerate input
// (missing years, zero baselines) resolves to nil or 0 rather than an error.
package aggregate

import (
	"math"
	"sort"

	"climate-analytics/internal/models"
)

// ComparisonMetrics is the fixed metric set compared between years.
var ComparisonMetrics = []models.Field{
	models.FieldTemp,
	models.FieldRainfall,
	models.FieldHumidity,
	models.FieldSunshine,
}

// YearlyAggregates groups records by year and computes per-year totals and
// means: rainfall total rounded to the nearest unit, mean temperature to one
// decimal, mean humidity to the nearest integer, sunshine total to one
// decimal. Rows come back in ascending year order. Missing values are
// excluded before computing; a year with no values for a metric reports 0.
func YearlyAggregates(records []models.Observation) []models.YearlyAggregate {
	byYear := map[int][]models.Observation{}
	for i := range records {
		byYear[records[i].Year] = append(byYear[records[i].Year], records[i])
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	aggregates := make([]models.YearlyAggregate, 0, len(years))
	for _, year := range years {
		subset := byYear[year]
		aggregates = append(aggregates, models.YearlyAggregate{
			Year:          year,
			TotalRainfall: math.Round(fieldSum(subset, models.FieldRainfall)),
			AvgTemp:       round1(fieldMean(subset, models.FieldTemp)),
			AvgHumidity:   math.Round(fieldMean(subset, models.FieldHumidity)),
			TotalSunshine: round1(fieldSum(subset, models.FieldSunshine)),
		})
	}

	return aggregates
}

// YearComparison compares the fixed metric set between two years: each year's
// mean, the signed difference (year2 minus year1), and percent change.
// Percent change is defined as 0 when the year1 mean is 0. Returns nil if
// either year has no matching records.
func YearComparison(year1, year2 int, records []models.Observation) *models.YearComparison {
	subset1 := recordsForYear(records, year1)
	subset2 := recordsForYear(records, year2)
	if len(subset1) == 0 || len(subset2) == 0 {
		return nil
	}

	comparison := &models.YearComparison{
		Year1:   year1,
		Year2:   year2,
		Metrics: map[models.Field]models.MetricComparison{},
	}

	for _, metric := range ComparisonMetrics {
		avg1 := fieldMean(subset1, metric)
		avg2 := fieldMean(subset2, metric)
		difference := avg2 - avg1

		percentChange := 0.0
		if avg1 != 0 {
			percentChange = difference / avg1 * 100
		}

		comparison.Metrics[metric] = models.MetricComparison{
			Year1Avg:      avg1,
			Year2Avg:      avg2,
			Difference:    difference,
			PercentChange: percentChange,
		}
	}

	return comparison
}

// NormalDeviations subtracts a caller-supplied climate-normal reference from
// each yearly aggregate's value for the metric. This is plain subtraction for
// charting against a baseline, not a statistical test; see
// stats.DetectAnomalies for threshold-based detection.
func NormalDeviations(aggregates []models.YearlyAggregate, metric models.Field, normal float64) []models.NormalDeviation {
	deviations := make([]models.NormalDeviation, 0, len(aggregates))
	for _, agg := range aggregates {
		value := aggregateValue(agg, metric)
		deviations = append(deviations, models.NormalDeviation{
			Year:      agg.Year,
			Value:     value,
			Normal:    normal,
			Deviation: value - normal,
		})
	}
	return deviations
}

// aggregateValue maps a comparison metric to its yearly-aggregate column.
func aggregateValue(agg models.YearlyAggregate, metric models.Field) float64 {
	switch metric {
	case models.FieldRainfall:
		return agg.TotalRainfall
	case models.FieldHumidity:
		return agg.AvgHumidity
	case models.FieldSunshine:
		return agg.TotalSunshine
	default:
		return agg.AvgTemp
	}
}

func recordsForYear(records []models.Observation, year int) []models.Observation {
	subset := []models.Observation{}
	for i := range records {
		if records[i].Year == year {
			subset = append(subset, records[i])
		}
	}
	return subset
}

func fieldSum(records []models.Observation, field models.Field) float64 {
	var sum float64
	for i := range records {
		if v, ok := field.Value(&records[i]); ok {
			sum += v
		}
	}
	return sum
}

func fieldMean(records []models.Observation, field models.Field) float64 {
	var sum float64
	var count int
	for i := range records {
		if v, ok := field.Value(&records[i]); ok {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

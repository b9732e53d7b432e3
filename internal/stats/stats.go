// Package stats computes scalar and structural summaries over observation
// subsets. Every function is pure and total: empty or all-missing input
// resolves to nil or zero, and NaN/Infinity never reach a caller. Records
// missing a field are excluded from that field's statistic, never counted
// as zero.
package stats

import (
	"math"

	"climate-analytics/internal/models"
)

// TemperatureSummary summarizes temperature over a subset. Records without a
// mean temperature are excluded; if none remain the result is nil. Max and
// Min come from per-record extremes, falling back to the mean temperature
// when an extreme column is missing. The hottest and coldest month labels
// take the first record matching each extreme.
func TemperatureSummary(records []models.Observation) *models.TemperatureSummary {
	valid := withField(records, models.FieldTemp)
	if len(valid) == 0 {
		return nil
	}

	var sum float64
	max := math.Inf(-1)
	min := math.Inf(1)
	hottest, coldest := "", ""

	for i := range valid {
		temp := *valid[i].Temp
		sum += temp

		high := temp
		if valid[i].TempMax != nil {
			high = *valid[i].TempMax
		}
		if high > max {
			max = high
			hottest = valid[i].Month
		}

		low := temp
		if valid[i].TempMin != nil {
			low = *valid[i].TempMin
		}
		if low < min {
			min = low
			coldest = valid[i].Month
		}
	}

	return &models.TemperatureSummary{
		Average:      sum / float64(len(valid)),
		Max:          max,
		Min:          min,
		Range:        max - min,
		HottestMonth: hottest,
		ColdestMonth: coldest,
	}
}

// RainfallSummary summarizes precipitation over a subset, or nil if no record
// carries a rainfall value.
func RainfallSummary(records []models.Observation) *models.RainfallSummary {
	valid := withField(records, models.FieldRainfall)
	if len(valid) == 0 {
		return nil
	}

	var total float64
	max := math.Inf(-1)
	min := math.Inf(1)
	wettest, driest := "", ""

	for i := range valid {
		rain := *valid[i].Rainfall
		total += rain
		if rain > max {
			max = rain
			wettest = valid[i].Month
		}
		if rain < min {
			min = rain
			driest = valid[i].Month
		}
	}

	return &models.RainfallSummary{
		Total:        total,
		Average:      total / float64(len(valid)),
		Max:          max,
		Min:          min,
		WettestMonth: wettest,
		DriestMonth:  driest,
	}
}

// SeasonalVariation returns the mean summer temperature minus the mean winter
// temperature under the given season mapping. A season without temperature
// data contributes 0.
func SeasonalVariation(records []models.Observation, seasons models.SeasonConfig) float64 {
	if seasons == nil {
		seasons = models.DefaultSeasons()
	}
	return seasonMeanTemp(records, seasons[models.SeasonSummer]) -
		seasonMeanTemp(records, seasons[models.SeasonWinter])
}

func seasonMeanTemp(records []models.Observation, months []int) float64 {
	inSeason := map[int]bool{}
	for _, m := range months {
		inSeason[m] = true
	}

	var sum float64
	var count int
	for i := range records {
		if !inSeason[records[i].MonthIndex] {
			continue
		}
		if v, ok := models.FieldTemp.Value(&records[i]); ok {
			sum += v
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// Correlation computes the Pearson coefficient between two fields over the
// records carrying both. Fewer than one complete pair or a zero-variance
// denominator resolves to 0, a defined degenerate value rather than a failure.
func Correlation(fieldA, fieldB models.Field, records []models.Observation) float64 {
	var xs, ys []float64
	for i := range records {
		x, okX := fieldA.Value(&records[i])
		y, okY := fieldB.Value(&records[i])
		if okX && okY {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}

	n := float64(len(xs))
	if len(xs) == 0 || len(xs) != len(ys) {
		return 0
	}

	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumX2 += xs[i] * xs[i]
		sumY2 += ys[i] * ys[i]
	}

	denominator := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if denominator == 0 || math.IsNaN(denominator) {
		return 0
	}

	r := (n*sumXY - sumX*sumY) / denominator
	return clamp(r, -1, 1)
}

// CorrelationMatrix computes pairwise Pearson coefficients for the requested
// fields. Self-pairs are assigned exactly 1.0 without computation.
func CorrelationMatrix(fields []models.Field, records []models.Observation) models.CorrelationMatrix {
	matrix := models.CorrelationMatrix{}
	for _, a := range fields {
		matrix[a] = map[models.Field]float64{}
		for _, b := range fields {
			if a == b {
				matrix[a][b] = 1.0
				continue
			}
			matrix[a][b] = Correlation(a, b, records)
		}
	}
	return matrix
}

// MovingAverage smooths values with a centered window of the given size. The
// window shrinks at the boundaries instead of wrapping or padding, so the
// output always has the input's length. A window of 1 or less is the
// identity.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))

	for i := range values {
		lo := i - window/2
		hi := i + (window+1)/2
		if lo < 0 {
			lo = 0
		}
		if hi > len(values) {
			hi = len(values)
		}
		if hi <= lo {
			out[i] = values[i]
			continue
		}

		var sum float64
		for j := lo; j < hi; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(hi-lo)
	}

	return out
}

// DetectAnomalies returns the records whose field value deviates from the
// subset mean by more than threshold population standard deviations. Records
// missing the field are excluded from both the statistic and the candidate
// pool. A zero-variance subset yields no anomalies.
func DetectAnomalies(records []models.Observation, field models.Field, threshold float64) []models.Observation {
	candidates := withField(records, field)
	if len(candidates) == 0 {
		return []models.Observation{}
	}

	var sum float64
	for i := range candidates {
		sum += field.ValueOrZero(&candidates[i])
	}
	mean := sum / float64(len(candidates))

	var variance float64
	for i := range candidates {
		d := field.ValueOrZero(&candidates[i]) - mean
		variance += d * d
	}
	stdDev := math.Sqrt(variance / float64(len(candidates)))

	anomalies := []models.Observation{}
	for i := range candidates {
		if math.Abs(field.ValueOrZero(&candidates[i])-mean) > threshold*stdDev {
			anomalies = append(anomalies, candidates[i])
		}
	}
	return anomalies
}

// withField returns the records carrying a value for the field.
func withField(records []models.Observation, field models.Field) []models.Observation {
	out := []models.Observation{}
	for i := range records {
		if _, ok := field.Value(&records[i]); ok {
			out = append(out, records[i])
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

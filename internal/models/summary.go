package models

// TemperatureSummary describes the temperature behavior of a record subset.
// Max/Min come from the per-record extremes and Average from the monthly
// means, so Min <= Average <= Max holds for well-formed data.
type TemperatureSummary struct {
	Average      float64 `json:"average"`
	Max          float64 `json:"max"`
	Min          float64 `json:"min"`
	Range        float64 `json:"range"`
	HottestMonth string  `json:"hottest_month"`
	ColdestMonth string  `json:"coldest_month"`
}

// RainfallSummary describes the precipitation behavior of a record subset.
type RainfallSummary struct {
	Total        float64 `json:"total"`
	Average      float64 `json:"average"`
	Max          float64 `json:"max"`
	Min          float64 `json:"min"`
	WettestMonth string  `json:"wettest_month"`
	DriestMonth  string  `json:"driest_month"`
}

// CorrelationMatrix maps ordered field pairs to Pearson coefficients in
// [-1, 1]. The matrix is symmetric and its diagonal is 1.0 by convention.
type CorrelationMatrix map[Field]map[Field]float64

// YearlyAggregate is one rolled-up row per distinct year.
type YearlyAggregate struct {
	Year          int     `json:"year" db:"year"`
	TotalRainfall float64 `json:"total_rainfall" db:"total_rainfall"`
	AvgTemp       float64 `json:"avg_temp" db:"avg_temp"`
	AvgHumidity   float64 `json:"avg_humidity" db:"avg_humidity"`
	TotalSunshine float64 `json:"total_sunshine" db:"total_sunshine"`
}

// MetricComparison holds one metric's year-vs-year delta.
type MetricComparison struct {
	Year1Avg      float64 `json:"year1_avg"`
	Year2Avg      float64 `json:"year2_avg"`
	Difference    float64 `json:"difference"`
	PercentChange float64 `json:"percent_change"`
}

// YearComparison compares the fixed metric set between two years.
type YearComparison struct {
	Year1   int                        `json:"year1"`
	Year2   int                        `json:"year2"`
	Metrics map[Field]MetricComparison `json:"metrics"`
}

// NormalDeviation is a yearly aggregate's simple difference from a
// caller-supplied climate-normal reference. This is plain subtraction for
// presentation, not a statistical anomaly test.
type NormalDeviation struct {
	Year      int     `json:"year"`
	Value     float64 `json:"value"`
	Normal    float64 `json:"normal"`
	Deviation float64 `json:"deviation"`
}

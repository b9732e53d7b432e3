package query

import (
	"fmt"
	"testing"
	"time"

	"climate-analytics/internal/dataset"
	"climate-analytics/internal/models"
)

func fptr(v float64) *float64 { return &v }

func monthObs(year, monthIndex int, temp, rainfall, humidity *float64) models.Observation {
	return models.Observation{
		Year:       year,
		Month:      models.MonthLabels[monthIndex],
		MonthIndex: monthIndex,
		Date:       fmt.Sprintf("%04d-%02d", year, monthIndex+1),
		Temp:       temp,
		Rainfall:   rainfall,
		Humidity:   humidity,
	}
}

// twoYearStore builds a store with full 2021 and 2022 series. Temperatures
// rise with the month index, rainfall falls, humidity sits at 60+index.
func twoYearStore() *dataset.Store {
	var yearly []models.Observation
	for _, year := range []int{2021, 2022} {
		for m := 0; m < 12; m++ {
			yearly = append(yearly, monthObs(
				year, m,
				fptr(float64(m)+float64(year-2021)),
				fptr(float64(120-10*m)),
				fptr(float64(60+m)),
			))
		}
	}
	return dataset.New(yearly, nil)
}

func TestEngine_FilterByYear(t *testing.T) {
	engine := NewEngine(twoYearStore(), nil)

	tests := []struct {
		name      string
		selector  string
		wantCount int
		wantYear  int
	}{
		{"specific year", "2021", 12, 2021},
		{"other year", "2022", 12, 2022},
		{"all sentinel returns climatology", "all", 12, 0},
		{"all sentinel is case insensitive", "ALL", 12, 0},
		{"absent year", "1999", 0, 0},
		{"unparseable selector", "twenty-one", 0, 0},
		{"empty selector", "", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.FilterByYear(tt.selector)
			if got == nil {
				t.Fatal("FilterByYear() returned nil, want empty slice")
			}
			if len(got) != tt.wantCount {
				t.Fatalf("FilterByYear(%q) returned %d records, want %d", tt.selector, len(got), tt.wantCount)
			}
			for i := range got {
				if got[i].Year != tt.wantYear {
					t.Errorf("record %d has Year = %v, want %v", i, got[i].Year, tt.wantYear)
				}
			}
		})
	}
}

func TestEngine_FilterByYear_ClimatologyAverages(t *testing.T) {
	engine := NewEngine(twoYearStore(), nil)

	clim := engine.FilterByYear("all")
	if len(clim) != 12 {
		t.Fatalf("climatology has %d records, want 12", len(clim))
	}

	// January temp is 0.0 in 2021 and 1.0 in 2022, so the long-run mean is 0.5.
	if clim[0].Temp == nil || *clim[0].Temp != 0.5 {
		t.Errorf("January climatology Temp = %v, want 0.5", clim[0].Temp)
	}
}

func TestEngine_AvailableYears(t *testing.T) {
	engine := NewEngine(twoYearStore(), nil)

	years := engine.AvailableYears()
	if len(years) != 2 {
		t.Fatalf("AvailableYears() = %v, want 2 entries", years)
	}
	if years[0] != 2022 || years[1] != 2021 {
		t.Errorf("AvailableYears() = %v, want [2022 2021]", years)
	}
}

func TestEngine_FilterByDateRange(t *testing.T) {
	engine := NewEngine(twoYearStore(), nil)

	tests := []struct {
		name      string
		start     string
		end       string
		wantCount int
		wantFirst string
	}{
		{"across year boundary", "2021-11", "2022-02", 4, "2021-11"},
		{"single month", "2022-06", "2022-06", 1, "2022-06"},
		{"full span", "2021-01", "2022-12", 24, "2021-01"},
		{"outside data", "1990-01", "1990-12", 0, ""},
		{"inverted range", "2022-06", "2021-06", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, ok := ParseDateKey(tt.start)
			if !ok {
				t.Fatalf("ParseDateKey(%q) failed", tt.start)
			}
			end, ok := ParseDateKey(tt.end)
			if !ok {
				t.Fatalf("ParseDateKey(%q) failed", tt.end)
			}

			got := engine.FilterByDateRange(start, end)
			if len(got) != tt.wantCount {
				t.Fatalf("FilterByDateRange(%s, %s) returned %d records, want %d",
					tt.start, tt.end, len(got), tt.wantCount)
			}
			if tt.wantCount > 0 && got[0].Date != tt.wantFirst {
				t.Errorf("first record date = %v, want %v", got[0].Date, tt.wantFirst)
			}
		})
	}
}

func TestEngine_FilterBySeason(t *testing.T) {
	engine := NewEngine(twoYearStore(), nil)
	year2022 := 2022

	tests := []struct {
		name       string
		season     string
		year       *int
		wantCount  int
		wantMonths map[string]bool
	}{
		{
			name:       "winter of a specific year",
			season:     "winter",
			year:       &year2022,
			wantCount:  3,
			wantMonths: map[string]bool{"Dec": true, "Jan": true, "Feb": true},
		},
		{
			name:       "summer from climatology",
			season:     "summer",
			year:       nil,
			wantCount:  3,
			wantMonths: map[string]bool{"Jun": true, "Jul": true, "Aug": true},
		},
		{
			name:      "unknown season",
			season:    "monsoon",
			year:      &year2022,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.FilterBySeason(tt.season, tt.year)
			if len(got) != tt.wantCount {
				t.Fatalf("FilterBySeason(%q) returned %d records, want %d", tt.season, len(got), tt.wantCount)
			}
			for i := range got {
				if !tt.wantMonths[got[i].Month] {
					t.Errorf("unexpected month %v in %v season", got[i].Month, tt.season)
				}
			}
		})
	}
}

func TestEngine_FilterByMonthAcrossYears(t *testing.T) {
	engine := NewEngine(twoYearStore(), nil)

	got := engine.FilterByMonthAcrossYears("Jul")
	if len(got) != 2 {
		t.Fatalf("FilterByMonthAcrossYears(Jul) returned %d records, want 2", len(got))
	}
	if got[0].Year != 2021 || got[1].Year != 2022 {
		t.Errorf("years = [%v %v], want ascending [2021 2022]", got[0].Year, got[1].Year)
	}

	if got := engine.FilterByMonthAcrossYears("Juliet"); len(got) != 0 {
		t.Errorf("unknown month label returned %d records, want 0", len(got))
	}
}

func TestEngine_SearchByCriteria(t *testing.T) {
	engine := NewEngine(twoYearStore(), nil)

	tests := []struct {
		name      string
		criteria  Criteria
		wantCount int
		check     func(*testing.T, []models.Observation)
	}{
		{
			name: "humidity range within one year",
			criteria: Criteria{
				models.FieldHumidity: {Min: fptr(65), Max: fptr(67)},
				models.FieldYear:     {Equals: fptr(2022)},
			},
			wantCount: 3,
			check: func(t *testing.T, got []models.Observation) {
				for i := range got {
					if got[i].Year != 2022 {
						t.Errorf("record %d year = %v, want 2022", i, got[i].Year)
					}
					if *got[i].Humidity < 65 || *got[i].Humidity > 67 {
						t.Errorf("record %d humidity = %v, outside [65, 67]", i, *got[i].Humidity)
					}
				}
			},
		},
		{
			name: "exact match",
			criteria: Criteria{
				models.FieldRainfall: {Equals: fptr(120)},
			},
			wantCount: 2,
		},
		{
			name: "open-ended minimum",
			criteria: Criteria{
				models.FieldTemp: {Min: fptr(11.5)},
			},
			wantCount: 1,
		},
		{
			name:      "empty criteria match everything",
			criteria:  Criteria{},
			wantCount: 24,
		},
		{
			name: "impossible range",
			criteria: Criteria{
				models.FieldTemp: {Min: fptr(100)},
			},
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.SearchByCriteria(tt.criteria)
			if got == nil {
				t.Fatal("SearchByCriteria() returned nil, want empty slice")
			}
			if len(got) != tt.wantCount {
				t.Fatalf("SearchByCriteria() returned %d records, want %d", len(got), tt.wantCount)
			}
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestEngine_SearchByCriteria_MissingFieldNeverMatches(t *testing.T) {
	yearly := []models.Observation{
		monthObs(2022, 0, nil, fptr(50), nil),
		monthObs(2022, 1, fptr(5), fptr(50), nil),
	}
	engine := NewEngine(dataset.New(yearly, nil), nil)

	got := engine.SearchByCriteria(Criteria{
		models.FieldTemp: {Min: fptr(-100)},
	})
	if len(got) != 1 {
		t.Fatalf("returned %d records, want 1", len(got))
	}
	if got[0].Month != "Feb" {
		t.Errorf("matched month = %v, want Feb", got[0].Month)
	}
}

func TestEngine_TopExtremeRecords(t *testing.T) {
	engine := NewEngine(twoYearStore(), nil)

	top := engine.TopExtremeRecords(models.FieldTemp, DirectionMax, 3)
	if len(top) != 3 {
		t.Fatalf("returned %d records, want 3", len(top))
	}
	// Hottest is 2022 December (temp 12), then 2021 Dec / 2022 Nov tie at 11.
	if *top[0].Temp != 12 {
		t.Errorf("top record temp = %v, want 12", *top[0].Temp)
	}
	for i := 1; i < len(top); i++ {
		if *top[i].Temp > *top[i-1].Temp {
			t.Errorf("records not in descending order at index %d", i)
		}
	}

	bottom := engine.TopExtremeRecords(models.FieldTemp, DirectionMin, 1)
	if len(bottom) != 1 || *bottom[0].Temp != 0 {
		t.Errorf("coldest record temp = %v, want 0", *bottom[0].Temp)
	}
}

func TestEngine_TopExtremeRecords_StableTies(t *testing.T) {
	yearly := []models.Observation{
		monthObs(2021, 0, fptr(5), nil, nil),
		monthObs(2021, 1, fptr(5), nil, nil),
		monthObs(2021, 2, fptr(5), nil, nil),
	}
	engine := NewEngine(dataset.New(yearly, nil), nil)

	got := engine.TopExtremeRecords(models.FieldTemp, DirectionMax, 3)
	if len(got) != 3 {
		t.Fatalf("returned %d records, want 3", len(got))
	}
	// All equal: chronological order must be preserved.
	for i, month := range []string{"Jan", "Feb", "Mar"} {
		if got[i].Month != month {
			t.Errorf("record %d month = %v, want %v", i, got[i].Month, month)
		}
	}
}

func TestEngine_TopExtremeRecords_LimitClamping(t *testing.T) {
	engine := NewEngine(twoYearStore(), nil)

	if got := engine.TopExtremeRecords(models.FieldTemp, DirectionMax, 1000); len(got) != 24 {
		t.Errorf("oversized limit returned %d records, want 24", len(got))
	}
	if got := engine.TopExtremeRecords(models.FieldTemp, DirectionMax, -5); len(got) != 0 {
		t.Errorf("negative limit returned %d records, want 0", len(got))
	}
}

func TestParseDateKey(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{"valid key", "2022-07", time.Date(2022, time.July, 1, 0, 0, 0, 0, time.UTC), true},
		{"missing month defaults to January", "2022", time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC), true},
		{"bad month defaults to January", "2022-xx", time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC), true},
		{"out-of-range month defaults to January", "2022-13", time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC), true},
		{"bad year fails", "twenty-07", time.Time{}, false},
		{"empty fails", "", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDateKey(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseDateKey(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseDateKey(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

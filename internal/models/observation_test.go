package models

import (
	"testing"
	"time"
)

func fptr(v float64) *float64 { return &v }

func TestRawClimateRecord_ToObservation(t *testing.T) {
	tests := []struct {
		name        string
		record      RawClimateRecord
		wantErr     bool
		checkValues func(*testing.T, *Observation)
	}{
		{
			name: "valid record with all values",
			record: RawClimateRecord{
				Date:           "2022-07",
				TempTenths:     215,
				TempMinTenths:  168,
				TempMaxTenths:  294,
				RainfallTenths: 482,
				HumidityTenths: 710,
				SunshineTenths: 2250,
			},
			wantErr: false,
			checkValues: func(t *testing.T, obs *Observation) {
				if obs.Year != 2022 {
					t.Errorf("Year = %v, want %v", obs.Year, 2022)
				}
				if obs.Month != "Jul" {
					t.Errorf("Month = %v, want %v", obs.Month, "Jul")
				}
				if obs.MonthIndex != 6 {
					t.Errorf("MonthIndex = %v, want %v", obs.MonthIndex, 6)
				}
				if obs.Date != "2022-07" {
					t.Errorf("Date = %v, want %v", obs.Date, "2022-07")
				}

				if obs.Temp == nil {
					t.Error("Temp should not be nil")
				} else if *obs.Temp != 21.5 {
					t.Errorf("Temp = %v, want %v", *obs.Temp, 21.5)
				}

				if obs.Rainfall == nil {
					t.Error("Rainfall should not be nil")
				} else if *obs.Rainfall != 48.2 {
					t.Errorf("Rainfall = %v, want %v", *obs.Rainfall, 48.2)
				}

				if obs.Sunshine == nil {
					t.Error("Sunshine should not be nil")
				} else if *obs.Sunshine != 225.0 {
					t.Errorf("Sunshine = %v, want %v", *obs.Sunshine, 225.0)
				}
			},
		},
		{
			name: "missing value (-9999) for temperature",
			record: RawClimateRecord{
				Date:           "2022-01",
				TempTenths:     -9999,
				TempMinTenths:  -12,
				TempMaxTenths:  55,
				RainfallTenths: 300,
				HumidityTenths: 850,
				SunshineTenths: 500,
			},
			wantErr: false,
			checkValues: func(t *testing.T, obs *Observation) {
				if obs.Temp != nil {
					t.Error("Temp should be nil for -9999")
				}
				if obs.TempMin == nil {
					t.Error("TempMin should not be nil")
				} else if *obs.TempMin != -1.2 {
					t.Errorf("TempMin = %v, want %v", *obs.TempMin, -1.2)
				}
			},
		},
		{
			name: "all values missing",
			record: RawClimateRecord{
				Date:           "2021-12",
				TempTenths:     -9999,
				TempMinTenths:  -9999,
				TempMaxTenths:  -9999,
				RainfallTenths: -9999,
				HumidityTenths: -9999,
				SunshineTenths: -9999,
			},
			wantErr: false,
			checkValues: func(t *testing.T, obs *Observation) {
				if obs.Temp != nil || obs.TempMin != nil || obs.TempMax != nil {
					t.Error("temperature fields should all be nil")
				}
				if obs.Rainfall != nil || obs.Humidity != nil || obs.Sunshine != nil {
					t.Error("rainfall, humidity and sunshine should all be nil")
				}
			},
		},
		{
			name: "annotations are trimmed",
			record: RawClimateRecord{
				Date:           "2020-03",
				TempTenths:     100,
				TempMinTenths:  50,
				TempMaxTenths:  150,
				RainfallTenths: 200,
				HumidityTenths: 600,
				SunshineTenths: 1000,
				ClimatePattern: " La Nina ",
				ExtremeEvent:   " flood ",
			},
			wantErr: false,
			checkValues: func(t *testing.T, obs *Observation) {
				if obs.ClimatePattern != "La Nina" {
					t.Errorf("ClimatePattern = %q, want %q", obs.ClimatePattern, "La Nina")
				}
				if obs.ExtremeEvent != "flood" {
					t.Errorf("ExtremeEvent = %q, want %q", obs.ExtremeEvent, "flood")
				}
			},
		},
		{
			name:    "malformed date",
			record:  RawClimateRecord{Date: "July 2022"},
			wantErr: true,
		},
		{
			name:    "month out of range",
			record:  RawClimateRecord{Date: "2022-13"},
			wantErr: true,
		},
		{
			name:    "month zero",
			record:  RawClimateRecord{Date: "2022-00"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs, err := tt.record.ToObservation()
			if (err != nil) != tt.wantErr {
				t.Errorf("ToObservation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.checkValues != nil {
				tt.checkValues(t, obs)
			}
		})
	}
}

func TestField_Value(t *testing.T) {
	obs := &Observation{
		Year:     2021,
		Temp:     fptr(9.5),
		Rainfall: nil,
		Humidity: fptr(78),
	}

	tests := []struct {
		name      string
		field     Field
		wantValue float64
		wantOK    bool
	}{
		{"present temp", FieldTemp, 9.5, true},
		{"missing rainfall", FieldRainfall, 0, false},
		{"present humidity", FieldHumidity, 78, true},
		{"missing sunshine", FieldSunshine, 0, false},
		{"year always present", FieldYear, 2021, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := tt.field.Value(obs)
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if v != tt.wantValue {
				t.Errorf("value = %v, want %v", v, tt.wantValue)
			}
		})
	}

	if got := FieldRainfall.ValueOrZero(obs); got != 0 {
		t.Errorf("ValueOrZero for missing field = %v, want 0", got)
	}
	if got := FieldTemp.ValueOrZero(obs); got != 9.5 {
		t.Errorf("ValueOrZero for present field = %v, want 9.5", got)
	}
}

func TestParseField(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Field
		wantOK bool
	}{
		{"temp", "temp", FieldTemp, true},
		{"rainfall", "rainfall", FieldRainfall, true},
		{"year", "year", FieldYear, true},
		{"unknown", "pressure", "", false},
		{"empty", "", "", false},
		{"wrong case", "Temp", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseField(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseField(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestObservation_Time(t *testing.T) {
	obs := &Observation{Year: 2022, MonthIndex: 6}
	want := time.Date(2022, time.July, 1, 0, 0, 0, 0, time.UTC)
	if got := obs.Time(); !got.Equal(want) {
		t.Errorf("Time() = %v, want %v", got, want)
	}

	// Out-of-range month index defaults to January.
	broken := &Observation{Year: 2022, MonthIndex: 42}
	want = time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	if got := broken.Time(); !got.Equal(want) {
		t.Errorf("Time() for bad month index = %v, want %v", got, want)
	}
}

func TestSeasonConfig_Months(t *testing.T) {
	seasons := DefaultSeasons()

	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{"winter spans year boundary", "winter", []int{11, 0, 1}},
		{"summer", "summer", []int{5, 6, 7}},
		{"case insensitive", "WINTER", []int{11, 0, 1}},
		{"unknown season", "monsoon", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := seasons.Months(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Months(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Months(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMonthIndexOf(t *testing.T) {
	if got := MonthIndexOf("Jan"); got != 0 {
		t.Errorf("MonthIndexOf(Jan) = %v, want 0", got)
	}
	if got := MonthIndexOf("Dec"); got != 11 {
		t.Errorf("MonthIndexOf(Dec) = %v, want 11", got)
	}
	if got := MonthIndexOf("January"); got != -1 {
		t.Errorf("MonthIndexOf(January) = %v, want -1", got)
	}
}

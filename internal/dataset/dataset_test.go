package dataset

import (
	"fmt"
	"testing"

	"climate-analytics/internal/models"
)

func fptr(v float64) *float64 { return &v }

func monthObs(year, monthIndex int, temp, rainfall *float64) models.Observation {
	return models.Observation{
		Year:       year,
		Month:      models.MonthLabels[monthIndex],
		MonthIndex: monthIndex,
		Date:       fmt.Sprintf("%04d-%02d", year, monthIndex+1),
		Temp:       temp,
		Rainfall:   rainfall,
	}
}

func TestNew_SortsYearlySet(t *testing.T) {
	yearly := []models.Observation{
		monthObs(2022, 5, fptr(18), nil),
		monthObs(2021, 0, fptr(3), nil),
		monthObs(2022, 0, fptr(4), nil),
		monthObs(2021, 11, fptr(2), nil),
	}

	store := New(yearly, nil)

	got := store.Yearly()
	wantOrder := []string{"2021-01", "2021-12", "2022-01", "2022-06"}
	if len(got) != len(wantOrder) {
		t.Fatalf("Yearly() returned %d records, want %d", len(got), len(wantOrder))
	}
	for i, date := range wantOrder {
		if got[i].Date != date {
			t.Errorf("Yearly()[%d].Date = %v, want %v", i, got[i].Date, date)
		}
	}
}

func TestNew_DerivesClimatologyFromYearlySet(t *testing.T) {
	// Two years of January: 2.0 and 4.0 should average to 3.0.
	yearly := []models.Observation{
		monthObs(2021, 0, fptr(2.0), fptr(30)),
		monthObs(2022, 0, fptr(4.0), nil),
	}

	store := New(yearly, nil)
	clim := store.Climatology()

	if len(clim) != 12 {
		t.Fatalf("Climatology() returned %d records, want 12", len(clim))
	}

	jan := clim[0]
	if jan.Month != "Jan" || jan.MonthIndex != 0 {
		t.Errorf("first climatology record = %v/%v, want Jan/0", jan.Month, jan.MonthIndex)
	}
	if jan.Temp == nil {
		t.Fatal("January climatology Temp should not be nil")
	}
	if *jan.Temp != 3.0 {
		t.Errorf("January climatology Temp = %v, want 3.0", *jan.Temp)
	}

	// Only one of the two January records carries rainfall; the mean must
	// exclude the missing one, not count it as zero.
	if jan.Rainfall == nil {
		t.Fatal("January climatology Rainfall should not be nil")
	}
	if *jan.Rainfall != 30.0 {
		t.Errorf("January climatology Rainfall = %v, want 30.0", *jan.Rainfall)
	}

	// A month with no data at all stays NULL.
	if clim[6].Temp != nil {
		t.Errorf("July climatology Temp = %v, want nil", *clim[6].Temp)
	}
}

func TestNew_UsesExplicitClimatology(t *testing.T) {
	yearly := []models.Observation{
		monthObs(2022, 0, fptr(100), nil),
	}

	explicit := make([]models.Observation, 12)
	for i := 11; i >= 0; i-- {
		explicit[11-i] = monthObs(0, i, fptr(float64(i)), nil)
	}

	store := New(yearly, explicit)
	clim := store.Climatology()

	if len(clim) != 12 {
		t.Fatalf("Climatology() returned %d records, want 12", len(clim))
	}
	// Explicit set is kept (not derived) and sorted by month index.
	for i := range clim {
		if clim[i].MonthIndex != i {
			t.Errorf("Climatology()[%d].MonthIndex = %v, want %v", i, clim[i].MonthIndex, i)
		}
		if clim[i].Temp == nil || *clim[i].Temp != float64(i) {
			t.Errorf("Climatology()[%d].Temp = %v, want %v", i, clim[i].Temp, float64(i))
		}
	}
}

func TestNew_RejectsPartialClimatology(t *testing.T) {
	yearly := []models.Observation{
		monthObs(2022, 0, fptr(5), nil),
	}
	partial := []models.Observation{
		monthObs(0, 0, fptr(99), nil),
	}

	store := New(yearly, partial)
	clim := store.Climatology()

	if len(clim) != 12 {
		t.Fatalf("Climatology() returned %d records, want 12", len(clim))
	}
	// Derived from the yearly set, not the 1-record explicit input.
	if clim[0].Temp == nil || *clim[0].Temp != 5.0 {
		t.Errorf("January climatology Temp = %v, want 5.0", clim[0].Temp)
	}
}

func TestStore_AccessorsReturnCopies(t *testing.T) {
	yearly := []models.Observation{
		monthObs(2022, 0, fptr(5), nil),
	}
	store := New(yearly, nil)

	got := store.Yearly()
	got[0].Year = 1900

	if store.Yearly()[0].Year != 2022 {
		t.Error("mutating a Yearly() result must not affect the store")
	}

	clim := store.Climatology()
	clim[0].Month = "XXX"

	if store.Climatology()[0].Month != "Jan" {
		t.Error("mutating a Climatology() result must not affect the store")
	}
}

func TestStore_Size(t *testing.T) {
	store := New([]models.Observation{
		monthObs(2022, 0, nil, nil),
		monthObs(2022, 1, nil, nil),
	}, nil)

	if got := store.Size(); got != 2 {
		t.Errorf("Size() = %v, want 2", got)
	}
}

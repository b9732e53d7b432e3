package repository

import (
	"errors"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{
		Resource: "climate_observation",
		ID:       "2022-07",
	}

	want := "climate_observation not found: 2022-07"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if err.IsTransient() {
		t.Error("IsTransient() = true, want false; a missing row does not resolve on retry")
	}

	// Callers distinguish absence from infrastructure failures via errors.As.
	var notFound *NotFoundError
	if !errors.As(error(err), &notFound) {
		t.Error("errors.As failed to match *NotFoundError")
	}
}

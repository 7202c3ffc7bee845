package domain_test

import (
	"testing"
	"time"

	"staybook/internal/domain"
)

func d(day int) time.Time {
	return time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                 string
		aIn, aOut, bIn, bOut int
		want                 bool
	}{
		{"identical", 10, 14, 10, 14, true},
		{"contained", 10, 14, 11, 13, true},
		{"engulfing", 11, 13, 10, 14, true},
		{"left edge", 8, 11, 10, 14, true},
		{"right edge", 13, 16, 10, 14, true},
		{"back-to-back after", 14, 16, 10, 14, false},
		{"back-to-back before", 8, 10, 10, 14, false},
		{"disjoint", 20, 22, 10, 14, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.Overlaps(d(tc.aIn), d(tc.aOut), d(tc.bIn), d(tc.bOut))
			if got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
			// symmetric
			if rev := domain.Overlaps(d(tc.bIn), d(tc.bOut), d(tc.aIn), d(tc.aOut)); rev != got {
				t.Fatalf("Overlaps not symmetric")
			}
		})
	}
}

func TestNightsAndDateOnly(t *testing.T) {
	if n := domain.Nights(d(10), d(14)); n != 4 {
		t.Fatalf("Nights = %d, want 4", n)
	}
	if n := domain.Nights(d(10), d(11)); n != 1 {
		t.Fatalf("Nights = %d, want 1", n)
	}

	noisy := time.Date(2026, 3, 10, 17, 45, 12, 999, time.FixedZone("X", 3*3600))
	got := domain.DateOnly(noisy)
	if !got.Equal(d(10)) {
		t.Fatalf("DateOnly = %v, want %v", got, d(10))
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to domain.Status
		want     bool
	}{
		{domain.StatusPending, domain.StatusConfirmed, true},
		{domain.StatusPending, domain.StatusCancelled, true},
		{domain.StatusConfirmed, domain.StatusCancelled, true},
		{domain.StatusConfirmed, domain.StatusPending, false},
		{domain.StatusCancelled, domain.StatusConfirmed, false},
		{domain.StatusCancelled, domain.StatusPending, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Fatalf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
	if !domain.StatusPending.Valid() || domain.Status("weird").Valid() {
		t.Fatalf("Valid misbehaves")
	}
}

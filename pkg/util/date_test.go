package util

import (
	"testing"
	"time"
)

func TestIsWeekend(t *testing.T) {
	sat := time.Date(2024, 10, 12, 0, 0, 0, 0, time.UTC)
	sun := time.Date(2024, 10, 13, 0, 0, 0, 0, time.UTC)
	mon := time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)
	if !IsWeekend(sat) || !IsWeekend(sun) {
		t.Fatalf("saturday/sunday should be weekend")
	}
	if IsWeekend(mon) {
		t.Fatalf("monday should not be weekend")
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 10, 14, 9, 30, 0, 0, time.UTC)
	b := time.Date(2024, 10, 14, 16, 0, 0, 0, time.UTC)
	c := time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC)
	if !SameDay(a, b) {
		t.Fatalf("expected same day")
	}
	if SameDay(a, c) {
		t.Fatalf("expected different day")
	}
}

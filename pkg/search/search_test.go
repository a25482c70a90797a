package search

import (
	"testing"
	"time"
)

type cell struct {
	left float64
	date time.Time
}

func cells(lefts ...float64) []cell {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]cell, len(lefts))
	for i, l := range lefts {
		out[i] = cell{left: l, date: base.AddDate(0, 0, i)}
	}
	return out
}

func left(c cell) float64    { return c.left }
func start(c cell) time.Time { return c.date }

func TestBracket(t *testing.T) {
	items := cells(0, 2, 4, 6, 8)

	tests := []struct {
		name   string
		value  float64
		lo, hi int
	}{
		{"exact first", 0, 0, 0},
		{"exact middle", 4, 2, 2},
		{"between", 5, 2, 3},
		{"before all", -1, -1, 0},
		{"after all", 9, 4, 5},
		{"exact last", 8, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := Bracket(items, tt.value, left, Floats)
			if lo != tt.lo || hi != tt.hi {
				t.Errorf("Bracket(%v) = (%d, %d), want (%d, %d)", tt.value, lo, hi, tt.lo, tt.hi)
			}
		})
	}
}

func TestBracketEmpty(t *testing.T) {
	lo, hi := Bracket([]cell(nil), 3, left, Floats)
	if lo != -1 || hi != 0 {
		t.Errorf("Bracket(empty) = (%d, %d), want (-1, 0)", lo, hi)
	}
	if _, ok := FloorOrNext([]cell(nil), 3, left, Floats); ok {
		t.Error("FloorOrNext(empty) ok = true, want false")
	}
}

func TestFloorByTime(t *testing.T) {
	items := cells(0, 2, 4)
	noon := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

	got, ok := Floor(items, noon, start, Times)
	if !ok || got.left != 2 {
		t.Errorf("Floor(%v) = %v, %v; want left 2", noon, got, ok)
	}

	before := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	if _, ok := Floor(items, before, start, Times); ok {
		t.Error("Floor(before first) ok = true, want false")
	}
	got, ok = FloorOrNext(items, before, start, Times)
	if !ok || got.left != 0 {
		t.Errorf("FloorOrNext(before first) = %v, %v; want first element", got, ok)
	}
}

package main

import (
	"math"
	"testing"
)

func TestBinomialPMF(t *testing.T) {
	tests := []struct {
		n    int
		want []float64
	}{
		{0, []float64{1}},
		{1, []float64{0.5, 0.5}},
		{2, []float64{0.25, 0.5, 0.25}},
		{4, []float64{1.0 / 16, 4.0 / 16, 6.0 / 16, 4.0 / 16, 1.0 / 16}},
	}
	for _, tt := range tests {
		got := binomialPMF(tt.n)
		if len(got) != len(tt.want) {
			t.Fatalf("binomialPMF(%d) has %d entries, want %d", tt.n, len(got), len(tt.want))
		}
		for i := range got {
			if math.Abs(got[i]-tt.want[i]) > 1e-12 {
				t.Errorf("binomialPMF(%d)[%d] = %v, want %v", tt.n, i, got[i], tt.want[i])
			}
		}
	}
}

func TestBinomialPMFSumsToOne(t *testing.T) {
	for _, n := range []int{1, 5, 12, 30} {
		sum := 0.0
		for _, p := range binomialPMF(n) {
			sum += p
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("sum of binomialPMF(%d) = %v, want 1", n, sum)
		}
	}
}

func TestChiSquare(t *testing.T) {
	if got := chiSquare([]int{25, 50, 25}, []float64{25, 50, 25}); got != 0 {
		t.Errorf("perfect fit chi-square = %v, want 0", got)
	}
	// (30-25)²/25 + (40-50)²/50 + (30-25)²/25 = 1 + 2 + 1
	if got := chiSquare([]int{30, 40, 30}, []float64{25, 50, 25}); math.Abs(got-4) > 1e-12 {
		t.Errorf("chi-square = %v, want 4", got)
	}
	if got := chiSquare([]int{3, 1}, []float64{0, 4}); math.Abs(got-2.25) > 1e-12 {
		t.Errorf("chi-square with a zero expectation = %v, want 2.25", got)
	}
}

func TestTotalVariation(t *testing.T) {
	pmf := []float64{0.25, 0.5, 0.25}
	tests := []struct {
		name     string
		observed []int
		want     float64
	}{
		{"exact", []int{1, 2, 1}, 0},
		{"all left", []int{4, 0, 0}, 0.75},
		{"empty", []int{0, 0, 0}, 1},
	}
	for _, tt := range tests {
		if got := totalVariation(tt.observed, pmf); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%s: totalVariation = %v, want %v", tt.name, got, tt.want)
		}
	}
}

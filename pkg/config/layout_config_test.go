package config

import (
	"math"
	"testing"
)

func TestPegPosition(t *testing.T) {
	tests := []struct {
		row, col int
		wantX    float64
		wantY    float64
	}{
		{0, 0, 0, 0},
		{1, 0, -1.2, -2},
		{1, 1, 1.2, -2},
		{2, 0, -2.4, -4},
		{2, 1, 0, -4},
		{2, 2, 2.4, -4},
	}

	for _, tt := range tests {
		x, y := PegPosition(tt.row, tt.col, PegSpacingX, PegSpacingY)
		if math.Abs(x-tt.wantX) > 1e-9 || math.Abs(y-tt.wantY) > 1e-9 {
			t.Errorf("PegPosition(%d, %d) = (%.3f, %.3f), want (%.3f, %.3f)",
				tt.row, tt.col, x, y, tt.wantX, tt.wantY)
		}
	}
}

func TestBucketCenterMatchesNextRow(t *testing.T) {
	rows := 6
	for i := 0; i <= rows; i++ {
		bx, by := BucketCenter(i, rows, PegSpacingX, PegSpacingY)
		px, _ := PegPosition(rows, i, PegSpacingX, PegSpacingY)
		if bx != px {
			t.Errorf("bucket %d x = %.3f, want %.3f", i, bx, px)
		}
		if want := -float64(rows)*PegSpacingY - BucketDropBelowLastRow; by != want {
			t.Errorf("bucket %d y = %.3f, want %.3f", i, by, want)
		}
	}
}

func TestFloorThreshold(t *testing.T) {
	if got := FloorThreshold(12, PegSpacingY); got != -48 {
		t.Errorf("FloorThreshold(12) = %.1f, want -48", got)
	}
}

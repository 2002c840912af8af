package components

import (
	"math"
	"testing"

	"github.com/decker502/galton/pkg/physics"
)

func TestRecordCollisionPromotesExactlyOnce(t *testing.T) {
	start := physics.V3(1, -20, 0)
	ball := NewBallComponent(0, 0.2, start, 0, 1)

	promotions := 0
	for i := 1; i <= 500; i++ {
		// 每次都在参照点附近抖动
		pos := start.Add(physics.V3(0.01*float64(i%7), 0.02, 0))
		if ball.RecordCollision(pos, 0.5, 500) {
			promotions++
			if i != 500 {
				t.Fatalf("promoted after %d collisions, want 500", i)
			}
		}
	}

	if promotions != 1 || !ball.IsStatic {
		t.Fatalf("promotions = %d, IsStatic = %v; want exactly one promotion", promotions, ball.IsStatic)
	}

	// 静态后不再计数
	if ball.RecordCollision(start, 0.5, 500) {
		t.Error("static ball promoted again")
	}
	if ball.Streak != 500 {
		t.Errorf("streak changed after promotion: %d", ball.Streak)
	}
}

func TestRecordCollisionResetsOnLargeMove(t *testing.T) {
	start := physics.V3(0, 0, 0)
	ball := NewBallComponent(0, 0.2, start, 0, 1)

	for i := 0; i < 499; i++ {
		ball.RecordCollision(start, 0.5, 500)
	}
	if ball.Streak != 499 {
		t.Fatalf("streak = %d, want 499", ball.Streak)
	}

	moved := physics.V3(0.5, 0, 0)
	if ball.RecordCollision(moved, 0.5, 500) {
		t.Fatal("a move of exactly the threshold must not promote")
	}
	if ball.Streak != 0 {
		t.Errorf("streak = %d after large move, want 0", ball.Streak)
	}
	if ball.StreakAnchor != moved {
		t.Errorf("anchor = %+v, want %+v", ball.StreakAnchor, moved)
	}

	// 新参照点生效：在新位置附近需要重新累计
	for i := 0; i < 499; i++ {
		if ball.RecordCollision(moved, 0.5, 500) {
			t.Fatalf("promoted too early at %d", i)
		}
	}
	if !ball.RecordCollision(moved, 0.5, 500) {
		t.Error("expected promotion on the 500th small collision after reset")
	}
}

func TestPositionHistoryWindow(t *testing.T) {
	h := NewPositionHistory(1.0)

	// 很久以前的远处样本 + 最近的两个近处样本
	h.Record(physics.V3(100, 100, 0), 0.0)
	h.Record(physics.V3(0, 0, 0), 1.9)
	h.Record(physics.V3(0.01, 0, 0), 2.0)

	if h.Len() != 2 {
		t.Fatalf("history kept %d samples, want 2", h.Len())
	}
	if d := h.Displacement(); d > 0.02 {
		t.Errorf("Displacement() = %.4f, want near zero", d)
	}
	for i := 1; i < h.Len(); i++ {
		if h.Samples[i].Time < h.Samples[i-1].Time {
			t.Fatal("samples are not chronological")
		}
	}
}

func TestPositionHistoryDisplacementAndSpeed(t *testing.T) {
	h := NewPositionHistory(1.0)
	if h.Displacement() != 0 || h.AverageSpeed() != 0 {
		t.Fatal("empty history should report zero")
	}

	h.Record(physics.V3(0, 0, 0), 0)
	if h.Displacement() != 0 {
		t.Error("single sample should report zero displacement")
	}

	// 0.5 秒内走了一个 3-4-5 直角的两条边
	h.Record(physics.V3(3, 0, 0), 0.25)
	h.Record(physics.V3(3, 4, 0), 0.5)

	if d := h.Displacement(); math.Abs(d-5) > 1e-9 {
		t.Errorf("Displacement() = %.4f, want 5", d)
	}
	if s := h.AverageSpeed(); math.Abs(s-14) > 1e-9 {
		t.Errorf("AverageSpeed() = %.4f, want 14", s)
	}
}

func TestSleepColor(t *testing.T) {
	tests := []struct {
		state physics.SleepState
		want  uint32
	}{
		{physics.Awake, BallColorAwake},
		{physics.Sleepy, BallColorSleepy},
		{physics.Sleeping, BallColorSleeping},
	}
	for _, tt := range tests {
		if got := SleepColor(tt.state); got != tt.want {
			t.Errorf("SleepColor(%v) = %06x, want %06x", tt.state, got, tt.want)
		}
	}
}

package game

import (
	"testing"

	"github.com/decker502/galton/pkg/physics"
)

func TestTickSubstepsAndClock(t *testing.T) {
	tests := []struct {
		name           string
		animationSpeed float64
		delta          float64
		wantSubsteps   int
	}{
		{"normal speed frame", 1, frame, 1},
		{"default speed is capped", 20, frame, 3},
		{"negative delta treated as zero", 1, -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig(2, false)
			cfg.AnimationSpeed = tt.animationSpeed
			b, err := NewBoard(cfg)
			if err != nil {
				t.Fatalf("NewBoard failed: %v", err)
			}

			res := b.Tick(tt.delta)
			if res.Substeps != tt.wantSubsteps {
				t.Errorf("substeps = %d, want %d", res.Substeps, tt.wantSubsteps)
			}
			wantClock := tt.delta
			if wantClock < 0 {
				wantClock = 0
			}
			if b.Clock() != wantClock {
				t.Errorf("clock = %v, want %v", b.Clock(), wantClock)
			}
		})
	}
}

func TestTickSweepsBallsBelowFloor(t *testing.T) {
	b, err := NewBoard(newTestConfig(2, false))
	if err != nil {
		t.Fatalf("NewBoard failed: %v", err)
	}
	if _, err := b.AddBall(); err != nil {
		t.Fatal(err)
	}
	// 把球移到棋盘高度两倍以下，避开所有桶
	for _, body := range b.world.Bodies() {
		if body.IsDynamic() {
			body.Position = physics.V3(50, -2*b.Height()-1, 0)
		}
	}

	res := b.Tick(frame)
	if res.Sweep.BelowFloor != 1 || b.LiveBallCount() != 0 {
		t.Errorf("sweep = %+v live = %d, want the ball removed", res.Sweep, b.LiveBallCount())
	}
	if b.Stats().FloorRemovals != 1 {
		t.Errorf("FloorRemovals = %d, want 1", b.Stats().FloorRemovals)
	}
}

func TestStatsReset(t *testing.T) {
	s := NewStats()
	s.SmartWakeUp()
	s.ForcedSleep()
	s.ForcedSleep()
	s.RemovedStatic()

	snap := s.Snapshot()
	if snap.SmartWakeUps != 1 || snap.ForcedSleeps != 2 || snap.StaticRemovals != 1 {
		t.Errorf("snapshot = %+v", snap)
	}

	s.Reset()
	if *s != (Stats{}) {
		t.Errorf("after Reset: %+v", *s)
	}
	if snap.ForcedSleeps != 2 {
		t.Error("snapshot should not change after Reset")
	}
}

package systems

import (
	"testing"

	"github.com/decker502/galton/pkg/components"
	"github.com/decker502/galton/pkg/config"
	"github.com/decker502/galton/pkg/ecs"
	"github.com/decker502/galton/pkg/physics"
)

func TestSweepRemovesBallsBelowFloor(t *testing.T) {
	tb := newTestBoard(t, 4)
	floor := config.FloorThreshold(4, config.PegSpacingY)

	lowID, _, _ := tb.addBall(t, physics.V3(0, floor-0.01, 0), 0)
	edgeID, _, _ := tb.addBall(t, physics.V3(0, floor, 0), 0)
	highID, _, _ := tb.addBall(t, physics.V3(0, 0, 0), 0)

	res := tb.life.Sweep()
	tb.em.RemoveMarkedEntities()

	if res.BelowFloor != 1 || res.Static != 0 || res.Total() != 1 {
		t.Errorf("sweep = %+v, want one below-floor removal", res)
	}
	if tb.em.IsAlive(lowID) {
		t.Error("ball below the floor should be removed")
	}
	if !tb.em.IsAlive(edgeID) || !tb.em.IsAlive(highID) {
		t.Error("balls at or above the floor should survive")
	}
	if tb.registry.Len() != 2 || tb.metrics.belowFloor != 1 {
		t.Errorf("registry=%d metrics=%d", tb.registry.Len(), tb.metrics.belowFloor)
	}
}

func TestUpdateRecordsHistoryAndColor(t *testing.T) {
	tb := newTestBoard(t, 2)
	_, ball, body := tb.addBall(t, physics.V3(0, 0, 0), 0)

	for i := 0; i <= 20; i++ {
		now := float64(i) * 0.1
		body.Position = physics.V3(0, -now, 0)
		tb.life.Update(now)
	}

	// 只保留 (1.0, 2.0] 内的样本
	if ball.History.Len() != 10 {
		t.Errorf("history holds %d samples, want 10", ball.History.Len())
	}
	if ball.History.Samples[0].Time <= 1.0 {
		t.Errorf("oldest sample at %.2f should be inside the 1s window", ball.History.Samples[0].Time)
	}

	body.Sleep()
	tb.life.Update(2.1)
	if ball.Color != components.BallColorSleeping || ball.LastSleepState != physics.Sleeping {
		t.Errorf("color = %#x state = %v, want sleeping", ball.Color, ball.LastSleepState)
	}
}

func TestForcedSleepInBucket(t *testing.T) {
	tests := []struct {
		name      string
		inBucket  bool
		move      float64
		wantSleep bool
	}{
		{"settled in bucket", true, 0.01, true},
		{"still rolling in bucket", true, 0.2, false},
		{"settled outside bucket", false, 0.01, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := newTestBoard(t, 2)
			_, ball, body := tb.addBall(t, physics.V3(0, 0, 0), 0)
			if tt.inBucket {
				ball.InBucket = ecs.EntityID(42)
			}

			tb.life.Update(0.1)
			body.Position = physics.V3(tt.move, 0, 0)
			tb.life.Update(0.2)

			if got := body.SleepState == physics.Sleeping; got != tt.wantSleep {
				t.Errorf("sleeping = %v, want %v", got, tt.wantSleep)
			}
		})
	}
}

func TestDeferredSleepCheck(t *testing.T) {
	tb := newTestBoard(t, 2)
	id, _, body := tb.addBall(t, physics.V3(0, 0, 0), 0)
	body.SetVelocity(physics.V3(0.2, 0, 0))
	ecs.AddComponent(tb.em, id, &components.SleepCheckComponent{Remaining: 0.005, SpeedLimit: 0.5})

	tb.life.RunDeferredChecks(0.003)
	if body.SleepState == physics.Sleeping {
		t.Fatal("check ran before it was due")
	}
	tb.life.RunDeferredChecks(0.003)
	if body.SleepState != physics.Sleeping {
		t.Error("slow ball should sleep once the check is due")
	}
	if ecs.HasComponent[*components.SleepCheckComponent](tb.em, id) {
		t.Error("check should be removed after running")
	}
	if tb.metrics.forcedSleeps != 1 {
		t.Errorf("forced sleeps = %d, want 1", tb.metrics.forcedSleeps)
	}
}

func TestDeferredSleepCheckSkipsFastAndDestroyedBalls(t *testing.T) {
	tb := newTestBoard(t, 2)
	fastID, _, fast := tb.addBall(t, physics.V3(0, 0, 0), 0)
	fast.SetVelocity(physics.V3(3, 0, 0))
	goneID, _, _ := tb.addBall(t, physics.V3(2, 0, 0), 0)

	for _, id := range []ecs.EntityID{fastID, goneID} {
		ecs.AddComponent(tb.em, id, &components.SleepCheckComponent{Remaining: 0.005, SpeedLimit: 0.5})
	}
	tb.life.RemoveAll()
	tb.em.RemoveMarkedEntities()

	tb.life.RunDeferredChecks(0.01)
	if tb.metrics.forcedSleeps != 0 {
		t.Errorf("destroyed balls should not be checked, got %d forced sleeps", tb.metrics.forcedSleeps)
	}
	if fast.SleepState == physics.Sleeping {
		t.Error("destroyed ball body should not be touched")
	}
}

func TestSweepWakesRestingNeighbours(t *testing.T) {
	tb := newTestBoard(t, 2)
	_, static, staticBody := tb.addBall(t, physics.V3(0, 0, 0), 0)
	_, _, neighbour := tb.addBall(t, physics.V3(0, 0.4, 0), 0)
	_, _, far := tb.addBall(t, physics.V3(3, 0, 0), 0)
	neighbour.Sleep()
	far.Sleep()

	static.IsStatic = true
	staticBody.MakeStatic()
	tb.life.Sweep()

	if neighbour.SleepState != physics.Awake {
		t.Error("ball resting on a removed ball should wake up")
	}
	if far.SleepState != physics.Sleeping {
		t.Error("distant ball should keep sleeping")
	}
}

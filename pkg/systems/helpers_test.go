package systems

import (
	"testing"

	"github.com/decker502/galton/pkg/components"
	"github.com/decker502/galton/pkg/config"
	"github.com/decker502/galton/pkg/ecs"
	"github.com/decker502/galton/pkg/entities"
	"github.com/decker502/galton/pkg/physics"
)

// seqRand 按顺序循环返回固定值的随机源
type seqRand struct {
	values []float64
	next   int
}

func (r *seqRand) Float64() float64 {
	v := r.values[r.next%len(r.values)]
	r.next++
	return v
}

// countingMetrics 记录每类上报的次数
type countingMetrics struct {
	smartWakeUps, preventedWakeUps, forcedSleeps int
	staticPromotions, belowFloor, static        int
}

func (m *countingMetrics) SmartWakeUp()       { m.smartWakeUps++ }
func (m *countingMetrics) PreventedWakeUp()   { m.preventedWakeUps++ }
func (m *countingMetrics) ForcedSleep()       { m.forcedSleeps++ }
func (m *countingMetrics) StaticPromotion()   { m.staticPromotions++ }
func (m *countingMetrics) RemovedBelowFloor() { m.belowFloor++ }
func (m *countingMetrics) RemovedStatic()     { m.static++ }

type testBoard struct {
	em       *ecs.EntityManager
	world    *physics.World
	registry *entities.BodyRegistry
	cfg      *config.BoardConfig
	rng      *seqRand
	metrics  *countingMetrics
	buckets  *BucketSystem
	dispatch *CollisionDispatchSystem
	life     *BallLifecycleSystem
	serial   int
}

func newTestBoard(t *testing.T, rows int) *testBoard {
	t.Helper()
	cfg := config.DefaultBoardConfig()
	cfg.PegRows = rows

	tb := &testBoard{
		em:       ecs.NewEntityManager(),
		world:    physics.NewWorld(physics.V3(0, -cfg.Gravity, 0)),
		registry: entities.NewBodyRegistry(),
		cfg:      cfg,
		rng:      &seqRand{values: []float64{0.3, 0.7}},
		metrics:  &countingMetrics{},
	}
	tb.world.AllowSleep = true
	tb.buckets = NewBucketSystem(tb.em, tb.rng)
	tb.dispatch = NewCollisionDispatchSystem(tb.em, tb.registry, cfg, tb.rng, tb.buckets, tb.metrics)
	tb.life = NewBallLifecycleSystem(tb.em, tb.world, tb.registry, cfg, tb.metrics)
	return tb
}

func (tb *testBoard) addBall(t *testing.T, pos physics.Vec3, now float64) (ecs.EntityID, *components.BallComponent, *physics.Body) {
	t.Helper()
	id, err := entities.NewBallEntity(tb.em, tb.world, tb.registry, entities.BallSpec{
		Serial:   tb.serial,
		Radius:   tb.cfg.BallRadius,
		Position: pos,
		Now:      now,
		Tuning:   tb.cfg.Physics,
	})
	if err != nil {
		t.Fatalf("NewBallEntity failed: %v", err)
	}
	tb.serial++
	ball, body, ok := ballParts(tb.em, id)
	if !ok {
		t.Fatal("ball parts missing")
	}
	return id, ball, body
}

func (tb *testBoard) addPeg(t *testing.T, row, col int) (ecs.EntityID, *components.PegComponent, *physics.Body) {
	t.Helper()
	x, y := config.PegPosition(row, col, config.PegSpacingX, config.PegSpacingY)
	id, err := entities.NewPegEntity(tb.em, tb.world, tb.registry, row, col, x, y, config.PegRadius)
	if err != nil {
		t.Fatalf("NewPegEntity failed: %v", err)
	}
	peg, _ := ecs.GetComponent[*components.PegComponent](tb.em, id)
	body, _ := ecs.GetComponent[*components.PhysicsBodyComponent](tb.em, id)
	return id, peg, body.Body
}

func (tb *testBoard) addBuckets(t *testing.T) []*components.BucketComponent {
	t.Helper()
	if _, err := entities.CreateBuckets(tb.em, tb.world, tb.registry, tb.cfg.PegRows, config.PegSpacingX, config.PegSpacingY); err != nil {
		t.Fatalf("CreateBuckets failed: %v", err)
	}
	return tb.buckets.Buckets()
}

func contactEvent(a, b physics.BodyID, begin, trigger bool) physics.CollisionEvent {
	if a > b {
		a, b = b, a
	}
	return physics.CollisionEvent{A: a, B: b, Begin: begin, Trigger: trigger}
}

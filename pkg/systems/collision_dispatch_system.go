package systems

import (
	"github.com/decker502/galton/pkg/components"
	"github.com/decker502/galton/pkg/config"
	"github.com/decker502/galton/pkg/ecs"
	"github.com/decker502/galton/pkg/entities"
	"github.com/decker502/galton/pkg/physics"
)

// DispatchResult 一次分发的汇总
type DispatchResult struct {
	// PegHits 本次处理的球-钉碰撞数
	PegHits int
	// SpawnRequests 第二行钉子被击中且开启自动投放时请求的新球数
	SpawnRequests int
	// Entries 首次入桶记录（按事件顺序）
	Entries []BucketEntry
	// Promoted 本次冻结为静态的球
	Promoted []ecs.EntityID
}

// CollisionDispatchSystem 碰撞事件分发
//
// 每帧消费一次物理世界的碰撞事件流，通过刚体映射找回实体后按组合路由：
//   - 球-钉：仅在接触开始时弹跳、计数、更新静止连击
//   - 球-球：接触期间每个子步更新双方的静止连击（并执行唤醒策略）
//   - 球-桶口：入桶计数
//
// 未登记的刚体（桶壁）和已冻结的球直接忽略。
type CollisionDispatchSystem struct {
	em       *ecs.EntityManager
	registry *entities.BodyRegistry
	cfg      *config.BoardConfig
	rng      BounceRand
	buckets  *BucketSystem
	wake     *WakePolicy
	metrics  Metrics
}

// NewCollisionDispatchSystem 创建碰撞分发系统
//
// 参数:
//   - em: 实体管理器
//   - registry: 刚体ID到实体ID的映射
//   - cfg: 棋盘配置（运行时读取 AutoSpawn、Gravity、SleepPolicy、Physics）
//   - rng: 弹跳随机源
//   - buckets: 计数桶系统
//   - metrics: 统计接收器，可为 nil
func NewCollisionDispatchSystem(em *ecs.EntityManager, registry *entities.BodyRegistry, cfg *config.BoardConfig,
	rng BounceRand, buckets *BucketSystem, metrics Metrics) *CollisionDispatchSystem {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &CollisionDispatchSystem{
		em:       em,
		registry: registry,
		cfg:      cfg,
		rng:      rng,
		buckets:  buckets,
		wake:     NewWakePolicy(em, metrics),
		metrics:  metrics,
	}
}

type entityKind int

const (
	kindUnknown entityKind = iota
	kindBall
	kindPeg
	kindBucket
)

func (s *CollisionDispatchSystem) classify(body physics.BodyID) (ecs.EntityID, entityKind) {
	id, ok := s.registry.Lookup(body)
	if !ok {
		return 0, kindUnknown
	}
	switch {
	case ecs.HasComponent[*components.BallComponent](s.em, id):
		return id, kindBall
	case ecs.HasComponent[*components.PegComponent](s.em, id):
		return id, kindPeg
	case ecs.HasComponent[*components.BucketComponent](s.em, id):
		return id, kindBucket
	}
	return id, kindUnknown
}

// Dispatch 处理一帧内记录的全部碰撞事件
//
// 参数:
//   - events: physics.World.DrainEvents 的结果
//   - now: 模拟循环时钟（秒）
func (s *CollisionDispatchSystem) Dispatch(events []physics.CollisionEvent, now float64) DispatchResult {
	var result DispatchResult

	for _, ev := range events {
		idA, kindA := s.classify(ev.A)
		idB, kindB := s.classify(ev.B)
		if kindA == kindUnknown || kindB == kindUnknown {
			continue
		}

		// 统一成球在前
		if kindA != kindBall {
			idA, idB = idB, idA
			kindA, kindB = kindB, kindA
		}
		if kindA != kindBall {
			continue
		}

		switch kindB {
		case kindPeg:
			if ev.Begin {
				s.handlePeg(idA, idB, &result)
			}
		case kindBall:
			s.handleBalls(idA, idB, now, &result)
		case kindBucket:
			if entry, ok := s.handleBucket(idA, idB); ok {
				result.Entries = append(result.Entries, entry)
			}
		}
	}

	return result
}

// handlePeg 球撞到钉子：计数、覆盖速度、更新连击、必要时请求新球
func (s *CollisionDispatchSystem) handlePeg(ballID, pegID ecs.EntityID, result *DispatchResult) {
	ball, body, ok := ballParts(s.em, ballID)
	if !ok || ball.IsStatic {
		return
	}
	peg, ok := ecs.GetComponent[*components.PegComponent](s.em, pegID)
	if !ok {
		return
	}

	peg.Hits++
	result.PegHits++
	TriggerFlash(s.em, pegID, PegFlashDuration)

	body.SetVelocity(RandomBounce(s.rng, s.cfg.Gravity, config.PegSpacingX, config.PegSpacingY))

	s.recordStreak(ballID, ball, body, result)

	if peg.Row == 1 && s.cfg.AutoSpawn {
		result.SpawnRequests++
	}
}

// handleBalls 球-球接触：双方更新连击，位移判定策略下复核唤醒
func (s *CollisionDispatchSystem) handleBalls(a, b ecs.EntityID, now float64, result *DispatchResult) {
	for _, pair := range [2][2]ecs.EntityID{{a, b}, {b, a}} {
		self, other := pair[0], pair[1]
		ball, body, ok := ballParts(s.em, self)
		if !ok || ball.IsStatic {
			continue
		}
		s.recordStreak(self, ball, body, result)
		if s.cfg.SleepPolicy == config.SleepPolicyDisplacement && !ball.IsStatic {
			s.wake.OnBallContact(self, other, now)
		}
	}
}

// handleBucket 球进入桶口
func (s *CollisionDispatchSystem) handleBucket(ballID, bucketID ecs.EntityID) (BucketEntry, bool) {
	ball, ok := ecs.GetComponent[*components.BallComponent](s.em, ballID)
	if !ok || ball.IsStatic {
		return BucketEntry{}, false
	}
	return s.buckets.Enter(ballID, bucketID)
}

func (s *CollisionDispatchSystem) recordStreak(id ecs.EntityID, ball *components.BallComponent, body *physics.Body, result *DispatchResult) {
	tuning := s.cfg.Physics
	if ball.RecordCollision(body.Position, tuning.SmallMovement, tuning.StaticStreakLimit) {
		body.MakeStatic()
		s.metrics.StaticPromotion()
		result.Promoted = append(result.Promoted, id)
	}
}

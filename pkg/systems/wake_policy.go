package systems

import (
	"github.com/decker502/galton/pkg/components"
	"github.com/decker502/galton/pkg/ecs"
	"github.com/decker502/galton/pkg/physics"
)

// 位移判定唤醒策略的阈值
const (
	// 对方近一秒位移或平均速度超过阈值才算"真在移动"
	trulyMovingDisplacement = 0.5
	trulyMovingSpeed        = 1.0

	// 投放不足 2 秒的球总是允许被唤醒
	youngBallAge = 2.0

	// 存在超过 3 秒且近一秒位移小于 0.1 的球视为原地抖动
	jitterAge          = 3.0
	jitterDisplacement = 0.1

	// 抖动球速度低于 1.0 时立即休眠，否则 5ms 后复查，届时速度低于 0.5 才休眠
	immediateSleepSpeed = 1.0
	deferredSleepSpeed  = 0.5
	deferredCheckDelay  = 0.005
)

// WakePolicy 球-球碰撞时的位移判定唤醒策略
//
// 物理引擎总是唤醒被撞到的休眠球；该策略在分发阶段复核：
// 对方没有真正移动、且双方都不是新球时，把被唤醒的球重新放回休眠。
type WakePolicy struct {
	em      *ecs.EntityManager
	metrics Metrics
}

// NewWakePolicy 创建位移判定唤醒策略
func NewWakePolicy(em *ecs.EntityManager, metrics Metrics) *WakePolicy {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &WakePolicy{em: em, metrics: metrics}
}

// OnBallContact 处理 self 与 other 的一次接触（只处理 self 一侧）
func (p *WakePolicy) OnBallContact(self, other ecs.EntityID, now float64) {
	selfBall, selfBody, ok := ballParts(p.em, self)
	if !ok || selfBall.IsStatic {
		return
	}
	otherBall, _, ok := ballParts(p.em, other)
	if !ok {
		return
	}

	trulyMoving := otherBall.History.Displacement() > trulyMovingDisplacement ||
		otherBall.History.AverageSpeed() > trulyMovingSpeed
	young := selfBall.Age(now) < youngBallAge || otherBall.Age(now) < youngBallAge
	allowed := trulyMoving || young

	woken := selfBall.LastSleepState == physics.Sleeping && selfBody.SleepState != physics.Sleeping
	if woken {
		if allowed {
			p.metrics.SmartWakeUp()
			selfBall.LastWakeTime = now
			selfBall.LastSleepState = selfBody.SleepState
			return
		}
		p.metrics.PreventedWakeUp()
		selfBody.Sleep()
		return
	}

	if allowed || selfBody.SleepState == physics.Sleeping {
		return
	}

	if selfBall.Age(now) > jitterAge && selfBall.History.Displacement() < jitterDisplacement {
		if selfBody.Speed() < immediateSleepSpeed {
			selfBody.Sleep()
			p.metrics.ForcedSleep()
			return
		}
		if !ecs.HasComponent[*components.SleepCheckComponent](p.em, self) {
			ecs.AddComponent(p.em, self, &components.SleepCheckComponent{
				Remaining:  deferredCheckDelay,
				SpeedLimit: deferredSleepSpeed,
			})
		}
	}
}

// ballParts 取出球体组件与刚体
func ballParts(em *ecs.EntityManager, id ecs.EntityID) (*components.BallComponent, *physics.Body, bool) {
	ball, ok := ecs.GetComponent[*components.BallComponent](em, id)
	if !ok {
		return nil, nil, false
	}
	bodyComp, ok := ecs.GetComponent[*components.PhysicsBodyComponent](em, id)
	if !ok || bodyComp.Body == nil {
		return nil, nil, false
	}
	return ball, bodyComp.Body, true
}

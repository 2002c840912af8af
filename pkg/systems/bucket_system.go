package systems

import (
	"sort"

	"github.com/decker502/galton/pkg/components"
	"github.com/decker502/galton/pkg/ecs"
	"github.com/decker502/galton/pkg/physics"
)

// BucketEntry 一次入桶记录
type BucketEntry struct {
	Ball        ecs.EntityID
	BallSerial  int
	BucketIndex int
	// Count 入桶后该桶的累计数
	Count int
}

// BucketSystem 计数桶逻辑
//
// 每个球只在第一次进入任意桶口传感器时计数一次，离开不做追踪。
type BucketSystem struct {
	em  *ecs.EntityManager
	rng BounceRand
}

// NewBucketSystem 创建计数桶系统
//
// 参数:
//   - em: 实体管理器
//   - rng: 入桶时 Z 方向微小偏移的随机源
func NewBucketSystem(em *ecs.EntityManager, rng BounceRand) *BucketSystem {
	return &BucketSystem{em: em, rng: rng}
}

// Enter 处理球进入桶口
//
// 球已属于某个桶时不做任何事（重复进入或进入相邻桶口均不计数）。
// 首次进入时记录所属桶、计数加一，并在 Z 方向施加 [-0.05, 0.05) 的偏移，
// 避免同一个桶里的球完全叠在一个平面上。
//
// 返回:
//   - BucketEntry: 入桶记录
//   - bool: 是否为首次入桶
func (s *BucketSystem) Enter(ballID, bucketID ecs.EntityID) (BucketEntry, bool) {
	ball, ok := ecs.GetComponent[*components.BallComponent](s.em, ballID)
	if !ok || ball.HasBucket() {
		return BucketEntry{}, false
	}
	bucket, ok := ecs.GetComponent[*components.BucketComponent](s.em, bucketID)
	if !ok {
		return BucketEntry{}, false
	}

	ball.InBucket = bucketID
	bucket.Count++

	if bodyComp, ok := ecs.GetComponent[*components.PhysicsBodyComponent](s.em, ballID); ok {
		offset := 0.1*s.rng.Float64() - 0.05
		bodyComp.Body.Position = bodyComp.Body.Position.Add(physics.V3(0, 0, offset))
	}

	return BucketEntry{
		Ball:        ballID,
		BallSerial:  ball.Serial,
		BucketIndex: bucket.Index,
		Count:       bucket.Count,
	}, true
}

// Counts 返回按序号排列的各桶计数
func (s *BucketSystem) Counts() []int {
	buckets := s.sorted()
	counts := make([]int, len(buckets))
	for i, b := range buckets {
		counts[i] = b.Count
	}
	return counts
}

// Buckets 返回按序号排列的桶组件
func (s *BucketSystem) Buckets() []*components.BucketComponent {
	return s.sorted()
}

// ClearCounts 将所有桶计数归零
func (s *BucketSystem) ClearCounts() {
	for _, b := range s.sorted() {
		b.Count = 0
	}
}

func (s *BucketSystem) sorted() []*components.BucketComponent {
	ids := ecs.GetEntitiesWith1[*components.BucketComponent](s.em)
	buckets := make([]*components.BucketComponent, 0, len(ids))
	for _, id := range ids {
		if b, ok := ecs.GetComponent[*components.BucketComponent](s.em, id); ok {
			buckets = append(buckets, b)
		}
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Index < buckets[j].Index })
	return buckets
}

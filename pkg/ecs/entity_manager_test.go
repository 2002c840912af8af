package ecs

import (
	"reflect"
	"testing"
)

// 测试组件类型定义
type testBodyComponent struct {
	X, Y float64
}

type testBallComponent struct {
	Streak int
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	// 测试实体ID唯一性
	if id1 == id2 {
		t.Error("Entity IDs should be unique")
	}

	// 测试ID从1开始
	if id1 != 1 {
		t.Errorf("First entity ID should be 1, got %d", id1)
	}

	if id2 != 2 {
		t.Errorf("Second entity ID should be 2, got %d", id2)
	}
}

func TestAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	em.AddComponent(id, &testBodyComponent{X: 1.2, Y: -2})

	comp, found := em.GetComponent(id, reflect.TypeOf(&testBodyComponent{}))
	if !found {
		t.Fatal("Component should be found")
	}

	retrieved := comp.(*testBodyComponent)
	if retrieved.X != 1.2 || retrieved.Y != -2 {
		t.Errorf("Component data mismatch, expected (1.2, -2), got (%f, %f)", retrieved.X, retrieved.Y)
	}
}

func TestDestroyEntity(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testBodyComponent{})

	// 标记删除
	em.DestroyEntity(id)

	// 清理前实体仍存在
	if !em.IsAlive(id) {
		t.Error("Entity should still exist before cleanup")
	}

	if removed := em.RemoveMarkedEntities(); removed != 1 {
		t.Errorf("RemoveMarkedEntities() = %d, want 1", removed)
	}
	if em.IsAlive(id) {
		t.Error("Entity should be removed after cleanup")
	}
}

func TestDestroyEntityTwice(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	// 同一帧内重复标记只应清理一次
	em.DestroyEntity(id)
	em.DestroyEntity(id)

	if removed := em.RemoveMarkedEntities(); removed != 1 {
		t.Errorf("RemoveMarkedEntities() = %d, want 1", removed)
	}
	if em.EntityCount() != 0 {
		t.Errorf("EntityCount() = %d, want 0", em.EntityCount())
	}
}

func TestGetEntitiesWithIsSorted(t *testing.T) {
	em := NewEntityManager()

	var ids []EntityID
	for i := 0; i < 50; i++ {
		id := em.CreateEntity()
		em.AddComponent(id, &testBodyComponent{})
		if i%3 == 0 {
			em.AddComponent(id, &testBallComponent{})
			ids = append(ids, id)
		}
	}

	got := GetEntitiesWith2[*testBodyComponent, *testBallComponent](em)
	if len(got) != len(ids) {
		t.Fatalf("expected %d entities, got %d", len(ids), len(got))
	}
	for i := range got {
		if got[i] != ids[i] {
			t.Fatalf("entities not in ascending order: got %v, want %v", got, ids)
		}
	}
}

func TestGenericAPI(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testBallComponent{Streak: 7})

	t.Run("GetComponent", func(t *testing.T) {
		comp, ok := GetComponent[*testBallComponent](em, id)
		if !ok {
			t.Fatal("GetComponent 失败：组件不存在")
		}
		if comp.Streak != 7 {
			t.Errorf("Streak = %d, want 7", comp.Streak)
		}
	})

	t.Run("GetComponent_NotFound", func(t *testing.T) {
		if _, ok := GetComponent[*testBodyComponent](em, id); ok {
			t.Error("GetComponent should not find a missing component")
		}
		if _, ok := GetComponent[*testBallComponent](em, EntityID(999)); ok {
			t.Error("GetComponent should not find a component on an unknown entity")
		}
	})

	t.Run("HasAndRemove", func(t *testing.T) {
		if !HasComponent[*testBallComponent](em, id) {
			t.Fatal("HasComponent should be true")
		}
		RemoveComponent[*testBallComponent](em, id)
		if HasComponent[*testBallComponent](em, id) {
			t.Error("HasComponent should be false after RemoveComponent")
		}
		if got := GetEntitiesWith1[*testBallComponent](em); len(got) != 0 {
			t.Errorf("GetEntitiesWith1 = %v, want empty", got)
		}
	})
}

func BenchmarkGetEntitiesWith2(b *testing.B) {
	em := NewEntityManager()
	for i := 0; i < 1000; i++ {
		id := em.CreateEntity()
		em.AddComponent(id, &testBodyComponent{})
		if i%2 == 0 {
			em.AddComponent(id, &testBallComponent{})
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = GetEntitiesWith2[*testBodyComponent, *testBallComponent](em)
	}
}

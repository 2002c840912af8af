package systems

import (
	"math"
	"testing"

	"github.com/decker502/galton/pkg/components"
	"github.com/decker502/galton/pkg/ecs"
)

func TestFlashEffectLifecycle(t *testing.T) {
	em := ecs.NewEntityManager()
	id := em.CreateEntity()
	sys := NewFlashEffectSystem(em)

	TriggerFlash(em, id, 0.2)
	flash, ok := ecs.GetComponent[*components.FlashEffectComponent](em, id)
	if !ok {
		t.Fatal("TriggerFlash did not add a component")
	}
	if flash.Strength() != 1 {
		t.Errorf("initial strength = %v, want 1", flash.Strength())
	}

	sys.Update(0.1)
	if got := flash.Strength(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("strength halfway = %v, want 0.5", got)
	}

	// 再次击中重置计时
	TriggerFlash(em, id, 0.2)
	if flash.Elapsed != 0 {
		t.Errorf("re-trigger left Elapsed = %v, want 0", flash.Elapsed)
	}

	sys.Update(0.25)
	if ecs.HasComponent[*components.FlashEffectComponent](em, id) {
		t.Error("expired flash should be removed")
	}
}

func TestFlashStrengthInactive(t *testing.T) {
	tests := []struct {
		name  string
		flash components.FlashEffectComponent
	}{
		{"inactive", components.FlashEffectComponent{Duration: 1, Intensity: 1}},
		{"zero duration", components.FlashEffectComponent{Intensity: 1, IsActive: true}},
		{"expired", components.FlashEffectComponent{Duration: 1, Elapsed: 2, Intensity: 1, IsActive: true}},
	}
	for _, tt := range tests {
		if got := tt.flash.Strength(); got != 0 {
			t.Errorf("%s: Strength() = %v, want 0", tt.name, got)
		}
	}
}

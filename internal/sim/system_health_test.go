package sim

import (
	"testing"

	"github.com/rtype/server/internal/core/event"
)

// CurrentHP never leaves [0, MaxHP].
func TestHealthSystemClampsToBounds(t *testing.T) {
	w := NewWorld(1)
	id := w.ECS.CreateEntity()
	w.Healths.Set(id, Health{CurrentHP: 50, MaxHP: 100, PendingDamage: -1000})

	sys := &HealthSystem{World: w}
	sys.Update(Step)

	hp, _ := w.Healths.Get(id)
	if hp.CurrentHP != 100 {
		t.Fatalf("CurrentHP = %d, want clamped to MaxHP 100", hp.CurrentHP)
	}
}

// An enemy reduced to 0 HP is destroyed and its reward is credited to the
// first living player in ascending ClientId order.
func TestHealthSystemAwardsKillToLowestLivingClientID(t *testing.T) {
	w := NewWorld(1)
	p1 := w.SpawnPlayer(2, Position{}, nil)
	p2 := w.SpawnPlayer(1, Position{}, nil)
	_ = p1

	enemyID := w.ECS.CreateEntity()
	w.Healths.Set(enemyID, Health{CurrentHP: 10, MaxHP: 10, PendingDamage: 10})
	w.Enemies.Set(enemyID, Enemy{ScoreValue: 42})

	sys := &HealthSystem{World: w}
	sys.Update(Step)

	sc2, _ := w.Scores.Get(p2)
	if sc2.CurrentScore != 42 || sc2.EnemiesKilled != 1 {
		t.Fatalf("lowest ClientId's score = %+v, want reward 42 credited", sc2)
	}
	w.ECS.FlushDestroyQueue() // destruction is deferred to the cleanup step
	if _, alive := w.Enemies.Get(enemyID); alive {
		t.Fatal("expected the enemy entity to be destroyed")
	}
}

func TestHealthSystemEmitsEnemyKilled(t *testing.T) {
	w := NewWorld(1)
	w.SpawnPlayer(1, Position{}, nil)
	enemyID := w.ECS.CreateEntity()
	w.Healths.Set(enemyID, Health{CurrentHP: 5, MaxHP: 5, PendingDamage: 5})
	w.Enemies.Set(enemyID, Enemy{ScoreValue: 7})

	bus := event.NewBus()
	var got *event.EnemyKilled
	event.Subscribe(bus, func(ev event.EnemyKilled) { got = &ev })

	sys := &HealthSystem{World: w, Bus: bus}
	sys.Update(Step)
	bus.SwapBuffers()
	bus.DispatchAll()

	if got == nil {
		t.Fatal("expected an EnemyKilled event")
	}
	if got.Reward != 7 {
		t.Fatalf("Reward = %d, want 7", got.Reward)
	}
}

func TestHealthSystemPendingDamageIsAlwaysCleared(t *testing.T) {
	w := NewWorld(1)
	id := w.ECS.CreateEntity()
	w.Healths.Set(id, Health{CurrentHP: 100, MaxHP: 100, PendingDamage: 30})

	sys := &HealthSystem{World: w}
	sys.Update(Step)

	hp, _ := w.Healths.Get(id)
	if hp.PendingDamage != 0 {
		t.Fatalf("PendingDamage = %d, want 0 after one tick", hp.PendingDamage)
	}
	if hp.CurrentHP != 70 {
		t.Fatalf("CurrentHP = %d, want 70", hp.CurrentHP)
	}
}

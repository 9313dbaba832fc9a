package sim

import (
	"math"
	"time"

	"github.com/rtype/server/internal/core/ecs"
	"github.com/rtype/server/internal/core/system"
)

// EnemyAISystem is phase 9. Most enemy motion already comes from
// AIInputSystem's generic pattern evaluation (phase 2) feeding Movement
// (phase 5); this phase layers the boss-specific vertical bob on top,
// ready for next tick's movement step. The bob is additive to the
// pattern's velocity when the pattern carries a nonzero base speed, and
// is the sole vertical contribution otherwise.
type EnemyAISystem struct {
	World *World
}

func (s *EnemyAISystem) Phase() system.Phase { return system.PhaseEnemyAI }

func (s *EnemyAISystem) Update(dt time.Duration) {
	dtSec := dt.Seconds()
	s.World.Enemies.Each(func(id ecs.EntityID, enemy *Enemy) {
		enemy.PatternTimer += dtSec
		if enemy.Kind != EnemyBoss {
			return
		}
		ai, ok := s.World.AIInputs.Get(id)
		if !ok {
			return
		}
		vel, ok := s.World.Velocities.Get(id)
		if !ok {
			return
		}
		bobVY := ai.Pattern.Amplitude * math.Sin(ai.Pattern.Frequency*enemy.PatternTimer)
		if ai.Pattern.Speed != 0 {
			vel.VY += bobVY
		} else {
			vel.VY = bobVY
		}
	})
}

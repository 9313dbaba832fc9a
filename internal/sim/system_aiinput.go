package sim

import (
	"time"

	"github.com/rtype/server/internal/core/ecs"
	"github.com/rtype/server/internal/core/system"
)

// AIInputSystem is phase 2: it advances every AI-controlled entity's fire
// timer and derives its velocity from its movement pattern. Fire intent
// itself is read later by the weapon-firing system, not acted on here.
type AIInputSystem struct {
	World *World
}

func (s *AIInputSystem) Phase() system.Phase { return system.PhaseAIInput }

func (s *AIInputSystem) Update(dt time.Duration) {
	dtSec := dt.Seconds()
	s.World.AIInputs.Each(func(id ecs.EntityID, ai *AIInput) {
		ai.Fire = false
		if ai.AutoFire {
			ai.FireTimer += dtSec
			if ai.FireTimer >= ai.FireInterval {
				ai.Fire = true
				ai.FireTimer = 0
			}
		}
		vx, vy := ai.Pattern.Evaluate(dtSec)
		if vel, ok := s.World.Velocities.Get(id); ok {
			vel.VX, vel.VY = vx, vy
		}
	})
}

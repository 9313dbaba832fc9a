package sim

import (
	"time"

	"github.com/rtype/server/internal/core/ecs"
	"github.com/rtype/server/internal/core/system"
)

// ScoreSystem is phase 10: it grants one survival point per full second
// alive. Using a running LastTimePointAwarded mark rather than a modulo
// keeps the awarded count exact even across ticks with a catch-up-inflated
// dt.
type ScoreSystem struct {
	World *World
}

func (s *ScoreSystem) Phase() system.Phase { return system.PhaseScore }

func (s *ScoreSystem) Update(dt time.Duration) {
	dtSec := dt.Seconds()
	s.World.Scores.Each(func(id ecs.EntityID, sc *Score) {
		sc.SurvivalTime += dtSec
		for sc.SurvivalTime-sc.LastTimePointAwarded >= 1.0 {
			sc.CurrentScore++
			sc.LastTimePointAwarded++
		}
	})
}

package sim

import (
	"time"

	"github.com/rtype/server/internal/core/ecs"
	"github.com/rtype/server/internal/core/system"
)

// ControlSystem is phase 3: a player's Input mask plus its Controllable
// speed becomes a Velocity. Diagonal input is not normalized — up+right
// moves faster than either alone, matching the side-scroller original.
type ControlSystem struct {
	World *World
}

func (s *ControlSystem) Phase() system.Phase { return system.PhaseControl }

func (s *ControlSystem) Update(dt time.Duration) {
	s.World.Controllables.Each(func(id ecs.EntityID, c *Controllable) {
		in, ok := s.World.Inputs.Get(id)
		if !ok {
			return
		}
		vel, ok := s.World.Velocities.Get(id)
		if !ok {
			return
		}
		var vx, vy float64
		if in.Left {
			vx -= c.Speed
		}
		if in.Right {
			vx += c.Speed
		}
		if in.Up {
			vy -= c.Speed
		}
		if in.Down {
			vy += c.Speed
		}
		vel.VX, vel.VY = vx, vy
		c.LastVY = vy
	})
}

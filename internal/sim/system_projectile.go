package sim

import (
	"time"

	"github.com/rtype/server/internal/core/ecs"
	"github.com/rtype/server/internal/core/system"
)

// OffscreenMargin is the default off-screen margin used for both the
// projectile bounds check and the enemy left-margin prune.
const OffscreenMargin = 50.0

// ProjectileLifetimeSystem is phase 6: it ages every projectile and
// schedules destruction once it outlives its lifetime or leaves the play
// area plus margin. The piercing hit budget is enforced by CollisionSystem,
// which is the only system that knows a hit happened this tick.
type ProjectileLifetimeSystem struct {
	World                   *World
	WorldWidth, WorldHeight float64
}

func (s *ProjectileLifetimeSystem) Phase() system.Phase { return system.PhaseProjectileLifetime }

func (s *ProjectileLifetimeSystem) Update(dt time.Duration) {
	dtSec := dt.Seconds()
	s.World.Projectiles.Each(func(id ecs.EntityID, p *Projectile) {
		p.Age += dtSec
		if p.Age >= p.Lifetime {
			s.World.Destroy(id)
			return
		}
		pos, ok := s.World.Positions.Get(id)
		if !ok {
			return
		}
		if pos.X <= -OffscreenMargin || pos.X >= s.WorldWidth+OffscreenMargin ||
			pos.Y <= -OffscreenMargin || pos.Y >= s.WorldHeight+OffscreenMargin {
			s.World.Destroy(id)
		}
	})
}

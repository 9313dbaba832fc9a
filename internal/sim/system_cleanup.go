package sim

import (
	"time"

	"github.com/rtype/server/internal/core/ecs"
	"github.com/rtype/server/internal/core/system"
)

// CleanupSystem is phase 11: it silently prunes enemies that have scrolled
// past the left margin, then flushes every entity marked for destruction
// this tick (by any earlier phase) out of the registry.
type CleanupSystem struct {
	World *World
}

func (s *CleanupSystem) Phase() system.Phase { return system.PhaseCleanup }

func (s *CleanupSystem) Update(dt time.Duration) {
	s.World.Enemies.Each(func(id ecs.EntityID, _ *Enemy) {
		pos, ok := s.World.Positions.Get(id)
		if ok && pos.X <= -OffscreenMargin {
			s.World.Destroy(id)
		}
	})
	s.World.ECS.FlushDestroyQueue()
}

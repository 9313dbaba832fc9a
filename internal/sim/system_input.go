package sim

import (
	"time"

	"github.com/rtype/server/internal/core/system"
	"github.com/rtype/server/internal/wire"
)

// InputApplySystem is phase 1: it drains the queued PlayerInput events and
// overwrites the addressed player's Input component. A later event for the
// same client in the same drain simply overwrites the earlier one — the
// write is idempotent, so re-applying an unchanged mask is a no-op.
type InputApplySystem struct {
	World *World
	Queue *InputQueue
}

func (s *InputApplySystem) Phase() system.Phase { return system.PhaseInputApply }

func (s *InputApplySystem) Update(dt time.Duration) {
	for _, ev := range s.Queue.Drain() {
		id, ok := s.World.PlayerEntity(ev.ClientID)
		if !ok {
			continue
		}
		in, ok := s.World.Inputs.Get(id)
		if !ok {
			continue
		}
		if ev.EventType == wire.InputEventQuit {
			*in = Input{}
			continue
		}
		mask := ev.DirectionMask
		*in = Input{
			Up:    mask&wire.DirUp != 0,
			Down:  mask&wire.DirDown != 0,
			Left:  mask&wire.DirLeft != 0,
			Right: mask&wire.DirRight != 0,
			Fire:  mask&wire.DirFire != 0,
		}
	}
}

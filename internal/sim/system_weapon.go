package sim

import (
	"math"
	"time"

	"github.com/rtype/server/internal/core/ecs"
	"github.com/rtype/server/internal/core/system"
)

// WeaponFiringSystem is phase 4: it gates firing on fire-rate (and, for
// burst weapons, on the burst sequence) and spawns the resulting
// projectiles fanned across the weapon's spread angle.
type WeaponFiringSystem struct {
	World *World
}

// fireTimeEpsilon absorbs the rounding left by summing a tick step that is
// truncated to whole nanoseconds (1/60 s is 16,666,666 ns), so a shot due
// exactly on a tick boundary fires on that tick rather than the next.
const fireTimeEpsilon = 1e-6

func (s *WeaponFiringSystem) Phase() system.Phase { return system.PhaseWeaponFiring }

func (s *WeaponFiringSystem) Update(dt time.Duration) {
	dtSec := dt.Seconds()
	s.World.Weapons.Each(func(id ecs.EntityID, w *Weapon) {
		w.LastShotTime += dtSec

		// A burst in progress ignores fire-intent entirely and just ticks
		// out its remaining shots at burst_interval. LastShotTime keeps
		// accumulating through the burst, so the fire-rate gate measures
		// from the burst's first shot, not its last.
		if w.IsBurst && w.CurrentBurst > 0 {
			w.LastBurstTime += dtSec
			if w.LastBurstTime+fireTimeEpsilon >= w.BurstInterval {
				s.fire(id, w)
				w.CurrentBurst--
				w.LastBurstTime = 0
			}
			return
		}

		if !fireIntent(s.World, id) || w.LastShotTime+fireTimeEpsilon < 1.0/w.FireRate {
			return
		}
		s.fire(id, w)
		w.LastShotTime = 0
		if w.IsBurst && w.BurstCount > 1 {
			w.CurrentBurst = w.BurstCount - 1
			w.LastBurstTime = 0
		}
	})
}

func fireIntent(w *World, id ecs.EntityID) bool {
	if in, ok := w.Inputs.Get(id); ok {
		return in.Fire
	}
	if ai, ok := w.AIInputs.Get(id); ok {
		return ai.Fire
	}
	return false
}

// fire spawns ProjectileCount shots centered on the owner's facing
// direction (+X for friendly weapons, -X otherwise) and fanned across
// SpreadAngle degrees.
func (s *WeaponFiringSystem) fire(id ecs.EntityID, w *Weapon) {
	pos, ok := s.World.Positions.Get(id)
	if !ok {
		return
	}
	n := w.ProjectileCount
	if n < 1 {
		n = 1
	}
	baseAngle := 0.0
	if !w.Friendly {
		baseAngle = 180.0
	}
	for i := 0; i < n; i++ {
		angle := baseAngle
		if n > 1 {
			t := float64(i)/float64(n-1) - 0.5
			angle += t * w.SpreadAngle
		}
		rad := angle * math.Pi / 180
		vel := Velocity{VX: math.Cos(rad) * w.Speed, VY: math.Sin(rad) * w.Speed}
		s.World.SpawnProjectile(*pos, vel, w)
	}
}

package sim

import (
	"time"

	"github.com/rtype/server/internal/core/ecs"
	"github.com/rtype/server/internal/core/system"
)

// CollisionDamage is the fixed damage applied to both sides on direct
// player/enemy contact.
const CollisionDamage = 10

// CollisionSystem is phase 7. It stages damage into pending_damage rather
// than applying it directly — HealthSystem (phase 8) is the single place
// that clamps and kills, so a target hit by two projectiles in the same
// tick dies from the sum, not whichever hit is processed last.
type CollisionSystem struct {
	World *World
}

func (s *CollisionSystem) Phase() system.Phase { return system.PhaseCollision }

func (s *CollisionSystem) Update(dt time.Duration) {
	s.projectileCollisions()
	s.directContact()
}

func (s *CollisionSystem) projectileCollisions() {
	s.World.Projectiles.Each(func(pid ecs.EntityID, proj *Projectile) {
		ppos, ok := s.World.Positions.Get(pid)
		if !ok {
			return
		}
		phb, ok := s.World.Hitboxes.Get(pid)
		if !ok {
			return
		}
		destroyed := false
		s.World.Hitboxes.Each(func(tid ecs.EntityID, thb *Hitbox) {
			if destroyed || tid == pid || s.World.Projectiles.Has(tid) {
				return
			}
			isEnemyTarget := s.World.Enemies.Has(tid)
			isPlayerTarget := s.World.Controllables.Has(tid)
			if proj.Friendly && !isEnemyTarget {
				return
			}
			if !proj.Friendly && !isPlayerTarget {
				return
			}
			tpos, ok := s.World.Positions.Get(tid)
			if !ok || !aabbOverlap(*ppos, *phb, *tpos, *thb) {
				return
			}
			if hp, ok := s.World.Healths.Get(tid); ok {
				hp.PendingDamage += proj.Damage
				proj.Hits++
				if !proj.Piercing || proj.Hits >= proj.MaxHits {
					s.World.Destroy(pid)
					destroyed = true
				}
			} else {
				s.World.Destroy(tid)
				s.World.Destroy(pid)
				destroyed = true
				if isEnemyTarget {
					if enemy, ok := s.World.Enemies.Get(tid); ok {
						awardKillScore(s.World, enemy.ScoreValue)
					}
				}
			}
		})
	})
}

func (s *CollisionSystem) directContact() {
	s.World.Controllables.Each(func(pid ecs.EntityID, _ *Controllable) {
		ppos, ok := s.World.Positions.Get(pid)
		if !ok {
			return
		}
		phb, ok := s.World.Hitboxes.Get(pid)
		if !ok {
			return
		}
		s.World.Enemies.Each(func(eid ecs.EntityID, _ *Enemy) {
			epos, ok := s.World.Positions.Get(eid)
			if !ok {
				return
			}
			ehb, ok := s.World.Hitboxes.Get(eid)
			if !ok || !aabbOverlap(*ppos, *phb, *epos, *ehb) {
				return
			}
			php, phok := s.World.Healths.Get(pid)
			ehp, ehok := s.World.Healths.Get(eid)
			if phok && ehok {
				php.PendingDamage += CollisionDamage
				ehp.PendingDamage += CollisionDamage
				return
			}
			s.World.Destroy(pid)
			s.World.Destroy(eid)
		})
	})
}

// aabbOverlap tests two axis-aligned boxes centered on pos plus the
// hitbox's offset.
func aabbOverlap(pa Position, ha Hitbox, pb Position, hb Hitbox) bool {
	ax1 := pa.X + ha.OffsetX - ha.Width/2
	ax2 := pa.X + ha.OffsetX + ha.Width/2
	ay1 := pa.Y + ha.OffsetY - ha.Height/2
	ay2 := pa.Y + ha.OffsetY + ha.Height/2
	bx1 := pb.X + hb.OffsetX - hb.Width/2
	bx2 := pb.X + hb.OffsetX + hb.Width/2
	by1 := pb.Y + hb.OffsetY - hb.Height/2
	by2 := pb.Y + hb.OffsetY + hb.Height/2
	return ax1 < bx2 && ax2 > bx1 && ay1 < by2 && ay2 > by1
}

package sim

import (
	"sort"
	"time"

	"github.com/rtype/server/internal/core/ecs"
	"github.com/rtype/server/internal/core/event"
	"github.com/rtype/server/internal/core/system"
)

// HealthSystem is phase 8: the single place pending damage is applied,
// clamped, and cleared, and the only place an entity is killed by damage.
// Bus is optional and observational only — nothing downstream depends on
// an emitted event to stay correct.
type HealthSystem struct {
	World *World
	Bus   *event.Bus
}

func (s *HealthSystem) Phase() system.Phase { return system.PhaseHealth }

func (s *HealthSystem) Update(dt time.Duration) {
	s.World.Healths.Each(func(id ecs.EntityID, hp *Health) {
		hp.CurrentHP -= hp.PendingDamage
		hp.PendingDamage = 0
		if hp.CurrentHP < 0 {
			hp.CurrentHP = 0
		}
		if hp.CurrentHP > hp.MaxHP {
			hp.CurrentHP = hp.MaxHP
		}
		if hp.CurrentHP > 0 {
			return
		}
		enemy, wasEnemy := s.World.Enemies.Get(id)
		_, wasPlayer := s.World.Controllables.Get(id)
		s.World.Destroy(id)
		if wasEnemy {
			killer := awardKillScore(s.World, enemy.ScoreValue)
			if s.Bus != nil {
				event.Emit(s.Bus, event.EnemyKilled{Enemy: id, KillerClientID: killer, Reward: enemy.ScoreValue})
			}
		}
		if wasPlayer && s.Bus != nil {
			event.Emit(s.Bus, event.PlayerKilled{Player: id})
		}
	})
}

// awardKillScore implements the implementation-defined tie-break: iterate
// players in ascending ClientId order and award the first living one.
// Returns that player's ClientId, or 0 if nobody was alive to reward.
func awardKillScore(w *World, reward int) int {
	if len(w.byClientID) == 0 {
		return 0
	}
	clientIDs := make([]int, 0, len(w.byClientID))
	for cid := range w.byClientID {
		clientIDs = append(clientIDs, cid)
	}
	sort.Ints(clientIDs)
	for _, cid := range clientIDs {
		id := w.byClientID[cid]
		hp, ok := w.Healths.Get(id)
		if !ok || hp.CurrentHP <= 0 {
			continue
		}
		if sc, ok := w.Scores.Get(id); ok {
			sc.CurrentScore += reward
			sc.EnemiesKilled++
		}
		return cid
	}
	return 0
}

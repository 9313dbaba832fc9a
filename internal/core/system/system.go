package system

import "time"

// Phase pins a system to one step of the per-tick schedule. Systems
// registered under the same phase run in registration order, but in
// practice each phase in this schedule has exactly one system — the phases
// exist to make the fixed order self-documenting at the call site rather
// than to group unrelated systems the way a generic job-queue phase would.
type Phase int

const (
	PhaseInputApply         Phase = iota // 1: apply queued PlayerInput to player input components
	PhaseAIInput                         // 2: advance AI fire timers, compute AI velocities
	PhaseControl                         // 3: player input + controllable -> velocity
	PhaseWeaponFiring                    // 4: fire-rate/burst gating, spawn projectiles
	PhaseMovement                        // 5: position += velocity * dt
	PhaseProjectileLifetime              // 6: age, bounds, piercing budget
	PhaseCollision                       // 7: AABB collision, stage pending_damage
	PhaseHealth                          // 8: apply pending_damage, kill, award score
	PhaseEnemyAI                         // 9: enemy/boss movement pattern
	PhaseScore                           // 10: time-based survival bonus
	PhaseCleanup                         // 11: flush destroy queue
	PhaseSnapshot                        // 12: build the tick's world snapshot
)

// System is the interface every simulation system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

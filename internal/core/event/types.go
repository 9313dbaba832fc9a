package event

import "github.com/rtype/server/internal/core/ecs"

// Domain events carried on the bus. These are observational only — no
// system depends on another system's event firing to stay correct; they
// exist for cross-cutting concerns (logging, ops metrics) that want to
// react to gameplay without being wired into the simulation systems
// themselves.

type EnemyKilled struct {
	Enemy      ecs.EntityID
	KillerClientID int
	Reward     int
}

type PlayerKilled struct {
	Player ecs.EntityID
}

type PlayerJoined struct {
	Player   ecs.EntityID
	ClientID int
}

type PlayerDisconnected struct {
	ClientID int
}

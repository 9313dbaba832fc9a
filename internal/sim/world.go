package sim

import (
	"github.com/rtype/server/internal/core/ecs"
)

// World is the ECS registry specialized to this game's component set. It
// is the single owner of all simulation state — only the simulation
// thread ever touches it.
type World struct {
	ECS *ecs.World

	Positions       *ecs.SparseStore[Position]
	Velocities      *ecs.SparseStore[Velocity]
	Inputs          *ecs.SparseStore[Input]
	Controllables   *ecs.SparseStore[Controllable]
	Healths         *ecs.SparseStore[Health]
	Weapons         *ecs.SparseStore[Weapon]
	Projectiles     *ecs.SparseStore[Projectile]
	Enemies         *ecs.SparseStore[Enemy]
	AIInputs        *ecs.SparseStore[AIInput]
	Hitboxes        *ecs.SparseStore[Hitbox]
	Scores          *ecs.SparseStore[Score]
	NetworkEntities *ecs.SparseStore[NetworkEntity]

	nextNetID  uint32
	byNetID    map[uint32]ecs.EntityID
	byClientID map[int]ecs.EntityID // at most one avatar per ClientId
}

// NewWorld builds an empty world. netIDBase is the configured starting
// value for the NetId monotonic counter.
func NewWorld(netIDBase uint32) *World {
	w := &World{
		ECS:             ecs.NewWorld(),
		Positions:       ecs.NewSparseStore[Position](),
		Velocities:      ecs.NewSparseStore[Velocity](),
		Inputs:          ecs.NewSparseStore[Input](),
		Controllables:   ecs.NewSparseStore[Controllable](),
		Healths:         ecs.NewSparseStore[Health](),
		Weapons:         ecs.NewSparseStore[Weapon](),
		Projectiles:     ecs.NewSparseStore[Projectile](),
		Enemies:         ecs.NewSparseStore[Enemy](),
		AIInputs:        ecs.NewSparseStore[AIInput](),
		Hitboxes:        ecs.NewSparseStore[Hitbox](),
		Scores:          ecs.NewSparseStore[Score](),
		NetworkEntities: ecs.NewSparseStore[NetworkEntity](),
		nextNetID:       netIDBase,
		byNetID:         make(map[uint32]ecs.EntityID, 64),
		byClientID:      make(map[int]ecs.EntityID, 4),
	}
	reg := w.ECS.Registry()
	reg.Register(w.Positions)
	reg.Register(w.Velocities)
	reg.Register(w.Inputs)
	reg.Register(w.Controllables)
	reg.Register(w.Healths)
	reg.Register(w.Weapons)
	reg.Register(w.Projectiles)
	reg.Register(w.Enemies)
	reg.Register(w.AIInputs)
	reg.Register(w.Hitboxes)
	reg.Register(w.Scores)
	reg.Register(w.NetworkEntities)
	return w
}

// AllocNetID mints the next NetId. Exclusive to the simulation thread, so
// no lock is needed.
func (w *World) AllocNetID() uint32 {
	id := w.nextNetID
	w.nextNetID++
	return id
}

// RegisterNetEntity records the NetId -> EntityID mapping for lookups by
// incoming wire messages (e.g. a future ack referencing a NetId).
func (w *World) RegisterNetEntity(netID uint32, id ecs.EntityID) {
	w.byNetID[netID] = id
}

func (w *World) EntityByNetID(netID uint32) (ecs.EntityID, bool) {
	id, ok := w.byNetID[netID]
	return id, ok
}

// PlayerEntity returns the controllable avatar for a ClientId, if any.
func (w *World) PlayerEntity(clientID int) (ecs.EntityID, bool) {
	id, ok := w.byClientID[clientID]
	return id, ok
}

func (w *World) SetPlayerEntity(clientID int, id ecs.EntityID) {
	w.byClientID[clientID] = id
}

// MarkSynced flips the synced flag for every given NetId that still
// exists. Once synced, an entity is carried in EntityUpdate deltas instead
// of being resent as EntityCreate on every subsequent change.
func (w *World) MarkSynced(netIDs []uint32) {
	for _, netID := range netIDs {
		id, ok := w.byNetID[netID]
		if !ok {
			continue
		}
		if ne, ok := w.NetworkEntities.Get(id); ok {
			ne.Synced = true
		}
	}
}

// Destroy queues id for end-of-tick cleanup and immediately drops its
// NetId/ClientId lookup entries so no system started this tick can resolve
// a handle that will not exist next tick.
func (w *World) Destroy(id ecs.EntityID) {
	if ne, ok := w.NetworkEntities.Get(id); ok {
		delete(w.byNetID, ne.NetID)
	}
	for clientID, entID := range w.byClientID {
		if entID == id {
			delete(w.byClientID, clientID)
		}
	}
	w.ECS.MarkForDestruction(id)
}

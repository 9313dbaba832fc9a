package sim

import "github.com/rtype/server/internal/core/ecs"

// PlayerMaxHP and PlayerSpeed are the defaults for a freshly spawned
// avatar; a future difficulty/loadout system could make these
// configurable, but nothing needs that yet.
const (
	PlayerMaxHP = 100
	PlayerSpeed = 500.0
)

// SpawnPosition spreads index..total player avatars evenly down the left
// edge of the world at game start.
func SpawnPosition(index, total int, worldHeight float64) Position {
	if total <= 0 {
		total = 1
	}
	slot := worldHeight / float64(total+1)
	return Position{X: 80, Y: slot * float64(index+1)}
}

// SpawnPlayer creates a player entity for clientID at pos, wires its
// controllable/NetId bookkeeping, and returns the entity. weapon, when
// non-nil, is attached the same way SpawnEnemy attaches one, so the
// client's fire bit reaches WeaponFiringSystem instead of being dead code.
func (w *World) SpawnPlayer(clientID int, pos Position, weapon *WeaponPreset) ecs.EntityID {
	id := w.ECS.CreateEntity()
	w.Positions.Set(id, pos)
	w.Velocities.Set(id, Velocity{})
	w.Inputs.Set(id, Input{})
	w.Controllables.Set(id, Controllable{Speed: PlayerSpeed})
	w.Healths.Set(id, Health{CurrentHP: PlayerMaxHP, MaxHP: PlayerMaxHP})
	w.Scores.Set(id, Score{})
	w.Hitboxes.Set(id, Hitbox{Width: 48, Height: 24})
	if weapon != nil {
		w.Weapons.Set(id, weapon.Weapon())
	}

	netID := w.AllocNetID()
	w.NetworkEntities.Set(id, NetworkEntity{
		NetID:         netID,
		OwnerClientID: clientID,
		EntityType:    EntityTypePlayer,
	})
	w.RegisterNetEntity(netID, id)
	w.SetPlayerEntity(clientID, id)
	return id
}

// SpawnEnemy creates an enemy entity from a named preset at pos.
func (w *World) SpawnEnemy(preset EnemyPreset, weapon *WeaponPreset, pos Position) ecs.EntityID {
	id := w.ECS.CreateEntity()
	w.Positions.Set(id, pos)
	w.Velocities.Set(id, Velocity{})
	w.Healths.Set(id, Health{CurrentHP: preset.HP, MaxHP: preset.HP})
	w.Hitboxes.Set(id, Hitbox{Width: preset.Hitbox.Width, Height: preset.Hitbox.Height})
	w.Enemies.Set(id, Enemy{Kind: preset.enemyKind(), ScoreValue: preset.ScoreValue})
	w.AIInputs.Set(id, AIInput{
		AutoFire:     preset.AutoFire,
		FireInterval: preset.FireInterval,
		Pattern:      preset.Movement.toPattern(),
	})
	if weapon != nil {
		w.Weapons.Set(id, weapon.Weapon())
	}

	netID := w.AllocNetID()
	w.NetworkEntities.Set(id, NetworkEntity{
		NetID:      netID,
		EntityType: EntityTypeEnemy,
	})
	w.RegisterNetEntity(netID, id)
	return id
}

// SpawnProjectile creates a projectile entity owned (conceptually) by the
// firing weapon, inheriting friendliness and the weapon's projectile
// parameters so piercing/fan-out behavior is deterministic.
func (w *World) SpawnProjectile(pos Position, vel Velocity, wp *Weapon) ecs.EntityID {
	id := w.ECS.CreateEntity()
	w.Positions.Set(id, pos)
	w.Velocities.Set(id, vel)
	w.Projectiles.Set(id, Projectile{
		Damage:   wp.Damage,
		Speed:    wp.Speed,
		Friendly: wp.Friendly,
		Lifetime: wp.Lifetime,
		Piercing: wp.Piercing,
		MaxHits:  wp.MaxHits,
	})
	w.Hitboxes.Set(id, Hitbox{Width: 8, Height: 4})

	entType := EntityTypeProjectile
	if wp.Friendly {
		entType = EntityTypeAlliedProjectile
	}
	netID := w.AllocNetID()
	w.NetworkEntities.Set(id, NetworkEntity{NetID: netID, EntityType: entType})
	w.RegisterNetEntity(netID, id)
	return id
}

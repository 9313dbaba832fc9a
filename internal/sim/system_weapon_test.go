package sim

import (
	"testing"

	"github.com/rtype/server/internal/core/ecs"
)

func countProjectiles(w *World) int {
	n := 0
	w.Projectiles.Each(func(ecs.EntityID, *Projectile) { n++ })
	return n
}

// A weapon with fire_rate=2.0 and fire intent held from t=0 spawns
// projectiles at t=0.0, 0.5, 1.0, ... within one tick's tolerance.
func TestWeaponFireRateGating(t *testing.T) {
	presets, err := LoadPresets()
	if err != nil {
		t.Fatalf("load presets: %v", err)
	}
	standard := presets.Weapons["standard"]

	w := NewWorld(1)
	id := w.SpawnPlayer(1, Position{X: 100, Y: 100}, &standard)
	in, _ := w.Inputs.Get(id)
	in.Fire = true

	sys := &WeaponFiringSystem{World: w}
	dt := Step.Seconds()

	var shotTimes []float64
	elapsed := 0.0
	prev := 0
	for tick := 0; tick < 91; tick++ { // just past t=1.5
		sys.Update(Step)
		if n := countProjectiles(w); n > prev {
			shotTimes = append(shotTimes, elapsed)
			prev = n
		}
		elapsed += dt
	}

	want := []float64{0.0, 0.5, 1.0, 1.5}
	if len(shotTimes) != len(want) {
		t.Fatalf("got %d shots at %v, want %d", len(shotTimes), shotTimes, len(want))
	}
	for i, ts := range shotTimes {
		if diff := ts - want[i]; diff < -dt || diff > dt {
			t.Errorf("shot %d at t=%.4f, want %.1f ± one tick", i, ts, want[i])
		}
	}

	w.Projectiles.Each(func(_ ecs.EntityID, p *Projectile) {
		if !p.Friendly {
			t.Fatal("expected a player shot to spawn a friendly projectile")
		}
		if p.Damage != standard.Damage {
			t.Fatalf("Damage = %d, want %d", p.Damage, standard.Damage)
		}
	})
}

// fire_rate=2.0, burst_count=3, burst_interval=0.1: intent at t=0
// produces shots at t=0.0, 0.1, 0.2; the next burst starts at t=0.5,
// gated from the previous burst's start, not its last shot.
func TestBurstWeaponTiming(t *testing.T) {
	w := NewWorld(1)
	id := w.ECS.CreateEntity()
	w.Positions.Set(id, Position{X: 100, Y: 100})
	w.Inputs.Set(id, Input{Fire: true})
	w.Weapons.Set(id, Weapon{
		FireRate:      2.0,
		LastShotTime:  0.5, // ready to fire immediately
		Friendly:      true,
		Damage:        20,
		Speed:         500,
		Lifetime:      5,
		MaxHits:       1,
		IsBurst:       true,
		BurstCount:    3,
		BurstInterval: 0.1,
	})

	sys := &WeaponFiringSystem{World: w}
	dt := Step.Seconds()

	var shotTimes []float64
	elapsed := 0.0
	prev := 0
	for tick := 0; tick < 34; tick++ { // just past t=0.55
		sys.Update(Step)
		if n := countProjectiles(w); n > prev {
			shotTimes = append(shotTimes, elapsed)
			prev = n
		}
		elapsed += dt
	}

	want := []float64{0.0, 0.1, 0.2, 0.5}
	if len(shotTimes) != len(want) {
		t.Fatalf("got %d shots at %v, want %d", len(shotTimes), shotTimes, len(want))
	}
	for i, ts := range shotTimes {
		if diff := ts - want[i]; diff < -dt || diff > dt {
			t.Errorf("shot %d at t=%.4f, want %.1f ± one tick", i, ts, want[i])
		}
	}
}

// A burst in progress keeps emitting even after fire intent drops.
func TestBurstContinuesWithoutIntent(t *testing.T) {
	w := NewWorld(1)
	id := w.ECS.CreateEntity()
	w.Positions.Set(id, Position{X: 100, Y: 100})
	w.Inputs.Set(id, Input{Fire: true})
	w.Weapons.Set(id, Weapon{
		FireRate:      2.0,
		LastShotTime:  0.5,
		Friendly:      true,
		Damage:        20,
		Speed:         500,
		Lifetime:      5,
		MaxHits:       1,
		IsBurst:       true,
		BurstCount:    3,
		BurstInterval: 0.1,
	})

	sys := &WeaponFiringSystem{World: w}
	sys.Update(Step) // first shot of the burst
	in, _ := w.Inputs.Get(id)
	in.Fire = false

	for tick := 0; tick < 20; tick++ { // past t=0.3
		sys.Update(Step)
	}
	if got := countProjectiles(w); got != 3 {
		t.Fatalf("expected the full 3-shot burst despite released intent, got %d", got)
	}
}

// Spread weapons fan projectile_count shots across spread_angle degrees.
func TestSpreadWeaponFansProjectiles(t *testing.T) {
	presets, err := LoadPresets()
	if err != nil {
		t.Fatalf("load presets: %v", err)
	}
	spread := presets.Weapons["spread"]

	w := NewWorld(1)
	id := w.ECS.CreateEntity()
	w.Positions.Set(id, Position{X: 500, Y: 500})
	w.AIInputs.Set(id, AIInput{Fire: true})
	w.Weapons.Set(id, spread.Weapon())

	sys := &WeaponFiringSystem{World: w}
	sys.Update(Step)

	if got := countProjectiles(w); got != spread.ProjectileCount {
		t.Fatalf("expected %d projectiles, got %d", spread.ProjectileCount, got)
	}
	var vys []float64
	w.Projectiles.Each(func(pid ecs.EntityID, p *Projectile) {
		if p.Friendly {
			t.Fatal("an enemy spread shot must not be friendly")
		}
		vel, _ := w.Velocities.Get(pid)
		if vel.VX >= 0 {
			t.Errorf("enemy projectile should travel -x, got vx=%v", vel.VX)
		}
		vys = append(vys, vel.VY)
	})
	distinct := map[int]bool{}
	for _, vy := range vys {
		distinct[int(vy)] = true
	}
	if len(distinct) != spread.ProjectileCount {
		t.Errorf("expected %d distinct fan directions, got %v", spread.ProjectileCount, vys)
	}
}

// Regression guard for the merge-blocking bug where SpawnPlayer attached no
// Weapon component at all, making Input.Fire dead code.
func TestSpawnPlayerWithoutWeaponDoesNotFire(t *testing.T) {
	w := NewWorld(1)
	id := w.SpawnPlayer(1, Position{X: 100, Y: 100}, nil)
	in, _ := w.Inputs.Get(id)
	in.Fire = true

	sys := &WeaponFiringSystem{World: w}
	sys.Update(Step)
	sys.Update(Step)

	if countProjectiles(w) != 0 {
		t.Fatalf("expected no projectile from a weaponless entity, got %d", countProjectiles(w))
	}
}

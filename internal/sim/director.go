package sim

import (
	"math/rand"
	"time"

	"github.com/rtype/server/internal/core/ecs"
)

// Director spawns enemies on a timer and the boss once the lobby's
// aggregate score crosses a threshold. It runs as a direct call from the
// owning loop's PostTick hook, not as a Runner-registered phase — the
// fixed twelve-step schedule has no slot for wave direction, and nothing
// here reads or writes per-tick simulation state other than spawning.
type Director struct {
	World   *World
	Presets *Presets

	SpawnInterval      time.Duration
	BossScoreThreshold int
	WorldWidth         float64
	WorldHeight        float64

	// WavePresetNames rotates through non-boss enemy presets in order.
	WavePresetNames []string
	BossPresetName  string

	rng         *rand.Rand
	spawnTimer  time.Duration
	waveIndex   int
	bossSpawned bool
}

func NewDirector(world *World, presets *Presets, worldWidth, worldHeight float64, seed int64) *Director {
	return &Director{
		World:              world,
		Presets:            presets,
		SpawnInterval:      2 * time.Second,
		BossScoreThreshold: 5000,
		WorldWidth:         worldWidth,
		WorldHeight:        worldHeight,
		WavePresetNames:    []string{"drone", "zigzagger", "turret"},
		BossPresetName:     "boss",
		rng:                rand.New(rand.NewSource(seed)),
	}
}

// Update advances the spawn timer and the boss trigger. Called once per
// completed tick via the owning Loop's PostTick hook.
func (d *Director) Update(dt time.Duration) {
	if !d.bossSpawned && d.totalScore() >= d.BossScoreThreshold {
		d.spawnBoss()
		d.bossSpawned = true
		return
	}
	if d.bossSpawned {
		return
	}
	d.spawnTimer += dt
	if d.spawnTimer >= d.SpawnInterval {
		d.spawnTimer = 0
		d.spawnWaveEnemy()
	}
}

func (d *Director) totalScore() int {
	total := 0
	d.World.Scores.Each(func(_ ecs.EntityID, sc *Score) {
		total += sc.CurrentScore
	})
	return total
}

func (d *Director) weaponFor(preset EnemyPreset) *WeaponPreset {
	if preset.Weapon == "" {
		return nil
	}
	if w, ok := d.Presets.Weapons[preset.Weapon]; ok {
		return &w
	}
	return nil
}

func (d *Director) spawnWaveEnemy() {
	if len(d.WavePresetNames) == 0 {
		return
	}
	name := d.WavePresetNames[d.waveIndex%len(d.WavePresetNames)]
	d.waveIndex++
	preset, ok := d.Presets.Enemies[name]
	if !ok {
		return
	}
	y := d.rng.Float64() * d.WorldHeight
	pos := Position{X: d.WorldWidth - 40, Y: y}
	d.World.SpawnEnemy(preset, d.weaponFor(preset), pos)
}

func (d *Director) spawnBoss() {
	preset, ok := d.Presets.Enemies[d.BossPresetName]
	if !ok {
		return
	}
	pos := Position{X: d.WorldWidth - 80, Y: d.WorldHeight / 2}
	d.World.SpawnEnemy(preset, d.weaponFor(preset), pos)
}

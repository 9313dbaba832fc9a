package sim

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsFS embed.FS

// WeaponPreset is the on-disk shape of a named weapon default bundle.
// Loading never touches a scripting engine — it is plain data, matching
// the "data, not code" resolution of the scripted-movement redesign note.
type WeaponPreset struct {
	Name            string  `yaml:"name"`
	FireRate        float64 `yaml:"fire_rate"`
	Friendly        bool    `yaml:"friendly"`
	ProjectileCount int     `yaml:"projectile_count"`
	SpreadAngle     float64 `yaml:"spread_angle"`
	Damage          int     `yaml:"damage"`
	Speed           float64 `yaml:"speed"`
	Lifetime        float64 `yaml:"lifetime"`
	Piercing        bool    `yaml:"piercing"`
	MaxHits         int     `yaml:"max_hits"`
	IsBurst         bool    `yaml:"is_burst"`
	BurstCount      int     `yaml:"burst_count"`
	BurstInterval   float64 `yaml:"burst_interval"`
}

// Weapon builds a fresh Weapon component from the preset, with the
// direction the facing entity should fan projectiles around encoded
// separately by the firing system (the preset carries no orientation).
func (p WeaponPreset) Weapon() Weapon {
	// A fresh weapon starts with a full fire-rate interval already elapsed,
	// so the first shot goes out the tick fire-intent first appears.
	ready := 0.0
	if p.FireRate > 0 {
		ready = 1.0 / p.FireRate
	}
	return Weapon{
		FireRate:        p.FireRate,
		LastShotTime:    ready,
		Friendly:        p.Friendly,
		ProjectileCount: p.ProjectileCount,
		SpreadAngle:     p.SpreadAngle,
		Damage:          p.Damage,
		Speed:           p.Speed,
		Lifetime:        p.Lifetime,
		Piercing:        p.Piercing,
		MaxHits:         p.MaxHits,
		IsBurst:         p.IsBurst,
		BurstCount:      p.BurstCount,
		BurstInterval:   p.BurstInterval,
	}
}

type movementSpec struct {
	Type      string  `yaml:"type"`
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
	Speed     float64 `yaml:"speed"`
	Radius    float64 `yaml:"radius"`
}

func (m movementSpec) toPattern() MovementPattern {
	kind := PatternStraight
	switch m.Type {
	case "wave":
		kind = PatternWave
	case "zigzag":
		kind = PatternZigzag
	case "sine_wave":
		kind = PatternSineWave
	case "circle":
		kind = PatternCircle
	}
	return MovementPattern{
		Kind:      kind,
		Amplitude: m.Amplitude,
		Frequency: m.Frequency,
		Speed:     m.Speed,
		Radius:    m.Radius,
	}
}

type hitboxSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// EnemyPreset is the on-disk shape of a named enemy template.
type EnemyPreset struct {
	Name         string       `yaml:"name"`
	Kind         string       `yaml:"kind"`
	HP           int          `yaml:"hp"`
	ScoreValue   int          `yaml:"score_value"`
	Hitbox       hitboxSpec   `yaml:"hitbox"`
	Movement     movementSpec `yaml:"movement"`
	AutoFire     bool         `yaml:"auto_fire"`
	FireInterval float64      `yaml:"fire_interval"`
	Weapon       string       `yaml:"weapon"`
}

func (p EnemyPreset) enemyKind() EnemyKind {
	switch p.Kind {
	case "zigzag":
		return EnemyZigzag
	case "boss":
		return EnemyBoss
	default:
		return EnemyPlain
	}
}

type presetsFile struct {
	Weapons []WeaponPreset `yaml:"weapons"`
	Enemies []EnemyPreset  `yaml:"enemies"`
}

// Presets holds every weapon and enemy template available to the
// simulation, indexed by name.
type Presets struct {
	Weapons map[string]WeaponPreset
	Enemies map[string]EnemyPreset
}

// LoadPresets reads the embedded preset catalogue. It returns an error
// only on a malformed bundle — this is a build-time asset, so a failure
// here means the binary itself is broken, not that the environment has a
// missing file.
func LoadPresets() (*Presets, error) {
	raw, err := presetsFS.ReadFile("presets.yaml")
	if err != nil {
		return nil, fmt.Errorf("sim: read presets: %w", err)
	}
	var f presetsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("sim: parse presets: %w", err)
	}
	p := &Presets{
		Weapons: make(map[string]WeaponPreset, len(f.Weapons)),
		Enemies: make(map[string]EnemyPreset, len(f.Enemies)),
	}
	for _, w := range f.Weapons {
		p.Weapons[w.Name] = w
	}
	for _, e := range f.Enemies {
		p.Enemies[e.Name] = e
	}
	return p, nil
}

// Count reports how many weapon and enemy presets are loaded.
func (p *Presets) Count() (weapons, enemies int) {
	return len(p.Weapons), len(p.Enemies)
}

package sim

import "math"

// Evaluate advances p's pattern time by dt and returns the velocity the
// pattern produces for this tick. It is a pure function of p's fields plus
// the pattern time it mutates — the same (p, dt) pair always yields the
// same (vx, vy) and the same next pattern time, which is what
// deterministic replay requires of every system downstream of it.
func (p *MovementPattern) Evaluate(dt float64) (vx, vy float64) {
	p.PatternTime += dt
	switch p.Kind {
	case PatternStraight:
		return p.Speed, 0
	case PatternWave, PatternSineWave:
		// Wave oscillates on y while advancing on x; SineWave reuses the
		// same formula for projectiles travelling on x with y held by the
		// sine term — the two tags share this implementation by design.
		return p.Speed, p.Amplitude * math.Sin(p.Frequency*p.PatternTime)
	case PatternZigzag:
		half := 1.0 / (2 * p.Frequency)
		phase := int(p.PatternTime / half)
		sign := 1.0
		if phase%2 == 1 {
			sign = -1.0
		}
		return p.Speed, sign * p.Amplitude
	case PatternCircle:
		angle := p.Frequency * p.PatternTime
		return -p.Radius * p.Frequency * math.Sin(angle), p.Radius * p.Frequency * math.Cos(angle)
	default:
		return 0, 0
	}
}

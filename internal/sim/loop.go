package sim

import (
	"time"

	"github.com/rtype/server/internal/core/event"
	"github.com/rtype/server/internal/core/system"
)

// Step is the default fixed simulation timestep, 1/60 s.
const Step = time.Second / 60

// StepForRate converts a ticks-per-second rate into a fixed timestep,
// falling back to the default Step for a nonsensical rate.
func StepForRate(tickRate float64) time.Duration {
	if tickRate <= 0 {
		return Step
	}
	return time.Duration(float64(time.Second) / tickRate)
}

// Loop drives the fixed-timestep accumulator: it never advances the
// simulation by a variable dt, only by whole multiples of the step, and
// caps catch-up so a stalled host cannot replay a large backlog of ticks
// in a single burst.
type Loop struct {
	World           *World
	Runner          *system.Runner
	Bus             *event.Bus
	MaxCatchupTicks int

	// PostTick runs after every completed tick, outside the fixed
	// twelve-phase schedule — the enemy wave director hooks in here as a
	// direct call rather than a Runner-registered system.
	PostTick func(tick uint32, dt time.Duration)

	step     time.Duration
	tick     uint32
	gameTime time.Duration
	accum    time.Duration
}

// NewLoop wires a Runner with the standard twelve-phase schedule over
// world, fed by queue, snapshotting into builder, stepping at step per
// tick (use Step, or StepForRate for a configured tick rate).
func NewLoop(world *World, queue *InputQueue, builder SnapshotBuilder, worldWidth, worldHeight float64, maxCatchupTicks int, step time.Duration) *Loop {
	if step <= 0 {
		step = Step
	}
	bus := event.NewBus()
	l := &Loop{World: world, Runner: system.NewRunner(), Bus: bus, MaxCatchupTicks: maxCatchupTicks, step: step}
	l.Runner.Register(&InputApplySystem{World: world, Queue: queue})
	l.Runner.Register(&AIInputSystem{World: world})
	l.Runner.Register(&ControlSystem{World: world})
	l.Runner.Register(&WeaponFiringSystem{World: world})
	l.Runner.Register(&MovementSystem{World: world})
	l.Runner.Register(&ProjectileLifetimeSystem{World: world, WorldWidth: worldWidth, WorldHeight: worldHeight})
	l.Runner.Register(&CollisionSystem{World: world})
	l.Runner.Register(&HealthSystem{World: world, Bus: bus})
	l.Runner.Register(&EnemyAISystem{World: world})
	l.Runner.Register(&ScoreSystem{World: world})
	l.Runner.Register(&CleanupSystem{World: world})
	l.Runner.Register(&SnapshotSystem{World: world, Builder: builder, Tick: l.CurrentTick})
	return l
}

// CurrentTick returns the most recently completed tick number.
func (l *Loop) CurrentTick() uint32 { return l.tick }

// StepSize returns the loop's fixed timestep.
func (l *Loop) StepSize() time.Duration { return l.step }

// GameTime returns total simulated time, independent of wall-clock drift.
func (l *Loop) GameTime() time.Duration { return l.gameTime }

// Advance consumes a real-time delta, running as many whole ticks as the
// accumulator allows, capped at MaxCatchupTicks per call. It returns the
// number of ticks actually run.
func (l *Loop) Advance(realDelta time.Duration) int {
	catchupCap := time.Duration(l.MaxCatchupTicks) * l.step
	if realDelta > catchupCap {
		realDelta = catchupCap
	}
	l.accum += realDelta

	ran := 0
	for l.accum >= l.step && ran < l.MaxCatchupTicks {
		l.accum -= l.step
		l.tick++
		l.gameTime += l.step
		l.Bus.SwapBuffers()
		l.Bus.DispatchAll()
		l.Runner.Tick(l.step)
		if l.PostTick != nil {
			l.PostTick(l.tick, l.step)
		}
		ran++
	}
	return ran
}

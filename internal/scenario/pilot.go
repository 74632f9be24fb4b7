package scenario

import (
	"math"
	"time"

	"submarine-sim/internal/event"
	"submarine-sim/internal/geom"
	"submarine-sim/internal/player"
)

const (
	aimTolerance  = 0.08
	depthBand     = 1.0
	fireRange     = 40.0
	fireEveryTick = 30
)

// View is what the pilot sees each tick.
type View struct {
	Position  geom.Vec3
	RotationY float64
	Enemies   []geom.Vec3
}

// Pilot walks a scenario and produces controls.
type Pilot struct {
	sc         *Scenario
	phase      string
	phaseStart time.Duration
	destroyed  int
	sinceShot  int
}

// NewPilot starts sc at its first phase.
func NewPilot(sc *Scenario) *Pilot {
	p := &Pilot{sc: sc, sinceShot: fireEveryTick}
	if len(sc.Phases) > 0 {
		p.phase = sc.Phases[0].Name
	}
	return p
}

// Phase returns the current phase name.
func (p *Pilot) Phase() string { return p.phase }

// Observe feeds a gameplay event to the pilot's triggers.
func (p *Pilot) Observe(e event.Event) {
	switch e.Kind {
	case event.EnemyDestroyed:
		p.destroyed++
		p.advance(e.Time, Event{Type: EventEnemyDestroyed, Value: p.destroyed})
	case event.WaveStarted:
		p.advance(e.Time, Event{Type: EventWaveStarted, Value: e.Wave})
	}
}

// Controls returns the input for the tick at now.
func (p *Pilot) Controls(now time.Duration, v View) player.Controls {
	elapsed := int((now - p.phaseStart) / time.Second)
	p.advance(now, Event{Type: EventTimeElapsed, Value: elapsed})

	ph, ok := p.sc.Phase(p.phase)
	if !ok {
		return player.Controls{}
	}
	c := ph.Controls
	if ph.Hunt {
		h := p.hunt(v)
		c.Forward = c.Forward || h.Forward
		c.TurnLeft = c.TurnLeft || h.TurnLeft
		c.TurnRight = c.TurnRight || h.TurnRight
		c.Dive = c.Dive || h.Dive
		c.Surface = c.Surface || h.Surface
		c.Fire = c.Fire || h.Fire
	}
	return c
}

func (p *Pilot) advance(now time.Duration, ev Event) {
	next, ok := p.sc.NextPhase(p.phase, ev)
	if !ok || next == p.phase {
		return
	}
	p.phase = next
	p.phaseStart = now
	p.destroyed = 0
}

func (p *Pilot) hunt(v View) player.Controls {
	p.sinceShot++
	target, ok := nearest(v.Position, v.Enemies)
	if !ok {
		return player.Controls{Forward: true, TurnLeft: true}
	}
	var c player.Controls
	d := target.Sub(v.Position)
	delta := wrapAngle(math.Atan2(d.X, d.Z) - v.RotationY)
	switch {
	case delta > aimTolerance:
		c.TurnLeft = true
	case delta < -aimTolerance:
		c.TurnRight = true
	}
	switch {
	case d.Y < -depthBand:
		c.Dive = true
	case d.Y > depthBand:
		c.Surface = true
	}
	dist := d.Len()
	c.Forward = dist > 15
	if math.Abs(delta) <= aimTolerance && dist < fireRange && p.sinceShot >= fireEveryTick {
		c.Fire = true
		p.sinceShot = 0
	}
	return c
}

func nearest(from geom.Vec3, points []geom.Vec3) (geom.Vec3, bool) {
	best, bestDist := geom.Vec3{}, math.Inf(1)
	for _, pt := range points {
		if d := from.Dist(pt); d < bestDist {
			best, bestDist = pt, d
		}
	}
	return best, len(points) > 0
}

func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

package torpedo

import (
	"math"
	"testing"

	"submarine-sim/internal/config"
	"submarine-sim/internal/event"
	"submarine-sim/internal/geom"
	"submarine-sim/internal/host"
)

func newTestRegistry() (*Registry, *host.Recorder) {
	rec := host.NewRecorder()
	return NewRegistry(config.Default(), rec, rec, nil), rec
}

func TestPlayerTorpedoRunsLevelAndDrifts(t *testing.T) {
	r, _ := newTestRegistry()
	tp := r.Launch(Player, geom.V(0, -5, 0), geom.V(0, 0.5, 1), geom.Vec3{})
	r.Step()
	if math.Abs(tp.Body.Position.Y-(-5.05)) > 1e-9 {
		t.Fatalf("y = %v, want -5.05", tp.Body.Position.Y)
	}
	wantZ := 0.6 * geom.V(0, 0.5, 1).Normalize().Z
	if math.Abs(tp.Body.Position.Z-wantZ) > 1e-9 {
		t.Fatalf("z = %v, want %v", tp.Body.Position.Z, wantZ)
	}
}

func TestPlayerTorpedoAboveWaterDoesNotDrift(t *testing.T) {
	r, _ := newTestRegistry()
	tp := r.Launch(Player, geom.V(0, 1, 0), geom.V(1, 0, 0), geom.Vec3{})
	r.Step()
	if tp.Body.Position.Y != 1 {
		t.Fatalf("y = %v, want 1", tp.Body.Position.Y)
	}
}

func TestEnemyTorpedoFollowsAim(t *testing.T) {
	r, _ := newTestRegistry()
	tp := r.Launch(Enemy, geom.V(0, -10, 0), geom.V(0, -1, 0), geom.Vec3{})
	r.Step()
	if math.Abs(tp.Body.Position.Y-(-10.8)) > 1e-9 {
		t.Fatalf("y = %v, want -10.8", tp.Body.Position.Y)
	}
}

func TestLifetimeExpiry(t *testing.T) {
	r, rec := newTestRegistry()
	r.Launch(Player, geom.V(0, 5, 0), geom.V(1, 0, 0), geom.Vec3{})
	for i := 0; i < 99; i++ {
		r.Step()
	}
	if len(r.Torpedoes) != 1 {
		t.Fatalf("expired early")
	}
	r.Step()
	if len(r.Torpedoes) != 0 || rec.Visible() != 0 {
		t.Fatalf("expected expiry after 100 ticks")
	}
}

func TestFloorImpactExplodes(t *testing.T) {
	r, rec := newTestRegistry()
	r.Launch(Enemy, geom.V(0, -24.5, 0), geom.V(0, -1, 0), geom.Vec3{})
	r.Launch(Player, geom.V(0, -10, 0), geom.V(1, 0, 0), geom.Vec3{})
	r.Step()
	if r.Count(Enemy) != 0 || r.Count(Player) != 1 {
		t.Fatalf("unexpected counts enemy=%d player=%d", r.Count(Enemy), r.Count(Player))
	}
	if len(rec.Explosions) != 1 || rec.Explosions[0].Size != 0.5 {
		t.Fatalf("explosions %+v", rec.Explosions)
	}
	if len(rec.Sounds) != 1 || rec.Sounds[0] != host.SoundExplosion {
		t.Fatalf("sounds %v", rec.Sounds)
	}
}

func TestAttachLaunchesEnemyTorpedo(t *testing.T) {
	r, _ := newTestRegistry()
	bus := event.NewBus()
	r.Attach(bus)
	bus.Publish(event.Event{Kind: event.EnemyTorpedoFired, Position: geom.V(1, -5, 1), Direction: geom.V(0, 0, 1), Target: geom.V(1, -5, 20)})
	if r.Count(Enemy) != 1 {
		t.Fatalf("expected enemy torpedo")
	}
	tp := r.Torpedoes[0]
	if tp.Speed != 0.8 || tp.Life != 100 || tp.Target != geom.V(1, -5, 20) {
		t.Fatalf("unexpected torpedo %+v", tp)
	}
}

func TestRemoveAtAndClear(t *testing.T) {
	r, rec := newTestRegistry()
	a := r.Launch(Player, geom.Vec3{}, geom.V(1, 0, 0), geom.Vec3{})
	r.Launch(Player, geom.Vec3{}, geom.V(1, 0, 0), geom.Vec3{})
	r.RemoveAt(1)
	r.RemoveAt(5)
	if len(r.Torpedoes) != 1 || r.Torpedoes[0] != a {
		t.Fatalf("RemoveAt removed the wrong torpedo")
	}
	r.Clear()
	if len(r.Torpedoes) != 0 || rec.Visible() != 0 {
		t.Fatalf("clear left torpedoes behind")
	}
}

func TestWaveStartClearsEnemyTorpedoes(t *testing.T) {
	r, rec := newTestRegistry()
	bus := event.NewBus()
	r.Attach(bus)
	mine := r.Launch(Player, geom.V(0, -5, 0), geom.V(1, 0, 0), geom.Vec3{})
	bus.Publish(event.Event{Kind: event.EnemyTorpedoFired, Position: geom.V(1, -5, 1), Direction: geom.V(0, 0, 1)})
	bus.Publish(event.Event{Kind: event.EnemyTorpedoFired, Position: geom.V(2, -5, 1), Direction: geom.V(0, 0, 1)})
	bus.Publish(event.Event{Kind: event.WaveStarted, Wave: 2})
	if r.Count(Enemy) != 0 {
		t.Fatalf("enemy torpedoes survived wave start: %d", r.Count(Enemy))
	}
	if len(r.Torpedoes) != 1 || r.Torpedoes[0] != mine {
		t.Fatalf("player torpedo dropped")
	}
	if rec.Visible() != 1 {
		t.Fatalf("visible = %d, want 1", rec.Visible())
	}
}

package pickup

import (
	"math/rand"
	"testing"
	"time"

	"submarine-sim/internal/config"
	"submarine-sim/internal/event"
	"submarine-sim/internal/geom"
	"submarine-sim/internal/host"
)

type fakeStats struct {
	ammo   int
	health float64
	ratio  float64
}

func (f *fakeStats) AddAmmo(n int) int           { f.ammo += n; return n }
func (f *fakeStats) AddHealth(n float64) float64 { f.health += n; return n }
func (f *fakeStats) HealthRatio() float64        { return f.ratio }

func newRegistry(t *testing.T, islands []config.Island) (*Registry, *fakeStats, *host.Recorder, *event.Recorder) {
	t.Helper()
	cfg := config.Default()
	cfg.World.Islands = islands
	stats := &fakeStats{ratio: 1}
	rec := host.NewRecorder()
	events := &event.Recorder{}
	r := NewRegistry(cfg, stats, rec, rec, rec, events, rand.New(rand.NewSource(7)), nil)
	return r, stats, rec, events
}

func TestPickTierWeights(t *testing.T) {
	tests := []struct {
		cat  Category
		r    float64
		want string
	}{
		{Ammo, 0, "ammoSmall"},
		{Ammo, 0.49, "ammoSmall"},
		{Ammo, 0.51, "ammoMedium"},
		{Ammo, 0.79, "ammoMedium"},
		{Ammo, 0.81, "ammoLarge"},
		{Health, 0.99, "healthLarge"},
		{Health, 0.1, "healthSmall"},
	}
	for _, tt := range tests {
		if got := PickTier(tt.cat, tt.r); got.Name != tt.want {
			t.Errorf("PickTier(%s, %v) = %s, want %s", tt.cat, tt.r, got.Name, tt.want)
		}
	}
}

func TestInitSpawnsStartingPickups(t *testing.T) {
	r, _, rec, _ := newRegistry(t, nil)
	r.Init(0)
	if r.Count(Ammo) != 1 || r.Count(Health) != 1 {
		t.Fatalf("ammo=%d health=%d", r.Count(Ammo), r.Count(Health))
	}
	for _, p := range r.Pickups {
		if p.Position.Y != -23.5 {
			t.Fatalf("pickup not resting above floor: %+v", p.Position)
		}
		if p.Position.X < -100 || p.Position.X > 100 || p.Position.Z < -100 || p.Position.Z > 100 {
			t.Fatalf("pickup outside spawn area: %+v", p.Position)
		}
	}
	if rec.Visible() != 2 {
		t.Fatalf("visible = %d", rec.Visible())
	}
}

func TestSafePositionAvoidsIslands(t *testing.T) {
	islands := []config.Island{{X: 0, Z: 0, Size: 50}}
	r, _, _, _ := newRegistry(t, islands)
	for i := 0; i < 200; i++ {
		p, ok := r.SafePosition()
		if !ok {
			continue
		}
		if d := p.DistXZ(geom.Vec3{}); d < 65 {
			t.Fatalf("safe position %+v only %v from island", p, d)
		}
	}
}

func TestSafePositionFallsBack(t *testing.T) {
	islands := []config.Island{{X: 0, Z: 0, Size: 1000}}
	r, _, _, _ := newRegistry(t, islands)
	calls := 0
	r.randFloat = func() float64 { calls++; return 0.5 }

	p, ok := r.SafePosition()
	if ok {
		t.Fatalf("expected fallback position")
	}
	if want := 2*r.cfg.Attempts + 2; calls != want {
		t.Fatalf("rand calls = %d, want %d", calls, want)
	}
	if p.Y != -23.5 {
		t.Fatalf("fallback y = %v", p.Y)
	}
	if _, spawned := r.Spawn("ammoSmall", 0); !spawned {
		t.Fatalf("spawn should still place a pickup")
	}
}

func TestSpawnRespectsMax(t *testing.T) {
	r, _, _, _ := newRegistry(t, nil)
	for i := 0; i < 20; i++ {
		r.Spawn("ammoSmall", 0)
	}
	if len(r.Pickups) != 8 {
		t.Fatalf("pickups = %d, want 8", len(r.Pickups))
	}
	if _, ok := r.Spawn("bogus", 0); ok {
		t.Fatalf("unknown tier spawned")
	}
}

func TestRatioPolicy(t *testing.T) {
	r, _, _, _ := newRegistry(t, nil)
	if r.ChooseCategory() != Health {
		t.Fatalf("empty history should favour health")
	}
	r.Spawn("healthSmall", 0)
	r.Spawn("ammoSmall", 0)
	if r.ChooseCategory() != Ammo {
		t.Fatalf("50%% health share should pick ammo")
	}
	r.Spawn("ammoSmall", 0)
	if r.ChooseCategory() != Health {
		t.Fatalf("33%% health share should pick health")
	}
}

func TestReactivePolicy(t *testing.T) {
	r, stats, _, _ := newRegistry(t, nil)
	r.cfg.Policy = config.PolicyReactive
	stats.ratio = 0.49
	if r.ChooseCategory() != Health {
		t.Fatalf("low health should pick health")
	}
	stats.ratio = 0.5
	if r.ChooseCategory() != Ammo {
		t.Fatalf("half health should pick ammo")
	}
}

func TestCollectAppliesEffect(t *testing.T) {
	r, stats, rec, events := newRegistry(t, nil)
	p, _ := r.Spawn("healthLarge", 0)
	q, _ := r.Spawn("ammoMedium", 0)
	q.Position = geom.V(500, 0, 500)

	if n := r.Collect(time.Second, p.Position.Add(geom.V(0, 2.9, 0))); n != 1 {
		t.Fatalf("collected %d, want 1", n)
	}
	if stats.health != 45 || stats.ammo != 0 {
		t.Fatalf("health=%v ammo=%d", stats.health, stats.ammo)
	}
	if msg, _ := rec.LastMessage(); msg.Text != "Health +45" || msg.DurationMs != 1500 {
		t.Fatalf("message %+v", msg)
	}
	if len(rec.Sounds) != 1 || rec.Sounds[0] != host.SoundPickupHealth {
		t.Fatalf("sounds %v", rec.Sounds)
	}
	if len(r.Pickups) != 1 || r.Pickups[0] != q {
		t.Fatalf("wrong pickup removed")
	}
	if ev, ok := events.Last(event.PickupCollected); !ok || ev.Value != 45 {
		t.Fatalf("event %+v", ev)
	}
	if n := r.Collect(time.Second, q.Position.Add(geom.V(3, 0, 0))); n != 0 {
		t.Fatalf("collected at exactly radius")
	}
}

func TestUpdateSpawnsOnInterval(t *testing.T) {
	r, _, _, _ := newRegistry(t, nil)
	r.Init(0)
	far := geom.V(1000, 0, 1000)
	r.Update(12*time.Second, far)
	if len(r.Pickups) != 2 {
		t.Fatalf("spawned at exactly the interval")
	}
	r.Update(12*time.Second+time.Millisecond, far)
	if len(r.Pickups) != 3 {
		t.Fatalf("pickups = %d, want 3", len(r.Pickups))
	}
	r.Update(13*time.Second, far)
	if len(r.Pickups) != 3 {
		t.Fatalf("timer not reset after spawn")
	}
}

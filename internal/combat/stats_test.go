package combat

import (
	"testing"

	"submarine-sim/internal/event"
	"submarine-sim/internal/host"
)

func newTestStats() (*PlayerStats, *event.Recorder, *host.Recorder) {
	rec := &event.Recorder{}
	ui := host.NewRecorder()
	s := NewPlayerStats(StatsConfig{MaxHealth: 100, MaxAmmo: 100, Lives: 3}, rec, ui, nil, nil)
	return s, rec, ui
}

func TestUseAmmoFailsWithoutMutation(t *testing.T) {
	s, _, ui := newTestStats()
	if !s.UseAmmo(100) {
		t.Fatalf("expected to spend full magazine")
	}
	if s.UseAmmo(1) {
		t.Fatalf("UseAmmo succeeded with empty magazine")
	}
	if s.Ammo() != 0 || ui.Stat(host.StatAmmo) != 0 {
		t.Fatalf("ammo = %d", s.Ammo())
	}
}

func TestAddAmmoAndHealthClamp(t *testing.T) {
	s, _, _ := newTestStats()
	s.UseAmmo(10)
	if got := s.AddAmmo(75); got != 10 || s.Ammo() != 100 {
		t.Fatalf("added %d, ammo %d", got, s.Ammo())
	}
	s.TakeDamage(30)
	if got := s.AddHealth(45); got != 30 || s.Health() != 100 {
		t.Fatalf("healed %v, health %v", got, s.Health())
	}
}

func TestLoseLifeRespawns(t *testing.T) {
	s, rec, ui := newTestStats()
	if !s.TakeDamage(150) {
		t.Fatalf("expected life lost")
	}
	if s.Lives() != 2 || s.Health() != 100 {
		t.Fatalf("lives=%d health=%v", s.Lives(), s.Health())
	}
	if rec.Count(event.PlayerRespawn) != 1 {
		t.Fatalf("expected respawn event")
	}
	msg, _ := ui.LastMessage()
	if msg.Text != "Life Lost! 2 remaining" || msg.DurationMs != 3000 {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestGameOverCarriesWaves(t *testing.T) {
	s, rec, ui := newTestStats()
	s.SetWave(4)
	s.SetWave(2)
	for i := 0; i < 3; i++ {
		s.TakeDamage(100)
	}
	if !s.GameOver() || s.Lives() != 0 {
		t.Fatalf("expected game over, lives=%d", s.Lives())
	}
	ev, ok := rec.Last(event.GameOver)
	if !ok || ev.Wave != 2 || ev.HighestWave != 4 {
		t.Fatalf("game over payload %+v", ev)
	}
	msg, _ := ui.LastMessage()
	if msg.Text != "GAME OVER! Highest Wave: 4" {
		t.Fatalf("message %q", msg.Text)
	}
	// further damage is ignored
	if s.TakeDamage(100) || rec.Count(event.GameOver) != 1 {
		t.Fatalf("damage after game over had effect")
	}
}

func TestTakeDamageZero(t *testing.T) {
	s, rec, _ := newTestStats()
	before := s.Snapshot()
	s.TakeDamage(0)
	if s.Snapshot() != before || len(rec.Events) != 0 {
		t.Fatalf("zero damage changed state")
	}
}

func TestScoreAndReset(t *testing.T) {
	s, _, ui := newTestStats()
	s.AddScore(100)
	s.AddScore(-5)
	if s.Score() != 100 || ui.Stat(host.StatScore) != 100 {
		t.Fatalf("score %d", s.Score())
	}
	s.SetWave(3)
	s.Reset()
	snap := s.Snapshot()
	if snap.Score != 0 || snap.Wave != 1 || snap.HighestWave != 1 || snap.Lives != 3 {
		t.Fatalf("reset snapshot %+v", snap)
	}
}

func TestGettersMatchSnapshot(t *testing.T) {
	s, _, _ := newTestStats()
	s.TakeDamage(25)
	s.UseAmmo(4)
	s.SetWave(3)
	s.SetWave(2)
	s.AddScore(150)
	snap := s.Snapshot()
	if s.Health() != snap.Health || s.MaxHealth() != snap.MaxHealth || s.HealthRatio() != 0.75 {
		t.Fatalf("health %v/%v ratio %v", s.Health(), s.MaxHealth(), s.HealthRatio())
	}
	if s.Ammo() != 96 || s.Lives() != 3 || s.Score() != 150 || s.GameOver() {
		t.Fatalf("ammo=%d lives=%d score=%d over=%v", s.Ammo(), s.Lives(), s.Score(), s.GameOver())
	}
	if s.Wave() != 2 || s.HighestWave() != 3 {
		t.Fatalf("wave=%d highest=%d", s.Wave(), s.HighestWave())
	}
}

package scenario

import (
	"math"
	"testing"
	"time"

	"submarine-sim/internal/event"
	"submarine-sim/internal/geom"
)

func TestScenarioTransition(t *testing.T) {
	s := Scenario{
		Phases: []Phase{{
			Name:     "patrol",
			Triggers: []Trigger{{Event: EventTimeElapsed, Value: 10, Next: "attack"}},
		}, {
			Name: "attack",
		}},
	}

	next, ok := s.NextPhase("patrol", Event{Type: EventTimeElapsed, Value: 10})
	if !ok || next != "attack" {
		t.Fatalf("expected transition to attack, got %s", next)
	}
	if _, ok := s.NextPhase("patrol", Event{Type: EventTimeElapsed, Value: 9}); ok {
		t.Fatalf("transition fired early")
	}
}

func TestLoadScenario(t *testing.T) {
	sc, err := Load("testdata/simple.yaml")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if sc.Name != "example" {
		t.Fatalf("unexpected name %s", sc.Name)
	}
	if sc.Description != "basic test scenario" {
		t.Fatalf("unexpected description %s", sc.Description)
	}
	if len(sc.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(sc.Phases))
	}
	if !sc.Phases[0].Controls.Forward || !sc.Phases[0].Controls.TurnLeft {
		t.Fatalf("unexpected controls %+v", sc.Phases[0].Controls)
	}
	if !sc.Phases[1].Hunt || !sc.Phases[1].Controls.Dive {
		t.Fatalf("unexpected attack phase %+v", sc.Phases[1])
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load("testdata/missing.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestBuiltInArcs(t *testing.T) {
	for name, arc := range BuiltIn() {
		if arc.Description == "" {
			t.Fatalf("arc %s missing description", name)
		}
		for _, ph := range arc.Phases {
			for _, tr := range ph.Triggers {
				if _, ok := arc.Phase(tr.Next); !ok {
					t.Fatalf("arc %s phase %s points at unknown phase %s", name, ph.Name, tr.Next)
				}
			}
		}
	}
}

func TestPilotTimeTrigger(t *testing.T) {
	sc, err := Load("testdata/simple.yaml")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	p := NewPilot(sc)
	c := p.Controls(9*time.Second, View{})
	if p.Phase() != "cruise" || !c.Forward || !c.TurnLeft {
		t.Fatalf("phase=%s controls=%+v", p.Phase(), c)
	}
	c = p.Controls(10*time.Second, View{})
	if p.Phase() != "attack" || !c.Dive {
		t.Fatalf("phase=%s controls=%+v", p.Phase(), c)
	}
}

func TestPilotEnemyTrigger(t *testing.T) {
	arc := BuiltIn()["evasive"]
	p := NewPilot(&arc)
	p.Controls(20*time.Second, View{})
	if p.Phase() != "fight" {
		t.Fatalf("phase = %s, want fight", p.Phase())
	}
	for i := 0; i < 2; i++ {
		p.Observe(event.Event{Kind: event.EnemyDestroyed, Time: 21 * time.Second})
	}
	if p.Phase() != "fight" {
		t.Fatalf("left fight after two kills")
	}
	p.Observe(event.Event{Kind: event.EnemyDestroyed, Time: 22 * time.Second})
	if p.Phase() != "flee" {
		t.Fatalf("phase = %s, want flee", p.Phase())
	}
}

func TestPilotWaveTrigger(t *testing.T) {
	arc := BuiltIn()["hunter"]
	p := NewPilot(&arc)
	p.Observe(event.Event{Kind: event.WaveStarted, Wave: 4})
	if p.Phase() != "hunt" {
		t.Fatalf("advanced on wave 4")
	}
	p.Observe(event.Event{Kind: event.WaveStarted, Wave: 5})
	if p.Phase() != "endgame" {
		t.Fatalf("phase = %s, want endgame", p.Phase())
	}
}

func TestHuntSteersAndFires(t *testing.T) {
	sc := &Scenario{Phases: []Phase{{Name: "hunt", Hunt: true}}}
	p := NewPilot(sc)

	left := p.Controls(0, View{Position: geom.V(0, -10, 0), Enemies: []geom.Vec3{geom.V(20, -10, 0)}})
	if !left.TurnLeft || left.TurnRight || left.Fire {
		t.Fatalf("target at +X should turn left without firing: %+v", left)
	}

	ahead := p.Controls(0, View{Position: geom.V(0, -10, 0), Enemies: []geom.Vec3{geom.V(0, -15, 30)}})
	if !ahead.Fire || !ahead.Dive || !ahead.Forward {
		t.Fatalf("lined-up target below should dive, advance and fire: %+v", ahead)
	}
	again := p.Controls(0, View{Position: geom.V(0, -10, 0), Enemies: []geom.Vec3{geom.V(0, -15, 30)}})
	if again.Fire {
		t.Fatalf("fired again before the refire delay")
	}
}

func TestWrapAngle(t *testing.T) {
	if got := wrapAngle(3 * math.Pi / 2); math.Abs(got+math.Pi/2) > 1e-9 {
		t.Fatalf("wrapAngle = %v", got)
	}
	if got := wrapAngle(-3 * math.Pi / 2); math.Abs(got-math.Pi/2) > 1e-9 {
		t.Fatalf("wrapAngle = %v", got)
	}
}

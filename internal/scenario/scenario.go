// Package scenario scripts the player's submarine for headless runs: a
// scenario is a list of phases, each holding a control pattern, with
// triggers that move the pilot to the next phase.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"submarine-sim/internal/player"
)

// Trigger event types.
const (
	EventTimeElapsed    = "time_elapsed"
	EventEnemyDestroyed = "enemy_destroyed"
	EventWaveStarted    = "wave_started"
)

// Scenario defines a pilot script with ordered phases.
type Scenario struct {
	Name        string  `yaml:"name,omitempty"`
	Description string  `yaml:"description,omitempty"`
	Phases      []Phase `yaml:"phases"`
}

// Phase holds the controls used while it is current. With Hunt set the pilot
// steers toward the nearest enemy and fires when lined up; Controls are
// merged on top.
type Phase struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description,omitempty"`
	Controls    player.Controls `yaml:"controls,omitempty"`
	Hunt        bool            `yaml:"hunt,omitempty"`
	Triggers    []Trigger       `yaml:"triggers,omitempty"`
}

// Trigger moves the scenario to another phase based on an event.
type Trigger struct {
	Event string `yaml:"event"`
	Value int    `yaml:"value"`
	Next  string `yaml:"next"`
}

// Event represents a runtime occurrence that may advance the scenario.
type Event struct {
	Type  string
	Value int
}

// Load reads a YAML scenario definition from disk.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(s.Phases) == 0 {
		return nil, fmt.Errorf("scenario %q has no phases", s.Name)
	}
	return &s, nil
}

// Phase returns the phase called name.
func (s *Scenario) Phase(name string) (Phase, bool) {
	for _, p := range s.Phases {
		if p.Name == name {
			return p, true
		}
	}
	return Phase{}, false
}

// NextPhase returns the name of the next phase given the current phase and event.
// If no trigger matches, ok will be false.
func (s *Scenario) NextPhase(current string, ev Event) (next string, ok bool) {
	for _, p := range s.Phases {
		if p.Name != current {
			continue
		}
		for _, tr := range p.Triggers {
			if tr.Event == ev.Type && ev.Value >= tr.Value {
				return tr.Next, true
			}
		}
	}
	return "", false
}

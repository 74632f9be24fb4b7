package scenario

import "submarine-sim/internal/player"

// BuiltIn returns the predefined pilot scripts.
func BuiltIn() map[string]Scenario {
	return map[string]Scenario{
		"patrol": {
			Name:        "Patrol",
			Description: "Cruise a wide circle, then engage once the first wave has closed in.",
			Phases: []Phase{
				{
					Name:        "setup",
					Description: "Dive to cruising depth.",
					Controls:    player.Controls{Forward: true, Dive: true},
					Triggers:    []Trigger{{Event: EventTimeElapsed, Value: 2, Next: "cruise"}},
				},
				{
					Name:        "cruise",
					Description: "Circle the start area.",
					Controls:    player.Controls{Forward: true, TurnLeft: true},
					Triggers:    []Trigger{{Event: EventTimeElapsed, Value: 15, Next: "engage"}},
				},
				{
					Name:        "engage",
					Description: "Hunt down whatever is left.",
					Hunt:        true,
				},
			},
		},
		"hunter": {
			Name:        "Hunter",
			Description: "Chase enemies from the first tick and fight through the waves.",
			Phases: []Phase{
				{
					Name:        "hunt",
					Description: "Turn toward the nearest enemy and fire when lined up.",
					Hunt:        true,
					Triggers:    []Trigger{{Event: EventWaveStarted, Value: 5, Next: "endgame"}},
				},
				{
					Name:        "endgame",
					Description: "Keep hunting at full throttle.",
					Hunt:        true,
					Controls:    player.Controls{Forward: true},
				},
			},
		},
		"evasive": {
			Name:        "Evasive",
			Description: "Run from the first wave, then turn and fight after a few kills.",
			Phases: []Phase{
				{
					Name:        "flee",
					Description: "Hug the floor and keep moving.",
					Controls:    player.Controls{Forward: true, Dive: true, TurnRight: true},
					Triggers:    []Trigger{{Event: EventTimeElapsed, Value: 20, Next: "fight"}},
				},
				{
					Name:        "fight",
					Description: "Engage until three enemies are down.",
					Hunt:        true,
					Triggers:    []Trigger{{Event: EventEnemyDestroyed, Value: 3, Next: "flee"}},
				},
			},
		},
	}
}

package sim

import (
	"context"
	"time"

	"submarine-sim/internal/event"
	"submarine-sim/internal/host"
	"submarine-sim/internal/logging"
	"submarine-sim/internal/player"
	"submarine-sim/internal/scenario"
	"submarine-sim/internal/torpedo"
)

// Run starts the simulation loop and stops when the context is done, or
// after game over when ExitOnGameOver is set.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting simulator", "tick_interval", s.opts.Tick, "session", s.opts.SessionID)
	ticker := time.NewTicker(s.opts.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if s.Paused() {
				continue
			}
			s.Step(s.input())
			if s.opts.ExitOnGameOver && s.GameOver() {
				log.Info("game over, stopping simulator")
				return
			}
		case <-ctx.Done():
			log.Info("stopping simulator")
			return
		}
	}
}

// input returns the pilot's controls when a scenario drives the submarine,
// otherwise the held controls.
func (s *Simulator) input() player.Controls {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opts.Pilot == nil {
		return s.held
	}
	view := scenario.View{Position: s.sub.Body.Position, RotationY: s.sub.RotationY}
	for _, en := range s.enemies.Active() {
		view.Enemies = append(view.Enemies, en.Body.Position)
	}
	c := s.opts.Pilot.Controls(s.clock.Now(), view)
	s.flushEvents()
	return c
}

// Step advances the session by one tick with the given controls: player
// steering and fire, movement with island and depth resolution, enemy AI,
// torpedoes, collisions, pickups, then deferred callbacks on the game clock.
func (s *Simulator) Step(in player.Controls) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if !s.finished {
		s.sub.Steer(in)
		if s.sub.TriggerPulled(in) {
			s.fire(now)
		}
	}
	s.collide.MovePlayer(s.sub)
	s.enemies.Step(now, s.sub.Body.Position)
	s.torpedoes.Step()

	s.collide.PlayerVsEnemies(now, s.sub, s.enemies)
	s.collide.TorpedoesVsEnemies(now, s.torpedoes, s.enemies)
	s.collide.EnemyTorpedoesVsPlayer(s.torpedoes, s.sub)

	if !s.finished {
		s.pickups.Update(now, s.sub.Body.Position)
	}
	s.clock.Advance(s.opts.Tick)
	s.ui.SetStatValue(host.StatCountdown, s.waves.NextWaveCountdown().Seconds())
	s.tick++

	s.flushEvents()
	if s.writers.State != nil {
		if err := s.writers.State.WriteState(s.stateRow()); err != nil {
			s.log.Error("state write failed", "tick", s.tick, "err", err)
		}
	}
}

func (s *Simulator) fire(now time.Duration) {
	pos, dir, ok := s.sub.TryFire(s.cfg.Torpedo.AmmoCost, s.cfg.Torpedo.MuzzleOffset)
	if !ok {
		s.effects.PlaySound(host.SoundEmpty)
		return
	}
	t := s.torpedoes.Launch(torpedo.Player, pos, dir, pos.Add(dir.Scale(s.cfg.Torpedo.PlayerSpeed)))
	s.effects.PlaySound(host.SoundTorpedo)
	s.bus.Publish(event.Event{
		Kind:      event.TorpedoFired,
		Time:      now,
		EntityID:  t.ID,
		Position:  pos,
		Direction: dir,
	})
}

// flushEvents writes event rows collected since the last flush.
func (s *Simulator) flushEvents() {
	if len(s.pending) == 0 {
		return
	}
	rows := s.pending
	s.pending = nil
	if s.writers.Event == nil {
		return
	}
	if bw, ok := s.writers.Event.(batchEventWriter); ok {
		if err := bw.WriteEvents(rows); err != nil {
			s.log.Error("event batch write failed", "err", err)
		}
		return
	}
	for _, r := range rows {
		if err := s.writers.Event.WriteEvent(r); err != nil {
			s.log.Error("event write failed", "kind", r.Kind, "err", err)
		}
	}
}

// compile-time checks for the writers the CLI wires together.
var (
	_ StateWriter = (*MultiWriter)(nil)
	_ EventWriter = (*MultiWriter)(nil)
	_ ScoreWriter = (*MultiWriter)(nil)
	_ StateWriter = (*FileWriter)(nil)
	_ StateWriter = (*GreptimeDBWriter)(nil)
	_ StateWriter = (*TUIWriter)(nil)
	_ StateWriter = (*JSONStdoutWriter)(nil)
	_ StateWriter = (*ColorStdoutWriter)(nil)
)

// ColorStdoutWriter prints human-friendly, colorized game output to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"submarine-sim/internal/config"
	"submarine-sim/internal/event"
	"submarine-sim/internal/telemetry"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// ColorStdoutWriter prints rows using ANSI colors. State rows are sampled
// every Every ticks so the terminal stays readable.
type ColorStdoutWriter struct {
	cfg   *config.GameConfig
	out   io.Writer
	once  sync.Once
	Every int64
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(cfg *config.GameConfig) *ColorStdoutWriter {
	return &ColorStdoutWriter{cfg: cfg, out: os.Stdout, Every: 60}
}

func (w *ColorStdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}

	fmt.Fprintln(w.out, "Game Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Player:\t%s\n", w.cfg.PlayerName)
	fmt.Fprintf(tw, "Mode:\t%s\n", w.cfg.GameMode)
	fmt.Fprintf(tw, "Difficulty:\t%.1f\n", w.cfg.Difficulty)
	fmt.Fprintf(tw, "Tick (ms):\t%d\n", w.cfg.TickMs)
	fmt.Fprintf(tw, "Lives:\t%d\n", w.cfg.Player.Lives)
	fmt.Fprintf(tw, "Max Enemies:\t%d\n", w.cfg.Waves.MaxEnemies)
	fmt.Fprintf(tw, "Pickup Policy:\t%s\n", w.cfg.Pickups.Policy)
	tw.Flush()

	fmt.Fprintln(w.out, "\nIslands:")
	tw = tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "X\tZ\tSize\n")
	for _, is := range w.cfg.World.Islands {
		fmt.Fprintf(tw, "%s%.0f\t%.0f%s\t%.1f\n", colorGreen, is.X, is.Z, colorReset, is.Size)
	}
	tw.Flush()
	fmt.Fprintln(w.out)
}

func eventColor(kind string) string {
	switch event.Kind(kind) {
	case event.PlayerDamaged, event.GameOver:
		return colorRed
	case event.EnemyDestroyed, event.TorpedoHit:
		return colorYellow
	case event.WaveStarted, event.WaveCompleted:
		return colorCyan
	case event.PickupCollected:
		return colorGreen
	case event.PlayerRespawn:
		return colorMagenta
	}
	return colorBlue
}

// WriteState prints a sampled state row.
func (w *ColorStdoutWriter) WriteState(row telemetry.StateRow) error {
	w.once.Do(w.printOverview)
	if w.Every > 1 && row.Tick%w.Every != 0 && !row.GameOver {
		return nil
	}
	healthColor := colorGreen
	switch {
	case row.Health <= 25:
		healthColor = colorRed
	case row.Health <= 50:
		healthColor = colorYellow
	}

	fmt.Fprintf(w.out, "%s[%s]%s ", colorGray, row.Timestamp.Format(time.RFC3339), colorReset)
	fmt.Fprintf(w.out, "%swave=%d%s ", colorCyan, row.Wave, colorReset)
	fmt.Fprintf(w.out, "%sphase=%s%s ", colorBlue, row.Phase, colorReset)
	fmt.Fprintf(w.out, "%shp=%.0f%s ", healthColor, row.Health, colorReset)
	fmt.Fprintf(w.out, "%sammo=%d%s ", colorYellow, row.Ammo, colorReset)
	fmt.Fprintf(w.out, "%slives=%d%s ", colorMagenta, row.Lives, colorReset)
	fmt.Fprintf(w.out, "%sscore=%d%s ", colorWhite(), row.Score, colorReset)
	fmt.Fprintf(w.out, "%senemies=%d/%d%s ", colorRed, row.EnemiesAlive, row.EnemiesRemaining, colorReset)
	fmt.Fprintf(w.out, "%spos=(%.1f,%.1f,%.1f)%s", colorGray, row.X, row.Y, row.Z, colorReset)
	if row.GameOver {
		fmt.Fprintf(w.out, " %sGAME OVER%s", colorRed, colorReset)
	}
	fmt.Fprintln(w.out)
	return nil
}

func colorWhite() string { return "\x1b[37m" }

// WriteEvent prints a gameplay event.
func (w *ColorStdoutWriter) WriteEvent(e telemetry.EventRow) error {
	w.once.Do(w.printOverview)
	fmt.Fprintf(w.out, "%s[%s]%s %s%s%s",
		colorGray, e.Timestamp.Format(time.RFC3339), colorReset,
		eventColor(e.Kind), e.Kind, colorReset)
	if e.EntityID != "" {
		fmt.Fprintf(w.out, " id=%s", e.EntityID)
	}
	if e.Wave != 0 {
		fmt.Fprintf(w.out, " wave=%d", e.Wave)
	}
	if e.Value != 0 {
		fmt.Fprintf(w.out, " value=%g", e.Value)
	}
	if e.Message != "" {
		fmt.Fprintf(w.out, " msg=%q", e.Message)
	}
	fmt.Fprintln(w.out)
	return nil
}

// WriteEvents prints multiple events.
func (w *ColorStdoutWriter) WriteEvents(rows []telemetry.EventRow) error {
	for _, e := range rows {
		_ = w.WriteEvent(e)
	}
	return nil
}

// WriteScore prints the final score.
func (w *ColorStdoutWriter) WriteScore(s telemetry.ScoreRow) error {
	w.once.Do(w.printOverview)
	fmt.Fprintf(w.out, "%sFINAL%s player=%s score=%d wave=%d highest=%d difficulty=%.1f time=%ds\n",
		colorMagenta, colorReset, s.PlayerName, s.Score, s.Wave, s.HighestWave, s.Difficulty, s.PlayTimeSeconds)
	return nil
}

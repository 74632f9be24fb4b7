package sim

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"submarine-sim/internal/config"
	"submarine-sim/internal/geom"
	"submarine-sim/internal/host"
	"submarine-sim/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a log line for the viewport.
type logMsg struct{ line string }

// eventMsg carries an event log line and the row it came from.
type eventMsg struct {
	line string
	row  telemetry.EventRow
}

// stateMsg carries a game state update.
type stateMsg struct{ telemetry.StateRow }

// statMsg carries a HUD stat update.
type statMsg struct {
	kind  string
	value float64
}

// bannerMsg carries a transient centre-screen message.
type bannerMsg struct {
	text     string
	duration time.Duration
}

// adminMsg reports admin UI status.
type adminMsg struct{ active bool }

// actionsMsg registers the callbacks the TUI can trigger.
type actionsMsg struct{ actions Actions }

const (
	maxLogLines         = 1000
	maxSectionHeightPct = 0.2
	fallbackSpawnInput  = "0,-10,30"
)

// Actions are simulator controls exposed to the TUI keyboard.
type Actions struct {
	NewGame    func()
	Pause      func()
	SpawnEnemy func(geom.Vec3)
}

// TUIWriter renders the game HUD using a bubbletea TUI. It implements
// host.UI so stat updates and messages show up in the footer and banner.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

var _ host.UI = (*TUIWriter)(nil)

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(cfg *config.GameConfig) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(cfg), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// WriteState implements StateWriter.
func (w *TUIWriter) WriteState(row telemetry.StateRow) error {
	w.program.Send(stateMsg{StateRow: row})
	return nil
}

// WriteStates outputs multiple state rows.
func (w *TUIWriter) WriteStates(rows []telemetry.StateRow) error {
	for _, r := range rows {
		_ = w.WriteState(r)
	}
	return nil
}

// WriteEvent implements EventWriter.
func (w *TUIWriter) WriteEvent(e telemetry.EventRow) error {
	line := fmt.Sprintf("%s[%6.1fs]%s %s%-16s%s",
		colorGray, float64(e.GameTime)/1000, colorReset,
		eventColor(e.Kind), e.Kind, colorReset)
	if e.EntityID != "" {
		line += fmt.Sprintf(" %sid=%s%s", colorWhite(), e.EntityID, colorReset)
	}
	if e.Wave != 0 {
		line += fmt.Sprintf(" %swave=%d%s", colorCyan, e.Wave, colorReset)
	}
	if e.Value != 0 {
		line += fmt.Sprintf(" %svalue=%g%s", colorYellow, e.Value, colorReset)
	}
	if e.Message != "" {
		line += fmt.Sprintf(" %s%s%s", colorMagenta, e.Message, colorReset)
	}
	w.program.Send(eventMsg{line: line, row: e})
	return nil
}

// WriteEvents outputs multiple event rows.
func (w *TUIWriter) WriteEvents(rows []telemetry.EventRow) error {
	for _, e := range rows {
		_ = w.WriteEvent(e)
	}
	return nil
}

// WriteScore implements ScoreWriter.
func (w *TUIWriter) WriteScore(s telemetry.ScoreRow) error {
	w.program.Send(logMsg{line: fmt.Sprintf("%sFINAL%s %s scored %d, reached wave %d in %ds",
		colorMagenta, colorReset, s.PlayerName, s.Score, s.HighestWave, s.PlayTimeSeconds)})
	return nil
}

// SetStatValue implements host.UI.
func (w *TUIWriter) SetStatValue(kind string, value float64) {
	w.program.Send(statMsg{kind: kind, value: value})
}

// ShowMessage implements host.UI.
func (w *TUIWriter) ShowMessage(text string, durationMs int) {
	w.program.Send(bannerMsg{text: text, duration: config.Ms(durationMs)})
}

// Write implements io.Writer so log output lands in the viewport instead of
// tearing the alt screen.
func (w *TUIWriter) Write(p []byte) (int, error) {
	w.program.Send(logMsg{line: strings.TrimRight(string(p), "\n")})
	return len(p), nil
}

// SetAdminStatus updates the admin UI indicator.
func (w *TUIWriter) SetAdminStatus(active bool) {
	w.program.Send(adminMsg{active: active})
}

// SetActions registers keyboard-driven simulator controls.
func (w *TUIWriter) SetActions(a Actions) {
	w.program.Send(actionsMsg{actions: a})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	cfg          *config.GameConfig
	table        table.Model
	vp           viewport.Model
	logs         []string
	state        telemetry.StateRow
	stats        map[string]float64
	banner       string
	bannerUntil  time.Time
	now          func() time.Time
	eventCounts  map[string]int
	admin        bool
	wrap         bool
	autoscroll   bool
	showMap      bool
	help         bool
	header       string
	headerHeight int
	height       int
	actions      Actions
	spawnInput   textinput.Model
	spawnDialog  bool
}

func newTUIModel(cfg *config.GameConfig) tuiModel {
	if cfg == nil {
		cfg = config.Default()
	}
	cols := []table.Column{
		{Title: "Config", Width: 16},
		{Title: "Value", Width: 10},
		{Title: "Config", Width: 16},
		{Title: "Value", Width: 10},
	}
	rows := []table.Row{
		{"Player", cfg.PlayerName, "Mode", cfg.GameMode},
		{"Difficulty", fmt.Sprintf("%.1f", cfg.Difficulty), "Lives", strconv.Itoa(cfg.Player.Lives)},
		{"Max Enemies", strconv.Itoa(cfg.Waves.MaxEnemies), "Pickups", cfg.Pickups.Policy},
		{"Tick (ms)", strconv.Itoa(cfg.TickMs), "Islands", strconv.Itoa(len(cfg.World.Islands))},
	}
	t := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithHeight(len(rows)+1))
	return tuiModel{
		cfg:         cfg,
		table:       t,
		vp:          viewport.New(0, 0),
		stats:       make(map[string]float64),
		eventCounts: make(map[string]int),
		now:         time.Now,
		autoscroll:  true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.vp.Width = msg.Width
		m.height = msg.Height
		m.header = m.renderHeader()
		m.headerHeight = lipgloss.Height(m.header)
		m.updateViewportHeight()
		m.refreshViewport()
	case tea.KeyMsg:
		if m.spawnDialog {
			switch msg.Type {
			case tea.KeyEnter:
				if pos, err := parseSpawnInput(m.spawnInput.Value()); err == nil && m.actions.SpawnEnemy != nil {
					go m.actions.SpawnEnemy(pos)
				}
				m.spawnDialog = false
				m.updateViewportHeight()
			case tea.KeyEsc:
				m.spawnDialog = false
				m.updateViewportHeight()
			default:
				var cmd tea.Cmd
				m.spawnInput, cmd = m.spawnInput.Update(msg)
				return m, cmd
			}
			return m, nil
		}
		if m.help {
			switch msg.String() {
			case "?", "h", "esc":
				m.help = false
				m.updateViewportHeight()
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
			return m, nil
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
			}
			return m, nil
		case "m":
			m.showMap = !m.showMap
			return m, nil
		case "n":
			if m.actions.NewGame != nil {
				go m.actions.NewGame()
			}
			return m, nil
		case "p":
			if m.actions.Pause != nil {
				go m.actions.Pause()
			}
			return m, nil
		case "e":
			m.spawnInput = textinput.New()
			m.spawnInput.Placeholder = "x,y,z"
			val := fallbackSpawnInput
			if m.state.Tick > 0 {
				val = fmt.Sprintf("%.0f,%.0f,%.0f", m.state.X, m.state.Y, m.state.Z+30)
			}
			m.spawnInput.SetValue(val)
			m.spawnInput.CursorEnd()
			m.spawnInput.Focus()
			m.spawnDialog = true
			m.updateViewportHeight()
			return m, nil
		case "h", "?":
			m.help = !m.help
			return m, nil
		}
		if !m.autoscroll {
			switch msg.String() {
			case "j", "down":
				m.vp.LineDown(1)
			case "k", "up":
				m.vp.LineUp(1)
			case "pgdown", "ctrl+n":
				m.vp.LineDown(10)
			case "pgup", "ctrl+p":
				m.vp.LineUp(10)
			default:
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)
				return m, cmd
			}
		}
		return m, nil
	case logMsg:
		m.appendLog(msg.line)
	case eventMsg:
		m.eventCounts[msg.row.Kind]++
		m.appendLog(msg.line)
	case stateMsg:
		m.state = msg.StateRow
	case statMsg:
		m.stats[msg.kind] = msg.value
	case bannerMsg:
		m.banner = msg.text
		m.bannerUntil = m.now().Add(msg.duration)
	case adminMsg:
		m.admin = msg.active
	case actionsMsg:
		m.actions = msg.actions
	}
	return m, nil
}

func (m *tuiModel) appendLog(line string) {
	m.logs = append(m.logs, line)
	if len(m.logs) > maxLogLines {
		m.logs = m.logs[len(m.logs)-maxLogLines:]
	}
	m.refreshViewport()
}

func (m *tuiModel) updateViewportHeight() {
	bottomHeight := lipgloss.Height(m.renderBottom())
	dialog := 0
	if m.spawnDialog {
		dialog = 2
	}
	h := m.height - m.headerHeight - bottomHeight - dialog - 3
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	var lines []string
	for _, l := range m.logs {
		if m.wrap {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	divider := strings.Repeat("─", m.vp.Width)
	body := m.vp.View()
	if m.showMap {
		body = m.renderMap()
	}
	sections := []string{m.header, divider, body}
	if m.spawnDialog {
		sections = append(sections, divider,
			fmt.Sprintf("Spawn Enemy (x,y,z) - Enter to spawn, Esc to cancel: %s", m.spawnInput.View()))
	}
	sections = append(sections, divider, m.renderBottom())
	return strings.Join(sections, "\n")
}

func (m tuiModel) renderHeader() string {
	return m.table.View()
}

// stat prefers the value pushed through host.UI and falls back to the last state row.
func (m tuiModel) stat(kind string, fallback float64) float64 {
	if v, ok := m.stats[kind]; ok {
		return v
	}
	return fallback
}

func healthBar(health, max float64, width int) string {
	if max <= 0 {
		max = 100
	}
	filled := int(math.Round(geom.Clamp(health/max, 0, 1) * float64(width)))
	color := colorGreen
	switch {
	case health/max <= 0.25:
		color = colorRed
	case health/max <= 0.5:
		color = colorYellow
	}
	return color + strings.Repeat("█", filled) + colorGray + strings.Repeat("░", width-filled) + colorReset
}

func indicator(on bool) string {
	c := lipgloss.Color("9")
	if on {
		c = lipgloss.Color("10")
	}
	return lipgloss.NewStyle().Foreground(c).Render("●")
}

func (m tuiModel) renderBottom() string {
	health := m.stat(host.StatHealth, m.state.Health)
	hud := fmt.Sprintf("%sHP%s %s %3.0f  %sAMMO%s %d  %sLIVES%s %d  %sWAVE%s %d  %sSCORE%s %d  %sENEMIES%s %d",
		colorRed, colorReset, healthBar(health, m.cfg.Player.MaxHealth, 20), health,
		colorYellow, colorReset, int(m.stat(host.StatAmmo, float64(m.state.Ammo))),
		colorMagenta, colorReset, int(m.stat(host.StatLives, float64(m.state.Lives))),
		colorCyan, colorReset, int(m.stat(host.StatWave, float64(m.state.Wave))),
		colorWhite(), colorReset, int(m.stat(host.StatScore, float64(m.state.Score))),
		colorRed, colorReset, int(m.stat(host.StatEnemies, float64(m.state.EnemiesRemaining))))
	if cd := m.stat(host.StatCountdown, 0); cd > 0 {
		hud += fmt.Sprintf("  %sNEXT WAVE%s %.0fs", colorCyan, colorReset, cd)
	}
	if m.state.GameOver {
		hud += fmt.Sprintf("  %sGAME OVER%s", colorRed, colorReset)
	}
	line := fmt.Sprintf("Phase %s | Kills %d | Admin UI %s | Wrap %s | Scroll %s | Map %s | h for help",
		m.state.Phase, m.eventCounts["enemy_destroyed"],
		indicator(m.admin), indicator(m.wrap), indicator(m.autoscroll), indicator(m.showMap))
	if m.banner != "" && m.now().Before(m.bannerUntil) {
		banner := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")).Render(m.banner)
		return fmt.Sprintf("%s\n%s\n%s", banner, hud, line)
	}
	return fmt.Sprintf("%s\n%s", hud, line)
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" q  quit",
		" n  start a new game",
		" p  pause or resume",
		" e  spawn enemy (x,y,z)",
		" m  toggle sonar map",
		" w  toggle wrap for the event log",
		" s  toggle auto-scroll",
		" h/? toggle this help view",
		"",
		"When auto-scroll is disabled:",
		" j/k or up/down    scroll one line",
		" pgdown/pgup       scroll a page",
	}
	return strings.Join(lines, "\n")
}

func headingIcon(deg float64) string {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// Heading 0 faces +Z, which is drawn downwards.
	switch {
	case deg >= 45 && deg < 135:
		return ">"
	case deg >= 135 && deg < 225:
		return "^"
	case deg >= 225 && deg < 315:
		return "<"
	default:
		return "v"
	}
}

// renderMap draws a top-down XZ view of the islands and the player.
func (m tuiModel) renderMap() string {
	width, height := m.vp.Width, m.vp.Height
	if width < 10 || height < 5 {
		return "window too small for map"
	}
	span := m.cfg.Player.Bounds
	if span <= 0 {
		span = 200
	}
	grid := make([][]string, height)
	for i := range grid {
		row := make([]string, width)
		for j := range row {
			row[j] = colorBlue + "~" + colorReset
		}
		grid[i] = row
	}
	toCell := func(x, z float64) (int, int) {
		cx := int((x + span) / (2 * span) * float64(width-1))
		cy := int((z + span) / (2 * span) * float64(height-1))
		return cx, cy
	}
	for _, is := range m.cfg.World.Islands {
		r := is.Size * m.cfg.World.IslandScale
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				wx := float64(x)/float64(width-1)*2*span - span
				wz := float64(y)/float64(height-1)*2*span - span
				if math.Hypot(wx-is.X, wz-is.Z) <= r {
					grid[y][x] = colorGreen + "#" + colorReset
				}
			}
		}
	}
	px, py := toCell(m.state.X, m.state.Z)
	if px >= 0 && px < width && py >= 0 && py < height {
		grid[py][px] = colorYellow + headingIcon(m.state.Heading) + colorReset
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("x %.0f..%.0f z %.0f..%.0f depth %.1f\n", -span, span, -span, span, m.state.Y))
	for _, row := range grid[:height-1] {
		b.WriteString(strings.Join(row, ""))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func parseSpawnInput(val string) (geom.Vec3, error) {
	parts := strings.Split(val, ",")
	if len(parts) != 3 {
		return geom.Vec3{}, fmt.Errorf("expected x,y,z")
	}
	var xyz [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geom.Vec3{}, err
		}
		xyz[i] = f
	}
	return geom.V(xyz[0], xyz[1], xyz[2]), nil
}

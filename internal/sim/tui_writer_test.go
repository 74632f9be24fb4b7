package sim

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"submarine-sim/internal/config"
	"submarine-sim/internal/geom"
	"submarine-sim/internal/host"
	"submarine-sim/internal/telemetry"
)

type fakeProgram struct{ msgs []tea.Msg }

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

func TestTUIWriterMessages(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p}
	if err := w.WriteEvent(telemetry.EventRow{Kind: "enemy_destroyed", EntityID: "e1", GameTime: 1500}); err != nil {
		t.Fatalf("event: %v", err)
	}
	if _, ok := p.msgs[0].(eventMsg); !ok {
		t.Fatalf("expected eventMsg, got %T", p.msgs[0])
	}
	if err := w.WriteState(telemetry.StateRow{Tick: 1}); err != nil {
		t.Fatalf("state: %v", err)
	}
	if _, ok := p.msgs[1].(stateMsg); !ok {
		t.Fatalf("expected stateMsg, got %T", p.msgs[1])
	}
	w.SetAdminStatus(true)
	if _, ok := p.msgs[2].(adminMsg); !ok {
		t.Fatalf("expected adminMsg, got %T", p.msgs[2])
	}
	w.SetStatValue(host.StatAmmo, 12)
	if sm, ok := p.msgs[3].(statMsg); !ok || sm.kind != host.StatAmmo || sm.value != 12 {
		t.Fatalf("expected statMsg, got %#v", p.msgs[3])
	}
	w.ShowMessage("WAVE 2", 3000)
	if bm, ok := p.msgs[4].(bannerMsg); !ok || bm.duration != 3*time.Second {
		t.Fatalf("expected bannerMsg, got %#v", p.msgs[4])
	}
	if err := w.WriteScore(telemetry.ScoreRow{PlayerName: "ada", Score: 900}); err != nil {
		t.Fatalf("score: %v", err)
	}
	if lm, ok := p.msgs[5].(logMsg); !ok || !strings.Contains(lm.line, "ada scored 900") {
		t.Fatalf("expected final score logMsg, got %#v", p.msgs[5])
	}
}

func TestTUIModelHUD(t *testing.T) {
	m := newTUIModel(config.Default())
	base := time.Unix(100, 0)
	m.now = func() time.Time { return base }
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m = mi.(tuiModel)
	mi, _ = m.Update(stateMsg{telemetry.StateRow{Tick: 5, Phase: "active", Health: 100, Ammo: 50, Wave: 1}})
	m = mi.(tuiModel)
	mi, _ = m.Update(statMsg{kind: host.StatAmmo, value: 49})
	m = mi.(tuiModel)
	mi, _ = m.Update(bannerMsg{text: "WAVE 1", duration: time.Second})
	m = mi.(tuiModel)

	bottom := m.renderBottom()
	if !strings.Contains(bottom, "AMMO"+colorReset+" 49") {
		t.Fatalf("pushed stat should win over state row: %q", bottom)
	}
	if !strings.Contains(bottom, "WAVE 1") {
		t.Fatalf("banner missing: %q", bottom)
	}

	m.now = func() time.Time { return base.Add(2 * time.Second) }
	if strings.Contains(m.renderBottom(), "WAVE 1\n") {
		t.Fatalf("banner should expire")
	}
}

func TestTUIModelCountsKills(t *testing.T) {
	m := newTUIModel(nil)
	for i := 0; i < 3; i++ {
		mi, _ := m.Update(eventMsg{line: "x", row: telemetry.EventRow{Kind: "enemy_destroyed"}})
		m = mi.(tuiModel)
	}
	if m.eventCounts["enemy_destroyed"] != 3 || len(m.logs) != 3 {
		t.Fatalf("counts=%v logs=%d", m.eventCounts, len(m.logs))
	}
}

func TestTUIActions(t *testing.T) {
	m := newTUIModel(nil)
	newGame := make(chan struct{}, 1)
	spawned := make(chan geom.Vec3, 1)
	mi, _ := m.Update(actionsMsg{actions: Actions{
		NewGame:    func() { newGame <- struct{}{} },
		SpawnEnemy: func(p geom.Vec3) { spawned <- p },
	}})
	m = mi.(tuiModel)

	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = mi.(tuiModel)
	select {
	case <-newGame:
	case <-time.After(time.Second):
		t.Fatalf("new game action not called")
	}

	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	m = mi.(tuiModel)
	if !m.spawnDialog {
		t.Fatalf("spawn dialog not opened")
	}
	m.spawnInput.SetValue("5,-8,12")
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mi.(tuiModel)
	select {
	case p := <-spawned:
		if p != geom.V(5, -8, 12) {
			t.Fatalf("spawned at %+v", p)
		}
	case <-time.After(time.Second):
		t.Fatalf("spawn action not called")
	}
	if m.spawnDialog {
		t.Fatalf("dialog should close after enter")
	}
}

func TestScrollToggle(t *testing.T) {
	m := newTUIModel(nil)
	m.vp.Height = 1
	m.vp.Width = 20
	mi, _ := m.Update(logMsg{line: "l1"})
	m = mi.(tuiModel)
	mi, _ = m.Update(logMsg{line: "l2"})
	m = mi.(tuiModel)
	if m.vp.YOffset != 1 {
		t.Fatalf("expected YOffset 1, got %d", m.vp.YOffset)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = mi.(tuiModel)
	if m.autoscroll {
		t.Fatalf("autoscroll should be off")
	}
	mi, _ = m.Update(logMsg{line: "l3"})
	m = mi.(tuiModel)
	if m.vp.YOffset != 1 {
		t.Fatalf("expected YOffset unchanged, got %d", m.vp.YOffset)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = mi.(tuiModel)
	if m.vp.YOffset != 0 {
		t.Fatalf("expected YOffset 0 after scrolling up, got %d", m.vp.YOffset)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = mi.(tuiModel)
	if !m.autoscroll {
		t.Fatalf("autoscroll should be on")
	}
	expected := len(m.logs) - m.vp.Height
	if m.vp.YOffset != expected {
		t.Fatalf("expected YOffset %d, got %d", expected, m.vp.YOffset)
	}
}

func TestParseSpawnInput(t *testing.T) {
	if _, err := parseSpawnInput("1,2"); err == nil {
		t.Fatalf("expected error for short input")
	}
	if _, err := parseSpawnInput("1,a,3"); err == nil {
		t.Fatalf("expected error for non-numeric input")
	}
	p, err := parseSpawnInput(" 1, -2 ,3")
	if err != nil || p != geom.V(1, -2, 3) {
		t.Fatalf("got %+v %v", p, err)
	}
}

func TestHeadingIcon(t *testing.T) {
	cases := map[float64]string{0: "v", 90: ">", 180: "^", 270: "<", -90: "<"}
	for deg, want := range cases {
		if got := headingIcon(deg); got != want {
			t.Fatalf("headingIcon(%v) = %s, want %s", deg, got, want)
		}
	}
}

func TestTUIWriterLogLines(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p}
	n, err := w.Write([]byte("level=INFO msg=\"new game\"\n"))
	if err != nil || n != 26 {
		t.Fatalf("write: n=%d err=%v", n, err)
	}
	msg, ok := p.msgs[0].(logMsg)
	if !ok || msg.line != "level=INFO msg=\"new game\"" {
		t.Fatalf("unexpected message %#v", p.msgs[0])
	}
}

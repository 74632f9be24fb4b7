package dashboard

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderMissingEnv(t *testing.T) {
	t.Setenv("GREPTIMEDB_DATASOURCE_UID", "")
	if err := Render(t.TempDir(), DefaultTables()); err == nil {
		t.Fatalf("expected error for missing env vars")
	}
}

func TestRenderSuccess(t *testing.T) {
	t.Setenv("GREPTIMEDB_DATASOURCE_UID", "uid1")

	dir := t.TempDir()
	tables := Tables{State: "st", Event: "ev", Score: "sc"}
	if err := Render(dir, tables); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "grafana-dashboard.json"))
	if err != nil {
		t.Fatalf("read dashboard: %v", err)
	}
	if !strings.Contains(string(b), "uid1") {
		t.Fatalf("greptime uid not rendered")
	}
	for _, tbl := range []string{"FROM st ", "FROM ev ", "FROM sc "} {
		if !strings.Contains(string(b), tbl) {
			t.Fatalf("table %q not rendered", tbl)
		}
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("rendered dashboard is not valid JSON: %v", err)
	}
}

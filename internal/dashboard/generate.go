// Package dashboard renders Grafana dashboards for the GreptimeDB tables the
// simulator writes.
package dashboard

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"submarine-sim/internal/telemetry"
)

//go:embed templates/*.tmpl
var templates embed.FS

// Tables are the table names substituted into the queries.
type Tables struct {
	State string
	Event string
	Score string
}

// DefaultTables returns the table names the GreptimeDB writer uses.
func DefaultTables() Tables {
	return Tables{
		State: telemetry.StateTableName,
		Event: telemetry.EventTableName,
		Score: telemetry.ScoreTableName,
	}
}

// Render executes every dashboard template and writes the JSON to outDir.
// Templates read the datasource UID from GREPTIMEDB_DATASOURCE_UID.
func Render(outDir string, tables Tables) error {
	funcMap := template.FuncMap{
		"env": func(key string) (string, error) {
			v := os.Getenv(key)
			if v == "" {
				return "", fmt.Errorf("environment variable %s not set", key)
			}
			return v, nil
		},
	}

	t, err := template.New("dashboards").Funcs(funcMap).ParseFS(templates, "templates/*.tmpl")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	for _, tpl := range t.Templates() {
		name := tpl.Name()
		if !strings.HasSuffix(name, ".tmpl") {
			continue
		}
		outPath := filepath.Join(outDir, strings.TrimSuffix(name, ".tmpl"))
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		if err := tpl.Execute(f, tables); err != nil {
			f.Close()
			return fmt.Errorf("render %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

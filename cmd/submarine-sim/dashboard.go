package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"submarine-sim/internal/dashboard"
)

var dashboardOut string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render Grafana dashboards for the GreptimeDB tables",
	Long:  "dashboard writes Grafana dashboard JSON for the state, event and score tables. GREPTIMEDB_DATASOURCE_UID must be set.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := dashboard.Render(dashboardOut, dashboard.DefaultTables()); err != nil {
			return err
		}
		slog.Info("dashboards rendered", "dir", dashboardOut)
		return nil
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardOut, "out", "build", "Output directory")
}

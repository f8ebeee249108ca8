package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/stunsched/stunsched/internal/api"
	"github.com/stunsched/stunsched/internal/store"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the optimizer over HTTP",
	Long: `serve starts the HTTP API: POST /v1/runs to submit a project,
GET /v1/runs/{id}/events to long-poll progress, GET /v1/runs/{id} for
the final schedule, and GET /metrics for Prometheus scraping.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := cfg.Store.Path
		if dbPath == "" {
			dbPath = ":memory:"
		}
		db, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer db.Close()

		srv := api.NewServer(cfg.Optimizer.NumJobs, cfg.Tuning(), db)

		fmt.Fprintf(os.Stdout, "stunsched serving on %s (store: %s)\n", cfg.Addr(), dbPath)
		return http.ListenAndServe(cfg.Addr(), srv.Handler())
	},
}

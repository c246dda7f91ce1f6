package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/investo/internal/api"
	"github.com/wonny/investo/internal/api/handlers"
	"github.com/wonny/investo/internal/scheduler"
	"github.com/wonny/investo/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server and the report retention scheduler.

Endpoints:
  GET  /health                  - Health check
  GET  /api/analyze/{ticker}    - Full analysis as JSON
  POST /api/reports/{ticker}    - Render a report (?format=html|pdf)
  GET  /api/reports             - List generated reports
  GET  /api/reports/{name}      - Download a generated report
  GET  /api/news/global         - Market headlines
  GET  /metrics                 - Prometheus metrics (METRICS_ENABLED)

Example:
  go run ./cmd/investo api
  go run ./cmd/investo api --port 8080`,
	Args: cobra.NoArgs,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default $PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Investo API Server ===")

	ctx := cmd.Context()

	// 1. Wire dependencies
	d, err := buildDeps(ctx, os.Stdout)
	if err != nil {
		return err
	}
	defer d.Close()

	cfg, log := d.cfg, d.log
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log.WithFields(map[string]interface{}{
		"port":    cfg.Port,
		"env":     cfg.Env,
		"profile": d.profile.Name,
	}).Info("Initializing API server")

	// 2. Scheduler
	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewReportCleanupJob(d.renderer, cfg.Reports.RetentionDays, cfg.Reports.CleanupSchedule, log)); err != nil {
		return fmt.Errorf("schedule report cleanup: %w", err)
	}
	if !d.redis.Enabled() {
		if err := sched.AddJob(jobs.NewCacheCleanupJob(d.cache, log)); err != nil {
			return fmt.Errorf("schedule cache cleanup: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	// 3. Handlers and router
	router := api.NewRouter(api.Handlers{
		Analysis: handlers.NewAnalysisHandler(d.orchestrator, log),
		Reports:  handlers.NewReportHandler(d.renderer, log),
		News:     handlers.NewNewsHandler(d.collector, log),
	}, d.metrics, log)

	// 4. Server with graceful shutdown
	server := api.New(cfg, log, router)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

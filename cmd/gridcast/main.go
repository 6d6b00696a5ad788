package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gridcast/gridcast/internal/config"
	"github.com/gridcast/gridcast/internal/dataset"
	"github.com/gridcast/gridcast/internal/executor"
	"github.com/gridcast/gridcast/internal/forecast/arima"
	"github.com/gridcast/gridcast/internal/models"
	"github.com/gridcast/gridcast/internal/timeseries"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gridcast <job.yaml>")
		os.Exit(1)
	}

	configPath := os.Args[1]

	// Setup context with manual signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	defer func() {
		signal.Stop(sigChan)
		cancel()
	}()

	go func() {
		sig := <-sigChan
		slog.Info("interrupt received, shutting down gracefully...", "signal", sig)
		cancel()
	}()

	cfg, err := config.LoadJobConfig(configPath)
	if err != nil {
		slog.Error("invalid job config", "error", err)
		os.Exit(1)
	}

	series, err := dataset.NewLoader().Load(ctx, cfg.Dataset)
	if err != nil {
		slog.Error("loading dataset failed", "error", err)
		os.Exit(1)
	}
	slog.Info("dataset loaded", "series", series.Name, "observations", series.Len())

	orchestrator, err := executor.NewSearchOrchestrator(cfg, executor.NewCandidateExecutor)
	if err != nil {
		slog.Error("creating orchestrator failed", "error", err)
		os.Exit(1)
	}

	result, err := orchestrator.Run(ctx, series)
	if err != nil {
		slog.Error("search failed", "error", err)
		os.Exit(1)
	}

	if cfg.OutputDir != "" {
		if err := executor.WriteResult(cfg.OutputDir, result); err != nil {
			slog.Error("writing result failed", "error", err)
			os.Exit(1)
		}
	}

	// Print summary
	fmt.Printf("\nJob: %s\n", result.JobName)
	fmt.Printf("Candidates: %d\n", result.TotalCandidates)
	fmt.Printf("Evaluated: %d\n", result.Evaluated)
	fmt.Printf("Failed: %d\n", result.Failed)
	fmt.Printf("Skipped: %d\n", result.Skipped)
	fmt.Printf("Duration: %.2fs\n", result.TotalDurationSec)

	if !result.Viable() {
		fmt.Println("\nNo candidate order produced a model")
		os.Exit(1)
	}

	fmt.Printf("\nBest ARIMA%s RMSE=%.3f\n", *result.BestOrder, *result.BestRMSE)

	if cfg.Horizon > 0 && !result.Cancelled {
		printForecast(ctx, orchestrator, series, result, cfg.Horizon)
	}

	if result.Cancelled {
		os.Exit(1)
	}
}

// printForecast refits the winning order on the full series and prints
// an ahead forecast.
func printForecast(ctx context.Context, o *executor.SearchOrchestrator, series *timeseries.Series, result *models.SearchResult, horizon int) {
	model, err := o.Provider().Fit(ctx, series, *result.BestOrder)
	if err != nil {
		slog.Warn("refit on full series failed", "order", result.BestOrder.String(), "error", err)
		return
	}

	forecasts, err := model.Forecast(horizon)
	if err != nil {
		slog.Warn("forecast failed", "order", result.BestOrder.String(), "error", err)
		return
	}

	fmt.Printf("\nForecast (%d steps ahead):\n", horizon)
	for i, f := range forecasts {
		fmt.Printf("  t+%d: %.3f\n", i+1, f)
	}

	if am, ok := model.(*arima.Model); ok {
		stats := am.Stats()
		fmt.Printf("AIC=%.2f AICc=%.2f BIC=%.2f\n", stats.AIC, stats.AICc, stats.BIC)
	}
}

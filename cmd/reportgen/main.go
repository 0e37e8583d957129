// Command reportgen runs the report engine over two spreadsheet exports and
// writes the summary as CSV files, an XLSX workbook, or JSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"trialcli/internal/exporter"
	"trialcli/internal/services"
)

func main() {
	var (
		participantsPath = flag.String("participants", "", "path to the participant export (.xlsx or .csv)")
		eventsPath       = flag.String("events", "", "path to the diarrheal events export (.xlsx or .csv)")
		outDir           = flag.String("out", "reports", "output directory")
		format           = flag.String("format", "xlsx", "output format: xlsx, csv or json")
		verbose          = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *participantsPath == "" || *eventsPath == "" {
		fmt.Fprintln(os.Stderr, "reportgen: -participants and -events are required")
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(context.Background(), logger, *participantsPath, *eventsPath, *outDir, *format); err != nil {
		logger.Error("report generation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, participantsPath, eventsPath, outDir, format string) error {
	start := time.Now()

	svc := services.NewReportService(logger)
	summary, err := svc.GenerateFromFiles(ctx, participantsPath, eventsPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	generatedAt := time.Now()
	switch format {
	case "xlsx":
		path := filepath.Join(outDir, "summary_report.xlsx")
		if err := exporter.WriteWorkbook(path, summary, generatedAt); err != nil {
			return err
		}
		logger.Info("report written", slog.String("path", path))
	case "csv":
		paths, err := exporter.NewCSVWriter(outDir).WriteSummary(summary)
		if err != nil {
			return err
		}
		logger.Info("report written", slog.Int("files", len(paths)), slog.String("dir", outDir))
	case "json":
		path := filepath.Join(outDir, "summary_report.json")
		if err := exporter.WriteJSON(path, summary, generatedAt); err != nil {
			return err
		}
		logger.Info("report written", slog.String("path", path))
	default:
		return fmt.Errorf("unknown format %q (want xlsx, csv or json)", format)
	}

	logger.Info("done",
		slog.Int("sites", len(summary.Sites)),
		slog.Int("total_events", summary.Totals.TotalDiarrhealEvents),
		slog.Int("unmapped_events", summary.UnmappedEvents),
		slog.String("duration", time.Since(start).String()))
	return nil
}

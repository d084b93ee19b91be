package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/locvowork/stockcount/internal/bootstrap"
	"github.com/locvowork/stockcount/internal/logger"
	"github.com/locvowork/stockcount/internal/service"
	"github.com/locvowork/stockcount/pkg/tabular"
)

func main() {
	catalogPath := flag.String("catalog", "", "Catalog file (.csv or .xlsx)")
	schedulePath := flag.String("schedule", "", "Schedule file (.csv or .xlsx)")
	date := flag.String("date", "", "Report date YYYY-MM-DD (default: today)")
	outDir := flag.String("out", ".", "Output directory")
	catalogDB := flag.Bool("catalog-db", false, "Read the catalog from Postgres instead of -catalog")

	flag.Parse()

	if err := run(*catalogPath, *schedulePath, *date, *outDir, *catalogDB); err != nil {
		fmt.Fprintln(os.Stderr, "stockcount:", err)
		os.Exit(1)
	}
}

func run(catalogPath, schedulePath, date, outDir string, catalogDB bool) error {
	ctx := context.Background()

	if schedulePath == "" {
		return fmt.Errorf("-schedule is required")
	}
	if catalogPath == "" && !catalogDB {
		return fmt.Errorf("-catalog or -catalog-db is required")
	}

	app := bootstrap.NewApp()
	if err := app.Setup(ctx, catalogDB); err != nil {
		return err
	}
	defer app.Close()

	req := service.BuildRequest{}
	schedule, err := tabular.ReadFile(schedulePath)
	if err != nil {
		return fmt.Errorf("read schedule: %w", err)
	}
	req.Schedule = schedule

	if catalogPath != "" {
		catalog, err := tabular.ReadFile(catalogPath)
		if err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}
		req.Catalog = catalog
	}

	if d := strings.TrimSpace(date); d != "" {
		parsed, err := civil.ParseDate(d)
		if err != nil {
			return fmt.Errorf("-date must be YYYY-MM-DD: %w", err)
		}
		req.Date = &parsed
	}

	report, err := app.ReportSvc.Build(ctx, req)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(outDir, report.FileName)
	if err := os.WriteFile(path, report.Data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	logger.InfoLog(ctx, "Wrote %s: %d rows on %d sheets, %d products, %d schedule rows skipped",
		path, report.Rows, len(report.Sheets), report.Products, report.SkippedRows)
	return nil
}

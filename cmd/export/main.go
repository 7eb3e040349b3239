// Command export loads an orders CSV, summarises one date range and writes the
// summary as an XLSX workbook and/or a SQLite database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"orders-dashboard/internal/config"
	"orders-dashboard/internal/export"
	"orders-dashboard/internal/observability"
	"orders-dashboard/internal/services"
	"orders-dashboard/internal/ui/format"
)

type options struct {
	csvPath    string
	start      string
	end        string
	xlsxPath   string
	sqlitePath string
	logLevel   string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.csvPath, "csv", "data_gabungan.csv", "Input orders CSV")
	fs.StringVar(&opts.start, "start", "", "First day to include (YYYY-MM-DD, default: first day in data)")
	fs.StringVar(&opts.end, "end", "", "Last day to include (YYYY-MM-DD, default: last day in data)")
	fs.StringVar(&opts.xlsxPath, "xlsx", "", "XLSX output path")
	fs.StringVar(&opts.sqlitePath, "sqlite", "", "SQLite output path")
	fs.StringVar(&opts.logLevel, "log-level", "info", "debug | info | warn | error")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.xlsxPath == "" && opts.sqlitePath == "" {
		return options{}, errors.New("at least one of -xlsx or -sqlite is required")
	}
	return opts, nil
}

func run(ctx context.Context, opts options, logger *slog.Logger) error {
	rng, err := services.ParseRange(opts.start, opts.end)
	if err != nil {
		return err
	}

	analytics := services.NewAnalytics(services.WithLogger(logger))
	if err := analytics.LoadFromCSV(ctx, opts.csvPath); err != nil {
		return err
	}

	bundle, err := analytics.Recompute(ctx, rng)
	if err != nil {
		return err
	}
	logger.Info("summary computed",
		"start", format.DateLabel(bundle.Range.Start),
		"end", format.DateLabel(bundle.Range.End),
		"records", bundle.RecordCount,
		"orders", bundle.TotalOrders,
	)

	g, gctx := errgroup.WithContext(ctx)
	if opts.xlsxPath != "" {
		g.Go(func() error {
			f, err := os.Create(opts.xlsxPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", opts.xlsxPath, err)
			}
			if err := export.WriteXLSX(f, bundle); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", opts.xlsxPath, err)
			}
			logger.Info("workbook written", "path", opts.xlsxPath)
			return nil
		})
	}
	if opts.sqlitePath != "" {
		g.Go(func() error {
			if err := export.WriteSQLite(gctx, opts.sqlitePath, bundle); err != nil {
				return err
			}
			logger.Info("database written", "path", opts.sqlitePath)
			return nil
		})
	}
	return g.Wait()
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := observability.NewLogger(config.LoggerConfig{Level: opts.logLevel, Format: "text"})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}
}

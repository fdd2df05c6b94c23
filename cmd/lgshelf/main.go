// Command lgshelf scrapes an LG US product-listing category.
//
// Usage:
//
//	lgshelf "oled tv"                       # NDJSON records to stdout
//	lgshelf -out ./data "refrigerator"      # plus JSON file output
//	lgshelf -db lgshelf.db "washer"         # plus SQLite run archive
//
// Exit code 0 on completion (individual product skips included);
// non-zero only when the listing page itself is unreachable.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/hazyhaar/lgshelf/scrape"
)

func main() {
	configPath := flag.String("config", "", "path to lgshelf.yaml config file")
	outDir := flag.String("out", "", "write a JSON file with all records into this directory")
	dbPath := flag.String("db", "", "archive the run into this SQLite database")
	noStdout := flag.Bool("no-stdout", false, "suppress NDJSON record output on stdout")
	headful := flag.Bool("headful", false, "run Chrome with a visible window")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "json", "log format: json, text")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, `usage: lgshelf [flags] <product type>   (e.g. lgshelf "oled tv")`)
		os.Exit(2)
	}
	query := strings.Join(flag.Args(), " ")

	logger := newLogger(*logLevel, *logFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, query, *configPath, *outDir, *dbPath, *noStdout, *headful); err != nil {
		logger.Error("lgshelf: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, query, configPath, outDir, dbPath string, noStdout, headful bool) error {
	var cfg *scrape.Config
	if configPath != "" {
		loaded, err := scrape.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = scrape.DefaultConfig()
		cfg.Output.Stdout = true
	}

	// Flags override the file.
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if dbPath != "" {
		cfg.Output.DBPath = dbPath
	}
	if noStdout {
		cfg.Output.Stdout = false
	}
	if headful {
		cfg.Browser.Headful = true
	}

	s := scrape.New(cfg, logger)
	summary, err := s.Run(ctx, query)
	if err != nil {
		if errors.Is(err, scrape.ErrListingUnreachable) {
			return fmt.Errorf("listing for %q: %w", query, err)
		}
		return err
	}

	logger.Info("lgshelf: done",
		"query", summary.Query,
		"category", summary.CategoryURL,
		"listed", summary.Listed,
		"extracted", summary.Extracted,
		"skipped", summary.Skipped,
		"output_file", summary.OutputFile)
	return nil
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	var handler slog.Handler
	if format == "text" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      lvl,
			TimeFormat: time.RFC3339,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

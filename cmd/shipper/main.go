package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Kanze89/adscraper/internal/archive"
	"github.com/Kanze89/adscraper/internal/config"
	"github.com/Kanze89/adscraper/internal/export"
	"github.com/Kanze89/adscraper/internal/infrastructure"
	"github.com/Kanze89/adscraper/internal/mailer"
	"github.com/Kanze89/adscraper/internal/publisher"
)

func main() {
	ledger := flag.String("ledger", "output/combined.csv", "combined CSV ledger path")
	xlsxOut := flag.String("xlsx", "output/banners.xlsx", "output workbook path")
	screenshots := flag.String("screenshots", "banner_screenshots", "screenshots root directory")
	zipOut := flag.String("zip", "output/banners.zip", "output archive path")
	repoDir := flag.String("repo", ".", "git repository to publish")
	weekly := flag.Bool("weekly", false, "bundle the last 7 days and send the weekly email")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if _, err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
	}

	ctx := infrastructure.ContextWithRunID(context.Background())
	logger := infrastructure.LoggerWithContext(ctx)

	today := time.Now()
	logger.Info("Starting shipping run",
		slog.String("ledger", *ledger),
		slog.String("workbook", *xlsxOut),
		slog.String("screenshots", *screenshots),
		slog.String("archive", *zipOut),
		slog.Bool("weekly", *weekly))

	// Workbook first so the bundle always carries the spreadsheet,
	// even when the ledger is missing.
	exporter := export.New(cfg.Links, infrastructure.WithComponent(logger, "export"))
	if err := exporter.Export(*ledger, *xlsxOut); err != nil {
		logger.Error("Workbook export failed",
			slog.String("error", err.Error()))
	}

	archiver := archive.NewArchiver(infrastructure.WithComponent(logger, "archive"))
	attachments := existingPaths(*xlsxOut, *ledger)

	if *weekly {
		err := archiver.ArchiveWindow(*screenshots, *zipOut, cfg.Archive.Sites, cfg.Archive.WindowDays)
		if err != nil {
			logger.Error("Weekly archive failed",
				slog.String("error", err.Error()))
		} else {
			attachments = append(attachments, *zipOut)
		}

		m := mailer.New(cfg.Mail, infrastructure.WithComponent(logger, "mail"))
		subject := fmt.Sprintf("Weekly banner bundle %s", today.Format("2006-01-02"))
		body := fmt.Sprintf(
			"Banner screenshots for the last %d days are attached, together with the combined ledger and the workbook with clickable links.",
			cfg.Archive.WindowDays)
		if err := m.Send(subject, body, attachments); err != nil {
			logger.Error("Email delivery failed",
				slog.String("error", err.Error()))
		}
	} else {
		ok, err := archiver.ArchiveDay(*screenshots, *zipOut, cfg.Archive.Sites, today)
		switch {
		case err != nil:
			logger.Error("Daily archive failed",
				slog.String("error", err.Error()))
		case !ok:
			logger.Info("No files for today, discarding empty archive",
				slog.String("archive", *zipOut))
			_ = os.Remove(*zipOut)
		}
	}

	pub := publisher.New(cfg.Git, infrastructure.WithComponent(logger, "git"))
	message := fmt.Sprintf("update banners %s", today.Format("2006-01-02"))
	results := pub.Publish(ctx, *repoDir, message)
	for _, r := range results {
		if !r.OK() {
			logger.Warn("Publish step degraded",
				slog.String("step", r.Step),
				slog.Int("exit_code", r.ExitCode))
		}
	}

	logger.Info("Shipping run complete")
}

// existingPaths filters the candidate attachment list down to files
// that are actually present.
func existingPaths(paths ...string) []string {
	var out []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

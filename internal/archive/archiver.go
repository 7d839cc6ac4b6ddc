package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// dateLayout is the folder naming scheme under each site directory.
const dateLayout = "2006-01-02"

// Archiver bundles screenshot folders organized as
// <root>/<site>/<YYYY-MM-DD>/... into zip archives. A missing site
// directory or a subfolder that is not date-named is skipped silently;
// partial coverage is expected.
type Archiver struct {
	logger *slog.Logger
}

// NewArchiver creates an archiver.
func NewArchiver(logger *slog.Logger) *Archiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{logger: logger}
}

// ArchiveDay zips exactly one date folder per site and reports whether
// any file made it into the archive. Callers typically discard the
// archive when it returns false.
func (a *Archiver) ArchiveDay(root, outPath string, sites []string, day time.Time) (bool, error) {
	date := day.Format(dateLayout)
	count, err := a.write(root, outPath, sites, func(name string) bool {
		return name == date
	})
	if err != nil {
		return false, err
	}
	a.logger.Info("daily archive written",
		slog.String("output", outPath),
		slog.String("date", date),
		slog.Int("files", count))
	return count > 0, nil
}

// ArchiveWindow zips every date folder within the inclusive window
// [today-windowDays, today] for each site.
func (a *Archiver) ArchiveWindow(root, outPath string, sites []string, windowDays int) error {
	today := time.Now()
	return a.archiveWindowFrom(root, outPath, sites, windowDays, today)
}

func (a *Archiver) archiveWindowFrom(root, outPath string, sites []string, windowDays int, today time.Time) error {
	cutoff := truncateToDay(today).AddDate(0, 0, -windowDays)
	upper := truncateToDay(today)

	count, err := a.write(root, outPath, sites, func(name string) bool {
		d, err := time.Parse(dateLayout, name)
		if err != nil {
			// Folder names like "latest" are not an error.
			return false
		}
		return !d.Before(cutoff) && !d.After(upper)
	})
	if err != nil {
		return err
	}
	a.logger.Info("window archive written",
		slog.String("output", outPath),
		slog.Int("window_days", windowDays),
		slog.Int("files", count))
	return nil
}

// write walks each selected site/date folder and streams every file
// into a fresh zip at outPath. Entry names are relative to root with
// forward slashes so the site/date hierarchy survives extraction.
func (a *Archiver) write(root, outPath string, sites []string, selectDate func(string) bool) (int, error) {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	count := 0

	for _, site := range sites {
		siteRoot := filepath.Join(root, site)
		entries, err := os.ReadDir(siteRoot)
		if err != nil {
			a.logger.Debug("site directory not readable, skipping",
				slog.String("site", site),
				slog.String("path", siteRoot))
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() || !selectDate(entry.Name()) {
				continue
			}
			n, err := a.addFolder(zw, root, filepath.Join(siteRoot, entry.Name()))
			if err != nil {
				zw.Close()
				return 0, err
			}
			count += n
		}
	}

	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("failed to close archive: %w", err)
	}
	return count, nil
}

// addFolder recursively adds every file under folder to the archive.
func (a *Archiver) addFolder(zw *zip.Writer, root, folder string) (int, error) {
	count := 0
	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to compute entry name for %s: %w", path, err)
		}

		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return fmt.Errorf("failed to create archive entry: %w", err)
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()

		if _, err := io.Copy(w, f); err != nil {
			return fmt.Errorf("failed to write %s into archive: %w", path, err)
		}
		count++
		return nil
	})
	return count, err
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

package export

import (
	"path/filepath"
	"strings"

	"github.com/Kanze89/adscraper/internal/config"
)

// Strategy identifies which fallback produced a hyperlink.
type Strategy string

const (
	// StrategyRaw links straight to the file bytes on the raw host.
	StrategyRaw Strategy = "raw"
	// StrategyViewer links to the hosted repository browser page.
	StrategyViewer Strategy = "viewer"
	// StrategyLocalFile is the last-resort file:// link, only useful on
	// machines that can see the local path.
	StrategyLocalFile Strategy = "file"
	// StrategyNone means the row had no path to link.
	StrategyNone Strategy = "none"
)

// Resolution is the computed link for one ledger row.
type Resolution struct {
	// Display is the text shown in the workbook, never an absolute
	// local path.
	Display string
	// URL is the hyperlink target, empty when the row has no path.
	URL string
	// Strategy records which fallback produced URL.
	Strategy Strategy
}

// LinkResolver turns local screenshot paths into shareable links using
// an ordered fallback list: raw base, viewer base, file:// URL.
type LinkResolver struct {
	outputRoot string
	rawBase    string
	publicBase string
}

// NewLinkResolver builds a resolver from link configuration. When no
// raw base is configured but the public base looks like a GitHub blob
// URL, the raw base is derived from it.
func NewLinkResolver(cfg config.LinksConfig) *LinkResolver {
	raw := strings.TrimRight(cfg.RawBaseURL, "/")
	public := strings.TrimRight(cfg.PublicBaseURL, "/")
	if raw == "" && public != "" {
		raw = deriveRawBase(public)
	}
	return &LinkResolver{
		outputRoot: cfg.OutputRoot,
		rawBase:    raw,
		publicBase: public,
	}
}

// deriveRawBase converts a viewer base like
// https://github.com/<user>/<repo>/blob/<branch> into
// https://raw.githubusercontent.com/<user>/<repo>/<branch>.
// Returns "" when the base has no /blob/ segment.
func deriveRawBase(publicBase string) string {
	left, branch, found := strings.Cut(publicBase, "/blob/")
	if !found || branch == "" {
		return ""
	}
	left = strings.Replace(left, "https://github.com/", "https://raw.githubusercontent.com/", 1)
	return left + "/" + branch
}

// Resolve computes the display text and hyperlink for one local path.
func (r *LinkResolver) Resolve(localPath string) Resolution {
	if localPath == "" {
		return Resolution{Strategy: StrategyNone}
	}

	rel := r.relativePath(localPath)

	res := Resolution{Display: rel}
	if res.Display == "" {
		res.Display = filepath.Base(localPath)
	}

	switch {
	case r.rawBase != "" && rel != "":
		res.URL = r.rawBase + "/" + strings.TrimLeft(rel, "/")
		res.Strategy = StrategyRaw
	case r.publicBase != "" && rel != "":
		res.URL = r.publicBase + "/" + strings.TrimLeft(rel, "/")
		res.Strategy = StrategyViewer
	default:
		res.URL = fileURL(localPath)
		res.Strategy = StrategyLocalFile
	}
	return res
}

// relativePath makes localPath relative to the output root with
// forward slashes. Returns "" when the root is unset or the path lies
// outside it.
func (r *LinkResolver) relativePath(localPath string) string {
	if r.outputRoot == "" {
		return ""
	}
	rel, err := filepath.Rel(r.outputRoot, localPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return filepath.ToSlash(rel)
}

// fileURL builds a file:// URL from the absolute local path.
func fileURL(localPath string) string {
	abs, err := filepath.Abs(localPath)
	if err != nil {
		abs = localPath
	}
	return "file:///" + strings.TrimPrefix(filepath.ToSlash(abs), "/")
}

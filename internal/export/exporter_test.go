package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Kanze89/adscraper/internal/config"
)

func writeLedger(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "combined.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func openSheet(t *testing.T, path string) (*excelize.File, [][]string) {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	return f, rows
}

func TestExportMissingLedger(t *testing.T) {
	out := filepath.Join(t.TempDir(), "banners.xlsx")
	e := New(config.LinksConfig{}, nil)

	err := e.Export(filepath.Join(t.TempDir(), "does-not-exist.csv"), out)
	require.NoError(t, err)

	_, rows := openSheet(t, out)
	assert.Empty(t, rows)
}

func TestExportEmptyLedger(t *testing.T) {
	ledger := writeLedger(t, "")
	out := filepath.Join(t.TempDir(), "banners.xlsx")

	require.NoError(t, New(config.LinksConfig{}, nil).Export(ledger, out))

	_, rows := openSheet(t, out)
	assert.Empty(t, rows)
}

func TestExportHeaderOnlyLedger(t *testing.T) {
	ledger := writeLedger(t, "site,image_path,width\n")
	out := filepath.Join(t.TempDir(), "banners.xlsx")

	require.NoError(t, New(config.LinksConfig{}, nil).Export(ledger, out))

	_, rows := openSheet(t, out)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"site", "width", openLinkLabel}, rows[0])
}

func TestExportDropsPathColumnsAndLinks(t *testing.T) {
	root := t.TempDir()
	img := filepath.Join(root, "news.mn", "2025-09-18", "banner.png")
	ledger := writeLedger(t,
		"site,image_path,width\n"+
			"news.mn,"+img+",728\n")
	out := filepath.Join(t.TempDir(), "banners.xlsx")

	e := New(config.LinksConfig{
		OutputRoot: root,
		RawBaseURL: "https://raw.githubusercontent.com/u/r/main",
	}, nil)
	require.NoError(t, e.Export(ledger, out))

	f, rows := openSheet(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"site", "width", openLinkLabel}, rows[0])
	assert.Equal(t, []string{"news.mn", "728", openLinkLabel}, rows[1])

	// The trailing link column carries the raw-content hyperlink.
	ok, target, err := f.GetCellHyperLink(sheetName, "C2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://raw.githubusercontent.com/u/r/main/news.mn/2025-09-18/banner.png", target)

	// No cell anywhere shows the absolute local path.
	for _, row := range rows {
		for _, cell := range row {
			assert.NotEqual(t, img, cell)
		}
	}
}

func TestExportShowPathColumns(t *testing.T) {
	root := t.TempDir()
	img := filepath.Join(root, "gogo.mn", "2025-09-18", "ad.png")
	ledger := writeLedger(t,
		"site,example_path\n"+
			"gogo.mn,"+img+"\n")
	out := filepath.Join(t.TempDir(), "banners.xlsx")

	e := New(config.LinksConfig{
		OutputRoot:      root,
		PublicBaseURL:   "https://github.com/u/r/blob/main",
		ShowPathColumns: true,
	}, nil)
	require.NoError(t, e.Export(ledger, out))

	f, rows := openSheet(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"site", "example_path", openLinkLabel}, rows[0])
	// The path cell shows the relative path, not the absolute one.
	assert.Equal(t, "gogo.mn/2025-09-18/ad.png", rows[1][1])

	ok, target, err := f.GetCellHyperLink(sheetName, "B2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://raw.githubusercontent.com/u/r/main/gogo.mn/2025-09-18/ad.png", target)
}

func TestExportPrefersExamplePathColumn(t *testing.T) {
	root := t.TempDir()
	example := filepath.Join(root, "ikon.mn", "2025-09-18", "example.png")
	ledger := writeLedger(t,
		"site,image_path,example_path\n"+
			"ikon.mn,"+filepath.Join(root, "other.png")+","+example+"\n")
	out := filepath.Join(t.TempDir(), "banners.xlsx")

	e := New(config.LinksConfig{
		OutputRoot: root,
		RawBaseURL: "https://raw.githubusercontent.com/u/r/main",
	}, nil)
	require.NoError(t, e.Export(ledger, out))

	f, rows := openSheet(t, out)
	require.Len(t, rows, 2)
	// Both path columns are dropped; only site plus the link column stay.
	assert.Equal(t, []string{"site", openLinkLabel}, rows[0])

	ok, target, err := f.GetCellHyperLink(sheetName, "B2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://raw.githubusercontent.com/u/r/main/ikon.mn/2025-09-18/example.png", target)
}

func TestExportRowWithEmptyPathHasNoLink(t *testing.T) {
	ledger := writeLedger(t,
		"site,image_path\n"+
			"news.mn,\n")
	out := filepath.Join(t.TempDir(), "banners.xlsx")

	e := New(config.LinksConfig{OutputRoot: t.TempDir()}, nil)
	require.NoError(t, e.Export(ledger, out))

	f, rows := openSheet(t, out)
	require.Len(t, rows, 2)

	ok, _, err := f.GetCellHyperLink(sheetName, "B2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExportOverwritesExistingWorkbook(t *testing.T) {
	ledger := writeLedger(t, "site\nnews.mn\n")
	out := filepath.Join(t.TempDir(), "banners.xlsx")
	require.NoError(t, os.WriteFile(out, []byte("stale"), 0o644))

	require.NoError(t, New(config.LinksConfig{}, nil).Export(ledger, out))

	_, rows := openSheet(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, "news.mn", rows[1][0])
}

func TestExportCreatesOutputDirectory(t *testing.T) {
	ledger := writeLedger(t, "site\nnews.mn\n")
	out := filepath.Join(t.TempDir(), "reports", "weekly", "banners.xlsx")

	require.NoError(t, New(config.LinksConfig{}, nil).Export(ledger, out))

	_, err := os.Stat(out)
	assert.NoError(t, err)
}

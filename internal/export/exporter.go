package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/Kanze89/adscraper/internal/config"
)

const (
	sheetName     = "banners"
	openLinkLabel = "open"
	columnWidth   = 30.0
)

// pathColumns are the ledger columns that hold a local image path, in
// priority order. The first one present in the header identifies the
// row's image.
var pathColumns = []string{"example_path", "image_path"}

// Exporter converts the combined CSV ledger into an XLSX workbook with
// one clickable link per row.
type Exporter struct {
	resolver        *LinkResolver
	showPathColumns bool
	logger          *slog.Logger
}

// New creates an exporter from link configuration.
func New(cfg config.LinksConfig, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		resolver:        NewLinkResolver(cfg),
		showPathColumns: cfg.ShowPathColumns,
		logger:          logger,
	}
}

// Export reads the ledger CSV and writes the workbook to outPath,
// overwriting any previous file. A missing ledger is not an error: an
// empty workbook is written so the bundle always has its spreadsheet.
func (e *Exporter) Export(ledgerPath, outPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	ledger, err := os.Open(ledgerPath)
	if err != nil {
		e.logger.Warn("ledger not found, writing empty workbook",
			slog.String("ledger", ledgerPath),
			slog.String("output", outPath))
		return f.SaveAs(outPath)
	}
	defer ledger.Close()

	reader := csv.NewReader(ledger)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err == io.EOF {
		e.logger.Warn("ledger is empty, writing empty workbook",
			slog.String("ledger", ledgerPath))
		return f.SaveAs(outPath)
	}
	if err != nil {
		return fmt.Errorf("failed to read ledger header: %w", err)
	}

	plan := newColumnPlan(header, e.showPathColumns)
	if err := f.SetSheetRow(sheetName, "A1", &plan.outputHeader); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	linkStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "0563C1", Underline: "single"},
	})
	if err != nil {
		return fmt.Errorf("failed to create hyperlink style: %w", err)
	}

	rows := 0
	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read ledger row %d: %w", rowNum-1, err)
		}

		res := e.resolver.Resolve(plan.pathValue(record))
		cells := plan.outputCells(record, res.Display)
		addr, err := excelize.JoinCellName("A", rowNum)
		if err != nil {
			return fmt.Errorf("failed to compute cell address: %w", err)
		}
		if err := f.SetSheetRow(sheetName, addr, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", rowNum, err)
		}

		if res.URL != "" {
			for _, col := range plan.linkColumns() {
				cell, err := excelize.CoordinatesToCellName(col, rowNum)
				if err != nil {
					return fmt.Errorf("failed to compute cell name: %w", err)
				}
				if err := f.SetCellHyperLink(sheetName, cell, res.URL, "External"); err != nil {
					return fmt.Errorf("failed to set hyperlink: %w", err)
				}
				if err := f.SetCellStyle(sheetName, cell, cell, linkStyle); err != nil {
					return fmt.Errorf("failed to style hyperlink cell: %w", err)
				}
			}
		}
		rows++
	}

	lastCol, err := excelize.ColumnNumberToName(len(plan.outputHeader))
	if err == nil {
		_ = f.SetColWidth(sheetName, "A", lastCol, columnWidth)
	}

	if err := f.SaveAs(outPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	e.logger.Info("workbook written",
		slog.String("output", outPath),
		slog.Int("rows", rows),
		slog.String("link_column", plan.pathColumnName))
	return nil
}

// columnPlan maps ledger columns onto workbook columns. The evolved
// layout drops the local path columns and appends a trailing link
// column; the legacy layout (showPath) keeps every column and rewrites
// the identifying path cell with the display text.
type columnPlan struct {
	outputHeader   []interface{}
	keep           []int
	pathIdx        int
	pathOutCol     int
	pathColumnName string
	showPath       bool
}

func newColumnPlan(header []string, showPath bool) *columnPlan {
	p := &columnPlan{pathIdx: -1, showPath: showPath}

	for _, name := range pathColumns {
		for i, h := range header {
			if h == name {
				p.pathIdx = i
				p.pathColumnName = name
				break
			}
		}
		if p.pathIdx >= 0 {
			break
		}
	}

	for i, h := range header {
		if !showPath && isPathColumn(h) {
			continue
		}
		p.keep = append(p.keep, i)
		p.outputHeader = append(p.outputHeader, h)
		if i == p.pathIdx {
			p.pathOutCol = len(p.keep)
		}
	}
	p.outputHeader = append(p.outputHeader, openLinkLabel)
	return p
}

func isPathColumn(name string) bool {
	for _, pc := range pathColumns {
		if name == pc {
			return true
		}
	}
	return false
}

// pathValue extracts the identifying path from a ledger record.
func (p *columnPlan) pathValue(record []string) string {
	if p.pathIdx < 0 || p.pathIdx >= len(record) {
		return ""
	}
	return record[p.pathIdx]
}

// outputCells builds the workbook row: kept columns verbatim, the path
// cell rewritten to the display text when shown, and the fixed link
// label last.
func (p *columnPlan) outputCells(record []string, display string) []interface{} {
	cells := make([]interface{}, 0, len(p.keep)+1)
	for _, i := range p.keep {
		var v string
		if i < len(record) {
			v = record[i]
		}
		if p.showPath && i == p.pathIdx {
			v = display
		}
		cells = append(cells, v)
	}
	return append(cells, openLinkLabel)
}

// linkColumns returns the 1-based workbook columns that carry the
// row's hyperlink: always the trailing link column, plus the rewritten
// path cell in the legacy layout.
func (p *columnPlan) linkColumns() []int {
	cols := []int{len(p.keep) + 1}
	if p.showPath && p.pathOutCol > 0 {
		cols = append(cols, p.pathOutCol)
	}
	return cols
}

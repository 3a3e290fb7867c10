package fcreport

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ukaji3/fcreport-go/pkg/fcreport/models"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/parser"
	"github.com/xuri/excelize/v2"
)

// SheetData is one parsed sheet and the workbook file it came from.
type SheetData struct {
	File  string
	Sheet *parser.Sheet
}

// Load reads every sheet of every existing workbook and unifies them into one table.
// Missing paths are skipped. Sheet and workbook failures are recorded in the report;
// if no sheet parses at all, Load returns a *NoDataError.
func Load(paths []string, opts Options) (*models.Table, models.LoadReport, error) {
	logger := opts.logger()
	var (
		report models.LoadReport
		sheets []SheetData
	)

	for _, path := range paths {
		file := filepath.Base(path)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Debug("skipping missing workbook", "path", path)
				continue
			}
			report = append(report, models.SourceEntry{File: file, Error: err.Error()})
			continue
		}

		parsed, entries, err := loadWorkbook(path, opts)
		if err != nil {
			logger.Warn("cannot open workbook", "file", file, "err", err)
			report = append(report, models.SourceEntry{File: file, Error: err.Error()})
			continue
		}
		report = append(report, entries...)
		for _, sh := range parsed {
			sheets = append(sheets, SheetData{File: file, Sheet: sh})
		}
	}

	if len(sheets) == 0 {
		return nil, report, &NoDataError{Paths: paths, Report: report}
	}

	table := Unify(sheets)
	logger.Info("loaded workbooks", "sheets", len(sheets), "rows", table.Len(), "columns", len(table.Columns))
	return table, report, nil
}

// loadWorkbook parses every sheet of one workbook, recording per-sheet outcomes.
func loadWorkbook(path string, opts Options) ([]*parser.Sheet, []models.SourceEntry, error) {
	file := filepath.Base(path)
	f, err := openWorkbook(path, opts)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var printAreas map[string]models.Region
	if opts.UsePrintAreas {
		printAreas = parser.PrintAreas(f)
	}

	var (
		sheets  []*parser.Sheet
		entries []models.SourceEntry
	)
	for _, sheetName := range f.GetSheetList() {
		sheetOpts := parser.SheetOptions{Region: opts.Region}
		if area, ok := printAreas[sheetName]; ok {
			sheetOpts.Clip = &area
		}

		sh, err := parser.ExtractSheet(f, sheetName, sheetOpts)
		if err != nil {
			lerr := &LoadError{File: file, Sheet: sheetName, Err: err}
			opts.logger().Warn("skipping sheet", "err", lerr)
			entries = append(entries, models.SourceEntry{File: file, Sheet: sheetName, Error: err.Error()})
			continue
		}
		sheets = append(sheets, sh)
		entries = append(entries, models.SourceEntry{
			File:    file,
			Sheet:   sheetName,
			Rows:    len(sh.Rows),
			Columns: sh.Header,
		})
	}
	return sheets, entries, nil
}

// openWorkbook opens an xlsx file, detecting encrypted and legacy containers first.
func openWorkbook(path string, opts Options) (*excelize.File, error) {
	info, err := parser.SniffContainer(path)
	if err != nil {
		return nil, err
	}

	switch info.Kind {
	case parser.ContainerLegacy:
		if info.Title != "" {
			return nil, fmt.Errorf("%w (%q)", ErrLegacyFormat, info.Title)
		}
		return nil, ErrLegacyFormat
	case parser.ContainerEncrypted:
		if opts.Password == "" {
			return nil, ErrEncrypted
		}
		return excelize.OpenFile(path, excelize.Options{Password: opts.Password})
	}
	return excelize.OpenFile(path)
}

// Unify unions the columns of every sheet and concatenates their rows in order.
// Cells a sheet never had are null; provenance columns come last.
func Unify(sheets []SheetData) *models.Table {
	table := &models.Table{}
	seen := make(map[string]bool)
	total := 0
	for _, sd := range sheets {
		for _, col := range sd.Sheet.Header {
			if !seen[col] {
				seen[col] = true
				table.Columns = append(table.Columns, col)
			}
		}
		total += len(sd.Sheet.Rows)
	}

	table.Rows = make([]models.Row, 0, total)
	for _, sd := range sheets {
		for _, values := range sd.Sheet.Rows {
			cells := make(map[string]models.Value, len(table.Columns))
			for _, col := range table.Columns {
				cells[col] = models.Null()
			}
			for i, col := range sd.Sheet.Header {
				if i < len(values) {
					cells[col] = values[i]
				}
			}
			table.Rows = append(table.Rows, models.Row{
				SourceFile: sd.File,
				Sheet:      sd.Sheet.Name,
				Cells:      cells,
			})
		}
	}

	table.Columns = append(table.Columns, models.SourceFileColumn, models.SheetColumn)
	return table
}

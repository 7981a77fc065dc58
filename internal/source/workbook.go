package source

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dbsmedya/goreport/internal/dataset"
)

// SheetNotFoundError is returned when the configured sheet is absent.
type SheetNotFoundError struct {
	Sheet     string
	Available []string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheet %q not found (available: %s)", e.Sheet, strings.Join(e.Available, ", "))
}

func loadWorkbook(path, sheet string) (*dataset.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, &SheetNotFoundError{Sheet: sheet, Available: f.GetSheetList()}
	}

	// Raw values keep numbers free of display formatting and date cells as
	// serial day numbers.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	return dataset.FromRecords(dropBlankRows(rows))
}

// dropBlankRows removes rows without any non-space cell. The first remaining
// row is the header.
func dropBlankRows(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

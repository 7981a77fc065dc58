package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dbsmedya/goreport/internal/config"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Kind
		wantErr  bool
	}{
		{name: "xlsx", input: "data/employees.xlsx", expected: KindWorkbook},
		{name: "upper case extension", input: "EMPLOYEES.XLSX", expected: KindWorkbook},
		{name: "xlsm", input: "book.xlsm", expected: KindWorkbook},
		{name: "csv", input: "employees.csv", expected: KindCSV},
		{name: "mysql table", input: "mysql:employees", expected: KindMySQL},
		{name: "legacy xls", input: "employees.xls", wantErr: true},
		{name: "no extension", input: "employees", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := Detect(tt.input)
			if tt.wantErr {
				var unsupported *UnsupportedSourceError
				require.True(t, errors.As(err, &unsupported))
				assert.Equal(t, tt.input, unsupported.Input)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, kind)
		})
	}
}

// writeWorkbook saves rows to a new workbook, one value per cell.
func writeWorkbook(t *testing.T, sheetName string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), sheetName)
	for r, row := range rows {
		for c, val := range row {
			if val == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheetName, cell, val))
		}
	}

	path := filepath.Join(t.TempDir(), "employees.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestOpen_Workbook(t *testing.T) {
	path := writeWorkbook(t, "Staff", [][]interface{}{
		{nil},
		{"Age", "Salary", "Department", "Joining_Date"},
		{25, 50000.5, "Sales", "2020-01-15"},
		{35, 70000, "IT", 43845},
	})

	ds, err := Open(context.Background(), path, Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"Age", "Salary", "Department", "Joining_Date"}, ds.Fields())
	require.NoError(t, ds.Require())

	salary, err := ds.Floats("Salary")
	require.NoError(t, err)
	assert.Equal(t, []float64{50000.5, 70000}, salary)

	dates, err := ds.ParseDates("Joining_Date", config.DefaultDateLayouts)
	require.NoError(t, err)
	assert.Equal(t, 2020, dates[0].Year())
	assert.Equal(t, 2020, dates[1].Year())
}

func TestOpen_WorkbookFormattedCells(t *testing.T) {
	tests := []struct {
		name       string
		dateNumFmt int
	}{
		{name: "m/d/yyyy", dateNumFmt: 14},
		{name: "d-mmm-yy", dateNumFmt: 15},
		{name: "d-mmm", dateNumFmt: 16},
		{name: "mmm-yy", dateNumFmt: 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := excelize.NewFile()
			sheet := f.GetSheetName(0)
			require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Age", "Salary", "Department", "Joining_Date"}))
			require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{25, 50000, "Sales", time.Date(2018, time.March, 1, 0, 0, 0, 0, time.UTC)}))
			require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{35, 90000, "IT", time.Date(2019, time.July, 15, 0, 0, 0, 0, time.UTC)}))

			thousands, err := f.NewStyle(&excelize.Style{NumFmt: 3})
			require.NoError(t, err)
			require.NoError(t, f.SetCellStyle(sheet, "B2", "B3", thousands))

			dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: tt.dateNumFmt})
			require.NoError(t, err)
			require.NoError(t, f.SetCellStyle(sheet, "D2", "D3", dateStyle))

			path := filepath.Join(t.TempDir(), "formatted.xlsx")
			require.NoError(t, f.SaveAs(path))
			require.NoError(t, f.Close())

			ds, err := Open(context.Background(), path, Options{})
			require.NoError(t, err)
			require.NoError(t, ds.Require())
			assert.Equal(t, []string{"Age", "Salary"}, ds.NumericFields())

			salary, err := ds.Floats("Salary")
			require.NoError(t, err)
			assert.Equal(t, []float64{50000, 90000}, salary)

			dates, err := ds.ParseDates("Joining_Date", config.DefaultDateLayouts)
			require.NoError(t, err)
			require.Len(t, dates, 2)
			assert.Equal(t, 2018, dates[0].Year())
			assert.Equal(t, time.March, dates[0].Month())
			assert.Equal(t, 1, dates[0].Day())
			assert.Equal(t, 2019, dates[1].Year())
			assert.Equal(t, time.July, dates[1].Month())
			assert.Equal(t, 15, dates[1].Day())
		})
	}
}

func TestOpen_WorkbookNamedSheet(t *testing.T) {
	path := writeWorkbook(t, "Staff", [][]interface{}{
		{"Age", "Salary"},
		{25, 100},
	})

	ds, err := Open(context.Background(), path, Options{Sheet: "Staff"})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())

	_, err = Open(context.Background(), path, Options{Sheet: "Missing"})
	var notFound *SheetNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, []string{"Staff"}, notFound.Available)
}

func TestOpen_WorkbookNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.xlsx")

	_, err := Open(context.Background(), path, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestOpen_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "employees.csv")
	content := "Age,Salary,Department,Joining_Date\n" +
		"25,50000,Sales,2020-01-15\n" +
		"35,70000,IT,2019-06-01\n" +
		"45,90000,Sales,2021-03-20\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	ds, err := Open(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
	assert.NoError(t, ds.Require())
}

func TestOpen_Unsupported(t *testing.T) {
	_, err := Open(context.Background(), "employees.json", Options{})
	var unsupported *UnsupportedSourceError
	assert.True(t, errors.As(err, &unsupported))
}

func TestOpen_MySQLWithoutConfig(t *testing.T) {
	_, err := Open(context.Background(), "mysql:employees", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database configured")
}

func TestDropBlankRows(t *testing.T) {
	rows := [][]string{
		{},
		{"", " "},
		{"Age"},
		{},
		{"30"},
	}
	assert.Equal(t, [][]string{{"Age"}, {"30"}}, dropBlankRows(rows))
}

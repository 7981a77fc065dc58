// Package dataset holds the in-memory record set a report is computed from.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Field names the report pipeline depends on.
const (
	FieldAge         = "Age"
	FieldSalary      = "Salary"
	FieldDepartment  = "Department"
	FieldJoiningDate = "Joining_Date"

	// Derived from FieldJoiningDate by DeriveDateParts.
	FieldYear  = "Year"
	FieldMonth = "Month"
)

// RequiredFields lists the fields every input must carry.
var RequiredFields = []string{FieldAge, FieldSalary, FieldDepartment, FieldJoiningDate}

// nanValues are cell contents treated as missing.
var nanValues = []string{"", "NA", "NaN", "N/A", "<nil>"}

// ErrNoRows is returned when the input has a header but no data rows.
var ErrNoRows = errors.New("dataset has no data rows")

// ErrAlreadyDerived is returned when DeriveDateParts is called twice.
var ErrAlreadyDerived = errors.New("date parts already derived")

// MissingFieldError lists required fields absent from the input.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field(s): %s", strings.Join(e.Fields, ", "))
}

// FieldTypeError is returned when a field does not hold the expected kind of values.
type FieldTypeError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("field %q must be %s, got %s", e.Field, e.Expected, e.Actual)
}

// Dataset is an ordered collection of rows with typed columns.
// It is read-only apart from the Year/Month fields added by DeriveDateParts.
type Dataset struct {
	frame   dataframe.DataFrame
	numeric []string // numeric input fields, fixed at load time
	derived bool
}

// FromRecords builds a Dataset from string records. The first record is the header.
func FromRecords(records [][]string) (*Dataset, error) {
	if len(records) == 0 {
		return nil, errors.New("dataset has no header row")
	}
	if len(records) == 1 {
		return nil, ErrNoRows
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(name)
	}
	normalized := make([][]string, 0, len(records))
	normalized = append(normalized, header)
	for _, row := range records[1:] {
		normalized = append(normalized, normalizeRow(row, len(header)))
	}

	df := dataframe.LoadRecords(normalized,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(nanValues),
	)
	return fromFrame(df)
}

// ReadCSV builds a Dataset from CSV text with a header row.
// Rows may be ragged; short rows are padded with missing cells.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return FromRecords(records)
}

func fromFrame(df dataframe.DataFrame) (*Dataset, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("failed to load records: %w", df.Err)
	}
	if df.Nrow() == 0 {
		return nil, ErrNoRows
	}
	d := &Dataset{frame: df}
	for _, name := range df.Names() {
		// Serial day numbers type as Int but the field is a date.
		if name == FieldJoiningDate {
			continue
		}
		if d.IsNumeric(name) {
			d.numeric = append(d.numeric, name)
		}
	}
	return d, nil
}

// normalizeRow fits row to width and blanks missing-value markers so type
// detection sees them as gaps.
func normalizeRow(row []string, width int) []string {
	out := make([]string, width)
	for i := 0; i < width && i < len(row); i++ {
		cell := strings.TrimSpace(row[i])
		if isNaN(cell) {
			cell = ""
		}
		out[i] = cell
	}
	return out
}

func isNaN(cell string) bool {
	for _, v := range nanValues {
		if cell == v {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return d.frame.Nrow()
}

// Fields returns all field names in input order, derived fields last.
func (d *Dataset) Fields() []string {
	return d.frame.Names()
}

// HasField reports whether the dataset has a field with the given name.
func (d *Dataset) HasField(name string) bool {
	for _, n := range d.frame.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// IsNumeric reports whether the field holds integer or float values.
func (d *Dataset) IsNumeric(name string) bool {
	if !d.HasField(name) {
		return false
	}
	t := d.frame.Col(name).Type()
	return t == series.Int || t == series.Float
}

// NumericFields returns the numeric input fields in input order.
// Derived fields never participate in the summary or correlation views.
func (d *Dataset) NumericFields() []string {
	return append([]string(nil), d.numeric...)
}

// Floats returns a numeric field as float64 values; missing cells are NaN.
func (d *Dataset) Floats(name string) ([]float64, error) {
	if !d.HasField(name) {
		return nil, &MissingFieldError{Fields: []string{name}}
	}
	if !d.IsNumeric(name) {
		return nil, &FieldTypeError{Field: name, Expected: "numeric", Actual: string(d.frame.Col(name).Type())}
	}
	return d.frame.Col(name).Float(), nil
}

// Strings returns a field as strings; missing cells are empty.
func (d *Dataset) Strings(name string) ([]string, error) {
	if !d.HasField(name) {
		return nil, &MissingFieldError{Fields: []string{name}}
	}
	col := d.frame.Col(name)
	out := make([]string, col.Len())
	for i := 0; i < col.Len(); i++ {
		elem := col.Elem(i)
		if elem.IsNA() {
			continue
		}
		out[i] = elem.String()
	}
	return out, nil
}

// Ints returns an integer field, such as a derived date part.
func (d *Dataset) Ints(name string) ([]int, error) {
	if !d.HasField(name) {
		return nil, &MissingFieldError{Fields: []string{name}}
	}
	values, err := d.frame.Col(name).Int()
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", name, err)
	}
	return values, nil
}

// Require checks that every required field is present and that Age and
// Salary are numeric.
func (d *Dataset) Require() error {
	var missing []string
	for _, name := range RequiredFields {
		if !d.HasField(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldError{Fields: missing}
	}

	for _, name := range []string{FieldAge, FieldSalary} {
		if !d.IsNumeric(name) {
			return &FieldTypeError{Field: name, Expected: "numeric", Actual: string(d.frame.Col(name).Type())}
		}
	}
	return nil
}

// DeriveDateParts adds the integer fields Year and Month computed from dates,
// which must hold one entry per row. Input fields with the same names are
// replaced. It may only be called once.
func (d *Dataset) DeriveDateParts(dates []time.Time) error {
	if d.derived {
		return ErrAlreadyDerived
	}
	if len(dates) != d.Len() {
		return fmt.Errorf("got %d dates for %d rows", len(dates), d.Len())
	}

	years := make([]int, len(dates))
	months := make([]int, len(dates))
	for i, t := range dates {
		years[i] = t.Year()
		months[i] = int(t.Month())
	}

	frame := d.frame.
		Mutate(series.New(years, series.Int, FieldYear)).
		Mutate(series.New(months, series.Int, FieldMonth))
	if frame.Err != nil {
		return fmt.Errorf("failed to add date parts: %w", frame.Err)
	}

	d.frame = frame
	d.derived = true
	return nil
}

// HasDateParts reports whether DeriveDateParts has run.
func (d *Dataset) HasDateParts() bool {
	return d.derived
}

package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// DateParseError reports a value that is not a recognizable date.
type DateParseError struct {
	Field string
	Row   int // 1-based data row
	Value string
}

func (e *DateParseError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("field %q row %d: missing date", e.Field, e.Row)
	}
	return fmt.Sprintf("field %q row %d: cannot parse %q as a date", e.Field, e.Row, e.Value)
}

// ParseDates parses every value of a date field. Values are tried against
// layouts in order; plain numbers are read as Excel serial dates.
func (d *Dataset) ParseDates(name string, layouts []string) ([]time.Time, error) {
	values, err := d.Strings(name)
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, len(values))
	for i, raw := range values {
		t, ok := ParseDate(raw, layouts)
		if !ok {
			return nil, &DateParseError{Field: name, Row: i + 1, Value: strings.TrimSpace(raw)}
		}
		dates[i] = t
	}
	return dates, nil
}

// ParseDate parses a single date value.
func ParseDate(raw string, layouts []string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	// Unformatted date cells come through as serial day numbers
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

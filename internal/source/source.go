// Package source loads the input record set from a workbook, a CSV file or
// a MySQL table.
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dbsmedya/goreport/internal/config"
	"github.com/dbsmedya/goreport/internal/dataset"
	"github.com/dbsmedya/goreport/internal/logger"
)

// Kind identifies an input loader.
type Kind string

const (
	KindWorkbook Kind = "workbook"
	KindCSV      Kind = "csv"
	KindMySQL    Kind = "mysql"
)

// MySQLPrefix marks an input argument that names a database table.
const MySQLPrefix = "mysql:"

var workbookExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
}

// UnsupportedSourceError is returned for inputs no loader accepts.
type UnsupportedSourceError struct {
	Input string
}

func (e *UnsupportedSourceError) Error() string {
	return fmt.Sprintf("unsupported input %q: expected .xlsx, .xlsm, .xltx, .xltm, .csv or %s<table>", e.Input, MySQLPrefix)
}

// Options configures Open.
type Options struct {
	Sheet    string                 // workbook sheet, empty = first sheet
	Database *config.DatabaseConfig // required for mysql:<table>
	Logger   *logger.Logger
}

// Detect returns the loader kind for an input argument.
func Detect(input string) (Kind, error) {
	if strings.HasPrefix(input, MySQLPrefix) {
		return KindMySQL, nil
	}

	ext := strings.ToLower(filepath.Ext(input))
	switch {
	case workbookExtensions[ext]:
		return KindWorkbook, nil
	case ext == ".csv":
		return KindCSV, nil
	}
	return "", &UnsupportedSourceError{Input: input}
}

// Open loads the record set named by input.
func Open(ctx context.Context, input string, opts Options) (*dataset.Dataset, error) {
	kind, err := Detect(input)
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	log.Debugw("Loading input", "input", input, "kind", kind)

	var ds *dataset.Dataset
	switch kind {
	case KindWorkbook:
		ds, err = loadWorkbook(input, opts.Sheet)
	case KindCSV:
		ds, err = loadCSV(input)
	case KindMySQL:
		ds, err = loadMySQL(ctx, strings.TrimPrefix(input, MySQLPrefix), opts.Database)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", input, err)
	}

	log.Infow("Input loaded", "input", input, "rows", ds.Len(), "fields", len(ds.Fields()))
	return ds, nil
}

package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dbsmedya/goreport/internal/config"
	"github.com/dbsmedya/goreport/internal/database"
	"github.com/dbsmedya/goreport/internal/dataset"
)

func loadMySQL(ctx context.Context, table string, cfg *config.DatabaseConfig) (*dataset.Dataset, error) {
	if cfg == nil {
		return nil, errors.New("no database configured")
	}
	if _, err := database.QuoteTable(table); err != nil {
		return nil, err
	}

	mgr := database.NewManager(cfg)
	if err := mgr.Connect(ctx); err != nil {
		return nil, err
	}
	defer mgr.Close()

	return readTable(ctx, mgr.DB, table)
}

// readTable reads every row of table as records, header first.
func readTable(ctx context.Context, db *sql.DB, table string) (*dataset.Dataset, error) {
	quoted, err := database.QuoteTable(table)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoted)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", quoted, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	records := [][]string{columns}
	values := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", len(records), err)
		}
		record := make([]string, len(columns))
		for i, v := range values {
			record[i] = dataset.ToRecord(v)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return dataset.FromRecords(records)
}

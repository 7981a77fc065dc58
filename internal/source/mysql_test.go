package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/goreport/internal/database"
)

func TestReadTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	joined := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"Age", "Salary", "Department", "Joining_Date"}).
		AddRow(int64(25), 50000.5, []byte("Sales"), joined).
		AddRow(int64(35), 70000.0, []byte("IT"), joined.AddDate(1, 0, 0)).
		AddRow(nil, 80000.0, []byte("IT"), joined.AddDate(2, 0, 0))
	mock.ExpectQuery("SELECT \\* FROM `hr`.`employees`").WillReturnRows(rows)

	ds, err := readTable(context.Background(), db, "hr.employees")
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	require.NoError(t, ds.Require())

	dept, err := ds.Strings("Department")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sales", "IT", "IT"}, dept)

	dates, err := ds.Strings("Joining_Date")
	require.NoError(t, err)
	assert.Equal(t, "2020-01-15", dates[0])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadTable_InvalidName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = readTable(context.Background(), db, "employees; DROP TABLE x")
	var invalid *database.InvalidIdentifierError
	assert.True(t, errors.As(err, &invalid))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadTable_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT \\* FROM `employees`").WillReturnError(errors.New("table doesn't exist"))

	_, err = readTable(context.Background(), db, "employees")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table doesn't exist")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadTable_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT \\* FROM `employees`").
		WillReturnRows(sqlmock.NewRows([]string{"Age", "Salary"}))

	_, err = readTable(context.Background(), db, "employees")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

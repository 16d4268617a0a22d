package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("information_schema\\.tables").WithArgs("secure_store").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("secure_store"))
	mock.ExpectQuery("information_schema\\.tables").WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}))
	mock.ExpectQuery("information_schema\\.tables").WithArgs("broken").
		WillReturnError(errors.New("connection refused"))

	ok, err := HasTable(context.Background(), db, MySQL, "secure_store")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = HasTable(context.Background(), db, MySQL, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = HasTable(context.Background(), db, MySQL, "broken")
	assert.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDialect(t *testing.T) {
	assert.Equal(t, "?", MySQL.Placeholder(3))
	assert.Equal(t, "$3", Postgres.Placeholder(3))

	d, err := ParseDialect("postgres")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)

	_, err = ParseDialect("sqlite")
	assert.Error(t, err)
}

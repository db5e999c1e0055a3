package sqldb_test

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hamidoujand/signup/internal/sqldb"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DSN(t *testing.T) {
	dsn := sqldb.DSN(sqldb.Config{
		User:       "postgres",
		Password:   "p@ss",
		Host:       "localhost:5432",
		Name:       "signup",
		Schema:     "public",
		DisableTLS: true,
	})

	u, err := url.Parse(dsn)
	require.NoError(t, err)

	pass, _ := u.User.Password()
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "postgres", u.User.Username())
	assert.Equal(t, "p@ss", pass)
	assert.Equal(t, "localhost:5432", u.Host)
	assert.Equal(t, "/signup", u.Path)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
	assert.Equal(t, "public", u.Query().Get("search_path"))
	assert.Equal(t, "utc", u.Query().Get("timezone"))
}

func Test_DSNRequiresTLSByDefault(t *testing.T) {
	u, err := url.Parse(sqldb.DSN(sqldb.Config{Host: "db:5432", Name: "signup"}))
	require.NoError(t, err)

	assert.Equal(t, "require", u.Query().Get("sslmode"))
	assert.False(t, u.Query().Has("search_path"))
}

func Test_ConnCheck(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mockDB.Close()

	db := sqlx.NewDb(mockDB, "sqlmock")

	mock.ExpectPing().WillReturnError(errors.New("starting up"))
	mock.ExpectPing()
	mock.ExpectQuery("SELECT TRUE").WillReturnRows(sqlmock.NewRows([]string{"bool"}).AddRow(true))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, sqldb.ConnCheck(ctx, db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_ConnCheckDeadline(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mockDB.Close()

	db := sqlx.NewDb(mockDB, "sqlmock")

	for range 5 {
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	err = sqldb.ConnCheck(ctx, db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deadline exceeded")
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hamidoujand/signup/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		expect     func(mock sqlmock.Sqlmock)
		statusCode int
		status     string
	}{
		{
			name: "db_ready",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectPing()
				mock.ExpectQuery("SELECT TRUE").WillReturnRows(sqlmock.NewRows([]string{"bool"}).AddRow(true))
			},
			statusCode: http.StatusOK,
			status:     "ok",
		},
		{
			name: "db_down",
			expect: func(mock sqlmock.Sqlmock) {
				for range 5 {
					mock.ExpectPing().WillReturnError(errors.New("connection refused"))
				}
			},
			statusCode: http.StatusInternalServerError,
			status:     "db not ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer mockDB.Close()

			tt.expect(mock)

			h := RegisterRoutes(Conf{
				DB:      sqlx.NewDb(mockDB, "sqlmock"),
				Log:     discardLogger(),
				Build:   "test",
				Timeout: 250 * time.Millisecond,
			})

			r := httptest.NewRequest(http.MethodGet, "/v1/readiness", nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			require.Equal(t, tt.statusCode, w.Code)

			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.status, body["status"])
		})
	}
}

func Test_Liveness(t *testing.T) {
	t.Setenv("KUBERNETES_NAMESPACE", "signup")

	h := RegisterRoutes(Conf{Log: discardLogger(), Build: "v1.0.0"})

	r := httptest.NewRequest(http.MethodGet, "/v1/liveness", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var info Info
	require.NoError(t, json.NewDecoder(w.Body).Decode(&info))
	assert.Equal(t, "up", info.Status)
	assert.Equal(t, "v1.0.0", info.Build)
	assert.Equal(t, "signup", info.Namespace)
	assert.Positive(t, info.GOMAXPROCS)
}

func Test_LivenessRejectsPost(t *testing.T) {
	h := RegisterRoutes(Conf{Log: discardLogger()})

	r := httptest.NewRequest(http.MethodPost, "/v1/liveness", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func discardLogger() *logger.Logger {
	return logger.New(io.Discard, logger.LevelInfo, logger.EnvironmentDev, "health_tests", func(context.Context) string { return "" })
}

package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roamly/travelbook/pkg/health"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

func TestHealthGet(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		db            health.Pinger
		expectedCode  int
		wantStatus    string
		wantDatabase  string
		checkResponse bool
	}{
		{
			name:          "healthy with reachable database",
			method:        http.MethodGet,
			db:            stubPinger{},
			expectedCode:  http.StatusOK,
			wantStatus:    "healthy",
			wantDatabase:  "up",
			checkResponse: true,
		},
		{
			name:          "degraded when database ping fails",
			method:        http.MethodGet,
			db:            stubPinger{err: errors.New("connection refused")},
			expectedCode:  http.StatusOK,
			wantStatus:    "degraded",
			wantDatabase:  "down",
			checkResponse: true,
		},
		{
			name:         "POST not allowed",
			method:       http.MethodPost,
			db:           stubPinger{},
			expectedCode: http.StatusMethodNotAllowed,
		},
		{
			name:         "DELETE not allowed",
			method:       http.MethodDelete,
			db:           stubPinger{},
			expectedCode: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/v1/health", nil)
			rr := httptest.NewRecorder()

			health.HealthGet("1.0.0", tt.db).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.checkResponse {
				var response health.HealthResponse
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
				assert.Equal(t, tt.wantStatus, response.Status)
				assert.Equal(t, tt.wantDatabase, response.Database)
				assert.Equal(t, "1.0.0", response.Version)
				assert.NotEmpty(t, response.Uptime)
				assert.NotEmpty(t, response.GoVersion)

				timestamp, err := time.Parse(time.RFC3339, response.Timestamp)
				assert.NoError(t, err)
				assert.True(t, time.Since(timestamp) < time.Minute)

				assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			}
		})
	}
}

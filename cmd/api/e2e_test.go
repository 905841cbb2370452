package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-vitals/internal/config"
	"github.com/comitanigiacomo/kanso-vitals/internal/core/services"
)

const e2ePassword = "e2e-admin-password"

func fakeGarmin(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, "/usersummary-service/usersummary/daily/"):
			_, _ = w.Write([]byte(`{"totalSteps": 10400, "totalKilocalories": 2450.6, "totalDistanceMeters": 7825}`))
		case strings.HasPrefix(r.URL.Path, "/wellness-service/wellness/dailySleepData/"):
			_, _ = w.Write([]byte(`{"dailySleepDTO": {"sleepTimeSeconds": 27000, "deepSleepSeconds": 5400,
				"lightSleepSeconds": 14400, "remSleepSeconds": 5400, "awakeSleepSeconds": 1800}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func e2eConfig(t *testing.T, garminURL string) *config.Config {
	t.Helper()
	hash, err := services.HashPassword(e2ePassword)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Redis.Host = ""
	cfg.Garmin.BaseURL = garminURL
	cfg.Garmin.DisplayName = "runner"
	cfg.Garmin.Timeout = 2 * time.Second
	cfg.Sync.StartDate = time.Now().UTC().AddDate(0, 0, -6).Format("2006-01-02")
	cfg.Admin.PasswordHash = hash
	cfg.Admin.JWTSecret = "e2e-secret"
	return cfg
}

func call(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEndToEnd_VitalsLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	garmin := fakeGarmin(t)
	app, err := buildApplication(context.Background(), e2eConfig(t, garmin.URL), prometheus.NewRegistry())
	require.NoError(t, err)
	defer app.Close()

	var token string

	t.Run("1. Login", func(t *testing.T) {
		w := call(t, app.router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"password": e2ePassword})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		token = resp.Token
		require.NotEmpty(t, token)
	})

	t.Run("2. First sync backfills from the start date", func(t *testing.T) {
		w := call(t, app.router, http.MethodPost, "/api/v1/update", token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			TotalDays int `json:"total_days"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 7, resp.TotalDays)
	})

	today := time.Now().UTC().Format("2006-01-02")

	t.Run("3. Manual weight merges into the synced day", func(t *testing.T) {
		w := call(t, app.router, http.MethodPost, "/api/v1/weight", token, map[string]any{"weight": 74.3, "date": today})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = call(t, app.router, http.MethodGet, "/api/v1/data", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var snap struct {
			DailyData map[string]struct {
				Steps      *int     `json:"steps"`
				Calories   *int     `json:"calories"`
				DistanceKm *float64 `json:"distance_km"`
				Weight     *float64 `json:"weight"`
				Sleep      *struct {
					TotalMinutes *int `json:"total_minutes"`
				} `json:"sleep"`
			} `json:"daily_data"`
			Averages struct {
				Steps int `json:"steps"`
			} `json:"averages"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))

		day, ok := snap.DailyData[today]
		require.True(t, ok)
		require.NotNil(t, day.Steps)
		assert.Equal(t, 10400, *day.Steps)
		assert.Equal(t, 2451, *day.Calories)
		assert.Equal(t, 7.83, *day.DistanceKm)
		assert.Equal(t, 450, *day.Sleep.TotalMinutes)
		assert.Equal(t, 74.3, *day.Weight)
		assert.Equal(t, 10400, snap.Averages.Steps)
	})

	t.Run("4. Dashboard renders the synced window", func(t *testing.T) {
		w := call(t, app.router, http.MethodGet, "/api/v1/dashboard?days=7", "", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var d struct {
			Steps struct {
				Datasets []struct {
					Data []float64 `json:"data"`
				} `json:"datasets"`
			} `json:"steps"`
			Weight struct {
				Hidden bool `json:"hidden"`
			} `json:"weight"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
		require.Len(t, d.Steps.Datasets[0].Data, 7)
		for _, v := range d.Steps.Datasets[0].Data {
			assert.Equal(t, 10400.0, v)
		}
		assert.False(t, d.Weight.Hidden)
	})

	t.Run("5. Export, clear and import restore the dataset", func(t *testing.T) {
		w := call(t, app.router, http.MethodGet, "/api/v1/export", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		exported := w.Body.Bytes()

		w = call(t, app.router, http.MethodPost, "/api/v1/clear", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = call(t, app.router, http.MethodGet, "/api/v1/data", "", nil)
		require.Equal(t, http.StatusNotFound, w.Code)

		w = call(t, app.router, http.MethodPost, "/api/v1/import", token, json.RawMessage(exported))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = call(t, app.router, http.MethodGet, "/api/v1/data", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("6. Metrics expose the sync outcome", func(t *testing.T) {
		w := call(t, app.router, http.MethodGet, "/metrics", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `vitals_main_sync{outcome="success"} 1`)
	})
}

func TestBuildApplication_UnreachableDatabase(t *testing.T) {
	cfg := e2eConfig(t, "http://127.0.0.1:1")
	cfg.DB = config.DBConfig{Host: "127.0.0.1", Port: "1", User: "nobody", Password: "x", Name: "vitals"}

	_, err := buildApplication(context.Background(), cfg, prometheus.NewRegistry())
	assert.Error(t, err)
}

package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerHandler_Data(t *testing.T) {
	app := setupApp(t)

	t.Run("Fail: 404 before any data exists", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/api/v1/data", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "no data available", decode(t, w)["message"])
	})

	t.Run("Success: Returns the snapshot without a token", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/v1/weight", map[string]any{"weight": 72.5, "date": "2025-03-01"}, app.token(t))
		require.Equal(t, http.StatusOK, w.Code)

		w = app.do(t, http.MethodGet, "/api/v1/data", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		body := decode(t, w)
		daily := body["daily_data"].(map[string]any)
		day := daily["2025-03-01"].(map[string]any)
		assert.Equal(t, 72.5, day["weight"])
		assert.Equal(t, "2025-03-01", body["period"].(map[string]any)["start"])
	})
}

func TestTrackerHandler_Profile(t *testing.T) {
	app := setupApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/profile", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Giacomo", decode(t, w)["name"])
}

func TestTrackerHandler_LogWeight(t *testing.T) {
	app := setupApp(t)
	token := app.token(t)

	t.Run("Success: JSON body", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/v1/weight", map[string]any{"weight": 71.2, "date": "2025-02-10"}, token)
		require.Equal(t, http.StatusOK, w.Code)

		body := decode(t, w)
		assert.Equal(t, "success", body["status"])
		assert.Equal(t, "2025-02-10", body["date"])
		assert.Equal(t, 71.2, body["weight"])
	})

	t.Run("Success: Form body defaults to today", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/v1/weight", "weight=70.8", token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, decode(t, w)["date"])
	})

	t.Run("Fail: Requires a token", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/v1/weight", map[string]any{"weight": 71.2}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	tests := []struct {
		name string
		body any
	}{
		{"Fail: Zero weight", map[string]any{"weight": 0}},
		{"Fail: Out of range", map[string]any{"weight": 900}},
		{"Fail: Malformed date", map[string]any{"weight": 70, "date": "10/02/2025"}},
		{"Fail: Garbage form value", "weight=heavy"},
		{"Fail: NaN form value", "weight=NaN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(t, http.MethodPost, "/api/v1/weight", tt.body, token)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "error", decode(t, w)["status"])
		})
	}
}

func TestTrackerHandler_LogWater(t *testing.T) {
	app := setupApp(t)
	token := app.token(t)

	t.Run("Success: Amounts accumulate over the day", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/v1/water", map[string]any{"water_ml": 250, "date": "2025-03-02"}, token)
		require.Equal(t, http.StatusOK, w.Code)

		w = app.do(t, http.MethodPost, "/api/v1/water", "water_ml=500&date=2025-03-02", token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 750.0, decode(t, w)["water_ml"])
	})

	t.Run("Fail: Negative amount", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/v1/water", map[string]any{"water_ml": -10}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTrackerHandler_LogCalories(t *testing.T) {
	app := setupApp(t)
	token := app.token(t)

	t.Run("Success: Datetime from a datetime-local input", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/v1/calories", "calories=650&datetime=2025-03-03T13:15&item=pasta", token)
		require.Equal(t, http.StatusOK, w.Code)

		entry := decode(t, w)["entry"].(map[string]any)
		assert.Equal(t, 650.0, entry["calories"])
		assert.Equal(t, "pasta", entry["item"])
		assert.Equal(t, "2025-03-03T13:15:00Z", entry["datetime"])
		assert.NotEmpty(t, entry["id"])

		w = app.do(t, http.MethodGet, "/api/v1/data", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		day := decode(t, w)["daily_data"].(map[string]any)["2025-03-03"].(map[string]any)
		assert.Len(t, day["food_log"], 1)
	})

	t.Run("Success: ISO datetime in JSON", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/v1/calories", map[string]any{"calories": 120, "datetime": "2025-03-03T16:00:00Z"}, token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Fail: Unparseable datetime", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/v1/calories", map[string]any{"calories": 120, "datetime": "yesterday"}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: Zero calories", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/v1/calories", map[string]any{"calories": 0}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Login(t *testing.T) {
	app := setupApp(t)

	t.Run("Success: Should return a token usable on admin routes", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"password": testPassword}, "")
		require.Equal(t, http.StatusOK, w.Code)

		token, _ := decode(t, w)["token"].(string)
		require.NotEmpty(t, token)

		w = app.do(t, http.MethodPost, "/api/v1/clear", nil, token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Success: Accepts form bodies", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/v1/auth/login", "password="+testPassword, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Fail: Wrong password", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"password": "not-the-password"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "error", decode(t, w)["status"])
	})

	t.Run("Fail: Missing password", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

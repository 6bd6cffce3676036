package integration

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMe_WithForgedBearer(t *testing.T) {
	forEachStore(t, func(t *testing.T, app *TestApp) {
		_, userID := app.signUp(t, "omar@example.com", "owner")

		req, err := http.NewRequest(http.MethodGet, app.Server.URL+"/api/users/me", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+signAccessToken(t, userID, 15*time.Minute))

		resp, env := app.send(t, newClient(t), req)
		require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

		var user map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &user))
		assert.Equal(t, userID, user["_id"])
		assert.Equal(t, "omar@example.com", user["email"])
		assert.Equal(t, "owner", user["role"])
	})
}

func TestGetMe_Unauthorized(t *testing.T) {
	forEachStore(t, func(t *testing.T, app *TestApp) {
		_, userID := app.signUp(t, "omar@example.com", "owner")

		req, err := http.NewRequest(http.MethodGet, app.Server.URL+"/api/users/me", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+signAccessToken(t, userID, -time.Minute))

		resp, env := app.send(t, newClient(t), req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid access token", env.Message)
	})
}

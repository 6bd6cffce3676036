package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

func (app *TestApp) send(t *testing.T, client *http.Client, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp, env
}

func (app *TestApp) postJSON(t *testing.T, client *http.Client, path string, body any) (*http.Response, envelope) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, app.Server.URL+path, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return app.send(t, client, req)
}

func (app *TestApp) get(t *testing.T, client *http.Client, path string) (*http.Response, envelope) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, app.Server.URL+path, nil)
	require.NoError(t, err)
	return app.send(t, client, req)
}

func (app *TestApp) multipart(t *testing.T, client *http.Client, method, path string, fields map[string]string, cover []byte) (*http.Response, envelope) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if cover != nil {
		fw, err := mw.CreateFormFile("coverImage", "cover.png")
		require.NoError(t, err)
		_, err = fw.Write(cover)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(method, app.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return app.send(t, client, req)
}

// signUp registers and logs in a user, returning a client holding the
// session cookies and the user's id.
func (app *TestApp) signUp(t *testing.T, email, role string) (*http.Client, string) {
	t.Helper()
	client := newClient(t)

	resp, env := app.postJSON(t, client, "/api/users/register", map[string]string{
		"fullName":     "Integration User",
		"email":        email,
		"password":     "password123",
		"mobileNumber": "555-0142",
		"role":         role,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)

	var user struct {
		ID string `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))

	resp, env = app.postJSON(t, client, "/api/users/login", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	return client, user.ID
}

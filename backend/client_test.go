package backend_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mucalsync/calsync-server/backend"
)

type backendConfig struct {
	url string
}

func (c backendConfig) GetBackendURL() string           { return c.url }
func (c backendConfig) GetBackendAPIKey() string        { return "backend-key" }
func (c backendConfig) GetEncryptionKey() string        { return "front-key" }
func (c backendConfig) GetBackendEncryptionKey() string { return "back-key" }

type recordedRequest struct {
	method      string
	path        string
	apiKey      string
	contentType string
	body        string
	header      http.Header
}

func newBackend(t *testing.T, status int, responseBody string) (*backend.Client, *recordedRequest) {
	t.Helper()
	recorded := &recordedRequest{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*recorded = recordedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			apiKey:      r.Header.Get("X-API-Key"),
			contentType: r.Header.Get("Content-Type"),
			body:        string(body),
			header:      r.Header.Clone(),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, responseBody)
	}))
	t.Cleanup(srv.Close)

	return backend.New(backendConfig{url: srv.URL}), recorded
}

func TestEvents(t *testing.T) {
	client, recorded := newBackend(t, http.StatusOK, `[{"id":1}]`)

	result, err := client.Events(context.Background())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, result.Status)
	require.JSONEq(t, `[{"id":1}]`, string(result.Body))

	require.Equal(t, http.MethodGet, recorded.method)
	require.Equal(t, "/api/events", recorded.path)
	require.Equal(t, "backend-key", recorded.apiKey)
}

func TestCreateEvent(t *testing.T) {
	client, recorded := newBackend(t, http.StatusCreated, `{"id":2}`)

	result, err := client.CreateEvent(context.Background(), strings.NewReader(`{"title":"Guest Lecture"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, result.Status)

	require.Equal(t, http.MethodPost, recorded.method)
	require.Equal(t, "application/json", recorded.contentType)
	require.Equal(t, `{"title":"Guest Lecture"}`, recorded.body)
}

func TestUpdateAndDeleteEvent(t *testing.T) {
	t.Run("update targets the event path", func(t *testing.T) {
		client, recorded := newBackend(t, http.StatusOK, `{"id":7}`)
		_, err := client.UpdateEvent(context.Background(), "7", strings.NewReader(`{"title":"Moved"}`))
		require.NoError(t, err)
		require.Equal(t, http.MethodPut, recorded.method)
		require.Equal(t, "/api/events/7", recorded.path)
	})

	t.Run("delete targets the event path", func(t *testing.T) {
		client, recorded := newBackend(t, http.StatusOK, `{"deleted":true}`)
		_, err := client.DeleteEvent(context.Background(), "7")
		require.NoError(t, err)
		require.Equal(t, http.MethodDelete, recorded.method)
		require.Equal(t, "/api/events/7", recorded.path)
	})
}

func TestUploadTimetable(t *testing.T) {
	client, recorded := newBackend(t, http.StatusOK, `{"uploaded":true}`)

	_, err := client.UploadTimetable(context.Background(),
		"multipart/form-data; boundary=xyz", strings.NewReader("--xyz--"))
	require.NoError(t, err)
	require.Equal(t, "/api/upload-timetable", recorded.path)
	require.Equal(t, "multipart/form-data; boundary=xyz", recorded.contentType)
}

func TestErrorBodiesPassThrough(t *testing.T) {
	client, _ := newBackend(t, http.StatusNotFound, `{"error":"Event not found"}`)

	result, err := client.DeleteEvent(context.Background(), "999")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, result.Status)
	require.JSONEq(t, `{"error":"Event not found"}`, string(result.Body))
}

func TestERPLogin(t *testing.T) {
	t.Run("success decodes cookies", func(t *testing.T) {
		client, recorded := newBackend(t, http.StatusOK, `{"cookies":"JSESSIONID=abc"}`)

		resp, status, err := client.ERPLogin(context.Background(),
			[]byte(`{"username":"student1","password":"hunter2"}`), "back-key")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "JSESSIONID=abc", resp.Cookies)

		require.Equal(t, "/api/auth/muerp", recorded.path)
		require.Equal(t, "back-key", recorded.header.Get("X-Encryption-Key"))
		require.Equal(t, "backend-key", recorded.apiKey)
		require.Equal(t, `{"username":"student1","password":"hunter2"}`, recorded.body)
	})

	t.Run("rejection surfaces status and detail", func(t *testing.T) {
		client, _ := newBackend(t, http.StatusUnauthorized, `{"detail":"Invalid ERP credentials"}`)

		resp, status, err := client.ERPLogin(context.Background(), []byte(`{}`), "back-key")
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, status)
		require.Equal(t, "Invalid ERP credentials", resp.Detail)
	})
}

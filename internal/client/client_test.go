package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSendsHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	c := New(Options{Server: srv.URL + "/", APIKey: "secret", Tenant: "acme", Namespace: "prod"})
	_, err := c.Get(context.Background(), "/functions")
	require.NoError(t, err)

	assert.Equal(t, "secret", got.Get("X-API-Key"))
	assert.Equal(t, "acme", got.Get("X-Tenant-ID"))
	assert.Equal(t, "prod", got.Get("X-Namespace"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
}

func TestClientFreshRequestIDPerCall(t *testing.T) {
	var ids []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(Options{Server: srv.URL})
	_, err := c.Get(context.Background(), "/healthz")
	require.NoError(t, err)
	_, err = c.Get(context.Background(), "/healthz")
	require.NoError(t, err)

	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
}

func TestClientAPIErrorPrefersErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "function not found", "detail": "ignored"}`))
	}))
	defer srv.Close()

	c := New(Options{Server: srv.URL})
	_, err := c.Get(context.Background(), "/functions/ghost")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "function not found", apiErr.Message)
	assert.Equal(t, "API error (404): function not found", apiErr.Error())
}

func TestClientAPIErrorFallsBackToBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("something broke"))
	}))
	defer srv.Close()

	c := New(Options{Server: srv.URL})
	_, err := c.Get(context.Background(), "/healthz")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "something broke", apiErr.Message)
}

func TestClientPostBody(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"name": "greeter"}`))
	}))
	defer srv.Close()

	c := New(Options{Server: srv.URL})
	result, err := c.Post(context.Background(), "/functions", map[string]any{"name": "greeter"})
	require.NoError(t, err)
	assert.Equal(t, "greeter", body["name"])

	obj, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "greeter", obj["name"])
}

func TestClientEmptyBodyIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(Options{Server: srv.URL})
	result, err := c.Delete(context.Background(), "/functions/greeter")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestFunctionRejectsNonObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[1, 2, 3]`))
	}))
	defer srv.Close()

	c := New(Options{Server: srv.URL})
	_, err := c.Function(context.Background(), "greeter")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected response shape")
}

func TestFunctionCodePath(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`{"source_code": "def handle(e): return e"}`))
	}))
	defer srv.Close()

	c := New(Options{Server: srv.URL})
	code, err := c.FunctionCode(context.Background(), "greeter")
	require.NoError(t, err)
	assert.Equal(t, "/functions/greeter/code", path)
	assert.Equal(t, "def handle(e): return e", code["source_code"])
}

package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/authsession/internal/config"
)

func TestHTTPRequester_PostJSON(t *testing.T) {
	var gotBody map[string]any
	var gotHeader http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"tok1"}`))
	}))
	defer server.Close()

	r, err := NewHTTPRequester(config.HTTPConfig{BaseURL: server.URL + "/api"})
	require.NoError(t, err)

	resp, err := r.Do(context.Background(), &Request{
		Method: http.MethodPost,
		URL:    "/auth/login",
		Body:   map[string]string{"username": "jane"},
		Header: http.Header{"Authorization": {"Bearer abc"}},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, resp.IsSuccess())
	assert.JSONEq(t, `{"token":"tok1"}`, string(resp.RawBody()))
	assert.Equal(t, "jane", gotBody["username"])
	assert.Equal(t, "Bearer abc", gotHeader.Get("Authorization"))
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))

	body, err := resp.JSON()
	require.NoError(t, err)
	assert.Equal(t, "tok1", body["token"])
}

func TestHTTPRequester_Query(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	r, err := NewHTTPRequester(config.HTTPConfig{})
	require.NoError(t, err)

	_, err = r.Do(context.Background(), &Request{
		Method: http.MethodGet,
		URL:    server.URL + "/users?sort=name",
		Query:  url.Values{"page": {"2"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "name", gotQuery.Get("sort"))
	assert.Equal(t, "2", gotQuery.Get("page"))
}

func TestHTTPRequester_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid credentials"}`))
	}))
	defer server.Close()

	r, err := NewHTTPRequester(config.HTTPConfig{BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := r.Do(context.Background(), &Request{Method: http.MethodGet, URL: "/auth/user"})
	assert.Nil(t, resp)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, string(statusErr.Body))
	assert.True(t, IsUnauthorized(err))
	assert.True(t, IsAuth(err))
	assert.False(t, IsTransport(err))
}

func TestHTTPRequester_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	target := server.URL
	server.Close()

	r, err := NewHTTPRequester(config.HTTPConfig{Timeout: time.Second})
	require.NoError(t, err)

	_, err = r.Do(context.Background(), &Request{Method: http.MethodGet, URL: target})
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Equal(t, 0, StatusCode(err))
}

func TestHTTPRequester_RelativeWithoutBase(t *testing.T) {
	r, err := NewHTTPRequester(config.HTTPConfig{})
	require.NoError(t, err)

	_, err = r.Do(context.Background(), &Request{Method: http.MethodGet, URL: "/auth/user"})
	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

func TestHTTPRequester_Retries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{}`)
	}))
	defer server.Close()

	r, err := NewHTTPRequester(config.HTTPConfig{BaseURL: server.URL, RetryMax: 2})
	require.NoError(t, err)
	r.client.RetryWaitMin = time.Millisecond
	r.client.RetryWaitMax = time.Millisecond

	_, err = r.Do(context.Background(), &Request{Method: http.MethodGet, URL: "/"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPRequester_NoRetriesByDefault(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	r, err := NewHTTPRequester(config.HTTPConfig{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = r.Do(context.Background(), &Request{Method: http.MethodGet, URL: "/"})
	assert.Equal(t, http.StatusServiceUnavailable, StatusCode(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestStatusError_Error(t *testing.T) {
	err := &StatusError{StatusCode: 404, Method: "GET", URL: "https://api.example.com/x"}
	assert.Equal(t, "GET https://api.example.com/x: HTTP 404 Not Found", err.Error())

	cause := errors.New("connection refused")
	err = &StatusError{Method: "GET", URL: "https://api.example.com/x", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")

	assert.Equal(t, 0, StatusCode(errors.New("plain")))
}

package http

import (
	"context"
	"encoding/json"
	gohttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetWithHeaderAndJSON(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		assert.Equal(t, "token-123", r.Header.Get("X-Api-Key"))
		w.Write([]byte(`[{"title":"Backpack","price":109.95}]`))
	}))
	defer srv.Close()

	resp, err := Get(srv.URL).
		Header("X-Api-Key", "token-123").
		Timeout(2 * time.Second).
		Send()
	require.NoError(t, err)
	require.NoError(t, resp.Throw())
	assert.True(t, resp.OK())

	var out []struct {
		Title string  `json:"title"`
		Price float64 `json:"price"`
	}
	require.NoError(t, resp.JSON(&out))
	require.Len(t, out, 1)
	assert.Equal(t, "Backpack", out[0].Title)
}

func TestPostMarshalsBody(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, 3, in["quantity"])
		w.WriteHeader(gohttp.StatusCreated)
		w.Write([]byte("created"))
	}))
	defer srv.Close()

	resp, err := Post(srv.URL).
		Body(map[string]int{"quantity": 3}).
		Send()
	require.NoError(t, err)
	assert.Equal(t, gohttp.StatusCreated, resp.StatusCode)
	assert.Equal(t, "created", resp.Text())
}

func TestRetryRecoversFromTransientFailure(t *testing.T) {
	var calls int
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		calls++
		if calls == 1 {
			// Drop the first connection so the client retries.
			hj, ok := w.(gohttp.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	resp, err := Get(srv.URL).Retry(2, time.Millisecond).Send()
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text())
	assert.Equal(t, 2, calls)
}

func TestWithContextCancellation(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Get(srv.URL).WithContext(ctx).Send()
	assert.Error(t, err)
}

func TestThrowOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		gohttp.Error(w, "nope", gohttp.StatusBadGateway)
	}))
	defer srv.Close()

	resp, err := Get(srv.URL).Send()
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Error(t, resp.Throw())
}

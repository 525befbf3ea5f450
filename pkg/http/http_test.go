package http_test

import (
	"context"
	"encoding/json"
	"io"
	gohttp "net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PascalSeth/trendiwear/pkg/http"
)

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.WriteHeader(gohttp.StatusAccepted)
		_, _ = w.Write([]byte(`{"got":"` + in["type"] + `"}`))
	}))
	defer srv.Close()

	resp, err := http.Post(srv.URL).Body(map[string]string{"type": "report.created"}).Send(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.OK())

	var out map[string]string
	require.NoError(t, resp.JSON(&out))
	assert.Equal(t, "report.created", out["got"])
}

func TestRetriesOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(gohttp.StatusBadGateway)
			return
		}
		w.WriteHeader(gohttp.StatusOK)
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL).Retry(3, time.Millisecond).Send(context.Background())
	require.NoError(t, err)
	assert.Equal(t, gohttp.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(gohttp.StatusBadRequest)
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL).Retry(3, time.Millisecond).Send(context.Background())
	require.NoError(t, err)
	assert.Error(t, resp.Throw())
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

type teapot struct{}

func (teapot) RoundTrip(r *gohttp.Request) (*gohttp.Response, error) {
	return &gohttp.Response{
		StatusCode: gohttp.StatusTeapot,
		Header:     gohttp.Header{},
		Body:       io.NopCloser(strings.NewReader("")),
		Request:    r,
	}, nil
}

func TestResetTransport(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		w.WriteHeader(gohttp.StatusNoContent)
	}))
	defer srv.Close()

	http.DefaultClient.Transport = teapot{}
	t.Cleanup(http.ResetTransport)
	resp, err := http.Get(srv.URL).Send(context.Background())
	require.NoError(t, err)
	assert.Equal(t, gohttp.StatusTeapot, resp.StatusCode)

	http.ResetTransport()
	resp, err = http.Get(srv.URL).Send(context.Background())
	require.NoError(t, err)
	assert.Equal(t, gohttp.StatusNoContent, resp.StatusCode)
}

package sse

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feed struct {
	ch        chan []byte
	cancelled bool
}

func (f *feed) Subscribe() (<-chan []byte, func()) {
	return f.ch, func() { f.cancelled = true }
}

func TestHandlerRelaysFrames(t *testing.T) {
	f := &feed{ch: make(chan []byte, 2)}
	f.ch <- []byte(`{"type":"order.placed","data":{"id":1}}`)
	f.ch <- []byte(`{"data":{}}`)
	close(f.ch)

	rec := httptest.NewRecorder()
	Handler(f, time.Hour).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live/stream", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.True(t, f.cancelled)

	body := rec.Body.String()
	assert.Contains(t, body, "event: order.placed\ndata: {\"type\":\"order.placed\",\"data\":{\"id\":1}}\n\n")
	assert.True(t, strings.HasSuffix(body, "data: {\"data\":{}}\n\n"))
	assert.Equal(t, 1, strings.Count(body, "event:"))
}

func TestStreamSendAndComment(t *testing.T) {
	rec := httptest.NewRecorder()
	s := New(rec)
	require.NotNil(t, s)

	require.NoError(t, s.Send("ping", map[string]int{"n": 1}))
	require.NoError(t, s.Comment("keepalive"))
	assert.Equal(t, "event: ping\ndata: {\"n\":1}\n\n: keepalive\n\n", rec.Body.String())
}

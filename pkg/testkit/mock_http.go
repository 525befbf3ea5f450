package testkit

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// MockTransport answers outbound pkg/http calls from a scenario's
// "httprequest" steps instead of touching the network.
type MockTransport struct {
	mu      sync.Mutex
	entries []*httpMock
	require bool
}

type httpMock struct {
	step  MockStep
	calls int
}

func NewMockTransport(s *Scenario) *MockTransport {
	mt := &MockTransport{require: s.IsMockRequired}
	for _, step := range s.MockSteps {
		if step.Method == "httprequest" {
			mt.entries = append(mt.entries, &httpMock{step: step})
		}
	}
	return mt
}

// RoundTrip serves the first step whose matchUrl prefixes the request URL.
// Unmatched calls get a 404, or an error when isMockRequired is set.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	for _, e := range mt.entries {
		if e.step.MatchURL != "" && !strings.HasPrefix(req.URL.String(), e.step.MatchURL) {
			continue
		}
		e.calls++
		code := e.step.ReturnData.StatusCode
		if code == 0 {
			code = http.StatusOK
		}
		return &http.Response{
			StatusCode: code,
			Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(bytes.NewReader(e.step.ReturnData.Body)),
			Request:    req,
		}, nil
	}

	if mt.require {
		return nil, fmt.Errorf("testkit: unexpected outbound call to %s", req.URL)
	}
	return &http.Response{
		StatusCode: http.StatusNotFound,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(`{"error":"no mock configured"}`)),
		Request:    req,
	}, nil
}

// Uncalled lists the steps that never matched a request.
func (mt *MockTransport) Uncalled() []error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var errs []error
	for _, e := range mt.entries {
		if e.calls == 0 {
			errs = append(errs, fmt.Errorf("testkit: httprequest mock %q was never called", e.step.MatchURL))
		}
	}
	return errs
}

package testkit

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func AssertStatusCode(t *testing.T, s *Scenario, got int, body []byte) {
	t.Helper()
	assert.Equal(t, s.ExpectedCode, got, "[%s] status code mismatch\nbody: %s", s.Name, body)
}

// AssertJSONBody compares two JSON documents ignoring key order and spacing.
func AssertJSONBody(t *testing.T, s *Scenario, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}
	assert.JSONEq(t, string(expected), string(actual), "[%s] response body mismatch", s.Name)
}

// AssertPaths checks selected values in the response, addressed by dotted
// paths such as "data.items.0.name". The special value "*" only asserts
// presence; a nil value asserts absence or JSON null.
func AssertPaths(t *testing.T, s *Scenario, body []byte) {
	t.Helper()
	if len(s.Expect) == 0 {
		return
	}

	var doc any
	require.NoError(t, json.Unmarshal(body, &doc), "[%s] response is not JSON: %s", s.Name, body)

	for path, want := range s.Expect {
		got, ok := Lookup(doc, path)
		switch {
		case want == "*":
			assert.True(t, ok, "[%s] %s: missing", s.Name, path)
		case want == nil:
			assert.Nil(t, got, "[%s] %s: expected null", s.Name, path)
		default:
			if assert.True(t, ok, "[%s] %s: missing in %s", s.Name, path, body) {
				assert.Equal(t, normalize(want), normalize(got), "[%s] %s", s.Name, path)
			}
		}
	}
}

// Lookup walks doc along a dotted path; numeric segments index arrays.
func Lookup(doc any, path string) (any, bool) {
	cur := doc
	for _, seg := range strings.Split(path, ".") {
		switch v := cur.(type) {
		case map[string]any:
			next, ok := v[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(v) {
				return nil, false
			}
			cur = v[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// normalize makes numbers from the scenario file and the response compare
// equal regardless of how they were decoded.
func normalize(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	_ = json.Unmarshal(b, &out)
	return out
}

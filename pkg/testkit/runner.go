package testkit

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PascalSeth/trendiwear/pkg/auth"
	outbound "github.com/PascalSeth/trendiwear/pkg/http"
	"github.com/PascalSeth/trendiwear/pkg/mail"
)

// RunFile runs every scenario in path, in order, as subtests.
func RunFile(t *testing.T, handler http.Handler, path string) {
	t.Helper()
	list, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range list {
		t.Run(s.Name, func(t *testing.T) { Exec(t, handler, s) })
	}
}

// RunDir runs every *.json file in dir through RunFile.
func RunDir(t *testing.T, handler http.Handler, dir string) {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(files) == 0 {
		t.Fatalf("testkit: no scenario files in %q", dir)
	}
	for _, f := range files {
		t.Run(strings.TrimSuffix(filepath.Base(f), ".json"), func(t *testing.T) {
			RunFile(t, handler, f)
		})
	}
}

// Exec fires one scenario and asserts on the result.
func Exec(t *testing.T, handler http.Handler, s *Scenario) *httptest.ResponseRecorder {
	t.Helper()

	body, err := s.RequestBody()
	if err != nil {
		t.Fatalf("[%s] read request body: %v", s.Name, err)
	}

	mt := NewMockTransport(s)
	outbound.DefaultClient.Transport = mt
	defer outbound.ResetTransport()

	var mails *mail.Recorder
	if wantsMail(s) {
		mails = &mail.Recorder{}
		prev := mail.SetTransport(mails)
		defer mail.SetTransport(prev)
	}

	req := httptest.NewRequest(strings.ToUpper(s.RequestMethod), s.RequestURL, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.ActingAs != nil {
		req.Header.Set("Authorization", "Bearer "+Token(t, s.ActingAs.UserID, s.ActingAs.Role))
	}
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code, rec.Body.Bytes())
	AssertPaths(t, s, rec.Body.Bytes())
	if p := s.ResponseBodyPath(); p != "" {
		expected, err := os.ReadFile(p)
		if assert.NoError(t, err, "[%s] read response file", s.Name) {
			AssertJSONBody(t, s, expected, rec.Body.Bytes())
		}
	}
	for _, err := range mt.Uncalled() {
		assert.NoError(t, err, "[%s]", s.Name)
	}
	if mails != nil {
		assert.NotEmpty(t, mails.Messages(), "[%s] expected mail to be sent", s.Name)
	}
	return rec
}

// Token mints an access token for userID acting with role.
func Token(t testing.TB, userID uint, role string) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, role)
	if err != nil {
		t.Fatalf("testkit: mint token: %v", err)
	}
	return tok
}

func wantsMail(s *Scenario) bool {
	for _, m := range s.MockSteps {
		if m.Method == "sendmail" {
			return true
		}
	}
	return false
}

// Package testkit drives HTTP tests from JSON scenario files and provides
// an in-memory database for service tests.
//
// A scenario file holds an ordered array of steps run against one handler,
// so earlier steps can create the rows later ones read:
//
//	[
//	  {
//	    "name": "admin creates a category",
//	    "requestMethod": "POST",
//	    "requestUrl": "/api/categories",
//	    "body": {"name": "Dresses", "slug": "dresses"},
//	    "actingAs": {"userId": 1, "role": "ADMIN"},
//	    "expectedCode": 201,
//	    "expect": {"data.slug": "dresses"}
//	  }
//	]
package testkit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	RequestMethod   string            `json:"requestMethod"`
	RequestURL      string            `json:"requestUrl"`
	Body            json.RawMessage   `json:"body"`
	RequestFileName string            `json:"requestFileName"`
	Headers         map[string]string `json:"headers"`
	ActingAs        *Actor            `json:"actingAs"`

	ExpectedCode     int            `json:"expectedCode"`
	Expect           map[string]any `json:"expect"`
	ResponseFileName string         `json:"responseFileName"`

	IsMockRequired bool       `json:"isMockRequired"`
	MockSteps      []MockStep `json:"mockSteps"`

	dir string
}

// Actor is the caller a bearer token is minted for.
type Actor struct {
	UserID uint   `json:"userId"`
	Role   string `json:"role"`
}

// MockStep intercepts one kind of side effect. Supported methods:
// "httprequest" (outbound pkg/http calls) and "sendmail" (pkg/mail).
type MockStep struct {
	Method     string         `json:"method"`
	MatchURL   string         `json:"matchUrl"`
	ReturnData MockReturnData `json:"returnData"`
}

type MockReturnData struct {
	StatusCode int             `json:"statusCode"`
	Body       json.RawMessage `json:"body"`
}

// LoadFile reads an array of scenarios.
func LoadFile(path string) ([]*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve %q: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var list []*Scenario
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}
	for i, s := range list {
		s.dir = filepath.Dir(abs)
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("testkit: %s[%d]: %w", filepath.Base(abs), i, err)
		}
	}
	return list, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		s.ExpectedCode = http.StatusOK
	}
	if s.RequestMethod == "" {
		s.RequestMethod = http.MethodGet
	}
	if len(s.Body) > 0 && s.RequestFileName != "" {
		return fmt.Errorf("body and requestFileName are mutually exclusive")
	}
	for i, m := range s.MockSteps {
		if m.Method != "httprequest" && m.Method != "sendmail" {
			return fmt.Errorf("mockSteps[%d]: unknown method %q", i, m.Method)
		}
	}
	return nil
}

func (s *Scenario) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// RequestBody returns the inline body or the contents of requestFileName.
func (s *Scenario) RequestBody() ([]byte, error) {
	if len(s.Body) > 0 {
		return s.Body, nil
	}
	if p := s.resolve(s.RequestFileName); p != "" {
		return os.ReadFile(p)
	}
	return nil, nil
}

func (s *Scenario) ResponseBodyPath() string { return s.resolve(s.ResponseFileName) }

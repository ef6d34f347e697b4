package testkit

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// MockTransport is an http.RoundTripper that answers outgoing requests from
// the "httprequest" steps of a scenario instead of touching the network.
// The runner installs it on the shared pkg/http client, so components like
// the HTTP payment gateway hit the scenario's canned responses:
//
//	mt := testkit.NewMockTransport(scenario)
//	outhttp.DefaultClient.Transport = mt
//	// ... fire the request ...
//	mt.AssertAllCalled()
type MockTransport struct {
	mu      sync.Mutex
	calls   []*mockCall
	require bool // unmatched outgoing calls fail when isMockRequired
}

type mockCall struct {
	step MockStep
	hits int
}

// NewMockTransport builds a MockTransport from the "httprequest" steps in s.
// Steps with other methods belong to FuncMocker and are skipped here.
func NewMockTransport(s *Scenario) *MockTransport {
	mt := &MockTransport{require: s.IsMockRequired}
	for _, step := range s.NetUtilMockStep {
		if step.Method == "httprequest" {
			mt.calls = append(mt.calls, &mockCall{step: step})
		}
	}
	return mt
}

// RoundTrip matches the request URL against the mock steps in order. An
// empty matchUrl matches everything; otherwise the step's matchUrl must be
// a prefix of the outgoing URL.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	for _, c := range mt.calls {
		if !c.step.IsMock {
			// pass-through step: stop matching, let the caller's real
			// transport take over
			break
		}
		if c.step.MatchURL != "" && !strings.HasPrefix(req.URL.String(), c.step.MatchURL) {
			continue
		}
		c.hits++
		return syntheticResponse(req, c.step.ReturnData)
	}

	if mt.require {
		return nil, fmt.Errorf("testkit: unexpected outgoing HTTP call to %s — no matching mock step", req.URL)
	}
	return &http.Response{
		StatusCode: http.StatusNotFound,
		Body:       io.NopCloser(strings.NewReader(`{"error":"no mock configured"}`)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

// AssertAllCalled reports every isMock=true step that was never matched.
func (mt *MockTransport) AssertAllCalled() []error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var errs []error
	for _, c := range mt.calls {
		if c.step.IsMock && c.hits == 0 {
			errs = append(errs, fmt.Errorf(
				"testkit: mock step %q (matchUrl=%q) was never called",
				c.step.Method, c.step.MatchURL,
			))
		}
	}
	return errs
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

func syntheticResponse(req *http.Request, rd MockReturnData) (*http.Response, error) {
	code := rd.StatusCode
	if code == 0 {
		code = http.StatusOK
	}

	body, err := decodeMockBody(rd.Body)
	if err != nil {
		return nil, fmt.Errorf("testkit: mock response: %w", err)
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")

	return &http.Response{
		StatusCode: code,
		Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Request:    req,
	}, nil
}

// decodeMockBody decodes the base64 body of a mock step, accepting both
// padded and unpadded encodings. An empty string decodes to nil.
func decodeMockBody(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("base64 decode mock body: %w", err)
		}
	}
	return decoded, nil
}

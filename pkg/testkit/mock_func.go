package testkit

import (
	"fmt"
	"sync"

	"github.com/stretchr/testify/mock"
)

// FuncMocker lets the runner stub and verify non-HTTP side-effects named in
// scenario files. The only built-in is "sendmail", which stands in for
// pkg/mail deliveries; register additional mockers from an init() in the
// test package:
//
//	func init() {
//	    testkit.RegisterMocker("webhook", testkit.NewFuncMocker("webhook"))
//	}
type FuncMocker interface {
	// Intercept receives the decoded ReturnData.Body of the mock step.
	Intercept(rawBody []byte) error

	// Reset clears call history between scenarios.
	Reset()

	// WasCalled reports how many times Intercept ran since the last Reset.
	WasCalled() int

	// Mock exposes the embedded testify mock for custom On/Return chains.
	Mock() *mock.Mock
}

// FuncRecorder is the testify/mock-backed FuncMocker returned by
// NewFuncMocker. Out of the box it accepts every Intercept call and returns
// nil; tests reconfigure it through Mock().
type FuncRecorder struct {
	m      mock.Mock
	method string

	mu    sync.Mutex
	calls int
}

// NewFuncMocker creates a FuncRecorder for the named method.
func NewFuncMocker(method string) *FuncRecorder {
	fr := &FuncRecorder{method: method}
	fr.m.On("Intercept", mock.AnythingOfType("[]uint8")).Return(nil)
	return fr
}

func (fr *FuncRecorder) Intercept(rawBody []byte) error {
	fr.mu.Lock()
	fr.calls++
	fr.mu.Unlock()

	args := fr.m.Called(rawBody)
	if args.Get(0) == nil {
		return nil
	}
	return args.Error(0)
}

func (fr *FuncRecorder) Reset() {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	fr.calls = 0
	fr.m.Calls = nil
	fr.m.On("Intercept", mock.AnythingOfType("[]uint8")).Return(nil)
}

func (fr *FuncRecorder) WasCalled() int {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	return fr.calls
}

func (fr *FuncRecorder) Mock() *mock.Mock { return &fr.m }

// ─── Registry ─────────────────────────────────────────────────────────────────

var (
	mockerMu sync.RWMutex

	// sendmail is the only side-effect this application produces outside
	// HTTP; everything else comes in via RegisterMocker.
	mockerRegistry = map[string]FuncMocker{
		"sendmail": NewFuncMocker("sendmail"),
	}
)

// RegisterMocker registers a FuncMocker for the given method name.
func RegisterMocker(method string, m FuncMocker) {
	mockerMu.Lock()
	defer mockerMu.Unlock()
	mockerRegistry[method] = m
}

// GetMocker retrieves a registered FuncMocker by method name (nil if absent).
// Use it to set expectations or inspect calls:
//
//	testkit.GetMocker("sendmail").Mock().On("Intercept", mock.Anything).Return(nil)
func GetMocker(method string) FuncMocker {
	mockerMu.RLock()
	defer mockerMu.RUnlock()
	return mockerRegistry[method]
}

func resetAllMockers() {
	mockerMu.RLock()
	defer mockerMu.RUnlock()
	for _, m := range mockerRegistry {
		m.Reset()
	}
}

// ─── Scenario activation ──────────────────────────────────────────────────────

// ActivateFuncMocks runs every non-HTTP isMock=true step through its
// registered mocker. Unknown methods are an error only when the scenario
// sets isMockRequired.
func ActivateFuncMocks(s *Scenario) error {
	for i, step := range s.NetUtilMockStep {
		if step.Method == "httprequest" || !step.IsMock {
			continue
		}
		m := GetMocker(step.Method)
		if m == nil {
			if s.IsMockRequired {
				return fmt.Errorf("testkit: no mocker registered for %q (step %d)", step.Method, i)
			}
			continue
		}

		raw, err := decodeMockBody(step.ReturnData.Body)
		if err != nil {
			return fmt.Errorf("testkit: step %d: %w", i, err)
		}
		if err := m.Intercept(raw); err != nil {
			return fmt.Errorf("testkit: step %d mock intercept failed: %w", i, err)
		}
	}
	return nil
}

// AssertFuncMocksCalled reports every isMock=true non-HTTP step whose mocker
// never ran.
func AssertFuncMocksCalled(s *Scenario) []error {
	var errs []error
	seen := map[string]bool{}
	for _, step := range s.NetUtilMockStep {
		if step.Method == "httprequest" || !step.IsMock || seen[step.Method] {
			continue
		}
		seen[step.Method] = true
		m := GetMocker(step.Method)
		if m == nil {
			continue
		}
		if m.WasCalled() == 0 {
			errs = append(errs, fmt.Errorf(
				"mock %q registered but never called during scenario %q",
				step.Method, s.Name,
			))
		}
	}
	return errs
}

package testkit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode compares the recorded status against the scenario's
// expectedCode.
func AssertStatusCode(t *testing.T, scenario *Scenario, got int) {
	t.Helper()
	assert.Equal(t, scenario.ExpectedCode, got,
		"[%s] HTTP status code mismatch", scenario.Name)
}

// AssertJSONBody compares the actual response bytes with the expected file
// contents. Both sides are decoded first, so key order and whitespace never
// matter; testify then prints a field-level diff on mismatch. An empty
// expected slice skips the assertion (scenario had no responseFileName).
func AssertJSONBody(t *testing.T, scenario *Scenario, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}

	var want, got interface{}
	require.NoError(t, json.Unmarshal(expected, &want),
		"[%s] expected response file is not valid JSON", scenario.Name)
	if !assert.NoError(t, json.Unmarshal(actual, &got),
		"[%s] actual response is not valid JSON\nbody: %s", scenario.Name, string(actual)) {
		return
	}

	assert.Equal(t, want, got, "[%s] response body mismatch", scenario.Name)
}

// AssertMocksAllCalled fails the test when any isMock=true step — outgoing
// HTTP or side-effect — was never triggered during the scenario.
func AssertMocksAllCalled(t *testing.T, scenario *Scenario, mt *MockTransport) {
	t.Helper()

	for _, err := range mt.AssertAllCalled() {
		assert.NoError(t, err, "[%s]", scenario.Name)
	}
	for _, err := range AssertFuncMocksCalled(scenario) {
		assert.NoError(t, err, "[%s]", scenario.Name)
	}
}

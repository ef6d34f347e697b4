package routes_test

import (
	"testing"

	"github.com/yasithJay/online-bookstore-final-assessment/pkg/testkit"
)

// TestAPIScenarios drives the public surface through the JSON scenario
// runner. Each file in testdata/ is one request/response pair; bodies are
// deep-compared so envelope shapes stay pinned down.
func TestAPIScenarios(t *testing.T) {
	app, _, _ := newTestServer(t)
	testkit.RunDir(t, app.Router.Handler(), "testdata")
}

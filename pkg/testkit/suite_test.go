package testkit

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

// TestSuiteRunner drives RunSuite end to end: a master config pointing at a
// scenario array file, a handler map, and request/response fixtures written
// to a temp dir. A clean run without t.Fatal is the pass condition since
// the suite reports through the same *testing.T.
func TestSuiteRunner(t *testing.T) {
	dir := t.TempDir()

	master := []ConfigEntry{{
		ServiceName:       "CartSummary",
		FilePath:          "cart_api",
		ScenariosFileName: "summary_scenarios.json",
		ServiceURL:        "/api/cart/summary",
		HTTPMethodType:    "POST",
		WorkflowService:   "HandleCartSummary",
	}}
	writeJSONFile(t, filepath.Join(dir, "test_scenarios.json"), master)

	apiDir := filepath.Join(dir, "cart_api")
	if err := os.MkdirAll(apiDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeJSONFile(t, filepath.Join(apiDir, "summary_scenarios.json"), []Scenario{{
		Name:             "SummaryEchoesTotals",
		Description:      "Summary endpoint returns the posted totals",
		RequestMethod:    "POST",
		RequestURL:       "/api/cart/summary",
		ExpectedCode:     200,
		RequestFileName:  "req.json",
		ResponseFileName: "res.json",
	}})

	payload := []byte(`{"total_items":3,"total_price":"30.97"}`)
	if err := os.WriteFile(filepath.Join(apiDir, "req.json"), payload, 0o644); err != nil {
		t.Fatalf("write req: %v", err)
	}
	if err := os.WriteFile(filepath.Join(apiDir, "res.json"), payload, 0o644); err != nil {
		t.Fatalf("write res: %v", err)
	}

	handlers := map[string]http.HandlerFunc{
		"HandleCartSummary": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(payload)
		},
	}

	RunSuite(t, filepath.Join(dir, "test_scenarios.json"), handlers)
}

func writeJSONFile(t *testing.T, path string, v interface{}) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

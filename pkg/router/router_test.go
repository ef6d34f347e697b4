package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yasithJay/online-bookstore-final-assessment/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }

func TestNamedRouteURL(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	api.Get("/books/{title}", "books.show", ok)

	url, err := r.URL("books.show", map[string]string{"title": "1984"})
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	if url != "/api/books/1984" {
		t.Errorf("got %q", url)
	}

	if _, err := r.URL("books.show", nil); err == nil {
		t.Error("expected missing-parameter error")
	}
	if _, err := r.URL("nope", nil); err == nil {
		t.Error("expected unknown-route error")
	}
}

func TestGroupPrefixAndMethods(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	api.Post("/cart/items", "cart.add", ok)
	api.Patch("/cart/items", "cart.update", ok)
	api.Delete("/cart", "cart.clear", ok)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodPatch, srv.URL+"/api/cart/items", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("PATCH status = %d", resp.StatusCode)
	}

	// Method not mounted on the path
	resp, err = http.Get(srv.URL + "/api/cart/items")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", resp.StatusCode)
	}
}

func TestRoutesListing(t *testing.T) {
	r := router.New()
	r.Get("/health", "health", ok)
	api := r.Group("/api")
	api.Get("/books", "books.index", ok)

	routes := r.Routes()
	if len(routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(routes))
	}
	if routes[0].Path != "/api/books" || routes[0].Name != "books.index" {
		t.Errorf("unexpected first route: %+v", routes[0])
	}
	if routes[1].Path != "/health" {
		t.Errorf("unexpected second route: %+v", routes[1])
	}
}

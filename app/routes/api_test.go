package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasithJay/online-bookstore-final-assessment/internal/bootstrap"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/database"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/mail"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/migration"

	_ "github.com/yasithJay/online-bookstore-final-assessment/database/migrations"
)

var apiDBSeq int

// newTestServer boots the full app on in-memory sqlite and returns a test
// server plus a cookie-carrying client.
func newTestServer(t *testing.T) (*bootstrap.App, *httptest.Server, *http.Client) {
	t.Helper()

	apiDBSeq++
	db, err := database.Open("sqlite", fmt.Sprintf("file:apitest%d?mode=memory&cache=shared", apiDBSeq))
	require.NoError(t, err)
	require.NoError(t, migration.New(db).Run())

	app, err := bootstrap.NewWithDB(db)
	require.NoError(t, err)

	srv := httptest.NewServer(app.Router.Handler())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return app, srv, &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func dataOf(body map[string]interface{}) map[string]interface{} {
	data, _ := body["data"].(map[string]interface{})
	return data
}

// assertMoney compares a JSON money field against an expected amount
// regardless of how many trailing zeros the encoder kept.
func assertMoney(t *testing.T, want string, got interface{}) {
	t.Helper()
	raw, ok := got.(string)
	require.True(t, ok, "expected money as string, got %T", got)
	gotDec, err := decimal.NewFromString(raw)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString(want).Equal(gotDec), "want %s, got %s", want, raw)
}

func checkoutBody(card string) map[string]string {
	return map[string]string{
		"name":           "Demo User",
		"email":          "demo@bookstore.com",
		"address":        "123 Demo Street",
		"city":           "Demo City",
		"zip_code":       "12345",
		"payment_method": "credit_card",
		"card_number":    card,
		"expiry_date":    "12/99",
		"cvv":            "123",
	}
}

func TestHealth(t *testing.T) {
	_, srv, client := newTestServer(t)

	resp, body := doJSON(t, client, http.MethodGet, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", dataOf(body)["status"])
}

func TestBookEndpoints(t *testing.T) {
	_, srv, client := newTestServer(t)

	resp, body := doJSON(t, client, http.MethodGet, srv.URL+"/api/books", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	books, _ := body["data"].([]interface{})
	assert.Len(t, books, 4)

	resp, body = doJSON(t, client, http.MethodGet, srv.URL+"/api/books/"+url.PathEscape("The Great Gatsby"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Fiction", dataOf(body)["genre"])

	resp, _ = doJSON(t, client, http.MethodGet, srv.URL+"/api/books/Ulysses", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCartFlow(t *testing.T) {
	_, srv, client := newTestServer(t)

	// Non-numeric quantity is rejected.
	resp, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/cart/items", map[string]string{"title": "1984", "quantity": "abc"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Unknown book is a 404.
	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/cart/items", map[string]string{"title": "Ulysses", "quantity": "1"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Add twice, quantities merge.
	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/cart/items", map[string]string{"title": "1984", "quantity": "1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/cart/items", map[string]string{"title": "1984", "quantity": "2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), dataOf(body)["total_items"])
	assertMoney(t, "26.97", dataOf(body)["total_price"])

	// Update down to zero removes the line.
	resp, body = doJSON(t, client, http.MethodPatch, srv.URL+"/api/cart/items", map[string]string{"title": "1984", "quantity": "0"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), dataOf(body)["total_items"])

	// Updating an absent line is a 404.
	resp, _ = doJSON(t, client, http.MethodPatch, srv.URL+"/api/cart/items", map[string]string{"title": "1984", "quantity": "1"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCartIsolatedPerSession(t *testing.T) {
	_, srv, client := newTestServer(t)

	resp, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/cart/items", map[string]string{"title": "1984", "quantity": "1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	otherJar, _ := cookiejar.New(nil)
	other := &http.Client{Jar: otherJar}
	resp, body := doJSON(t, other, http.MethodGet, srv.URL+"/api/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), dataOf(body)["total_items"])
}

func TestCheckoutDeclined(t *testing.T) {
	_, srv, client := newTestServer(t)

	resp, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/cart/items", map[string]string{"title": "1984", "quantity": "1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/checkout", checkoutBody("4000000000001111"))
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	assert.Equal(t, "Payment failed: Invalid card number", body["message"])

	// Cart survives the decline.
	resp, body = doJSON(t, client, http.MethodGet, srv.URL+"/api/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), dataOf(body)["total_items"])
}

func TestCheckoutEmptyCart(t *testing.T) {
	_, srv, client := newTestServer(t)

	resp, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/checkout", checkoutBody("4242424242424242"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCheckoutInvalidDiscount(t *testing.T) {
	_, srv, client := newTestServer(t)

	resp, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/cart/items", map[string]string{"title": "1984", "quantity": "1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := checkoutBody("4242424242424242")
	payload["discount_code"] = "SAVE99"
	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/checkout", payload)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCheckoutSuccessAndConfirmation(t *testing.T) {
	app, srv, client := newTestServer(t)

	capture := &captureTransport{delivered: make(chan []byte, 1)}
	mail.SetTransport(capture)
	defer mail.SetTransport(&mail.LogTransport{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app.Queue.StartWorkers(ctx, 1)

	resp, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/cart/items", map[string]string{"title": "The Great Gatsby", "quantity": "2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := checkoutBody("4242424242424242")
	payload["discount_code"] = "save10"
	resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/checkout", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Payment processed successfully", body["message"])

	order, _ := dataOf(body)["order"].(map[string]interface{})
	require.NotNil(t, order)
	orderID, _ := order["id"].(string)
	require.Len(t, orderID, 8)
	assertMoney(t, "21.98", order["subtotal"])
	assertMoney(t, "2.20", order["discount"])
	assertMoney(t, "19.78", order["total"])
	assert.Equal(t, "Confirmed", order["status"])

	// Cart cleared by the successful checkout.
	resp, cartBody := doJSON(t, client, http.MethodGet, srv.URL+"/api/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), dataOf(cartBody)["total_items"])

	// The same session can view its confirmation; a stranger cannot.
	resp, _ = doJSON(t, client, http.MethodGet, srv.URL+"/api/orders/"+orderID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	strangerJar, _ := cookiejar.New(nil)
	stranger := &http.Client{Jar: strangerJar}
	resp, _ = doJSON(t, stranger, http.MethodGet, srv.URL+"/api/orders/"+orderID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The confirmation email goes out through the queue.
	select {
	case raw := <-capture.delivered:
		msg := string(raw)
		assert.Contains(t, msg, "Order Confirmation - Order #"+orderID)
		assert.Contains(t, msg, "The Great Gatsby x2")
	case <-time.After(3 * time.Second):
		t.Fatal("confirmation email was not delivered")
	}
}

func TestCheckoutSucceedsWhenEmailFails(t *testing.T) {
	app, srv, client := newTestServer(t)

	mail.SetTransport(failingTransport{})
	defer mail.SetTransport(&mail.LogTransport{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app.Queue.StartWorkers(ctx, 1)

	resp, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/cart/items", map[string]string{"title": "1984", "quantity": "1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Mail delivery is queued, so a broken transport never surfaces here.
	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/checkout", checkoutBody("4242424242424242"))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestAuthAndAccountFlow(t *testing.T) {
	_, srv, client := newTestServer(t)

	// No session, no account.
	resp, _ := doJSON(t, client, http.MethodGet, srv.URL+"/api/account", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	register := map[string]string{
		"email":    "demo@bookstore.com",
		"password": "demo123",
		"name":     "Demo User",
		"address":  "123 Demo Street, Demo City, DC 12345",
	}
	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/register", register)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Duplicate registration conflicts even with different casing.
	register["email"] = "DEMO@bookstore.com"
	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/register", register)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Place an order while logged in so it lands in the history.
	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/cart/items", map[string]string{"title": "Moby Dick", "quantity": "1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/checkout", checkoutBody("4242424242424242"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, client, http.MethodGet, srv.URL+"/api/account", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	orders, _ := dataOf(body)["orders"].([]interface{})
	require.Len(t, orders, 1)

	// Update the profile, then log out and back in with the new password.
	resp, _ = doJSON(t, client, http.MethodPut, srv.URL+"/api/account/profile", map[string]string{"name": "Renamed", "password": "newpass1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, client, http.MethodGet, srv.URL+"/api/account", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/login", map[string]string{"email": "demo@bookstore.com", "password": "demo123"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = doJSON(t, client, http.MethodPost, srv.URL+"/api/login", map[string]string{"email": "demo@bookstore.com", "password": "newpass1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user, _ := dataOf(body)["user"].(map[string]interface{})
	assert.Equal(t, "Renamed", user["name"])
	assert.NotEmpty(t, dataOf(body)["token"])
}

func TestBearerTokenAccess(t *testing.T) {
	_, srv, client := newTestServer(t)

	register := map[string]string{"email": "demo@bookstore.com", "password": "demo123", "name": "Demo User"}
	resp, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/register", register)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/login", map[string]string{"email": "demo@bookstore.com", "password": "demo123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := dataOf(body)["token"].(string)
	require.NotEmpty(t, token)

	// A cookie-less client gets in with the bearer token alone.
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/account", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	plain := &http.Client{}
	res, err := plain.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

// failingTransport simulates a broken mail provider.
type failingTransport struct{}

func (failingTransport) Deliver(string, []string, []byte) error {
	return fmt.Errorf("mail provider unavailable")
}

// captureTransport records the last delivered message for assertions.
type captureTransport struct {
	delivered chan []byte
}

func (t *captureTransport) Deliver(_ string, _ []string, raw []byte) error {
	select {
	case t.delivered <- raw:
	default:
	}
	return nil
}

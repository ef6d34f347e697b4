package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yasithJay/online-bookstore-final-assessment/app/models"
	outhttp "github.com/yasithJay/online-bookstore-final-assessment/pkg/http"
)

// HTTPGateway charges through a remote payment processor over JSON/HTTP.
// The processor owns validation and the approve/decline decision; this
// side only relays the request and the verdict.
type HTTPGateway struct {
	url string
}

func NewHTTPGateway(url string) *HTTPGateway {
	return &HTTPGateway{url: url}
}

func (g *HTTPGateway) Charge(ctx context.Context, req models.PaymentRequest) (models.PaymentResult, error) {
	if g.url == "" {
		return models.PaymentResult{}, fmt.Errorf("payment gateway url not configured")
	}

	resp, err := outhttp.Post(g.url).
		WithContext(ctx).
		Body(req).
		Timeout(10 * time.Second).
		Retry(3, 500*time.Millisecond).
		Send()
	if err != nil {
		return models.PaymentResult{}, fmt.Errorf("payment gateway: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return models.PaymentResult{}, fmt.Errorf("payment gateway: %w", err)
	}

	var result models.PaymentResult
	if err := resp.JSON(&result); err != nil {
		return models.PaymentResult{}, fmt.Errorf("payment gateway: decode response: %w", err)
	}
	if result.Method == "" {
		result.Method = req.Method
	}
	if result.Amount.IsZero() {
		result.Amount = req.Amount
	}
	return result, nil
}

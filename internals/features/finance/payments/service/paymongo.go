// file: internals/features/finance/payments/service/paymongo.go
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const payMongoBaseURL = "https://api.paymongo.com/v1"

// PaymentGateway: sisi PSP dari checkout. Implementasi production = PayMongo;
// test pakai stub.
type PaymentGateway interface {
	Enabled() bool
	CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (*CheckoutSession, error)
}

type CheckoutLineItem struct {
	Name     string
	Amount   decimal.Decimal
	Quantity int
}

type CheckoutSessionInput struct {
	Description string
	Currency    string
	LineItems   []CheckoutLineItem
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

type CheckoutSession struct {
	CheckoutID  string
	CheckoutURL string
}

/* ===================== PayMongo client ===================== */

type PayMongoClient struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewPayMongoClient(secretKey string) *PayMongoClient {
	return &PayMongoClient{
		secretKey: secretKey,
		baseURL:   payMongoBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *PayMongoClient) Enabled() bool { return c.secretKey != "" }

// PayMongo pakai minor units (centavos) untuk semua amount.
func toCentavos(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func (c *PayMongoClient) CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (*CheckoutSession, error) {
	currency := in.Currency
	if currency == "" {
		currency = "PHP"
	}

	lineItems := make([]map[string]interface{}, 0, len(in.LineItems))
	for _, li := range in.LineItems {
		qty := li.Quantity
		if qty <= 0 {
			qty = 1
		}
		lineItems = append(lineItems, map[string]interface{}{
			"name":     li.Name,
			"amount":   toCentavos(li.Amount),
			"currency": currency,
			"quantity": qty,
		})
	}

	body := map[string]interface{}{
		"data": map[string]interface{}{
			"attributes": map[string]interface{}{
				"line_items":           lineItems,
				"payment_method_types": []string{"card", "gcash", "paymaya"},
				"description":          in.Description,
				"success_url":          in.SuccessURL,
				"cancel_url":           in.CancelURL,
				"metadata":             in.Metadata,
				"send_email_receipt":   false,
			},
		},
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("paymongo: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout_sessions", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("paymongo: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.secretKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paymongo: create checkout session: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("paymongo: create checkout session: status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed struct {
		Data struct {
			ID         string `json:"id"`
			Attributes struct {
				CheckoutURL string `json:"checkout_url"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("paymongo: decode response: %w", err)
	}
	if parsed.Data.ID == "" || parsed.Data.Attributes.CheckoutURL == "" {
		return nil, fmt.Errorf("paymongo: response missing checkout session id/url")
	}

	return &CheckoutSession{
		CheckoutID:  parsed.Data.ID,
		CheckoutURL: parsed.Data.Attributes.CheckoutURL,
	}, nil
}

package utils

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const RazorpayBaseURL = "https://api.razorpay.com"

// RazorpayError represents an error reported by the Razorpay API. HTTPCode 400
// means the gateway rejected our request; the Detail payload is safe to pass
// through to the caller. Anything else is treated as an internal failure.
type RazorpayError struct {
	HTTPCode    int
	Code        string
	Description string
	Detail      map[string]interface{}
}

func (e *RazorpayError) Error() string {
	return fmt.Sprintf("razorpay error [%d %s]: %s", e.HTTPCode, e.Code, e.Description)
}

// RazorpayClient is a thin client for the Razorpay Orders API. Construct one
// per process in main and hand it to the controllers that need it.
type RazorpayClient struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

func NewRazorpayClient(keyID, keySecret string) *RazorpayClient {
	return &RazorpayClient{
		baseURL:   RazorpayBaseURL,
		keyID:     keyID,
		keySecret: keySecret,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewRazorpayClientWithBaseURL is used by tests to point the client at a stub server.
func NewRazorpayClientWithBaseURL(baseURL, keyID, keySecret string) *RazorpayClient {
	c := NewRazorpayClient(keyID, keySecret)
	c.baseURL = baseURL
	return c
}

// OrderParams describes an order creation request. Amount is in the smallest
// currency unit (paise for INR).
type OrderParams struct {
	Amount         int64             `json:"amount"`
	Currency       string            `json:"currency"`
	Receipt        string            `json:"receipt"`
	PartialPayment bool              `json:"partial_payment"`
	Notes          map[string]string `json:"notes,omitempty"`
}

// CreateOrder submits an order to the gateway and returns the order object as
// the gateway sent it. Gateway-reported errors come back as *RazorpayError.
func (c *RazorpayClient) CreateOrder(ctx context.Context, params OrderParams) (map[string]interface{}, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal order params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseRazorpayError(resp.StatusCode, respBody)
	}

	var order map[string]interface{}
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("parse order: %w (body: %s)", err, string(respBody))
	}
	return order, nil
}

func parseRazorpayError(status int, body []byte) *RazorpayError {
	rzErr := &RazorpayError{HTTPCode: status}
	var wrapper struct {
		Error map[string]interface{} `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Error != nil {
		rzErr.Detail = wrapper.Error
		if code, ok := wrapper.Error["code"].(string); ok {
			rzErr.Code = code
		}
		if desc, ok := wrapper.Error["description"].(string); ok {
			rzErr.Description = desc
		}
	} else {
		rzErr.Description = string(body)
	}
	return rzErr
}

// VerifyPaymentSignature reports whether signature matches the HMAC-SHA256 of
// "orderID|paymentID" keyed by secret, encoded as lowercase hex. The compare
// is constant-time.
func VerifyPaymentSignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against the
// raw webhook body.
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

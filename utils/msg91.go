package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const MSG91BaseURL = "https://control.msg91.com"

// MSG91Error represents an MSG91 API error.
type MSG91Error struct {
	HTTPCode int
	Message  string
}

func (e *MSG91Error) Error() string {
	return fmt.Sprintf("msg91 error [%d]: %s", e.HTTPCode, e.Message)
}

// MSG91Client sends and verifies SMS OTPs through the MSG91 v5 API.
type MSG91Client struct {
	baseURL    string
	authKey    string
	templateID string
	httpClient *http.Client
}

func NewMSG91Client(authKey, templateID string) *MSG91Client {
	return &MSG91Client{
		baseURL:    MSG91BaseURL,
		authKey:    authKey,
		templateID: templateID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewMSG91ClientWithBaseURL is used by tests to point the client at a stub server.
func NewMSG91ClientWithBaseURL(baseURL, authKey, templateID string) *MSG91Client {
	c := NewMSG91Client(authKey, templateID)
	c.baseURL = baseURL
	return c
}

func (c *MSG91Client) Configured() bool {
	return c != nil && c.authKey != "" && c.templateID != ""
}

type msg91Response struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// SendOTP asks MSG91 to deliver an OTP to the given mobile number
// (country-code prefixed, digits only). Returns the provider request id.
func (c *MSG91Client) SendOTP(ctx context.Context, mobile string) (string, error) {
	q := url.Values{}
	q.Set("template_id", c.templateID)
	q.Set("mobile", mobile)
	return c.do(ctx, http.MethodPost, "/api/v5/otp", q)
}

// VerifyOTP checks the code the user entered against MSG91.
func (c *MSG91Client) VerifyOTP(ctx context.Context, mobile, otp string) error {
	q := url.Values{}
	q.Set("mobile", mobile)
	q.Set("otp", otp)
	_, err := c.do(ctx, http.MethodGet, "/api/v5/otp/verify", q)
	return err
}

// ResendOTP triggers a re-delivery over SMS.
func (c *MSG91Client) ResendOTP(ctx context.Context, mobile string) error {
	q := url.Values{}
	q.Set("mobile", mobile)
	q.Set("retrytype", "text")
	_, err := c.do(ctx, http.MethodGet, "/api/v5/otp/retry", q)
	return err
}

func (c *MSG91Client) do(ctx context.Context, method, path string, q url.Values) (string, error) {
	endpoint := strings.TrimRight(c.baseURL, "/") + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("authkey", c.authKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var parsed msg91Response
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &MSG91Error{HTTPCode: resp.StatusCode, Message: string(respBody)}
	}
	if parsed.Type != "success" {
		return "", &MSG91Error{HTTPCode: resp.StatusCode, Message: parsed.Message}
	}
	return parsed.RequestID, nil
}

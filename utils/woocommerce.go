package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// WooProduct is the subset of the WooCommerce product shape the storefront uses.
type WooProduct struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Permalink string   `json:"permalink"`
	Price     string   `json:"price"`
	Images    []struct {
		Src string `json:"src"`
		Alt string `json:"alt"`
	} `json:"images"`
	Categories []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"categories"`
}

// WooCommerceClient reads the product feed from a WooCommerce store via the
// REST v3 API. Feed reads are idempotent, so transient failures are retried.
type WooCommerceClient struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client
}

func NewWooCommerceClient(baseURL, consumerKey, consumerSecret string) *WooCommerceClient {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 3 * time.Second
	rc.HTTPClient.Timeout = 10 * time.Second
	rc.Logger = nil

	return &WooCommerceClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		httpClient:     rc.StandardClient(),
	}
}

func (c *WooCommerceClient) Configured() bool {
	return c != nil && c.baseURL != "" && c.consumerKey != ""
}

// ListProducts fetches one page of published products.
func (c *WooCommerceClient) ListProducts(ctx context.Context, page, perPage int) ([]WooProduct, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	q := url.Values{}
	q.Set("consumer_key", c.consumerKey)
	q.Set("consumer_secret", c.consumerSecret)
	q.Set("status", "publish")
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	endpoint := c.baseURL + "/wp-json/wc/v3/products?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("woocommerce status %d: %s", resp.StatusCode, string(body))
	}

	var products []WooProduct
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

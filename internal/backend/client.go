// Package backend is the typed client for the retail backend the agent
// mirrors and drives. All freshness is achieved by polling or fixed-delay
// re-fetch; the backend exposes no streaming or push surface.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	httpclient "github.com/FlorisRimb/AI-Agent-Xiatech/internal/http"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/http/ratelimit"
)

// Client talks to the retail backend over its JSON API
type Client struct {
	baseURL string
	http    *httpclient.Client
}

// NewClient creates a backend client for the given base URL,
// e.g. http://localhost:8000/api
func NewClient(baseURL string, rl ratelimit.Config, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpclient.NewClient(rl, timeout),
	}
}

func (c *Client) endpoint(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

// Products fetches the product catalog
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.http.GetJSON(ctx, c.endpoint("products"), &products); err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	return products, nil
}

// UpdateProduct applies a partial update to a product and returns the
// updated record
func (c *Client) UpdateProduct(ctx context.Context, sku string, update ProductUpdate) (*Product, error) {
	var product Product
	if err := c.http.DoJSON(ctx, http.MethodPut, c.endpoint("products", sku), update, &product); err != nil {
		return nil, fmt.Errorf("update product %s: %w", sku, err)
	}
	return &product, nil
}

// Sales fetches the sales transaction log
func (c *Client) Sales(ctx context.Context) ([]Sale, error) {
	var sales []Sale
	if err := c.http.GetJSON(ctx, c.endpoint("sales"), &sales); err != nil {
		return nil, fmt.Errorf("fetch sales: %w", err)
	}
	return sales, nil
}

// StockLevels fetches on-hand stock per SKU
func (c *Client) StockLevels(ctx context.Context) ([]StockLevel, error) {
	var stocks []StockLevel
	if err := c.http.GetJSON(ctx, c.endpoint("stocks"), &stocks); err != nil {
		return nil, fmt.Errorf("fetch stock levels: %w", err)
	}
	return stocks, nil
}

// VirtualStock fetches the virtual stock projection for every SKU,
// including units on order but not yet received
func (c *Client) VirtualStock(ctx context.Context) ([]StockSnapshot, error) {
	var snapshots []StockSnapshot
	if err := c.http.GetJSON(ctx, c.baseURL+"/stocks/virtual/all", &snapshots); err != nil {
		return nil, fmt.Errorf("fetch virtual stock: %w", err)
	}
	return snapshots, nil
}

// QueryAgent issues one inference query and returns the acknowledgement.
// The backend processes the query asynchronously; completion is observed
// by fetching the analysis after a delay.
func (c *Client) QueryAgent(ctx context.Context) (*QueryAck, error) {
	var ack QueryAck
	if err := c.http.GetJSON(ctx, c.endpoint("agent", "llm", "query"), &ack); err != nil {
		return nil, fmt.Errorf("query agent: %w", err)
	}
	return &ack, nil
}

// Analysis fetches the latest structured recommendation
func (c *Client) Analysis(ctx context.Context) (*AnalysisResult, error) {
	var result AnalysisResult
	if err := c.http.GetJSON(ctx, c.endpoint("agent", "llm", "analysis"), &result); err != nil {
		return nil, fmt.Errorf("fetch analysis: %w", err)
	}
	return &result, nil
}

// History fetches prior query/response pairs for the current session.
// An empty history is a normal degraded-inference outcome, not an error.
func (c *Client) History(ctx context.Context) ([]HistoryEntry, error) {
	var resp HistoryResponse
	if err := c.http.GetJSON(ctx, c.endpoint("agent", "llm", "history"), &resp); err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	return resp.History, nil
}

// AutoRestock triggers automatic reorder placement for low-stock SKUs.
// A reachable backend answering success=false is treated the same as a
// transport failure.
func (c *Client) AutoRestock(ctx context.Context) (*RestockResult, error) {
	var result RestockResult
	if err := c.http.DoJSON(ctx, http.MethodPost, c.endpoint("agent", "llm", "auto_restock"), nil, &result); err != nil {
		return nil, fmt.Errorf("auto restock: %w", err)
	}
	if !result.Success {
		return &result, fmt.Errorf("auto restock rejected: %s", result.Message)
	}
	return &result, nil
}

// ReceiveAllPending settles every pending order in one call and returns
// the per-order stock deltas
func (c *Client) ReceiveAllPending(ctx context.Context) (*ReceiveResult, error) {
	var result ReceiveResult
	if err := c.http.DoJSON(ctx, http.MethodPost, c.baseURL+"/orders/receive-all-pending", nil, &result); err != nil {
		return nil, fmt.Errorf("receive pending orders: %w", err)
	}
	if !result.Success {
		return &result, fmt.Errorf("receive pending orders rejected: %s", result.Message)
	}
	return &result, nil
}

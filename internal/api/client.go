package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the local development backend.
const DefaultBaseURL = "http://127.0.0.1:8000"

// maxBodySnippet limits how much of an error body is kept for logs.
const maxBodySnippet = 512

// Client is a thin HTTP client for the Atlas backend. It performs no
// retries itself; callers decide retry policy via Error.Retryable.
type Client struct {
	baseURL string
	hc      *http.Client
	log     *zap.Logger
}

// NewClient creates a client for the backend at baseURL. A zero
// timeout disables the client-side deadline.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		log:     log,
	}
}

// ListDeals fetches the set of queryable deal identifiers.
func (c *Client) ListDeals(ctx context.Context) ([]string, error) {
	raw, err := c.get(ctx, "/deals")
	if err != nil {
		return nil, err
	}
	if err := validateBody(dealListSchema, raw); err != nil {
		return nil, err
	}
	var list DealList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return list.Deals, nil
}

// Ask submits a question scoped to one deal. topK bounds how many
// citation chunks the backend may return.
func (c *Client) Ask(ctx context.Context, dealID, query string, topK int) (*AskResponse, error) {
	body := AskRequest{DealID: dealID, Query: query, TopK: topK}
	raw, err := c.post(ctx, "/ask/"+url.PathEscape(dealID), body)
	if err != nil {
		return nil, err
	}
	if err := validateBody(askResponseSchema, raw); err != nil {
		return nil, err
	}
	var res AskResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &res, nil
}

// FetchChunk resolves one citation id to its clause text and metadata.
func (c *Client) FetchChunk(ctx context.Context, dealID, chunkID string) (*ChunkResponse, error) {
	raw, err := c.get(ctx, "/chunk/"+url.PathEscape(dealID)+"/"+url.PathEscape(chunkID))
	if err != nil {
		return nil, err
	}
	if err := validateBody(chunkResponseSchema, raw); err != nil {
		return nil, err
	}
	var res ChunkResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &res, nil
}

// SearchDeal runs retrieval-only search (no LLM) against one deal.
func (c *Client) SearchDeal(ctx context.Context, dealID, query string, topK int) (*SearchResponse, error) {
	body := AskRequest{DealID: dealID, Query: query, TopK: topK}
	raw, err := c.post(ctx, "/search/"+url.PathEscape(dealID), body)
	if err != nil {
		return nil, err
	}
	var res SearchResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &res, nil
}

// DealDocuments lists the raw and processed documents behind a deal.
func (c *Client) DealDocuments(ctx context.Context, dealID string) (*DealDocuments, error) {
	raw, err := c.get(ctx, "/deals/"+url.PathEscape(dealID)+"/docs")
	if err != nil {
		return nil, err
	}
	var res DealDocuments
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &res, nil
}

// Health pings the backend.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.get(ctx, "/health")
	return err
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, &Error{Endpoint: "GET " + path, Err: err}
	}
	return c.do(req, "GET "+path)
}

func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, &Error{Endpoint: "POST " + path, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, &Error{Endpoint: "POST " + path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, "POST "+path)
}

func (c *Client) do(req *http.Request, endpoint string) ([]byte, error) {
	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, &Error{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Endpoint: endpoint, Status: resp.StatusCode, Err: err}
	}

	c.log.Debug("request completed",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Endpoint: endpoint, Status: resp.StatusCode, Body: snippet(raw)}
	}
	return raw, nil
}

func snippet(raw []byte) string {
	if len(raw) > maxBodySnippet {
		raw = raw[:maxBodySnippet]
	}
	return string(raw)
}

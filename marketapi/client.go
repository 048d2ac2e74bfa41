package marketapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/core"
)

const defaultTimeout = 10 * time.Second

// Client is the HTTP client for the auction backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient builds a client for the backend at baseURL (e.g.
// "http://localhost:8081/api"). A nil logger discards client logs.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        logger,
	}
}

// WithTimeout overrides the per-request timeout and returns the client.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.httpClient.Timeout = d
	return c
}

// doRequest performs one round trip and returns the raw response body.
// Non-success statuses and network failures surface as *TransportError;
// the body is never interpreted here.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	c.log.Debug("sending request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("request failed", "method", method, "path", path, "status", resp.StatusCode)
		return nil, &TransportError{Status: resp.StatusCode, Body: string(data)}
	}

	return data, nil
}

// decodeMessage attempts the structured {message} shape first and wraps the
// raw text on parse failure, so a 200 response with a plain-text body never
// becomes a hard error.
func decodeMessage(data []byte) MessageResponse {
	var msg MessageResponse
	if err := json.Unmarshal(data, &msg); err != nil || msg.Message == "" {
		return MessageResponse{Message: string(data)}
	}
	return msg
}

// ListAuctions fetches the raw listing. Individual malformed elements decode
// to the zero record (the normalizer turns them into the all-defaults
// auction); only a body that is not a JSON array at all is an error.
func (c *Client) ListAuctions(ctx context.Context) ([]core.AuctionRecord, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/auctions", nil)
	if err != nil {
		return nil, err
	}

	records, err := core.DecodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode auction listing: %w", err)
	}

	c.log.Debug("fetched auction listing", "count", len(records))
	return records, nil
}

// GetAuction fetches one raw record. A malformed 200 body yields the zero
// record rather than an error; defaults are substituted downstream.
func (c *Client) GetAuction(ctx context.Context, id string) (core.AuctionRecord, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/auctions/"+url.PathEscape(id), nil)
	if err != nil {
		return core.AuctionRecord{}, err
	}

	var rec core.AuctionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		c.log.Warn("malformed auction record, substituting defaults", "id", id)
		return core.AuctionRecord{}, nil
	}
	return rec, nil
}

// CreateAuction submits a new lot and returns the backend's raw record of it.
func (c *Client) CreateAuction(ctx context.Context, req CreateAuctionRequest) (core.AuctionRecord, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/auctions", req)
	if err != nil {
		return core.AuctionRecord{}, err
	}

	var rec core.AuctionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return core.AuctionRecord{}, nil
	}
	return rec, nil
}

// PlaceBid submits a canonical-currency bid as a query parameter. The
// response carries only a confirmation message, never an updated snapshot;
// callers re-fetch the listing for post-bid state.
func (c *Client) PlaceBid(ctx context.Context, auctionID string, canonicalAmount float64) (MessageResponse, error) {
	path := fmt.Sprintf("/auctions/%s/bid?bidAmount=%s",
		url.PathEscape(auctionID),
		url.QueryEscape(strconv.FormatFloat(canonicalAmount, 'f', -1, 64)))

	data, err := c.doRequest(ctx, http.MethodPost, path, nil)
	if err != nil {
		return MessageResponse{}, err
	}
	return decodeMessage(data), nil
}

// EndAuction asks the backend to close a lot early.
func (c *Client) EndAuction(ctx context.Context, auctionID string) (MessageResponse, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/auctions/"+url.PathEscape(auctionID)+"/end", nil)
	if err != nil {
		return MessageResponse{}, err
	}
	return decodeMessage(data), nil
}

// Login authenticates a user. Failure is reported in the body's Success
// flag, not via HTTP status.
func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	return c.postAuth(ctx, "/users/login", req)
}

// Register creates a user account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	return c.postAuth(ctx, "/users/register", req)
}

func (c *Client) postAuth(ctx context.Context, path string, req any) (AuthResponse, error) {
	data, err := c.doRequest(ctx, http.MethodPost, path, req)
	if err != nil {
		return AuthResponse{}, err
	}

	var resp AuthResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return AuthResponse{Message: string(data)}, nil
	}
	return resp, nil
}

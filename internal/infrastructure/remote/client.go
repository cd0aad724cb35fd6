package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/salesapp/client/internal/domain/offline"
	"github.com/salesapp/client/internal/domain/trade"
)

// maxResponseSize is the maximum allowed response size from the backend (10MB)
const maxResponseSize = 10 * 1024 * 1024

var (
	// ErrUnavailable indicates the backend could not be reached. Callers treat
	// it as a connectivity failure, not a rejected request.
	ErrUnavailable = errors.New("remote: backend unavailable")
	// ErrRequestFailed indicates the backend reached us but rejected the request
	ErrRequestFailed = errors.New("remote: request failed")
	// ErrNotFound indicates the addressed resource does not exist remotely
	ErrNotFound = errors.New("remote: not found")
)

// Client implements offline.RemoteService against the backend HTTP API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ offline.RemoteService = (*Client)(nil)

// NewClient creates a backend API client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// listResponse is the paginated list payload returned by the backend
type listResponse struct {
	Page           []json.RawMessage `json:"page"`
	ContinueCursor string            `json:"continueCursor"`
	IsDone         bool              `json:"isDone"`
}

// List fetches one page of documents for an entity type
func (c *Client) List(ctx context.Context, entityType offline.EntityType, cursor string, pageSize int) (*offline.Page, error) {
	query := url.Values{}
	query.Set("pageSize", strconv.Itoa(pageSize))
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/api/data/"+entityType.String()+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("remote: failed to decode list response: %w", err)
	}
	return &offline.Page{
		Documents:      resp.Page,
		ContinueCursor: resp.ContinueCursor,
		IsDone:         resp.IsDone,
	}, nil
}

// CreateOrder submits an order draft and returns the created order with its
// server-assigned ID and order number
func (c *Client) CreateOrder(ctx context.Context, draft trade.OrderDraft) (*trade.Order, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/api/orders", draft)
	if err != nil {
		return nil, err
	}
	return orderFromBody(body)
}

// orderUpdateRequest combines the partial update with its edit attribution
type orderUpdateRequest struct {
	trade.OrderUpdate
	EditedBy          string `json:"editedBy"`
	EditedByName      string `json:"editedByName"`
	ChangeDescription string `json:"changeDescription"`
}

// UpdateOrder applies a partial edit to an order
func (c *Client) UpdateOrder(ctx context.Context, orderID string, update trade.OrderUpdate, meta trade.EditMeta) (*trade.Order, error) {
	req := orderUpdateRequest{
		OrderUpdate:       update,
		EditedBy:          meta.EditedBy,
		EditedByName:      meta.EditedByName,
		ChangeDescription: meta.ChangeDescription,
	}
	body, err := c.doRequest(ctx, http.MethodPatch, "/api/orders/"+url.PathEscape(orderID), req)
	if err != nil {
		return nil, err
	}
	return orderFromBody(body)
}

// UpdateOrderStatus transitions an order to a new status
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status trade.OrderStatus) (*trade.Order, error) {
	req := map[string]string{"status": status.String()}
	body, err := c.doRequest(ctx, http.MethodPatch, "/api/orders/"+url.PathEscape(orderID)+"/status", req)
	if err != nil {
		return nil, err
	}
	return orderFromBody(body)
}

// UndoOrderEdit reverts an order to its previous version
func (c *Client) UndoOrderEdit(ctx context.Context, orderID string) (*trade.Order, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/api/orders/"+url.PathEscape(orderID)+"/undo", nil)
	if err != nil {
		return nil, err
	}
	return orderFromBody(body)
}

// CreateRecord creates a document in a remote collection
func (c *Client) CreateRecord(ctx context.Context, entityType offline.EntityType, doc json.RawMessage) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodPost, "/api/data/"+entityType.String(), doc)
}

// UpdateRecord updates a document in a remote collection
func (c *Client) UpdateRecord(ctx context.Context, entityType offline.EntityType, id string, doc json.RawMessage) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodPatch, "/api/data/"+entityType.String()+"/"+url.PathEscape(id), doc)
}

// RemoveRecord deletes a document from a remote collection
func (c *Client) RemoveRecord(ctx context.Context, entityType offline.EntityType, id string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/api/data/"+entityType.String()+"/"+url.PathEscape(id), nil)
	return err
}

func (c *Client) doRequest(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("remote: failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("remote: failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("remote: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrRequestFailed, resp.StatusCode, truncate(body, 256))
	}

	return body, nil
}

func orderFromBody(body []byte) (*trade.Order, error) {
	order, err := trade.OrderFromDocument(body)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

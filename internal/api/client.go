package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Error is a backend failure: a non-2xx status plus the optional {detail}
// body. Detail, when present, is shown to the user verbatim.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("API Error %d", e.StatusCode)
}

// Client talks JSON to the triage backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// New creates a client for the given base URL (including the /api prefix).
// timeout of 0 leaves requests unbounded.
func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// do issues one request. body (if non-nil) is JSON-encoded; out (if
// non-nil) receives the decoded 2xx response body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Info("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("request_id", requestID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// decodeError extracts the backend's {detail} message when present.
func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		apiErr.Detail = payload.Detail
	}
	return apiErr
}

// ListAccounts returns the active sales-channel accounts.
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	var out []Account
	if err := c.do(ctx, http.MethodGet, "/accounts/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMessages returns inbound messages matching the given filters.
func (c *Client) ListMessages(ctx context.Context, p ListMessagesParams) ([]Message, error) {
	q := url.Values{}
	if p.AccountID > 0 {
		q.Set("account_id", strconv.Itoa(p.AccountID))
	}
	if p.Channel != "" {
		q.Set("channel", p.Channel)
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	var out []Message
	if err := c.do(ctx, http.MethodGet, "/messages/", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetMessage re-reads a single message.
func (c *Client) GetMessage(ctx context.Context, id int) (*Message, error) {
	var out Message
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/messages/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetThread returns the full conversation thread containing the message.
func (c *Client) GetThread(ctx context.Context, messageID int) (*Thread, error) {
	var out Thread
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/messages/%d/thread", messageID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkHandled marks a message (and its thread's new messages) handled.
func (c *Client) MarkHandled(ctx context.Context, messageID int) (*StatusResult, error) {
	var out StatusResult
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/messages/%d/handled", messageID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reopen puts a handled message back to new.
func (c *Client) Reopen(ctx context.Context, messageID int) (*StatusResult, error) {
	var out StatusResult
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/messages/%d/reopen", messageID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BulkMarkHandled marks every listed message handled if it is still new.
func (c *Client) BulkMarkHandled(ctx context.Context, messageIDs []int) (*BulkResult, error) {
	var out BulkResult
	if err := c.do(ctx, http.MethodPut, "/messages/bulk-handled", nil, messageIDs, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchMessages asks the backend to pull new messages from all accounts.
func (c *Client) FetchMessages(ctx context.Context) (*FetchResult, error) {
	var out FetchResult
	if err := c.do(ctx, http.MethodPost, "/messages/fetch", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateDraft asks the backend AI to draft a reply for the message.
func (c *Client) GenerateDraft(ctx context.Context, messageID int) (*Response, error) {
	body := struct {
		MessageID int `json:"message_id"`
	}{MessageID: messageID}
	var out Response
	if err := c.do(ctx, http.MethodPost, "/ai/generate", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendResponse finalizes and sends an existing draft.
func (c *Client) SendResponse(ctx context.Context, responseID int, req SendRequest) (*Response, error) {
	var out Response
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/ai/%d/send", responseID), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendDirect creates and sends a reply in one step, without AI generation.
func (c *Client) SendDirect(ctx context.Context, req SendRequest) (*Response, error) {
	var out Response
	if err := c.do(ctx, http.MethodPost, "/ai/send-direct", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DiscardDraft deletes an unsent draft and reports the reverted status.
func (c *Client) DiscardDraft(ctx context.Context, responseID int) (*DiscardResult, error) {
	var out DiscardResult
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/ai/%d/discard", responseID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTemplates returns QA templates matching the query. The backend owns
// all filtering; results are rendered as returned.
func (c *Client) ListTemplates(ctx context.Context, q TemplateQuery) ([]QATemplate, error) {
	values := url.Values{}
	if q.CategoryKey != "" {
		values.Set("category_key", q.CategoryKey)
	}
	if q.Category != "" {
		values.Set("category", q.Category)
	}
	if q.Platform != "" {
		values.Set("platform", q.Platform)
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	var out []QATemplate
	if err := c.do(ctx, http.MethodGet, "/qa-templates/", values, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTemplate adds a new QA template.
func (c *Client) CreateTemplate(ctx context.Context, in TemplateInput) (*QATemplate, error) {
	var out QATemplate
	if err := c.do(ctx, http.MethodPost, "/qa-templates/", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTemplate overwrites an existing QA template. Last write wins.
func (c *Client) UpdateTemplate(ctx context.Context, id int, in TemplateInput) (*QATemplate, error) {
	var out QATemplate
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/qa-templates/%d", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTemplate removes a QA template.
func (c *Client) DeleteTemplate(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/qa-templates/%d", id), nil, nil, nil)
}

// Usage returns the monthly AI usage aggregation.
func (c *Client) Usage(ctx context.Context, year, month int) (*Usage, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))
	q.Set("month", strconv.Itoa(month))
	var out Usage
	if err := c.do(ctx, http.MethodGet, "/ai/usage", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

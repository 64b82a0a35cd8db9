package twentycrm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"
)

// ErrKind classifies a failed CRM call. Callers branch on this to decide
// what a failure means; the client itself never retries.
type ErrKind string

const (
	ErrKindTimeout     ErrKind = "timeout"     // deadline elapsed mid-call
	ErrKindRejected    ErrKind = "rejected"    // remote answered non-2xx
	ErrKindUnreachable ErrKind = "unreachable" // connection-level failure
)

type CRMError struct {
	Kind   ErrKind
	Status int // set for rejected
	Body   string
	Err    error
}

func (e *CRMError) Error() string {
	switch e.Kind {
	case ErrKindRejected:
		return fmt.Sprintf("crm rejected request: %d - %s", e.Status, e.Body)
	case ErrKindTimeout:
		return fmt.Sprintf("crm call timed out: %v", e.Err)
	default:
		return fmt.Sprintf("crm unreachable: %v", e.Err)
	}
}

func (e *CRMError) Unwrap() error { return e.Err }

// AsCRMError unwraps err into a *CRMError if there is one.
func AsCRMError(err error) (*CRMError, bool) {
	var crmErr *CRMError
	ok := errors.As(err, &crmErr)
	return crmErr, ok
}

type Config struct {
	BaseURL  string
	APIToken string
	Timeout  time.Duration
}

type Client struct {
	baseURL  string
	apiToken string
	http     *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiToken: cfg.APIToken,
		http:     &http.Client{Timeout: timeout},
	}
}

// CreatePerson upserts a person record. With upsert=true repeated calls for
// the same leadId converge to one CRM-side record; that convergence lives on
// the CRM, not here. Exactly one attempt per call.
func (c *Client) CreatePerson(ctx context.Context, payload PersonPayload, upsert bool) (*PersonResponse, error) {
	url := c.baseURL + "/rest/people"
	if upsert {
		url += "?upsert=true"
	}

	raw, err := c.post(ctx, url, payload)
	if err != nil {
		return nil, err
	}

	resp := &PersonResponse{Data: raw}
	if id, ok := raw["id"].(string); ok {
		resp.ID = id
	}
	return resp, nil
}

// CreateTask creates the follow-up task for a person.
func (c *Client) CreateTask(ctx context.Context, payload TaskPayload) (*TaskResponse, error) {
	raw, err := c.post(ctx, c.baseURL+"/rest/tasks", payload)
	if err != nil {
		return nil, err
	}

	resp := &TaskResponse{Data: raw}
	if id, ok := raw["id"].(string); ok {
		resp.ID = id
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, url string, payload any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshalling crm payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building crm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("❌ twentycrm: %s answered %d - %s", url, resp.StatusCode, truncate(respBody, 512))
		return nil, &CRMError{
			Kind:   ErrKindRejected,
			Status: resp.StatusCode,
			Body:   string(respBody),
		}
	}

	result := map[string]any{}
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &result); err != nil {
			// A 2xx with a garbled body still counts as a rejection: we
			// cannot tell what the CRM actually did with the record.
			return nil, &CRMError{
				Kind:   ErrKindRejected,
				Status: resp.StatusCode,
				Body:   truncate(respBody, 512),
				Err:    err,
			}
		}
	}

	return result, nil
}

func classifyTransportError(err error) *CRMError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &CRMError{Kind: ErrKindTimeout, Err: err}
	}
	return &CRMError{Kind: ErrKindUnreachable, Err: err}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

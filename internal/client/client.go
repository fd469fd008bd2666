package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Options configures a control plane client. Only Server is required.
type Options struct {
	Server    string
	APIKey    string
	Tenant    string
	Namespace string
}

// Client talks to the Nova control plane. Every call carries a fresh
// X-Request-ID so server-side logs can be correlated with a single CLI
// invocation.
type Client struct {
	rc *resty.Client
}

// APIError is a control plane response with status >= 400. The message
// prefers the body's "error" field and falls back to the raw body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Status, e.Message)
}

// New builds a client for the given server.
func New(opts Options) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(opts.Server, "/")).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json")

	if opts.APIKey != "" {
		rc.SetHeader("X-API-Key", opts.APIKey)
	}
	if opts.Tenant != "" {
		rc.SetHeader("X-Tenant-ID", opts.Tenant)
	}
	if opts.Namespace != "" {
		rc.SetHeader("X-Namespace", opts.Namespace)
	}
	rc.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader("X-Request-ID", uuid.NewString())
		return nil
	})

	return &Client{rc: rc}
}

func (c *Client) do(ctx context.Context, method, path string, body any) (any, error) {
	req := c.rc.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode() >= 400 {
		msg := strings.TrimSpace(resp.String())
		var decoded map[string]any
		if json.Unmarshal(resp.Body(), &decoded) == nil {
			if s, ok := decoded["error"].(string); ok && s != "" {
				msg = s
			}
		}
		return nil, &APIError{Status: resp.StatusCode(), Message: msg}
	}

	if len(resp.Body()) == 0 {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode response from %s: %w", path, err)
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, path string) (any, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (any, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) Patch(ctx context.Context, path string, body any) (any, error) {
	return c.do(ctx, http.MethodPatch, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (any, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) (any, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

// Function fetches a function record by name.
func (c *Client) Function(ctx context.Context, name string) (map[string]any, error) {
	return c.getObject(ctx, "/functions/"+name)
}

// FunctionCode fetches a function's code record by name.
func (c *Client) FunctionCode(ctx context.Context, name string) (map[string]any, error) {
	return c.getObject(ctx, "/functions/"+name+"/code")
}

func (c *Client) getObject(ctx context.Context, path string) (map[string]any, error) {
	v, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected response shape from %s", path)
	}
	return obj, nil
}

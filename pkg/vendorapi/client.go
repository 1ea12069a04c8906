package vendorapi

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

	"vendordesk/pkg/config"
)

// Client talks to the vendor booking API. Every response is decoded once here
// into a Result; callers only ever see typed data or an *Error.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	Prefix     string

	VendorID      string
	SigningSecret string
	Audience      string

	// RequestTimeout is applied per request when the caller's context has no
	// earlier deadline. Zero disables it.
	RequestTimeout time.Duration

	Now func() time.Time
}

func New(cfg config.VendorAPIConfig) Client {
	return Client{
		BaseURL:        cfg.BaseURL,
		Prefix:         cfg.Prefix,
		VendorID:       cfg.VendorID,
		SigningSecret:  cfg.SigningSecret,
		Audience:       cfg.Audience,
		RequestTimeout: cfg.RequestTimeout,
	}
}

func (c Client) endpoint(path string, q url.Values) string {
	prefix := "/" + strings.Trim(c.Prefix, "/")
	if prefix == "/" {
		prefix = ""
	}
	u := strings.TrimSuffix(c.BaseURL, "/") + prefix + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// call performs one request and decodes its envelope into a Result. The
// returned error is non-nil only for transport-level failures (no response,
// unreadable or non-JSON body).
func call[T any](ctx context.Context, c Client, op, method, path string, q url.Values, reqBody any) (Result[T], error) {
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return Result[T]{}, &Error{Op: op, Message: "vendor api base url is not configured"}
	}
	if c.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.RequestTimeout)
		defer cancel()
	}

	var body io.Reader
	if reqBody != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
			return Result[T]{}, &Error{Op: op, Message: "encode request failed", Err: err}
		}
		body = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, q), body)
	if err != nil {
		return Result[T]{}, &Error{Op: op, Message: "build request failed", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.SigningSecret != "" {
		tok, err := SignServiceToken(c.SigningSecret, c.VendorID, c.Audience, c.now(), serviceTokenTTL)
		if err != nil {
			return Result[T]{}, &Error{Op: op, Message: "sign service token failed", Err: err}
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Result[T]{}, &Error{Op: op, Message: "network error", Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result[T]{}, &Error{Op: op, StatusCode: resp.StatusCode, Message: "read response failed", Err: err}
	}

	res, err := decodeEnvelope[T](resp.StatusCode, b)
	if err != nil {
		return Result[T]{}, &Error{Op: op, StatusCode: resp.StatusCode, Message: fmt.Sprintf("unexpected response (status %d)", resp.StatusCode), Err: err}
	}
	return res, nil
}

// do is call followed by Unwrap.
func do[T any](ctx context.Context, c Client, op, method, path string, q url.Values, reqBody any) (T, error) {
	res, err := call[T](ctx, c, op, method, path, q, reqBody)
	if err != nil {
		var zero T
		return zero, err
	}
	return res.Unwrap(op)
}

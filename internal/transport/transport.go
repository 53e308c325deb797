// Package transport executes canonical request specs against live HTTP
// endpoints. It is the only component that touches the network; everything
// above it sees either a Response or a TransportError.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/restage/restage/internal/document"
)

// DefaultBaseURL prefixes request URLs that are not absolute.
const DefaultBaseURL = "http://localhost:8000"

// DefaultTimeout bounds each HTTP exchange unless the request spec or the
// CLI override it.
const DefaultTimeout = 3 * time.Second

// TransportError reports a connection, timeout, or protocol-level failure.
// It is distinct from an HTTP error status, which yields a Response.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Response is the exchange outcome exposed to assert and register
// expressions. Body holds the JSON-decoded payload, nil when the payload
// is not JSON.
type Response struct {
	Status  int
	Headers map[string]string
	Cookies map[string]string
	Body    any
	Text    string
}

// Scope returns the map bound to the name "response" in the evaluation
// scope of assertions and registrations.
func (r *Response) Scope() map[string]any {
	return map[string]any{
		"status":  r.Status,
		"headers": r.Headers,
		"cookies": r.Cookies,
		"body":    r.Body,
		"text":    r.Text,
	}
}

// Client executes request specs. The cookie jar carries session cookies
// across the stages of one test case, so one Client serves exactly one run.
type Client struct {
	base    string
	timeout time.Duration
	httpc   *http.Client
}

// NewClient builds a per-run client. Empty baseURL and non-positive timeout
// fall back to the defaults.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	jar, _ := cookiejar.New(nil)
	return &Client{
		base:    baseURL,
		timeout: timeout,
		httpc:   &http.Client{Jar: jar},
	}
}

// Do executes one rendered request spec and returns the response, or a
// TransportError when the exchange itself fails.
func (c *Client) Do(ctx context.Context, spec document.RequestSpec) (*Response, error) {
	target := spec.URL
	if !strings.HasPrefix(target, "http") {
		target = c.base + target
	}

	target, err := appendParams(target, spec.Options)
	if err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}

	body, contentType, err := encodeBody(spec.Options)
	if err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout(spec.Options))
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, spec.Method, target, body)
	if err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if headers, ok := spec.Options["headers"].(map[string]any); ok {
		for k, v := range headers {
			req.Header.Set(k, fmt.Sprintf("%v", v))
		}
	}
	if cookies, ok := spec.Options["cookies"].(map[string]any); ok {
		for k, v := range cookies {
			req.AddCookie(&http.Cookie{Name: k, Value: fmt.Sprintf("%v", v)})
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}
	cookies := map[string]string{}
	for _, ck := range resp.Cookies() {
		cookies[ck.Name] = ck.Value
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		parsed = nil
	}

	return &Response{
		Status:  resp.StatusCode,
		Headers: headers,
		Cookies: cookies,
		Body:    parsed,
		Text:    string(data),
	}, nil
}

// requestTimeout prefers a per-spec timeout option (seconds) over the
// client default.
func (c *Client) requestTimeout(opts map[string]any) time.Duration {
	switch t := opts["timeout"].(type) {
	case int:
		if t > 0 {
			return time.Duration(t) * time.Second
		}
	case float64:
		if t > 0 {
			return time.Duration(t * float64(time.Second))
		}
	}
	return c.timeout
}

func appendParams(target string, opts map[string]any) (string, error) {
	params, ok := opts["params"].(map[string]any)
	if !ok || len(params) == 0 {
		return target, nil
	}

	u, err := url.Parse(target)
	if err != nil {
		return target, err
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, fmt.Sprintf("%v", v))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func encodeBody(opts map[string]any) (io.Reader, string, error) {
	if j, ok := opts["json"]; ok {
		data, err := json.Marshal(j)
		if err != nil {
			return nil, "", fmt.Errorf("encode json body: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	}

	if d, ok := opts["data"]; ok {
		m, ok := d.(map[string]any)
		if !ok {
			return nil, "", fmt.Errorf("data option must be a mapping")
		}
		form := url.Values{}
		for k, v := range m {
			form.Set(k, fmt.Sprintf("%v", v))
		}
		return strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", nil
	}

	return nil, "", nil
}

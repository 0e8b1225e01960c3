// Package crm sends authenticated requests to the Zoho CRM REST API and turns
// failed responses into the errors of package apierrors.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Tracktor/zoho-crm/apierrors"
	"github.com/Tracktor/zoho-crm/auth"
	"github.com/Tracktor/zoho-crm/oauth2"
	"github.com/google/uuid"
)

// Connection is the request gateway to the CRM API. Every request checks
// that the OAuth client is authorized and refreshes an expired access token
// before it is sent.
type Connection struct {
	client     *auth.Client
	base       http.RoundTripper
	httpClient *http.Client
	httpOnce   sync.Once
	newID      func() string
}

// ConnectionOption defines a function type to modify the Connection instance.
type ConnectionOption func(*Connection)

// WithTransport sets the round tripper used for API requests. Defaults to
// http.DefaultTransport.
func WithTransport(rt http.RoundTripper) ConnectionOption {
	return func(c *Connection) {
		c.base = rt
	}
}

// WithRequestIDFunc sets the generator of the request ids used in logs.
func WithRequestIDFunc(fn func() string) ConnectionOption {
	return func(c *Connection) {
		c.newID = fn
	}
}

func NewConnection(client *auth.Client, opts ...ConnectionOption) *Connection {
	c := &Connection{
		client: client,
		base:   http.DefaultTransport,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Client returns the OAuth client the connection authenticates with.
func (c *Connection) Client() *auth.Client {
	return c.client
}

// HTTP returns the cached *http.Client used for API requests. Its transport
// sets the Authorization header from the token current at send time, so a
// refresh after the client was built is picked up. It doesn't refresh
// expired tokens; use the verb methods for that.
func (c *Connection) HTTP() *http.Client {
	c.httpOnce.Do(func() {
		c.httpClient = &http.Client{
			Timeout:   c.client.Config().HTTPTimeout(),
			Transport: &authTransport{base: c.base, client: c.client},
		}
	})
	return c.httpClient
}

func (c *Connection) Get(ctx context.Context, path string, opts ...RequestOption) (*http.Response, error) {
	return c.Request(ctx, http.MethodGet, path, nil, opts...)
}

func (c *Connection) Delete(ctx context.Context, path string, opts ...RequestOption) (*http.Response, error) {
	return c.Request(ctx, http.MethodDelete, path, nil, opts...)
}

// Post sends body encoded as JSON. A []byte or json.RawMessage body is sent as is.
func (c *Connection) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*http.Response, error) {
	return c.Request(ctx, http.MethodPost, path, body, opts...)
}

func (c *Connection) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*http.Response, error) {
	return c.Request(ctx, http.MethodPut, path, body, opts...)
}

func (c *Connection) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*http.Response, error) {
	return c.Request(ctx, http.MethodPatch, path, body, opts...)
}

// Request sends a request to BaseURL()/path and classifies the response.
//
// A successful response is returned with its body readable. Failures are
// returned as:
//   - *apierrors.OAuthStateError when the OAuth client isn't authorized;
//     nothing is sent
//   - *apierrors.HTTPTimeoutError or *apierrors.HTTPConnectionError for
//     transport failures
//   - *apierrors.InvalidDataError, *apierrors.DuplicateDataError or
//     *apierrors.APIRequestError when the body carries a structured error,
//     including a failed first record in a 2xx data envelope
//   - *apierrors.HTTPRequestError for other non-2xx responses
//
// The request is sent once. An expired access token is refreshed first.
func (c *Connection) Request(ctx context.Context, method, path string, body any, opts ...RequestOption) (*http.Response, error) {
	accessToken, err := c.client.EnsureFresh(ctx)
	if err != nil {
		return nil, err
	}

	o := newRequestOptions(opts)
	req, err := c.newRequest(ctx, method, path, body, o)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", oauth2.AuthScheme+" "+accessToken)

	logger := c.client.Config().Logger
	id := c.newID()
	start := time.Now()

	resp, err := c.HTTP().Do(req)
	if err != nil {
		logger.Debug().Err(err).Str("request_id", id).Str("method", method).Str("path", path).Msg("CRM request failed")
		return nil, apierrors.FromTransportError(err)
	}

	data, err := readBody(resp)
	if err != nil {
		return nil, apierrors.FromTransportError(err)
	}

	logger.Debug().
		Str("request_id", id).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("CRM request")

	if err := classify(resp, data); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Connection) newRequest(ctx context.Context, method, path string, body any, o *requestOptions) (*http.Request, error) {
	endpoint := c.client.Config().BaseURL() + "/" + strings.TrimPrefix(path, "/")
	if len(o.query) > 0 {
		endpoint += "?" + o.query.Encode()
	}

	reader, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, values := range o.header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	if reader != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	return req, nil
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.NewReader(b), nil
	case json.RawMessage:
		return bytes.NewReader(b), nil
	case io.Reader:
		return b, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		return bytes.NewReader(data), nil
	}
}

// readBody reads the whole body and restores it on resp.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))
	return data, nil
}

// authTransport sets the Authorization header on requests that don't carry one.
type authTransport struct {
	base   http.RoundTripper
	client *auth.Client
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Authorization") != "" {
		return t.base.RoundTrip(req)
	}
	accessToken := t.client.Token().AccessToken()
	if accessToken == "" {
		return t.base.RoundTrip(req)
	}

	r := req.Clone(req.Context())
	r.Header.Set("Authorization", oauth2.AuthScheme+" "+accessToken)
	return t.base.RoundTrip(r)
}

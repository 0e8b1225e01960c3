package auth

import (
	"context"
	"net/http"

	xoauth2 "golang.org/x/oauth2"
)

type tokenSource struct {
	ctx    context.Context
	client *Client
}

// TokenSource adapts the client to golang.org/x/oauth2. Each Token call
// refreshes the access token first if it is expired.
func (c *Client) TokenSource(ctx context.Context) xoauth2.TokenSource {
	return &tokenSource{ctx: ctx, client: c}
}

func (s *tokenSource) Token() (*xoauth2.Token, error) {
	if _, err := s.client.EnsureFresh(s.ctx); err != nil {
		return nil, err
	}
	return s.client.Token().OAuth2(), nil
}

// AuthorizedHTTPClient returns an *http.Client that adds the Zoho
// Authorization header to every request. It is meant for endpoints the CRM
// connection doesn't cover; response classification is left to the caller.
func (c *Client) AuthorizedHTTPClient(ctx context.Context) *http.Client {
	ctx = context.WithValue(ctx, xoauth2.HTTPClient, c.http())
	return xoauth2.NewClient(ctx, c.TokenSource(ctx))
}

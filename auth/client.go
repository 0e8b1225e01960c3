package auth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Tracktor/zoho-crm/apierrors"
	"github.com/Tracktor/zoho-crm/config"
	"github.com/Tracktor/zoho-crm/internal/errors"
	"github.com/Tracktor/zoho-crm/oauth2"
	"github.com/Tracktor/zoho-crm/token"
)

// Client drives the token lifecycle against the Zoho accounts service: it
// exchanges grant tokens, refreshes access tokens and revokes refresh tokens.
//
// The Client owns its Token and updates it in place, so every holder of the
// pointer returned by Token observes the transitions. Lifecycle operations
// are serialized; concurrent callers of EnsureFresh share one refresh.
type Client struct {
	config     *config.Configuration
	token      *token.Token
	httpClient *http.Client
	httpOnce   sync.Once
	repo       token.Repo
	repoKey    string
	nowTime    func() time.Time
	validator  *Validator

	mu sync.Mutex
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client used to talk to the accounts
// service. By default one is built with the configured timeout.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTokenRepo persists the token under key after every create and refresh,
// and deletes it after a revoke.
func WithTokenRepo(repo token.Repo, key string) ClientOption {
	return func(c *Client) {
		c.repo = repo
		c.repoKey = key
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ClientOption {
	return func(c *Client) {
		c.nowTime = nowFunc
	}
}

// NewClient returns a Client using the Configuration registered for env. A
// nil tok starts the client unauthorized with an empty Token.
func NewClient(registry *config.Registry, env string, tok *token.Token, opts ...ClientOption) *Client {
	if tok == nil {
		tok = token.New()
	}

	c := &Client{
		config:    registry.Get(env),
		token:     tok,
		nowTime:   func() time.Time { return token.NowFunc() },
		validator: NewValidator(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromMap is NewClient with a Token built from persisted attributes.
func NewClientFromMap(registry *config.Registry, env string, attrs map[string]any, opts ...ClientOption) (*Client, error) {
	tok, err := token.FromMap(attrs)
	if err != nil {
		return nil, err
	}
	return NewClient(registry, env, tok, opts...), nil
}

// Token returns the shared Token.
func (c *Client) Token() *token.Token {
	return c.token
}

func (c *Client) Config() *config.Configuration {
	return c.config
}

// Authorized reports whether the client holds a refresh token. An authorized
// client may still have an expired access token.
func (c *Client) Authorized() bool {
	return c.token.RefreshToken() != ""
}

// AuthorizeURL returns the consent URL the user must visit to obtain a grant token.
func (c *Client) AuthorizeURL() string {
	req := oauth2.AuthorizeRequest{
		ClientID:    c.config.ClientID,
		Scopes:      c.config.Scopes(),
		RedirectURI: c.config.RedirectURL,
	}
	return c.config.AuthorizeURL() + "?" + req.Query()
}

// Create exchanges a grant token for an access/refresh token pair. It is the
// only operation that sets the refresh token.
func (c *Client) Create(ctx context.Context, grantToken string) (*token.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := oauth2.TokenRequest{
		GrantType:   oauth2.AuthorizationCodeGrant,
		Code:        grantToken,
		Credentials: c.credentials(),
	}
	if err := c.validator.ValidateTokenRequest(req); err != nil {
		return nil, err
	}

	tr, err := c.requestToken(ctx, req.Form(), createFailedMsg)
	if err != nil {
		return nil, err
	}

	if err := c.apply(tr.Attributes(true)); err != nil {
		return nil, err
	}
	c.config.Logger.Info().Str("environment", c.config.Environment()).Msg("Created OAuth token")

	return c.token, c.persist(ctx)
}

// Refresh obtains a new access token with the refresh token. Every field but
// the refresh token is updated. Calling Refresh on an unauthorized client
// returns an *apierrors.OAuthStateError.
func (c *Client) Refresh(ctx context.Context) (*token.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.refresh(ctx); err != nil {
		return nil, err
	}
	return c.token, c.persist(ctx)
}

// refresh updates the token in memory only.
func (c *Client) refresh(ctx context.Context) error {
	if !c.Authorized() {
		return &apierrors.OAuthStateError{Message: refreshForbiddenMsg, Token: c.token}
	}

	req := oauth2.TokenRequest{
		GrantType:    oauth2.RefreshTokenGrant,
		RefreshToken: c.token.RefreshToken(),
		Credentials:  c.credentials(),
	}
	if err := c.validator.ValidateTokenRequest(req); err != nil {
		return err
	}

	tr, err := c.requestToken(ctx, req.Form(), refreshFailedMsg)
	if err != nil {
		return err
	}

	if err := c.apply(tr.Attributes(false)); err != nil {
		return err
	}
	c.config.Logger.Info().Str("environment", c.config.Environment()).Msg("Refreshed access token")
	return nil
}

// Revoke revokes the refresh token and clears the Token, leaving the client
// unauthorized. On failure the Token is unchanged.
func (c *Client) Revoke(ctx context.Context) (*token.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.Authorized() {
		return nil, &apierrors.OAuthStateError{Message: revokeForbiddenMsg, Token: c.token}
	}

	req := oauth2.RevokeRequest{
		Token:       c.token.RefreshToken(),
		Credentials: c.credentials(),
	}
	if err := c.validator.ValidateRevokeRequest(req); err != nil {
		return nil, err
	}

	resp, body, err := c.postForm(ctx, c.config.RevokeURL(), req.Form())
	if err != nil {
		return nil, err
	}
	if !success(resp) {
		c.logFailure(resp, revokeFailedMsg)
		return nil, apierrors.NewOAuthRequestError(revokeFailedMsg, resp, body)
	}

	c.token.Clear()
	c.config.Logger.Info().Str("environment", c.config.Environment()).Msg("Revoked refresh token")

	if c.repo != nil {
		if err := c.repo.Delete(ctx, c.repoKey); err != nil && !errors.Is(err, errors.ErrTokenNotFound) {
			c.config.Logger.Warn().Err(err).Str("key", c.repoKey).Msg(deleteFailedLogMsg)
		}
	}
	return c.token, nil
}

// EnsureFresh checks that the client is authorized, refreshes the access
// token if it is expired, and returns the access token to use. Callers
// arriving while a refresh is in flight wait for it instead of refreshing
// again. Failing to save the refreshed token is logged, not returned: the
// token in memory is valid.
func (c *Client) EnsureFresh(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.Authorized() {
		return "", &apierrors.OAuthStateError{Message: notAuthorizedMsg, Token: c.token}
	}
	if c.token.Expired() {
		if err := c.refresh(ctx); err != nil {
			return "", err
		}
		if err := c.persist(ctx); err != nil {
			c.config.Logger.Warn().Err(err).Str("key", c.repoKey).Msg(persistFailedLogMsg)
		}
	}
	return c.token.AccessToken(), nil
}

func (c *Client) credentials() oauth2.Credentials {
	return oauth2.Credentials{
		ClientID:     c.config.ClientID,
		ClientSecret: c.config.ClientSecret,
		RedirectURI:  c.config.RedirectURL,
	}
}

// apply writes the response attributes and stamps the refresh time.
func (c *Client) apply(attrs map[string]any) error {
	attrs[token.RefreshTimeKey] = c.nowTime().UTC()
	return c.token.Set(attrs)
}

func (c *Client) persist(ctx context.Context) error {
	if c.repo == nil {
		return nil
	}
	return errors.Wrapf(c.repo.Upsert(ctx, c.repoKey, c.token), persistFailedMsg)
}

func (c *Client) requestToken(ctx context.Context, form url.Values, failureMsg string) (*oauth2.TokenResponse, error) {
	resp, body, err := c.postForm(ctx, c.config.TokenURL(), form)
	if err != nil {
		return nil, err
	}
	if !success(resp) {
		c.logFailure(resp, failureMsg)
		return nil, apierrors.NewOAuthRequestError(failureMsg, resp, body)
	}

	tr, err := oauth2.DecodeTokenResponse(body)
	if err != nil {
		return nil, apierrors.NewOAuthRequestError(fmt.Sprintf("%s: %s", failureMsg, invalidResponseMsg), resp, body)
	}
	if tr.Error != "" {
		c.logFailure(resp, failureMsg)
		return nil, apierrors.NewOAuthRequestError(fmt.Sprintf("%s: %s", failureMsg, tr.Error), resp, body)
	}
	return tr, nil
}

// postForm sends a form to the accounts service. The returned response body
// has been read into the returned bytes and restored for further reads.
func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http().Do(req)
	if err != nil {
		c.config.Logger.Warn().Err(err).Str("url", endpoint).Msg("Accounts request failed")
		return nil, nil, apierrors.FromTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, apierrors.FromTransportError(err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, body, nil
}

func (c *Client) http() *http.Client {
	c.httpOnce.Do(func() {
		if c.httpClient == nil {
			c.httpClient = &http.Client{Timeout: c.config.HTTPTimeout()}
		}
	})
	return c.httpClient
}

func (c *Client) logFailure(resp *http.Response, msg string) {
	c.config.Logger.Warn().
		Str("environment", c.config.Environment()).
		Int("status", resp.StatusCode).
		Msg(msg)
}

func success(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

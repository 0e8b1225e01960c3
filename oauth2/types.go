package oauth2

// Paths of the accounts service endpoints, relative to the accounts URL.
const (
	AuthorizePath = "/oauth/v2/auth"
	TokenPath     = "/oauth/v2/token"
	RevokePath    = "/oauth/v2/token/revoke"
)

// AuthScheme prefixes the access token in the Authorization header of API requests.
// Example: "Authorization: Zoho-oauthtoken 1000.abc..."
const AuthScheme = "Zoho-oauthtoken"

// ResponseType represents the OAuth 2.0 response type.
type ResponseType string

const (
	// CodeResponseType requests an authorization (grant) code.
	CodeResponseType ResponseType = "code"
)

// AccessType tells the accounts service whether a refresh token should be issued.
type AccessType string

const (
	// OfflineAccess asks for a refresh token along with the access token.
	OfflineAccess AccessType = "offline"
	OnlineAccess  AccessType = "online"
)

// Prompt controls the consent screen.
type Prompt string

const (
	// ConsentPrompt always shows the consent screen. Zoho only issues a new
	// refresh token when consent is given again.
	ConsentPrompt Prompt = "consent"
)

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
type GrantType string

const (
	// AuthorizationCodeGrant exchanges a grant token for an access/refresh token pair.
	// Token request includes: code, client_id, client_secret, redirect_uri
	AuthorizationCodeGrant GrantType = "authorization_code"

	// RefreshTokenGrant exchanges a refresh token for a new access token.
	// Token request includes: refresh_token, client_id, client_secret, redirect_uri
	// The refresh token itself is not rotated.
	RefreshTokenGrant GrantType = "refresh_token"
)

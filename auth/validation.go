package auth

import (
	"fmt"
	"strings"

	"github.com/Tracktor/zoho-crm/apierrors"
	"github.com/Tracktor/zoho-crm/oauth2"
)

// Validator checks requests to the accounts service before they are sent, so
// a missing credential fails locally instead of as an opaque 400.
type Validator struct{}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateCredentials reports missing connected-app settings as a
// *apierrors.ConfigurationError.
func (v *Validator) ValidateCredentials(creds oauth2.Credentials) error {
	var missing []string
	if creds.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if creds.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if creds.RedirectURI == "" {
		missing = append(missing, "redirect_uri")
	}
	if len(missing) > 0 {
		return &apierrors.ConfigurationError{
			Message: fmt.Sprintf("Missing configuration: %s", strings.Join(missing, ", ")),
		}
	}
	return nil
}

// ValidateTokenRequest validates token endpoint requests
func (v *Validator) ValidateTokenRequest(req oauth2.TokenRequest) error {
	if err := v.ValidateCredentials(req.Credentials); err != nil {
		return err
	}

	switch req.GrantType {
	case oauth2.AuthorizationCodeGrant:
		if strings.TrimSpace(req.Code) == "" {
			return fmt.Errorf("grant token is required")
		}
	case oauth2.RefreshTokenGrant:
		if req.RefreshToken == "" {
			return fmt.Errorf("refresh token is required")
		}
	default:
		return fmt.Errorf("unsupported grant type: %q", req.GrantType)
	}
	return nil
}

// ValidateRevokeRequest validates revoke endpoint requests
func (v *Validator) ValidateRevokeRequest(req oauth2.RevokeRequest) error {
	if err := v.ValidateCredentials(req.Credentials); err != nil {
		return err
	}
	if req.Token == "" {
		return fmt.Errorf("token to revoke is required")
	}
	return nil
}

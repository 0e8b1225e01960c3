package token

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Tracktor/zoho-crm/internal/utils"
	"github.com/spf13/cast"
)

// NowFunc returns the current time. It can be overridden in tests.
var NowFunc = time.Now

// Attribute keys used by FromMap, Set and ToMap.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
	ExpiresInSecKey = "expires_in_sec"
	ExpiresInKey    = "expires_in"
	TokenTypeKey    = "token_type"
	APIDomainKey    = "api_domain"
	RefreshTimeKey  = "refresh_time"
)

// setOrder is the order attributes are applied in. expires_in comes after
// expires_in_sec so that a map carrying both ends up with the millisecond value.
var setOrder = []string{
	AccessTokenKey,
	RefreshTokenKey,
	ExpiresInSecKey,
	ExpiresInKey,
	TokenTypeKey,
	APIDomainKey,
	RefreshTimeKey,
}

// Token holds an access/refresh token pair and its expiry bookkeeping.
//
// A Token is shared: the OAuth client that issued it mutates it in place on
// create, refresh and revoke, and everyone holding the pointer sees the
// change. All methods are safe for concurrent use. Empty strings are stored
// as "no value".
type Token struct {
	mu sync.RWMutex

	accessToken  *string
	refreshToken *string
	expiresInSec *int64
	expiresIn    *int64 // milliseconds
	tokenType    *string
	apiDomain    *string
	refreshTime  *time.Time // UTC time of the last successful create/refresh
}

// New returns an empty Token.
func New() *Token {
	return &Token{}
}

// FromMap builds a Token from string-keyed attributes. Missing keys leave the
// field empty; unknown keys are ignored.
func FromMap(attrs map[string]any) (*Token, error) {
	t := New()
	if err := t.Set(attrs); err != nil {
		return nil, err
	}
	return t, nil
}

// FromJSON is FromMap for a JSON object.
func FromJSON(data []byte) (*Token, error) {
	t := New()
	if err := t.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return t, nil
}

// Set updates the fields named in attrs atomically. A nil or empty value
// clears the field. Numbers may be given as any integer, float or numeric
// string; refresh_time accepts the forms listed on ParseRefreshTime.
func (t *Token) Set(attrs map[string]any) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, err := t.stagedLocked(attrs)
	if err != nil {
		return err
	}
	t.assign(next)
	return nil
}

// stagedLocked applies attrs to a copy of the fields so a bad value leaves
// the token untouched. t.mu must be held.
func (t *Token) stagedLocked(attrs map[string]any) (*Token, error) {
	next := &Token{
		accessToken:  utils.Clone(t.accessToken),
		refreshToken: utils.Clone(t.refreshToken),
		expiresInSec: utils.Clone(t.expiresInSec),
		expiresIn:    utils.Clone(t.expiresIn),
		tokenType:    utils.Clone(t.tokenType),
		apiDomain:    utils.Clone(t.apiDomain),
		refreshTime:  utils.Clone(t.refreshTime),
	}

	for _, key := range setOrder {
		value, ok := attrs[key]
		if !ok {
			continue
		}

		switch key {
		case AccessTokenKey, RefreshTokenKey, TokenTypeKey, APIDomainKey:
			s, err := normalizeString(value)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", key, err)
			}
			*next.stringField(key) = s
		case ExpiresInSecKey:
			n, err := normalizeInt(value)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", key, err)
			}
			next.setExpiresInSec(n)
		case ExpiresInKey:
			n, err := normalizeInt(value)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", key, err)
			}
			next.setExpiresIn(n)
		case RefreshTimeKey:
			rt, err := ParseRefreshTime(value)
			if err != nil {
				return nil, err
			}
			next.refreshTime = rt
		}
	}
	return next, nil
}

func (t *Token) stringField(key string) **string {
	switch key {
	case AccessTokenKey:
		return &t.accessToken
	case RefreshTokenKey:
		return &t.refreshToken
	case TokenTypeKey:
		return &t.tokenType
	default:
		return &t.apiDomain
	}
}

func (t *Token) assign(from *Token) {
	t.accessToken = from.accessToken
	t.refreshToken = from.refreshToken
	t.expiresInSec = from.expiresInSec
	t.expiresIn = from.expiresIn
	t.tokenType = from.tokenType
	t.apiDomain = from.apiDomain
	t.refreshTime = from.refreshTime
}

func (t *Token) setExpiresInSec(sec *int64) {
	t.expiresInSec = sec
	if sec == nil {
		t.expiresIn = nil
		return
	}
	t.expiresIn = utils.Ptr(*sec * 1000)
}

func (t *Token) setExpiresIn(ms *int64) {
	t.expiresIn = ms
	if ms == nil {
		t.expiresInSec = nil
		return
	}
	t.expiresInSec = utils.Ptr(*ms / 1000)
}

// Clear empties every field.
func (t *Token) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.assign(&Token{})
}

func (t *Token) AccessToken() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return utils.Value(t.accessToken)
}

func (t *Token) RefreshToken() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return utils.Value(t.refreshToken)
}

// ExpiresInSec is the access token lifetime in seconds.
func (t *Token) ExpiresInSec() (int64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return utils.Value(t.expiresInSec), t.expiresInSec != nil
}

// ExpiresIn is the access token lifetime in milliseconds.
func (t *Token) ExpiresIn() (int64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return utils.Value(t.expiresIn), t.expiresIn != nil
}

func (t *Token) TokenType() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return utils.Value(t.tokenType)
}

func (t *Token) APIDomain() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return utils.Value(t.apiDomain)
}

// RefreshTime is the UTC time of the last successful create or refresh.
func (t *Token) RefreshTime() (time.Time, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return utils.Value(t.refreshTime), t.refreshTime != nil
}

func (t *Token) SetAccessToken(v string) {
	t.setString(&t.accessToken, v)
}

func (t *Token) SetRefreshToken(v string) {
	t.setString(&t.refreshToken, v)
}

func (t *Token) SetTokenType(v string) {
	t.setString(&t.tokenType, v)
}

func (t *Token) SetAPIDomain(v string) {
	t.setString(&t.apiDomain, v)
}

func (t *Token) setString(field **string, v string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if v == "" {
		*field = nil
		return
	}
	*field = &v
}

// SetExpiresInSec sets the lifetime in seconds and keeps ExpiresIn in sync.
func (t *Token) SetExpiresInSec(value any) error {
	return t.Set(map[string]any{ExpiresInSecKey: value})
}

// SetExpiresIn sets the lifetime in milliseconds and keeps ExpiresInSec in sync.
func (t *Token) SetExpiresIn(value any) error {
	return t.Set(map[string]any{ExpiresInKey: value})
}

// SetRefreshTime accepts the forms listed on ParseRefreshTime.
func (t *Token) SetRefreshTime(value any) error {
	return t.Set(map[string]any{RefreshTimeKey: value})
}

// Expired reports whether the access token must be refreshed before use. A
// token missing the access token, its lifetime or its refresh time is
// always expired.
func (t *Token) Expired() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.accessToken == nil || t.expiresInSec == nil || t.refreshTime == nil {
		return true
	}
	expiry := t.refreshTime.Add(time.Duration(*t.expiresInSec) * time.Second)
	return NowFunc().UTC().After(expiry)
}

// Expiry is the time the access token stops being valid, zero when unknown.
func (t *Token) Expiry() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.expiresInSec == nil || t.refreshTime == nil {
		return time.Time{}
	}
	return t.refreshTime.Add(time.Duration(*t.expiresInSec) * time.Second)
}

// ToMap returns the six public fields, absent ones as nil. The refresh time
// is internal bookkeeping and is not included.
func (t *Token) ToMap() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return map[string]any{
		AccessTokenKey:  ptrOrNil(t.accessToken),
		RefreshTokenKey: ptrOrNil(t.refreshToken),
		ExpiresInSecKey: ptrOrNil(t.expiresInSec),
		ExpiresInKey:    ptrOrNil(t.expiresIn),
		TokenTypeKey:    ptrOrNil(t.tokenType),
		APIDomainKey:    ptrOrNil(t.apiDomain),
	}
}

// ToJSON encodes ToMap.
func (t *Token) ToJSON() ([]byte, error) {
	return json.Marshal(t.ToMap())
}

func (t *Token) MarshalJSON() ([]byte, error) {
	return t.ToJSON()
}

// UnmarshalJSON replaces every field with the ones in data.
func (t *Token) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()

	var attrs map[string]any
	if err := dec.Decode(&attrs); err != nil {
		return fmt.Errorf("failed to decode token: %w", err)
	}

	next, err := (&Token{}).stagedLocked(attrs)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.assign(next)
	return nil
}

func (t *Token) String() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return fmt.Sprintf("Token{access_token: %s, refresh_token: %s, expires_in_sec: %v, refresh_time: %v}",
		redact(t.accessToken), redact(t.refreshToken), ptrOrNil(t.expiresInSec), ptrOrNil(t.refreshTime))
}

func redact(s *string) string {
	if s == nil {
		return "nil"
	}
	return "[redacted]"
}

func ptrOrNil[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func normalizeString(value any) (*string, error) {
	if value == nil {
		return nil, nil
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return nil, err
	}
	if s == "" {
		return nil, nil
	}
	return &s, nil
}

func normalizeInt(value any) (*int64, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" {
			return nil, nil
		}
	case *int64:
		return utils.Clone(v), nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return &n, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		n := int64(f)
		return &n, nil
	}
	n, err := cast.ToInt64E(value)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

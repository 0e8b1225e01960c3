package token

import "context"

// Repo persists tokens under a caller chosen key, one token per key.
// Get returns errors.ErrTokenNotFound from internal/errors when the key is unknown.
type Repo interface {
	Get(ctx context.Context, key string) (*Token, error)
	Upsert(ctx context.Context, key string, t *Token) error
	Delete(ctx context.Context, key string) error
}

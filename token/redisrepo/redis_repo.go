// Package redisrepo stores tokens in Redis.
package redisrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/Tracktor/zoho-crm/internal/errors"
	"github.com/Tracktor/zoho-crm/token"
	"github.com/redis/go-redis/v9"
)

var _ token.Repo = (*Repo)(nil)

// Client is the subset of *redis.Client used by Repo.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Repo stores each token as JSON under "<prefix>:token:<key>".
type Repo struct {
	client Client
	prefix string
	ttl    time.Duration
}

type Option func(*Repo)

// WithTTL expires stored tokens after ttl. Zero, the default, keeps them
// until deleted since refresh tokens don't expire on their own.
func WithTTL(ttl time.Duration) Option {
	return func(r *Repo) {
		r.ttl = ttl
	}
}

func New(client Client, prefix string, opts ...Option) *Repo {
	r := &Repo{client: client, prefix: prefix}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewFromURL connects using a redis:// URL.
func NewFromURL(redisURL, prefix string, opts ...Option) (*Repo, *redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(options)
	return New(client, prefix, opts...), client, nil
}

func (r *Repo) key(key string) string {
	return fmt.Sprintf("%s:token:%s", r.prefix, key)
}

func (r *Repo) Get(ctx context.Context, key string) (*token.Token, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return token.UnmarshalRecord(data)
}

func (r *Repo) Upsert(ctx context.Context, key string, t *token.Token) error {
	if key == "" {
		return errors.ErrInvalidKey
	}
	data, err := token.MarshalRecord(t)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := r.client.Set(ctx, r.key(key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, key string) error {
	n, err := r.client.Del(ctx, r.key(key)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	if n == 0 {
		return errors.ErrTokenNotFound
	}
	return nil
}

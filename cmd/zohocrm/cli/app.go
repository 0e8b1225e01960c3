package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Tracktor/zoho-crm/auth"
	zohoconfig "github.com/Tracktor/zoho-crm/config"
	"github.com/Tracktor/zoho-crm/crm"
	"github.com/Tracktor/zoho-crm/internal/config"
	"github.com/Tracktor/zoho-crm/internal/errors"
	"github.com/Tracktor/zoho-crm/token"
	"github.com/Tracktor/zoho-crm/token/filerepo"
	"github.com/Tracktor/zoho-crm/token/redisrepo"
	tokenfakerepo "github.com/Tracktor/zoho-crm/token/repofake"
	"github.com/rs/zerolog/log"
)

// app wires the library for one command invocation.
type app struct {
	config *zohoconfig.Configuration
	client *auth.Client
	conn   *crm.Connection
	close  func() error
}

func newApp(ctx context.Context, cfg config.Config, f *flags, o *options) (*app, error) {
	registry, err := zohoconfig.Load(f.configFile)
	if err != nil {
		return nil, err
	}
	conf := registry.Get(f.env)
	conf.Logger = log.Logger

	repo, closeRepo, err := tokenRepo(cfg, f, o)
	if err != nil {
		return nil, err
	}

	key := f.tokenKey
	if key == "" {
		key = conf.Environment()
	}

	tok, err := repo.Get(ctx, key)
	if errors.Is(err, errors.ErrTokenNotFound) {
		tok, err = token.New(), nil
	}
	if err != nil {
		closeRepo()
		return nil, errors.Wrapf(err, "failed to load token %q", key)
	}

	clientOpts := []auth.ClientOption{auth.WithTokenRepo(repo, key)}
	var connOpts []crm.ConnectionOption
	if o.transport != nil {
		clientOpts = append(clientOpts, auth.WithHTTPClient(&http.Client{
			Transport: o.transport,
			Timeout:   conf.HTTPTimeout(),
		}))
		connOpts = append(connOpts, crm.WithTransport(o.transport))
	}

	client := auth.NewClient(registry, f.env, tok, clientOpts...)
	return &app{
		config: conf,
		client: client,
		conn:   crm.NewConnection(client, connOpts...),
		close:  closeRepo,
	}, nil
}

func tokenRepo(cfg config.StoreConfig, f *flags, o *options) (token.Repo, func() error, error) {
	noop := func() error { return nil }
	if o.repo != nil {
		return o.repo, noop, nil
	}

	switch f.store {
	case "file":
		return filerepo.New(cfg.GetTokenFile(), cfg.GetTokenPassphrase()), noop, nil
	case "redis":
		repo, client, err := redisrepo.NewFromURL(cfg.GetRedisURL(), cfg.GetRedisPrefix())
		if err != nil {
			return nil, nil, err
		}
		return repo, client.Close, nil
	case "memory":
		return tokenfakerepo.NewFakeTokensRepo(), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown token store %q: must be file, redis or memory", f.store)
	}
}

// withApp builds the app, runs fn and releases the token store.
func withApp(ctx context.Context, cfg config.Config, f *flags, o *options, fn func(*app) error) error {
	a, err := newApp(ctx, cfg, f, o)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close token store")
		}
	}()
	return fn(a)
}

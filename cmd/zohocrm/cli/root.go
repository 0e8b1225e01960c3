package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"github.com/Tracktor/zoho-crm/internal/config"
	"github.com/Tracktor/zoho-crm/token"
	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Option customizes the commands, mostly for tests.
type Option func(*options)

type options struct {
	transport http.RoundTripper
	repo      token.Repo
}

// WithTransport sends every HTTP request through rt.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.transport = rt
	}
}

// WithTokenRepo replaces the token store selected by --store.
func WithTokenRepo(repo token.Repo) Option {
	return func(o *options) {
		o.repo = repo
	}
}

// flags holds the persistent flags shared by every command.
type flags struct {
	debug      bool
	configFile string
	env        string
	store      string
	tokenKey   string
}

func NewRootCommand(cfg config.Config, opts ...Option) *cobra.Command {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:   "zohocrm",
		Short: "Zoho CRM API client",
		Long: `zohocrm authorizes against the Zoho accounts service, keeps the resulting
OAuth token in a token store and sends authenticated requests to the CRM API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if f.debug {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			displayAppname(cmd, cfg.GetAppName())
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&f.debug, "debug", cfg.GetDebug(), "Enable debug logging")
	pf.StringVar(&f.configFile, "config", cfg.GetConfigFile(), "YAML configuration file")
	pf.StringVar(&f.env, "env", cfg.GetEnvironment(), "Configuration environment")
	pf.StringVar(&f.store, "store", cfg.GetTokenStore(), "Token store: file, redis or memory")
	pf.StringVar(&f.tokenKey, "token-key", cfg.GetTokenKey(), "Name of the stored token (defaults to the environment)")

	rootCmd.AddCommand(NewAuthorizeURLCommand(cfg, f, o))
	rootCmd.AddCommand(NewTokenCommand(cfg, f, o))
	rootCmd.AddCommand(NewRequestCommand(cfg, f, o))
	rootCmd.AddCommand(NewStatusCodesCommand())
	rootCmd.AddCommand(NewServeCommand(cfg, f, o))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("Failed to load .env file")
	}

	if err := NewRootCommand(config.New()).Execute(); err != nil {
		renderError(os.Stderr, err)
		os.Exit(1)
	}
}

func displayAppname(cmd *cobra.Command, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	fmt.Fprintln(cmd.OutOrStdout(), myFigure.String())
}

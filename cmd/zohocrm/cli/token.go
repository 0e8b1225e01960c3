package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Tracktor/zoho-crm/internal/config"
	"github.com/Tracktor/zoho-crm/token"
	"github.com/spf13/cobra"
)

func NewTokenCommand(cfg config.Config, f *flags, o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the stored OAuth token",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create GRANT_TOKEN",
		Short: "Exchange a grant token for an access and a refresh token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), cfg, f, o, func(a *app) error {
				tok, err := a.client.Create(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printToken(cmd.OutOrStdout(), tok, a.client.Authorized())
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Refresh the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), cfg, f, o, func(a *app) error {
				tok, err := a.client.Refresh(cmd.Context())
				if err != nil {
					return err
				}
				return printToken(cmd.OutOrStdout(), tok, a.client.Authorized())
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "revoke",
		Short: "Revoke the refresh token and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), cfg, f, o, func(a *app) error {
				if _, err := a.client.Revoke(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Refresh token revoked")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the stored token with its secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), cfg, f, o, func(a *app) error {
				return printToken(cmd.OutOrStdout(), a.client.Token(), a.client.Authorized())
			})
		},
	})

	return cmd
}

type tokenView struct {
	Authorized   bool   `json:"authorized"`
	Expired      bool   `json:"expired"`
	Expiry       string `json:"expiry,omitempty"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	APIDomain    string `json:"api_domain,omitempty"`
}

func printToken(w io.Writer, tok *token.Token, authorized bool) error {
	view := tokenView{
		Authorized:   authorized,
		Expired:      tok.Expired(),
		AccessToken:  redact(tok.AccessToken()),
		RefreshToken: redact(tok.RefreshToken()),
		TokenType:    tok.TokenType(),
		APIDomain:    tok.APIDomain(),
	}
	if expiry := tok.Expiry(); !expiry.IsZero() {
		view.Expiry = expiry.Format(time.RFC3339)
	}

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// redact keeps the "1000." style prefix and the last four characters.
func redact(s string) string {
	if len(s) <= 8 {
		if s == "" {
			return ""
		}
		return "****"
	}
	return s[:5] + "****" + s[len(s)-4:]
}

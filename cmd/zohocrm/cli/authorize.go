package cli

import (
	"fmt"

	"github.com/Tracktor/zoho-crm/internal/config"
	"github.com/spf13/cobra"
)

func NewAuthorizeURLCommand(cfg config.Config, f *flags, o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "authorize-url",
		Short: "Print the consent URL",
		Long: `Print the URL to open in a browser to grant access to the connected app.
Zoho redirects to the configured redirect URL with a "code" parameter: pass it
to "token create".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), cfg, f, o, func(a *app) error {
				fmt.Fprintln(cmd.OutOrStdout(), a.client.AuthorizeURL())
				return nil
			})
		},
	}
}

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/Tracktor/zoho-crm/apierrors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

func NewStatusCodesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status-codes [KEY_OR_CODE]",
		Short: "Describe the HTTP status codes returned by the CRM API",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codes := apierrors.All()
			if len(args) == 1 {
				var lookup any = args[0]
				if code, err := cast.ToIntE(args[0]); err == nil {
					lookup = code
				}
				sc, err := apierrors.Lookup(lookup)
				if err != nil {
					return err
				}
				codes = []apierrors.StatusCode{sc}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tKEY\tMEANING\tDESCRIPTION")
			for _, sc := range codes {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", sc.Code, sc.Key, sc.Meaning, sc.Description)
			}
			return w.Flush()
		},
	}
}

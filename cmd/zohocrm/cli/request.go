package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/Tracktor/zoho-crm/crm"
	"github.com/Tracktor/zoho-crm/internal/config"
	"github.com/spf13/cobra"
)

var methods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

func NewRequestCommand(cfg config.Config, f *flags, o *options) *cobra.Command {
	var (
		data    string
		params  []string
		headers []string
	)

	cmd := &cobra.Command{
		Use:   "request METHOD PATH",
		Short: "Send an authenticated request to the CRM API",
		Long: `Send a request to the CRM API, relative to the API base URL of the
environment, and print the response body. An expired access token is
refreshed first.

Examples:
  zohocrm request GET Leads --param fields=Last_Name,Email
  zohocrm request POST Leads --data '{"data":[{"Last_Name":"Doe"}]}'
  zohocrm request PUT Leads/42 --data @lead.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := strings.ToUpper(args[0])
			if !methods[method] {
				return fmt.Errorf("unsupported method %q", args[0])
			}

			reqOpts, err := requestOptions(params, headers)
			if err != nil {
				return err
			}
			body, err := readData(data)
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), cfg, f, o, func(a *app) error {
				resp, err := a.conn.Request(cmd.Context(), method, args[1], body, reqOpts...)
				if err != nil {
					return err
				}
				defer resp.Body.Close()
				return printBody(cmd.OutOrStdout(), resp.Body)
			})
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body, or @file to read it from a file")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Query parameter as key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, `Header as "Name: value" (repeatable)`)

	return cmd
}

func requestOptions(params, headers []string) ([]crm.RequestOption, error) {
	query := url.Values{}
	for _, p := range params {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", p)
		}
		query.Add(key, value)
	}

	header := http.Header{}
	for _, h := range headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q: expected \"Name: value\"", h)
		}
		header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	return []crm.RequestOption{crm.WithQuery(query), crm.WithHeaders(header)}, nil
}

// readData returns the request body, nil when there is none.
func readData(data string) (any, error) {
	if data == "" {
		return nil, nil
	}

	raw := []byte(data)
	if path, ok := strings.CutPrefix(data, "@"); ok {
		var err error
		if raw, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("request body is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

// printBody pretty prints JSON bodies and copies anything else as is.
func printBody(w io.Writer, r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err == nil {
		if pretty, err := json.MarshalIndent(v, "", "  "); err == nil {
			raw = pretty
		}
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}

package server

import (
	"net/http"

	"github.com/Tracktor/zoho-crm/crm"
)

// forwardedHeaders are the request headers passed on to the CRM API.
var forwardedHeaders = []string{"If-Modified-Since", "X-EXTERNAL"}

func proxyOptions(r *http.Request) []crm.RequestOption {
	opts := []crm.RequestOption{crm.WithQuery(r.URL.Query())}
	for _, name := range forwardedHeaders {
		if v := r.Header.Get(name); v != "" {
			opts = append(opts, crm.WithHeader(name, v))
		}
	}
	return opts
}

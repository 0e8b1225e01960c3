package crm

import (
	"net/http"
	"net/url"
)

// RequestOption customizes a single request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	header http.Header
	query  url.Values
}

// WithHeader adds a header to the request. The Authorization header can't be
// overridden.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.header.Add(key, value)
	}
}

// WithHeaders adds every header of h to the request.
func WithHeaders(h http.Header) RequestOption {
	return func(o *requestOptions) {
		for k, values := range h {
			for _, v := range values {
				o.header.Add(k, v)
			}
		}
	}
}

// WithQuery adds query parameters to the request URL.
func WithQuery(values url.Values) RequestOption {
	return func(o *requestOptions) {
		for k, vs := range values {
			for _, v := range vs {
				o.query.Add(k, v)
			}
		}
	}
}

// WithParam adds a single query parameter to the request URL.
func WithParam(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.query.Add(key, value)
	}
}

func newRequestOptions(opts []RequestOption) *requestOptions {
	o := &requestOptions{header: http.Header{}, query: url.Values{}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Package httpfake provides a scriptable http.RoundTripper for tests.
package httpfake

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
)

// Response is a scripted reply. When Err is set the round trip fails with it
// and the other fields are ignored.
type Response struct {
	Status int
	Body   string
	Header http.Header
	Err    error
}

// JSON returns a Response with v encoded as the body.
func JSON(status int, v any) Response {
	body, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("httpfake: %v", err))
	}
	return Response{
		Status: status,
		Body:   string(body),
		Header: http.Header{"Content-Type": []string{"application/json"}},
	}
}

// Text returns a Response with a plain body.
func Text(status int, body string) Response {
	return Response{Status: status, Body: body}
}

// Fail returns a Response failing the round trip with err.
func Fail(err error) Response {
	return Response{Err: err}
}

// Request is a request seen by the Transport.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte
}

// Form parses the body as form values.
func (r Request) Form() url.Values {
	values, _ := url.ParseQuery(string(r.Body))
	return values
}

type route struct {
	method    string
	url       string
	responses []Response
	served    int
}

// Transport replies to requests with the responses registered by On. Routes
// match on method plus the URL without its query string. Unmatched requests
// fail with an error.
type Transport struct {
	mu       sync.Mutex
	routes   []*route
	requests []Request
}

func New() *Transport {
	return &Transport{}
}

// On registers responses for method and rawURL. They are served in order and
// the last one repeats.
func (t *Transport) On(method, rawURL string, responses ...Response) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.routes = append(t.routes, &route{method: method, url: rawURL, responses: responses})
	return t
}

// Client returns an *http.Client using the Transport.
func (t *Transport) Client() *http.Client {
	return &http.Client{Transport: t}
}

// Requests returns the requests seen so far.
func (t *Transport) Requests() []Request {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]Request(nil), t.requests...)
}

// Count returns the number of requests seen for method and rawURL.
func (t *Transport) Count(method, rawURL string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, r := range t.requests {
		if r.Method == method && stripQuery(r.URL) == rawURL {
			n++
		}
	}
	return n
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body.Close()
	}

	t.mu.Lock()
	t.requests = append(t.requests, Request{
		Method: req.Method,
		URL:    req.URL,
		Header: req.Header.Clone(),
		Body:   body,
	})
	r := t.match(req)
	var scripted Response
	if r != nil {
		scripted = r.next()
	}
	t.mu.Unlock()

	if r == nil {
		return nil, fmt.Errorf("httpfake: no route for %s %s", req.Method, req.URL)
	}
	if scripted.Err != nil {
		return nil, scripted.Err
	}

	header := scripted.Header
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		Status:     fmt.Sprintf("%d %s", scripted.Status, http.StatusText(scripted.Status)),
		StatusCode: scripted.Status,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     header.Clone(),
		Body:       io.NopCloser(bytes.NewBufferString(scripted.Body)),
		Request:    req,
	}, nil
}

func (t *Transport) match(req *http.Request) *route {
	target := stripQuery(req.URL)
	for _, r := range t.routes {
		if r.method == req.Method && r.url == target {
			return r
		}
	}
	return nil
}

func (r *route) next() Response {
	if len(r.responses) == 0 {
		return Response{Status: http.StatusOK}
	}
	i := r.served
	if i >= len(r.responses) {
		i = len(r.responses) - 1
	}
	r.served++
	return r.responses[i]
}

func stripQuery(u *url.URL) string {
	c := *u
	c.RawQuery = ""
	c.Fragment = ""
	return c.String()
}

// Package server is a small web front-end over the CRM connection: it walks a
// user through the consent flow and proxies API requests, mirroring what the
// command line does for scripts.
package server

import (
	"net/http"
	"strings"

	"github.com/Tracktor/zoho-crm/auth"
	"github.com/Tracktor/zoho-crm/crm"
	"github.com/rs/zerolog"
)

type Server struct {
	mux    *http.ServeMux
	routes []string
	client *auth.Client
	conn   *crm.Connection
	logger zerolog.Logger
}

func New(conn *crm.Connection, logger zerolog.Logger) *Server {
	s := &Server{
		mux:    http.NewServeMux(),
		client: conn.Client(),
		conn:   conn,
		logger: logger,
	}

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	for _, route := range s.routes {
		method, path, ok := strings.Cut(route, " ")
		if !ok {
			method, path = "", route
		}
		s.logger.Debug().Str("method", method).Str("path", path).Msg("Route registered")
	}
}

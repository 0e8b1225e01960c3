package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// IndexHandler shows the state of the token, never its secrets.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.client.Authorized() {
			s.notAuthorized(w)
			return
		}

		tok := s.client.Token()
		data := map[string]any{
			"authorized": true,
			"expired":    tok.Expired(),
			"token_type": tok.TokenType(),
			"api_domain": tok.APIDomain(),
		}
		if sec, ok := tok.ExpiresInSec(); ok {
			data["expires_in_sec"] = sec
		}
		if expiry := tok.Expiry(); !expiry.IsZero() {
			data["expiry"] = expiry.Format(time.RFC3339)
		}
		writeJSON(w, http.StatusOK, data)
	}
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, s.client.Config().DeveloperConsoleURL(), http.StatusFound)
	}
}

// AuthorizeHandler redirects to the consent page, or home when there is
// nothing to do.
func (s *Server) AuthorizeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.client.Authorized() {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		http.Redirect(w, r, s.client.AuthorizeURL(), http.StatusFound)
	}
}

// APIProxyHandler forwards the request to the CRM API and copies the
// response back. Failures are rendered by writeError.
func (s *Server) APIProxyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body any
		if r.Body != nil && r.ContentLength != 0 {
			raw, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "Failed to read request body", http.StatusBadRequest)
				return
			}
			if len(raw) > 0 {
				if !json.Valid(raw) {
					http.Error(w, "Request body is not valid JSON", http.StatusBadRequest)
					return
				}
				body = json.RawMessage(raw)
			}
		}

		resp, err := s.conn.Request(r.Context(), r.Method, r.PathValue("path"), body, proxyOptions(r)...)
		if err != nil {
			s.writeError(w, err)
			return
		}
		defer resp.Body.Close()

		if ct := resp.Header.Get("Content-Type"); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.WriteHeader(resp.StatusCode)
		if _, err := io.Copy(w, resp.Body); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to copy API response")
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

package server

import (
	"fmt"
	"net/http"
)

// OAuthCallbackHandler exchanges the grant token Zoho redirects with and
// sends the user back to the index page.
func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.FormValue("code")
		errorParam := r.FormValue("error")

		// Check for authorization errors
		if errorParam != "" {
			http.Error(w, fmt.Sprintf("Authorization failed: %s", errorParam), http.StatusBadRequest)
			return
		}
		if code == "" {
			http.Error(w, "Missing code parameter", http.StatusBadRequest)
			return
		}

		if _, err := s.client.Create(r.Context(), code); err != nil {
			s.writeError(w, err)
			return
		}

		http.Redirect(w, r, "/", http.StatusFound)
	}
}

package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler validates operator credentials and issues the signed session
// claim. The failure response is identical for unknown usernames and wrong
// passwords; nothing here may enable username enumeration.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Username == "" || req.Password == "" {
			writeJSONError(w, "Username and password are required", http.StatusBadRequest)
			return
		}

		identity, err := s.validator.Validate(req.Username, req.Password)
		if err != nil {
			writeJSONError(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		signedClaim, err := s.issuer.Issue(*identity)
		if err != nil {
			log.Error().Err(err).Msg("failed to issue session claim")
			writeJSONError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		s.store.SetOperatorSession(w, r, signedClaim)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"operator": map[string]string{
				"name": identity.Name,
				"role": string(identity.Role),
			},
		})
	}
}

// LogoutHandler destroys the operator session cookies.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.store.ClearOperatorSession(w)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// AuthCheckHandler reports the combined authorization view for the caller,
// silently refreshing an expired Google access token along the way.
func (s *Server) AuthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := s.bridge.Resolve(r.Context(), w, r)

		resp := map[string]any{
			"operatorAuthenticated": view.OperatorAuthenticated,
			"googleAuthenticated":   view.GoogleAuthenticated,
		}
		if view.Operator != nil {
			resp["operator"] = view.Operator.Name
		}
		if view.GoogleAuthenticated {
			resp["token"] = view.AccessToken
		} else {
			// Original wire shape: a failed/absent Google link also reports
			// a bare authenticated flag the dashboard polls for.
			resp["authenticated"] = false
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

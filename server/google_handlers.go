package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Cross-window message discriminants. The opener listens for exactly these
// two terminal shapes; they are the wire protocol between the popup and the
// main page and must not change.
const (
	authSuccessMessage = "GOOGLE_AUTH_SUCCESS"
	authErrorMessage   = "GOOGLE_AUTH_ERROR"
)

type popupToken struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Email        string `json:"email"`
}

type popupMessage struct {
	Type  string      `json:"type"`
	Token *popupToken `json:"token,omitempty"`
}

// GoogleAuthURLHandler returns the Google authorization URL the frontend
// opens in a popup window.
func (s *Server) GoogleAuthURLHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authURL, err := s.exchanger.AuthCodeURL(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("failed to build google authorization URL")
			writeJSONError(w, "Configuration error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"url": authURL})
	}
}

// GoogleCallbackHandler is the popup terminus of the OAuth flow. Whatever
// happens, it answers with an HTML page that posts one terminal message to
// the opener and closes itself. Cookie side effects apply even if the
// opener has gone away; an aborted popup is not a rollback.
func (s *Server) GoogleCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			log.Warn().Msg("google callback hit without authorization code")
			s.renderPopupError(w)
			return
		}

		result, err := s.exchanger.Exchange(r.Context(), code)
		if err != nil {
			// Detail is already logged by the exchanger; the browser only
			// ever sees the generic terminal message.
			s.renderPopupError(w)
			return
		}

		s.store.SetTokenPair(w, r, result.AccessToken, result.RefreshToken, result.ExpiresIn)

		s.renderPopupMessage(w, popupMessage{
			Type: authSuccessMessage,
			Token: &popupToken{
				AccessToken:  result.AccessToken,
				RefreshToken: result.RefreshToken,
				Email:        result.Email,
			},
		})
	}
}

func (s *Server) renderPopupError(w http.ResponseWriter) {
	s.renderPopupMessage(w, popupMessage{Type: authErrorMessage})
}

// renderPopupMessage writes the self-closing popup page. The message is
// JSON-encoded rather than string-interpolated so token material can never
// break out of the script context.
func (s *Server) renderPopupMessage(w http.ResponseWriter, msg popupMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode popup message")
		payload = []byte(fmt.Sprintf(`{"type":%q}`, authErrorMessage))
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	fmt.Fprintf(w, `<script>
  window.opener.postMessage(%s, '*');
  window.close();
</script>`, payload)
}

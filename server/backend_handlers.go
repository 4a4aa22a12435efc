package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mucalsync/calsync-server/backend"
	"github.com/mucalsync/calsync-server/internal/crypto"
)

// writeProxied re-emits a backend response verbatim: same status, same JSON
// body, including the conventional {error: string} failure shape.
func writeProxied(w http.ResponseWriter, result *backend.Result, err error, failureMessage string) {
	if err != nil {
		log.Error().Err(err).Msg("backend request failed")
		writeJSONError(w, failureMessage, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(result.Status)
	_, _ = w.Write(result.Body)
}

func (s *Server) EventsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.backend.Events(r.Context())
		writeProxied(w, result, err, "Failed to fetch events")
	}
}

func (s *Server) EventCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.backend.CreateEvent(r.Context(), r.Body)
		writeProxied(w, result, err, "Failed to create event")
	}
}

func (s *Server) EventUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.backend.UpdateEvent(r.Context(), r.PathValue("id"), r.Body)
		writeProxied(w, result, err, "Failed to update event")
	}
}

func (s *Server) EventDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.backend.DeleteEvent(r.Context(), r.PathValue("id"))
		writeProxied(w, result, err, "Failed to delete event")
	}
}

func (s *Server) TimetableUploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.backend.UploadTimetable(r.Context(), r.Header.Get("Content-Type"), r.Body)
		writeProxied(w, result, err, "Failed to upload timetable")
	}
}

func (s *Server) TimetableDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.backend.DeleteTimetables(r.Context())
		writeProxied(w, result, err, "Failed to delete timetables")
	}
}

type erpLoginRequest struct {
	EncryptedData string `json:"encryptedData"`
}

type erpCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ERPLoginHandler unwraps the encrypted student credentials and plays them
// against the ERP portal through the backend, persisting the resulting ERP
// session cookie pair on success.
func (s *Server) ERPLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req erpLoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EncryptedData == "" {
			writeJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		decrypted, err := crypto.Decrypt(req.EncryptedData, s.config.GetEncryptionKey())
		if err != nil {
			log.Error().Err(err).Msg("failed to decrypt ERP credentials")
			writeJSONError(w, "Invalid encrypted data", http.StatusBadRequest)
			return
		}

		var creds erpCredentials
		if err := json.Unmarshal(decrypted, &creds); err != nil || creds.Username == "" {
			writeJSONError(w, "Invalid encrypted data", http.StatusBadRequest)
			return
		}

		loginResp, status, err := s.backend.ERPLogin(r.Context(), decrypted, s.config.GetBackendEncryptionKey())
		if err != nil {
			log.Error().Err(err).Msg("ERP login request failed")
			writeJSONError(w, "Authentication failed", http.StatusInternalServerError)
			return
		}
		if status < 200 || status > 299 {
			log.Warn().Int("status", status).Msg("ERP login rejected by backend")
			message := loginResp.Detail
			if message == "" {
				message = "Authentication failed"
			}
			writeJSONError(w, message, status)
			return
		}

		s.store.SetERPSession(w, r, loginResp.Cookies, creds.Username)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Successfully logged in",
			"cookies": loginResp.Cookies,
		})
	}
}

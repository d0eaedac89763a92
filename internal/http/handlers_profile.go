package http

import (
	"net/http"

	"fintrack/internal/core"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.profiles.Ensure(r.Context(), userID(r), "", "")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newProfileResponse(profile))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	updated, err := s.profiles.Update(r.Context(), core.Profile{
		ID:            userID(r),
		Name:          req.Name,
		Email:         req.Email,
		Avatar:        req.Avatar,
		Currency:      req.Currency,
		Theme:         req.Theme,
		Notifications: req.Notifications,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newProfileResponse(updated))
}

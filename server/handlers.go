package server

import (
	"encoding/json"
	"net/http"
	"time"

	"chat-wire/domain"
	"chat-wire/errors"
	"chat-wire/repositories"

	"github.com/samber/lo"
)

// userJSON is the public view of a profile. The password hash stays
// inside the service boundary.
type userJSON struct {
	ID        string                `json:"id"`
	Username  string                `json:"username"`
	Email     string                `json:"email"`
	Avatar    string                `json:"avatar,omitempty"`
	Status    domain.PresenceStatus `json:"status"`
	CreatedAt time.Time             `json:"createdAt"`
}

func toUserJSON(u repositories.User) userJSON {
	return userJSON{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeError(w http.ResponseWriter, err error) {
	writeErrorMessage(w, errors.HTTPStatus(err), err.Error())
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  userJSON `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, user, err := s.auth.Register(req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	s.log.Info("user registered", "userID", user.ID, "username", user.Username)
	writeJSON(w, http.StatusCreated, authResponse{Token: string(token), User: toUserJSON(user)})
}

type loginRequest struct {
	// Identifier carries either a username or an email; the older
	// form fields are still accepted.
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

func (req loginRequest) identifier() string {
	if req.Identifier != "" {
		return req.Identifier
	}
	if req.Username != "" {
		return req.Username
	}
	return req.Email
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, user, err := s.auth.Login(req.identifier(), req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	s.log.Info("user logged in", "userID", user.ID)
	writeJSON(w, http.StatusOK, authResponse{Token: string(token), User: toUserJSON(user)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	if err := s.auth.Logout(identity.ID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	user, err := s.users.Me(identity.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserJSON(user))
}

type updateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Avatar   *string `json:"avatar"`
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.users.UpdateProfile(identity.ID, repositories.ProfileUpdate{
		Username: req.Username,
		Email:    req.Email,
		Avatar:   req.Avatar,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	s.log.Info("profile updated", "userID", identity.ID)
	writeJSON(w, http.StatusOK, toUserJSON(user))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	users, err := s.users.List(identity.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(users, func(u repositories.User, _ int) userJSON {
		return toUserJSON(u)
	}))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())
	peerID := r.PathValue("peerID")

	messages, err := s.chat.History(identity.ID, peerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(messages, func(m domain.Message, _ int) messageJSON {
		return toMessageJSON(m)
	}))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"metrics":         s.metrics.Snapshot(),
		"online":          s.registry.Online(),
		"recent_messages": len(s.timeline.Recent()),
	})
}

package account

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/assesskit/assesskit/core"
	"github.com/assesskit/assesskit/pkg/identity"
	"github.com/assesskit/assesskit/pkg/logger"
	"github.com/assesskit/assesskit/pkg/session"
)

// Service owns login and logout. It deliberately stores nothing about the
// user in the session beyond the id: everything else is re-resolved per
// request, so a role change applies even to already-signed-in users.
type Service struct {
	users    identity.UserStore
	sessions *session.Manager
	log      *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates the account service.
func NewService(users identity.UserStore, sessions *session.Manager, opts ...Option) *Service {
	if users == nil || sessions == nil {
		panic("account: user store and session manager are required")
	}

	s := &Service{
		users:    users,
		sessions: sessions,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the auth endpoints, meant to be mounted under /auth.
func (s *Service) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", s.login)
	r.Post("/logout", s.logout)
	return r
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		core.WriteHTTPError(w, core.ErrBadRequest, "email and password are required")
		return
	}

	user, err := s.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			core.WriteError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")
			return
		}
		s.log.ErrorContext(r.Context(), "login lookup failed",
			logger.Component("account"),
			logger.Error(err),
		)
		core.WriteHTTPError(w, core.ErrInternalServerError, "login failed")
		return
	}

	if err := VerifyPassword(user.PasswordHash, req.Password); err != nil {
		core.WriteError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")
		return
	}

	if !user.Active {
		core.WriteError(w, http.StatusUnauthorized, "ACCOUNT_DEACTIVATED", "account deactivated")
		return
	}

	if err := s.sessions.Authenticate(r.Context(), w, r, user.ID); err != nil {
		s.log.ErrorContext(r.Context(), "session authenticate failed",
			logger.Component("account"),
			logger.UserID(user.ID),
			logger.Error(err),
		)
		core.WriteHTTPError(w, core.ErrInternalServerError, "login failed")
		return
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{
		"userId": user.ID,
		"role":   user.Role,
	})
}

func (s *Service) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Destroy(r.Context(), w, r); err != nil {
		core.WriteHTTPError(w, core.ErrInternalServerError, "logout failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

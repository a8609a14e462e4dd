// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userstore "github.com/studybuddyhq/studybuddy/internal/app/store/users"
	"github.com/studybuddyhq/studybuddy/internal/app/system/auth"
	"github.com/studybuddyhq/studybuddy/internal/app/system/httpjson"
	"github.com/studybuddyhq/studybuddy/internal/app/system/normalize"
	"github.com/studybuddyhq/studybuddy/internal/app/system/ratelimit"
	"github.com/studybuddyhq/studybuddy/internal/app/system/timeouts"
	"github.com/studybuddyhq/studybuddy/internal/domain/models"
)

const (
	minPasswordLen = 8
	maxUsernameLen = 40
)

// Handler owns signup, password login, and the session probe.
type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	Log        *zap.Logger
}

// NewHandler creates a new login Handler.
func NewHandler(users *userstore.Store, sessionMgr *auth.SessionManager, limiter *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sessionMgr,
		Limiter:    limiter,
		Log:        logger,
	}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeSignup handles POST /api/auth/signup.
func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}

	username := normalize.Name(req.Username)
	email := normalize.Email(req.Email)
	switch {
	case username == "":
		httpjson.BadRequest(w, "username is required")
		return
	case len(username) > maxUsernameLen:
		httpjson.BadRequest(w, "username is too long")
		return
	case email == "" || !strings.Contains(email, "@"):
		httpjson.BadRequest(w, "a valid email is required")
		return
	case len(req.Password) < minPasswordLen:
		httpjson.BadRequest(w, "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("hash password failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	user, err := h.Users.Create(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		AuthMethod:   "password",
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httpjson.Conflict(w, "an account with that email already exists")
			return
		}
		h.Log.Error("create user failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	if err := h.signIn(w, r, &user); err != nil {
		h.Log.Error("save session after signup failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	h.Log.Info("user signed up",
		zap.String("user_id", user.ID.Hex()),
		zap.String("email", user.Email))

	httpjson.Write(w, http.StatusCreated, user.Summary())
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeLogin handles POST /api/auth/login.
// Failures are deliberately uniform so callers cannot probe which
// emails have accounts.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}

	email := normalize.Email(req.Email)
	if email == "" || req.Password == "" {
		httpjson.BadRequest(w, "email and password are required")
		return
	}

	if allowed, scope := h.Limiter.Check(r, email); !allowed {
		h.Log.Warn("login rate limited",
			zap.String("scope", scope),
			zap.String("email", email))
		httpjson.Error(w, http.StatusTooManyRequests, "too many login attempts, try again later")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Unauthorized(w, "invalid email or password")
			return
		}
		h.Log.Error("load user failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	if user.AuthMethod != "password" || user.PasswordHash == "" {
		// Account exists but uses Google sign-in.
		httpjson.Unauthorized(w, "invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httpjson.Unauthorized(w, "invalid email or password")
		return
	}

	h.Limiter.ResetEmail(email)

	if err := h.signIn(w, r, user); err != nil {
		h.Log.Error("save session failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	h.Log.Info("user logged in",
		zap.String("user_id", user.ID.Hex()),
		zap.String("email", user.Email))

	httpjson.OK(w, user.Summary())
}

// ServeMe handles GET /api/auth/me.
// Returns the signed-in user's profile including their club pointer.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Unauthorized(w, "")
		return
	}
	oid, ok := su.ObjectID()
	if !ok {
		httpjson.Unauthorized(w, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	user, err := h.Users.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Unauthorized(w, "")
			return
		}
		h.Log.Error("load user failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	httpjson.OK(w, map[string]any{
		"id":          user.ID.Hex(),
		"username":    user.Username,
		"email":       user.Email,
		"auth_method": user.AuthMethod,
		"party_code":  user.PartyCode,
	})
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, u *models.User) error {
	return h.SessionMgr.SignIn(w, r, auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.Username,
		Email: u.Email,
	})
}

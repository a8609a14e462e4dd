// internal/app/features/saved/handler.go
package saved

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	userstore "github.com/studybuddyhq/studybuddy/internal/app/store/users"
	"github.com/studybuddyhq/studybuddy/internal/app/system/auth"
	"github.com/studybuddyhq/studybuddy/internal/app/system/htmlsanitize"
	"github.com/studybuddyhq/studybuddy/internal/app/system/httpjson"
	"github.com/studybuddyhq/studybuddy/internal/app/system/normalize"
	"github.com/studybuddyhq/studybuddy/internal/app/system/timeouts"
	"github.com/studybuddyhq/studybuddy/internal/domain/models"
)

const (
	maxTitleLen   = 120
	maxContentLen = 64 * 1024
)

// Handler owns the saved-snippet endpoints. Snippets are rich text
// the user keeps from AI answers, so content is sanitized on the way
// in, never on the way out.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

// NewHandler creates a new saved Handler.
func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

func requireUser(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Unauthorized(w, "")
		return primitive.NilObjectID, false
	}
	oid, ok := u.ObjectID()
	if !ok {
		httpjson.Unauthorized(w, "")
		return primitive.NilObjectID, false
	}
	return oid, true
}

type saveRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ServeSave handles POST /api/saved.
func (h *Handler) ServeSave(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req saveRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}

	title := htmlsanitize.PlainText(normalize.Name(req.Title))
	content := htmlsanitize.Sanitize(req.Content)
	switch {
	case title == "":
		httpjson.BadRequest(w, "title is required")
		return
	case len(title) > maxTitleLen:
		httpjson.BadRequest(w, "title is too long")
		return
	case content == "":
		httpjson.BadRequest(w, "content is required")
		return
	case len(content) > maxContentLen:
		httpjson.BadRequest(w, "content is too long")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	snippet, err := h.Users.AddSaved(ctx, userID, title, content)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Unauthorized(w, "")
			return
		}
		h.Log.Error("add saved snippet failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	httpjson.Write(w, http.StatusCreated, snippet)
}

// ServeList handles GET /api/saved.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Unauthorized(w, "")
			return
		}
		h.Log.Error("load user failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	saved := user.Saved
	if saved == nil {
		saved = []models.SavedResponse{}
	}
	httpjson.OK(w, saved)
}

// ServeDelete handles DELETE /api/saved/{snippetID}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	snippetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "snippetID"))
	if err != nil {
		httpjson.BadRequest(w, "invalid snippet id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	if err := h.Users.RemoveSaved(ctx, userID, snippetID); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.NotFound(w, "snippet not found")
			return
		}
		h.Log.Error("remove saved snippet failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	httpjson.OK(w, map[string]string{"status": "deleted"})
}

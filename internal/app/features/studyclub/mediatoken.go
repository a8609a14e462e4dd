// internal/app/features/studyclub/mediatoken.go
package studyclub

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/studybuddyhq/studybuddy/internal/app/system/httpjson"
	"github.com/studybuddyhq/studybuddy/internal/app/system/timeouts"
)

// MediaClaims is the JWT payload handed to the media layer. Room maps
// to the party code so streams are scoped per club.
type MediaClaims struct {
	Room string `json:"room"`
	Role string `json:"role"` // admin | member
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// ServeMediaToken handles GET /api/study-club/media-token.
// Issues a short-lived signed token a member presents to the media
// service for the club's shared room.
func (h *Handler) ServeMediaToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if h.MediaSecret == "" {
		httpjson.Error(w, http.StatusServiceUnavailable, "media tokens are not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	club, err := h.clubForUser(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			httpjson.NotFound(w, "you are not in a study club")
			return
		}
		h.Log.Error("load club failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	if !club.IsMember(userID) {
		httpjson.Forbidden(w, "you are not a member of this club")
		return
	}

	role := "member"
	if club.AdminID == userID {
		role = "admin"
	}

	name := ""
	if u, err := h.Users.GetByID(ctx, userID); err == nil {
		name = u.Username
	}

	ttl := h.MediaTokenTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	now := time.Now()
	claims := MediaClaims{
		Room: club.PartyCode,
		Role: role,
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.MediaSecret))
	if err != nil {
		h.Log.Error("sign media token failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	httpjson.OK(w, map[string]any{
		"token":      signed,
		"room":       club.PartyCode,
		"role":       role,
		"expires_at": claims.ExpiresAt.Time.UTC(),
	})
}

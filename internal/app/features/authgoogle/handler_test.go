package authgoogle_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/studybuddyhq/studybuddy/internal/app/features/authgoogle"
	"github.com/studybuddyhq/studybuddy/internal/app/store/oauthstate"
	userstore "github.com/studybuddyhq/studybuddy/internal/app/store/users"
	"github.com/studybuddyhq/studybuddy/internal/app/system/auth"
	"github.com/studybuddyhq/studybuddy/internal/testutil"
)

func newTestHandler(t *testing.T, clientID, clientSecret string) *authgoogle.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-0123456789abcdef", "sb_session", "", false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return authgoogle.NewHandler(
		userstore.New(db),
		oauthstate.New(db),
		sm,
		clientID, clientSecret, "https://studybuddy.test",
		logger,
	)
}

func TestServeLogin_NotConfigured(t *testing.T) {
	h := newTestHandler(t, "", "")

	r := httptest.NewRequest(http.MethodGet, "/api/auth/google", nil)
	w := httptest.NewRecorder()
	h.ServeLogin(w, r)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.Contains(loc, "error=google_not_configured") {
		t.Errorf("Location: got %q", loc)
	}
}

func TestServeLogin_RedirectsToGoogle(t *testing.T) {
	h := newTestHandler(t, "client-id", "client-secret")

	r := httptest.NewRequest(http.MethodGet, "/api/auth/google?return=/clubs", nil)
	w := httptest.NewRecorder()
	h.ServeLogin(w, r)

	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status: got %d, want 307", w.Code)
	}
	loc := w.Header().Get("Location")
	if !strings.Contains(loc, "accounts.google.com") {
		t.Errorf("expected redirect to Google, got %q", loc)
	}
	if !strings.Contains(loc, "state=") {
		t.Errorf("expected state parameter, got %q", loc)
	}
}

func TestServeCallback_MissingState(t *testing.T) {
	h := newTestHandler(t, "client-id", "client-secret")

	r := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=abc", nil)
	w := httptest.NewRecorder()
	h.ServeCallback(w, r)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.Contains(loc, "error=invalid_state") {
		t.Errorf("Location: got %q", loc)
	}
}

func TestServeCallback_UnknownState(t *testing.T) {
	h := newTestHandler(t, "client-id", "client-secret")

	r := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?state=never-saved&code=abc", nil)
	w := httptest.NewRecorder()
	h.ServeCallback(w, r)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.Contains(loc, "error=invalid_state") {
		t.Errorf("Location: got %q", loc)
	}
}

func TestServeCallback_ProviderError(t *testing.T) {
	h := newTestHandler(t, "client-id", "client-secret")

	r := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?error=access_denied", nil)
	w := httptest.NewRecorder()
	h.ServeCallback(w, r)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.Contains(loc, "error=google_denied") {
		t.Errorf("Location: got %q", loc)
	}
}

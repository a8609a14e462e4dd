package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/studybuddyhq/studybuddy/internal/app/features/logout"
	"github.com/studybuddyhq/studybuddy/internal/app/system/auth"
)

func TestServeLogout(t *testing.T) {
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-0123456789abcdef", "sb_session", "", false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	h := logout.NewHandler(sm, logger)

	r := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	w := httptest.NewRecorder()
	h.ServeLogout(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}

	// The response must carry an expired session cookie.
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a cookie clearing the session")
	}
	found := false
	for _, c := range cookies {
		if c.Name == "sb_session" && c.MaxAge < 0 {
			found = true
		}
	}
	if !found {
		t.Errorf("no expiring sb_session cookie in %v", cookies)
	}
}

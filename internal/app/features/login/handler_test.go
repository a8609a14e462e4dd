package login_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/studybuddyhq/studybuddy/internal/app/features/login"
	userstore "github.com/studybuddyhq/studybuddy/internal/app/store/users"
	"github.com/studybuddyhq/studybuddy/internal/app/system/auth"
	"github.com/studybuddyhq/studybuddy/internal/app/system/ratelimit"
	"github.com/studybuddyhq/studybuddy/internal/domain/models"
	"github.com/studybuddyhq/studybuddy/internal/testutil"
)

func newTestHandler(t *testing.T) (*login.Handler, *userstore.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-0123456789abcdef", "sb_session", "", false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	users := userstore.New(db)
	return login.NewHandler(users, sm, ratelimit.NewLoginLimiter(), logger), users
}

func postJSON(handler http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, r)
	return w
}

func TestServeSignup(t *testing.T) {
	h, _ := newTestHandler(t)

	w := postJSON(h.ServeSignup, "/api/auth/signup",
		`{"username":"Ada","email":"ada@example.com","password":"correct horse"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status: got %d (body %s)", w.Code, w.Body.String())
	}
	if len(w.Result().Cookies()) == 0 {
		t.Error("expected a session cookie on signup")
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["username"] != "Ada" {
		t.Errorf("username: got %v", body["username"])
	}

	// Same email again conflicts.
	w = postJSON(h.ServeSignup, "/api/auth/signup",
		`{"username":"Ada2","email":"Ada@Example.com","password":"correct horse"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate signup: got %d, want 409", w.Code)
	}
}

func TestServeSignup_Validation(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing username", `{"email":"a@b.com","password":"long enough"}`},
		{"missing email", `{"username":"ada","password":"long enough"}`},
		{"bad email", `{"username":"ada","email":"not-an-email","password":"long enough"}`},
		{"short password", `{"username":"ada","email":"a@b.com","password":"short"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postJSON(h.ServeSignup, "/api/auth/signup", tt.body); w.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", w.Code)
			}
		})
	}
}

func TestServeLogin(t *testing.T) {
	h, users := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if _, err := users.Create(ctx, models.User{
		Username:     "ada",
		Email:        "ada@example.com",
		PasswordHash: string(hash),
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	w := postJSON(h.ServeLogin, "/api/auth/login",
		`{"email":"ADA@example.com","password":"correct horse"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", w.Code, w.Body.String())
	}
	if len(w.Result().Cookies()) == 0 {
		t.Error("expected a session cookie on login")
	}

	// Wrong password and unknown email both answer 401 the same way.
	w = postJSON(h.ServeLogin, "/api/auth/login",
		`{"email":"ada@example.com","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: got %d, want 401", w.Code)
	}
	w = postJSON(h.ServeLogin, "/api/auth/login",
		`{"email":"nobody@example.com","password":"whatever"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unknown email: got %d, want 401", w.Code)
	}
}

func TestServeLogin_GoogleAccountRefusesPassword(t *testing.T) {
	h, users := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := users.UpsertGoogle(ctx, "ada", "ada@example.com"); err != nil {
		t.Fatalf("seed google user: %v", err)
	}

	w := postJSON(h.ServeLogin, "/api/auth/login",
		`{"email":"ada@example.com","password":"anything at all"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", w.Code)
	}
}

func TestServeLogin_RateLimited(t *testing.T) {
	h, _ := newTestHandler(t)

	// Hammer the same email until the per-email window trips.
	var last int
	for i := 0; i < 8; i++ {
		w := postJSON(h.ServeLogin, "/api/auth/login",
			`{"email":"target@example.com","password":"wrong"}`)
		last = w.Code
		if last == http.StatusTooManyRequests {
			break
		}
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("expected 429 after repeated failures, last status %d", last)
	}
}

func TestServeMe(t *testing.T) {
	h, users := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user, err := users.Create(ctx, models.User{Username: "ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	r = testutil.SignedInAs(r, user)
	w := httptest.NewRecorder()
	h.ServeMe(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", w.Code, w.Body.String())
	}
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["email"] != "ada@example.com" {
		t.Errorf("email: got %v", body["email"])
	}

	// No session means 401.
	r = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w = httptest.NewRecorder()
	h.ServeMe(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d, want 401", w.Code)
	}
}

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	m, err := NewSessionManager("test-session-key-for-testing-only!!", "test-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return m
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	_, err := NewSessionManager("", "test-session", "", false, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestSignInThenLoadSessionUser(t *testing.T) {
	m := newTestManager(t)

	// Sign in and capture the cookie.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	u := SessionUser{ID: primitive.NewObjectID().Hex(), Name: "ada", Email: "ada@example.com"}
	if err := m.SignIn(rec, req, u); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	// Replay the cookie through the middleware.
	var got *SessionUser
	handler := m.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
	}))

	req2 := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req2)

	if got == nil {
		t.Fatal("expected user in context after sign-in")
	}
	if got.Name != "ada" || got.Email != "ada@example.com" {
		t.Errorf("unexpected user: %+v", got)
	}
}

func TestRequireSignedIn_Unauthenticated(t *testing.T) {
	m := newTestManager(t)

	handler := m.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireSignedIn_Authenticated(t *testing.T) {
	m := newTestManager(t)

	called := false
	handler := m.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := WithTestUser(httptest.NewRequest("GET", "/", nil), &SessionUser{ID: primitive.NewObjectID().Hex()})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Error("expected handler to be reached for signed-in user")
	}
}

func TestSignOut(t *testing.T) {
	m := newTestManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/logout", nil)
	if err := m.SignOut(rec, req); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			found = true
		}
	}
	if !found {
		t.Error("expected expired session cookie after SignOut")
	}
}

func TestSessionUser_ObjectID(t *testing.T) {
	oid := primitive.NewObjectID()
	u := &SessionUser{ID: oid.Hex()}
	got, ok := u.ObjectID()
	if !ok || got != oid {
		t.Errorf("ObjectID() = %v, %v", got, ok)
	}

	bad := &SessionUser{ID: "nope"}
	if _, ok := bad.ObjectID(); ok {
		t.Error("expected ok=false for malformed id")
	}
}

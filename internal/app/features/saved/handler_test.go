package saved_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/studybuddyhq/studybuddy/internal/app/features/saved"
	userstore "github.com/studybuddyhq/studybuddy/internal/app/store/users"
	"github.com/studybuddyhq/studybuddy/internal/domain/models"
	"github.com/studybuddyhq/studybuddy/internal/testutil"
)

func TestServeSaveAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := saved.NewHandler(userstore.New(db), zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "ada", "ada@example.com")

	body := `{"title":"Binary search","content":"<p>halve the range</p><script>alert(1)</script>"}`
	r := httptest.NewRequest(http.MethodPost, "/api/saved", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r = testutil.SignedInAs(r, user)
	w := httptest.NewRecorder()
	h.ServeSave(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("save status: got %d (body %s)", w.Code, w.Body.String())
	}
	var snippet models.SavedResponse
	if err := json.NewDecoder(w.Body).Decode(&snippet); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Contains(snippet.Content, "<script>") {
		t.Errorf("script tag survived sanitization: %q", snippet.Content)
	}
	if !strings.Contains(snippet.Content, "<p>halve the range</p>") {
		t.Errorf("benign markup stripped: %q", snippet.Content)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/saved", nil)
	r = testutil.SignedInAs(r, user)
	w = httptest.NewRecorder()
	h.ServeList(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("list status: got %d", w.Code)
	}
	var list []models.SavedResponse
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Binary search" {
		t.Errorf("list: got %+v", list)
	}
}

func TestServeList_EmptyIsArray(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := saved.NewHandler(userstore.New(db), zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "ada", "ada@example.com")

	r := httptest.NewRequest(http.MethodGet, "/api/saved", nil)
	r = testutil.SignedInAs(r, user)
	w := httptest.NewRecorder()
	h.ServeList(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("empty list body: got %q, want []", got)
	}
}

func TestServeDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := userstore.New(db)
	h := saved.NewHandler(store, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "ada", "ada@example.com")
	snippet, err := store.AddSaved(ctx, user.ID, "Notes", "<p>keep</p>")
	if err != nil {
		t.Fatalf("seed snippet: %v", err)
	}

	r := httptest.NewRequest(http.MethodDelete, "/api/saved/"+snippet.ID.Hex(), nil)
	r = testutil.WithChiURLParam(r, "snippetID", snippet.ID.Hex())
	r = testutil.SignedInAs(r, user)
	w := httptest.NewRecorder()
	h.ServeDelete(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", w.Code, w.Body.String())
	}
	if got := fixtures.LoadUser(ctx, user.ID); len(got.Saved) != 0 {
		t.Errorf("snippet still present: %+v", got.Saved)
	}

	// Deleting again is a 404.
	r = httptest.NewRequest(http.MethodDelete, "/api/saved/"+snippet.ID.Hex(), nil)
	r = testutil.WithChiURLParam(r, "snippetID", snippet.ID.Hex())
	r = testutil.SignedInAs(r, user)
	w = httptest.NewRecorder()
	h.ServeDelete(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("repeat delete: got %d, want 404", w.Code)
	}
}

func TestServeSave_RequiresTitle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := saved.NewHandler(userstore.New(db), zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "ada", "ada@example.com")

	r := httptest.NewRequest(http.MethodPost, "/api/saved", strings.NewReader(`{"content":"<p>x</p>"}`))
	r.Header.Set("Content-Type", "application/json")
	r = testutil.SignedInAs(r, user)
	w := httptest.NewRecorder()
	h.ServeSave(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

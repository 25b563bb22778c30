package handler

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/taskmaster-app/taskmaster/internal/config"
	"github.com/taskmaster-app/taskmaster/internal/database"
	"github.com/taskmaster-app/taskmaster/internal/oauth"
	"github.com/taskmaster-app/taskmaster/internal/store"
)

func setupAuthHandler(t *testing.T, cfg config.Config) *AuthHandler {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	us := store.NewUserStore(db)
	ss := store.NewSessionStore(db)
	return NewAuthHandler(us, ss, oauth.NewGoogle(cfg), slog.Default())
}

func TestLoginPageRenders(t *testing.T) {
	h := setupAuthHandler(t, config.Config{})

	req := httptest.NewRequest("GET", "/login", nil)
	rec := httptest.NewRecorder()
	h.LoginPage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `action="/login"`) {
		t.Error("login view should contain the login form")
	}
}

func TestSignupPageRenders(t *testing.T) {
	h := setupAuthHandler(t, config.Config{})

	req := httptest.NewRequest("GET", "/signup", nil)
	rec := httptest.NewRecorder()
	h.SignupPage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `action="/signup"`) {
		t.Error("signup view should contain the signup form")
	}
}

func TestGoogleLoginRedirectsToProvider(t *testing.T) {
	h := setupAuthHandler(t, config.Config{
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		GoogleRedirectURL:  "http://localhost:8080/auth/google/taskmaster",
	})

	req := httptest.NewRequest("GET", "/auth/google", nil)
	rec := httptest.NewRecorder()
	h.GoogleLogin(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if !strings.Contains(loc.Host, "google") {
		t.Errorf("redirect host = %q, want a google endpoint", loc.Host)
	}

	state := loc.Query().Get("state")
	if state == "" {
		t.Fatal("consent URL missing state parameter")
	}

	// The same state must be pinned in the cookie for callback verification
	var stateCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == stateCookieName {
			stateCookie = c
		}
	}
	if stateCookie == nil {
		t.Fatal("state cookie not set")
	}
	if stateCookie.Value != state {
		t.Errorf("cookie state = %q, URL state = %q", stateCookie.Value, state)
	}
}

func TestGoogleLoginUnconfigured(t *testing.T) {
	h := setupAuthHandler(t, config.Config{})

	req := httptest.NewRequest("GET", "/auth/google", nil)
	rec := httptest.NewRecorder()
	h.GoogleLogin(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want %q", loc, "/login")
	}
}

func TestGoogleCallbackStateMismatch(t *testing.T) {
	h := setupAuthHandler(t, config.Config{
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
	})

	req := httptest.NewRequest("GET", "/auth/google/taskmaster?state=evil&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "genuine"})
	rec := httptest.NewRecorder()
	h.GoogleCallback(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want %q", loc, "/login")
	}
}

func TestGoogleCallbackMissingState(t *testing.T) {
	h := setupAuthHandler(t, config.Config{
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
	})

	req := httptest.NewRequest("GET", "/auth/google/taskmaster?code=abc", nil)
	rec := httptest.NewRecorder()
	h.GoogleCallback(rec, req)

	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want %q", loc, "/login")
	}
}

func TestGoogleCallbackMissingCode(t *testing.T) {
	h := setupAuthHandler(t, config.Config{
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
	})

	req := httptest.NewRequest("GET", "/auth/google/taskmaster?state=genuine&error=access_denied", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "genuine"})
	rec := httptest.NewRecorder()
	h.GoogleCallback(rec, req)

	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want %q", loc, "/login")
	}
}

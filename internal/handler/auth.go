package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskmaster-app/taskmaster/internal/middleware"
	"github.com/taskmaster-app/taskmaster/internal/model"
	"github.com/taskmaster-app/taskmaster/internal/oauth"
	"github.com/taskmaster-app/taskmaster/internal/store"
)

const (
	sessionCookieName = middleware.SessionCookieName
	stateCookieName   = "taskmaster_oauth_state"
	stateCookieMaxAge = 10 * time.Minute
)

type AuthHandler struct {
	userStore    *store.UserStore
	sessionStore *store.SessionStore
	google       *oauth.Google
	templates    *template.Template
	logger       *slog.Logger
}

func NewAuthHandler(us *store.UserStore, ss *store.SessionStore, google *oauth.Google, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userStore:    us,
		sessionStore: ss,
		google:       google,
		templates:    parseTemplates(),
		logger:       logger,
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	render(w, h.logger, h.templates, "login.html", nil)
}

func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	render(w, h.logger, h.templates, "signup.html", nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if username == "" || password == "" {
		h.logger.Warn("login failed: missing credentials")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	user, err := h.userStore.GetByUsername(username)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if user == nil {
		// Unknown user, send them to signup
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
		return
	}

	// Accounts provisioned through Google carry a sentinel instead of a hash.
	// bcrypt would reject the sentinel anyway, but refuse outright so the
	// failure mode is deliberate rather than incidental.
	if user.OAuthOnly() {
		h.logger.Warn("login refused for oauth-only account", "user_id", user.ID)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		h.logger.Warn("login failed: incorrect password", "user_id", user.ID)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.establishSession(w, r, user.ID)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if username == "" || password == "" {
		h.logger.Warn("signup failed: missing credentials")
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
		return
	}

	existing, err := h.userStore.GetByUsername(username)
	if err != nil {
		h.logger.Error("signup lookup", "error", err)
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
		return
	}
	if existing != nil {
		// Already registered, send them to login
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
		return
	}

	user, err := h.userStore.Create(username, string(hash))
	if err != nil {
		// Lost a race with a concurrent signup for the same username
		if store.IsDuplicate(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.logger.Error("create user", "error", err)
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
		return
	}

	h.logger.Info("user signed up", "user_id", user.ID)
	h.establishSession(w, r, user.ID)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if sess, err := h.sessionStore.GetByToken(cookie.Value); err == nil && sess != nil {
			if err := h.sessionStore.Delete(sess.ID); err != nil {
				h.logger.Error("delete session", "error", err)
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// GoogleLogin starts the OAuth dance: a fresh state nonce in a short-lived
// cookie, then a redirect to the provider's consent screen.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.google.Enabled() {
		h.logger.Warn("google login requested but oauth is not configured")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(stateCookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})

	http.Redirect(w, r, h.google.AuthURL(state), http.StatusSeeOther)
}

// GoogleCallback completes the OAuth dance: state check, code exchange,
// profile fetch, then find-or-create the local user keyed by email.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("oauth callback with bad state")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	// State cookie is single-use
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		h.logger.Warn("oauth callback without code",
			"error", r.URL.Query().Get("error"))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	token, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("oauth exchange", "error", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	profile, err := h.google.FetchProfile(r.Context(), token)
	if err != nil {
		h.logger.Error("oauth profile", "error", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	user, err := h.userStore.GetByUsername(profile.Email)
	if err != nil {
		h.logger.Error("oauth user lookup", "error", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if user == nil {
		user, err = h.userStore.Create(profile.Email, model.GoogleSentinelHash)
		if err != nil && store.IsDuplicate(err) {
			// Concurrent first login for the same profile
			user, err = h.userStore.GetByUsername(profile.Email)
		}
		if err != nil || user == nil {
			h.logger.Error("oauth create user", "error", err)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.logger.Info("user provisioned via google", "user_id", user.ID)
	}

	h.establishSession(w, r, user.ID)
}

// establishSession creates a session row, sets the cookie, and redirects to
// the list view. Used by login, signup auto-login, and OAuth completion.
func (h *AuthHandler) establishSession(w http.ResponseWriter, r *http.Request, userID int64) {
	sess, err := h.sessionStore.Create(userID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   int(store.SessionLifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})

	http.Redirect(w, r, "/mylist", http.StatusSeeOther)
}

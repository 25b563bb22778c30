package middleware

import (
	"net/http"

	"github.com/taskmaster-app/taskmaster/internal/auth"
	"github.com/taskmaster-app/taskmaster/internal/store"
)

// SessionCookieName is the name of the session cookie, shared with the auth handler.
const SessionCookieName = "taskmaster_session"

// RequireAuth validates the session cookie, rehydrates the user row, and
// populates AuthContext. A session whose user row no longer resolves is
// treated as unauthenticated. Valid sessions get their expiry slid forward.
func RequireAuth(sessionStore *store.SessionStore, userStore *store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				redirectToLogin(w, r)
				return
			}

			sess, err := sessionStore.GetByToken(cookie.Value)
			if err != nil || sess == nil {
				redirectToLogin(w, r)
				return
			}

			user, err := userStore.GetByID(sess.UserID)
			if err != nil || user == nil {
				redirectToLogin(w, r)
				return
			}

			// Sliding expiry; failure only shortens the session, so ignore it
			sessionStore.Touch(sess.ID)

			ac := auth.AuthContext{
				UserID:    user.ID,
				Username:  user.Username,
				SessionID: sess.ID,
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"fitclub/internal/domain/access"
	"fitclub/internal/lib/sl"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

const sessionCookieName = "fitclub_session"

// errNoSessionMiddleware means a session helper ran outside Auth.
var errNoSessionMiddleware = errors.New("session middleware not installed")

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Secure bool
	MaxAge time.Duration
}

// sessionHandle is the request-scoped view of the client's session. Helpers
// mutate it in place so later reads in the same request see the change.
type sessionHandle struct {
	store   SessionStore
	cookie  CookieOptions
	token   string // empty until the session is first persisted
	session Session
}

// Auth returns middleware that loads the session named by the cookie and puts it in context.
// It does NOT block anonymous requests; use RequireAuth for that. A session is
// only written to the store once a handler changes it.
func Auth(store SessionStore, cookie CookieOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := &sessionHandle{store: store, cookie: cookie}
			if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
				s, err := store.Get(r.Context(), c.Value)
				switch {
				case err == nil:
					h.token = c.Value
					h.session = s
				case errors.Is(err, ErrNoSession):
					// stale cookie; the next write issues a new token
				default:
					slog.Error("session_load_failed", sl.Err(err))
					http.Error(w, "internal server error", http.StatusInternalServerError)
					return
				}
			}
			ctx := context.WithValue(r.Context(), sessionContextKey, h)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth returns middleware that redirects anonymous requests to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login/", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func handleFrom(ctx context.Context) *sessionHandle {
	h, _ := ctx.Value(sessionContextKey).(*sessionHandle)
	return h
}

// CurrentSession returns the client's session, authenticated or not.
// The zero Session is returned outside Auth.
func CurrentSession(ctx context.Context) Session {
	if h := handleFrom(ctx); h != nil {
		return h.session
	}
	return Session{}
}

// GetSessionFromContext returns the session only when an account is logged in.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	s := CurrentSession(ctx)
	return s, s.IsAuthenticated()
}

// SaveSession persists s as the client's session, issuing a cookie on first write.
// PRE: r passed through Auth
// POST: The store and the request-scoped session both hold s
func SaveSession(w http.ResponseWriter, r *http.Request, s Session) error {
	h := handleFrom(r.Context())
	if h == nil {
		return errNoSessionMiddleware
	}
	h.session = s
	if h.token != "" {
		err := h.store.Save(r.Context(), h.token, s)
		if !errors.Is(err, ErrNoSession) {
			return err
		}
	}
	return h.create(w, r.Context())
}

func (h *sessionHandle) create(w http.ResponseWriter, ctx context.Context) error {
	if h.session.CreatedAt.IsZero() {
		h.session.CreatedAt = time.Now().UTC()
	}
	token, err := h.store.Create(ctx, h.session)
	if err != nil {
		return err
	}
	h.token = token
	SetSessionCookie(w, token, h.cookie)
	return nil
}

// UpdateFlags stores new access flags in the client's session.
func UpdateFlags(w http.ResponseWriter, r *http.Request, f access.Flags) error {
	s := CurrentSession(r.Context())
	s.Flags = f
	return SaveSession(w, r, s)
}

// AddFlash queues a message for the next rendered page.
func AddFlash(w http.ResponseWriter, r *http.Request, level, text string) error {
	s := CurrentSession(r.Context())
	flashes := make([]Flash, 0, len(s.Flashes)+1)
	flashes = append(flashes, s.Flashes...)
	s.Flashes = append(flashes, Flash{Level: level, Text: text})
	return SaveSession(w, r, s)
}

// PopFlashes returns and clears the queued messages.
// POST: The stored session has no flashes; a store failure is logged and the messages still returned
func PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	s := CurrentSession(r.Context())
	if len(s.Flashes) == 0 {
		return nil
	}
	flashes := s.Flashes
	s.Flashes = nil
	if err := SaveSession(w, r, s); err != nil {
		slog.Error("session_save_failed", sl.Err(err))
	}
	return flashes
}

// StartSession logs an account in. The token is rotated, queued flashes are
// dropped, and access flags already granted to the client are kept.
// PRE: accountID is non-empty
// POST: A new session exists for the account; the old token is gone
func StartSession(w http.ResponseWriter, r *http.Request, accountID, username string) error {
	h := handleFrom(r.Context())
	if h == nil {
		return errNoSessionMiddleware
	}
	if h.token != "" {
		if err := h.store.Delete(r.Context(), h.token); err != nil {
			return err
		}
		h.token = ""
	}
	h.session = Session{
		AccountID: accountID,
		Username:  username,
		Flags:     h.session.Flags,
	}
	return h.create(w, r.Context())
}

// EndSession logs the client out: every access flag is revoked and the session deleted.
// POST: No session remains for the client; the cookie is cleared
func EndSession(w http.ResponseWriter, r *http.Request) error {
	h := handleFrom(r.Context())
	if h == nil {
		return errNoSessionMiddleware
	}
	var err error
	if h.token != "" {
		err = h.store.Delete(r.Context(), h.token)
		h.token = ""
	}
	h.session = Session{Flags: access.RevokeAll(h.session.Flags)}
	ClearSessionCookie(w, h.cookie)
	return err
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string, opts CookieOptions) {
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultSessionTTL
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

package common

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/sitecounts/internal/i18n"
)

// SessionName is the cookie session holding UI preferences.
const SessionName = "sitecounts"

const sessionLocaleKey = "locale"

// RequestLocale picks the locale for a request: an explicit ?locale= wins,
// then the locale saved in the session, then the Accept-Language header.
func RequestLocale(r *http.Request, store sessions.Store) string {
	if locale := r.URL.Query().Get("locale"); locale != "" {
		return locale
	}
	if store != nil {
		// A session that fails to decode is treated as empty.
		if session, err := store.Get(r, SessionName); err == nil {
			if locale, ok := session.Values[sessionLocaleKey].(string); ok && locale != "" {
				return locale
			}
		}
	}
	return r.Header.Get("Accept-Language")
}

// SaveLocale stores the chosen locale in the session cookie.
func SaveLocale(w http.ResponseWriter, r *http.Request, store sessions.Store, locale string) error {
	session, _ := store.Get(r, SessionName)
	if session == nil {
		session = sessions.NewSession(store, SessionName)
	}
	session.Values[sessionLocaleKey] = locale
	return session.Save(r, w)
}

// LocaleContext returns the request context carrying the request's locale.
func LocaleContext(r *http.Request, store sessions.Store) context.Context {
	return i18n.WithLocale(r.Context(), RequestLocale(r, store))
}

// NewSessionStore returns the cookie store sessions are kept in.
func NewSessionStore(secret string) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(86400 * 30) // 30 days
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}

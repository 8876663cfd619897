package web

import (
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"portfolio/internal/i18n"
)

const (
	preferencesSession = "portfolio_prefs"

	// ThemeLight is the default theme
	ThemeLight = "light"
	// ThemeDark is the dark theme
	ThemeDark = "dark"
)

// Preferences are the visitor's display choices
type Preferences struct {
	Theme string
	Lang  string
}

// PreferenceStore persists preferences in a signed cookie
type PreferenceStore struct {
	store *sessions.CookieStore
}

// NewPreferenceStore creates a store signing cookies with secret.
// An empty secret gets a random key, so preferences reset on restart.
func NewPreferenceStore(secret string, secure bool) *PreferenceStore {
	key := []byte(secret)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &PreferenceStore{store: store}
}

// Load reads the stored preferences. A missing or tampered cookie yields the defaults
// with an empty Lang, leaving language negotiation to the request.
func (p *PreferenceStore) Load(r *http.Request) Preferences {
	prefs := Preferences{Theme: ThemeLight}

	session, err := p.store.Get(r, preferencesSession)
	if err != nil {
		return prefs
	}

	if theme, ok := session.Values["theme"].(string); ok && validTheme(theme) {
		prefs.Theme = theme
	}
	if lang, ok := session.Values["lang"].(string); ok {
		if parsed, ok := i18n.Parse(lang); ok {
			prefs.Lang = parsed
		}
	}

	return prefs
}

// Save writes prefs to the response. Invalid values are dropped.
func (p *PreferenceStore) Save(w http.ResponseWriter, r *http.Request, prefs Preferences) error {
	// Get returns a fresh session alongside a decode error
	session, _ := p.store.Get(r, preferencesSession)

	if validTheme(prefs.Theme) {
		session.Values["theme"] = prefs.Theme
	}
	if lang, ok := i18n.Parse(prefs.Lang); ok {
		session.Values["lang"] = lang
	}

	return session.Save(r, w)
}

func validTheme(theme string) bool {
	return theme == ThemeLight || theme == ThemeDark
}

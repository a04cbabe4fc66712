package www

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/icodeforyou/solarcalc-go/estimate"
)

const (
	sessionName     = "solarcalc"
	defaultSizeText = "5.00"
)

// SessionStore remembers the last inputs of a browser so the form can be
// prefilled. Results are never stored.
type SessionStore struct {
	store  sessions.Store
	logger *slog.Logger
}

func NewSessionStore(logger *slog.Logger, key []byte) *SessionStore {
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: store, logger: logger}
}

func (s *SessionStore) LastInput(r *http.Request) estimate.Input {
	in := estimate.Input{SizeText: defaultSizeText}
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		// a cookie signed with an old key, start over
		s.logger.Debug("ignoring invalid session", slog.Any("error", err))
		return in
	}
	if state, ok := session.Values["state"].(string); ok {
		in.State = state
	}
	if size, ok := session.Values["size"].(string); ok {
		in.SizeText = size
	}
	return in
}

func (s *SessionStore) SaveInput(w http.ResponseWriter, r *http.Request, in estimate.Input) {
	session, _ := s.store.Get(r, sessionName)
	session.Values["state"] = in.State
	session.Values["size"] = estimate.FormatSize(in.SizeText)
	if err := session.Save(r, w); err != nil {
		s.logger.Warn("failed to save session", slog.Any("error", err))
	}
}

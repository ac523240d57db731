package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/andrebq/msgboard/board"
	"github.com/andrebq/msgboard/board/session"
	"github.com/andrebq/msgboard/internal/logutil"
)

type (
	Resolver interface {
		Resolve(ctx context.Context, token string) (*board.User, error)
	}

	SecurityRealm struct {
		resolver     Resolver
		secureCookie bool

		// OnError renders the response when a token cannot be resolved
		// because of an internal failure
		OnError http.HandlerFunc
	}
)

const (
	CookieName = "authToken"
)

func NewRealm(resolver Resolver, secureCookie bool) *SecurityRealm {
	return &SecurityRealm{
		resolver:     resolver,
		secureCookie: secureCookie,
		OnError: func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		},
	}
}

// Identify attaches the user owning the request token (if any) to the request context.
//
// Requests without a token, or with a token that is not known, proceed as anonymous.
// If the token cannot be resolved due to an internal error the request fails
// and sensitive is never called.
func (s *SecurityRealm) Identify(sensitive http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, found := s.Token(r)
		if !found {
			sensitive.ServeHTTP(w, r)
			return
		}
		u, err := s.resolver.Resolve(r.Context(), token)
		switch {
		case errors.Is(err, session.ErrNotFound):
			sensitive.ServeHTTP(w, r)
		case err != nil:
			log := logutil.GetOrDefault(r.Context())
			log.Error().Err(err).Msg("Unexpected error when resolving session token")
			s.OnError(w, r)
		default:
			sensitive.ServeHTTP(w, r.WithContext(session.WithIdentity(r.Context(), u)))
		}
	})
}

// Protect rejects anonymous requests, it must run after Identify
func (s *SecurityRealm) Protect(sensitive http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.IdentityFrom(r.Context()); !ok {
			http.Error(w, "must be logged in to post messages", http.StatusUnauthorized)
			return
		}
		sensitive.ServeHTTP(w, r)
	})
}

// Token returns the raw token sent by the client
func (s *SecurityRealm) Token(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// SetCookie hands token to the client. The cookie has no expiry
// so it is dropped when the browser session ends.
func (s *SecurityRealm) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *SecurityRealm) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/andrebq/msgboard/board"
	"github.com/andrebq/msgboard/board/session"
	"github.com/steinfletcher/apitest"
)

type (
	resolverFunc func(context.Context, string) (*board.User, error)
)

func (f resolverFunc) Resolve(ctx context.Context, token string) (*board.User, error) {
	return f(ctx, token)
}

func whoami(count *uint32) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint32(count, 1)
		u, ok := session.IdentityFrom(r.Context())
		if !ok {
			fmt.Fprint(w, "anonymous")
			return
		}
		fmt.Fprint(w, u.Username)
	})
}

func TestIdentify(t *testing.T) {
	var resolveCalls uint32
	alice := &board.User{ID: 1, Username: "alice"}
	sr := NewRealm(resolverFunc(func(_ context.Context, token string) (*board.User, error) {
		atomic.AddUint32(&resolveCalls, 1)
		if token == "abc123" {
			return alice, nil
		}
		return nil, session.ErrNotFound
	}), false)
	var count uint32
	handler := sr.Identify(whoami(&count))

	apitest.Handler(handler).Get("/").Expect(t).Status(http.StatusOK).Body("anonymous").End()
	if resolveCalls != 0 {
		t.Fatal("Requests without a cookie should not reach the resolver")
	}
	apitest.Handler(handler).Get("/").Cookie(CookieName, "garbage").Expect(t).Status(http.StatusOK).Body("anonymous").End()
	apitest.Handler(handler).Get("/").Cookie(CookieName, "abc123").Expect(t).Status(http.StatusOK).Body("alice").End()

	if count != 3 {
		t.Fatalf("Handler should have been called 3 times got %v", count)
	}
	if resolveCalls != 2 {
		t.Fatalf("Resolver should be called once per request with a token, got %v calls", resolveCalls)
	}
}

func TestIdentifyFailsClosed(t *testing.T) {
	sr := NewRealm(resolverFunc(func(context.Context, string) (*board.User, error) {
		return nil, errors.New("database is locked")
	}), false)
	var count uint32
	handler := sr.Identify(whoami(&count))

	apitest.Handler(handler).Get("/").Cookie(CookieName, "abc123").
		Expect(t).
		Status(http.StatusInternalServerError).
		Body("Internal server error\n").
		End()
	if count != 0 {
		t.Fatal("Handler should not run when the token cannot be resolved")
	}
}

func TestProtect(t *testing.T) {
	alice := &board.User{ID: 1, Username: "alice"}
	sr := NewRealm(resolverFunc(func(_ context.Context, token string) (*board.User, error) {
		if token == "abc123" {
			return alice, nil
		}
		return nil, session.ErrNotFound
	}), false)
	var count uint32
	protected := sr.Identify(sr.Protect(whoami(&count)))

	apitest.Handler(protected).Post("/").Expect(t).
		Status(http.StatusUnauthorized).
		Body("must be logged in to post messages\n").
		End()
	apitest.Handler(protected).Post("/").Cookie(CookieName, "stale").Expect(t).
		Status(http.StatusUnauthorized).
		End()
	apitest.Handler(protected).Post("/").Cookie(CookieName, "abc123").Expect(t).
		Status(http.StatusOK).
		Body("alice").
		End()
	if count != 1 {
		t.Fatal("Protected endpoint should have been called only once")
	}
}

func TestCookies(t *testing.T) {
	sr := NewRealm(nil, true)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/logout" {
			sr.ClearCookie(w)
			return
		}
		sr.SetCookie(w, "abc123")
	})
	apitest.Handler(handler).Get("/login").Expect(t).
		Cookies(apitest.NewCookie(CookieName).Value("abc123").Path("/").HttpOnly(true).Secure(true)).
		End()
	apitest.Handler(handler).Get("/logout").Expect(t).
		Cookies(apitest.NewCookie(CookieName).Value("").MaxAge(-1)).
		End()
}

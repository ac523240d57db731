package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/andrebq/msgboard/board"
)

type (
	TokenStore interface {
		Save(ctx context.Context, token string, userID int64) error
		// Lookup returns ErrNotFound if the token was never saved
		Lookup(ctx context.Context, token string) (int64, error)
	}

	UserFinder interface {
		UserByID(ctx context.Context, id int64) (*board.User, error)
	}

	// Registry issues tokens and resolves them back to users
	Registry struct {
		tokens  TokenStore
		users   UserFinder
		entropy io.Reader
	}
)

const (
	tokenSize = 32
)

var (
	ErrNotFound = errors.New("session: token not found")
)

func NewRegistry(tokens TokenStore, users UserFinder, entropy io.Reader) *Registry {
	if entropy == nil {
		entropy = rand.Reader
	}
	return &Registry{
		tokens:  tokens,
		users:   users,
		entropy: entropy,
	}
}

// Issue creates a new token for userID, the caller must ensure the user exists.
func (r *Registry) Issue(ctx context.Context, userID int64) (string, error) {
	var buf [tokenSize]byte
	_, err := io.ReadFull(r.entropy, buf[:])
	if err != nil {
		return "", fmt.Errorf("unable to generate token, cause %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf[:])
	err = r.tokens.Save(ctx, token, userID)
	if err != nil {
		return "", fmt.Errorf("unable to register token for user %v, cause %w", userID, err)
	}
	return token, nil
}

// Resolve returns the current user record associated with token.
//
// ErrNotFound is returned if the token is unknown or the user is gone,
// any other error means the lookup itself failed.
func (r *Registry) Resolve(ctx context.Context, token string) (*board.User, error) {
	userID, err := r.tokens.Lookup(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("unable to lookup token, cause %w", err)
	}
	u, err := r.users.UserByID(ctx, userID)
	var notFound board.UserNotFound
	if errors.As(err, &notFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("unable to load user %v for token, cause %w", userID, err)
	}
	return u, nil
}

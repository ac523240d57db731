package session

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type (
	PlainText []byte

	// Hasher turns passwords into salted bcrypt hashes
	Hasher struct {
		Cost int
	}
)

const (
	// MinCost is the lowest cost accepted outside of tests
	MinCost = 10
)

var (
	ErrPasswordTooLong = bcrypt.ErrPasswordTooLong
)

func (p PlainText) Zero() {
	for i := range p {
		p[i] = 0
	}
}

func (h Hasher) Hash(passwd PlainText) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = MinCost
	}
	buf, err := bcrypt.GenerateFromPassword(passwd, cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	} else if err != nil {
		return "", fmt.Errorf("unable to hash password, cause %w", err)
	}
	return string(buf), nil
}

// Compare reports whether passwd matches the stored hash,
// a mismatch is not an error.
func (h Hasher) Compare(hash string, passwd PlainText) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), passwd)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("unable to compare password with stored hash, cause %w", err)
	}
}

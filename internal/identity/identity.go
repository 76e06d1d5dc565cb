// Package identity resolves the authenticated principal of a request.
//
// Credentials are checked with HTTP Basic authentication against a fixed
// set of accounts whose passwords are kept as bcrypt hashes. The resolved
// principal name travels on the request context.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type ctxKey struct{}

// NewContext returns a copy of ctx carrying the principal name.
func NewContext(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, ctxKey{}, principal)
}

// FromContext returns the principal name, if the request was authenticated.
func FromContext(ctx context.Context) (string, bool) {
	p, ok := ctx.Value(ctxKey{}).(string)
	if !ok || p == "" {
		return "", false
	}

	return p, true
}

var ErrInvalidCredentials = errors.New("invalid login/password")

// Accounts is an in-memory credential store.
type Accounts struct {
	hashes map[string][]byte
}

// NewAccounts builds the store from name -> password pairs. A value that
// already is a bcrypt hash is kept, anything else is hashed with cost.
func NewAccounts(passwords map[string]string, cost int) (*Accounts, error) {
	a := &Accounts{hashes: make(map[string][]byte, len(passwords))}

	for name, password := range passwords {
		if isBcryptHash(password) {
			a.hashes[name] = []byte(password)
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash password of %s: %w", name, err)
		}
		a.hashes[name] = hash
	}

	return a, nil
}

// Authenticate checks name and password, returning the principal name.
func (a *Accounts) Authenticate(name, password string) (string, error) {
	hash, ok := a.hashes[name]
	if !ok {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return name, nil
}

func isBcryptHash(s string) bool {
	if _, err := bcrypt.Cost([]byte(s)); err != nil {
		return false
	}

	return strings.HasPrefix(s, "$2")
}

package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Verifier decides whether a caller-supplied secret grants write access.
type Verifier interface {
	Verify(secret string) error
}

// NewVerifier picks a verifier for the configured admin secret. Values that look
// like bcrypt hashes are compared with bcrypt; anything else is a plain secret.
func NewVerifier(configured string) Verifier {
	if isBcryptHash(configured) {
		return &BcryptVerifier{hash: []byte(configured)}
	}
	return NewStaticVerifier(configured)
}

// StaticVerifier compares against a plain shared secret in constant time.
type StaticVerifier struct {
	secret []byte
}

// NewStaticVerifier builds a StaticVerifier. An empty secret rejects every caller.
func NewStaticVerifier(secret string) *StaticVerifier {
	return &StaticVerifier{secret: []byte(secret)}
}

func (v *StaticVerifier) Verify(secret string) error {
	if len(v.secret) == 0 || secret == "" {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare(v.secret, []byte(secret)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// BcryptVerifier checks the secret against a bcrypt hash.
type BcryptVerifier struct {
	hash []byte
}

func (v *BcryptVerifier) Verify(secret string) error {
	if secret == "" {
		return ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(v.hash, []byte(secret)); err != nil {
		return ErrUnauthorized
	}
	return nil
}

func isBcryptHash(value string) bool {
	if len(value) != 60 {
		return false
	}
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

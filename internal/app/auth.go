package app

import (
	"context"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"inhotel/internal/domain"
)

// PlaintextVerifier compares stored and presented passwords byte for byte.
type PlaintextVerifier struct{}

func (PlaintextVerifier) Verify(stored, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}

func (PlaintextVerifier) Encode(password string) (string, error) { return password, nil }

// BcryptVerifier expects stored passwords to be bcrypt hashes.
type BcryptVerifier struct{ Cost int }

func (BcryptVerifier) Verify(stored, presented string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented)) == nil
}

func (v BcryptVerifier) Encode(password string) (string, error) {
	cost := v.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// NewVerifier picks a verifier by name: "plaintext" (default) or "bcrypt".
func NewVerifier(kind string) (domain.CredentialVerifier, error) {
	switch kind {
	case "", "plaintext":
		return PlaintextVerifier{}, nil
	case "bcrypt":
		return BcryptVerifier{}, nil
	default:
		return nil, fmt.Errorf("unknown credential verifier %q", kind)
	}
}

type AuthService struct {
	users    domain.UserDirectory
	verifier domain.CredentialVerifier
}

func NewAuthService(u domain.UserDirectory, v domain.CredentialVerifier) *AuthService {
	return &AuthService{users: u, verifier: v}
}

// FindUserID returns the uid of the first user (by uid) with this exact name
// whose stored credential matches, or domain.ErrNotFound.
func (s *AuthService) FindUserID(ctx context.Context, name, password string) (int64, error) {
	creds, err := s.users.CredentialsByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("credentials for %q: %w", name, err)
	}
	for _, c := range creds {
		if s.verifier.Verify(c.Password, password) {
			return c.ID, nil
		}
	}
	return 0, domain.ErrNotFound
}

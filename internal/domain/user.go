package domain

// UserCredential is a user row as seen by the login check. Password is
// whatever the store holds: plaintext or a hash, depending on the verifier.
type UserCredential struct {
	ID       int64
	Name     string
	Password string
}

package core

// PasswordHasher hashes and verifies local credentials with a slow one-way function
type PasswordHasher interface {
	// Hash returns a salted hash of the password
	Hash(password string) (string, error)
	// Compare returns nil when password matches hash
	Compare(hash, password string) error
}

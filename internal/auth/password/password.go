// Package password handles password hashing and verification.
package password

import "golang.org/x/crypto/bcrypt"

// Hash produces a salted bcrypt hash of the plaintext. Each call salts
// independently, so two hashes of the same input differ.
func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare checks the plaintext against a stored hash in constant time.
// A malformed hash is reported as a mismatch, never a panic.
func Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

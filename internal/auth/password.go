package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters. The iteration count is deliberately high so offline
// brute force against a leaked hash stays expensive.
const (
	pbkdf2Iterations = 100_000
	pbkdf2KeyLen     = 32 // derived key length
	pbkdf2SaltLen    = 16 // salt length
)

// HashPassword derives a one-way hash of a plaintext password with a fresh
// random salt. Both values are returned base64-encoded, ready for storage
// in the password_hash / password_salt columns.
//
// A salt is never reused: two calls with the same password produce
// different salts and therefore different hashes.
func HashPassword(password string) (hash, salt string, err error) {
	if password == "" {
		return "", "", ErrEmptyPassword
	}

	saltBytes := make([]byte, pbkdf2SaltLen)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", "", fmt.Errorf("generating salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), saltBytes, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)

	return base64.StdEncoding.EncodeToString(key),
		base64.StdEncoding.EncodeToString(saltBytes),
		nil
}

// VerifyPassword checks a plaintext password against a stored hash/salt
// pair. It returns false — never an error — on empty or malformed inputs,
// so corrupt stored data denies access instead of failing the request.
//
// The comparison is constant-time. This is the single most
// security-critical function in the package: do not replace the compare
// with ==.
func VerifyPassword(password, storedHash, storedSalt string) bool {
	if password == "" || storedHash == "" || storedSalt == "" {
		return false
	}

	saltBytes, err := base64.StdEncoding.DecodeString(storedSalt)
	if err != nil {
		return false
	}
	hashBytes, err := base64.StdEncoding.DecodeString(storedHash)
	if err != nil {
		return false
	}

	candidate := pbkdf2.Key([]byte(password), saltBytes, pbkdf2Iterations, len(hashBytes), sha256.New)

	return subtle.ConstantTimeCompare(hashBytes, candidate) == 1
}

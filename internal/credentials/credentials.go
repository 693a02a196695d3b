package credentials

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	saltBytes  = 16
	tokenBytes = 32

	// scrypt parameters; records written with other values will not verify.
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
)

// ErrEmptyPassword is returned when hashing an empty password.
var ErrEmptyPassword = errors.New("password is required")

// HashPassword derives a scrypt key from password and a fresh random salt.
// The record has the form "<salt hex>:<key hex>".
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	var buf [saltBytes]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	salt := hex.EncodeToString(buf[:])

	key, err := derive(password, salt)
	if err != nil {
		return "", err
	}
	return salt + ":" + hex.EncodeToString(key), nil
}

// VerifyPassword reports whether password matches record. Malformed records
// never match.
func VerifyPassword(password, record string) bool {
	salt, expectedHex, ok := strings.Cut(record, ":")
	if !ok || salt == "" || expectedHex == "" {
		return false
	}
	expected, err := hex.DecodeString(expectedHex)
	if err != nil || len(expected) != scryptKeyLen {
		return false
	}

	actual, err := derive(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(actual, expected) == 1
}

// IssueToken returns a random 64-character hex bearer token.
func IssueToken() (string, error) {
	var buf [tokenBytes]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf[:]), nil
}

// The hex salt string itself is the KDF salt, matching records created by
// earlier deployments.
func derive(password, salt string) ([]byte, error) {
	return scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLen)
}

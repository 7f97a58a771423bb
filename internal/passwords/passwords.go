// Package passwords holds the member password policy and the optional
// bcrypt hashing of stored passwords.
package passwords

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinLength = 8

	// SpecialCharacters lists the characters that satisfy the special
	// character rule.
	SpecialCharacters = "#?!@$%^&*-"
)

// ValidFormat reports whether password is at least MinLength characters on a
// single line and contains an upper case letter, a lower case letter, a digit
// and one of SpecialCharacters. Letters and digits are ASCII only.
func ValidFormat(password string) bool {
	if strings.ContainsAny(password, "\n\r") || utf8.RuneCountInString(password) < MinLength {
		return false
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(SpecialCharacters, r):
			special = true
		}
	}
	return upper && lower && digit && special
}

// Hasher turns a submitted password into its stored form and checks a
// submitted password against a stored one.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(stored, password string) bool
	// Plaintext reports whether stored values equal submitted passwords,
	// which lets lookups match on the password column directly.
	Plaintext() bool
}

// NewHasher returns a bcrypt hasher when hashing is enabled, and a
// plaintext pass-through otherwise.
func NewHasher(hash bool, cost int) Hasher {
	if !hash {
		return plaintextHasher{}
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return bcryptHasher{cost: cost}
}

type plaintextHasher struct{}

func (plaintextHasher) Hash(password string) (string, error) { return password, nil }

func (plaintextHasher) Compare(stored, password string) bool { return stored == password }

func (plaintextHasher) Plaintext() bool { return true }

type bcryptHasher struct {
	cost int
}

// ErrTooLong is returned for passwords bcrypt cannot hash.
var ErrTooLong = errors.New("password is too long")

func (h bcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrTooLong
	}
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h bcryptHasher) Compare(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

func (bcryptHasher) Plaintext() bool { return false }

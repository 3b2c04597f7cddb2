package employee

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns a plaintext password into the digest stored in the
// employee table and checks plaintext against a stored digest.
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(digest, pw string) bool
}

// MD5Hasher produces unsalted lowercase hex MD5 digests. It matches the
// digests already stored by the back-office and is the default.
type MD5Hasher struct{}

func (MD5Hasher) Hash(pw string) (string, error) {
	sum := md5.Sum([]byte(pw))
	return hex.EncodeToString(sum[:]), nil
}

func (h MD5Hasher) Verify(digest, pw string) bool {
	got, _ := h.Hash(pw)
	return ConstantTimeCompare(got, digest)
}

// BcryptHasher is the salted alternative. Switching to it invalidates every
// digest written by MD5Hasher.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b BcryptHasher) Verify(digest, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(pw)) == nil
}

// NewHasher returns the hasher registered under name ("md5" or "bcrypt").
func NewHasher(name string) (PasswordHasher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "md5":
		return MD5Hasher{}, nil
	case "bcrypt":
		return BcryptHasher{Cost: 12}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}

// HasherFromEnv reads PASSWORD_HASHER.
func HasherFromEnv() (PasswordHasher, error) {
	return NewHasher(os.Getenv("PASSWORD_HASHER"))
}

// ConstantTimeCompare compares two digests without leaking where they differ.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// CredentialEncoder turns a plaintext password into the digest kept on the
// user record and checks candidates against it.
type CredentialEncoder interface {
	Encode(password string) (string, error)
	Matches(digest, password string) bool
}

// Base64Encoder stores passwords as their standard base64 encoding.
//
// This is reversible and offers no protection at all. It exists so digests
// written by the old site keep verifying. Use BcryptEncoder for anything real.
type Base64Encoder struct{}

func (Base64Encoder) Encode(password string) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(password)), nil
}

func (Base64Encoder) Matches(digest, password string) bool {
	encoded := base64.StdEncoding.EncodeToString([]byte(password))
	return subtle.ConstantTimeCompare([]byte(digest), []byte(encoded)) == 1
}

// BcryptEncoder hashes passwords with bcrypt at the configured cost.
type BcryptEncoder struct {
	Cost int
}

func (e BcryptEncoder) Encode(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}
	cost := e.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (BcryptEncoder) Matches(digest, password string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// EncoderByName maps a config value to an encoder. Empty selects base64.
func EncoderByName(name string) (CredentialEncoder, error) {
	switch name {
	case "", "base64":
		return Base64Encoder{}, nil
	case "bcrypt":
		return BcryptEncoder{}, nil
	default:
		return nil, fmt.Errorf("unknown password encoder %q", name)
	}
}

package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "travelx"

// ErrInvalidToken is returned when a session token cannot be decoded.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity and lifetime embedded in a session token.
type Claims struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// Expired reports whether the claims are past their expiry at now.
func (c Claims) Expired(now time.Time) bool {
	return c.ExpiresAt.Before(now)
}

// TokenCodec converts claims to a self-contained bearer value and back.
// Decode does not check expiry; callers use Claims.Expired.
type TokenCodec interface {
	Encode(c Claims) (string, error)
	Decode(token string) (Claims, error)
}

// Base64Codec writes claims as base64(JSON) with the expiry in Unix
// milliseconds. Tokens are unsigned and can be forged by anyone.
type Base64Codec struct{}

type base64Payload struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Exp    int64  `json:"exp"`
}

func (Base64Codec) Encode(c Claims) (string, error) {
	data, err := json.Marshal(base64Payload{
		UserID: c.UserID,
		Email:  c.Email,
		Exp:    c.ExpiresAt.UnixMilli(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func (Base64Codec) Decode(token string) (Claims, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	var p base64Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Claims{}, ErrInvalidToken
	}
	if p.UserID == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{
		UserID:    p.UserID,
		Email:     p.Email,
		ExpiresAt: time.UnixMilli(p.Exp),
	}, nil
}

// JWTCodec signs claims as an HS256 JWT.
type JWTCodec struct {
	secret []byte
}

type jwtClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func NewJWTCodec(secret string) (*JWTCodec, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("token secret is empty")
	}
	return &JWTCodec{secret: []byte(secret)}, nil
}

func (c *JWTCodec) Encode(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		Email: claims.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   claims.UserID,
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (c *JWTCodec) Decode(token string) (Claims, error) {
	var claims jwtClaims
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(token), &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		// expiry is checked by the caller so both codecs behave the same
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.Issuer != issuer || claims.Subject == "" || claims.ExpiresAt == nil {
		return Claims{}, ErrInvalidToken
	}
	return Claims{
		UserID:    claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Package auth implements the authentication token subsystem: a JWT codec,
// a Redis-backed revocation blacklist, the token service that orchestrates
// issuance and rotation, and the authenticator consumed by the transport
// layer.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sangvinij/user-management-micro-service/internal/common"
)

// TokenKind distinguishes short-lived access tokens from long-lived refresh
// tokens. The kind travels in the unsigned JWT header under "token_kind".
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

const kindHeader = "token_kind"

// Claims is the signed token payload: the subject's user id plus the
// authorization attributes embedded at issuance time. Role and Group are
// omitted from the wire format when empty.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
	Group  int64  `json:"group,omitempty"`
}

// TokenPair bundles a short-lived access token and a long-lived refresh
// token issued together for the same subject.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Codec encodes and decodes signed token artifacts. It is a pure function
// of its configuration: no I/O, safe for concurrent use.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
}

// NewCodec builds a codec for the given symmetric secret and algorithm name
// (e.g. "HS256").
func NewCodec(secret []byte, algorithm string) (*Codec, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	return &Codec{secret: secret, method: method}, nil
}

// Encode signs claims into a token of the given kind. Claims without an
// expiration are encoded without an exp field; production paths always set
// one.
func (c *Codec) Encode(kind TokenKind, claims Claims) (string, error) {
	if kind != TokenKindAccess && kind != TokenKindRefresh {
		return "", common.ErrInvalidTokenKind
	}

	token := jwt.NewWithClaims(c.method, claims)
	token.Header[kindHeader] = string(kind)

	return token.SignedString(c.secret)
}

// Decode verifies the signature and expiration and returns the claims.
// It performs no kind or revocation checks; those are layered by Service.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{c.method.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, common.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, common.ErrInvalidSignature
		default:
			return nil, common.ErrMalformedToken
		}
	}
	if !token.Valid {
		return nil, common.ErrMalformedToken
	}

	return claims, nil
}

// PeekKind reads the token kind from the unverified header. It only routes
// a token to the right verification path and must never be treated as a
// trust decision by itself.
func (c *Codec) PeekKind(tokenString string) (TokenKind, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return "", common.ErrMalformedToken
	}

	kind, _ := token.Header[kindHeader].(string)
	switch TokenKind(kind) {
	case TokenKindAccess, TokenKindRefresh:
		return TokenKind(kind), nil
	default:
		return "", common.ErrWrongTokenType
	}
}

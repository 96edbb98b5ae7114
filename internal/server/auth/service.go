package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sangvinij/user-management-micro-service/internal/common"
)

// Service issues, verifies and rotates token pairs. It holds no mutable
// state of its own; the only shared mutable state is the revocation store,
// so a single instance is safe for concurrent use.
type Service struct {
	codec      *Codec
	blacklist  RevocationStore
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService wires a token Service from a codec, a revocation store and the
// two configured token lifetimes.
func NewService(codec *Codec, blacklist RevocationStore, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		codec:      codec,
		blacklist:  blacklist,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// CreatePair mints an access/refresh pair carrying the same identity claims
// but different kinds and expirations. Every token gets its own jti, so two
// issuances for the same subject are never byte-identical. Rotation depends
// on that: revoking the old token must never hit the new one.
func (s *Service) CreatePair(subject, role string, group int64) (*TokenPair, error) {
	now := time.Now()

	access, err := s.codec.Encode(TokenKindAccess, newClaims(subject, role, group, now, now.Add(s.accessTTL)))
	if err != nil {
		return nil, err
	}

	refresh, err := s.codec.Encode(TokenKindRefresh, newClaims(subject, role, group, now, now.Add(s.refreshTTL)))
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify decodes the token and enforces the expected kind. Refresh tokens
// are additionally checked against the revocation store.
func (s *Service) Verify(ctx context.Context, token string, kind TokenKind) (*Claims, error) {
	claims, err := s.codec.Decode(token)
	if err != nil {
		return nil, err
	}

	got, err := s.codec.PeekKind(token)
	if err != nil {
		return nil, err
	}
	if got != kind {
		return nil, common.ErrWrongTokenType
	}

	if kind == TokenKindRefresh && s.blacklist.IsRevoked(ctx, token) {
		return nil, common.ErrTokenBlacklisted
	}

	return claims, nil
}

// Refresh rotates a refresh token: it verifies the old token, issues a new
// pair from its claims and only then revokes the old token. A crash between
// the two steps leaves the old token usable instead of stranding the
// session, which means two concurrent calls with the same still-valid token
// may both succeed.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.Verify(ctx, refreshToken, TokenKindRefresh)
	if err != nil {
		return nil, err
	}

	pair, err := s.CreatePair(claims.UserID, claims.Role, claims.Group)
	if err != nil {
		return nil, err
	}

	s.blacklist.MarkRevoked(ctx, refreshToken)

	return pair, nil
}

func newClaims(subject, role string, group int64, issuedAt, expiresAt time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: subject,
		Role:   role,
		Group:  group,
	}
}

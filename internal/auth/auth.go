// Package auth consumes identities issued by the municipal SSO. It only
// verifies bearer tokens and resolves the caller's role and secretaria;
// login, refresh and password storage live in the SSO itself.
package auth

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/framil09/prefeitura--sub000/internal"
	"github.com/framil09/prefeitura--sub000/internal/accesscontrol"
	"github.com/golang-jwt/jwt/v5"
)

// IdentityFromContext returns the authenticated identity placed there by
// the Authenticate middleware. The context key lives in accesscontrol so
// its handlers can read the identity without importing this package.
func IdentityFromContext(ctx context.Context) (accesscontrol.Identity, bool) {
	return accesscontrol.IdentityFromContext(ctx)
}

func ContextWithIdentity(ctx context.Context, id accesscontrol.Identity) context.Context {
	return accesscontrol.ContextWithIdentity(ctx, id)
}

// Claims are the subset of SSO token claims this service cares about.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenVerifier validates externally issued HS256 access tokens.
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

func (v *TokenVerifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, apperrors.ErrInvalidToken
}

// IdentityRepository resolves a user id into the identity value consumed
// by the access control layer.
type IdentityRepository interface {
	GetIdentity(ctx context.Context, userID int64) (*accesscontrol.Identity, error)
}

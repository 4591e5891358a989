package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tanodwatch/tanod-system/internal/core/domain"
)

// principalClaims are the claims read from an HS256 token.
type principalClaims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier accepts HS256 tokens signed with a shared secret. It is used in
// development and for service-to-service calls.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify validates the signature and expiry and maps sub/name/email onto a Principal.
func (v *JWTVerifier) Verify(_ context.Context, token string) (*domain.Principal, error) {
	claims := &principalClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrAuthRequired)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrAuthRequired)
	}

	return &domain.Principal{
		ID:          claims.Subject,
		DisplayName: claims.Name,
		Email:       claims.Email,
	}, nil
}

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"

	"github.com/tanodwatch/tanod-system/internal/core/domain"
)

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestJWTVerifier_Valid(t *testing.T) {
	token := sign(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
		"sub":   "fb-42",
		"name":  "Juan",
		"email": "juan@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	p, err := NewJWTVerifier("secret").Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "fb-42" || p.DisplayName != "Juan" || p.Email != "juan@example.com" {
		t.Errorf("unexpected principal: %+v", p)
	}
}

func TestJWTVerifier_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "u1"})},
		{name: "expired", token: sign(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Minute).Unix()})},
		{name: "no subject", token: sign(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{"name": "x"})},
		{name: "wrong alg", token: sign(t, jwt.SigningMethodHS384, []byte("secret"), jwt.MapClaims{"sub": "u1"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJWTVerifier("secret").Verify(context.Background(), tt.token)
			if !errors.Is(err, domain.ErrAuthRequired) {
				t.Errorf("expected ErrAuthRequired, got: %v", err)
			}
		})
	}
}

type stubIDTokens struct {
	token *fbauth.Token
	err   error
}

func (s stubIDTokens) VerifyIDToken(_ context.Context, _ string) (*fbauth.Token, error) {
	return s.token, s.err
}

func TestFirebaseVerifier(t *testing.T) {
	v := NewFirebaseVerifier(stubIDTokens{token: &fbauth.Token{
		UID:    "fb-7",
		Claims: map[string]interface{}{"name": "Maria", "email": "maria@example.com"},
	}})

	p, err := v.Verify(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "fb-7" || p.DisplayName != "Maria" || p.Email != "maria@example.com" {
		t.Errorf("unexpected principal: %+v", p)
	}

	_, err = NewFirebaseVerifier(stubIDTokens{err: errors.New("token expired")}).Verify(context.Background(), "id-token")
	if !errors.Is(err, domain.ErrAuthRequired) {
		t.Errorf("expected ErrAuthRequired, got: %v", err)
	}
}

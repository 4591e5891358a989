package auth

import (
	"context"
	"fmt"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/tanodwatch/tanod-system/internal/core/domain"
)

// idTokenVerifier is the subset of *fbauth.Client used here.
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseVerifier accepts Firebase Authentication ID tokens, the tokens the
// web client receives after federated sign-in.
type FirebaseVerifier struct {
	client idTokenVerifier
}

func NewFirebaseVerifier(client idTokenVerifier) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*domain.Principal, error) {
	tok, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthRequired, err)
	}

	name, _ := tok.Claims["name"].(string)
	email, _ := tok.Claims["email"].(string)
	return &domain.Principal{
		ID:          tok.UID,
		DisplayName: name,
		Email:       email,
	}, nil
}

package auth

import (
	"context"

	"github.com/zfogg/inkwell/backend/internal/models"
)

// ResolverInterface maps identity tokens to persisted users.
// Handlers depend on it so tests can substitute a fixed identity.
type ResolverInterface interface {
	VerifyToken(tokenString string) (*Identity, error)
	Resolve(ctx context.Context, tokenString string) (*models.User, error)
	Store(ctx context.Context, tokenString string) (*models.User, error)
	CompleteOnboarding(ctx context.Context, caller *models.User, input OnboardingInput) (*models.User, error)
}

// Ensure Resolver implements ResolverInterface
var _ ResolverInterface = (*Resolver)(nil)

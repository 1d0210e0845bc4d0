package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/zfogg/inkwell/backend/internal/errors"
	"github.com/zfogg/inkwell/backend/internal/logger"
	"github.com/zfogg/inkwell/backend/internal/models"
	"github.com/zfogg/inkwell/backend/internal/repository"
	"go.uber.org/zap"
)

// MinInterests is the number of interests a user must pick to finish onboarding
const MinInterests = 3

// Identity is the verified content of an identity token issued by the auth provider
type Identity struct {
	Subject  string
	Name     string
	Email    string
	ImageURL string
}

// Claims are the identity token claims we read
type Claims struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// OnboardingInput is the profile data collected when a user finishes onboarding
type OnboardingInput struct {
	Location  *models.Location `json:"location" validate:"required"`
	Interests []string         `json:"interests" validate:"min=3,dive,required"`
}

// Resolver verifies identity tokens and maps them to persisted users
type Resolver struct {
	jwtSecret []byte
	issuer    string
	users     repository.UserRepository
	validate  *validator.Validate
}

// NewResolver creates a resolver. issuer may be empty to skip the issuer check.
func NewResolver(jwtSecret []byte, issuer string, users repository.UserRepository) *Resolver {
	return &Resolver{
		jwtSecret: jwtSecret,
		issuer:    issuer,
		users:     users,
		validate:  validator.New(),
	}
}

// VerifyToken checks the token signature and expiry and returns the identity it carries
func (r *Resolver) VerifyToken(tokenString string) (*Identity, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if r.issuer != "" {
		opts = append(opts, jwt.WithIssuer(r.issuer))
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return r.jwtSecret, nil
	}, opts...)
	if err != nil || !token.Valid {
		logger.Log.Debug("Rejected identity token", zap.Error(err))
		return nil, errors.Unauthenticated("invalid identity token")
	}
	if claims.Subject == "" {
		return nil, errors.Unauthenticated("identity token has no subject")
	}

	return &Identity{
		Subject:  claims.Subject,
		Name:     claims.Name,
		Email:    claims.Email,
		ImageURL: claims.Picture,
	}, nil
}

// Resolve returns the stored user for the token. An empty token, or a valid
// token whose user was never stored, resolves to nil (anonymous).
func (r *Resolver) Resolve(ctx context.Context, tokenString string) (*models.User, error) {
	if tokenString == "" {
		return nil, nil
	}
	identity, err := r.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := r.users.GetUserByToken(ctx, identity.Subject)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return user, nil
}

// Store creates the user record for the token on first call and refreshes
// the profile fields on later calls when the provider reports changes
func (r *Resolver) Store(ctx context.Context, tokenString string) (*models.User, error) {
	if tokenString == "" {
		return nil, errors.Unauthenticated("called store without authentication present")
	}
	identity, err := r.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name = "Anonymous"
	}

	user, err := r.users.GetUserByToken(ctx, identity.Subject)
	switch {
	case err == nil:
		if user.Name == name && user.ImageURL == identity.ImageURL && user.Email == identity.Email {
			return user, nil
		}
		user.Name = name
		user.ImageURL = identity.ImageURL
		user.Email = identity.Email
		if err := r.users.UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		return user, nil

	case stderrors.Is(err, repository.ErrNotFound):
		user = &models.User{
			TokenIdentifier: identity.Subject,
			Name:            name,
			Email:           identity.Email,
			ImageURL:        identity.ImageURL,
		}
		if err := r.users.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		logger.Log.Info("User stored", logger.WithUserID(user.ID))
		return user, nil

	default:
		return nil, fmt.Errorf("lookup user: %w", err)
	}
}

// CompleteOnboarding records the caller's location and interests and marks onboarding done
func (r *Resolver) CompleteOnboarding(ctx context.Context, caller *models.User, input OnboardingInput) (*models.User, error) {
	if caller == nil {
		return nil, errors.Unauthenticated("")
	}
	if err := r.validate.Struct(input); err != nil {
		var validationErrors validator.ValidationErrors
		if stderrors.As(err, &validationErrors) && len(validationErrors) > 0 {
			field := strings.ToLower(validationErrors[0].Field())
			if field == "interests" {
				return nil, errors.InvalidArgument(field, fmt.Sprintf("select at least %d interests", MinInterests))
			}
			return nil, errors.InvalidArgument(field, field+" is required")
		}
		return nil, errors.InvalidArgument("", err.Error())
	}

	caller.Location = input.Location
	caller.Interests = input.Interests
	caller.HasCompletedOnboarding = true
	if err := r.users.UpdateUser(ctx, caller); err != nil {
		return nil, fmt.Errorf("complete onboarding: %w", err)
	}
	return caller, nil
}

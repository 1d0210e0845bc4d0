package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignIdentityToken issues an HS256 identity token in the same shape the auth
// provider does. It is used for local development and tests.
func SignIdentityToken(secret []byte, issuer string, identity Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:    identity.Name,
		Email:   identity.Email,
		Picture: identity.ImageURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

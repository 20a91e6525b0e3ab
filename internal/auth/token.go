package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/skybi/user-service/internal/user"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNoSecret     = errors.New("no token secret configured")
)

// Claims represents the claims carried by an access token.
// The subject is the ID of the user the token was issued to.
type Claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name"`
	Email string `json:"email"`
	Roles string `json:"roles"`
}

// RoleSet returns the parsed roles carried by the token
func (claims *Claims) RoleSet() user.RoleSet {
	set, _ := user.ParseRoles(claims.Roles)
	return set
}

// Issuer issues and verifies HS512 signed access tokens
type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	lifetime time.Duration
	now      func() time.Time
}

// NewIssuer creates a new token issuer
func NewIssuer(secret []byte, issuer, audience string, lifetime time.Duration) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %s", lifetime)
	}
	return &Issuer{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

// Issue creates and signs a new token for the given user
func (iss *Issuer) Issue(obj *user.User) (string, *Claims, error) {
	now := iss.now().UTC()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   obj.ID,
			Issuer:    iss.issuer,
			Audience:  jwt.ClaimStrings{iss.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(iss.lifetime)),
		},
		Name:  obj.Name,
		Email: obj.Email,
		Roles: obj.RoleSet().String(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(iss.secret)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// Verify parses the given token and validates its signature, issuer, audience and lifetime.
// Every validation failure is reported as ErrInvalidToken wrapping the cause.
func (iss *Issuer) Verify(raw string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithIssuer(iss.issuer),
		jwt.WithAudience(iss.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(iss.now),
	)
	claims := new(Claims)
	token, err := parser.ParseWithClaims(raw, claims, func(_ *jwt.Token) (any, error) {
		return iss.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Lifetime returns the lifetime of issued tokens
func (iss *Issuer) Lifetime() time.Duration {
	return iss.lifetime
}

// Package auth issues and verifies the access tokens handed out on login.
package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrKIDMissing    = errors.New("kid missing from token header")
	ErrKIDMalformed  = errors.New("kid in token header is malformed")
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidIssuer = errors.New("token issued by someone else")
)

type Claims struct {
	jwt.RegisteredClaims
}

type keyLoader interface {
	PrivateKey(kid string) (*rsa.PrivateKey, error)
	PublicKey(kid string) (*rsa.PublicKey, error)
}

type Auth struct {
	keyLoader    keyLoader
	issuer       string
	signinMethod jwt.SigningMethod
	parser       *jwt.Parser
}

func New(loader keyLoader, issuer string) *Auth {
	return &Auth{
		keyLoader:    loader,
		issuer:       issuer,
		signinMethod: jwt.GetSigningMethod(jwt.SigningMethodRS256.Name),
		parser:       jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Name})),
	}
}

// NewClaims builds the claims for subject valid for maxAge from now.
func (a *Auth) NewClaims(subject string, maxAge time.Duration) Claims {
	now := time.Now()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(maxAge)),
		},
	}
}

func (a *Auth) GenerateToken(kid string, c Claims) (string, error) {
	t := jwt.NewWithClaims(a.signinMethod, c)

	t.Header["kid"] = kid

	privateKey, err := a.keyLoader.PrivateKey(kid)
	if err != nil {
		return "", fmt.Errorf("privateKey: %w", err)
	}

	token, err := t.SignedString(privateKey)
	if err != nil {
		return "", fmt.Errorf("signedString: %w", err)
	}

	return token, nil
}

func (a *Auth) VerifyToken(ctx context.Context, bearer string) (Claims, error) {
	//check for format "Bearer <TOKEN>"
	token, ok := strings.CutPrefix(bearer, "Bearer ")
	if !ok {
		return Claims{}, errors.New("expected authorization header format: Bearer <token>")
	}

	var claims Claims
	verifiedToken, err := a.parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		k, ok := t.Header["kid"]
		if !ok {
			return nil, ErrKIDMissing
		}

		kid, ok := k.(string)
		if !ok {
			return nil, ErrKIDMalformed
		}

		pub, err := a.keyLoader.PublicKey(kid)
		if err != nil {
			return nil, fmt.Errorf("fetching public key for kid[%s]: %w", kid, err)
		}

		return pub, nil
	})

	if err != nil {
		return Claims{}, fmt.Errorf("parseWithClaims: %w", err)
	}

	if !verifiedToken.Valid {
		return Claims{}, ErrInvalidToken
	}

	if !claims.VerifyIssuer(a.issuer, true) {
		return Claims{}, ErrInvalidIssuer
	}

	return claims, nil
}

package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned for any credential that fails verification.
	// ErrTokenExpired and ErrMissingUser both match it with errors.Is.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when the token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrMissingUser is returned when a verified token carries no user claim
	ErrMissingUser = errors.New("missing user claim")

	// ErrMissingSecret is returned when a verifier is built without a signing secret
	ErrMissingSecret = errors.New("token secret is required")
)

// signingMethod is the only algorithm the doctor tokens are issued with
var signingMethod = jwt.SigningMethodHS256

// Claims represents the payload of a doctor credential token
type Claims struct {
	jwt.RegisteredClaims
	User string `json:"user"` // Doctor identifier
}

// Config holds configuration for HMACVerifier
type Config struct {
	Secret string
	Issuer string        // When set, the iss claim must match
	Leeway time.Duration // Clock skew tolerated on exp/nbf/iat
}

// HMACVerifier validates HS256 tokens signed with a shared secret
type HMACVerifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewHMACVerifier creates a verifier bound to the given secret
func NewHMACVerifier(cfg Config) (*HMACVerifier, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(cfg.Leeway))
	}

	return &HMACVerifier{
		secret: []byte(cfg.Secret),
		parser: jwt.NewParser(opts...),
	}, nil
}

// Verify checks the token signature and registered claims and returns its payload.
// Every rejection wraps ErrInvalidToken; the returned claims are never nil on success.
func (v *HMACVerifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrTokenExpired)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.User == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrMissingUser)
	}

	return claims, nil
}

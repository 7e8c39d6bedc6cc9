package token

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-web-gallery/internal/model"
	"go-web-gallery/pkg/apierror"
)

// Issuer signs and verifies short-lived HS256 access tokens. It holds only
// an immutable secret and is safe for concurrent use without locking.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewIssuer(secret string, issuer string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("token issuer requires a non-empty secret")
	}
	if issuer == "" {
		return nil, fmt.Errorf("token issuer requires an issuer name")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token TTL must be positive")
	}

	return &Issuer{secret: []byte(secret), issuer: issuer, ttl: ttl}, nil
}

// TTL reports the access-token lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue builds and signs an access token for username with the given role.
func (i *Issuer) Issue(username string, role string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"iss":      i.issuer,
		"username": username,
		"role":     role,
		"iat":      now.Unix(),
		"exp":      now.Add(i.ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return signed, nil
}

// Verify validates signature, issuer, and expiry. Every failure collapses
// into the same client-facing 401; the parser detail goes to the server log
// only.
func (i *Issuer) Verify(tokenString string) (*model.AuthClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
	)

	parsed, err := parser.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		slog.Debug("access token rejected", "error", err)
		return nil, verificationFailed()
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, verificationFailed()
	}

	username, _ := claimsMap["username"].(string)
	if username == "" {
		return nil, verificationFailed()
	}

	role, _ := claimsMap["role"].(string)

	return &model.AuthClaims{Username: username, Role: role}, nil
}

func verificationFailed() *apierror.APIError {
	return apierror.New("UNAUTHORIZED", "Token verification failed", "", http.StatusUnauthorized)
}

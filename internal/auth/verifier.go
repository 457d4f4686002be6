// Package auth verifies bearer tokens for advice persistence. Identity
// is an external concern; this exposes the single capability the system
// needs: token in, user id or nothing out.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Verifier validates HMAC-signed JWTs and extracts the subject claim.
type Verifier struct {
	secret []byte
}

// NewVerifier returns nil when no secret is configured; a nil Verifier
// verifies nothing and callers skip persistence.
func NewVerifier(secret string) *Verifier {
	if secret == "" {
		return nil
	}
	return &Verifier{secret: []byte(secret)}
}

// VerifyToken returns the user id carried by a valid token.
func (v *Verifier) VerifyToken(tokenString string) (string, error) {
	if v == nil {
		return "", ErrInvalidToken
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signing method")
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

// UserIDFromRequest resolves the authenticated user for a request, or ""
// when no valid bearer token was supplied. Absence of a token is not an
// error; it just means nothing gets persisted.
func (v *Verifier) UserIDFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" || v == nil {
		return ""
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")
	userID, err := v.VerifyToken(tokenString)
	if err != nil {
		return ""
	}
	return userID
}

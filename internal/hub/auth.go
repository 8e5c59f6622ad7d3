package hub

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// claims is the minimal token shape the Hub requires (§4.7 step 1): a tenant claim that must
// match the path, plus a subject identifying the connecting user.
type claims struct {
	jwt.RegisteredClaims
	TenantID string `json:"tenant_id"`
}

// authenticate parses and validates tokenString against secret, and rejects it outright if
// its tenant claim does not match pathTenantID — §4.7 step 1: "reject ... if the token is
// missing, malformed, or its tenant claim mismatches the path."
func authenticate(tokenString, pathTenantID, secret string) (userID, tenantID string, err error) {
	if tokenString == "" {
		return "", "", errors.New("missing token")
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return "", "", fmt.Errorf("malformed or invalid token: %w", err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || c.TenantID == "" || c.Subject == "" {
		return "", "", errors.New("token missing required claims")
	}
	if c.TenantID != pathTenantID {
		return "", "", fmt.Errorf("token tenant %q does not match path tenant %q", c.TenantID, pathTenantID)
	}
	return c.Subject, c.TenantID, nil
}

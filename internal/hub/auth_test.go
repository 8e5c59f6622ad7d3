package hub

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "hub-test-secret"

func signToken(t *testing.T, tenantID, subject string, expiredAgo time.Duration) string {
	t.Helper()
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour - expiredAgo)),
		},
		TenantID: tenantID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAuthenticateAcceptsMatchingTenant(t *testing.T) {
	token := signToken(t, "tenant-a", "user-1", 0)
	userID, tenantID, err := authenticate(token, "tenant-a", testSecret)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if userID != "user-1" || tenantID != "tenant-a" {
		t.Fatalf("got user=%q tenant=%q", userID, tenantID)
	}
}

func TestAuthenticateRejectsTenantMismatch(t *testing.T) {
	token := signToken(t, "tenant-a", "user-1", 0)
	if _, _, err := authenticate(token, "tenant-b", testSecret); err == nil {
		t.Fatal("expected error when path tenant differs from token tenant")
	}
}

func TestAuthenticateRejectsEmptyToken(t *testing.T) {
	if _, _, err := authenticate("", "tenant-a", testSecret); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestAuthenticateRejectsMalformedToken(t *testing.T) {
	if _, _, err := authenticate("not-a-jwt", "tenant-a", testSecret); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestAuthenticateRejectsWrongSecret(t *testing.T) {
	token := signToken(t, "tenant-a", "user-1", 0)
	if _, _, err := authenticate(token, "tenant-a", "a-completely-different-secret"); err == nil {
		t.Fatal("expected error when signature verification fails")
	}
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	token := signToken(t, "tenant-a", "user-1", 2*time.Hour)
	if _, _, err := authenticate(token, "tenant-a", testSecret); err == nil {
		t.Fatal("expected error for expired token")
	}
}

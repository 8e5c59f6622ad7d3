package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
)

const testJWTSecret = "api-test-secret"

func signTestToken(t *testing.T, tenantID, subject string) string {
	t.Helper()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		TenantID: tenantID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newTestApp() *fiber.App {
	app := fiber.New()
	g := app.Group("/")
	g.Use(TenantAuth(testJWTSecret))
	g.Get("/whoami", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"tenant_id": tenantID(c), "user_id": userID(c)})
	})
	g.Get("/tenants/:tenant/ping", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func TestTenantAuthRejectsMissingHeader(t *testing.T) {
	app := newTestApp()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", resp.StatusCode)
	}
}

func TestTenantAuthRejectsMalformedHeader(t *testing.T) {
	app := newTestApp()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "not-a-bearer-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", resp.StatusCode)
	}
}

func TestTenantAuthAcceptsValidToken(t *testing.T) {
	app := newTestApp()
	token := signTestToken(t, "tenant-1", "user-1")

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got status %d, want 200", resp.StatusCode)
	}
}

func TestTenantAuthRejectsPathTenantMismatch(t *testing.T) {
	app := newTestApp()
	token := signTestToken(t, "tenant-1", "user-1")

	req := httptest.NewRequest(http.MethodGet, "/tenants/tenant-2/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("got status %d, want 403", resp.StatusCode)
	}
}

func TestTenantAuthAllowsMatchingPathTenant(t *testing.T) {
	app := newTestApp()
	token := signTestToken(t, "tenant-1", "user-1")

	req := httptest.NewRequest(http.MethodGet, "/tenants/tenant-1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got status %d, want 200", resp.StatusCode)
	}
}

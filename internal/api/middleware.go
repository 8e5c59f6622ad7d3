package api

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Wadijet/notifyhub/core/common"
)

// claims mirrors internal/hub/auth.go's token shape: every admin REST caller and every
// WebSocket connection authenticate against the same JWT issuer.
type claims struct {
	jwt.RegisteredClaims
	TenantID string `json:"tenant_id"`
}

// TenantAuth validates the Authorization: Bearer <jwt> header and stores the authenticated
// user/tenant in Locals. Routes that carry a :tenant path param additionally reject a
// mismatch between the claim and the path, the same rule the WebSocket Hub enforces.
func TenantAuth(secret string) fiber.Handler {
	return func(c fiber.Ctx) error {
		header := c.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return respondError(c, common.ErrTokenMissing)
		}

		var claims claims
		token, err := jwt.ParseWithClaims(parts[1], &claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" || claims.TenantID == "" {
			return respondError(c, common.ErrTokenInvalid)
		}

		if pathTenant := c.Params("tenant"); pathTenant != "" && pathTenant != claims.TenantID {
			return respondError(c, common.NewError(common.ErrCodeAuthRole, "token tenant does not match path", common.StatusForbidden, nil))
		}

		c.Locals("user_id", claims.Subject)
		c.Locals("tenant_id", claims.TenantID)
		return c.Next()
	}
}

func tenantID(c fiber.Ctx) string {
	id, _ := c.Locals("tenant_id").(string)
	return id
}

func userID(c fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

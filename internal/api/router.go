package api

import (
	"github.com/gofiber/fiber/v3"
)

// Handlers bundles every admin REST handler SetupRoutes wires onto the Fiber app.
type Handlers struct {
	Credentials *CredentialHandler
	Templates   *TemplateHandler
	Records     *RecordHandler
	Devices     *DeviceHandler
	Chat        *ChatHandler
}

// SetupRoutes registers the administrative REST surface (§6) on app, grouping every route
// behind TenantAuth the way the teacher's router attaches middleware via Group(prefix).Use(...)
// rather than passing it straight to Get/Post (a documented Fiber v3 footgun where the latter
// silently never invokes it).
func SetupRoutes(app *fiber.App, h *Handlers, jwtSecret string) {
	admin := app.Group("/")
	admin.Use(TenantAuth(jwtSecret))

	admin.Get("/credentials", h.Credentials.List)
	admin.Post("/credentials", h.Credentials.Create)
	admin.Put("/credentials/:id", h.Credentials.Update)

	admin.Get("/templates", h.Templates.List)
	admin.Post("/templates", h.Templates.Create)
	admin.Put("/templates/:id", h.Templates.Update)
	admin.Delete("/templates/:id", h.Templates.Delete)

	admin.Post("/records", h.Records.Create)

	admin.Post("/devices", h.Devices.Register)

	admin.Post("/conversations", h.Chat.CreateConversation)
	admin.Get("/conversations", h.Chat.ListConversations)
	admin.Get("/conversations/:id/messages", h.Chat.ListMessages)
	admin.Post("/conversations/:id/participants", h.Chat.AddParticipant)
	admin.Delete("/conversations/:id/participants/:user", h.Chat.RemoveParticipant)
}

// Package notification implements the Event Handler Registry (§4.2): one handler per
// event type, each declaring which channels it fans out to, how to build the render
// context from the raw payload, and how to pick a recipient address per channel.
package notification

import (
	"fmt"

	"github.com/Wadijet/notifyhub/core/registry"
	"github.com/Wadijet/notifyhub/internal/model"
)

// Handler is pure with respect to its input event plus tenant branding (§4.2); all
// side effects (template lookup, rendering, persistence) live outside it.
type Handler interface {
	EventType() string
	ChannelsFor(eventType string) []model.Channel
	BuildContext(channel model.Channel, payload map[string]interface{}, branding model.TenantBranding) map[string]interface{}
	Recipient(channel model.Channel, payload map[string]interface{}) (string, error)
}

// Registry maps event_type to its handler by exact match (§4.1 step 2).
type Registry struct {
	byEventType *registry.Registry[Handler]
}

func NewRegistry() *Registry {
	return &Registry{byEventType: registry.NewRegistry[Handler]()}
}

func (r *Registry) Register(h Handler) {
	r.byEventType.Register(h.EventType(), h)
}

func (r *Registry) Lookup(eventType string) (Handler, bool) {
	return r.byEventType.Get(eventType)
}

// payloadString reads a string field from the event payload, erroring if absent or blank —
// used by Recipient implementations to fail fast on a malformed event (§7 CONTENT_ERROR).
func payloadString(payload map[string]interface{}, key string) (string, error) {
	v, ok := payload[key]
	if !ok {
		return "", fmt.Errorf("payload missing field %q", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("payload field %q is not a non-empty string", key)
	}
	return s, nil
}

// mergeContext copies the payload into a fresh context map and layers branding fields on
// top under the names the email branding shell expects (§4.3).
func mergeContext(payload map[string]interface{}, branding model.TenantBranding) map[string]interface{} {
	ctx := make(map[string]interface{}, len(payload)+6)
	for k, v := range payload {
		ctx[k] = v
	}
	ctx["tenant_name"] = branding.Name
	ctx["logo_url"] = branding.LogoURL
	ctx["primary_color"] = branding.PrimaryColor
	ctx["secondary_color"] = branding.SecondaryColor
	return ctx
}

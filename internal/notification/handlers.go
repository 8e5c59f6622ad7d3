package notification

import "github.com/Wadijet/notifyhub/internal/model"

// StaticHandler implements Handler from a declarative channel table (§4.2: "channel
// selection per event type is a static table"), avoiding one bespoke struct per event type.
type StaticHandler struct {
	eventType     string
	channels      []model.Channel
	recipientKeys map[model.Channel]string
}

func (h *StaticHandler) EventType() string { return h.eventType }

func (h *StaticHandler) ChannelsFor(eventType string) []model.Channel { return h.channels }

func (h *StaticHandler) BuildContext(channel model.Channel, payload map[string]interface{}, branding model.TenantBranding) map[string]interface{} {
	return mergeContext(payload, branding)
}

func (h *StaticHandler) Recipient(channel model.Channel, payload map[string]interface{}) (string, error) {
	key, ok := h.recipientKeys[channel]
	if !ok {
		return "", nil
	}
	return payloadString(payload, key)
}

// BuildDefaultRegistry registers the representative event classes enumerated in §4.2:
// authentication, security, application, and document-lifecycle events.
func BuildDefaultRegistry() *Registry {
	reg := NewRegistry()
	for _, h := range defaultHandlers() {
		reg.Register(h)
	}
	return reg
}

func defaultHandlers() []Handler {
	return []Handler{
		// Authentication
		staticHandler("user.registration.completed", recipients{model.ChannelEmail: "email"}),
		staticHandler("user.password.reset.requested", recipients{model.ChannelEmail: "email"}),
		staticHandler("user.login.succeeded", recipients{model.ChannelInApp: "user_id"}),
		staticHandler("user.login.failed", recipients{model.ChannelEmail: "email", model.ChannelSMS: "phone"}),

		// Security
		staticHandler("auth.2fa.code.requested", recipients{model.ChannelSMS: "phone"}),
		staticHandler("auth.2fa.attempt.failed", recipients{model.ChannelEmail: "email"}),
		staticHandler("auth.2fa.method.changed", recipients{model.ChannelEmail: "email"}),

		// Application
		staticHandler("invoice.payment.failed", recipients{model.ChannelEmail: "email"}),
		staticHandler("task.assigned", recipients{model.ChannelInApp: "user_id"}),
		staticHandler("comment.mentioned", recipients{model.ChannelInApp: "user_id"}),
		staticHandler("content.liked", recipients{model.ChannelInApp: "user_id"}),

		// Document lifecycle
		staticHandler("user.document.expiry.warning", recipients{model.ChannelEmail: "email"}),
		staticHandler("user.document.expired", recipients{model.ChannelEmail: "email"}),
	}
}

type recipients map[model.Channel]string

func staticHandler(eventType string, rec recipients) *StaticHandler {
	channels := make([]model.Channel, 0, len(rec))
	for ch := range rec {
		channels = append(channels, ch)
	}
	return &StaticHandler{eventType: eventType, channels: channels, recipientKeys: rec}
}

package notification

import (
	"testing"

	"github.com/Wadijet/notifyhub/internal/model"
)

func TestBuildDefaultRegistryLookup(t *testing.T) {
	reg := BuildDefaultRegistry()

	h, ok := reg.Lookup("user.login.failed")
	if !ok {
		t.Fatal("expected user.login.failed to be registered")
	}
	if h.EventType() != "user.login.failed" {
		t.Fatalf("got event type %q", h.EventType())
	}

	channels := h.ChannelsFor("user.login.failed")
	want := map[model.Channel]bool{model.ChannelEmail: true, model.ChannelSMS: true}
	if len(channels) != len(want) {
		t.Fatalf("got %d channels, want %d", len(channels), len(want))
	}
	for _, c := range channels {
		if !want[c] {
			t.Errorf("unexpected channel %q", c)
		}
	}
}

func TestLookupUnknownEventType(t *testing.T) {
	reg := BuildDefaultRegistry()
	if _, ok := reg.Lookup("not.a.registered.event"); ok {
		t.Fatal("expected unregistered event type to miss")
	}
}

func TestStaticHandlerRecipientUsesPayloadField(t *testing.T) {
	h := staticHandler("x.y", recipients{model.ChannelEmail: "email"})
	recipient, err := h.Recipient(model.ChannelEmail, map[string]interface{}{"email": "a@b.com"})
	if err != nil {
		t.Fatalf("Recipient: %v", err)
	}
	if recipient != "a@b.com" {
		t.Fatalf("got %q", recipient)
	}
}

func TestStaticHandlerRecipientMissingFieldErrors(t *testing.T) {
	h := staticHandler("x.y", recipients{model.ChannelEmail: "email"})
	if _, err := h.Recipient(model.ChannelEmail, map[string]interface{}{}); err == nil {
		t.Fatal("expected error for missing payload field")
	}
}

func TestStaticHandlerRecipientUnmappedChannelReturnsEmpty(t *testing.T) {
	h := staticHandler("x.y", recipients{model.ChannelEmail: "email"})
	recipient, err := h.Recipient(model.ChannelSMS, map[string]interface{}{})
	if err != nil {
		t.Fatalf("Recipient: %v", err)
	}
	if recipient != "" {
		t.Fatalf("got %q, want empty string for unmapped channel", recipient)
	}
}

func TestStaticHandlerBuildContextMergesBranding(t *testing.T) {
	h := staticHandler("x.y", recipients{model.ChannelEmail: "email"})
	branding := model.TenantBranding{Name: "Acme", LogoURL: "https://logo", PrimaryColor: "#111", SecondaryColor: "#222"}
	ctx := h.BuildContext(model.ChannelEmail, map[string]interface{}{"foo": "bar"}, branding)

	if ctx["foo"] != "bar" {
		t.Errorf("expected original payload field preserved, got %v", ctx["foo"])
	}
	if ctx["tenant_name"] != "Acme" {
		t.Errorf("expected tenant_name from branding, got %v", ctx["tenant_name"])
	}
	if ctx["primary_color"] != "#111" {
		t.Errorf("expected primary_color from branding, got %v", ctx["primary_color"])
	}
}

package render

import (
	"strings"
	"testing"

	"github.com/Wadijet/notifyhub/internal/model"
)

func TestSubstituteBothMarkerStyles(t *testing.T) {
	ctx := map[string]interface{}{"name": "Alice", "count": 3}
	got := Substitute("Hi {name}, you have {{count}} items", ctx)
	want := "Hi Alice, you have 3 items"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSubstituteMissingKeyLeavesMarkerUntouched(t *testing.T) {
	got := Substitute("Hello {missing}", map[string]interface{}{})
	if got != "Hello {missing}" {
		t.Fatalf("got %q, want marker preserved untouched", got)
	}
}

func TestSubstituteFormatsISOTimestamps(t *testing.T) {
	ctx := map[string]interface{}{"when": "2026-01-15T10:30:00Z"}
	got := Substitute("At {when}", ctx)
	if strings.Contains(got, "2026-01-15T10:30:00Z") {
		t.Fatalf("expected timestamp to be reformatted, got %q", got)
	}
	if !strings.Contains(got, "2026") {
		t.Fatalf("expected reformatted timestamp to retain the year, got %q", got)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	tmpl := model.Template{
		Subject: "Welcome {name}",
		Body:    "Hi {name}, your code is {{code}}",
		Data:    map[string]string{"sms_text": "Code: {code}"},
	}
	ctx := map[string]interface{}{"name": "Bob", "code": "4821"}

	first := Render(tmpl, ctx)
	second := Render(tmpl, ctx)

	if first.Subject != second.Subject || first.Body != second.Body {
		t.Fatal("expected identical output across repeated renders of the same input")
	}
	if first.Subject != "Welcome Bob" {
		t.Fatalf("got subject %q", first.Subject)
	}
	if first.Data["sms_text"] != "Code: 4821" {
		t.Fatalf("got data field %q", first.Data["sms_text"])
	}
}

func TestRenderWithNoDataLeavesDataNil(t *testing.T) {
	tmpl := model.Template{Subject: "s", Body: "b"}
	out := Render(tmpl, map[string]interface{}{})
	if out.Data != nil {
		t.Fatalf("expected nil Data when template declares none, got %v", out.Data)
	}
}

func TestWrapEmailBrandingUsesProvidedBranding(t *testing.T) {
	branding := model.TenantBranding{TenantID: "t1", Name: "Acme", LogoURL: "https://logo.png", PrimaryColor: "#111111", SecondaryColor: "#eeeeee"}
	out := WrapEmailBranding("line one\nline two", branding)

	if !strings.Contains(out, "Acme") {
		t.Error("expected branding name in output")
	}
	if !strings.Contains(out, "#111111") {
		t.Error("expected primary color in output")
	}
	if !strings.Contains(out, "line one<br/>line two") {
		t.Error("expected newlines converted to <br/>")
	}
}

func TestWrapEmailBrandingFallsBackToDefaults(t *testing.T) {
	branding := model.TenantBranding{TenantID: "tenant-without-branding"}
	out := WrapEmailBranding("body", branding)

	defaults := model.DefaultBranding(branding.TenantID)
	if !strings.Contains(out, defaults.Name) {
		t.Errorf("expected default branding name %q in output", defaults.Name)
	}
	if !strings.Contains(out, defaults.PrimaryColor) {
		t.Errorf("expected default primary color %q in output", defaults.PrimaryColor)
	}
}

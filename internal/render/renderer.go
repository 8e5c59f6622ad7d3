// Package render implements the Template Store and Renderer (§4.3).
package render

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Wadijet/notifyhub/internal/model"
)

// placeholderPattern matches both {name} and {{name}} markers in a single scan, per §4.3.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.]+)\s*\}\}|\{\s*([a-zA-Z0-9_.]+)\s*\}`)

var isoTimestamp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)

// Substitute replaces every {name} and {{name}} occurrence in s with ctx[name], formatted as a
// human-readable local time when the value looks like an ISO-8601 timestamp. A missing key
// leaves the original marker untouched (§4.3, §8 invariant: no partial/empty substitution).
func Substitute(s string, ctx map[string]interface{}) string {
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)
		key := name[1]
		if key == "" {
			key = name[2]
		}
		value, ok := ctx[key]
		if !ok {
			return match
		}
		return formatValue(value)
	})
}

func formatValue(value interface{}) string {
	if s, ok := value.(string); ok && isoTimestamp.MatchString(s) {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.Local().Format("Jan 2, 2006 3:04 PM")
		}
	}
	return fmt.Sprintf("%v", value)
}

// Render produces a concrete {subject, body, data} triple for a template and context (§4.3).
// Rendering the same template with the same context twice yields byte-identical output
// (§8 law: renderer idempotence) because Substitute is a pure function of its two inputs.
func Render(tmpl model.Template, ctx map[string]interface{}) model.RenderedContent {
	out := model.RenderedContent{
		Subject: Substitute(tmpl.Subject, ctx),
		Body:    Substitute(tmpl.Body, ctx),
	}
	if len(tmpl.Data) > 0 {
		out.Data = make(map[string]string, len(tmpl.Data))
		for k, v := range tmpl.Data {
			out.Data[k] = Substitute(v, ctx)
		}
	}
	return out
}

// emailShell wraps a rendered body in a tenant-branded HTML shell for the email channel (§4.3).
const emailShell = `<!DOCTYPE html>
<html>
<body style="background:%s;font-family:sans-serif;">
  <div style="max-width:600px;margin:0 auto;padding:24px;">
    <img src="%s" alt="%s" style="max-height:48px;margin-bottom:16px;" />
    <div style="background:#fff;border-top:4px solid %s;padding:24px;border-radius:4px;">
      %s
    </div>
    <p style="color:#888;font-size:12px;margin-top:16px;">%s</p>
  </div>
</body>
</html>`

// WrapEmailBranding embeds body in a branded HTML shell, falling back to tenant-id-prefixed
// defaults when branding is missing (§4.3).
func WrapEmailBranding(body string, branding model.TenantBranding) string {
	name := branding.Name
	if name == "" {
		name = model.DefaultBranding(branding.TenantID).Name
	}
	primary := branding.PrimaryColor
	if primary == "" {
		primary = model.DefaultBranding(branding.TenantID).PrimaryColor
	}
	secondary := branding.SecondaryColor
	if secondary == "" {
		secondary = model.DefaultBranding(branding.TenantID).SecondaryColor
	}
	bodyHTML := strings.ReplaceAll(body, "\n", "<br/>")
	return fmt.Sprintf(emailShell, secondary, branding.LogoURL, name, primary, bodyHTML, name)
}

package notification

import "strings"

// DomainFromEventType infers a coarse domain from an event_type dotted path (§4.2).
// Kept from the teacher's pattern-matching classifier, generalized from its e-commerce
// domains (order/conversation/payment) to this service's four representative event classes.
func DomainFromEventType(eventType string) string {
	switch {
	case strings.HasPrefix(eventType, "auth.2fa") || strings.HasPrefix(eventType, "security."):
		return DomainSecurity
	case strings.HasPrefix(eventType, "user.") || strings.HasPrefix(eventType, "auth."):
		return DomainAuthentication
	case strings.HasPrefix(eventType, "document."):
		return DomainDocument
	default:
		return DomainApplication
	}
}

// SeverityFromEventType infers severity from suffix keywords, used to enrich log entries
// and to pick a retry-count refinement in rules.go.
func SeverityFromEventType(eventType string) string {
	switch {
	case strings.Contains(eventType, ".failed") || strings.Contains(eventType, ".expired"):
		return SeverityHigh
	case strings.Contains(eventType, ".warning") || strings.Contains(eventType, ".requested"):
		return SeverityMedium
	case strings.Contains(eventType, ".completed") || strings.Contains(eventType, ".succeeded") || strings.Contains(eventType, ".changed"):
		return SeverityInfo
	default:
		return SeverityMedium
	}
}

package notification

// Domain constants classify an event_type's dotted prefix into the representative
// classes enumerated in §4.2: authentication, security, application, document lifecycle.
const (
	DomainAuthentication = "authentication"
	DomainSecurity       = "security"
	DomainApplication    = "application"
	DomainDocument       = "document"
)

// Severity constants drive structured-log level and the retry-count refinement in rules.go.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
	SeverityInfo     = "info"
)

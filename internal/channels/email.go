package channels

import (
	"context"
	"strconv"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/Wadijet/notifyhub/internal/model"
)

// EmailSender opens an SMTP connection per tenant credential and sends a branded HTML message.
// Grounded on the teacher's gomail-based SendEmail, generalized from a single hardcoded sender
// config to tenant-credential-driven dialing, and from CTA-button HTML to a plaintext fallback.
type EmailSender struct{}

func NewEmailSender() *EmailSender { return &EmailSender{} }

func (s *EmailSender) Send(ctx context.Context, cred *model.Credential, content model.RenderedContent, recipient string) Outcome {
	host := cred.Secrets["smtp_host"]
	port, _ := strconv.Atoi(cred.Secrets["smtp_port"])
	user := cred.Secrets["smtp_user"]
	pass := cred.Secrets["smtp_pass"]
	from := cred.Secrets["smtp_from"]
	if host == "" || from == "" {
		return Failure(model.FailureAuth, "missing SMTP credentials")
	}
	if port == 0 {
		port = 587
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", content.Subject)
	msg.SetBody("text/html", content.Body)
	msg.AddAlternative("text/plain", stripHTML(content.Body))

	dialer := gomail.NewDialer(host, port, user, pass)
	dialer.SSL = cred.Secrets["smtp_ssl"] == "true"

	if err := dialer.DialAndSend(msg); err != nil {
		return classifySMTPError(err)
	}
	return Success("accepted")
}

func classifySMTPError(err error) Outcome {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "535") || strings.Contains(msg, "authentication"):
		return Failure(model.FailureAuth, msg)
	case strings.Contains(msg, "550") || strings.Contains(msg, "no such user"):
		return Failure(model.FailureContent, msg)
	case strings.Contains(msg, "dial") || strings.Contains(msg, "timeout") || strings.Contains(msg, "connection"):
		return Failure(model.FailureNetwork, msg)
	case strings.HasPrefix(strings.TrimSpace(msg), "5"):
		return Failure(model.FailureProvider, msg)
	default:
		return Failure(model.FailureProvider, msg)
	}
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

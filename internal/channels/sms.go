package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/Wadijet/notifyhub/internal/model"
)

var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

// SMSSender delegates to a provider REST API with account_sid/auth_token/from_number (§4.6).
// No SMS provider SDK appears anywhere in the retrieved example pack, so this follows the
// teacher's own webhook.go idiom: a plain stdlib net/http POST with a JSON body and a timeout.
type SMSSender struct {
	client *http.Client
}

func NewSMSSender() *SMSSender {
	return &SMSSender{client: &http.Client{Timeout: 30 * time.Second}}
}

func (s *SMSSender) Send(ctx context.Context, cred *model.Credential, content model.RenderedContent, recipient string) Outcome {
	if !e164Pattern.MatchString(recipient) {
		return Failure(model.FailureContent, fmt.Sprintf("recipient %q is not E.164", recipient))
	}

	apiURL := cred.Secrets["api_url"]
	accountSID := cred.Secrets["account_sid"]
	authToken := cred.Secrets["auth_token"]
	from := cred.Secrets["from_number"]
	if apiURL == "" || accountSID == "" || authToken == "" {
		return Failure(model.FailureAuth, "missing SMS provider credentials")
	}

	body, err := json.Marshal(map[string]string{
		"to":   recipient,
		"from": from,
		"body": content.Body,
	})
	if err != nil {
		return Failure(model.FailureInternal, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return Failure(model.FailureInternal, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(accountSID, authToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return Failure(model.FailureNetwork, err.Error())
	}
	defer resp.Body.Close()

	respBody := make([]byte, 512)
	n, _ := resp.Body.Read(respBody)
	snippet := string(respBody[:n])

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return Success(snippet)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Failure(model.FailureAuth, snippet)
	case resp.StatusCode == http.StatusBadRequest:
		return Failure(model.FailureContent, snippet)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return Failure(model.FailureProvider, snippet)
	default:
		return Failure(model.FailureProvider, snippet)
	}
}

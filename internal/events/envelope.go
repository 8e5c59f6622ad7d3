// Package events decodes and validates the event-log envelope (§3, §4.1 step 1).
package events

import (
	"encoding/json"
	"fmt"

	"github.com/Wadijet/notifyhub/internal/model"
)

// Decode parses a raw event-log message body into an Event and validates it.
// A decode or validation failure is non-retriable (§4.1): the envelope is malformed,
// redelivery will not fix it.
func Decode(body []byte) (model.Event, error) {
	var ev model.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("malformed envelope: %w", err)
	}
	if !ev.Valid() {
		return ev, fmt.Errorf("envelope missing required field (event_type/tenant_id/timestamp)")
	}
	return ev, nil
}

package consumer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Wadijet/notifyhub/core/common"
	"github.com/Wadijet/notifyhub/internal/cache"
	"github.com/Wadijet/notifyhub/internal/delivery"
	"github.com/Wadijet/notifyhub/internal/model"
	"github.com/Wadijet/notifyhub/internal/notification"
	"github.com/Wadijet/notifyhub/internal/render"
)

// Dispatcher turns one validated Event into zero or more enqueued DeliveryRecords
// (§4.1 control flow, §4.2, §4.3). It is the glue between the Event Handler Registry,
// the Template Store/Renderer, the Credential & Branding Cache, and the Delivery Queue.
type Dispatcher struct {
	handlers  *notification.Registry
	templates *render.Store
	creds     *cache.Cache
	queue     *delivery.Queue
}

func NewDispatcher(handlers *notification.Registry, templates *render.Store, creds *cache.Cache, queue *delivery.Queue) *Dispatcher {
	return &Dispatcher{handlers: handlers, templates: templates, creds: creds, queue: queue}
}

// ErrNoHandler signals that no handler is registered for the event's type: per §4.1 step 2
// this commits the offset without creating a DeliveryRecord, not a dead-letter.
var ErrNoHandler = errors.New("no handler registered for event type")

// Dispatch processes one event to completion. The returned error's retriability follows
// §4.1 step 3: a handler-level error (template lookup, persistence) is retriable unless
// wrapped in common.ErrNonRetriable.
func (d *Dispatcher) Dispatch(ctx context.Context, ev model.Event) error {
	handler, ok := d.handlers.Lookup(ev.EventType)
	if !ok {
		return ErrNoHandler
	}

	branding, _ := d.creds.Branding(ctx, ev.TenantID)
	severity := notification.SeverityFromEventType(ev.EventType)
	eventID, _ := ev.EventID()

	channels := handler.ChannelsFor(ev.EventType)
	var enqueued int
	var lastErr error

	for _, channel := range channels {
		recipient, err := handler.Recipient(channel, ev.Payload)
		if err != nil {
			lastErr = fmt.Errorf("%w: %s: %v", common.ErrNonRetriable, channel, err)
			continue
		}

		tmpl, err := d.templates.FindTemplate(ctx, ev.TenantID, ev.EventType, channel)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				lastErr = fmt.Errorf("%w: no template for %s/%s", common.ErrNonRetriable, ev.EventType, channel)
				continue
			}
			lastErr = err
			continue
		}

		renderCtx := handler.BuildContext(channel, ev.Payload, branding)
		rendered := render.Render(*tmpl, renderCtx)
		if channel == model.ChannelEmail {
			rendered.Body = render.WrapEmailBranding(rendered.Body, branding)
		}

		rec := model.DeliveryRecord{
			TenantID:   ev.TenantID,
			EventID:    eventID,
			Channel:    channel,
			Recipient:  recipient,
			Content:    rendered,
			Context:    renderCtx,
			MaxRetries: notification.MaxRetriesForSeverity(severity),
		}
		if _, err := d.queue.Enqueue(ctx, rec); err != nil {
			lastErr = err
			continue
		}
		enqueued++
	}

	if enqueued > 0 {
		return nil
	}
	if lastErr != nil {
		return lastErr
	}
	return fmt.Errorf("%w: handler declared no channels for %s", common.ErrNonRetriable, ev.EventType)
}

package api

import (
	"github.com/gofiber/fiber/v3"
	"github.com/go-playground/validator/v10"

	"github.com/Wadijet/notifyhub/core/common"
	"github.com/Wadijet/notifyhub/internal/audit"
	"github.com/Wadijet/notifyhub/internal/cache"
	"github.com/Wadijet/notifyhub/internal/delivery"
	"github.com/Wadijet/notifyhub/internal/model"
	"github.com/Wadijet/notifyhub/internal/notification"
	"github.com/Wadijet/notifyhub/internal/render"
)

// RecordHandler implements POST /records (§6): a direct send that bypasses event intake but
// still flows through the Renderer and Delivery Queue exactly like a dispatched event would,
// so retries, state transitions and history look identical either way.
type RecordHandler struct {
	templates *render.Store
	creds     *cache.Cache
	queue     *delivery.Queue
	audit     *audit.Recorder
	v         *validator.Validate
}

func NewRecordHandler(templates *render.Store, creds *cache.Cache, queue *delivery.Queue, a *audit.Recorder, v *validator.Validate) *RecordHandler {
	return &RecordHandler{templates: templates, creds: creds, queue: queue, audit: a, v: v}
}

type recordCreateRequest struct {
	Channel      model.Channel          `json:"channel" validate:"required"`
	Recipient    string                 `json:"recipient" validate:"required"`
	TemplateName string                 `json:"template_name" validate:"required"`
	EventType    string                 `json:"event_type,omitempty"`
	Context      map[string]interface{} `json:"context,omitempty"`
}

func (h *RecordHandler) Create(c fiber.Ctx) error {
	var req recordCreateRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	if err := h.v.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	tenant := tenantID(c)
	tmpl, err := h.templates.FindTemplate(c.Context(), tenant, req.TemplateName, req.Channel)
	if err != nil {
		return respondError(c, err)
	}

	branding, _ := h.creds.Branding(c.Context(), tenant)
	renderCtx := req.Context
	if renderCtx == nil {
		renderCtx = map[string]interface{}{}
	}
	rendered := render.Render(*tmpl, renderCtx)
	if req.Channel == model.ChannelEmail {
		rendered.Body = render.WrapEmailBranding(rendered.Body, branding)
	}

	severity := notification.SeverityFromEventType(req.EventType)
	rec := model.DeliveryRecord{
		TenantID:   tenant,
		Channel:    req.Channel,
		Recipient:  req.Recipient,
		Content:    rendered,
		Context:    renderCtx,
		MaxRetries: notification.MaxRetriesForSeverity(severity),
	}
	saved, err := h.queue.Enqueue(c.Context(), rec)
	if err != nil {
		return respondError(c, err)
	}
	h.audit.Record(c.Context(), tenant, userID(c), "record.send", saved.ID.Hex(), map[string]interface{}{
		"channel": string(req.Channel), "template": req.TemplateName,
	})
	return respondSuccess(c, common.StatusAccepted, saved)
}

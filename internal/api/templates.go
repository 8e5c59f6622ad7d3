package api

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Wadijet/notifyhub/core/common"
	"github.com/Wadijet/notifyhub/core/service"
	"github.com/Wadijet/notifyhub/internal/audit"
	"github.com/Wadijet/notifyhub/internal/model"
)

// TemplateHandler implements the template CRUD surface (§6, §4.3).
type TemplateHandler struct {
	svc   *service.BaseServiceMongoImpl[model.Template]
	audit *audit.Recorder
	v     *validator.Validate
}

func NewTemplateHandler(svc *service.BaseServiceMongoImpl[model.Template], a *audit.Recorder, v *validator.Validate) *TemplateHandler {
	return &TemplateHandler{svc: svc, audit: a, v: v}
}

func (h *TemplateHandler) List(c fiber.Ctx) error {
	filter := bson.M{"tenant_id": tenantID(c), "deleted_at": bson.M{"$exists": false}}
	if channel := c.Query("channel"); channel != "" {
		filter["channel"] = model.Channel(channel)
	}
	if name := c.Query("name"); name != "" {
		filter["name"] = name
	}
	tmpls, err := h.svc.Find(c.Context(), filter, nil)
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, common.StatusOK, tmpls)
}

type templateCreateRequest struct {
	Name         string            `json:"name" validate:"required"`
	Channel      model.Channel     `json:"channel" validate:"required"`
	Subject      string            `json:"subject"`
	Body         string            `json:"body" validate:"required"`
	Data         map[string]string `json:"data"`
	Placeholders []string          `json:"placeholders"`
}

func (h *TemplateHandler) Create(c fiber.Ctx) error {
	var req templateCreateRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	if err := h.v.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	now := time.Now()
	created, err := h.svc.InsertOne(c.Context(), model.Template{
		TenantID:     tenantID(c),
		Name:         req.Name,
		Channel:      req.Channel,
		Subject:      req.Subject,
		Body:         req.Body,
		Data:         req.Data,
		Placeholders: req.Placeholders,
		Version:      1,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return respondError(c, err)
	}
	h.audit.Record(c.Context(), tenantID(c), userID(c), "template.create", created.ID.Hex(), nil)
	return respondSuccess(c, common.StatusCreated, created)
}

type templateUpdateRequest struct {
	Subject      *string           `json:"subject,omitempty"`
	Body         *string           `json:"body,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
	Placeholders []string          `json:"placeholders,omitempty"`
	Active       *bool             `json:"active,omitempty"`
}

// Update bumps the template's version on any content change, keeping history implicit in
// the monotonically increasing version field rather than a separate revision table.
func (h *TemplateHandler) Update(c fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid template id")
	}
	var req templateUpdateRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "malformed JSON body")
	}

	tenant := tenantID(c)
	existing, err := h.svc.FindOne(c.Context(), bson.M{"_id": id, "tenant_id": tenant}, nil)
	if err != nil {
		return respondError(c, err)
	}

	set := bson.M{"updated_at": time.Now()}
	contentChanged := false
	if req.Subject != nil {
		set["subject"] = *req.Subject
		contentChanged = true
	}
	if req.Body != nil {
		set["body"] = *req.Body
		contentChanged = true
	}
	if req.Data != nil {
		set["data"] = req.Data
		contentChanged = true
	}
	if req.Placeholders != nil {
		set["placeholders"] = req.Placeholders
		contentChanged = true
	}
	if req.Active != nil {
		set["active"] = *req.Active
	}
	if contentChanged {
		set["version"] = existing.Version + 1
	}

	updated, err := h.svc.UpdateOne(c.Context(), bson.M{"_id": id, "tenant_id": tenant}, bson.M{"$set": set}, nil)
	if err != nil {
		return respondError(c, err)
	}
	h.audit.Record(c.Context(), tenant, userID(c), "template.update", id.Hex(), nil)
	return respondSuccess(c, common.StatusOK, updated)
}

// Delete soft-deletes a template: it stops resolving for new sends but stays in place for
// audit/history purposes, consistent with every other entity's deleted_at convention (§6).
func (h *TemplateHandler) Delete(c fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid template id")
	}
	now := time.Now()
	_, err = h.svc.UpdateOne(c.Context(), bson.M{"_id": id, "tenant_id": tenantID(c)}, bson.M{"$set": bson.M{
		"active": false, "deleted_at": now, "updated_at": now,
	}}, nil)
	if err != nil {
		return respondError(c, err)
	}
	h.audit.Record(c.Context(), tenantID(c), userID(c), "template.delete", id.Hex(), nil)
	return respondSuccess(c, common.StatusOK, fiber.Map{"id": id.Hex(), "deleted": true})
}

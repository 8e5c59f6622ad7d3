package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Wadijet/notifyhub/core/common"
	"github.com/Wadijet/notifyhub/core/crypto"
	"github.com/Wadijet/notifyhub/core/service"
	"github.com/Wadijet/notifyhub/internal/audit"
	"github.com/Wadijet/notifyhub/internal/cache"
	"github.com/Wadijet/notifyhub/internal/model"
)

// CredentialHandler implements GET/POST/PUT /credentials (§6): POST upserts the active
// custom credential for (tenant, channel); secrets are encrypted before being persisted and
// are never echoed back in a response (model.Credential.Secrets is json:"-").
type CredentialHandler struct {
	svc   *service.BaseServiceMongoImpl[model.Credential]
	box   *crypto.Box
	cache *cache.Cache
	audit *audit.Recorder
	v     *validator.Validate
}

func NewCredentialHandler(svc *service.BaseServiceMongoImpl[model.Credential], box *crypto.Box, c *cache.Cache, a *audit.Recorder, v *validator.Validate) *CredentialHandler {
	return &CredentialHandler{svc: svc, box: box, cache: c, audit: a, v: v}
}

type credentialUpsertRequest struct {
	Channel model.Channel     `json:"channel" validate:"required"`
	Secrets map[string]string `json:"secrets" validate:"required"`
}

func (h *CredentialHandler) List(c fiber.Ctx) error {
	filter := bson.M{"tenant_id": tenantID(c)}
	if channel := c.Query("channel"); channel != "" {
		filter["channel"] = model.Channel(channel)
	}
	creds, err := h.svc.Find(c.Context(), filter, nil)
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, common.StatusOK, creds)
}

// Create upserts the active custom credential for (tenant, channel): an existing row is
// replaced rather than duplicated, since §3 allows only one active custom credential per
// (tenant, channel).
func (h *CredentialHandler) Create(c fiber.Ctx) error {
	var req credentialUpsertRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	if err := h.v.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	encrypted, err := h.box.EncryptMap(req.Secrets)
	if err != nil {
		return respondError(c, err)
	}

	tenant := tenantID(c)
	now := time.Now()
	existing, err := h.svc.FindOne(c.Context(), bson.M{"tenant_id": tenant, "channel": req.Channel, "custom": true}, nil)
	if err == nil {
		updated, err := h.svc.UpdateOne(c.Context(), bson.M{"_id": existing.ID}, bson.M{"$set": bson.M{
			"secrets": encrypted, "active": true, "updated_at": now,
		}}, nil)
		if err != nil {
			return respondError(c, err)
		}
		h.cache.Invalidate(c.Context(), tenant, req.Channel)
		h.audit.Record(c.Context(), tenant, userID(c), "credential.update", existing.ID.Hex(), nil)
		return respondSuccess(c, common.StatusOK, updated)
	}
	if !errors.Is(err, common.ErrNotFound) {
		return respondError(c, err)
	}

	created, err := h.svc.InsertOne(c.Context(), model.Credential{
		TenantID:  tenant,
		Channel:   req.Channel,
		Secrets:   encrypted,
		Custom:    true,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return respondError(c, err)
	}
	h.cache.Invalidate(c.Context(), tenant, req.Channel)
	h.audit.Record(c.Context(), tenant, userID(c), "credential.create", created.ID.Hex(), nil)
	return respondSuccess(c, common.StatusCreated, created)
}

type credentialUpdateRequest struct {
	Secrets map[string]string `json:"secrets,omitempty"`
	Active  *bool             `json:"active,omitempty"`
}

// Update patches an existing credential's secrets and/or active flag, re-encrypting any
// replaced secrets and invalidating the cache entry so the change is visible immediately.
func (h *CredentialHandler) Update(c fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid credential id")
	}
	var req credentialUpdateRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "malformed JSON body")
	}

	tenant := tenantID(c)
	existing, err := h.svc.FindOne(c.Context(), bson.M{"_id": id, "tenant_id": tenant}, nil)
	if err != nil {
		return respondError(c, err)
	}

	set := bson.M{"updated_at": time.Now()}
	if req.Secrets != nil {
		encrypted, err := h.box.EncryptMap(req.Secrets)
		if err != nil {
			return respondError(c, err)
		}
		set["secrets"] = encrypted
	}
	if req.Active != nil {
		set["active"] = *req.Active
	}

	updated, err := h.svc.UpdateOne(c.Context(), bson.M{"_id": id, "tenant_id": tenant}, bson.M{"$set": set}, nil)
	if err != nil {
		return respondError(c, err)
	}
	h.cache.Invalidate(c.Context(), tenant, existing.Channel)
	h.audit.Record(c.Context(), tenant, userID(c), "credential.update", id.Hex(), nil)
	return respondSuccess(c, common.StatusOK, updated)
}

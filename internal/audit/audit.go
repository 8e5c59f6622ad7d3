// Package audit implements the AuditLog entity (SPEC_FULL.md §C): an append-only record of
// every admin-surface mutation, written by the handlers in internal/api.
package audit

import (
	"context"
	"time"

	"github.com/Wadijet/notifyhub/core/logger"
	"github.com/Wadijet/notifyhub/core/service"
	"github.com/Wadijet/notifyhub/internal/model"
)

// Recorder appends one AuditLog row per mutation. A write failure never blocks the mutation
// itself — the audit trail is best-effort observability, not a transactional participant.
type Recorder struct {
	svc *service.BaseServiceMongoImpl[model.AuditLog]
}

func NewRecorder(svc *service.BaseServiceMongoImpl[model.AuditLog]) *Recorder {
	return &Recorder{svc: svc}
}

func (r *Recorder) Record(ctx context.Context, tenantID, actor, action, target string, details map[string]interface{}) {
	_, err := r.svc.InsertOne(ctx, model.AuditLog{
		TenantID:  tenantID,
		Actor:     actor,
		Action:    action,
		Target:    target,
		Details:   details,
		CreatedAt: time.Now(),
	})
	if err != nil {
		logger.WithTenant(tenantID).WithError(err).Warn("failed to write audit log entry")
	}
}

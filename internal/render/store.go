package render

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/Wadijet/notifyhub/core/common"
	"github.com/Wadijet/notifyhub/core/service"
	"github.com/Wadijet/notifyhub/internal/model"
)

// systemTenantID is the fallback tenant owning operator-provisioned default templates, mirroring
// the teacher's team-specific -> system-organization template fallback (FindTemplate).
const systemTenantID = "_system"

// Store resolves active templates for a (tenant, name, channel), falling back to the system
// tenant's template when the requesting tenant has none — the same two-tier lookup the teacher's
// Template.FindTemplate performs for (organization, system organization).
type Store struct {
	svc *service.BaseServiceMongoImpl[model.Template]
}

func NewStore(svc *service.BaseServiceMongoImpl[model.Template]) *Store {
	return &Store{svc: svc}
}

// FindTemplate finds the active template for (tenantID, name, channel), falling back to the
// system tenant's template of the same name/channel when the tenant has none (§4.3).
func (s *Store) FindTemplate(ctx context.Context, tenantID, name string, channel model.Channel) (*model.Template, error) {
	filter := bson.M{"tenant_id": tenantID, "name": name, "channel": channel, "active": true}
	tmpl, err := s.svc.FindOne(ctx, filter, nil)
	if err == nil {
		return &tmpl, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("find tenant template: %w", err)
	}

	filter = bson.M{"tenant_id": systemTenantID, "name": name, "channel": channel, "active": true}
	tmpl, err = s.svc.FindOne(ctx, filter, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("template not found for tenant=%s name=%s channel=%s: %w", tenantID, name, channel, common.ErrNotFound)
		}
		return nil, fmt.Errorf("find system template: %w", err)
	}
	return &tmpl, nil
}

package channels

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/Wadijet/notifyhub/core/service"
	"github.com/Wadijet/notifyhub/internal/model"
)

// MongoDeviceTokenStore implements DeviceTokenStore against the device_tokens collection.
type MongoDeviceTokenStore struct {
	svc *service.BaseServiceMongoImpl[model.DeviceToken]
}

func NewMongoDeviceTokenStore(svc *service.BaseServiceMongoImpl[model.DeviceToken]) *MongoDeviceTokenStore {
	return &MongoDeviceTokenStore{svc: svc}
}

func (s *MongoDeviceTokenStore) Deactivate(ctx context.Context, tenantID, token string) error {
	_, err := s.svc.UpdateOne(ctx,
		bson.M{"tenant_id": tenantID, "token": token},
		bson.M{"$set": bson.M{"active": false, "updated_at": time.Now()}},
		nil,
	)
	return err
}

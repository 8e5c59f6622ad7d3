// Package service cung cấp một base service generic cho việc tương tác với MongoDB.
// Đây là bản rút gọn của base service gốc, giữ lại đúng tập thao tác mà các
// repository của notifyhub (credential/template/delivery/chat) thực sự dùng.
package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Wadijet/notifyhub/core/common"
)

// BaseServiceMongo là interface CRUD tối thiểu dùng chung cho mọi repository Mongo trong notifyhub.
type BaseServiceMongo[Model any] interface {
	InsertOne(ctx context.Context, data Model) (Model, error)
	FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (Model, error)
	Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]Model, error)
	UpdateOne(ctx context.Context, filter interface{}, update bson.M, opts *options.UpdateOptions) (Model, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update bson.M, opts *options.FindOneAndUpdateOptions) (Model, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	FindOneById(ctx context.Context, id primitive.ObjectID) (Model, error)
}

// BaseServiceMongoImpl là implementation generic của BaseServiceMongo.
type BaseServiceMongoImpl[Model any] struct {
	Collection *mongo.Collection
	Timeout    time.Duration
}

// NewBaseServiceMongo tạo một base service mới, timeout mặc định 10 giây mỗi thao tác.
func NewBaseServiceMongo[Model any](collection *mongo.Collection) *BaseServiceMongoImpl[Model] {
	return &BaseServiceMongoImpl[Model]{Collection: collection, Timeout: 10 * time.Second}
}

func (s *BaseServiceMongoImpl[Model]) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, s.Timeout)
}

func (s *BaseServiceMongoImpl[Model]) InsertOne(parent context.Context, data Model) (Model, error) {
	ctx, cancel := s.ctx(parent)
	defer cancel()

	if _, err := s.Collection.InsertOne(ctx, data); err != nil {
		return data, common.ConvertMongoError(err)
	}
	return data, nil
}

func (s *BaseServiceMongoImpl[Model]) FindOne(parent context.Context, filter interface{}, opts *options.FindOneOptions) (Model, error) {
	ctx, cancel := s.ctx(parent)
	defer cancel()

	var result Model
	err := s.Collection.FindOne(ctx, filter, opts).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return result, common.ErrNotFound
		}
		return result, common.ConvertMongoError(err)
	}
	return result, nil
}

func (s *BaseServiceMongoImpl[Model]) Find(parent context.Context, filter interface{}, opts *options.FindOptions) ([]Model, error) {
	ctx, cancel := s.ctx(parent)
	defer cancel()

	cursor, err := s.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var results []Model
	if err := cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return results, nil
}

func (s *BaseServiceMongoImpl[Model]) UpdateOne(parent context.Context, filter interface{}, update bson.M, opts *options.UpdateOptions) (Model, error) {
	ctx, cancel := s.ctx(parent)
	defer cancel()

	var result Model
	if _, err := s.Collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return result, common.ConvertMongoError(err)
	}
	return s.FindOne(parent, filter, nil)
}

// FindOneAndUpdate là thao tác nguyên tử dùng cho claim/transition của DeliveryRecord (§4.5).
func (s *BaseServiceMongoImpl[Model]) FindOneAndUpdate(parent context.Context, filter interface{}, update bson.M, opts *options.FindOneAndUpdateOptions) (Model, error) {
	ctx, cancel := s.ctx(parent)
	defer cancel()

	var result Model
	err := s.Collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return result, common.ErrNotFound
		}
		return result, common.ConvertMongoError(err)
	}
	return result, nil
}

func (s *BaseServiceMongoImpl[Model]) CountDocuments(parent context.Context, filter interface{}) (int64, error) {
	ctx, cancel := s.ctx(parent)
	defer cancel()

	count, err := s.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return count, nil
}

func (s *BaseServiceMongoImpl[Model]) FindOneById(parent context.Context, id primitive.ObjectID) (Model, error) {
	return s.FindOne(parent, bson.M{"_id": id}, nil)
}

// Package delivery implements the Delivery Queue and worker pool (§4.5): a durable
// record store plus a fixed-size pool of workers claiming pending/retrying records,
// invoking channel senders, and driving the state machine to a terminal outcome.
package delivery

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Wadijet/notifyhub/core/common"
	"github.com/Wadijet/notifyhub/core/service"
	"github.com/Wadijet/notifyhub/internal/model"
)

// Queue wraps the delivery_records collection with the operations the worker pool and
// event handlers need: enqueue (idempotent), atomic claim, and state transitions.
type Queue struct {
	svc *service.BaseServiceMongoImpl[model.DeliveryRecord]
}

func NewQueue(svc *service.BaseServiceMongoImpl[model.DeliveryRecord]) *Queue {
	return &Queue{svc: svc}
}

// Enqueue persists a new record. When EventID is set, a duplicate (tenant, event_id,
// channel, recipient) is not an error: the existing record is returned instead (§4.1's
// idempotency-by-(event_id, channel, recipient) contract).
func (q *Queue) Enqueue(ctx context.Context, rec model.DeliveryRecord) (model.DeliveryRecord, error) {
	now := time.Now()
	rec.State = model.StatePending
	rec.RetryCount = 0
	if rec.MaxRetries == 0 {
		rec.MaxRetries = 3
	}
	rec.CreatedAt = now
	rec.NextAttemptAt = now

	saved, err := q.svc.InsertOne(ctx, rec)
	if err == nil {
		return saved, nil
	}
	if !errors.Is(err, common.ErrDuplicate) && !errors.Is(err, common.ErrMongoDuplicate) || rec.EventID == "" {
		return saved, err
	}
	existing, findErr := q.svc.FindOne(ctx, bson.M{
		"tenant_id": rec.TenantID, "event_id": rec.EventID, "channel": rec.Channel, "recipient": rec.Recipient,
	}, nil)
	if findErr != nil {
		return saved, err
	}
	return existing, nil
}

// Claim atomically transitions up to limit claimable records (in-flight, next_attempt_at
// due) by stamping claimed_at, the CAS guard against double-claim (§4.5, §5).
func (q *Queue) Claim(ctx context.Context, limit int) ([]model.DeliveryRecord, error) {
	now := time.Now()
	filter := bson.M{
		"state":           bson.M{"$in": []model.DeliveryState{model.StatePending, model.StateRetrying}},
		"next_attempt_at": bson.M{"$lte": now},
		"claimed_at":      nil,
	}
	update := bson.M{"$set": bson.M{"claimed_at": now}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	claimed := make([]model.DeliveryRecord, 0, limit)
	for i := 0; i < limit; i++ {
		rec, err := q.svc.FindOneAndUpdate(ctx, filter, update, opts)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				break
			}
			return claimed, err
		}
		claimed = append(claimed, rec)
	}
	return claimed, nil
}

// ReclaimStale reverts records whose claim has outlived the lease timeout back to
// RETRYING with retry_count++ (§4.5, §5): a worker crash must not leak a claim forever.
// A record whose incremented retry_count reaches max_retries goes to FAILED instead.
func (q *Queue) ReclaimStale(ctx context.Context, leaseTimeout time.Duration) (int, error) {
	cutoff := time.Now().Add(-leaseTimeout)
	count := 0
	for {
		filter := bson.M{
			"state":      bson.M{"$in": []model.DeliveryState{model.StatePending, model.StateRetrying}},
			"claimed_at": bson.M{"$ne": nil, "$lte": cutoff},
		}
		rec, err := q.svc.FindOne(ctx, filter, nil)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return count, nil
			}
			return count, err
		}
		retryCount := rec.RetryCount + 1
		update := bson.M{"$set": bson.M{
			"state":           model.StateRetrying,
			"retry_count":     retryCount,
			"claimed_at":      nil,
			"next_attempt_at": time.Now().Add(Backoff(retryCount)),
		}}
		if retryCount >= rec.MaxRetries {
			update = bson.M{"$set": bson.M{"state": model.StateFailed, "claimed_at": nil, "retry_count": retryCount}}
		}
		if _, err := q.svc.UpdateOne(ctx, bson.M{"_id": rec.ID}, update, nil); err != nil {
			return count, err
		}
		count++
	}
}

// MarkSuccess transitions a record to its terminal SUCCESS state (§4.5).
func (q *Queue) MarkSuccess(ctx context.Context, rec model.DeliveryRecord, providerResponse string) error {
	now := time.Now()
	_, err := q.svc.UpdateOne(ctx, bson.M{"_id": rec.ID}, bson.M{"$set": bson.M{
		"state": model.StateSuccess, "sent_at": now, "claimed_at": nil, "provider_response": providerResponse,
	}}, nil)
	return err
}

// MarkFailure applies the retriable/non-retriable transition rules from §4.5 and the
// boundary behaviours in §8: a non-retriable failure terminates immediately without
// incrementing retry_count; a retriable one increments and either schedules a retry or
// exhausts the budget into FAILED.
func (q *Queue) MarkFailure(ctx context.Context, rec model.DeliveryRecord, reason model.FailureReason, retriable bool, providerResponse string) error {
	set := bson.M{"failure_reason": reason, "provider_response": providerResponse, "claimed_at": nil}

	if !retriable {
		set["state"] = model.StateFailed
		_, err := q.svc.UpdateOne(ctx, bson.M{"_id": rec.ID}, bson.M{"$set": set}, nil)
		return err
	}

	retryCount := rec.RetryCount + 1
	set["retry_count"] = retryCount
	if retryCount >= rec.MaxRetries {
		set["state"] = model.StateFailed
	} else {
		set["state"] = model.StateRetrying
		set["next_attempt_at"] = time.Now().Add(Backoff(retryCount))
	}
	_, err := q.svc.UpdateOne(ctx, bson.M{"_id": rec.ID}, bson.M{"$set": set}, nil)
	return err
}

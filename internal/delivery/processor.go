package delivery

import (
	"context"
	"time"

	"github.com/Wadijet/notifyhub/core/logger"
	"github.com/Wadijet/notifyhub/internal/cache"
	"github.com/Wadijet/notifyhub/internal/channels"
	"github.com/Wadijet/notifyhub/internal/model"
)

// Processor runs the fixed-size worker pool described in §4.5/§5: a claim loop polls
// for due records and hands each to one of WorkerCount goroutines for sending.
type Processor struct {
	queue        *Queue
	creds        *cache.Cache
	senders      map[model.Channel]channels.Sender
	workerCount  int
	sendTimeout  time.Duration
	claimBatch   int
	pollInterval time.Duration
}

func NewProcessor(queue *Queue, creds *cache.Cache, senders map[model.Channel]channels.Sender, workerCount int, sendTimeout time.Duration) *Processor {
	if workerCount <= 0 {
		workerCount = 16
	}
	return &Processor{
		queue:        queue,
		creds:        creds,
		senders:      senders,
		workerCount:  workerCount,
		sendTimeout:  sendTimeout,
		claimBatch:   workerCount,
		pollInterval: time.Second,
	}
}

// Run drives the claim-loop producer and the worker pool until ctx is cancelled. It
// never returns on a panic from a single record's processing (recovered per-job); a
// panic while claiming restarts the producer after a short delay (mirrors the teacher's
// self-restarting background-job pattern).
func (p *Processor) Run(ctx context.Context) {
	jobs := make(chan model.DeliveryRecord, p.workerCount)
	defer close(jobs)

	for i := 0; i < p.workerCount; i++ {
		go p.worker(ctx, jobs)
	}

	retryDelay := 5 * time.Second
	for {
		if ctx.Err() != nil {
			return
		}
		p.claimLoop(ctx, jobs, &retryDelay)
	}
}

func (p *Processor) claimLoop(ctx context.Context, jobs chan<- model.DeliveryRecord, retryDelay *time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			logger.GetAppLogger().WithField("panic", r).Error("delivery claim loop panicked, restarting")
			time.Sleep(*retryDelay)
			*retryDelay *= 2
			if *retryDelay > time.Minute {
				*retryDelay = time.Minute
			}
			return
		}
		*retryDelay = 5 * time.Second
	}()

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			claimed, err := p.queue.Claim(ctx, p.claimBatch)
			if err != nil {
				logger.GetAppLogger().WithError(err).Warn("delivery claim failed")
				continue
			}
			for _, rec := range claimed {
				select {
				case jobs <- rec:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

func (p *Processor) worker(ctx context.Context, jobs <-chan model.DeliveryRecord) {
	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-jobs:
			if !ok {
				return
			}
			p.processOne(ctx, rec)
		}
	}
}

func (p *Processor) processOne(ctx context.Context, rec model.DeliveryRecord) {
	defer func() {
		if r := recover(); r != nil {
			logger.GetAppLogger().WithField("panic", r).WithField("deliveryId", rec.ID.Hex()).Error("panic processing delivery record")
		}
	}()

	log := logger.WithTenant(rec.TenantID).WithField("channel", string(rec.Channel))

	sender, ok := p.senders[rec.Channel]
	if !ok {
		if err := p.queue.MarkFailure(ctx, rec, model.FailureContent, false, "no sender registered for channel"); err != nil {
			log.WithError(err).Error("failed to mark delivery record failed")
		}
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, p.sendTimeout)
	defer cancel()

	cred, err := p.creds.Credential(sendCtx, rec.TenantID, rec.Channel)
	if err != nil {
		if markErr := p.queue.MarkFailure(ctx, rec, model.FailureInternal, true, err.Error()); markErr != nil {
			log.WithError(markErr).Error("failed to mark delivery record for retry after credential lookup failure")
		}
		return
	}

	if cred.CircuitOpenUntil != nil && time.Now().Before(*cred.CircuitOpenUntil) {
		if err := p.queue.MarkFailure(ctx, rec, model.FailureAuth, true, "credential circuit open, skipping send"); err != nil {
			log.WithError(err).Error("failed to mark delivery record failure for open circuit")
		}
		return
	}

	outcome := sender.Send(sendCtx, cred, rec.Content, rec.Recipient)
	if outcome.OK {
		p.creds.ResetAuthFailures(ctx, rec.TenantID, rec.Channel)
		if err := p.queue.MarkSuccess(ctx, rec, outcome.ProviderResponse); err != nil {
			log.WithError(err).Error("failed to mark delivery record success")
		}
		return
	}

	if outcome.FailureReason == model.FailureAuth {
		p.creds.RecordAuthFailure(ctx, rec.TenantID, rec.Channel)
	}

	if err := p.queue.MarkFailure(ctx, rec, outcome.FailureReason, outcome.Retriable, outcome.ProviderResponse); err != nil {
		log.WithError(err).Error("failed to mark delivery record failure")
	}
}

// StartLeaseReclaimer runs ReclaimStale on an interval until ctx is cancelled (§4.5,
// §5): a worker crash leaves a stale claim that this loop reverts to RETRYING (or FAILED
// once the retry budget is spent).
func (p *Processor) StartLeaseReclaimer(ctx context.Context, leaseTimeout, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := p.queue.ReclaimStale(ctx, leaseTimeout)
			if err != nil {
				logger.GetAppLogger().WithError(err).Warn("lease reclaim failed")
				continue
			}
			if count > 0 {
				logger.GetAppLogger().WithField("count", count).Info("reclaimed stale delivery claims")
			}
		}
	}
}

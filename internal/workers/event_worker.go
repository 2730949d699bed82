package workers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobwallah/internal/events"
	mongorepo "github.com/yoockh/jobwallah/internal/repositories/mongo"
)

// errPoison marks a stream message that can never be processed.
var errPoison = errors.New("undecodable event")

// EventProcessor records an application event and notifies its recipient.
type EventProcessor struct {
	Events   mongorepo.EventRepository
	Notifier events.Notifier
	Logger   *logrus.Logger
}

// Handle is safe to call more than once for the same message.
func (p *EventProcessor) Handle(ctx context.Context, values map[string]any) error {
	e, err := events.Decode(values)
	if err != nil {
		return errors.Join(errPoison, err)
	}

	if err := p.Events.Append(ctx, &e); err != nil {
		return err
	}

	to := events.Recipient(e)
	if p.Notifier == nil || to == "" {
		return nil
	}
	payload, err := json.Marshal(events.NotificationFor(e))
	if err != nil {
		return errors.Join(errPoison, err)
	}
	if err := p.Notifier.Notify(ctx, to, payload); err != nil {
		// the event is stored; a lost live notification is not retried
		if p.Logger != nil {
			p.Logger.WithError(err).WithFields(logrus.Fields{
				"event_id": e.ID,
				"user_id":  to,
			}).Warn("notify failed")
		}
	}
	return nil
}

// eventStream is the consumer-group view of the event stream.
type eventStream interface {
	read(ctx context.Context, consumer, cursor string) ([]redis.XMessage, error)
	ack(ctx context.Context, id string) error
	// stale lists entries pending for at least minIdle, on any consumer.
	stale(ctx context.Context, minIdle time.Duration, count int64) ([]redis.XPendingExt, error)
	claim(ctx context.Context, consumer string, minIdle time.Duration, ids ...string) ([]redis.XMessage, error)
}

type redisStream struct {
	rdb    *redis.Client
	stream string
	group  string
}

func (s redisStream) read(ctx context.Context, consumer, cursor string) ([]redis.XMessage, error) {
	res, err := s.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: consumer,
		Streams:  []string{s.stream, cursor},
		Count:    10,
		Block:    5 * time.Second,
	}).Result()
	if err != nil {
		return nil, err
	}
	var out []redis.XMessage
	for _, st := range res {
		out = append(out, st.Messages...)
	}
	return out, nil
}

func (s redisStream) ack(ctx context.Context, id string) error {
	return s.rdb.XAck(ctx, s.stream, s.group, id).Err()
}

func (s redisStream) stale(ctx context.Context, minIdle time.Duration, count int64) ([]redis.XPendingExt, error) {
	return s.rdb.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: s.stream,
		Group:  s.group,
		Idle:   minIdle,
		Start:  "-",
		End:    "+",
		Count:  count,
	}).Result()
}

func (s redisStream) claim(ctx context.Context, consumer string, minIdle time.Duration, ids ...string) ([]redis.XMessage, error) {
	return s.rdb.XClaim(ctx, &redis.XClaimArgs{
		Stream:   s.stream,
		Group:    s.group,
		Consumer: consumer,
		MinIdle:  minIdle,
		Messages: ids,
	}).Result()
}

type EventWorkerPool struct {
	Redis      *redis.Client
	Processor  *EventProcessor
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string

	// ClaimIdle is how long an entry stays pending before another pass retries it.
	ClaimIdle    time.Duration
	ReclaimEvery time.Duration
	// MaxDeliveries bounds retries; past it the entry is acked and dropped.
	MaxDeliveries int64
	RetryBackoff  time.Duration

	stream eventStream
}

const maxRetryBackoff = 30 * time.Second

func (p *EventWorkerPool) Start(ctx context.Context) error {
	if (p.Redis == nil && p.stream == nil) || p.Processor == nil || p.Processor.Events == nil {
		return errors.New("EventWorkerPool missing dependency: Redis/Processor/Processor.Events must be set")
	}
	if p.Stream == "" {
		p.Stream = events.DefaultStream
	}
	if p.Group == "" {
		p.Group = "application-event-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.ClaimIdle <= 0 {
		p.ClaimIdle = time.Minute
	}
	if p.ReclaimEvery <= 0 {
		p.ReclaimEvery = 30 * time.Second
	}
	if p.MaxDeliveries <= 0 {
		p.MaxDeliveries = 5
	}
	if p.RetryBackoff <= 0 {
		p.RetryBackoff = 500 * time.Millisecond
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}
	if p.Processor.Logger == nil {
		p.Processor.Logger = p.Logger
	}

	if p.stream == nil {
		_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP
		p.stream = redisStream{rdb: p.Redis, stream: p.Stream, group: p.Group}
	}

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *EventWorkerPool) runConsumer(ctx context.Context, consumer string) {
	log := p.Logger.WithField("consumer", consumer)

	// One pass over this consumer's unacked backlog ("0", then paging by id),
	// then ">" for new entries. Failures are retried by reclaim, not by re-reading.
	cursor := "0"
	var backoff time.Duration
	nextReclaim := time.Now().Add(p.ReclaimEvery)

	for ctx.Err() == nil {
		if backoff > 0 && !sleepCtx(ctx, backoff) {
			return
		}
		if cursor == ">" && !time.Now().Before(nextReclaim) {
			p.reclaim(ctx, consumer)
			nextReclaim = time.Now().Add(p.ReclaimEvery)
		}

		msgs, err := p.stream.read(ctx, consumer, cursor)
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				backoff = 0
				continue
			}
			log.WithError(err).Warn("xreadgroup failed")
			backoff = p.nextBackoff(backoff)
			continue
		}

		if cursor != ">" {
			if len(msgs) == 0 {
				cursor = ">"
			} else {
				cursor = msgs[len(msgs)-1].ID
			}
		}

		failed := false
		for _, msg := range msgs {
			if !p.handleMsg(ctx, msg) {
				failed = true
			}
		}
		if failed {
			backoff = p.nextBackoff(backoff)
		} else {
			backoff = 0
		}
	}
}

// reclaim retries entries left pending by failed handling or dead consumers.
func (p *EventWorkerPool) reclaim(ctx context.Context, consumer string) {
	pending, err := p.stream.stale(ctx, p.ClaimIdle, 10)
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			p.Logger.WithError(err).Warn("xpending failed")
		}
		return
	}

	var ids []string
	for _, pe := range pending {
		if pe.RetryCount >= p.MaxDeliveries {
			p.Logger.WithFields(logrus.Fields{"redis_id": pe.ID, "deliveries": pe.RetryCount}).
				Error("giving up on event after repeated failures")
			_ = p.stream.ack(ctx, pe.ID)
			continue
		}
		ids = append(ids, pe.ID)
	}
	if len(ids) == 0 {
		return
	}

	msgs, err := p.stream.claim(ctx, consumer, p.ClaimIdle, ids...)
	if err != nil {
		p.Logger.WithError(err).Warn("xclaim failed")
		return
	}
	for _, msg := range msgs {
		p.handleMsg(ctx, msg)
	}
}

// handleMsg reports whether msg was acked.
func (p *EventWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) bool {
	log := p.Logger.WithFields(logrus.Fields{"redis_id": msg.ID, "type": msg.Values["type"]})

	err := p.Processor.Handle(ctx, msg.Values)
	switch {
	case err == nil:
	case errors.Is(err, errPoison):
		log.WithError(err).Error("dropping undecodable event")
	default:
		log.WithError(err).Warn("event processing failed")
		return false
	}
	if err := p.stream.ack(ctx, msg.ID); err != nil {
		log.WithError(err).Warn("xack failed")
	}
	return true
}

func (p *EventWorkerPool) nextBackoff(cur time.Duration) time.Duration {
	if cur <= 0 {
		return p.RetryBackoff
	}
	return min(cur*2, maxRetryBackoff)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

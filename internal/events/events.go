package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yoockh/jobwallah/internal/models"
)

const DefaultStream = "applications:events"

// Publisher hands application events to the background pipeline.
type Publisher interface {
	Publish(ctx context.Context, e models.ApplicationEvent) error
}

// Notifier pushes a JSON payload to everyone listening for userID.
type Notifier interface {
	Notify(ctx context.Context, userID string, payload []byte) error
}

func NotificationChannel(userID string) string {
	return "user:" + userID + ":notifications"
}

type RedisStreamPublisher struct {
	rdb    *redis.Client
	stream string
	maxLen int64
}

func NewRedisStreamPublisher(rdb *redis.Client, stream string) *RedisStreamPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisStreamPublisher{rdb: rdb, stream: stream, maxLen: 100000}
}

func (p *RedisStreamPublisher) Publish(ctx context.Context, e models.ApplicationEvent) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"type":    string(e.Type),
			"event":   string(b),
			"ts_unix": e.OccurredAt.UTC().Unix(),
		},
	}).Err()
}

// Decode reads an event back from stream message values.
func Decode(values map[string]any) (models.ApplicationEvent, error) {
	var e models.ApplicationEvent
	raw, _ := values["event"].(string)
	if raw == "" {
		return e, errors.New("stream message has no event field")
	}
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return e, err
	}
	if e.ID == "" || e.ApplicationID == "" {
		return e, errors.New("event is missing id or application_id")
	}
	return e, nil
}

type RedisNotifier struct {
	rdb *redis.Client
}

func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

func (n *RedisNotifier) Notify(ctx context.Context, userID string, payload []byte) error {
	return n.rdb.Publish(ctx, NotificationChannel(userID), string(payload)).Err()
}

// Notification is the payload delivered on a user's notification channel.
type Notification struct {
	Type          models.EventType         `json:"type"`
	ApplicationID string                   `json:"application_id"`
	JobID         string                   `json:"job_id"`
	JobTitle      string                   `json:"job_title,omitempty"`
	Status        models.ApplicationStatus `json:"status"`
	Reason        string                   `json:"reason,omitempty"`
	ATSScore      int                      `json:"ats_score"`
	OccurredAt    time.Time                `json:"occurred_at"`
}

// Recipient returns who should hear about e: the recruiter for new
// applications, the applicant for decisions.
func Recipient(e models.ApplicationEvent) string {
	if e.Type == models.EventApplicationCreated {
		return e.RecruiterID
	}
	return e.ApplicantID
}

func NotificationFor(e models.ApplicationEvent) Notification {
	return Notification{
		Type:          e.Type,
		ApplicationID: e.ApplicationID,
		JobID:         e.JobID,
		JobTitle:      e.JobTitle,
		Status:        e.Status,
		Reason:        e.Reason,
		ATSScore:      e.ATSScore,
		OccurredAt:    e.OccurredAt,
	}
}

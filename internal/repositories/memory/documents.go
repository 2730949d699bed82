package memory

import (
	"context"
	"sort"
	"time"

	"github.com/yoockh/jobwallah/internal/models"
	"github.com/yoockh/jobwallah/internal/utils"
)

type ResumeChecks struct{ s *Store }

func (r *ResumeChecks) Insert(_ context.Context, c *models.ResumeCheck) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if c.CheckedAt.IsZero() {
		c.CheckedAt = time.Now().UTC()
	}
	if c.CheckDay == "" {
		c.CheckDay = utils.DayKey(c.CheckedAt)
	}
	for _, existing := range r.s.checks {
		if existing.ID == c.ID || (existing.UserID == c.UserID && existing.CheckDay == c.CheckDay) {
			return utils.ErrDuplicate
		}
	}
	r.s.checks = append(r.s.checks, *c)
	return nil
}

func (r *ResumeChecks) CountBetween(_ context.Context, userID string, from, to time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, c := range r.s.checks {
		if c.UserID == userID && !c.CheckedAt.Before(from) && c.CheckedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (r *ResumeChecks) Latest(_ context.Context, userID string, limit int64) ([]models.ResumeCheck, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.ResumeCheck{}
	for _, c := range r.s.checks {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].CheckedAt.After(out[k].CheckedAt) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

type Events struct{ s *Store }

func (r *Events) Append(_ context.Context, e *models.ApplicationEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[e.ID]; ok {
		return nil
	}
	r.s.events[e.ID] = *e
	return nil
}

func (r *Events) ListByApplication(_ context.Context, applicationID string) ([]models.ApplicationEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.ApplicationEvent{}
	for _, e := range r.s.events {
		if e.ApplicationID == applicationID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].OccurredAt.Before(out[k].OccurredAt) })
	return out, nil
}

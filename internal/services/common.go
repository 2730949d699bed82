package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobwallah/internal/cache"
	"github.com/yoockh/jobwallah/internal/models"
	"github.com/yoockh/jobwallah/internal/utils"
)

// Clock lets tests move time; services default to time.Now.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

func requireRole(p models.Principal, role models.UserRole, op, msg string) error {
	if p.UserID == "" {
		return utils.E(utils.CodeUnauthorized, op, "unauthorized", nil)
	}
	if p.Role != role {
		return utils.E(utils.CodeForbidden, op, msg, nil)
	}
	return nil
}

func jobCacheKey(id string) string { return "job:" + id }

const jobCacheTTL = 5 * time.Minute

func dropJobCache(ctx context.Context, c cache.Cache, log *logrus.Logger, jobID string) {
	if c == nil {
		return
	}
	if err := c.Del(ctx, jobCacheKey(jobID)); err != nil {
		log.WithError(err).WithField("job_id", jobID).Warn("job cache invalidation failed")
	}
}

func orLogger(l *logrus.Logger) *logrus.Logger {
	if l == nil {
		return logrus.New()
	}
	return l
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

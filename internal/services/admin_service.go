package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobwallah/internal/cache"
	"github.com/yoockh/jobwallah/internal/models"
	pgrepo "github.com/yoockh/jobwallah/internal/repositories/postgres"
	"github.com/yoockh/jobwallah/internal/utils"
)

type Analytics struct {
	TotalUsers        int64 `json:"total_users"`
	TotalRecruiters   int64 `json:"total_recruiters"`
	TotalApplicants   int64 `json:"total_applicants"`
	TotalJobs         int64 `json:"total_jobs"`
	TotalApplications int64 `json:"total_applications"`
}

type AdminService interface {
	ListUsers(ctx context.Context, p models.Principal) ([]models.User, error)
	SetBlocked(ctx context.Context, p models.Principal, userID string, blocked bool) error
	ListJobs(ctx context.Context, p models.Principal) ([]models.Job, error)
	DeleteJob(ctx context.Context, p models.Principal, jobID string) error
	Analytics(ctx context.Context, p models.Principal) (*Analytics, error)
}

type adminService struct {
	users pgrepo.UserRepository
	jobs  pgrepo.JobRepository
	apps  pgrepo.ApplicationRepository
	cache cache.Cache
	log   *logrus.Logger
}

func NewAdminService(users pgrepo.UserRepository, jobs pgrepo.JobRepository, apps pgrepo.ApplicationRepository, c cache.Cache, log *logrus.Logger) AdminService {
	return &adminService{users: users, jobs: jobs, apps: apps, cache: c, log: orLogger(log)}
}

func (s *adminService) ListUsers(ctx context.Context, p models.Principal) ([]models.User, error) {
	const op = "AdminService.ListUsers"

	if err := requireRole(p, models.RoleAdmin, op, "admin only"); err != nil {
		return nil, err
	}
	rows, err := s.users.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list users", err)
	}
	return rows, nil
}

func (s *adminService) SetBlocked(ctx context.Context, p models.Principal, userID string, blocked bool) error {
	const op = "AdminService.SetBlocked"

	if err := requireRole(p, models.RoleAdmin, op, "admin only"); err != nil {
		return err
	}
	if userID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user id is required", nil)
	}
	if userID == p.UserID && blocked {
		return utils.E(utils.CodeInvalidArgument, op, "you cannot block yourself", nil)
	}

	err := s.users.SetBlocked(ctx, userID, blocked)
	if errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeNotFound, op, "user not found", err)
	}
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update user", err)
	}
	s.log.WithFields(logrus.Fields{"admin_id": p.UserID, "user_id": userID, "blocked": blocked}).Info("user block state changed")
	return nil
}

func (s *adminService) ListJobs(ctx context.Context, p models.Principal) ([]models.Job, error) {
	const op = "AdminService.ListJobs"

	if err := requireRole(p, models.RoleAdmin, op, "admin only"); err != nil {
		return nil, err
	}
	rows, err := s.jobs.List(ctx, models.JobFilter{})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	return rows, nil
}

func (s *adminService) DeleteJob(ctx context.Context, p models.Principal, jobID string) error {
	const op = "AdminService.DeleteJob"

	if err := requireRole(p, models.RoleAdmin, op, "admin only"); err != nil {
		return err
	}
	err := s.jobs.Delete(ctx, jobID)
	if errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeNotFound, op, "job not found", err)
	}
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete job", err)
	}
	dropJobCache(ctx, s.cache, s.log, jobID)
	s.log.WithFields(logrus.Fields{"admin_id": p.UserID, "job_id": jobID}).Info("job deleted")
	return nil
}

func (s *adminService) Analytics(ctx context.Context, p models.Principal) (*Analytics, error) {
	const op = "AdminService.Analytics"

	if err := requireRole(p, models.RoleAdmin, op, "admin only"); err != nil {
		return nil, err
	}

	var out Analytics
	var err error
	if out.TotalUsers, err = s.users.Count(ctx, ""); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count users", err)
	}
	if out.TotalRecruiters, err = s.users.Count(ctx, models.RoleRecruiter); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count recruiters", err)
	}
	if out.TotalApplicants, err = s.users.Count(ctx, models.RoleApplicant); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count applicants", err)
	}
	if out.TotalJobs, err = s.jobs.Count(ctx); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count jobs", err)
	}
	if out.TotalApplications, err = s.apps.Count(ctx); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count applications", err)
	}
	return &out, nil
}

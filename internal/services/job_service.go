package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobwallah/internal/cache"
	"github.com/yoockh/jobwallah/internal/models"
	pgrepo "github.com/yoockh/jobwallah/internal/repositories/postgres"
	"github.com/yoockh/jobwallah/internal/utils"
	"gorm.io/datatypes"
)

type CreateJobInput struct {
	Title       string
	Description string
	Company     string
	Location    string
	Category    models.JobCategory
	Openings    int
	Deadline    time.Time
	Constraints string
	Salary      string
}

// UpdateJobInput is a partial update; nil fields are left alone.
type UpdateJobInput struct {
	Title       *string
	Description *string
	Company     *string
	Location    *string
	Category    *models.JobCategory
	Openings    *int
	Deadline    *time.Time
	Constraints *string
	Salary      *string
}

type JobService interface {
	List(ctx context.Context, f models.JobFilter) ([]models.Job, error)
	Get(ctx context.Context, id string) (*models.Job, error)
	Create(ctx context.Context, p models.Principal, in CreateJobInput) (*models.Job, error)
	Update(ctx context.Context, p models.Principal, id string, in UpdateJobInput) (*models.Job, error)
	ListMine(ctx context.Context, p models.Principal) ([]models.Job, error)
}

type jobService struct {
	jobs  pgrepo.JobRepository
	cache cache.Cache
	log   *logrus.Logger
	clock Clock
}

func NewJobService(jobs pgrepo.JobRepository, c cache.Cache, log *logrus.Logger, clock Clock) JobService {
	return &jobService{jobs: jobs, cache: c, log: orLogger(log), clock: clock}
}

func (s *jobService) List(ctx context.Context, f models.JobFilter) ([]models.Job, error) {
	const op = "JobService.List"

	if f.Category != "" && !f.Category.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unknown category", nil)
	}
	rows, err := s.jobs.List(ctx, f)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	return rows, nil
}

func (s *jobService) Get(ctx context.Context, id string) (*models.Job, error) {
	const op = "JobService.Get"

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job id is required", nil)
	}

	if s.cache != nil {
		var cached models.Job
		hit, err := s.cache.GetJSON(ctx, jobCacheKey(id), &cached)
		if err != nil {
			s.log.WithError(err).WithField("job_id", id).Warn("job cache read failed")
		}
		if hit {
			return &cached, nil
		}
	}

	job, err := s.jobs.GetByID(ctx, id)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, jobCacheKey(id), job, jobCacheTTL); err != nil {
			s.log.WithError(err).WithField("job_id", id).Warn("job cache write failed")
		}
	}
	return job, nil
}

func validateJob(op string, j *models.Job, minOpenings int) error {
	switch {
	case j.Title == "" || j.Description == "" || j.Company == "" || j.Location == "":
		return utils.E(utils.CodeInvalidArgument, op, "title, description, company and location are required", nil)
	case !j.Category.Valid():
		return utils.E(utils.CodeInvalidArgument, op, "unknown category", nil)
	case j.Openings < minOpenings:
		if minOpenings > 0 {
			return utils.E(utils.CodeInvalidArgument, op, "openings must be at least 1", nil)
		}
		return utils.E(utils.CodeInvalidArgument, op, "openings cannot be negative", nil)
	case time.Time(j.Deadline).IsZero():
		return utils.E(utils.CodeInvalidArgument, op, "deadline is required", nil)
	}
	return nil
}

func (s *jobService) Create(ctx context.Context, p models.Principal, in CreateJobInput) (*models.Job, error) {
	const op = "JobService.Create"

	if err := requireRole(p, models.RoleRecruiter, op, "only recruiters can post jobs"); err != nil {
		return nil, err
	}

	now := s.clock.now()
	job := &models.Job{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		Category:    in.Category,
		Openings:    in.Openings,
		Deadline:    datatypes.Date(in.Deadline),
		Constraints: strings.TrimSpace(in.Constraints),
		Salary:      strings.TrimSpace(in.Salary),
		RecruiterID: p.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := validateJob(op, job, 1); err != nil {
		return nil, err
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create job", err)
	}
	return job, nil
}

func (s *jobService) Update(ctx context.Context, p models.Principal, id string, in UpdateJobInput) (*models.Job, error) {
	const op = "JobService.Update"

	if err := requireRole(p, models.RoleRecruiter, op, "only recruiters can edit jobs"); err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, id)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	if job.RecruiterID != p.UserID {
		return nil, utils.E(utils.CodeForbidden, op, "you do not own this job posting", nil)
	}

	loadedOpenings := job.Openings
	setStr := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	setStr(&job.Title, in.Title)
	setStr(&job.Description, in.Description)
	setStr(&job.Company, in.Company)
	setStr(&job.Location, in.Location)
	setStr(&job.Constraints, in.Constraints)
	setStr(&job.Salary, in.Salary)
	if in.Category != nil {
		job.Category = *in.Category
	}
	if in.Openings != nil {
		job.Openings = *in.Openings
	}
	if in.Deadline != nil {
		job.Deadline = datatypes.Date(*in.Deadline)
	}
	job.UpdatedAt = s.clock.now()

	if err := validateJob(op, job, 0); err != nil {
		return nil, err
	}

	// openings may be decremented by a selection at any time; only touch it
	// when the recruiter asked to, and only from the value we read.
	var openingsFrom *int
	if in.Openings != nil {
		openingsFrom = &loadedOpenings
	}
	if err := s.jobs.Update(ctx, job, openingsFrom); err != nil {
		switch {
		case errors.Is(err, utils.ErrNotFound):
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		case errors.Is(err, utils.ErrStale):
			return nil, utils.E(utils.CodeConflict, op, "openings changed while editing, reload and retry", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update job", err)
	}
	dropJobCache(ctx, s.cache, s.log, job.ID)

	fresh, err := s.jobs.GetByID(ctx, job.ID)
	if err != nil {
		s.log.WithError(err).WithField("job_id", job.ID).Warn("reload after job update failed")
		return job, nil
	}
	return fresh, nil
}

func (s *jobService) ListMine(ctx context.Context, p models.Principal) ([]models.Job, error) {
	const op = "JobService.ListMine"

	if err := requireRole(p, models.RoleRecruiter, op, "only recruiters have job postings"); err != nil {
		return nil, err
	}
	rows, err := s.jobs.ListByRecruiter(ctx, p.UserID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	return rows, nil
}

package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobwallah/internal/analyzer"
	"github.com/yoockh/jobwallah/internal/cache"
	"github.com/yoockh/jobwallah/internal/events"
	"github.com/yoockh/jobwallah/internal/models"
	"github.com/yoockh/jobwallah/internal/providers/extract"
	mongorepo "github.com/yoockh/jobwallah/internal/repositories/mongo"
	pgrepo "github.com/yoockh/jobwallah/internal/repositories/postgres"
	"github.com/yoockh/jobwallah/internal/storage"
	"github.com/yoockh/jobwallah/internal/utils"
)

type ApplyInput struct {
	JobID  string
	Resume *ResumeFile // optional
}

// ApplyResult is the score summary returned to the applicant.
type ApplyResult struct {
	ApplicationID   string   `json:"application_id"`
	ATSScore        int      `json:"ats_score"`
	StrongKeywords  []string `json:"strong_keywords"`
	MissingKeywords []string `json:"missing_keywords"`
}

type UpdateStatusInput struct {
	ApplicationID   string
	Status          models.ApplicationStatus
	RejectionReason string
}

type ApplicationService interface {
	Apply(ctx context.Context, p models.Principal, in ApplyInput) (*ApplyResult, error)
	UpdateStatus(ctx context.Context, p models.Principal, in UpdateStatusInput) (*models.Application, error)
	ListMine(ctx context.Context, p models.Principal) ([]models.Application, error)
	ListForJob(ctx context.Context, p models.Principal, jobID string) ([]models.Application, error)
	ListForRecruiter(ctx context.Context, p models.Principal) ([]models.Application, error)
	Events(ctx context.Context, p models.Principal, applicationID string) ([]models.ApplicationEvent, error)
}

type ApplicationDeps struct {
	Jobs         pgrepo.JobRepository
	Applications pgrepo.ApplicationRepository
	Events       mongorepo.EventRepository
	Extractor    extract.Extractor
	Analyzer     analyzer.Analyzer
	Uploader     storage.Uploader
	Publisher    events.Publisher
	Cache        cache.Cache
	Logger       *logrus.Logger
	Clock        Clock
}

type applicationService struct {
	jobs      pgrepo.JobRepository
	apps      pgrepo.ApplicationRepository
	events    mongorepo.EventRepository
	intake    resumeIntake
	analyzer  analyzer.Analyzer
	publisher events.Publisher
	cache     cache.Cache
	log       *logrus.Logger
	clock     Clock
}

func NewApplicationService(d ApplicationDeps) ApplicationService {
	return &applicationService{
		jobs:      d.Jobs,
		apps:      d.Applications,
		events:    d.Events,
		intake:    resumeIntake{uploader: d.Uploader, extractor: d.Extractor},
		analyzer:  d.Analyzer,
		publisher: d.Publisher,
		cache:     d.Cache,
		log:       orLogger(d.Logger),
		clock:     d.Clock,
	}
}

func (s *applicationService) Apply(ctx context.Context, p models.Principal, in ApplyInput) (*ApplyResult, error) {
	const op = "ApplicationService.Apply"

	if err := requireRole(p, models.RoleApplicant, op, "only applicants can apply to jobs"); err != nil {
		return nil, err
	}
	jobID := strings.TrimSpace(in.JobID)
	if jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}

	exists, err := s.apps.Exists(ctx, job.ID, p.UserID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to check existing application", err)
	}
	if exists {
		return nil, utils.E(utils.CodeConflict, op, "you have already applied to this job", nil)
	}

	result := analyzer.Analysis{StrongKeywords: []string{}, MissingKeywords: []string{}}
	var resumePath *string
	var stored storedResume

	if in.Resume != nil {
		var extracted extract.Result
		stored, extracted, err = s.intake.process(ctx, op, "resumes", p.UserID, in.Resume)
		if err != nil {
			return nil, err
		}
		resumePath = &stored.Path

		log := s.log.WithFields(logrus.Fields{"op": op, "job_id": job.ID, "user_id": p.UserID, "extract": extracted.Status})
		if extracted.Empty() {
			log.Warn("resume text unavailable, skipping analysis")
		} else if s.analyzer != nil {
			result = s.analyzer.Analyze(ctx, extracted.Text, job.Description)
			if result.Degraded {
				log.WithField("score", result.Score).Warn("applying with fallback score")
			}
		}
	}

	app := &models.Application{
		ID:              uuid.NewString(),
		JobID:           job.ID,
		ApplicantID:     p.UserID,
		Resume:          resumePath,
		ATSScore:        result.Score,
		StrongKeywords:  pq.StringArray(emptyIfNil(result.StrongKeywords)),
		MissingKeywords: pq.StringArray(emptyIfNil(result.MissingKeywords)),
		Status:          models.StatusPending,
		AppliedAt:       s.clock.now(),
	}
	app.UpdatedAt = app.AppliedAt

	if err := s.apps.Create(ctx, app); err != nil {
		s.intake.discard(ctx, s.log, op, stored)
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "you have already applied to this job", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to save application", err)
	}

	s.publish(ctx, op, models.ApplicationEvent{
		Type:          models.EventApplicationCreated,
		ApplicationID: app.ID,
		JobID:         job.ID,
		JobTitle:      job.Title,
		ApplicantID:   p.UserID,
		RecruiterID:   job.RecruiterID,
		Status:        app.Status,
		ATSScore:      app.ATSScore,
	})

	return &ApplyResult{
		ApplicationID:   app.ID,
		ATSScore:        app.ATSScore,
		StrongKeywords:  []string(app.StrongKeywords),
		MissingKeywords: []string(app.MissingKeywords),
	}, nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, p models.Principal, in UpdateStatusInput) (*models.Application, error) {
	const op = "ApplicationService.UpdateStatus"

	if err := requireRole(p, models.RoleRecruiter, op, "only recruiters can update application status"); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ApplicationID) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "application_id is required", nil)
	}

	app, err := s.apps.GetByID(ctx, in.ApplicationID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load application", err)
	}

	job, err := s.jobOf(ctx, app)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	if job.RecruiterID != p.UserID {
		return nil, utils.E(utils.CodeForbidden, op, "you do not own this job posting", nil)
	}

	var ev models.ApplicationEvent
	switch in.Status {
	case models.StatusSelected:
		if app.Status.Terminal() {
			return nil, utils.E(utils.CodeInvalidState, op, "application is already "+string(app.Status), nil)
		}
		if err := s.apps.MarkSelected(ctx, app.ID, job.ID); err != nil {
			return nil, s.transitionErr(op, err)
		}
		dropJobCache(ctx, s.cache, s.log, job.ID)
		ev = models.ApplicationEvent{Type: models.EventApplicationSelected, Status: models.StatusSelected}

	case models.StatusRejected:
		reason := strings.TrimSpace(in.RejectionReason)
		if reason == "" {
			return nil, utils.E(utils.CodeInvalidArgument, op, "rejection reason is required", nil)
		}
		if app.Status.Terminal() {
			return nil, utils.E(utils.CodeInvalidState, op, "application is already "+string(app.Status), nil)
		}
		if err := s.apps.MarkRejected(ctx, app.ID, reason); err != nil {
			return nil, s.transitionErr(op, err)
		}
		ev = models.ApplicationEvent{Type: models.EventApplicationRejected, Status: models.StatusRejected, Reason: reason}

	default:
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid status", nil)
	}

	updated, err := s.apps.GetByID(ctx, app.ID)
	if err != nil {
		s.log.WithError(err).WithField("application_id", app.ID).Warn("reload after status update failed")
		app.Status = ev.Status
		app.RejectionReason = ev.Reason
		updated = app
	}

	ev.ApplicationID = app.ID
	ev.JobID = job.ID
	ev.JobTitle = job.Title
	ev.ApplicantID = app.ApplicantID
	ev.RecruiterID = job.RecruiterID
	ev.ATSScore = app.ATSScore
	s.publish(ctx, op, ev)

	return updated, nil
}

func (s *applicationService) transitionErr(op string, err error) error {
	switch {
	case errors.Is(err, utils.ErrNoOpenings):
		return utils.E(utils.CodeInvalidState, op, "no openings left", err)
	case errors.Is(err, utils.ErrNotPending):
		return utils.E(utils.CodeInvalidState, op, "application is no longer pending", err)
	default:
		return utils.E(utils.CodeInternal, op, "failed to update application status", err)
	}
}

func (s *applicationService) jobOf(ctx context.Context, app *models.Application) (*models.Job, error) {
	if app.Job != nil && app.Job.ID == app.JobID {
		return app.Job, nil
	}
	return s.jobs.GetByID(ctx, app.JobID)
}

// publish is fire-and-forget: the write it describes is already committed.
func (s *applicationService) publish(ctx context.Context, op string, e models.ApplicationEvent) {
	if s.publisher == nil {
		return
	}
	e.ID = uuid.NewString()
	e.OccurredAt = s.clock.now()
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"op":             op,
			"event":          e.Type,
			"application_id": e.ApplicationID,
		}).Warn("failed to publish application event")
	}
}

func (s *applicationService) ListMine(ctx context.Context, p models.Principal) ([]models.Application, error) {
	const op = "ApplicationService.ListMine"

	if err := requireRole(p, models.RoleApplicant, op, "only applicants have applications"); err != nil {
		return nil, err
	}
	rows, err := s.apps.ListByApplicant(ctx, p.UserID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	return rows, nil
}

func (s *applicationService) ListForJob(ctx context.Context, p models.Principal, jobID string) ([]models.Application, error) {
	const op = "ApplicationService.ListForJob"

	if err := requireRole(p, models.RoleRecruiter, op, "only recruiters can view job applications"); err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	if job.RecruiterID != p.UserID {
		return nil, utils.E(utils.CodeForbidden, op, "you do not own this job posting", nil)
	}

	rows, err := s.apps.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	return rows, nil
}

func (s *applicationService) ListForRecruiter(ctx context.Context, p models.Principal) ([]models.Application, error) {
	const op = "ApplicationService.ListForRecruiter"

	if err := requireRole(p, models.RoleRecruiter, op, "only recruiters can view applications"); err != nil {
		return nil, err
	}
	rows, err := s.apps.ListByRecruiter(ctx, p.UserID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	return rows, nil
}

func (s *applicationService) Events(ctx context.Context, p models.Principal, applicationID string) ([]models.ApplicationEvent, error) {
	const op = "ApplicationService.Events"

	if p.UserID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "unauthorized", nil)
	}
	if s.events == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "event history is not configured", nil)
	}

	app, err := s.apps.GetByID(ctx, applicationID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load application", err)
	}

	allowed := p.Role == models.RoleAdmin || app.ApplicantID == p.UserID
	if !allowed && p.Role == models.RoleRecruiter {
		job, err := s.jobOf(ctx, app)
		if err != nil && !errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
		}
		allowed = job != nil && job.RecruiterID == p.UserID
	}
	if !allowed {
		return nil, utils.E(utils.CodeForbidden, op, "not allowed to view this application", nil)
	}

	rows, err := s.events.ListByApplication(ctx, app.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list application events", err)
	}
	return rows, nil
}

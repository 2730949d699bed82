package postgres

import (
	"context"
	"time"

	"github.com/yoockh/jobwallah/internal/models"
	"github.com/yoockh/jobwallah/internal/utils"
	"gorm.io/gorm"
)

type ApplicationRepository interface {
	// Create inserts a new application. A second row for the same
	// (job, applicant) pair fails with utils.ErrDuplicate.
	Create(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	Exists(ctx context.Context, jobID, applicantID string) (bool, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]models.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]models.Application, error)
	ListByRecruiter(ctx context.Context, recruiterID string) ([]models.Application, error)
	// MarkSelected consumes one opening of jobID and moves the application to
	// selected in a single transaction. It fails with utils.ErrNoOpenings when
	// the job has none left and utils.ErrNotPending when the application
	// already left pending; in both cases nothing is written.
	MarkSelected(ctx context.Context, applicationID, jobID string) error
	// MarkRejected moves a pending application to rejected.
	MarkRejected(ctx context.Context, applicationID, reason string) error
	Count(ctx context.Context) (int64, error)
}

type applicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, a *models.Application) error {
	return mapErr(r.db.WithContext(ctx).Omit("Job", "Applicant").Create(a).Error)
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*models.Application, error) {
	if !validID(id) {
		return nil, utils.ErrNotFound
	}
	var a models.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Where("id = ?", id).
		Take(&a).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

func (r *applicationRepo) Exists(ctx context.Context, jobID, applicantID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("job_id = ? AND applicant_id = ?", jobID, applicantID).
		Count(&n).Error
	return n > 0, err
}

func (r *applicationRepo) ListByApplicant(ctx context.Context, applicantID string) ([]models.Application, error) {
	var rows []models.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Where("applicant_id = ?", applicantID).
		Order("applied_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *applicationRepo) ListByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	var rows []models.Application
	err := r.db.WithContext(ctx).
		Preload("Applicant").
		Where("job_id = ?", jobID).
		Order("applied_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *applicationRepo) ListByRecruiter(ctx context.Context, recruiterID string) ([]models.Application, error) {
	var rows []models.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Preload("Applicant").
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.recruiter_id = ?", recruiterID).
		Order("applications.applied_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *applicationRepo) MarkSelected(ctx context.Context, applicationID, jobID string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Job{}).
			Where("id = ? AND openings > 0", jobID).
			UpdateColumns(map[string]any{
				"openings":   gorm.Expr("openings - 1"),
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrNoOpenings
		}

		res = tx.Model(&models.Application{}).
			Where("id = ? AND job_id = ? AND status = ?", applicationID, jobID, models.StatusPending).
			UpdateColumns(map[string]any{
				"status":           models.StatusSelected,
				"rejection_reason": "",
				"updated_at":       now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrNotPending
		}
		return nil
	})
}

func (r *applicationRepo) MarkRejected(ctx context.Context, applicationID, reason string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND status = ?", applicationID, models.StatusPending).
		UpdateColumns(map[string]any{
			"status":           models.StatusRejected,
			"rejection_reason": reason,
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotPending
	}
	return nil
}

func (r *applicationRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).Count(&n).Error
	return n, err
}

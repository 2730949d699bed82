package postgres

import (
	"context"
	"strings"

	"github.com/yoockh/jobwallah/internal/models"
	"github.com/yoockh/jobwallah/internal/utils"
	"gorm.io/gorm"
)

type JobRepository interface {
	Create(ctx context.Context, j *models.Job) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	List(ctx context.Context, f models.JobFilter) ([]models.Job, error)
	ListByRecruiter(ctx context.Context, recruiterID string) ([]models.Job, error)
	// Update writes the recruiter-editable columns of j. Openings is only
	// written when openingsFrom is set, and only while the stored value still
	// equals *openingsFrom; otherwise ErrStale.
	Update(ctx context.Context, j *models.Job, openingsFrom *int) error
	// Delete removes the job together with its applications.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type jobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

func withRecruiter(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email")
}

func (r *jobRepo) Create(ctx context.Context, j *models.Job) error {
	return mapErr(r.db.WithContext(ctx).Omit("Recruiter").Create(j).Error)
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	if !validID(id) {
		return nil, utils.ErrNotFound
	}
	var j models.Job
	err := r.db.WithContext(ctx).
		Preload("Recruiter", withRecruiter).
		Where("id = ?", id).
		Take(&j).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return &j, nil
}

func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.TrimSpace(s))
	return "%" + s + "%"
}

func (r *jobRepo) List(ctx context.Context, f models.JobFilter) ([]models.Job, error) {
	q := r.db.WithContext(ctx).Preload("Recruiter", withRecruiter)
	if strings.TrimSpace(f.Title) != "" {
		q = q.Where("title ILIKE ?", likePattern(f.Title))
	}
	if strings.TrimSpace(f.Location) != "" {
		q = q.Where("location ILIKE ?", likePattern(f.Location))
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if strings.TrimSpace(f.Type) != "" {
		q = q.Where("constraints ILIKE ?", likePattern(f.Type))
	}

	var rows []models.Job
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *jobRepo) ListByRecruiter(ctx context.Context, recruiterID string) ([]models.Job, error) {
	var rows []models.Job
	err := r.db.WithContext(ctx).
		Where("recruiter_id = ?", recruiterID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

var editableJobColumns = []string{"title", "description", "company", "location", "category", "deadline", "constraints", "salary", "updated_at"}

func (r *jobRepo) Update(ctx context.Context, j *models.Job, openingsFrom *int) error {
	q := r.db.WithContext(ctx).Model(&models.Job{ID: j.ID})
	cols := editableJobColumns
	if openingsFrom != nil {
		cols = append(append([]string{}, cols...), "openings")
		q = q.Where("openings = ?", *openingsFrom)
	}
	res := q.Select(cols).Updates(j)
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if openingsFrom == nil {
		return utils.ErrNotFound
	}

	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Job{}).Where("id = ?", j.ID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return utils.ErrNotFound
	}
	return utils.ErrStale
}

func (r *jobRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return utils.ErrNotFound
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Job{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrNotFound
		}
		return nil
	})
}

func (r *jobRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Job{}).Count(&n).Error
	return n, err
}

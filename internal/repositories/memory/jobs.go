package memory

import (
	"context"
	"sort"
	"time"

	"github.com/yoockh/jobwallah/internal/models"
	"github.com/yoockh/jobwallah/internal/utils"
)

type Jobs struct{ s *Store }

func (r *Jobs) Create(_ context.Context, j *models.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.jobs[j.ID]; ok {
		return utils.ErrDuplicate
	}
	now := time.Now().UTC()
	if j.CreatedAt.IsZero() {
		j.CreatedAt = now
	}
	j.UpdatedAt = now
	row := *j
	row.Recruiter = nil
	r.s.jobs[j.ID] = row
	return nil
}

func (r *Jobs) GetByID(_ context.Context, id string) (*models.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	j, ok := r.s.jobs[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	j.Recruiter = r.s.userRef(j.RecruiterID)
	return &j, nil
}

func (r *Jobs) List(_ context.Context, f models.JobFilter) ([]models.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.Job{}
	for _, j := range r.s.jobs {
		if !containsFold(j.Title, f.Title) || !containsFold(j.Location, f.Location) || !containsFold(j.Constraints, f.Type) {
			continue
		}
		if f.Category != "" && j.Category != f.Category {
			continue
		}
		j.Recruiter = r.s.userRef(j.RecruiterID)
		out = append(out, j)
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, nil
}

func (r *Jobs) ListByRecruiter(_ context.Context, recruiterID string) ([]models.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.Job{}
	for _, j := range r.s.jobs {
		if j.RecruiterID == recruiterID {
			out = append(out, j)
		}
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, nil
}

func (r *Jobs) Update(_ context.Context, j *models.Job, openingsFrom *int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.jobs[j.ID]
	if !ok {
		return utils.ErrNotFound
	}
	if openingsFrom != nil {
		if cur.Openings != *openingsFrom {
			return utils.ErrStale
		}
		cur.Openings = j.Openings
	}
	cur.Title = j.Title
	cur.Description = j.Description
	cur.Company = j.Company
	cur.Location = j.Location
	cur.Category = j.Category
	cur.Deadline = j.Deadline
	cur.Constraints = j.Constraints
	cur.Salary = j.Salary
	cur.UpdatedAt = j.UpdatedAt
	r.s.jobs[j.ID] = cur
	return nil
}

func (r *Jobs) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.jobs[id]; !ok {
		return utils.ErrNotFound
	}
	for appID, a := range r.s.apps {
		if a.JobID == id {
			delete(r.s.apps, appID)
		}
	}
	delete(r.s.jobs, id)
	return nil
}

func (r *Jobs) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.jobs)), nil
}

package memory

import (
	"context"
	"time"

	"github.com/yoockh/jobwallah/internal/models"
	"github.com/yoockh/jobwallah/internal/utils"
)

type Applications struct{ s *Store }

func (r *Applications) Create(_ context.Context, a *models.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.apps {
		if existing.JobID == a.JobID && existing.ApplicantID == a.ApplicantID {
			return utils.ErrDuplicate
		}
	}
	if _, ok := r.s.apps[a.ID]; ok {
		return utils.ErrDuplicate
	}
	row := *a
	row.Job, row.Applicant = nil, nil
	row.StrongKeywords = cloneStrings(a.StrongKeywords)
	row.MissingKeywords = cloneStrings(a.MissingKeywords)
	r.s.apps[a.ID] = row
	return nil
}

func (r *Applications) GetByID(_ context.Context, id string) (*models.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.apps[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	a.Job = r.s.jobRef(a.JobID)
	return &a, nil
}

func (r *Applications) Exists(_ context.Context, jobID, applicantID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.apps {
		if a.JobID == jobID && a.ApplicantID == applicantID {
			return true, nil
		}
	}
	return false, nil
}

func (r *Applications) ListByApplicant(_ context.Context, applicantID string) ([]models.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.Application{}
	for _, a := range r.s.apps {
		if a.ApplicantID == applicantID {
			a.Job = r.s.jobRef(a.JobID)
			out = append(out, a)
		}
	}
	sortAppsNewest(out)
	return out, nil
}

func (r *Applications) ListByJob(_ context.Context, jobID string) ([]models.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.Application{}
	for _, a := range r.s.apps {
		if a.JobID == jobID {
			a.Applicant = r.s.userRef(a.ApplicantID)
			out = append(out, a)
		}
	}
	sortAppsNewest(out)
	return out, nil
}

func (r *Applications) ListByRecruiter(_ context.Context, recruiterID string) ([]models.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.Application{}
	for _, a := range r.s.apps {
		j, ok := r.s.jobs[a.JobID]
		if !ok || j.RecruiterID != recruiterID {
			continue
		}
		a.Job = &j
		a.Applicant = r.s.userRef(a.ApplicantID)
		out = append(out, a)
	}
	sortAppsNewest(out)
	return out, nil
}

func (r *Applications) MarkSelected(_ context.Context, applicationID, jobID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	j, ok := r.s.jobs[jobID]
	if !ok || j.Openings <= 0 {
		return utils.ErrNoOpenings
	}
	a, ok := r.s.apps[applicationID]
	if !ok || a.JobID != jobID || a.Status != models.StatusPending {
		return utils.ErrNotPending
	}

	now := time.Now().UTC()
	j.Openings--
	j.UpdatedAt = now
	a.Status = models.StatusSelected
	a.RejectionReason = ""
	a.UpdatedAt = now
	r.s.jobs[jobID] = j
	r.s.apps[applicationID] = a
	return nil
}

func (r *Applications) MarkRejected(_ context.Context, applicationID, reason string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.apps[applicationID]
	if !ok || a.Status != models.StatusPending {
		return utils.ErrNotPending
	}
	a.Status = models.StatusRejected
	a.RejectionReason = reason
	a.UpdatedAt = time.Now().UTC()
	r.s.apps[applicationID] = a
	return nil
}

func (r *Applications) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.apps)), nil
}

package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/jobwallah/internal/models"
	mongorepo "github.com/yoockh/jobwallah/internal/repositories/mongo"
	pgrepo "github.com/yoockh/jobwallah/internal/repositories/postgres"
	"github.com/yoockh/jobwallah/internal/utils"
)

var (
	_ pgrepo.UserRepository           = (*Users)(nil)
	_ pgrepo.JobRepository            = (*Jobs)(nil)
	_ pgrepo.ApplicationRepository    = (*Applications)(nil)
	_ mongorepo.ResumeCheckRepository = (*ResumeChecks)(nil)
	_ mongorepo.EventRepository       = (*Events)(nil)
)

func seedJob(t *testing.T, st *Store, openings int) models.Job {
	t.Helper()
	j := models.Job{ID: uuid.NewString(), Title: "Go Engineer", RecruiterID: uuid.NewString(), Openings: openings, Category: models.CategoryBackendDeveloper}
	require.NoError(t, st.Jobs().Create(context.Background(), &j))
	return j
}

func TestApplications_UniquePair(t *testing.T) {
	st := NewStore()
	ctx := context.Background()
	job := seedJob(t, st, 1)
	applicant := uuid.NewString()

	first := models.Application{ID: uuid.NewString(), JobID: job.ID, ApplicantID: applicant, Status: models.StatusPending}
	require.NoError(t, st.Applications().Create(ctx, &first))

	second := models.Application{ID: uuid.NewString(), JobID: job.ID, ApplicantID: applicant, Status: models.StatusPending}
	assert.ErrorIs(t, st.Applications().Create(ctx, &second), utils.ErrDuplicate)

	n, err := st.Applications().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestApplications_MarkSelectedGuards(t *testing.T) {
	st := NewStore()
	ctx := context.Background()
	job := seedJob(t, st, 2)
	apps := st.Applications()

	var ids []string
	for i := 0; i < 8; i++ {
		a := models.Application{ID: uuid.NewString(), JobID: job.ID, ApplicantID: uuid.NewString(), Status: models.StatusPending}
		require.NoError(t, apps.Create(ctx, &a))
		ids = append(ids, a.ID)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		okCount int
		noOpen  int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			err := apps.MarkSelected(ctx, id, job.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				okCount++
			case err == utils.ErrNoOpenings:
				noOpen++
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 2, okCount)
	assert.Equal(t, 6, noOpen)

	got, err := st.Jobs().GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Openings)
}

func TestApplications_MarkSelectedTwice(t *testing.T) {
	st := NewStore()
	ctx := context.Background()
	job := seedJob(t, st, 3)

	a := models.Application{ID: uuid.NewString(), JobID: job.ID, ApplicantID: uuid.NewString(), Status: models.StatusPending}
	require.NoError(t, st.Applications().Create(ctx, &a))

	require.NoError(t, st.Applications().MarkSelected(ctx, a.ID, job.ID))
	assert.ErrorIs(t, st.Applications().MarkSelected(ctx, a.ID, job.ID), utils.ErrNotPending)

	got, err := st.Jobs().GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Openings)
}

func TestResumeChecks_OnePerDay(t *testing.T) {
	st := NewStore()
	ctx := context.Background()
	user := uuid.NewString()
	day := time.Date(2026, 3, 4, 23, 59, 0, 0, time.UTC)

	require.NoError(t, st.ResumeChecks().Insert(ctx, &models.ResumeCheck{ID: uuid.NewString(), UserID: user, CheckedAt: day}))
	assert.ErrorIs(t,
		st.ResumeChecks().Insert(ctx, &models.ResumeCheck{ID: uuid.NewString(), UserID: user, CheckedAt: day.Add(30 * time.Second)}),
		utils.ErrDuplicate)
	require.NoError(t, st.ResumeChecks().Insert(ctx, &models.ResumeCheck{ID: uuid.NewString(), UserID: user, CheckedAt: day.Add(2 * time.Minute)}))

	rows, err := st.ResumeChecks().Latest(ctx, user, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].CheckedAt.After(rows[1].CheckedAt))
}

func TestJobs_ListFilters(t *testing.T) {
	st := NewStore()
	ctx := context.Background()
	jobs := st.Jobs()

	require.NoError(t, jobs.Create(ctx, &models.Job{ID: uuid.NewString(), Title: "Senior Go Developer", Location: "Jakarta", Category: models.CategoryBackendDeveloper, Constraints: "Full-time, remote"}))
	require.NoError(t, jobs.Create(ctx, &models.Job{ID: uuid.NewString(), Title: "React Developer", Location: "Bandung", Category: models.CategoryFrontendDeveloper, Constraints: "Contract"}))

	rows, err := jobs.List(ctx, models.JobFilter{Title: "go"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = jobs.List(ctx, models.JobFilter{Type: "CONTRACT"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "React Developer", rows[0].Title)

	rows, err = jobs.List(ctx, models.JobFilter{Category: models.CategoryDataScientist})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

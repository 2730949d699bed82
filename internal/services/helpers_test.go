package services

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/jobwallah/internal/analyzer"
	"github.com/yoockh/jobwallah/internal/models"
	"github.com/yoockh/jobwallah/internal/providers/extract"
	"github.com/yoockh/jobwallah/internal/repositories/memory"
	"gorm.io/datatypes"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type memUploader struct {
	mu      sync.Mutex
	names   []string
	deleted []string
	err     error
}

func (u *memUploader) Upload(_ context.Context, objectName, _ string, r io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.names = append(u.names, objectName)
	return "mem://" + objectName, nil
}

func (u *memUploader) Delete(_ context.Context, objectName string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.deleted = append(u.deleted, objectName)
	return nil
}

type fixedAnalyzer struct {
	mu     sync.Mutex
	result analyzer.Analysis
	calls  int
}

func (a *fixedAnalyzer) Analyze(context.Context, string, string) analyzer.Analysis {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	return a.result
}

func (a *fixedAnalyzer) AnalyzeStandalone(context.Context, string) analyzer.Analysis {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	return a.result
}

func (a *fixedAnalyzer) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.ApplicationEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e models.ApplicationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []models.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// mapCache is a cache.Cache that keeps raw values instead of JSON.
type mapCache struct {
	mu   sync.Mutex
	vals map[string]models.Job
}

func newMapCache() *mapCache { return &mapCache{vals: map[string]models.Job{}} }

func (c *mapCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.vals[key]
	if !ok {
		return false, nil
	}
	*(dst.(*models.Job)) = v
	return true, nil
}

func (c *mapCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals[key] = *(val.(*models.Job))
	return nil
}

func (c *mapCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.vals, k)
	}
	return nil
}

func (c *mapCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.vals[key]
	return ok
}

// fakeClock is safe to read from concurrent goroutines.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func seedUser(t *testing.T, st *memory.Store, role models.UserRole) models.Principal {
	t.Helper()
	u := models.User{ID: uuid.NewString(), Name: string(role), Email: uuid.NewString() + "@example.com", Role: role}
	require.NoError(t, st.Users().Create(context.Background(), &u))
	return models.Principal{UserID: u.ID, Role: role}
}

func seedJob(t *testing.T, st *memory.Store, recruiter models.Principal, openings int, description string) models.Job {
	t.Helper()
	j := models.Job{
		ID:          uuid.NewString(),
		Title:       "Backend Engineer",
		Description: description,
		Company:     "Acme",
		Location:    "Remote",
		Category:    models.CategoryBackendDeveloper,
		Openings:    openings,
		Deadline:    datatypes.Date(time.Now().AddDate(0, 1, 0)),
		RecruiterID: recruiter.UserID,
	}
	require.NoError(t, st.Jobs().Create(context.Background(), &j))
	return j
}

func txtResume(body string) *ResumeFile {
	return &ResumeFile{Name: "resume.txt", Data: []byte(body)}
}

type appFixture struct {
	store     *memory.Store
	svc       ApplicationService
	analyzer  *fixedAnalyzer
	uploader  *memUploader
	publisher *recordingPublisher
	cache     *mapCache
}

func newAppFixture(result analyzer.Analysis) *appFixture {
	st := memory.NewStore()
	f := &appFixture{
		store:     st,
		analyzer:  &fixedAnalyzer{result: result},
		uploader:  &memUploader{},
		publisher: &recordingPublisher{},
		cache:     newMapCache(),
	}
	f.svc = NewApplicationService(ApplicationDeps{
		Jobs:         st.Jobs(),
		Applications: st.Applications(),
		Events:       st.Events(),
		Extractor:    extract.New(nil, quietLogger()),
		Analyzer:     f.analyzer,
		Uploader:     f.uploader,
		Publisher:    f.publisher,
		Cache:        f.cache,
		Logger:       quietLogger(),
	})
	return f
}

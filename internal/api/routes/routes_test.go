package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/jobwallah/internal/analyzer"
	"github.com/yoockh/jobwallah/internal/api/handlers"
	"github.com/yoockh/jobwallah/internal/models"
	"github.com/yoockh/jobwallah/internal/providers/extract"
	"github.com/yoockh/jobwallah/internal/quota"
	"github.com/yoockh/jobwallah/internal/repositories/memory"
	"github.com/yoockh/jobwallah/internal/services"
	"github.com/yoockh/jobwallah/internal/utils"
)

type discardUploader struct{}

func (discardUploader) Upload(_ context.Context, objectName, _ string, r io.Reader) (string, error) {
	_, err := io.Copy(io.Discard, r)
	return "mem://" + objectName, err
}

func (discardUploader) Delete(context.Context, string) error { return nil }

type staticAnalyzer struct{}

func (staticAnalyzer) Analyze(context.Context, string, string) analyzer.Analysis {
	return analyzer.Analysis{Score: 81, StrongKeywords: []string{"Go"}, MissingKeywords: []string{"gRPC"}}
}

func (staticAnalyzer) AnalyzeStandalone(context.Context, string) analyzer.Analysis {
	return analyzer.Analysis{Score: 74, StrongKeywords: []string{"Go"}, MissingKeywords: []string{"gRPC"}, Suggestions: []string{"Add metrics"}}
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	store  *memory.Store
	tokens *utils.TokenIssuer
}

func newTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	st := memory.NewStore()
	tokens := utils.NewTokenIssuer("test-secret", time.Hour, "jobwallah")
	ext := extract.New(nil, log)

	jobs := services.NewJobService(st.Jobs(), nil, log, nil)
	apps := services.NewApplicationService(services.ApplicationDeps{
		Jobs:         st.Jobs(),
		Applications: st.Applications(),
		Events:       st.Events(),
		Extractor:    ext,
		Analyzer:     staticAnalyzer{},
		Uploader:     discardUploader{},
		Logger:       log,
	})
	checks := services.NewResumeCheckService(services.ResumeCheckDeps{
		Checks:       st.ResumeChecks(),
		Applications: st.Applications(),
		Slots:        quota.NewMemorySlots(),
		Extractor:    ext,
		Analyzer:     staticAnalyzer{},
		Uploader:     discardUploader{},
		Logger:       log,
	})

	r := gin.New()
	RegisterRoutes(r, Deps{
		Tokens:      tokens,
		Health:      handlers.NewHealthHandler(nil),
		Auth:        handlers.NewAuthHandler(services.NewAuthService(st.Users(), tokens, nil)),
		Jobs:        handlers.NewJobHandler(jobs),
		Application: handlers.NewApplicationHandler(apps),
		Resume:      handlers.NewResumeHandler(checks),
		Admin:       handlers.NewAdminHandler(services.NewAdminService(st.Users(), st.Jobs(), st.Applications(), nil, log)),
	})
	return &testServer{t: t, engine: r, store: st, tokens: tokens}
}

func (s *testServer) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) json(method, path, token string, v any) *httptest.ResponseRecorder {
	var body io.Reader
	if v != nil {
		b, err := json.Marshal(v)
		require.NoError(s.t, err)
		body = bytes.NewReader(b)
	}
	return s.do(method, path, token, body, "application/json")
}

func (s *testServer) upload(path, token, filename, content string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("resume", filename)
	require.NoError(s.t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(s.t, err)
	require.NoError(s.t, mw.Close())
	return s.do(http.MethodPost, path, token, &buf, mw.FormDataContentType())
}

func (s *testServer) register(name, role string) string {
	w := s.json(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": name, "email": name + "@example.com", "password": "secret1", "role": role,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHiringFlow(t *testing.T) {
	s := newTestServer(t)
	recruiter := s.register("rita", "recruiter")
	alice := s.register("alice", "applicant")
	bob := s.register("bob", "applicant")

	w := s.json(http.MethodPost, "/api/jobs", recruiter, gin.H{
		"title": "Go Engineer", "description": "Build Go APIs", "company": "Acme",
		"location": "Remote", "category": "Backend Developer", "openings": 1, "deadline": "2030-01-31",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	job := decode[models.Job](t, w)

	w = s.json(http.MethodPost, "/api/jobs", alice, gin.H{"title": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/jobs?location=remote", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["count"])

	w = s.upload("/api/jobs/"+job.ID+"/apply", alice, "alice.txt", "Go, PostgreSQL")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	applied := decode[services.ApplyResult](t, w)
	assert.Equal(t, 81, applied.ATSScore)

	w = s.upload("/api/jobs/"+job.ID+"/apply", alice, "alice.txt", "Go, PostgreSQL")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/jobs/"+job.ID+"/apply", bob, nil, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bobApp := decode[services.ApplyResult](t, w)
	assert.Equal(t, 0, bobApp.ATSScore)

	w = s.json(http.MethodPatch, "/api/applications/"+applied.ApplicationID+"/status", recruiter, gin.H{"status": "selected"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.StatusSelected, decode[models.Application](t, w).Status)

	w = s.json(http.MethodPatch, "/api/applications/"+bobApp.ApplicationID+"/status", recruiter, gin.H{"status": "selected"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.CodeInvalidState, decode[handlers.APIError](t, w).Code)

	w = s.json(http.MethodPatch, "/api/applications/"+bobApp.ApplicationID+"/status", recruiter, gin.H{"status": "rejected"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.CodeInvalidArgument, decode[handlers.APIError](t, w).Code)

	w = s.json(http.MethodPatch, "/api/applications/"+bobApp.ApplicationID+"/status", recruiter, gin.H{"status": "rejected", "rejection_reason": "filled"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/jobs/"+job.ID, "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[models.Job](t, w).Openings)

	w = s.do(http.MethodGet, "/api/applications/mine", bob, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["count"])
}

func TestApplyWithEmptyResume(t *testing.T) {
	s := newTestServer(t)
	recruiter := s.register("rita", "recruiter")
	alice := s.register("alice", "applicant")

	w := s.json(http.MethodPost, "/api/jobs", recruiter, gin.H{
		"title": "Go Engineer", "description": "Build Go APIs", "company": "Acme",
		"location": "Remote", "category": "Backend Developer", "openings": 1, "deadline": "2030-01-31",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	job := decode[models.Job](t, w)

	w = s.upload("/api/jobs/"+job.ID+"/apply", alice, "alice.pdf", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 0, decode[services.ApplyResult](t, w).ATSScore)

	// a standalone check still needs content
	w = s.upload("/api/resume/check", alice, "cv.pdf", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.CodeInvalidArgument, decode[handlers.APIError](t, w).Code)
}

func TestMalformedIDsAreNotFound(t *testing.T) {
	s := newTestServer(t)
	recruiter := s.register("rita", "recruiter")
	alice := s.register("alice", "applicant")

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/jobs/abc", "", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/jobs/abc/apply", alice, nil, "").Code)
	w := s.json(http.MethodPatch, "/api/applications/abc/status", recruiter, gin.H{"status": "selected"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResumeCheckRateLimit(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice", "applicant")

	w := s.upload("/api/resume/check", alice, "cv.docx", "PK")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.upload("/api/resume/check", alice, "cv.txt", "Go developer")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 74, decode[models.ResumeCheck](t, w).ATSScore)

	w = s.upload("/api/resume/check", alice, "cv.txt", "Go developer")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	apiErr := decode[handlers.APIError](t, w)
	assert.Equal(t, utils.CodeRateLimited, apiErr.Code)
	require.NotNil(t, apiErr.NextCheckTime)
	_, dayEnd := utils.DayWindow(time.Now())
	assert.True(t, apiErr.NextCheckTime.Equal(dayEnd))

	w = s.do(http.MethodGet, "/api/resume/history", alice, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	h := decode[services.CheckHistory](t, w)
	assert.Len(t, h.History, 1)
	assert.False(t, h.CanCheckToday)
}

func TestAuthAndAdminGuards(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice", "applicant")

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/profile", "", nil, "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/auth/profile", alice, nil, "").Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/admin/users", alice, nil, "").Code)

	w := s.json(http.MethodPost, "/api/auth/register", "", gin.H{"name": "eve", "email": "eve@example.com", "password": "secret1", "role": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	admin := models.User{ID: "00000000-0000-0000-0000-000000000001", Name: "root", Email: "root@example.com", Role: models.RoleAdmin}
	require.NoError(t, s.store.Users().Create(context.Background(), &admin))
	adminToken, _, err := s.tokens.Issue(admin.ID, string(models.RoleAdmin))
	require.NoError(t, err)

	w = s.do(http.MethodGet, "/api/admin/analytics", adminToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[services.Analytics](t, w)
	assert.EqualValues(t, 2, stats.TotalUsers)
	assert.EqualValues(t, 1, stats.TotalApplicants)

	w = s.json(http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)

	users, err := s.store.Users().List(context.Background())
	require.NoError(t, err)
	var aliceID string
	for _, u := range users {
		if u.Email == "alice@example.com" {
			aliceID = u.ID
		}
	}
	require.NotEmpty(t, aliceID)

	w = s.do(http.MethodPatch, "/api/admin/users/"+aliceID+"/block", adminToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = s.json(http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/ping", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())

	w = s.do(http.MethodGet, "/health", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

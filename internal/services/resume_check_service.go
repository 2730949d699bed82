package services

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobwallah/internal/analyzer"
	"github.com/yoockh/jobwallah/internal/models"
	"github.com/yoockh/jobwallah/internal/providers/extract"
	"github.com/yoockh/jobwallah/internal/quota"
	mongorepo "github.com/yoockh/jobwallah/internal/repositories/mongo"
	pgrepo "github.com/yoockh/jobwallah/internal/repositories/postgres"
	"github.com/yoockh/jobwallah/internal/storage"
	"github.com/yoockh/jobwallah/internal/utils"
)

const (
	historyLimit     = 10
	checksPerDay     = 1
	resumeCheckScope = "resume_check"
)

type CheckHistory struct {
	History       []models.ResumeCheck `json:"history"`
	CanCheckToday bool                 `json:"can_check_today"`
	NextCheckTime *time.Time           `json:"next_check_time"`
}

type KeywordSuggestions struct {
	Strong  []string `json:"strong"`
	Missing []string `json:"missing"`
}

// ScoreSummary aggregates an applicant's scores across their applications.
type ScoreSummary struct {
	Score       int                `json:"score"`
	Suggestions KeywordSuggestions `json:"suggestions"`
}

type ResumeCheckService interface {
	Check(ctx context.Context, p models.Principal, f *ResumeFile) (*models.ResumeCheck, error)
	History(ctx context.Context, p models.Principal) (*CheckHistory, error)
	Score(ctx context.Context, p models.Principal) (*ScoreSummary, error)
}

type ResumeCheckDeps struct {
	Checks       mongorepo.ResumeCheckRepository
	Applications pgrepo.ApplicationRepository
	Slots        quota.Slots
	Extractor    extract.Extractor
	Analyzer     analyzer.Analyzer
	Uploader     storage.Uploader
	Logger       *logrus.Logger
	Clock        Clock
}

type resumeCheckService struct {
	checks   mongorepo.ResumeCheckRepository
	apps     pgrepo.ApplicationRepository
	slots    quota.Slots
	intake   resumeIntake
	analyzer analyzer.Analyzer
	log      *logrus.Logger
	clock    Clock
}

func NewResumeCheckService(d ResumeCheckDeps) ResumeCheckService {
	return &resumeCheckService{
		checks:   d.Checks,
		apps:     d.Applications,
		slots:    d.Slots,
		intake:   resumeIntake{uploader: d.Uploader, extractor: d.Extractor},
		analyzer: d.Analyzer,
		log:      orLogger(d.Logger),
		clock:    d.Clock,
	}
}

func checkableExt(ext string) bool { return ext == ".pdf" || ext == ".txt" }

func (s *resumeCheckService) Check(ctx context.Context, p models.Principal, f *ResumeFile) (*models.ResumeCheck, error) {
	const op = "ResumeCheckService.Check"

	if err := requireRole(p, models.RoleApplicant, op, "only applicants can check resumes"); err != nil {
		return nil, err
	}

	now := s.clock.now()
	dayStart, dayEnd := utils.DayWindow(now)

	n, err := s.checks.CountBetween(ctx, p.UserID, dayStart, dayEnd)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count today's checks", err)
	}
	if n >= checksPerDay {
		return nil, utils.RateLimited(op, "daily limit reached, you can check your resume once per day", dayEnd)
	}

	if f == nil || len(f.Data) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "resume file is required", nil)
	}
	if !checkableExt(f.Ext()) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "only .pdf and .txt resumes can be checked", nil)
	}

	slotKey := quota.DailyKey(resumeCheckScope, p.UserID, utils.DayKey(now))
	var token string
	if s.slots != nil {
		token, err = s.slots.Reserve(ctx, slotKey, dayEnd)
		if err != nil {
			return nil, utils.E(utils.CodeUnavailable, op, "failed to reserve daily check", err)
		}
		if token == "" {
			return nil, utils.RateLimited(op, "daily limit reached, you can check your resume once per day", dayEnd)
		}
	}

	committed := false
	defer func() {
		if committed || s.slots == nil {
			return
		}
		// request ctx may already be cancelled here
		if err := s.slots.Release(context.Background(), slotKey, token); err != nil {
			s.log.WithError(err).WithField("user_id", p.UserID).Warn("failed to release resume check slot")
		}
	}()

	stored, extracted, err := s.intake.process(ctx, op, "resume-checks", p.UserID, f)
	if err != nil {
		return nil, err
	}

	result := analyzer.Analysis{StrongKeywords: []string{}, MissingKeywords: []string{}, Suggestions: []string{}}
	log := s.log.WithFields(logrus.Fields{"op": op, "user_id": p.UserID, "extract": extracted.Status})
	if extracted.Empty() {
		log.Warn("resume text unavailable, skipping analysis")
	} else if s.analyzer != nil {
		result = s.analyzer.AnalyzeStandalone(ctx, extracted.Text)
		if result.Degraded {
			log.WithField("score", result.Score).Warn("resume check with fallback score")
		}
	}

	row := &models.ResumeCheck{
		ID:              uuid.NewString(),
		UserID:          p.UserID,
		Resume:          stored.Path,
		ATSScore:        result.Score,
		StrongKeywords:  emptyIfNil(result.StrongKeywords),
		MissingKeywords: emptyIfNil(result.MissingKeywords),
		Suggestions:     emptyIfNil(result.Suggestions),
		CheckedAt:       now,
		CheckDay:        utils.DayKey(now),
	}
	if err := s.checks.Insert(ctx, row); err != nil {
		s.intake.discard(ctx, s.log, op, stored)
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.RateLimited(op, "daily limit reached, you can check your resume once per day", dayEnd)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to save resume check", err)
	}
	committed = true
	return row, nil
}

func (s *resumeCheckService) History(ctx context.Context, p models.Principal) (*CheckHistory, error) {
	const op = "ResumeCheckService.History"

	if err := requireRole(p, models.RoleApplicant, op, "only applicants have resume checks"); err != nil {
		return nil, err
	}

	rows, err := s.checks.Latest(ctx, p.UserID, historyLimit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load resume check history", err)
	}

	dayStart, dayEnd := utils.DayWindow(s.clock.now())
	n, err := s.checks.CountBetween(ctx, p.UserID, dayStart, dayEnd)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count today's checks", err)
	}

	out := &CheckHistory{History: rows, CanCheckToday: n < checksPerDay}
	if out.History == nil {
		out.History = []models.ResumeCheck{}
	}
	if !out.CanCheckToday {
		next := dayEnd
		out.NextCheckTime = &next
	}
	return out, nil
}

var wordRe = regexp.MustCompile(`\b\w{3,}\b`)

func (s *resumeCheckService) Score(ctx context.Context, p models.Principal) (*ScoreSummary, error) {
	const op = "ResumeCheckService.Score"

	if err := requireRole(p, models.RoleApplicant, op, "only applicants have resume scores"); err != nil {
		return nil, err
	}
	if s.apps == nil {
		return nil, utils.E(utils.CodeInternal, op, "applications are not configured", nil)
	}

	apps, err := s.apps.ListByApplicant(ctx, p.UserID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	return summarizeScores(apps), nil
}

// summarizeScores averages ATS scores and ranks job-description words:
// words seen more than 0.7n times are strong, fewer than 0.3n missing.
func summarizeScores(apps []models.Application) *ScoreSummary {
	out := &ScoreSummary{Suggestions: KeywordSuggestions{Strong: []string{}, Missing: []string{}}}
	if len(apps) == 0 {
		return out
	}

	total := 0
	freq := map[string]int{}
	var order []string
	for _, a := range apps {
		total += a.ATSScore
		if a.Job == nil {
			continue
		}
		text := strings.ToLower(a.Job.Description + " " + a.Job.Constraints)
		for _, w := range wordRe.FindAllString(text, -1) {
			if _, seen := freq[w]; !seen {
				order = append(order, w)
			}
			freq[w]++
		}
	}

	n := float64(len(apps))
	out.Score = int(math.Round(float64(total) / n))
	for _, w := range order {
		c := float64(freq[w])
		if c > n*0.7 && len(out.Suggestions.Strong) < 10 {
			out.Suggestions.Strong = append(out.Suggestions.Strong, w)
		}
		if c < n*0.3 && len(out.Suggestions.Missing) < 10 {
			out.Suggestions.Missing = append(out.Suggestions.Missing, w)
		}
	}
	return out
}

package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobwallah/internal/providers/llm"
)

// Analysis is a resume score with keyword sets. Degraded marks a fallback
// result produced because the oracle failed or answered garbage.
type Analysis struct {
	Score           int      `json:"score"`
	StrongKeywords  []string `json:"strong_keywords"`
	MissingKeywords []string `json:"missing_keywords"`
	Suggestions     []string `json:"suggestions,omitempty"`
	Degraded        bool     `json:"-"`
}

// Analyzer never fails: oracle errors turn into fixed fallback results.
// Callers must not invoke it with empty resume text.
type Analyzer interface {
	Analyze(ctx context.Context, resumeText, jobDescription string) Analysis
	AnalyzeStandalone(ctx context.Context, resumeText string) Analysis
}

type Option func(*analyzer)

func WithTimeout(d time.Duration) Option {
	return func(a *analyzer) {
		if d > 0 {
			a.timeout = d
		}
	}
}

type analyzer struct {
	oracle  llm.Provider
	timeout time.Duration
	log     *logrus.Logger
}

func New(oracle llm.Provider, log *logrus.Logger, opts ...Option) Analyzer {
	if log == nil {
		log = logrus.New()
	}
	a := &analyzer{oracle: oracle, timeout: 30 * time.Second, log: log}
	for _, o := range opts {
		o(a)
	}
	return a
}

const jobPrompt = `You are an applicant tracking system. Compare the resume with the job description.
Answer with JSON only, no markdown, exactly this shape:
{"score": <integer 0-100>, "strongKeywords": [<keywords present in both>], "missingKeywords": [<job keywords absent from the resume>]}

RESUME:
%s

JOB DESCRIPTION:
%s
`

const standalonePrompt = `You are an applicant tracking system. Analyze this resume for ATS compatibility.
Provide:
1. Overall ATS compatibility score (0-100)
2. Strong keywords present in the resume (top 10)
3. Missing keywords that should be added for better ATS performance (top 10)
4. Specific suggestions for improvement (3-5 actionable items)

Answer with JSON only, no markdown, exactly this shape:
{"score": <integer 0-100>, "strongKeywords": [...], "missingKeywords": [...], "suggestions": [...]}

RESUME:
%s
`

func (a *analyzer) Analyze(ctx context.Context, resumeText, jobDescription string) Analysis {
	reply, err := a.ask(ctx, fmt.Sprintf(jobPrompt, resumeText, jobDescription))
	if err != nil {
		a.log.WithError(err).WithField("kind", "job").Warn("resume analysis degraded: oracle call failed")
		return jobCallFailed()
	}

	out, err := parseReply(reply, false)
	if err != nil {
		a.log.WithError(err).WithField("kind", "job").Warn("resume analysis degraded: unparseable reply")
		return jobUnparseable()
	}
	return out
}

func (a *analyzer) AnalyzeStandalone(ctx context.Context, resumeText string) Analysis {
	reply, err := a.ask(ctx, fmt.Sprintf(standalonePrompt, resumeText))
	if err != nil {
		a.log.WithError(err).WithField("kind", "standalone").Warn("resume analysis degraded: oracle call failed")
		return standaloneCallFailed()
	}

	out, err := parseReply(reply, true)
	if err != nil {
		a.log.WithError(err).WithField("kind", "standalone").Warn("resume analysis degraded: unparseable reply")
		return standaloneUnparseable()
	}
	return out
}

// ask performs exactly one oracle call bounded by the analyzer timeout.
func (a *analyzer) ask(ctx context.Context, prompt string) (reply string, err error) {
	if a.oracle == nil {
		return "", llm.ErrEmptyReply
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("oracle panic: %v", r)
		}
	}()

	start := time.Now()
	reply, err = a.oracle.Generate(ctx, prompt)
	a.log.WithFields(logrus.Fields{
		"latency_ms": time.Since(start).Milliseconds(),
		"reply_len":  len(reply),
	}).Debug("oracle call")
	return reply, err
}

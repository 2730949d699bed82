package analyzer

// Fixed results used when the oracle cannot be reached or answers garbage.
const (
	JobFallbackCallFailed         = 50
	JobFallbackUnparseable        = 70
	StandaloneFallbackCallFailed  = 70
	StandaloneFallbackUnparseable = 75
)

func jobCallFailed() Analysis {
	return Analysis{Score: JobFallbackCallFailed, StrongKeywords: []string{}, MissingKeywords: []string{}, Degraded: true}
}

func jobUnparseable() Analysis {
	return Analysis{Score: JobFallbackUnparseable, StrongKeywords: []string{}, MissingKeywords: []string{}, Degraded: true}
}

func standaloneCallFailed() Analysis {
	return Analysis{
		Score:           StandaloneFallbackCallFailed,
		StrongKeywords:  []string{"JavaScript", "React"},
		MissingKeywords: []string{"TypeScript", "Database"},
		Suggestions: []string{
			"Add more technical skills",
			"Include quantifiable achievements",
			"Use standard resume format",
		},
		Degraded: true,
	}
}

func standaloneUnparseable() Analysis {
	return Analysis{
		Score:           StandaloneFallbackUnparseable,
		StrongKeywords:  []string{"JavaScript", "React", "Node.js", "Python", "SQL"},
		MissingKeywords: []string{"TypeScript", "MongoDB", "AWS", "Docker", "Git"},
		Suggestions: []string{
			"Add more technical skills relevant to your target roles",
			"Include quantifiable achievements in your experience section",
			"Use standard section headings like 'Skills', 'Experience', 'Education'",
			"Optimize keyword density without keyword stuffing",
			"Ensure your resume is in a clean, readable format",
		},
		Degraded: true,
	}
}

package analyzer

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const maxKeywords = 20

var (
	errNoJSON  = errors.New("no json object in reply")
	errNoScore = errors.New("reply has no numeric score")
)

// extractJSON returns the first balanced {...} object in s, skipping
// braces inside string literals.
func extractJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func firstOf(doc string, keys ...string) gjson.Result {
	for _, k := range keys {
		if r := gjson.Get(doc, k); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

func readScore(r gjson.Result) (int, bool) {
	var f float64
	switch r.Type {
	case gjson.Number:
		f = r.Float()
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(r.Str), "%"), 64)
		if err != nil {
			return 0, false
		}
		f = v
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	n := int(math.Round(f))
	if n < 0 {
		n = 0
	}
	if n > 100 {
		n = 100
	}
	return n, true
}

// readStrings accepts an array of strings or a comma separated string.
func readStrings(r gjson.Result) []string {
	var raw []string
	switch {
	case r.IsArray():
		for _, v := range r.Array() {
			if v.Type == gjson.String || v.Type == gjson.Number {
				raw = append(raw, v.String())
			}
		}
	case r.Type == gjson.String:
		raw = strings.Split(r.Str, ",")
	}

	out := make([]string, 0, len(raw))
	seen := map[string]struct{}{}
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
		if len(out) == maxKeywords {
			break
		}
	}
	return out
}

func parseReply(reply string, withSuggestions bool) (Analysis, error) {
	doc, ok := extractJSON(reply)
	if !ok || !gjson.Valid(doc) {
		return Analysis{}, errNoJSON
	}

	score, ok := readScore(firstOf(doc, "score", "atsScore", "ats_score"))
	if !ok {
		return Analysis{}, errNoScore
	}

	out := Analysis{
		Score:           score,
		StrongKeywords:  readStrings(firstOf(doc, "strongKeywords", "strong_keywords")),
		MissingKeywords: readStrings(firstOf(doc, "missingKeywords", "missing_keywords")),
	}
	if withSuggestions {
		out.Suggestions = readStrings(gjson.Get(doc, "suggestions"))
	}
	return out, nil
}

// Package masking redacts candidate PII (phone numbers, email addresses,
// mainland ID numbers) from text before it reaches logs or prompts sent to
// third-party LLM providers.
package masking

import (
	"log/slog"
	"regexp"
)

// CompiledPattern holds a pre-compiled regex pattern with its replacement.
type CompiledPattern struct {
	Name        string
	Regex       *regexp.Regexp
	Replacement string
	Description string
}

// builtinPatterns are the PII patterns applied by default. Patterns are
// deliberately conservative: a missed match leaks less than a greedy
// pattern corrupting prompt text.
var builtinPatterns = []struct {
	name, pattern, replacement, description string
}{
	{
		name:        "cn_mobile",
		pattern:     `(?:^|[^0-9])(1[3-9]\d{9})(?:[^0-9]|$)`,
		replacement: "***MASKED_PHONE***",
		description: "Mainland mobile number",
	},
	{
		name:        "email",
		pattern:     `[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`,
		replacement: "***MASKED_EMAIL***",
		description: "Email address",
	},
	{
		name:        "cn_id_number",
		pattern:     `(?:^|[^0-9Xx])(\d{17}[\dXx])(?:[^0-9Xx]|$)`,
		replacement: "***MASKED_ID***",
		description: "Mainland resident ID number",
	},
}

// Service applies the compiled masking patterns.
type Service struct {
	patterns []*CompiledPattern
}

// NewService compiles the built-in patterns. Invalid patterns are logged
// and skipped.
func NewService() *Service {
	s := &Service{}
	for _, p := range builtinPatterns {
		compiled, err := regexp.Compile(p.pattern)
		if err != nil {
			slog.Error("Failed to compile built-in masking pattern, skipping",
				"pattern", p.name, "error", err)
			continue
		}
		s.patterns = append(s.patterns, &CompiledPattern{
			Name:        p.name,
			Regex:       compiled,
			Replacement: p.replacement,
			Description: p.description,
		})
	}
	return s
}

// Mask returns data with every PII match replaced. Matches that include a
// one-character boundary keep that boundary character.
func (s *Service) Mask(data string) string {
	for _, p := range s.patterns {
		data = p.Regex.ReplaceAllStringFunc(data, func(m string) string {
			prefix, suffix := "", ""
			// Boundary groups: keep the surrounding non-digit characters.
			if idx := p.Regex.FindStringSubmatchIndex(m); len(idx) >= 4 && idx[2] >= 0 {
				prefix = m[:idx[2]]
				suffix = m[idx[3]:]
			}
			return prefix + p.Replacement + suffix
		})
	}
	return data
}

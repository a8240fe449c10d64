package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var sectionPipeline = Pipeline{strings.TrimSpace, strings.ToLower}

var reClockDigits = regexp.MustCompile(`^(\d{1,2})[:.](\d{2})(?::(\d{2}))?$`)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeActor keeps the actor readable but collapses whitespace.
func NormalizeActor(actor string) string {
	return TrimAndNormalize(actor)
}

// NormalizeSection lowercases a section selector. "Any" becomes "any".
func NormalizeSection(section string) string {
	return sectionPipeline.Apply(section)
}

// NormalizeTimeOfDay pads single-digit hours and accepts a dot separator,
// so "8.30" and "8:30" both become "08:30". Anything else is only trimmed.
func NormalizeTimeOfDay(t string) string {
	t = strings.TrimSpace(t)
	m := reClockDigits.FindStringSubmatch(t)
	if m == nil {
		return t
	}
	hour := m[1]
	if len(hour) == 1 {
		hour = "0" + hour
	}
	out := hour + ":" + m[2]
	if m[3] != "" {
		out += ":" + m[3]
	}
	return out
}

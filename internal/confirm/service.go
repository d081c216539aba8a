package confirm

import (
	"regexp"
	"strings"
)

const (
	// Whole-word phrase lists. Both apostrophe variants of "don't" are
	// matched because speech transcripts and keyboards disagree.
	AffirmativePattern = `\b(yes|yep|yeah|sure|do it|please|go ahead|sounds good|ok|okay)\b`
	NegativePattern    = `\b(no|nah|don’t|don't|dont|stop|cancel|not now)\b`
)

// Service classifies a user utterance as an answer to a yes/no question.
// Both predicates may be false: an ambiguous reply is neither.
type Service interface {
	// IsAffirmative reports whether the text contains an affirmative phrase
	IsAffirmative(text string) bool

	// IsNegative reports whether the text contains a negative phrase
	IsNegative(text string) bool
}

type service struct {
	affirmative *regexp.Regexp
	negative    *regexp.Regexp
}

func New() Service {
	return &service{
		affirmative: regexp.MustCompile(AffirmativePattern),
		negative:    regexp.MustCompile(NegativePattern),
	}
}

func (s *service) IsAffirmative(text string) bool {
	return s.affirmative.MatchString(normalize(text))
}

func (s *service) IsNegative(text string) bool {
	return s.negative.MatchString(normalize(text))
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

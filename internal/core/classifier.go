package core

import (
	"regexp"
	"strings"
)

// IntentClassifier decides whether a chat turn asks for building
// recommendations or continues the conversation.
type IntentClassifier interface {
	WantsRecommendations(message string) bool
}

// DefaultTriggerWords mark a turn as recommendation-seeking.
var DefaultTriggerWords = []string{"find", "recommend", "location", "place", "where", "suggest", "fit", "best"}

// KeywordClassifier matches whole trigger words, case-insensitively.
type KeywordClassifier struct {
	pattern *regexp.Regexp
}

func NewKeywordClassifier(words ...string) *KeywordClassifier {
	if len(words) == 0 {
		words = DefaultTriggerWords
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return &KeywordClassifier{
		pattern: regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`),
	}
}

func (k *KeywordClassifier) WantsRecommendations(message string) bool {
	return k.pattern.MatchString(message)
}

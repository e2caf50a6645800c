package insights

import (
	"regexp"
	"strings"

	"github.com/julianstephens/sanctuary/internal/constants"
)

type categoryRule struct {
	category constants.Category
	match    func(lower string) bool
}

var (
	taskPrefix     = regexp.MustCompile(`^(need to|should|must|have to|todo|do|fix|call|email|buy|order|schedule|book)`)
	reminderPrefix = regexp.MustCompile(`^(remember|don't forget|remind|note to self)`)
	reminderWords  = regexp.MustCompile(`tomorrow|next week|later`)
	ideaPrefix     = regexp.MustCompile(`^(what if|maybe|idea|could|might|thought about)`)
)

// categoryRules are evaluated in order; the first match wins.
// Prefixes match on characters, so "doorbell" counts as a task.
var categoryRules = []categoryRule{
	{constants.CategoryTask, taskPrefix.MatchString},
	{constants.CategoryReminder, func(s string) bool {
		return reminderPrefix.MatchString(s) || reminderWords.MatchString(s)
	}},
	{constants.CategoryIdea, func(s string) bool {
		return ideaPrefix.MatchString(s) || strings.HasSuffix(s, "?")
	}},
}

// Categorize assigns a brain dump category to free text. Text that matches no
// rule is a note.
func Categorize(text string) constants.Category {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, rule := range categoryRules {
		if rule.match(lower) {
			return rule.category
		}
	}
	return constants.CategoryNote
}

package engine

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// maxQuestionLen bounds what a single turn may feed the model.
const maxQuestionLen = 1000

const truncationMark = "... [truncated]"

var (
	urlRe    = regexp.MustCompile(`http\S+|www\.\S+`)
	fencedRe = regexp.MustCompile("(?s)```.*?```")
	inlineRe = regexp.MustCompile("`[^`]*`")
	spaceRe  = regexp.MustCompile(`\s+`)
)

// filterInput strips URLs and code spans from a question and bounds its
// length. Links and pasted code are the usual carriers for prompt
// injection, so they never reach the model.
func filterInput(q string) string {
	q = urlRe.ReplaceAllString(q, "")
	q = fencedRe.ReplaceAllString(q, "")
	q = inlineRe.ReplaceAllString(q, "")
	q = strings.TrimSpace(spaceRe.ReplaceAllString(q, " "))

	runes := []rune(q)
	if len(runes) > maxQuestionLen {
		q = string(runes[:maxQuestionLen]) + truncationMark
	}
	return q
}

// denylist of keyword substrings that short-circuit to the refusal
// string before any model call.
var denylist = []string{
	"personal information",
	"password",
	"credit card",
	"ssn",
	"social security",
	"illegal",
	"hack",
	"cheat",
	"exam paper",
	"leak",
	"adult content",
	"porn",
	"violence",
	"hate speech",
	"discrimination",
}

// offTopic reports whether a filtered question trips the denylist.
func offTopic(q string) bool {
	lower := strings.ToLower(q)
	return lo.SomeBy(denylist, func(kw string) bool {
		return strings.Contains(lower, kw)
	})
}

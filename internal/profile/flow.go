// Package profile runs the fixed-order interview that collects a
// student's exam, subjects, optional context and recent marks before the
// coach takes over. The state machine itself is pure; Collector wires it
// to the persistence layer.
package profile

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/zenark/exambuddy/internal/model"
)

// Stage is a step of the profile interview. Stages always advance in
// declaration order; invalid input keeps the stage where it is.
type Stage int

const (
	StageExam Stage = iota
	StageSubjects
	StageContext
	StageMarks
	StageDone
)

// State carries the interview progress. It lives for one UI session and
// is rebuilt or discarded on reload; the durable outcome is the student
// record committed when the interview completes.
type State struct {
	Stage      Stage
	Exam       string
	Category   model.ExamCategory
	TargetYear int
	Subjects   []string
	Marks      []model.Mark
	// MarkIndex is the subject currently being asked about. It only
	// moves forward on a valid score.
	MarkIndex int
	Context   string
}

// Canned prompts. Their exact text is load-bearing: redisplay after a
// reload is suppressed by comparing message content against these strings,
// so changing one re-asks every student mid-interview.
var (
	PromptExam     = "Which exam are you preparing for? I can help with " + strings.Join(ExamNames(), ", ") + "."
	PromptSubjects = "Which subjects are you focusing on? List them separated by commas, for example: Physics, Chemistry, Mathematics."
	PromptContext  = `Anything else I should know? Mention any specific topics, difficulties, or preferences you have, or type "skip".`

	invalidExam     = "I didn't recognize that exam. Please choose one of: " + strings.Join(ExamNames(), ", ") + "."
	invalidSubjects = "I didn't catch any subjects. Please list them separated by commas, like: Physics, Chemistry, Mathematics."
)

// MarksPrompt asks for one subject's latest score.
func MarksPrompt(subject string) string {
	return fmt.Sprintf("What was your most recent %s score out of 100?", titleCase(subject))
}

func invalidMarks(subject string) string {
	return fmt.Sprintf("Please give a number between 0 and 100 for %s.", titleCase(subject))
}

// Welcome closes the interview, enumerating what was collected.
func welcome(st State) string {
	display := lo.Map(st.Subjects, func(s string, _ int) string { return titleCase(s) })
	return fmt.Sprintf("Great, your profile is set! %s it is. We'll focus on: %s. Ask me anything about exam preparation!",
		st.Exam, strings.Join(display, ", "))
}

// Advance consumes one student answer and returns the updated state plus
// the assistant's reply: the next stage's prompt, a re-prompt for the
// same stage, or the closing welcome. It performs no I/O.
func Advance(st State, input string) (State, string) {
	input = strings.TrimSpace(input)

	switch st.Stage {
	case StageExam:
		name, year := splitExamYear(input)
		exam, category, ok := IsValidExam(name)
		if !ok {
			return st, invalidExam
		}
		st.Exam, st.Category, st.TargetYear = exam, category, year
		st.Stage = StageSubjects
		return st, PromptSubjects

	case StageSubjects:
		subjects := ParseSubjects(input)
		if len(subjects) == 0 {
			return st, invalidSubjects
		}
		st.Subjects = subjects
		st.Stage = StageContext
		return st, PromptContext

	case StageContext:
		if !strings.EqualFold(input, "skip") {
			st.Context = input
		}
		st.Stage = StageMarks
		st.MarkIndex = 0
		return st, MarksPrompt(st.Subjects[0])

	case StageMarks:
		score, err := parseScore(input)
		if err != nil {
			// Same subject again: nothing is committed for a bad score.
			return st, invalidMarks(st.Subjects[st.MarkIndex])
		}
		st.Marks = append(st.Marks, model.Mark{Subject: st.Subjects[st.MarkIndex], Score: score})
		st.MarkIndex++
		if st.MarkIndex < len(st.Subjects) {
			return st, MarksPrompt(st.Subjects[st.MarkIndex])
		}
		st.Stage = StageDone
		return st, welcome(st)
	}

	return st, ""
}

// Prompt returns the question pending at the current stage, so a reloaded
// UI can re-display it, subject to ShouldDisplay.
func Prompt(st State) string {
	switch st.Stage {
	case StageExam:
		return PromptExam
	case StageSubjects:
		return PromptSubjects
	case StageContext:
		return PromptContext
	case StageMarks:
		if st.MarkIndex < len(st.Subjects) {
			return MarksPrompt(st.Subjects[st.MarkIndex])
		}
	}
	return ""
}

// ShouldDisplay reports whether a canned prompt still needs showing, by
// scanning the log for an exact content match.
func ShouldDisplay(history []model.Message, prompt string) bool {
	return !lo.SomeBy(history, func(m model.Message) bool {
		return m.Role == model.RoleAssistant && m.Content == prompt
	})
}

// BuildContext assembles the collected profile into the context string
// the coach prompt consumes.
func BuildContext(st State) string {
	var sb strings.Builder
	sb.WriteString("Exam: " + st.Exam)
	if st.TargetYear > 0 {
		fmt.Fprintf(&sb, " (Target: %d)", st.TargetYear)
	}
	sb.WriteString("\nSubjects: " + strings.Join(st.Subjects, ", "))
	sb.WriteString("\nAdditional context: " + st.Context)
	return sb.String()
}

// ParseSubjects splits a comma-separated answer, trimming, folding case
// and dropping empties and duplicates. Order is preserved.
func ParseSubjects(input string) []string {
	parts := strings.Split(input, ",")
	subjects := lo.FilterMap(parts, func(p string, _ int) (string, bool) {
		p = strings.TrimSpace(p)
		if p == "" {
			return "", false
		}
		return cases.Fold().String(p), true
	})
	return lo.Uniq(subjects)
}

var yearRe = regexp.MustCompile(`\b20\d{2}\b`)

// splitExamYear peels an optional target year off the exam answer
// ("JEE Mains 2027").
func splitExamYear(input string) (string, int) {
	m := yearRe.FindString(input)
	if m == "" {
		return input, 0
	}
	year, _ := strconv.Atoi(m)
	return strings.TrimSpace(strings.Replace(input, m, "", 1)), year
}

func parseScore(input string) (float64, error) {
	score, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(score) || score < 0 || score > 100 {
		return 0, fmt.Errorf("score %v out of range", score)
	}
	return score, nil
}

// Casers are stateful, so build one per call instead of sharing.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

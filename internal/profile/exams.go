package profile

import (
	"strings"

	"github.com/samber/lo"

	"github.com/zenark/exambuddy/internal/model"
)

type examInfo struct {
	name     string
	category model.ExamCategory
}

// examCatalog is the fixed table of exams the interview accepts.
var examCatalog = []examInfo{
	{"JEE Mains", model.CategoryEngineering},
	{"JEE Advanced", model.CategoryEngineering},
	{"BITSAT", model.CategoryEngineering},
	{"GATE", model.CategoryEngineering},
	{"NEET", model.CategoryMedical},
	{"AIIMS", model.CategoryMedical},
	{"JIPMER", model.CategoryMedical},
}

// examSynonyms maps common spellings to catalog names. Keys are lowercase
// with single spaces.
var examSynonyms = map[string]string{
	"jee":          "JEE Mains",
	"jee main":     "JEE Mains",
	"jee mains":    "JEE Mains",
	"jee advanced": "JEE Advanced",
	"jee adv":      "JEE Advanced",
	"iit":          "JEE Advanced",
	"iit jee":      "JEE Advanced",
	"iit-jee":      "JEE Advanced",
	"neet":         "NEET",
	"neet ug":      "NEET",
	"neet-ug":      "NEET",
	"aiims":        "AIIMS",
	"jipmer":       "JIPMER",
	"bitsat":       "BITSAT",
	"gate":         "GATE",
}

// IsValidExam matches a student's answer against the exam catalog,
// case-insensitively and through synonyms. Unrecognized input returns
// ok=false with an empty category.
func IsValidExam(input string) (string, model.ExamCategory, bool) {
	key := strings.Join(strings.Fields(strings.ToLower(input)), " ")
	if canonical, ok := examSynonyms[key]; ok {
		key = strings.ToLower(canonical)
	}
	for _, e := range examCatalog {
		if strings.ToLower(e.name) == key {
			return e.name, e.category, true
		}
	}
	return "", "", false
}

// ExamNames lists the catalog in its fixed order.
func ExamNames() []string {
	return lo.Map(examCatalog, func(e examInfo, _ int) string { return e.name })
}

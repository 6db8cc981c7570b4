// Package prompts assembles the system prompts sent to the model.
// Templates are embedded and parsed once.
package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"sync"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	loadOnce    sync.Once
	loadErr     error
	coachTmpl   *template.Template
	summaryTmpl *template.Template
)

// CoachData fills the coach persona prompt.
type CoachData struct {
	// Context is the student's profile string (exam, subjects, free text).
	Context string
	// Recap is the rendered tail of the persisted conversation, used to
	// warm a fresh process that lost its in-memory history.
	Recap string
	// Language is the canonical name the reply should be written in.
	Language string
}

func load() error {
	loadOnce.Do(func() {
		parse := func(name string) *template.Template {
			if loadErr != nil {
				return nil
			}
			data, err := templateFS.ReadFile("templates/" + name)
			if err != nil {
				loadErr = fmt.Errorf("read prompt template %s: %w", name, err)
				return nil
			}
			t, err := template.New(name).Parse(string(data))
			if err != nil {
				loadErr = fmt.Errorf("parse prompt template %s: %w", name, err)
				return nil
			}
			return t
		}
		coachTmpl = parse("coach_system.tmpl")
		summaryTmpl = parse("summary_system.tmpl")
	})
	return loadErr
}

// BuildCoachSystem renders the coach persona prompt.
func BuildCoachSystem(data CoachData) (string, error) {
	if err := load(); err != nil {
		return "", err
	}
	if data.Language == "" {
		data.Language = "English"
	}
	if data.Context == "" {
		data.Context = "none"
	}

	var buf bytes.Buffer
	if err := coachTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SummarySystem renders the transcript summarizer prompt.
func SummarySystem() (string, error) {
	if err := load(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := summaryTmpl.Execute(&buf, nil); err != nil {
		return "", err
	}
	return buf.String(), nil
}

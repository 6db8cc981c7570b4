package prompts

import (
	"strings"
	"testing"
)

func TestBuildCoachSystem(t *testing.T) {
	t.Run("full data", func(t *testing.T) {
		prompt, err := BuildCoachSystem(CoachData{
			Context:  "Exam: JEE Mains (Target: 2027)\nSubjects: physics, maths",
			Recap:    "[user] what is torque\n[assistant] Torque is ...",
			Language: "Hindi",
		})
		if err != nil {
			t.Fatalf("BuildCoachSystem: %v", err)
		}
		if !strings.Contains(prompt, "Exam: JEE Mains (Target: 2027)") {
			t.Error("prompt should contain the student context")
		}
		if !strings.Contains(prompt, "[user] what is torque") {
			t.Error("prompt should contain the recap")
		}
		if !strings.Contains(prompt, "User's preferred language: Hindi") {
			t.Error("prompt should name the preferred language")
		}
		if !strings.Contains(prompt, "ONLY respond to questions related to exam preparation") {
			t.Error("prompt should carry the scope rule")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		prompt, err := BuildCoachSystem(CoachData{})
		if err != nil {
			t.Fatalf("BuildCoachSystem: %v", err)
		}
		if !strings.Contains(prompt, "User's preferred language: English") {
			t.Error("empty language should default to English")
		}
		if !strings.Contains(prompt, "Current user context: none") {
			t.Error("empty context should render as none")
		}
		if strings.Contains(prompt, "Recent conversation:") {
			t.Error("empty recap should omit the recap section")
		}
	})
}

func TestSummarySystem(t *testing.T) {
	prompt, err := SummarySystem()
	if err != nil {
		t.Fatalf("SummarySystem: %v", err)
	}
	if !strings.Contains(prompt, "3 to 5 sentences") {
		t.Error("summary prompt should bound the length")
	}
	if !strings.Contains(prompt, "Do not invent details") {
		t.Error("summary prompt should forbid invention")
	}
}

func TestQuoteCycles(t *testing.T) {
	first := Quote(0)
	if first == "" {
		t.Fatal("expected a quote for turn 0")
	}
	if got := Quote(len(quotes)); got != first {
		t.Errorf("Quote should cycle: Quote(%d) = %q, want %q", len(quotes), got, first)
	}
	if Quote(1) == first {
		t.Error("consecutive turns should rotate the pool")
	}
	if got := Quote(-3); got == "" {
		t.Error("negative counters should still pick a quote")
	}
}

package model

import "time"

// TranscriptExport is the top-level JSON structure for a session transcript dump.
type TranscriptExport struct {
	SessionID       string          `json:"session_id"`
	StudentID       string          `json:"student_id,omitempty"`
	Exam            string          `json:"exam,omitempty"`
	Category        ExamCategory    `json:"category,omitempty"`
	Language        string          `json:"language,omitempty"`
	ProfileComplete bool            `json:"profile_complete"`
	CreatedAt       time.Time       `json:"created_at"`
	LastActivity    time.Time       `json:"last_activity"`
	Context         string          `json:"context,omitempty"`
	Messages        []TranscriptMsg `json:"messages"`
}

// TranscriptMsg is a single message in an exported transcript.
type TranscriptMsg struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

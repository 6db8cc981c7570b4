package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role represents a chat message role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ExamCategory groups exams by track.
type ExamCategory string

const (
	// CategoryEngineering covers JEE-track exams.
	CategoryEngineering ExamCategory = "engineering"
	// CategoryMedical covers NEET-track exams.
	CategoryMedical ExamCategory = "medical"
)

// Message is a single turn in a session's conversation log.
type Message struct {
	Role      Role      `bson:"role" json:"role"`
	Content   string    `bson:"content" json:"content"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// NewMessage stamps a message with the current UTC time.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content, Timestamp: time.Now().UTC()}
}

// Session is a student's chat session document.
//
// SessionID is unique across the collection. StudentID carries a sparse
// unique index, so a student holds at most one live session while sessions
// without a student (not yet bound) stay legal. ExpiresAt is TTL-indexed;
// every read or write slides it forward.
type Session struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	SessionID       string             `bson:"session_id" json:"session_id"`
	StudentID       string             `bson:"student_id,omitempty" json:"student_id,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	LastActivity    time.Time          `bson:"last_activity" json:"last_activity"`
	ExpiresAt       time.Time          `bson:"expires_at" json:"expires_at"`
	Conversation    []Message          `bson:"conversation,omitempty" json:"conversation,omitempty"`
	Context         string             `bson:"context,omitempty" json:"context,omitempty"`
	ProfileComplete bool               `bson:"profile_complete" json:"profile_complete"`
	Language        string             `bson:"language,omitempty" json:"language,omitempty"`
}

// Mark is one subject's most recent score, in the 0-100 range.
type Mark struct {
	Subject string  `bson:"subject" json:"subject"`
	Score   float64 `bson:"score" json:"score"`
}

// Student is the profile document collected by the interview flow.
// Students are provisioned externally; login never creates one.
type Student struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	StudentID  string             `bson:"student_id" json:"student_id"`
	Name       string             `bson:"name,omitempty" json:"name,omitempty"`
	Exam       string             `bson:"exam,omitempty" json:"exam,omitempty"`
	Category   ExamCategory       `bson:"category,omitempty" json:"category,omitempty"`
	TargetYear int                `bson:"target_year,omitempty" json:"target_year,omitempty"`
	Subjects   []string           `bson:"subjects,omitempty" json:"subjects,omitempty"`
	Marks      []Mark             `bson:"marks,omitempty" json:"marks,omitempty"`
	Context    string             `bson:"context,omitempty" json:"context,omitempty"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

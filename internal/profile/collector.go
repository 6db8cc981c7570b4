package profile

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/zenark/exambuddy/internal/model"
)

// Store is the slice of the persistence layer the collector needs.
// *store.Store satisfies it.
type Store interface {
	AppendMessage(ctx context.Context, sessionID string, msg model.Message) error
	UpdateSession(ctx context.Context, sessionID string, fields bson.M) error
	SaveContext(ctx context.Context, sessionID, text string) error
	UpsertStudent(ctx context.Context, st *model.Student) error
	Student(ctx context.Context, studentID string) (*model.Student, error)
}

// Collector runs the interview for one session, persisting every prompt
// and answer as it goes and committing the finished profile. Storage
// failures are logged and the interview carries on — the student is
// never blocked on a write (the durable log just has a gap).
type Collector struct {
	store     Store
	log       *slog.Logger
	sessionID string
	studentID string
	state     State
}

// NewCollector starts an interview at the exam stage.
func NewCollector(st Store, sessionID, studentID string, log *slog.Logger) *Collector {
	if log == nil {
		log = slog.Default()
	}
	return &Collector{
		store:     st,
		log:       log,
		sessionID: sessionID,
		studentID: studentID,
	}
}

// Resume rebuilds a collector at a given state, for a reloaded UI.
func Resume(st Store, sessionID, studentID string, state State, log *slog.Logger) *Collector {
	c := NewCollector(st, sessionID, studentID, log)
	c.state = state
	return c
}

// Start returns the current stage's prompt and records it, unless the
// exact prompt text already sits in history (a reload must not re-ask a
// question the student has answered). ok=false means nothing to display.
func (c *Collector) Start(ctx context.Context, history []model.Message) (string, bool) {
	prompt := Prompt(c.state)
	if prompt == "" || !ShouldDisplay(history, prompt) {
		return "", false
	}
	c.persist(ctx, model.RoleAssistant, prompt)
	return prompt, true
}

// HandleInput consumes one student answer: both the answer and the
// resulting prompt (or welcome) land in the session log, and completing
// the final stage commits the profile. done reports whether the
// interview has finished and the coach should take over.
func (c *Collector) HandleInput(ctx context.Context, input string) (reply string, done bool) {
	c.persist(ctx, model.RoleUser, input)

	c.state, reply = Advance(c.state, input)
	c.persist(ctx, model.RoleAssistant, reply)

	if c.state.Stage == StageDone {
		c.commit(ctx)
		return reply, true
	}
	return reply, false
}

// Done reports whether the interview has completed.
func (c *Collector) Done() bool {
	return c.state.Stage == StageDone
}

// State returns a copy of the interview progress, for persistence across
// a UI reload.
func (c *Collector) State() State {
	return c.state
}

// commit writes the finished profile: marks replace the student's prior
// marks wholesale, the session is flagged complete, and the assembled
// context string is stored for the coach prompt.
func (c *Collector) commit(ctx context.Context) {
	st := &model.Student{StudentID: c.studentID}
	if prev, err := c.store.Student(ctx, c.studentID); err == nil {
		st = prev
	}
	st.Exam = c.state.Exam
	st.Category = c.state.Category
	st.TargetYear = c.state.TargetYear
	st.Subjects = c.state.Subjects
	st.Marks = c.state.Marks
	st.Context = c.state.Context

	if err := c.store.UpsertStudent(ctx, st); err != nil {
		c.log.Warn("commit student profile", "student_id", c.studentID, "error", err)
	}
	if err := c.store.UpdateSession(ctx, c.sessionID, bson.M{"profile_complete": true}); err != nil {
		c.log.Warn("flag profile complete", "session_id", c.sessionID, "error", err)
	}
	if err := c.store.SaveContext(ctx, c.sessionID, BuildContext(c.state)); err != nil {
		c.log.Warn("save profile context", "session_id", c.sessionID, "error", err)
	}
}

func (c *Collector) persist(ctx context.Context, role model.Role, content string) {
	if err := c.store.AppendMessage(ctx, c.sessionID, model.NewMessage(role, content)); err != nil {
		c.log.Warn("persist interview message", "session_id", c.sessionID, "role", role, "error", err)
	}
}

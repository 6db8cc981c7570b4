// Package auth manages the login lifecycle: one live session per student,
// reused across logins, preserved (not deleted) on logout with the
// conversation summarized into the session context for the next visit.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zenark/exambuddy/internal/model"
	"github.com/zenark/exambuddy/internal/store"
)

var (
	// ErrBadStudentID means the identifier is not in the store's native
	// 24-character hex shape.
	ErrBadStudentID = errors.New("auth: malformed student id")
	// ErrUnknownStudent means no student record exists for the
	// identifier. Students are provisioned externally; login never
	// creates one.
	ErrUnknownStudent = errors.New("auth: unknown student")
)

// createAttempts bounds the duplicate-key retry loop when two logins for
// the same student race on session creation.
const createAttempts = 3

const retryBackoff = 50 * time.Millisecond

// SessionStore is the slice of the persistence layer the manager needs.
// *store.Store satisfies it.
type SessionStore interface {
	Session(ctx context.Context, sessionID string) (*model.Session, error)
	SessionByStudent(ctx context.Context, studentID string) (*model.Session, error)
	CreateSession(ctx context.Context, sess *model.Session) error
	UpdateSession(ctx context.Context, sessionID string, fields bson.M) error
	Conversation(ctx context.Context, sessionID string, limit int) ([]model.Message, error)
	SaveContext(ctx context.Context, sessionID, text string) error
	Student(ctx context.Context, studentID string) (*model.Student, error)
}

// Summarizer condenses a transcript into a few sentences of carry-over
// context. The conversational engine satisfies it.
type Summarizer interface {
	Summarize(ctx context.Context, msgs []model.Message) (string, error)
}

type Manager struct {
	store      SessionStore
	summarizer Summarizer
	log        *slog.Logger
}

// New creates a manager. summarizer may be nil, in which case logout
// skips summarization and only refreshes the record.
func New(st SessionStore, summarizer Summarizer, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{store: st, summarizer: summarizer, log: log}
}

// Login resolves a student identifier to their live session, creating one
// when none exists. A second login reuses the same session rather than
// creating a duplicate; the stored context summary rides along on the
// returned session.
func (m *Manager) Login(ctx context.Context, studentID string) (*model.Session, error) {
	if _, err := primitive.ObjectIDFromHex(studentID); err != nil {
		return nil, ErrBadStudentID
	}

	if _, err := m.store.Student(ctx, studentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnknownStudent
		}
		return nil, fmt.Errorf("look up student: %w", err)
	}

	// Reuse the existing session when there is one: refresh its window
	// and hand it back, conversation and context intact.
	if sess, err := m.store.SessionByStudent(ctx, studentID); err == nil {
		if err := m.store.UpdateSession(ctx, sess.SessionID, bson.M{}); err != nil {
			m.log.Warn("refresh session on login", "session_id", sess.SessionID, "error", err)
		}
		m.log.Info("login reused session", "student_id", studentID, "session_id", sess.SessionID)
		return sess, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("look up session: %w", err)
	}

	return m.createSession(ctx, studentID)
}

// createSession inserts a fresh session, retrying a bounded number of
// times when a concurrent login wins the unique-index race; the loser
// adopts the winner's session.
func (m *Manager) createSession(ctx context.Context, studentID string) (*model.Session, error) {
	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		sess := &model.Session{
			SessionID: uuid.NewString(),
			StudentID: studentID,
		}
		err := m.store.CreateSession(ctx, sess)
		if err == nil {
			m.log.Info("login created session", "student_id", studentID, "session_id", sess.SessionID)
			return sess, nil
		}
		lastErr = err
		if !store.IsDuplicateKey(err) {
			return nil, fmt.Errorf("create session: %w", err)
		}

		if winner, err := m.store.SessionByStudent(ctx, studentID); err == nil {
			m.log.Info("login adopted racing session", "student_id", studentID, "session_id", winner.SessionID)
			return winner, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryBackoff):
		}
	}
	return nil, fmt.Errorf("create session after %d attempts: %w", createAttempts, lastErr)
}

// SessionByID returns the live session or store.ErrNotFound. The store
// enforces expiry both via its TTL index and an explicit guard, so an
// expired-but-not-yet-reaped record never comes back.
func (m *Manager) SessionByID(ctx context.Context, sessionID string) (*model.Session, error) {
	return m.store.Session(ctx, sessionID)
}

// StudentBySession resolves session -> student. Either hop missing
// yields store.ErrNotFound.
func (m *Manager) StudentBySession(ctx context.Context, sessionID string) (*model.Student, error) {
	sess, err := m.store.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.StudentID == "" {
		return nil, store.ErrNotFound
	}
	return m.store.Student(ctx, sess.StudentID)
}

// EnsureSession repairs state before a message write: it creates a bare
// session document when none exists and leaves an existing one untouched.
// Idempotent — a second call with the same identifier is a no-op.
func (m *Manager) EnsureSession(ctx context.Context, sessionID, studentID string) error {
	_, err := m.store.Session(ctx, sessionID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	err = m.store.CreateSession(ctx, &model.Session{SessionID: sessionID, StudentID: studentID})
	if store.IsDuplicateKey(err) {
		// Lost a race with another writer; the session exists now.
		return nil
	}
	return err
}

// Logout closes a session without deleting it. The conversation is
// summarized into the context field so the student's next login starts
// warm; a summarizer failure only logs — logout itself never fails on
// model errors. The record then ages out through the normal TTL window
// unless the student returns.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	msgs, err := m.store.Conversation(ctx, sessionID, 0)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("read conversation for logout: %w", err)
	}

	if m.summarizer != nil && len(msgs) > 0 {
		summary, err := m.summarizer.Summarize(ctx, msgs)
		if err != nil {
			m.log.Warn("summarize on logout", "session_id", sessionID, "error", err)
		} else if summary != "" {
			if err := m.store.SaveContext(ctx, sessionID, summary); err != nil {
				return fmt.Errorf("save logout summary: %w", err)
			}
		}
	}

	if err := m.store.UpdateSession(ctx, sessionID, bson.M{}); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("refresh session on logout: %w", err)
	}
	m.log.Info("logout", "session_id", sessionID, "messages", len(msgs))
	return nil
}

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/zenark/exambuddy/internal/model"
)

// ExportTranscript builds an export-ready transcript for one session.
// Student profile fields are filled in when the session is bound to a
// student that still exists; a missing student is not an error.
func (s *Store) ExportTranscript(ctx context.Context, sessionID string) (*model.TranscriptExport, error) {
	sess, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("export session %s: %w", sessionID, err)
	}

	exp := &model.TranscriptExport{
		SessionID:       sess.SessionID,
		StudentID:       sess.StudentID,
		Language:        sess.Language,
		ProfileComplete: sess.ProfileComplete,
		CreatedAt:       sess.CreatedAt,
		LastActivity:    sess.LastActivity,
		Context:         sess.Context,
	}

	if sess.StudentID != "" {
		st, err := s.Student(ctx, sess.StudentID)
		switch {
		case errors.Is(err, ErrNotFound):
			// session outlived the student record
		case err != nil:
			return nil, err
		default:
			exp.Exam = st.Exam
			exp.Category = st.Category
		}
	}

	for _, m := range sess.Conversation {
		exp.Messages = append(exp.Messages, model.TranscriptMsg{
			Role:    string(m.Role),
			Content: m.Content,
			At:      m.Timestamp,
		})
	}
	return exp, nil
}

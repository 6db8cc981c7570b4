package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zenark/exambuddy/internal/model"
)

// recentWindow is how many trailing messages feed the conversation recap.
const recentWindow = 3

// SaveContext stores the student's free-text context on the session,
// creating the document if needed.
func (s *Store) SaveContext(ctx context.Context, sessionID, text string) error {
	update := bson.M{"$set": bson.M{"context": text}}
	_, err := s.sessions.UpdateOne(ctx, bson.M{"session_id": sessionID}, update,
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save context for session %s: %w", sessionID, err)
	}
	return nil
}

// Context returns the session's stored free-text context.
// A session without one returns ErrNotFound.
func (s *Store) Context(ctx context.Context, sessionID string) (string, error) {
	opts := options.FindOne().SetProjection(bson.M{"context": 1})

	var sess model.Session
	err := s.sessions.FindOne(ctx, bson.M{"session_id": sessionID}, opts).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get context for session %s: %w", sessionID, err)
	}
	if sess.Context == "" {
		return "", ErrNotFound
	}
	return sess.Context, nil
}

// RecentMessages returns the trailing recap window of a session's log.
func (s *Store) RecentMessages(ctx context.Context, sessionID string) ([]model.Message, error) {
	return s.Conversation(ctx, sessionID, recentWindow)
}

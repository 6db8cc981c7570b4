package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zenark/exambuddy/internal/model"
)

// Session returns a live session by its session_id and refreshes
// last_activity in the same round trip. Expired or missing sessions
// return ErrNotFound.
func (s *Store) Session(ctx context.Context, sessionID string) (*model.Session, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"session_id": sessionID,
		"expires_at": bson.M{"$gt": now},
	}
	update := bson.M{"$set": bson.M{"last_activity": now}}

	var sess model.Session
	err := s.sessions.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	return &sess, nil
}

// SessionByStudent returns the student's live session, newest activity
// first. The sparse unique index means there is at most one.
func (s *Store) SessionByStudent(ctx context.Context, studentID string) (*model.Session, error) {
	filter := bson.M{
		"student_id": studentID,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "last_activity", Value: -1}})

	var sess model.Session
	err := s.sessions.FindOne(ctx, filter, opts).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session for student %s: %w", studentID, err)
	}
	return &sess, nil
}

// CreateSession inserts a new session document with a full TTL window.
// A unique index violation (another login won the race) surfaces as-is;
// check it with IsDuplicateKey.
func (s *Store) CreateSession(ctx context.Context, sess *model.Session) error {
	now := time.Now().UTC()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	sess.LastActivity = now
	sess.ExpiresAt = now.Add(SessionTTL)

	if _, err := s.sessions.InsertOne(ctx, sess); err != nil {
		if IsDuplicateKey(err) {
			return err
		}
		return fmt.Errorf("create session %s: %w", sess.SessionID, err)
	}
	return nil
}

// UpdateSession applies a partial $set to a session and slides its
// expiry window forward.
func (s *Store) UpdateSession(ctx context.Context, sessionID string, fields bson.M) error {
	now := time.Now().UTC()
	set := bson.M{
		"last_activity": now,
		"expires_at":    now.Add(SessionTTL),
	}
	for k, v := range fields {
		set[k] = v
	}

	res, err := s.sessions.UpdateOne(ctx, bson.M{"session_id": sessionID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update session %s: %w", sessionID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendMessage appends one message to the session's conversation log in a
// single atomic update: the $slice keeps only the newest MaxConversation
// entries, and the same update slides the TTL window. Upsert recreates the
// document if the session record vanished mid-conversation.
func (s *Store) AppendMessage(ctx context.Context, sessionID string, msg model.Message) error {
	now := time.Now().UTC()
	update := bson.M{
		"$push": bson.M{
			"conversation": bson.M{
				"$each":  []model.Message{msg},
				"$slice": -MaxConversation,
			},
		},
		"$set": bson.M{
			"last_activity": now,
			"expires_at":    now.Add(SessionTTL),
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}

	_, err := s.sessions.UpdateOne(ctx, bson.M{"session_id": sessionID}, update,
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("append message to session %s: %w", sessionID, err)
	}
	return nil
}

// Conversation returns the last limit messages of a session's log.
// A limit <= 0 returns the whole capped array.
func (s *Store) Conversation(ctx context.Context, sessionID string, limit int) ([]model.Message, error) {
	opts := options.FindOne()
	if limit > 0 {
		opts = opts.SetProjection(bson.M{"conversation": bson.M{"$slice": -limit}})
	}

	var sess model.Session
	err := s.sessions.FindOne(ctx, bson.M{"session_id": sessionID}, opts).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation for session %s: %w", sessionID, err)
	}
	return sess.Conversation, nil
}

// DeleteSession removes a session document. Deleting a session that does
// not exist is not an error.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := s.sessions.DeleteOne(ctx, bson.M{"session_id": sessionID}); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

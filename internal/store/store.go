package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// SessionTTL is the sliding expiry window for session documents.
	// Reads and writes push expires_at forward by this much.
	SessionTTL = 7 * 24 * time.Hour

	// MaxConversation caps the per-session message log. Appends past the
	// cap drop the oldest entries server-side.
	MaxConversation = 80

	connectTimeout = 5 * time.Second

	sessionCollection = "exam_buddy_session"
	studentCollection = "student_marks"
)

// ErrNotFound is returned when a requested document does not exist
// or has already expired.
var ErrNotFound = errors.New("store: not found")

type Store struct {
	client   *mongo.Client
	sessions *mongo.Collection
	students *mongo.Collection
}

// New connects to MongoDB, verifies the connection and ensures indexes.
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{
		client:   client,
		sessions: db.Collection(sessionCollection),
		students: db.Collection(studentCollection),
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return s, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the session and student indexes. Safe to call on
// every startup: creating an index that already exists is a no-op.
//
// The sparse unique index on student_id is what enforces "at most one live
// session per student" at the storage level; sessions not yet bound to a
// student carry no student_id and stay out of the index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.sessions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("expires_at_ttl").SetExpireAfterSeconds(0),
		},
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetName("session_id_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "student_id", Value: 1}},
			Options: options.Index().SetName("student_id_unique").SetUnique(true).SetSparse(true),
		},
	})
	if err != nil {
		return fmt.Errorf("session indexes: %w", err)
	}

	_, err = s.students.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "student_id", Value: 1}},
		Options: options.Index().SetName("student_id_unique").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("student indexes: %w", err)
	}
	return nil
}

// IsDuplicateKey reports whether err is a unique index violation, so that
// callers can handle insert races without importing the driver.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

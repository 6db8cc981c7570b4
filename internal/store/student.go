package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zenark/exambuddy/internal/model"
)

// Student returns a student record by its external identifier.
func (s *Store) Student(ctx context.Context, studentID string) (*model.Student, error) {
	var st model.Student
	err := s.students.FindOne(ctx, bson.M{"student_id": studentID}).Decode(&st)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get student %s: %w", studentID, err)
	}
	return &st, nil
}

// UpsertStudent replaces the student's profile document wholesale, keyed
// by student_id. Marks are never merged: the stored slice is whatever the
// caller passes.
func (s *Store) UpsertStudent(ctx context.Context, st *model.Student) error {
	st.UpdatedAt = time.Now().UTC()
	st.ID = primitive.NilObjectID // keep _id out of the replacement document

	_, err := s.students.ReplaceOne(ctx, bson.M{"student_id": st.StudentID}, st,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert student %s: %w", st.StudentID, err)
	}
	slog.Info("stored student profile", "student_id", st.StudentID, "exam", st.Exam, "subjects", len(st.Subjects))
	return nil
}

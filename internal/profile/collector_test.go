package profile

import (
	"context"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/zenark/exambuddy/internal/model"
	"github.com/zenark/exambuddy/internal/store"
)

type fakeStore struct {
	log      []model.Message
	students map[string]*model.Student
	fields   bson.M
	contexts map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		students: map[string]*model.Student{},
		contexts: map[string]string{},
	}
}

func (f *fakeStore) AppendMessage(_ context.Context, _ string, msg model.Message) error {
	f.log = append(f.log, msg)
	return nil
}

func (f *fakeStore) UpdateSession(_ context.Context, _ string, fields bson.M) error {
	f.fields = fields
	return nil
}

func (f *fakeStore) SaveContext(_ context.Context, id, text string) error {
	f.contexts[id] = text
	return nil
}

func (f *fakeStore) UpsertStudent(_ context.Context, st *model.Student) error {
	f.students[st.StudentID] = st
	return nil
}

func (f *fakeStore) Student(_ context.Context, id string) (*model.Student, error) {
	if st, ok := f.students[id]; ok {
		return st, nil
	}
	return nil, store.ErrNotFound
}

// Scenario: a new student walks the whole interview — NEET, three
// subjects, skipped context, three marks — and ends with a committed
// profile and a welcome naming every subject.
func TestCollectorFullInterview(t *testing.T) {
	fs := newFakeStore()
	c := NewCollector(fs, "sess-1", "64a000000000000000000001", nil)
	ctx := context.Background()

	prompt, ok := c.Start(ctx, nil)
	if !ok || prompt != PromptExam {
		t.Fatalf("Start = %q, %v; want the exam prompt", prompt, ok)
	}

	steps := []struct {
		input    string
		wantDone bool
	}{
		{"NEET", false},
		{"Physics, Chemistry, Biology", false},
		{"skip", false},
		{"70", false},
		{"80", false},
		{"90", true},
	}
	var last string
	for _, s := range steps {
		reply, done := c.HandleInput(ctx, s.input)
		if done != s.wantDone {
			t.Fatalf("HandleInput(%q) done = %v, want %v", s.input, done, s.wantDone)
		}
		last = reply
	}

	for _, subject := range []string{"Physics", "Chemistry", "Biology"} {
		if !strings.Contains(last, subject) {
			t.Errorf("welcome %q should name %s", last, subject)
		}
	}
	if !c.Done() {
		t.Error("collector should report done")
	}

	st := fs.students["64a000000000000000000001"]
	if st == nil {
		t.Fatal("profile was not committed")
	}
	wantMarks := []model.Mark{
		{Subject: "physics", Score: 70},
		{Subject: "chemistry", Score: 80},
		{Subject: "biology", Score: 90},
	}
	if len(st.Marks) != len(wantMarks) {
		t.Fatalf("marks = %v, want %v", st.Marks, wantMarks)
	}
	for i := range wantMarks {
		if st.Marks[i] != wantMarks[i] {
			t.Errorf("marks[%d] = %v, want %v", i, st.Marks[i], wantMarks[i])
		}
	}
	if st.Exam != "NEET" || st.Category != model.CategoryMedical {
		t.Errorf("exam = %q category = %q", st.Exam, st.Category)
	}

	if v, ok := fs.fields["profile_complete"]; !ok || v != true {
		t.Errorf("session should be flagged complete, got %v", fs.fields)
	}
	if got := fs.contexts["sess-1"]; !strings.Contains(got, "Exam: NEET") {
		t.Errorf("profile context should be saved, got %q", got)
	}

	// Every prompt and answer was recorded: 1 opening prompt + 6 answer
	// pairs.
	if len(fs.log) != 13 {
		t.Errorf("expected 13 logged messages, got %d", len(fs.log))
	}
}

func TestCollectorInvalidInputKeepsStage(t *testing.T) {
	fs := newFakeStore()
	c := NewCollector(fs, "sess-1", "64a000000000000000000001", nil)
	ctx := context.Background()

	c.HandleInput(ctx, "NEET")
	c.HandleInput(ctx, "Biology")
	c.HandleInput(ctx, "skip")

	reply, done := c.HandleInput(ctx, "one hundred")
	if done {
		t.Fatal("invalid mark must not finish the interview")
	}
	if got := c.State(); got.MarkIndex != 0 || len(got.Marks) != 0 {
		t.Errorf("invalid mark mutated state: %+v", got)
	}
	if !strings.Contains(reply, "Biology") {
		t.Errorf("re-prompt should name the same subject, got %q", reply)
	}
}

func TestCollectorStartSuppressesShownPrompt(t *testing.T) {
	fs := newFakeStore()
	history := []model.Message{model.NewMessage(model.RoleAssistant, PromptExam)}
	c := NewCollector(fs, "sess-1", "64a000000000000000000001", nil)

	if prompt, ok := c.Start(context.Background(), history); ok {
		t.Errorf("reload must not re-ask %q", prompt)
	}
	if len(fs.log) != 0 {
		t.Errorf("suppressed prompt must not be recorded again, got %v", fs.log)
	}
}

func TestCollectorResume(t *testing.T) {
	fs := newFakeStore()
	state := State{Stage: StageMarks, Exam: "NEET", Category: model.CategoryMedical,
		Subjects: []string{"botany"}, MarkIndex: 0}
	c := Resume(fs, "sess-1", "64a000000000000000000001", state, nil)

	prompt, ok := c.Start(context.Background(), nil)
	if !ok || !strings.Contains(prompt, "Botany") {
		t.Errorf("resumed collector should ask the pending marks question, got %q", prompt)
	}

	if _, done := c.HandleInput(context.Background(), "55"); !done {
		t.Error("one mark should finish this resumed interview")
	}
}

// Re-collection replaces marks wholesale on the existing student record
// while keeping identity fields.
func TestCollectorCommitReplacesMarks(t *testing.T) {
	fs := newFakeStore()
	fs.students["64a000000000000000000001"] = &model.Student{
		StudentID: "64a000000000000000000001",
		Name:      "Asha",
		Marks:     []model.Mark{{Subject: "history", Score: 40}},
	}
	c := NewCollector(fs, "sess-1", "64a000000000000000000001", nil)
	ctx := context.Background()

	c.HandleInput(ctx, "GATE")
	c.HandleInput(ctx, "Maths")
	c.HandleInput(ctx, "skip")
	c.HandleInput(ctx, "95")

	st := fs.students["64a000000000000000000001"]
	if st.Name != "Asha" {
		t.Errorf("identity fields should survive, got name %q", st.Name)
	}
	if len(st.Marks) != 1 || st.Marks[0].Subject != "maths" {
		t.Errorf("marks should be replaced wholesale, got %v", st.Marks)
	}
}

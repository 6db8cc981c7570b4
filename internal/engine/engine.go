// Package engine is the conversational core: a guarded pipeline around
// the model call. Its entry point never returns an error — every failure
// maps to one of a small set of fixed reply strings, so the student only
// ever sees coaching text or a polite fallback.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/zenark/exambuddy/internal/lang"
	"github.com/zenark/exambuddy/internal/llm"
	"github.com/zenark/exambuddy/internal/llm/prompts"
	"github.com/zenark/exambuddy/internal/model"
)

// Fixed user-facing strings. Their exact text is part of the contract:
// tests and the UI match on them byte for byte.
const (
	MsgDidNotCatch = "I didn't catch that. Could you please rephrase your question?"
	MsgRefusal     = "I'm sorry, but I can only assist with exam preparation and study-related questions. Is there something about your studies I can help you with?"
	MsgNoAnswer    = "I'm not sure how to respond to that. Could you please rephrase your question about exam preparation?"
	MsgTrouble     = "I'm having some technical difficulties right now. Please try asking your question again in a moment."
)

// recapWindow is how many trailing persisted messages warm a fresh
// process that lost its in-memory history.
const recapWindow = 3

// quoteCadence appends a motivational quote to every Nth coached reply.
const quoteCadence = 4

const defaultTimeout = 30 * time.Second

// HistoryStore is the slice of the persistence layer the engine needs.
// *store.Store satisfies it.
type HistoryStore interface {
	AppendMessage(ctx context.Context, sessionID string, msg model.Message) error
	RecentMessages(ctx context.Context, sessionID string) ([]model.Message, error)
}

// Engine drives the pipeline. The in-process history map is the model's
// working memory; the persisted conversation array is the durable log.
// Every turn lands in both, and the map lives until ClearSession or
// process exit — that loss-on-restart is a documented trade-off, covered
// by the persisted recap.
type Engine struct {
	client      llm.Client
	store       HistoryStore
	log         *slog.Logger
	timeout     time.Duration
	temperature float32

	mu      sync.Mutex
	history map[string][]model.Message
	turns   map[string]int
}

// New creates an engine. store may be nil in tests; timeout <= 0 falls
// back to the 30s default.
func New(client llm.Client, store HistoryStore, timeout time.Duration, temperature float32, log *slog.Logger) *Engine {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		client:      client,
		store:       store,
		log:         log,
		timeout:     timeout,
		temperature: temperature,
		history:     map[string][]model.Message{},
		turns:       map[string]int{},
	}
}

// Respond answers one student turn. It never returns an error: guard
// rejections, model failures and empty replies all come back as one of
// the fixed strings. The pipeline order is fixed — filter, topic guard,
// language, recap, model call, post-processing.
func (e *Engine) Respond(ctx context.Context, sessionID, question, studentContext, language string) string {
	if strings.TrimSpace(question) == "" {
		return MsgDidNotCatch
	}

	filtered := filterInput(question)
	if filtered == "" {
		return MsgDidNotCatch
	}

	if offTopic(filtered) {
		e.log.Info("refused off-topic question", "session_id", sessionID)
		e.record(ctx, sessionID, filtered, MsgRefusal)
		return MsgRefusal
	}

	if language == "" {
		language = lang.Detect(filtered)
	} else if name, ok := lang.Normalize(language); ok {
		language = name
	}

	history := e.sessionHistory(ctx, sessionID)

	// "What did I just ask" is answered from history, no model call.
	if isEchoRequest(filtered) {
		if prev, ok := lastUserMessage(history); ok {
			reply := fmt.Sprintf("You just asked: %q", prev)
			e.record(ctx, sessionID, filtered, reply)
			return reply
		}
		e.record(ctx, sessionID, filtered, MsgNoAnswer)
		return MsgNoAnswer
	}

	system, err := prompts.BuildCoachSystem(prompts.CoachData{
		Context:  studentContext,
		Recap:    renderRecap(history),
		Language: language,
	})
	if err != nil {
		e.log.Error("build coach prompt", "session_id", sessionID, "error", err)
		return MsgTrouble
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	reply, err := e.client.Complete(callCtx, llm.Request{
		System:      system,
		History:     history,
		User:        filtered,
		Temperature: e.temperature,
	})
	if err != nil {
		e.log.Error("model call failed", "session_id", sessionID, "error", err)
		e.record(ctx, sessionID, filtered, MsgTrouble)
		return MsgTrouble
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		e.record(ctx, sessionID, filtered, MsgNoAnswer)
		return MsgNoAnswer
	}

	if n := e.bumpTurn(sessionID); n%quoteCadence == 0 {
		reply += "\n\n💡 Motivational Boost: " + prompts.Quote(n/quoteCadence-1)
	}

	e.record(ctx, sessionID, filtered, reply)
	return reply
}

// Summarize condenses a transcript into a few sentences for carry-over
// context between sessions.
func (e *Engine) Summarize(ctx context.Context, msgs []model.Message) (string, error) {
	if len(msgs) == 0 {
		return "", nil
	}
	system, err := prompts.SummarySystem()
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	summary, err := e.client.Complete(callCtx, llm.Request{
		System:      system,
		User:        renderTranscript(msgs),
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("summarize conversation: %w", err)
	}
	return strings.TrimSpace(summary), nil
}

// ClearSession drops a session's in-process history and turn counter.
// The persisted conversation is untouched.
func (e *Engine) ClearSession(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.history, sessionID)
	delete(e.turns, sessionID)
}

// Sessions lists the session IDs with live in-process history.
func (e *Engine) Sessions() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]string, 0, len(e.history))
	for id := range e.history {
		ids = append(ids, id)
	}
	return ids
}

// sessionHistory returns the in-process history for a session, seeding
// it from the persisted tail when the process has none (fresh start or
// restart). Store errors degrade to an empty recap.
func (e *Engine) sessionHistory(ctx context.Context, sessionID string) []model.Message {
	e.mu.Lock()
	msgs, ok := e.history[sessionID]
	e.mu.Unlock()
	if ok {
		return msgs
	}

	if e.store == nil {
		return nil
	}
	recent, err := e.store.RecentMessages(ctx, sessionID)
	if err != nil {
		e.log.Warn("load persisted recap", "session_id", sessionID, "error", err)
		return nil
	}

	e.mu.Lock()
	if _, ok := e.history[sessionID]; !ok {
		e.history[sessionID] = recent
	}
	msgs = e.history[sessionID]
	e.mu.Unlock()
	return msgs
}

// record appends the user turn and the assistant reply to the in-process
// history and the durable log, in that order. Persistence failures only
// log — the student still gets their reply.
func (e *Engine) record(ctx context.Context, sessionID, question, reply string) {
	userMsg := model.NewMessage(model.RoleUser, question)
	assistantMsg := model.NewMessage(model.RoleAssistant, reply)

	e.mu.Lock()
	e.history[sessionID] = append(e.history[sessionID], userMsg, assistantMsg)
	e.mu.Unlock()

	if e.store == nil {
		return
	}
	for _, msg := range []model.Message{userMsg, assistantMsg} {
		if err := e.store.AppendMessage(ctx, sessionID, msg); err != nil {
			e.log.Warn("persist message", "session_id", sessionID, "role", msg.Role, "error", err)
		}
	}
}

// bumpTurn advances the session's coached-reply counter.
func (e *Engine) bumpTurn(sessionID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.turns[sessionID]++
	return e.turns[sessionID]
}

// isEchoRequest matches the "what did I just ask" special case.
func isEchoRequest(q string) bool {
	q = strings.ToLower(strings.TrimRight(q, " ?!."))
	return strings.Contains(q, "what did i just ask")
}

// lastUserMessage returns the most recent user turn in the history.
func lastUserMessage(history []model.Message) (string, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == model.RoleUser {
			return history[i].Content, true
		}
	}
	return "", false
}

// renderRecap formats the trailing window of a conversation as
// "[role] content" lines for the coach prompt.
func renderRecap(msgs []model.Message) string {
	if len(msgs) > recapWindow {
		msgs = msgs[len(msgs)-recapWindow:]
	}
	return renderTranscript(msgs)
}

func renderTranscript(msgs []model.Message) string {
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, fmt.Sprintf("[%s] %s", m.Role, m.Content))
	}
	return strings.Join(lines, "\n")
}

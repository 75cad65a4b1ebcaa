// Package assistant is the chat surface: it owns the conversation log and the
// per-conversation pending operation, routes each utterance through the
// parser or the dialogue machine, and dispatches completed commands against
// the record store.
package assistant

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bryentd477/fpa-tracker/command"
	"github.com/bryentd477/fpa-tracker/dialogue"
	"github.com/bryentd477/fpa-tracker/reply"
	"github.com/bryentd477/fpa-tracker/store"
	"github.com/bryentd477/fpa-tracker/types"
)

// Sink receives the assistant's outward-facing events. The UI layer decides
// what to do with them; the terminal client prints messages and ignores the
// rest.
type Sink interface {
	AssistantMessage(text string)
	HighlightFields(fields []types.FieldName)
	Navigate(view string)
	ApplyListFilter(filter command.ListFilter)
	SelectRecord(record types.Record)
}

const defaultHistoryKeep = 50

// Options wires a Session. Parser, Reply, Store and Sink are required; the
// rest have working defaults.
type Options struct {
	Parser command.Parser
	// Slots is the model-backed parser reused for slot extraction while a
	// dialogue is pending. Nil disables the model path.
	Slots  command.Parser
	Reply  reply.Generator
	Store  store.Store
	Editor store.Editor // optional editing surface; enables draft handoff
	Logger zerolog.Logger
	Now    func() time.Time
	// HistoryKeep bounds the transcript length; <= 0 means the default.
	HistoryKeep int
}

// Session serializes one conversation's turns. One utterance is fully
// processed before the next is accepted; the model call is the only blocking
// step and carries its own timeout.
type Session struct {
	mu         sync.Mutex
	machine    *dialogue.Machine
	parser     command.Parser
	slots      command.Parser
	reply      reply.Generator
	store      store.Store
	editor     store.Editor
	sink       Sink
	pending    StateStore[*types.PendingOperation]
	transcript *Transcript
	logger     zerolog.Logger
	now        func() time.Time
}

func NewSession(sink Sink, opts Options) *Session {
	keep := opts.HistoryKeep
	if keep <= 0 {
		keep = defaultHistoryKeep
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		machine:    dialogue.NewMachine(),
		parser:     opts.Parser,
		slots:      opts.Slots,
		reply:      opts.Reply,
		store:      opts.Store,
		editor:     opts.Editor,
		sink:       sink,
		pending:    NewMemoryStateStore[*types.PendingOperation](),
		transcript: NewMemoryTranscript(keep),
		logger:     opts.Logger,
		now:        now,
	}
}

// Open greets the user and notes which parsing mode is active.
func (s *Session) Open(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mode := "rule-based parsing"
	if s.slots != nil {
		mode = "AI-powered parsing"
	}
	s.emit(ctx, "Hi! I'm your FPA assistant ("+mode+"). I can create, update and delete FPAs, add notes, and answer questions about your applications. Say \"help\" for examples.")
}

// Close clears the conversation log and any in-flight dialogue.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.transcript.Clear(ctx)
	_ = s.pending.Remove(ctx)
}

// SubmitUtterance is the sole entry point: one user utterance in, zero or
// more sink events out. Processing never returns an error to the caller;
// every failure becomes an assistant message.
func (s *Session) SubmitUtterance(ctx context.Context, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if err := s.transcript.Append(ctx, types.Message{Role: types.RoleUser, Text: text}); err != nil {
		s.logger.Error().Err(err).Msg("transcript append failed")
	}

	records, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("record list failed")
		s.emit(ctx, "I couldn't reach the record store: "+err.Error())
		return
	}

	pending, ok, err := s.pending.Read(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("pending state read failed")
	}

	var turn *dialogue.Turn
	if ok && pending != nil {
		turn = s.machine.Advance(pending, text, s.slotFields(ctx, text, records), records)
	} else {
		parsed, err := s.parser.Parse(ctx, text, records)
		if err != nil {
			s.logger.Warn().Err(err).Msg("command parse failed")
			s.emit(ctx, "Sorry, I couldn't work out what you meant. "+reply.HelpText)
			return
		}
		s.logger.Debug().Str("intent", string(parsed.Intent)).Str("fpa", parsed.FPANumber).Msg("utterance parsed")

		switch parsed.Intent {
		case types.IntentCreate, types.IntentUpdate, types.IntentDelete, types.IntentComment:
			turn = s.machine.Begin(parsed, text, records)
		default:
			s.dispatchReadOnly(ctx, parsed, text, records)
			return
		}
	}

	if turn.Pending != nil {
		if err := s.pending.Write(ctx, turn.Pending); err != nil {
			s.logger.Error().Err(err).Msg("pending state write failed")
		}
	} else if err := s.pending.Remove(ctx); err != nil {
		s.logger.Error().Err(err).Msg("pending state remove failed")
	}

	for _, msg := range turn.Messages {
		s.emit(ctx, msg)
	}
	if len(turn.Highlights) > 0 {
		s.sink.HighlightFields(turn.Highlights)
	}
	if turn.Effect != nil {
		s.dispatchEffect(ctx, turn.Effect)
	}
}

// Pending reports the in-flight operation, for tests and status displays.
func (s *Session) Pending(ctx context.Context) *types.PendingOperation {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, _, _ := s.pending.Read(ctx)
	return pending
}

// slotFields asks the model path for slot values during a pending dialogue.
// Failures degrade to rule-only extraction with a one-line advisory.
func (s *Session) slotFields(ctx context.Context, text string, records []types.Record) map[types.FieldName]string {
	if s.slots == nil {
		return nil
	}
	parsed, err := s.slots.Parse(ctx, text, records)
	if err != nil {
		s.logger.Warn().Err(err).Msg("model slot extraction failed, falling back to rules")
		s.emit(ctx, "(The AI service didn't respond, continuing with rule-based parsing.)")
		return nil
	}
	return parsed.Fields
}

func (s *Session) emit(ctx context.Context, text string) {
	if err := s.transcript.Append(ctx, types.Message{Role: types.RoleAssistant, Text: text}); err != nil {
		s.logger.Error().Err(err).Msg("transcript append failed")
	}
	s.sink.AssistantMessage(text)
}

package assistant

import (
	"context"

	"github.com/bryentd477/fpa-tracker/types"
)

type Trimmer interface {
	Trim(history []types.Message) []types.Message
}

// KeepLastN keeps the most recent N messages. When N <= 0 nothing is kept.
type KeepLastN struct {
	N int
}

func (t KeepLastN) Trim(history []types.Message) []types.Message {
	if t.N <= 0 {
		return nil
	}
	if len(history) <= t.N {
		return history
	}
	return history[len(history)-t.N:]
}

// Transcript is the append-only conversation log, kept per conversation and
// trimmed on every save. It exists for display and for giving the reply path
// short-term context; nothing else reads it.
type Transcript struct {
	store   StateStore[[]types.Message]
	trimmer Trimmer
}

func NewTranscript(store StateStore[[]types.Message], trimmer Trimmer) *Transcript {
	return &Transcript{store: store, trimmer: trimmer}
}

func NewMemoryTranscript(keep int) *Transcript {
	return NewTranscript(NewMemoryStateStore[[]types.Message](), KeepLastN{N: keep})
}

func (t *Transcript) Append(ctx context.Context, msgs ...types.Message) error {
	history, _, err := t.store.Read(ctx)
	if err != nil {
		return err
	}
	history = append(history, msgs...)
	if t.trimmer != nil {
		history = t.trimmer.Trim(history)
	}
	return t.store.Write(ctx, history)
}

func (t *Transcript) All(ctx context.Context) ([]types.Message, error) {
	history, _, err := t.store.Read(ctx)
	return history, err
}

// Recent returns up to n of the latest messages.
func (t *Transcript) Recent(ctx context.Context, n int) ([]types.Message, error) {
	history, _, err := t.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}
	return history, nil
}

func (t *Transcript) Clear(ctx context.Context) error {
	return t.store.Remove(ctx)
}

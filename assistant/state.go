package assistant

import (
	"context"
	"sync"
)

type conversationKeyContext struct{}

const defaultConversation = "default"

// WithConversation sets the routing key that scopes dialogue state and
// transcript storage. Without it everything lands in one shared conversation,
// which is what the single-user terminal client wants.
func WithConversation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, conversationKeyContext{}, id)
}

func ConversationFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(conversationKeyContext{})
	if value == nil {
		return "", false
	}
	id, ok := value.(string)
	return id, ok
}

func conversationOrDefault(ctx context.Context) string {
	if id, ok := ConversationFromContext(ctx); ok && id != "" {
		return id
	}
	return defaultConversation
}

// StateStore provides per-conversation storage routed through the context.
type StateStore[T any] interface {
	Read(ctx context.Context) (T, bool, error)
	Write(ctx context.Context, value T) error
	Remove(ctx context.Context) error
}

// MemoryStateStore is the in-memory StateStore used by tests and the terminal
// client. Safe for concurrent use.
type MemoryStateStore[T any] struct {
	mu     sync.RWMutex
	states map[string]T
}

func NewMemoryStateStore[T any]() *MemoryStateStore[T] {
	return &MemoryStateStore[T]{states: map[string]T{}}
}

func (m *MemoryStateStore[T]) Read(ctx context.Context) (T, bool, error) {
	m.mu.RLock()
	value, ok := m.states[conversationOrDefault(ctx)]
	m.mu.RUnlock()
	return value, ok, nil
}

func (m *MemoryStateStore[T]) Write(ctx context.Context, value T) error {
	m.mu.Lock()
	m.states[conversationOrDefault(ctx)] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryStateStore[T]) Remove(ctx context.Context) error {
	m.mu.Lock()
	delete(m.states, conversationOrDefault(ctx))
	m.mu.Unlock()
	return nil
}

var _ StateStore[int] = (*MemoryStateStore[int])(nil)

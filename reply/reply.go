// Package reply produces the conversational answers that are not structured
// commands: small talk, questions about the tracked FPAs, help requests. A
// model-backed generator answers from the record context; a local generator
// covers the offline case; a fallback composer chains them.
package reply

import (
	"context"
	"fmt"

	"github.com/bryentd477/fpa-tracker/types"
)

type Generator interface {
	Reply(ctx context.Context, utterance string, history []types.Message, contextSummary string) (string, error)
}

// HelpText explains what the assistant understands. Shown for help requests
// and as the local answer when no model is configured.
const HelpText = `I can help you manage Forest Practice Applications. Try:
- "Create a new FPA" or "Add FPA 2741506 for landowner Weyerhaeuser"
- "Update the status of FPA 2741506 to Approved"
- "Add a note to FPA 2741506"
- "Show me all approved FPAs" or "List FPAs for landowner Smith"
- "Delete FPA 2741506"
- "Give me a status summary"`

// LocalGenerator answers without a model. It cannot hold a conversation, so
// it points the user at the commands it does understand.
type LocalGenerator struct{}

func (LocalGenerator) Reply(ctx context.Context, utterance string, history []types.Message, contextSummary string) (string, error) {
	return "I'm not sure how to help with that. " + HelpText, nil
}

// FallbackGenerator tries each generator in order and returns the first
// success.
type FallbackGenerator struct {
	generators []Generator
}

func NewFallbackGenerator(generators ...Generator) *FallbackGenerator {
	return &FallbackGenerator{generators: generators}
}

func (g *FallbackGenerator) Reply(ctx context.Context, utterance string, history []types.Message, contextSummary string) (string, error) {
	var lastErr error
	for _, generator := range g.generators {
		answer, err := generator.Reply(ctx, utterance, history, contextSummary)
		if err == nil {
			return answer, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("all reply generators failed: %w", lastErr)
}

var (
	_ Generator = LocalGenerator{}
	_ Generator = (*FallbackGenerator)(nil)
)

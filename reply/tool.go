package reply

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/bryentd477/fpa-tracker/types"
)

// ToolGenerator answers conversationally from the current record context
// using a chat model. No tool calls here, just a plain completion.
type ToolGenerator struct {
	chatModel model.BaseChatModel

	// Timeout bounds the model round trip; zero means no deadline.
	Timeout time.Duration
}

func NewToolGenerator(chatModel model.BaseChatModel) *ToolGenerator {
	return &ToolGenerator{chatModel: chatModel, Timeout: 10 * time.Second}
}

func (g *ToolGenerator) Reply(ctx context.Context, utterance string, history []types.Message, contextSummary string) (string, error) {
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	systemPrompt := fmt.Sprintf(`You are the assistant for a Forest Practice Application (FPA) tracker. Answer briefly and concretely from the record context below. If the user asks for something you cannot do, say so and suggest a command you do understand.

%s`, contextSummary)

	messages := make([]*schema.Message, 0, len(history)+2)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	for _, m := range history {
		switch m.Role {
		case types.RoleUser:
			messages = append(messages, schema.UserMessage(m.Text))
		case types.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(m.Text, nil))
		}
	}
	messages = append(messages, schema.UserMessage(utterance))

	resp, err := g.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("reply model call failed: %w", err)
	}
	answer := strings.TrimSpace(resp.Content)
	if answer == "" {
		return "", fmt.Errorf("reply model returned an empty answer")
	}
	return answer, nil
}

var _ Generator = (*ToolGenerator)(nil)

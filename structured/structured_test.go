package structured

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	arguments string
	err       error
	noCall    bool
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.noCall {
		return &schema.Message{Role: schema.Assistant, Content: "plain text"}, nil
	}
	return &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{Function: schema.FunctionCall{Name: "echo", Arguments: f.arguments}},
		},
	}, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming unsupported")
}

func (f *fakeChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return f, nil
}

type echoInput struct {
	Text string
}

type echoOutput struct {
	Text  string `json:"text" jsonschema:"required"`
	Count int    `json:"count,omitempty"`
}

func buildEchoPrompt(ctx context.Context, input *echoInput) ([]*schema.Message, error) {
	return []*schema.Message{schema.UserMessage(input.Text)}, nil
}

func newEchoChain(t *testing.T, fake *fakeChatModel) *Chain[*echoInput, echoOutput] {
	t.Helper()
	chain, err := NewChain[*echoInput, echoOutput](fake, buildEchoPrompt, "echo", "echo the text back")
	require.NoError(t, err)
	return chain
}

func TestInvokeDecodesToolArguments(t *testing.T) {
	t.Parallel()
	chain := newEchoChain(t, &fakeChatModel{arguments: `{"text":"hello","count":2}`})

	got, err := chain.Invoke(context.Background(), &echoInput{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, 2, got.Count)
}

func TestInvokeWithoutToolCallFails(t *testing.T) {
	t.Parallel()
	chain := newEchoChain(t, &fakeChatModel{noCall: true})

	_, err := chain.Invoke(context.Background(), &echoInput{Text: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no ToolCall")
}

func TestInvokeModelErrorPropagates(t *testing.T) {
	t.Parallel()
	chain := newEchoChain(t, &fakeChatModel{err: errors.New("upstream down")})

	_, err := chain.Invoke(context.Background(), &echoInput{Text: "hello"})
	require.ErrorContains(t, err, "upstream down")
}

func TestInvokeBadArgumentsFails(t *testing.T) {
	t.Parallel()
	chain := newEchoChain(t, &fakeChatModel{arguments: `{"text":`})

	_, err := chain.Invoke(context.Background(), &echoInput{Text: "hello"})
	require.Error(t, err)
}

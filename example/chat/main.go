// Command chat is a terminal client for the FPA assistant. With a model API
// key configured it parses commands through the model and falls back to the
// rule-based path; without one it runs fully offline.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/rs/zerolog"

	"github.com/bryentd477/fpa-tracker/assistant"
	"github.com/bryentd477/fpa-tracker/command"
	"github.com/bryentd477/fpa-tracker/reply"
	"github.com/bryentd477/fpa-tracker/store"
	"github.com/bryentd477/fpa-tracker/types"
)

func main() {
	conf := flag.String("config", "", "path to TOML config file")
	flag.Parse()

	config, err := loadConfig(*conf)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	if err := run(context.Background(), config); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, config *Config) error {
	level, err := zerolog.ParseLevel(config.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	recordStore, closeStore, err := openStore(config)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := assistant.Options{
		Parser: command.NewRuleParser(),
		Reply:  reply.NewFallbackGenerator(reply.LocalGenerator{}),
		Store:  recordStore,
		Logger: logger,
	}

	if config.Model.APIKey != "" {
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  config.Model.APIKey,
			Model:   config.Model.Name,
			BaseURL: config.Model.BaseURL,
		})
		if err != nil {
			return fmt.Errorf("init chat model: %w", err)
		}
		toolParser, err := command.NewToolParser(chatModel)
		if err != nil {
			return fmt.Errorf("init tool parser: %w", err)
		}
		opts.Parser = command.NewFallbackParser(toolParser, command.NewRuleParser())
		opts.Slots = toolParser
		opts.Reply = reply.NewFallbackGenerator(reply.NewToolGenerator(chatModel), reply.LocalGenerator{})
		logger.Info().Str("model", config.Model.Name).Msg("model path enabled")
	} else {
		logger.Info().Msg("no model configured, running rule-based only")
	}

	sink := &consoleSink{out: os.Stdout}
	session := assistant.NewSession(sink, opts)

	ctx = assistant.WithConversation(ctx, "terminal")
	session.Open(ctx)
	defer session.Close(ctx)

	reader := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !reader.Scan() {
			break
		}
		input := strings.TrimSpace(reader.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}
		session.SubmitUtterance(ctx, input)
	}
	return reader.Err()
}

func openStore(config *Config) (store.Store, func(), error) {
	if config.Store.Path == "" {
		return store.NewMemoryStore(), func() {}, nil
	}
	sqlStore, err := store.OpenSQL(config.Store.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return sqlStore, func() { _ = sqlStore.Close() }, nil
}

// consoleSink prints assistant messages and renders the UI events as hints.
type consoleSink struct {
	out *os.File
}

func (s *consoleSink) AssistantMessage(text string) {
	fmt.Fprintf(s.out, "assistant> %s\n", text)
}

func (s *consoleSink) HighlightFields(fields []types.FieldName) {
	labels := make([]string, len(fields))
	for i, field := range fields {
		labels[i] = types.FieldLabel(field)
	}
	fmt.Fprintf(s.out, "           [fields: %s]\n", strings.Join(labels, ", "))
}

func (s *consoleSink) Navigate(view string) {
	fmt.Fprintf(s.out, "           [view: %s]\n", view)
}

func (s *consoleSink) ApplyListFilter(filter command.ListFilter) {
	fmt.Fprintf(s.out, "           [filter: %s]\n", filter.Label)
}

func (s *consoleSink) SelectRecord(record types.Record) {
	fmt.Fprintf(s.out, "           [selected: FPA %s]\n", record.FPANumber)
}

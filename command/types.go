// Package command turns one utterance into a structured command. Two parsers
// implement the same interface: a deterministic rule-based one and a
// model-backed one; a fallback composer tries the model first and falls back
// to the rules.
package command

import (
	"context"

	"github.com/bryentd477/fpa-tracker/types"
)

// ListFilter narrows a list request.
type ListFilter struct {
	Kind  string // "all", "status", "landowner", "landownerType"
	Value string
	Label string
}

// Parsed is the structured form of one utterance. Fields carries cleaned
// values only; Target names a field the user wants changed but gave no value
// for yet.
type Parsed struct {
	Intent    types.Intent
	FPANumber string
	Fields    map[types.FieldName]string
	Target    types.FieldName
	Filter    *ListFilter
	View      string // navigate destination: dashboard, list, add, reports
	Reply     string // conversational reply text, chat intent only
}

type Parser interface {
	Parse(ctx context.Context, utterance string, records []types.Record) (*Parsed, error)
}

// FallbackParser tries each parser in order and returns the first success.
type FallbackParser struct {
	parsers []Parser
}

func NewFallbackParser(parsers ...Parser) *FallbackParser {
	return &FallbackParser{parsers: parsers}
}

func (p *FallbackParser) Parse(ctx context.Context, utterance string, records []types.Record) (*Parsed, error) {
	var lastErr error
	for _, parser := range p.parsers {
		parsed, err := parser.Parse(ctx, utterance, records)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

var _ Parser = (*FallbackParser)(nil)

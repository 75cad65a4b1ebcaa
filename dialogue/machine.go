// Package dialogue holds the state machine that advances one in-flight
// multi-turn command. The machine is pure: it consumes the current pending
// operation plus one utterance and returns the next pending state, the
// prompts to show, and at most one side effect for the planner to dispatch.
// Extraction failures are silent; the dialogue simply re-prompts.
package dialogue

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bryentd477/fpa-tracker/command"
	"github.com/bryentd477/fpa-tracker/extract"
	"github.com/bryentd477/fpa-tracker/resolve"
	"github.com/bryentd477/fpa-tracker/types"
)

type EffectKind string

const (
	EffectCreate  EffectKind = "create"
	EffectUpdate  EffectKind = "update"
	EffectDelete  EffectKind = "delete"
	EffectComment EffectKind = "comment"
)

// Effect is a completed command ready for dispatch. The machine never calls
// the record store itself.
type Effect struct {
	Kind   EffectKind
	Draft  types.Record // create only
	Record *types.Record
	Fields map[types.FieldName]string // update only
	Note   string                     // comment only
}

// Turn is the result of feeding one utterance (or one parsed command) to the
// machine. Pending nil means the dialogue returned to idle.
type Turn struct {
	Messages   []string
	Highlights []types.FieldName
	Pending    *types.PendingOperation
	Effect     *Effect
}

func (t *Turn) say(format string, args ...any) {
	t.Messages = append(t.Messages, fmt.Sprintf(format, args...))
}

var (
	cancelRe = regexp.MustCompile(`(?i)^\s*(?:cancel|stop|abort|never\s*mind|forget\s+it)\b`)
	submitRe = regexp.MustCompile(`(?i)^\s*(?:submit|save\s+it|save|create\s+it|finish)\s*[.!]*\s*$`)
	affirmRe = regexp.MustCompile(`(?i)^\s*(?:yes|y|yeah|yep|sure|confirm|confirmed|do\s+it|delete\s+it|go\s+ahead)\b`)
	skipRe   = regexp.MustCompile(`(?i)^\s*(?:skip|leave\s+(?:it\s+)?blank|none|n/?a|no|nothing)\s*\.?\s*$`)
	claimRe  = regexp.MustCompile(`(?i)^\s*(?:already\s+(?:entered|filled|did)(?:\s+(?:it|that))?|i\s+(?:already\s+)?(?:entered|filled)\s+(?:it|that)|done)\s*\.?\s*$`)
)

// Machine advances pending operations. It holds no state of its own; the
// session owns the PendingOperation and passes it in each turn.
type Machine struct{}

func NewMachine() *Machine { return &Machine{} }

// Begin opens a dialogue from a freshly parsed command, or completes it in
// one shot when nothing is missing. Only the four mutating intents reach
// here; read-only intents are dispatched by the planner directly.
func (m *Machine) Begin(parsed *command.Parsed, utterance string, records []types.Record) *Turn {
	switch parsed.Intent {
	case types.IntentCreate:
		return m.beginCreate(parsed, records)
	case types.IntentUpdate:
		return m.beginUpdate(parsed, utterance, records)
	case types.IntentDelete:
		return m.beginDelete(parsed, utterance, records)
	case types.IntentComment:
		return m.beginComment(parsed, utterance, records)
	}
	return &Turn{}
}

func (m *Machine) beginCreate(parsed *command.Parsed, records []types.Record) *Turn {
	p := types.NewPendingOperation(types.IntentCreate)
	t := &Turn{Pending: p}

	fields := cloneFields(parsed.Fields)
	if parsed.FPANumber != "" {
		fields[types.FieldFPANumber] = parsed.FPANumber
	}
	t.Highlights = p.Merge(fields)

	if dup := duplicateNumber(p, records); dup != "" {
		p.Fields[types.FieldFPANumber] = types.FieldValue{}
		p.Expecting = types.FieldFPANumber
		t.say("FPA %s already exists. Please give me a different FPA number.", dup)
		return t
	}

	if missing := p.MissingRequired(); len(missing) > 0 {
		p.Expecting = missing[0]
		t.say("Starting a new FPA. %s", promptFor(missing[0]))
		return t
	}

	// Everything required arrived in one utterance.
	t.Effect = &Effect{Kind: EffectCreate, Draft: p.Draft()}
	t.Pending = nil
	return t
}

func (m *Machine) beginUpdate(parsed *command.Parsed, utterance string, records []types.Record) *Turn {
	p := types.NewPendingOperation(types.IntentUpdate)
	t := &Turn{Pending: p}

	p.Record = resolveTarget(parsed.FPANumber, utterance, records)
	t.Highlights = p.Merge(parsed.Fields)

	if p.Record == nil {
		p.Expecting = types.FieldFPANumber
		t.say("Which FPA would you like to update? Give me the FPA number.")
		return t
	}

	if fields := setFields(p); len(fields) > 0 {
		t.Effect = &Effect{Kind: EffectUpdate, Record: p.Record, Fields: fields}
		t.Pending = nil
		return t
	}

	if parsed.Target != "" {
		p.Expecting = parsed.Target
		t.say("What should the new %s for FPA %s be?", types.FieldLabel(parsed.Target), p.Record.FPANumber)
		return t
	}

	t.say("What would you like to change on FPA %s?", p.Record.FPANumber)
	return t
}

func (m *Machine) beginDelete(parsed *command.Parsed, utterance string, records []types.Record) *Turn {
	p := types.NewPendingOperation(types.IntentDelete)
	t := &Turn{Pending: p}

	p.Record = resolveTarget(parsed.FPANumber, utterance, records)
	if p.Record == nil {
		p.Expecting = types.FieldFPANumber
		t.say("Which FPA should I delete? Give me the FPA number.")
		return t
	}

	p.NeedsConfirm = true
	t.say("%s", confirmDeletePrompt(p.Record))
	return t
}

func (m *Machine) beginComment(parsed *command.Parsed, utterance string, records []types.Record) *Turn {
	p := types.NewPendingOperation(types.IntentComment)
	t := &Turn{Pending: p}

	p.Record = resolveTarget(parsed.FPANumber, utterance, records)
	if note := parsed.Fields[types.FieldNotes]; note != "" {
		p.Fields[types.FieldNotes] = types.SetField(note)
	}

	switch {
	case p.Record != nil && p.Fields[types.FieldNotes].IsSet():
		t.Effect = &Effect{Kind: EffectComment, Record: p.Record, Note: p.Fields[types.FieldNotes].Value()}
		t.Pending = nil
	case p.Record == nil:
		p.Expecting = types.FieldFPANumber
		t.say("Which FPA should I add that note to?")
	default:
		p.Expecting = types.FieldNotes
		t.say("What should the note on FPA %s say?", p.Record.FPANumber)
	}
	return t
}

// Advance feeds one utterance to an existing pending operation. aiFields are
// slot values the model extracted for this utterance, merged after the rule
// extractors; pass nil when the model path is unavailable.
func (m *Machine) Advance(p *types.PendingOperation, utterance string, aiFields map[types.FieldName]string, records []types.Record) *Turn {
	t := &Turn{Pending: p}
	trimmed := strings.TrimSpace(utterance)

	if cancelRe.MatchString(trimmed) {
		t.Pending = nil
		t.say("Okay, I've cancelled that.")
		return t
	}

	if p.Intent == types.IntentCreate && submitRe.MatchString(trimmed) {
		if missing := p.MissingRequired(); len(missing) > 0 {
			p.Expecting = missing[0]
			t.say("I can't create it yet, I still need: %s. %s", labelList(missing), promptFor(missing[0]))
			return t
		}
		t.Effect = &Effect{Kind: EffectCreate, Draft: p.Draft()}
		t.Pending = nil
		return t
	}

	if p.Intent == types.IntentDelete {
		return m.advanceDelete(p, t, trimmed, records)
	}

	if p.Expecting != "" && handleSentinel(p, t, trimmed) {
		return m.reprompt(p, t, records)
	}

	extracted := m.extractTurn(p, trimmed, aiFields, records)
	applied := p.Merge(extracted)
	t.Highlights = applied

	if p.Record == nil && p.Intent != types.IntentCreate {
		if target := resolve.Record(trimmed, records); target != nil {
			p.Record = target
			if p.Expecting == types.FieldFPANumber {
				p.Expecting = ""
			}
			// The number named the target; it is not a value to write.
			if p.Fields[types.FieldFPANumber].IsSet() {
				delete(p.Fields, types.FieldFPANumber)
				t.Highlights = withoutField(t.Highlights, types.FieldFPANumber)
			}
		} else {
			t.say("I couldn't find that FPA. Which FPA number is it?")
			return t
		}
	}

	switch p.Intent {
	case types.IntentUpdate:
		if fields := setFields(p); len(fields) > 0 {
			t.Effect = &Effect{Kind: EffectUpdate, Record: p.Record, Fields: fields}
			t.Pending = nil
			return t
		}
		t.say("What would you like to change on FPA %s?", p.Record.FPANumber)
		return t

	case types.IntentComment:
		if p.Fields[types.FieldNotes].IsSet() {
			t.Effect = &Effect{Kind: EffectComment, Record: p.Record, Note: p.Fields[types.FieldNotes].Value()}
			t.Pending = nil
			return t
		}
		p.Expecting = types.FieldNotes
		t.say("What should the note on FPA %s say?", p.Record.FPANumber)
		return t
	}

	// create path
	if dup := duplicateNumber(p, records); dup != "" {
		p.Fields[types.FieldFPANumber] = types.FieldValue{}
		p.Expecting = types.FieldFPANumber
		t.say("FPA %s already exists. Please give me a different FPA number.", dup)
		return t
	}

	if p.Expecting != "" && p.Fields[p.Expecting].Provided() {
		p.Expecting = ""
	}

	if len(applied) > 0 {
		t.say("Got it: %s.", appliedList(p, applied))
	} else if p.Expecting != "" {
		t.say("Sorry, I didn't catch that. %s", promptFor(p.Expecting))
		return t
	}

	return m.reprompt(p, t, records)
}

func (m *Machine) advanceDelete(p *types.PendingOperation, t *Turn, trimmed string, records []types.Record) *Turn {
	if p.Record == nil {
		if target := resolve.Record(trimmed, records); target != nil {
			p.Record = target
			p.Expecting = ""
			p.NeedsConfirm = true
			t.say("%s", confirmDeletePrompt(p.Record))
		} else {
			t.say("I couldn't find that FPA. Which FPA number should I delete?")
		}
		return t
	}

	if affirmRe.MatchString(trimmed) {
		t.Effect = &Effect{Kind: EffectDelete, Record: p.Record}
		t.Pending = nil
		return t
	}

	t.Pending = nil
	t.say("Okay, I won't delete FPA %s.", p.Record.FPANumber)
	return t
}

// handleSentinel resolves "skip" on an optional field and "already entered"
// on a required one. Both satisfy the cursor without contributing a value.
func handleSentinel(p *types.PendingOperation, t *Turn, trimmed string) bool {
	if isRequired(p.Expecting) {
		if claimRe.MatchString(trimmed) {
			p.Fields[p.Expecting] = types.ClaimField()
			t.say("Okay, I'll assume the %s is already filled in.", types.FieldLabel(p.Expecting))
			p.Expecting = ""
			return true
		}
		return false
	}
	if skipRe.MatchString(trimmed) {
		p.Fields[p.Expecting] = types.SkipField()
		t.say("Skipping the %s.", types.FieldLabel(p.Expecting))
		p.Expecting = ""
		return true
	}
	return false
}

// extractTurn runs the rule extractors over the utterance, folds in the model
// slots for anything the rules missed, and finally interprets the whole
// utterance as the answer to the expected field.
func (m *Machine) extractTurn(p *types.PendingOperation, utterance string, aiFields map[types.FieldName]string, records []types.Record) map[types.FieldName]string {
	extracted := extract.Fields(utterance)
	for name, value := range aiFields {
		if extracted[name] == "" && value != "" {
			extracted[name] = value
		}
	}

	wantsNumber := p.Intent == types.IntentCreate || p.Expecting == types.FieldFPANumber
	if wantsNumber && extracted[types.FieldFPANumber] == "" {
		if token := extract.NumberToken(utterance); token != "" {
			extracted[types.FieldFPANumber] = token
		}
	}

	// An awaited note swallows the whole utterance; other awaited fields only
	// do so when no extractor recognized anything, so a multi-field answer is
	// not misfiled into the cursor's field.
	wholeAnswer := p.Intent == types.IntentComment && p.Expecting == types.FieldNotes
	if p.Expecting != "" && extracted[p.Expecting] == "" && (wholeAnswer || len(extracted) == 0) {
		if v := extract.Clean(p.Expecting, utterance); v != "" {
			extracted[p.Expecting] = v
		}
	}
	return extracted
}

// reprompt recomputes the cursor: required fields first in fixed order, then
// the status-dependent optional sequence, then ready-to-submit.
func (m *Machine) reprompt(p *types.PendingOperation, t *Turn, records []types.Record) *Turn {
	if p.Intent != types.IntentCreate {
		return t
	}

	if missing := p.MissingRequired(); len(missing) > 0 {
		p.Expecting = missing[0]
		t.say("%s", promptFor(missing[0]))
		return t
	}

	if missing := p.MissingOptional(); len(missing) > 0 {
		p.Expecting = missing[0]
		t.say("%s (or say skip)", promptFor(missing[0]))
		return t
	}

	p.Expecting = ""
	t.say("I have everything for FPA %s. Say submit to create it.", p.Fields[types.FieldFPANumber].Value())
	return t
}

func resolveTarget(number, utterance string, records []types.Record) *types.Record {
	if number != "" {
		if r := resolve.ByNumber(number, records); r != nil {
			return r
		}
	}
	return resolve.Record(utterance, records)
}

func duplicateNumber(p *types.PendingOperation, records []types.Record) string {
	number := p.Fields[types.FieldFPANumber].Value()
	if number == "" {
		return ""
	}
	if resolve.ByNumber(number, records) != nil {
		return number
	}
	return ""
}

func setFields(p *types.PendingOperation) map[types.FieldName]string {
	fields := map[types.FieldName]string{}
	for name, value := range p.Fields {
		if value.IsSet() {
			fields[name] = value.Value()
		}
	}
	return fields
}

func withoutField(fields []types.FieldName, drop types.FieldName) []types.FieldName {
	out := fields[:0]
	for _, field := range fields {
		if field != drop {
			out = append(out, field)
		}
	}
	return out
}

func isRequired(field types.FieldName) bool {
	for _, name := range types.RequiredFields {
		if name == field {
			return true
		}
	}
	return false
}

func promptFor(field types.FieldName) string {
	return fmt.Sprintf("What is the %s?", types.FieldHint(field))
}

func confirmDeletePrompt(r *types.Record) string {
	label := r.FPANumber
	if r.TimberSaleName != "" {
		label = fmt.Sprintf("%s (%s)", r.FPANumber, r.TimberSaleName)
	}
	return fmt.Sprintf("Are you sure you want to delete FPA %s? This cannot be undone. Say yes to confirm.", label)
}

func labelList(fields []types.FieldName) string {
	labels := make([]string, len(fields))
	for i, field := range fields {
		labels[i] = types.FieldLabel(field)
	}
	return strings.Join(labels, ", ")
}

func appliedList(p *types.PendingOperation, applied []types.FieldName) string {
	parts := make([]string, len(applied))
	for i, field := range applied {
		parts[i] = fmt.Sprintf("%s = %s", types.FieldLabel(field), p.Fields[field].Value())
	}
	return strings.Join(parts, ", ")
}

func cloneFields(fields map[types.FieldName]string) map[types.FieldName]string {
	out := make(map[types.FieldName]string, len(fields))
	for name, value := range fields {
		out[name] = value
	}
	return out
}

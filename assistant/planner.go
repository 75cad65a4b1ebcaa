package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bryentd477/fpa-tracker/command"
	"github.com/bryentd477/fpa-tracker/dialogue"
	"github.com/bryentd477/fpa-tracker/patch"
	"github.com/bryentd477/fpa-tracker/reply"
	"github.com/bryentd477/fpa-tracker/resolve"
	"github.com/bryentd477/fpa-tracker/types"
)

// dispatchEffect maps one completed command to one store call (or editor
// handoff) and composes the outcome message. Store failures are surfaced
// verbatim; the pending state was already cleared, so the user just re-issues
// the command.
func (s *Session) dispatchEffect(ctx context.Context, e *dialogue.Effect) {
	switch e.Kind {
	case dialogue.EffectCreate:
		s.dispatchCreate(ctx, e)
	case dialogue.EffectUpdate:
		s.dispatchUpdate(ctx, e)
	case dialogue.EffectDelete:
		s.dispatchDelete(ctx, e)
	case dialogue.EffectComment:
		s.dispatchComment(ctx, e)
	}
}

func (s *Session) dispatchCreate(ctx context.Context, e *dialogue.Effect) {
	if s.editor != nil {
		highlights := setFieldNames(e.Draft)
		s.editor.OpenEditor(e.Draft, highlights)
		s.sink.Navigate("add")
		s.emit(ctx, "I've opened the new FPA form pre-filled with what you gave me. Review it and save.")
		return
	}

	created, err := s.store.Create(ctx, e.Draft)
	if err != nil {
		s.logger.Error().Err(err).Str("fpa", e.Draft.FPANumber).Msg("create failed")
		s.emit(ctx, "I couldn't create the FPA: "+err.Error())
		return
	}
	s.logger.Info().Str("fpa", created.FPANumber).Msg("fpa created")
	s.sink.SelectRecord(created)

	msg := fmt.Sprintf("Created FPA %s", created.FPANumber)
	if created.Landowner != "" {
		msg += " for landowner " + created.Landowner
	}
	s.emit(ctx, msg+".")
}

func (s *Session) dispatchUpdate(ctx context.Context, e *dialogue.Effect) {
	names := sortedFieldNames(e.Fields)

	if s.editor != nil {
		draft, err := patch.Apply(*e.Record, patch.FromFields(e.Fields))
		if err != nil {
			s.logger.Error().Err(err).Str("fpa", e.Record.FPANumber).Msg("draft patch failed")
			s.emit(ctx, "I couldn't prepare that change: "+err.Error())
			return
		}
		s.editor.OpenEditor(draft, names)
		s.sink.Navigate("edit")
		s.emit(ctx, fmt.Sprintf("I've opened FPA %s in the editor with the %s filled in. Review it and save.",
			e.Record.FPANumber, labelList(names)))
		return
	}

	if err := s.store.Update(ctx, e.Record.ID, e.Fields); err != nil {
		s.logger.Error().Err(err).Str("fpa", e.Record.FPANumber).Msg("update failed")
		s.emit(ctx, "I couldn't update the FPA: "+err.Error())
		return
	}
	s.logger.Info().Str("fpa", e.Record.FPANumber).Int("fields", len(e.Fields)).Msg("fpa updated")
	s.sink.HighlightFields(names)
	s.emit(ctx, fmt.Sprintf("Updated FPA %s: %s.", e.Record.FPANumber, changeList(e.Fields, names)))
}

func (s *Session) dispatchDelete(ctx context.Context, e *dialogue.Effect) {
	if err := s.store.Delete(ctx, e.Record.ID); err != nil {
		s.logger.Error().Err(err).Str("fpa", e.Record.FPANumber).Msg("delete failed")
		s.emit(ctx, "I couldn't delete the FPA: "+err.Error())
		return
	}
	s.logger.Info().Str("fpa", e.Record.FPANumber).Msg("fpa deleted")
	s.emit(ctx, fmt.Sprintf("Deleted FPA %s.", e.Record.FPANumber))
}

func (s *Session) dispatchComment(ctx context.Context, e *dialogue.Effect) {
	stamped := fmt.Sprintf("[%s] %s", s.now().Format("2006-01-02 15:04"), e.Note)
	notes := stamped
	if e.Record.Notes != "" {
		notes = e.Record.Notes + "\n" + stamped
	}
	if err := s.store.Update(ctx, e.Record.ID, map[types.FieldName]string{types.FieldNotes: notes}); err != nil {
		s.logger.Error().Err(err).Str("fpa", e.Record.FPANumber).Msg("note append failed")
		s.emit(ctx, "I couldn't add the note: "+err.Error())
		return
	}
	s.sink.HighlightFields([]types.FieldName{types.FieldNotes})
	s.emit(ctx, fmt.Sprintf("Added your note to FPA %s.", e.Record.FPANumber))
}

// dispatchReadOnly handles the intents that never open a dialogue.
func (s *Session) dispatchReadOnly(ctx context.Context, parsed *command.Parsed, text string, records []types.Record) {
	switch parsed.Intent {
	case types.IntentList:
		filter := parsed.Filter
		if filter == nil {
			filter = &command.ListFilter{Kind: "all", Label: "All FPAs"}
		}
		filtered := filterRecords(records, filter)
		s.sink.ApplyListFilter(*filter)
		s.sink.Navigate("list")
		if len(filtered) == 0 {
			s.emit(ctx, fmt.Sprintf("No FPAs match %s.", strings.ToLower(filter.Label)))
			return
		}
		s.emit(ctx, fmt.Sprintf("%s:\n%s", filter.Label, types.FormatRecordsTable(filtered)))

	case types.IntentView:
		target := resolveParsedTarget(parsed, text, records)
		if target == nil {
			s.emit(ctx, "I couldn't find that FPA. Which FPA number is it?")
			return
		}
		s.sink.SelectRecord(*target)
		s.sink.Navigate("list")
		s.emit(ctx, types.FormatRecordSummary(target))

	case types.IntentNavigate:
		view := parsed.View
		if view == "" {
			view = "dashboard"
		}
		s.sink.Navigate(view)
		s.emit(ctx, fmt.Sprintf("Taking you to the %s view.", view))

	case types.IntentSummary:
		if target := resolveParsedTarget(parsed, text, records); target != nil {
			s.emit(ctx, types.FormatRecordSummary(target))
			return
		}
		s.emit(ctx, types.FormatStatusSummary(records))

	case types.IntentHelp:
		s.emit(ctx, reply.HelpText)

	default:
		if parsed.Reply != "" {
			s.emit(ctx, parsed.Reply)
			return
		}
		history, err := s.transcript.Recent(ctx, 6)
		if err != nil {
			s.logger.Error().Err(err).Msg("transcript read failed")
		}
		answer, err := s.reply.Reply(ctx, text, history, types.ContextSummary(records))
		if err != nil {
			s.logger.Warn().Err(err).Msg("free-form reply failed")
			s.emit(ctx, "I'm not sure how to help with that. "+reply.HelpText)
			return
		}
		s.emit(ctx, answer)
	}
}

func resolveParsedTarget(parsed *command.Parsed, text string, records []types.Record) *types.Record {
	if parsed.FPANumber != "" {
		if r := resolve.ByNumber(parsed.FPANumber, records); r != nil {
			return r
		}
	}
	return resolve.Record(text, records)
}

func filterRecords(records []types.Record, filter *command.ListFilter) []types.Record {
	if filter == nil || filter.Kind == "all" {
		return records
	}
	var out []types.Record
	for _, r := range records {
		switch filter.Kind {
		case "status":
			if strings.EqualFold(string(r.ApplicationStatus), filter.Value) {
				out = append(out, r)
			}
		case "landowner":
			if strings.Contains(strings.ToLower(r.Landowner), strings.ToLower(filter.Value)) {
				out = append(out, r)
			}
		case "landownerType":
			if strings.EqualFold(string(r.LandownerType), filter.Value) {
				out = append(out, r)
			}
		}
	}
	return out
}

func setFieldNames(r types.Record) []types.FieldName {
	var names []types.FieldName
	for _, field := range patch.EditableFields {
		if r.Get(field) != "" {
			names = append(names, field)
		}
	}
	return names
}

func sortedFieldNames(fields map[types.FieldName]string) []types.FieldName {
	names := make([]types.FieldName, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func changeList(fields map[types.FieldName]string, names []types.FieldName) string {
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s = %s", types.FieldLabel(name), fields[name])
	}
	return strings.Join(parts, ", ")
}

func labelList(names []types.FieldName) string {
	labels := make([]string, len(names))
	for i, name := range names {
		labels[i] = types.FieldLabel(name)
	}
	return strings.Join(labels, ", ")
}

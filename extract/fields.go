package extract

import (
	"regexp"
	"strings"

	"github.com/bryentd477/fpa-tracker/types"
)

// freeTextPatterns drives capture-group extraction for the free-text fields.
// Each pattern anchors on a trigger phrase and stops at the next recognized
// field keyword or sentence boundary. New synonyms go here, not in the
// dialogue machine.
var freeTextPatterns = map[types.FieldName][]*regexp.Regexp{
	types.FieldLandowner: {
		regexp.MustCompile(`(?i)(?:landowner|owner|\blo\b)\s+(?:is|of|:)?\s*([^,;.]+?)(?:\s*(?:,|;|\s+and\s+|\s+timber|\s+sale|\s+status|\s+type|\s+expir|\s+exp|\s+decision|\s+note|$))`),
	},
	types.FieldTimberSaleName: {
		regexp.MustCompile(`(?i)(?:timber\s*sale|timbersale|\bts\b)\s+(?:is|of|name|:)?\s*([^,;.]+?)(?:\s*(?:,|;|\s+and\s+|\s+landowner|\s+owner|\s+status|\s+type|\s+expir|\s+exp|\s+decision|\s+note|$))`),
		regexp.MustCompile(`(?i)sale\s+name\s*(?:is|of|:)?\s*([^,;.]+?)(?:\s*(?:,|;|\s+and\s+|\s+landowner|\s+owner|\s+status|\s+type|\s+expir|\s+exp|\s+decision|\s+note|$))`),
	},
	// Notes always need an explicit trigger word so leftover text from other
	// fields is never misfiled as a note.
	types.FieldNotes: {
		regexp.MustCompile(`(?i)(?:add\s+)?(?:a\s+)?(?:notes?|comments?)\s+(?:saying|that|about)\s+(.+?)(?:\s*[;]|$)`),
		regexp.MustCompile(`(?i)(?:add\s+)?(?:a\s+)?(?:notes?|comments?)\s*(?:is|are|of|:)\s*(.+?)(?:\s*[;]|$)`),
	},
	types.FieldExpirationDate: {
		regexp.MustCompile(`(?i)(?:expir(?:ation)?|\bexp\b)\s*(?:date)?\s*(?:is|of|to|:)?\s*([a-zA-Z0-9\s,/-]+?)(?:\s*(?:,|;|\s+and\s+|\.|$))`),
	},
	types.FieldDecisionDeadline: {
		regexp.MustCompile(`(?i)(?:decision|\bdec\b)\s*(?:deadline|date)?\s*(?:is|of|to|:)?\s*([a-zA-Z0-9\s,/-]+?)(?:\s*(?:,|;|\s+and\s+|\.|$))`),
	},
}

// Fields runs every extractor against the utterance and returns all
// non-absent results keyed by field. Values are resolved, cleaned
// representations, never raw fragments.
func Fields(text string) map[types.FieldName]string {
	out := map[types.FieldName]string{}

	if v := Value(text, freeTextPatterns[types.FieldLandowner]); v != "" {
		// "landowner type small" is a type mention, not a name.
		if !strings.HasPrefix(strings.ToLower(v), "type") {
			out[types.FieldLandowner] = v
		}
	}
	if v := Value(text, freeTextPatterns[types.FieldTimberSaleName]); v != "" {
		out[types.FieldTimberSaleName] = v
	}
	if kind := LandownerKind(text); kind != types.LandownerUnset {
		out[types.FieldLandownerType] = string(kind)
	}
	if status := Status(text); status != types.StatusUnassigned {
		out[types.FieldApplicationStatus] = string(status)
	}
	if raw := Value(text, freeTextPatterns[types.FieldExpirationDate]); raw != "" {
		if date := Date(raw); date != "" {
			out[types.FieldExpirationDate] = date
		}
	}
	if raw := Value(text, freeTextPatterns[types.FieldDecisionDeadline]); raw != "" {
		if date := Date(raw); date != "" {
			out[types.FieldDecisionDeadline] = date
		}
	}
	if activity := Activity(text); activity != types.ActivityUnset {
		out[types.FieldApprovedActivity] = string(activity)
	}
	if v := Value(text, freeTextPatterns[types.FieldNotes]); v != "" {
		out[types.FieldNotes] = v
	}
	return out
}

var (
	landownerPrefixRe  = regexp.MustCompile(`(?i)^(?:landowner\s+(?:is|of|:)?\s*|owner\s+(?:is|of|:)?\s*|lo\s*(?:is|of|:)?\s*)`)
	timberSalePrefixRe = regexp.MustCompile(`(?i)^(?:(?:timber\s*sale|timbersale|ts)\s+(?:is|of|name|:)?\s*|sale\s+(?:name)?\s*(?:is|of|:)?\s*)`)
	notesPrefixRe      = regexp.MustCompile(`(?i)^(?:notes?|n)\s*(?:is|of|:)?\s*`)
)

// Clean interprets a whole utterance as the answer to one specific field,
// stripping trigger prefixes and normalizing enums and dates. Returns "" when
// the text cannot be a value for the field.
func Clean(field types.FieldName, text string) string {
	trimmed := strings.TrimSpace(text)
	switch field {
	case types.FieldLandowner:
		return strings.TrimSpace(landownerPrefixRe.ReplaceAllString(trimmed, ""))
	case types.FieldTimberSaleName:
		return strings.TrimSpace(timberSalePrefixRe.ReplaceAllString(trimmed, ""))
	case types.FieldLandownerType:
		return string(LandownerKind(trimmed))
	case types.FieldApplicationStatus:
		return string(Status(trimmed))
	case types.FieldApprovedActivity:
		return string(Activity(trimmed))
	case types.FieldDecisionDeadline, types.FieldExpirationDate:
		return Date(trimmed)
	case types.FieldNotes:
		return strings.TrimSpace(notesPrefixRe.ReplaceAllString(trimmed, ""))
	case types.FieldFPANumber:
		return NumberToken(trimmed)
	}
	return trimmed
}

// Package resolve matches free text against the known record set. Matching is
// containment over normalized identifiers; there is no fuzzy matching at this
// layer, that is left to the model-backed parser.
package resolve

import (
	"regexp"
	"strings"

	"github.com/bryentd477/fpa-tracker/types"
)

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]`)

// NormalizeID lowercases and strips non-alphanumerics so "FPA 2024-777" and
// "fpa2024777" compare equal.
func NormalizeID(value string) string {
	return nonAlnumRe.ReplaceAllString(strings.ToLower(value), "")
}

var explicitFpaRe = regexp.MustCompile(`(?i)fpa\s*[-#:]*\s*([a-z0-9-]+)`)

// Record finds the known record whose identifier appears in the utterance.
// Phase one tests containment of each normalized identifier inside the
// normalized utterance (the identifier may be embedded in a longer phrase);
// phase two falls back to an explicit "fpa <token>" mention compared by
// equality. Returns nil when nothing matches.
func Record(text string, records []types.Record) *types.Record {
	normalized := NormalizeID(text)
	if normalized == "" {
		return nil
	}

	for i := range records {
		candidate := NormalizeID(records[i].FPANumber)
		if candidate != "" && strings.Contains(normalized, candidate) {
			return &records[i]
		}
	}

	if m := explicitFpaRe.FindStringSubmatch(text); m != nil {
		guessed := NormalizeID(m[1])
		for i := range records {
			if NormalizeID(records[i].FPANumber) == guessed {
				return &records[i]
			}
		}
	}

	return nil
}

// ByNumber finds a record by identifier equality after normalization.
func ByNumber(number string, records []types.Record) *types.Record {
	guessed := NormalizeID(number)
	if guessed == "" {
		return nil
	}
	for i := range records {
		if NormalizeID(records[i].FPANumber) == guessed {
			return &records[i]
		}
	}
	return nil
}

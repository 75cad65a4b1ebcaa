// Package extract holds the rule-based field extractors: pure, total
// functions that pull one typed value out of an utterance or report absent
// (the empty string). Extraction never errors; ambiguity means absent.
package extract

import (
	"regexp"
	"strings"

	"github.com/bryentd477/fpa-tracker/types"
)

// Status maps status synonyms onto the closed enum. Decision-window phrasing
// is checked first so the word "decision" inside longer phrases cannot
// misfire, and "disapproved" before "approved" because one contains the
// other.
func Status(text string) types.ApplicationStatus {
	lowered := strings.ToLower(text)
	switch {
	case strings.Contains(lowered, "in decision window"),
		strings.Contains(lowered, "decision window"),
		strings.Contains(lowered, "in decision"),
		strings.Contains(lowered, "pending"),
		strings.Contains(lowered, "decision"):
		return types.StatusInDecisionWindow
	case strings.Contains(lowered, "disapproved"):
		return types.StatusDisapproved
	case strings.Contains(lowered, "approved"):
		return types.StatusApproved
	case strings.Contains(lowered, "withdrawn"):
		return types.StatusWithdrawn
	case strings.Contains(lowered, "closed"):
		return types.StatusClosedOut
	}
	return types.StatusUnassigned
}

// LandownerKind finds a small/large keyword, large checked first for
// determinism.
func LandownerKind(text string) types.LandownerType {
	lowered := strings.ToLower(text)
	switch {
	case strings.Contains(lowered, "large"):
		return types.LandownerLarge
	case strings.Contains(lowered, "small"):
		return types.LandownerSmall
	}
	return types.LandownerUnset
}

// Activity classifies harvest progress. "not started" must win over the bare
// substring "started".
func Activity(text string) types.ApprovedActivity {
	lowered := strings.ToLower(text)
	switch {
	case strings.Contains(lowered, "not started"):
		return types.ActivityNotStarted
	case strings.Contains(lowered, "completed"):
		return types.ActivityCompleted
	case strings.Contains(lowered, "started"):
		return types.ActivityStarted
	}
	return types.ActivityUnset
}

var (
	fpaTokenRe     = regexp.MustCompile(`(?i)fpa\s*[-#:]*\s*([a-z0-9][a-z0-9-]*)`)
	bareTokenRe    = regexp.MustCompile(`(?i)^\s*([0-9][a-z0-9-]*)\s*$`)
	leadingTokenRe = regexp.MustCompile(`(?i)(?:fpa\s*(?:number|#)?\s*(?:is)?\s*)?\b([0-9][a-z0-9-]*)\b`)
	leadingDigitRe = regexp.MustCompile(`^[0-9]`)
)

// NumberToken captures an FPA identifier token: a leading-digit alphanumeric
// following "fpa", the whole text if it is itself such a token, or any
// leading-digit token as a last resort. Tokens that start with a letter are
// rejected so words like "for" never pass as identifiers.
func NumberToken(text string) string {
	if m := fpaTokenRe.FindStringSubmatch(text); m != nil && leadingDigitRe.MatchString(m[1]) {
		return m[1]
	}
	if m := bareTokenRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := leadingTokenRe.FindStringSubmatch(text); m != nil && leadingDigitRe.MatchString(m[1]) {
		return m[1]
	}
	return ""
}

// Value returns the first capture group of the first matching pattern,
// trimmed, or "".
func Value(text string, patterns []*regexp.Regexp) string {
	for _, pattern := range patterns {
		if m := pattern.FindStringSubmatch(text); m != nil && strings.TrimSpace(m[1]) != "" {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

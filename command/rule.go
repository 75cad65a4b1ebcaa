package command

import (
	"context"
	"regexp"
	"strings"

	"github.com/bryentd477/fpa-tracker/extract"
	"github.com/bryentd477/fpa-tracker/resolve"
	"github.com/bryentd477/fpa-tracker/types"
)

// RuleParser is the deterministic regex path. It never fails; utterances with
// no recognizable command come back as chat intent.
type RuleParser struct{}

func NewRuleParser() *RuleParser { return &RuleParser{} }

var (
	createRequestRe = regexp.MustCompile(`(?i)(?:add|create|make|new)\s+(?:a\s+|an\s+)?(?:new\s+)?fpa`)

	createNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)add\s+fpa\s+([0-9][a-z0-9-]*)`),
		regexp.MustCompile(`(?i)create\s+fpa\s+([0-9][a-z0-9-]*)`),
		regexp.MustCompile(`(?i)new\s+fpa\s+([0-9][a-z0-9-]*)`),
		regexp.MustCompile(`(?i)fpa[\s#-]*([0-9][a-z0-9-]*)`),
	}

	landownerFilterRe = regexp.MustCompile(`(?i)landowner\s*(?:is|=|named)?\s*([^,;.]+)`)

	statusFromToRe = regexp.MustCompile(`(?i)from\s+(?:approved|disapproved|withdrawn|in decision|pending|closed)(?:\s+window)?\s+to\s+(approved|disapproved|withdrawn|in decision window|in decision|pending|closed)`)
	statusToRe     = regexp.MustCompile(`(?i)(?:status|app status|application status)\s+(?:for\s+fpa\s+[a-z0-9-]+\s+)?to\s+(approved|disapproved|withdrawn|in decision window|in decision|pending|closed)`)

	updateValuePatterns = map[types.FieldName][]*regexp.Regexp{
		types.FieldLandowner: {
			regexp.MustCompile(`(?i)(?:landowner|owner|\blo\b)\s+for\s+fpa\s+[a-z0-9-]+\s+to\s+([^,;.]+)`),
			regexp.MustCompile(`(?i)(?:landowner|owner|\blo\b)\s+to\s+([^,;.]+)`),
			regexp.MustCompile(`(?i)(?:landowner|owner|\blo\b)\s+(?:is|of|:)\s+([^,;.]+)`),
		},
		types.FieldTimberSaleName: {
			regexp.MustCompile(`(?i)(?:timber\s*sale|sale|\bts\b)\s+name\s+for\s+fpa\s+[a-z0-9-]+\s+to\s+([^,;.]+)`),
			regexp.MustCompile(`(?i)(?:timber\s*sale|sale|\bts\b)\s+name\s+to\s+([^,;.]+)`),
			regexp.MustCompile(`(?i)(?:timber\s*sale|sale\s*name|\bts\b)\s+for\s+fpa\s+[a-z0-9-]+\s+to\s+([^,;.]+)`),
			regexp.MustCompile(`(?i)(?:timber\s*sale|sale\s*name|\bts\b)\s+to\s+([^,;.]+)`),
			regexp.MustCompile(`(?i)(?:timber\s*sale|sale\s*name|\bts\b)\s+(?:is|of|:)\s+([^,;.]+)`),
		},
		types.FieldExpirationDate: {
			regexp.MustCompile(`(?i)exp(?:iration)?\s*date\s+for\s+fpa\s+[a-z0-9-]+\s+to\s+([^,;.]+)`),
			regexp.MustCompile(`(?i)exp(?:iration)?\s*date\s+to\s+([^,;.]+)`),
			regexp.MustCompile(`(?i)exp(?:iration)?\s*date\s+(?:is|of|:)\s+([^,;.]+)`),
			regexp.MustCompile(`(?i)exp\s+to\s+([^,;.]+)`),
		},
		types.FieldDecisionDeadline: {
			regexp.MustCompile(`(?i)decision\s*(?:deadline|date)\s+for\s+fpa\s+[a-z0-9-]+\s+to\s+([^,;.]+)`),
			regexp.MustCompile(`(?i)decision\s*(?:deadline|date)\s+to\s+([^,;.]+)`),
			regexp.MustCompile(`(?i)decision\s*(?:deadline|date)\s+(?:is|of|:)\s+([^,;.]+)`),
			regexp.MustCompile(`(?i)dec\s*date\s+to\s+([^,;.]+)`),
		},
	}

	notePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:add|set)\s+(?:a\s+)?(?:note|comment)\s+to\s+fpa\s+[a-z0-9-]+\s+(?:saying|that|about|:)?\s*(.+?)$`),
		regexp.MustCompile(`(?i)(?:note|comment)\s+(?:for|to)\s+fpa\s+[a-z0-9-]+\s+(?:saying|that|about|:)?\s*(.+?)$`),
		regexp.MustCompile(`(?i)(?:note|comment)\s+(?:saying|that|about|to|:)\s*(.+?)$`),
		regexp.MustCompile(`(?i)(?:add|set)\s+(?:a\s+)?(?:note|comment)\s+(?:saying|that|about|:)?\s*(.+?)$`),
	}
)

func (p *RuleParser) Parse(ctx context.Context, text string, records []types.Record) (*Parsed, error) {
	lowered := strings.ToLower(text)

	if createRequestRe.MatchString(text) {
		return p.parseCreate(text), nil
	}

	match := resolve.Record(text, records)
	status := extract.Status(text)

	if strings.Contains(lowered, "help") {
		return &Parsed{Intent: types.IntentHelp}, nil
	}

	if strings.Contains(lowered, "summary") {
		parsed := &Parsed{Intent: types.IntentSummary}
		if status != types.StatusUnassigned {
			parsed.Filter = &ListFilter{Kind: "status", Value: string(status)}
		} else if match != nil {
			parsed.FPANumber = match.FPANumber
		}
		return parsed, nil
	}

	if parsed := p.parseList(text, lowered, match, status); parsed != nil {
		return parsed, nil
	}

	if parsed := p.parseNavigate(lowered); parsed != nil {
		return parsed, nil
	}

	if strings.Contains(lowered, "delete") || strings.Contains(lowered, "remove") {
		parsed := &Parsed{Intent: types.IntentDelete}
		if match != nil {
			parsed.FPANumber = match.FPANumber
		}
		return parsed, nil
	}

	if strings.Contains(lowered, "open fpa") || (strings.Contains(lowered, "open") && match != nil) {
		parsed := &Parsed{Intent: types.IntentView}
		if match != nil {
			parsed.FPANumber = match.FPANumber
		}
		return parsed, nil
	}

	if parsed := p.parseFieldEdit(text, lowered, match); parsed != nil {
		return parsed, nil
	}

	// Status shorthand without an action verb: "fpa 500 approved".
	if strings.Contains(lowered, "status") || status != types.StatusUnassigned {
		parsed := &Parsed{Intent: types.IntentUpdate, Target: types.FieldApplicationStatus, Fields: map[types.FieldName]string{}}
		if match != nil {
			parsed.FPANumber = match.FPANumber
		}
		if status != types.StatusUnassigned {
			parsed.Fields[types.FieldApplicationStatus] = string(status)
		}
		if date := extract.Clean(types.FieldDecisionDeadline, extract.Value(text, updateValuePatterns[types.FieldDecisionDeadline])); date != "" {
			parsed.Fields[types.FieldDecisionDeadline] = date
		}
		if date := extract.Clean(types.FieldExpirationDate, extract.Value(text, updateValuePatterns[types.FieldExpirationDate])); date != "" {
			parsed.Fields[types.FieldExpirationDate] = date
		}
		return parsed, nil
	}

	if strings.Contains(lowered, "comment") || strings.Contains(lowered, "note") {
		parsed := &Parsed{Intent: types.IntentComment, Fields: map[types.FieldName]string{}}
		if match != nil {
			parsed.FPANumber = match.FPANumber
		}
		if note := extract.Value(text, notePatterns); note != "" {
			parsed.Fields[types.FieldNotes] = note
		}
		return parsed, nil
	}

	if strings.Contains(lowered, "edit") || strings.Contains(lowered, "update") {
		parsed := &Parsed{Intent: types.IntentUpdate, Fields: extract.Fields(text)}
		delete(parsed.Fields, types.FieldNotes)
		if match != nil {
			parsed.FPANumber = match.FPANumber
		}
		return parsed, nil
	}

	return &Parsed{Intent: types.IntentChat}, nil
}

func (p *RuleParser) parseCreate(text string) *Parsed {
	fields := extract.Fields(text)
	if note := extract.Value(text, notePatterns); note != "" {
		fields[types.FieldNotes] = note
	}
	parsed := &Parsed{Intent: types.IntentCreate, Fields: fields}
	if number := extract.Value(text, createNumberPatterns); number != "" && number[0] >= '0' && number[0] <= '9' {
		parsed.FPANumber = number
	}
	return parsed
}

func (p *RuleParser) parseList(text, lowered string, match *types.Record, status types.ApplicationStatus) *Parsed {
	hasListVerb := strings.Contains(lowered, "list") ||
		strings.Contains(lowered, "show") ||
		strings.Contains(lowered, "display") ||
		strings.Contains(lowered, "give me")
	hasTarget := strings.Contains(lowered, "fpa") || strings.Contains(lowered, "applications")
	hasFilterLanguage := strings.Contains(lowered, "approved") ||
		strings.Contains(lowered, "withdrawn") ||
		strings.Contains(lowered, "disapproved") ||
		strings.Contains(lowered, "closed") ||
		strings.Contains(lowered, "decision") ||
		strings.Contains(lowered, "landowner")

	wants := strings.Contains(lowered, "show all fpas") ||
		strings.Contains(lowered, "give me a list of fpas") ||
		strings.Contains(lowered, "same landowner") ||
		(hasListVerb && hasTarget) ||
		(hasListVerb && hasFilterLanguage)
	if !wants {
		return nil
	}

	parsed := &Parsed{Intent: types.IntentList}
	switch {
	case match != nil && strings.Contains(lowered, "same landowner"):
		parsed.Filter = &ListFilter{Kind: "landowner", Value: match.Landowner, Label: "Landowner: " + match.Landowner}
	case status != types.StatusUnassigned:
		parsed.Filter = &ListFilter{Kind: "status", Value: string(status), Label: string(status) + " FPAs"}
	case extract.LandownerKind(text) != types.LandownerUnset:
		kind := string(extract.LandownerKind(text))
		parsed.Filter = &ListFilter{Kind: "landownerType", Value: kind, Label: kind + " landowner FPAs"}
	default:
		if owner := extract.Value(text, []*regexp.Regexp{landownerFilterRe}); owner != "" {
			parsed.Filter = &ListFilter{Kind: "landowner", Value: owner, Label: "Landowner: " + owner}
		} else {
			parsed.Filter = &ListFilter{Kind: "all", Label: "All FPAs"}
		}
	}
	return parsed
}

func (p *RuleParser) parseNavigate(lowered string) *Parsed {
	switch {
	case strings.Contains(lowered, "dashboard"):
		return &Parsed{Intent: types.IntentNavigate, View: "dashboard"}
	case strings.Contains(lowered, "go to list"):
		return &Parsed{Intent: types.IntentList, Filter: &ListFilter{Kind: "all", Label: "All FPAs"}}
	case strings.Contains(lowered, "go to reports"), strings.Contains(lowered, "show reports"), strings.Contains(lowered, "report"):
		return &Parsed{Intent: types.IntentNavigate, View: "reports"}
	}
	return nil
}

// parseFieldEdit detects "change/update/set <field> ..." commands, including
// the "from X to Y" phrasing where only the target status matters.
func (p *RuleParser) parseFieldEdit(text, lowered string, match *types.Record) *Parsed {
	hasEditAction := strings.Contains(lowered, "change") ||
		strings.Contains(lowered, "update") ||
		strings.Contains(lowered, "set") ||
		strings.Contains(lowered, "modify") ||
		strings.Contains(lowered, "add")
	if !hasEditAction {
		return nil
	}

	field := detectField(lowered)
	if field == "" {
		return nil
	}

	if field == types.FieldNotes {
		parsed := &Parsed{Intent: types.IntentComment, Fields: map[types.FieldName]string{}}
		if match != nil {
			parsed.FPANumber = match.FPANumber
		}
		if note := extract.Value(text, notePatterns); note != "" {
			parsed.Fields[types.FieldNotes] = note
		}
		return parsed
	}

	parsed := &Parsed{Intent: types.IntentUpdate, Target: field, Fields: map[types.FieldName]string{}}
	if match != nil {
		parsed.FPANumber = match.FPANumber
	}

	var value string
	switch field {
	case types.FieldApprovedActivity:
		value = string(extract.Activity(text))
	case types.FieldApplicationStatus:
		if m := statusFromToRe.FindStringSubmatch(text); m != nil {
			value = string(extract.Status(m[1]))
		} else if m := statusToRe.FindStringSubmatch(text); m != nil {
			value = string(extract.Status(m[1]))
		} else {
			value = string(extract.Status(text))
		}
	case types.FieldLandownerType:
		value = string(extract.LandownerKind(text))
	case types.FieldExpirationDate, types.FieldDecisionDeadline:
		value = extract.Clean(field, extract.Value(text, updateValuePatterns[field]))
	default:
		value = extract.Value(text, updateValuePatterns[field])
	}
	if value != "" {
		parsed.Fields[field] = value
	}
	return parsed
}

var wordRes = map[string]*regexp.Regexp{
	"ts":      regexp.MustCompile(`\bts\b`),
	"owner":   regexp.MustCompile(`\bowner\b`),
	"lo":      regexp.MustCompile(`\blo\b`),
	"note":    regexp.MustCompile(`\bnote\b`),
	"notes":   regexp.MustCompile(`\bnotes\b`),
	"comment": regexp.MustCompile(`\bcomment\b`),
}

// hasWord checks on word boundaries so "lo" cannot match inside
// "application".
func hasWord(lowered, word string) bool {
	re, ok := wordRes[word]
	if !ok {
		return strings.Contains(lowered, word)
	}
	return re.MatchString(lowered)
}

// detectField maps field mentions to field names, most specific phrasing
// first so "landowner type" never reads as "landowner".
func detectField(lowered string) types.FieldName {
	switch {
	case strings.Contains(lowered, "timber sale"), strings.Contains(lowered, "timber name"),
		strings.Contains(lowered, "sale name"), hasWord(lowered, "ts"):
		return types.FieldTimberSaleName
	case strings.Contains(lowered, "landowner type"), strings.Contains(lowered, "owner type"):
		return types.FieldLandownerType
	case strings.Contains(lowered, "landowner"), strings.Contains(lowered, "land owner"),
		hasWord(lowered, "owner"), hasWord(lowered, "lo"):
		return types.FieldLandowner
	case strings.Contains(lowered, "exp date"), strings.Contains(lowered, "expiration"):
		return types.FieldExpirationDate
	case strings.Contains(lowered, "decision deadline"), strings.Contains(lowered, "decision date"),
		strings.Contains(lowered, "dec date"):
		return types.FieldDecisionDeadline
	case strings.Contains(lowered, "harvest status"), strings.Contains(lowered, "harvest activity"),
		strings.Contains(lowered, "approved activity"), strings.Contains(lowered, "activity status"):
		return types.FieldApprovedActivity
	case strings.Contains(lowered, "application status"), strings.Contains(lowered, "app status"),
		strings.Contains(lowered, "fpa status"), strings.Contains(lowered, "status"):
		return types.FieldApplicationStatus
	case hasWord(lowered, "note"), hasWord(lowered, "notes"), hasWord(lowered, "comment"):
		return types.FieldNotes
	}
	return ""
}

var _ Parser = (*RuleParser)(nil)

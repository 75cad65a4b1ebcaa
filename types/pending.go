package types

// Intent is the coarse action category a turn resolves to.
type Intent string

const (
	IntentCreate   Intent = "create"
	IntentUpdate   Intent = "update"
	IntentDelete   Intent = "delete"
	IntentComment  Intent = "comment"
	IntentView     Intent = "view"
	IntentList     Intent = "list"
	IntentNavigate Intent = "navigate"
	IntentSummary  Intent = "summary"
	IntentHelp     Intent = "help"
	IntentChat     Intent = "chat"
)

// FieldState is the tri-state optionality of a dialogue field. Skipped and
// Claimed both satisfy the elicitation cursor but contribute no value to the
// dispatched record.
type FieldState int

const (
	FieldUnset FieldState = iota
	FieldSkipped
	FieldClaimed
	FieldFilled
)

// FieldValue is one accumulated answer in a pending operation.
type FieldValue struct {
	state FieldState
	value string
}

func SetField(value string) FieldValue { return FieldValue{state: FieldFilled, value: value} }
func SkipField() FieldValue            { return FieldValue{state: FieldSkipped} }

// ClaimField marks a required field the user says they filled in the form
// directly.
func ClaimField() FieldValue { return FieldValue{state: FieldClaimed} }

func (v FieldValue) State() FieldState { return v.state }
func (v FieldValue) IsSet() bool       { return v.state == FieldFilled && v.value != "" }

// Provided reports whether the field no longer needs prompting.
func (v FieldValue) Provided() bool { return v.state != FieldUnset }

// Value returns the cleaned value, or "" for skipped/claimed/unset fields.
func (v FieldValue) Value() string {
	if v.state == FieldFilled {
		return v.value
	}
	return ""
}

// PendingOperation is the single in-flight multi-turn command. At most one
// exists per conversation; it is cleared on dispatch, cancellation or
// supersession.
type PendingOperation struct {
	Intent       Intent
	Record       *Record // resolved target; nil for create until named
	Fields       map[FieldName]FieldValue
	Expecting    FieldName // "" when no field is being elicited
	NeedsConfirm bool      // delete path only
}

func NewPendingOperation(intent Intent) *PendingOperation {
	return &PendingOperation{Intent: intent, Fields: map[FieldName]FieldValue{}}
}

func (p *PendingOperation) Field(name FieldName) FieldValue {
	return p.Fields[name]
}

// Merge folds extracted values into the accumulated answers. For create the
// user may revise earlier answers before submit, so non-empty values always
// overwrite; for other intents the first value wins.
func (p *PendingOperation) Merge(extracted map[FieldName]string) []FieldName {
	var applied []FieldName
	for name, value := range extracted {
		if value == "" {
			continue
		}
		if p.Intent != IntentCreate && p.Fields[name].IsSet() {
			continue
		}
		p.Fields[name] = SetField(value)
		applied = append(applied, name)
	}
	return applied
}

// MissingRequired returns required create fields not yet provided, in the
// fixed elicitation order.
func (p *PendingOperation) MissingRequired() []FieldName {
	var missing []FieldName
	for _, name := range RequiredFields {
		if !p.Fields[name].Provided() {
			missing = append(missing, name)
		}
	}
	return missing
}

// MissingOptional returns optional fields not yet provided, ordered by the
// status chosen so far.
func (p *PendingOperation) MissingOptional() []FieldName {
	status := ApplicationStatus(p.Fields[FieldApplicationStatus].Value())
	var missing []FieldName
	for _, name := range OptionalFields(status) {
		if !p.Fields[name].Provided() {
			missing = append(missing, name)
		}
	}
	return missing
}

// Draft materializes the accumulated answers as a record. Skipped and claimed
// fields come out empty.
func (p *PendingOperation) Draft() Record {
	var r Record
	for name, value := range p.Fields {
		if value.IsSet() {
			r.Apply(name, value.Value())
		}
	}
	return r
}

// Message is one conversation log entry.
type Message struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

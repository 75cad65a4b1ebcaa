package types

// ApplicationStatus is the closed set of FPA application states. The empty
// string means no status has been assigned yet.
type ApplicationStatus string

const (
	StatusUnassigned       ApplicationStatus = ""
	StatusInDecisionWindow ApplicationStatus = "In Decision Window"
	StatusApproved         ApplicationStatus = "Approved"
	StatusWithdrawn        ApplicationStatus = "Withdrawn"
	StatusDisapproved      ApplicationStatus = "Disapproved"
	StatusClosedOut        ApplicationStatus = "Closed Out"
)

// AllStatuses lists assignable statuses in display order.
var AllStatuses = []ApplicationStatus{
	StatusInDecisionWindow,
	StatusApproved,
	StatusWithdrawn,
	StatusDisapproved,
	StatusClosedOut,
}

type LandownerType string

const (
	LandownerUnset LandownerType = ""
	LandownerSmall LandownerType = "Small"
	LandownerLarge LandownerType = "Large"
)

type ApprovedActivity string

const (
	ActivityUnset      ApprovedActivity = ""
	ActivityNotStarted ApprovedActivity = "Not Started"
	ActivityStarted    ApprovedActivity = "Started"
	ActivityCompleted  ApprovedActivity = "Completed"
)

// Record is a Forest Practice Application as held by the record store.
// Dates are ISO YYYY-MM-DD strings; empty means unset.
type Record struct {
	ID                string            `json:"id"`
	FPANumber         string            `json:"fpaNumber"`
	Landowner         string            `json:"landowner"`
	TimberSaleName    string            `json:"timberSaleName"`
	LandownerType     LandownerType     `json:"landownerType"`
	ApplicationStatus ApplicationStatus `json:"applicationStatus"`
	DecisionDeadline  string            `json:"decisionDeadline"`
	ExpirationDate    string            `json:"expirationDate"`
	ApprovedActivity  ApprovedActivity  `json:"approvedActivity"`
	Notes             string            `json:"notes"`
}

// FieldName identifies one Record field in dialogue state, extraction tables
// and patch paths. Values match the record's JSON keys.
type FieldName string

const (
	FieldFPANumber         FieldName = "fpaNumber"
	FieldLandowner         FieldName = "landowner"
	FieldTimberSaleName    FieldName = "timberSaleName"
	FieldLandownerType     FieldName = "landownerType"
	FieldApplicationStatus FieldName = "applicationStatus"
	FieldDecisionDeadline  FieldName = "decisionDeadline"
	FieldExpirationDate    FieldName = "expirationDate"
	FieldApprovedActivity  FieldName = "approvedActivity"
	FieldNotes             FieldName = "notes"
)

// RequiredFields is the fixed elicitation order for create: identifier first.
var RequiredFields = []FieldName{FieldFPANumber, FieldLandowner, FieldTimberSaleName}

// OptionalFields returns the optional elicitation order given the status
// chosen so far. The deadline only becomes relevant inside the decision
// window; expiration and activity only once approved. Notes always close out
// the sequence.
func OptionalFields(status ApplicationStatus) []FieldName {
	fields := []FieldName{FieldLandownerType, FieldApplicationStatus}
	switch status {
	case StatusInDecisionWindow:
		fields = append(fields, FieldDecisionDeadline)
	case StatusApproved:
		fields = append(fields, FieldExpirationDate, FieldApprovedActivity)
	}
	return append(fields, FieldNotes)
}

// Apply sets the named field on the record.
func (r *Record) Apply(field FieldName, value string) {
	switch field {
	case FieldFPANumber:
		r.FPANumber = value
	case FieldLandowner:
		r.Landowner = value
	case FieldTimberSaleName:
		r.TimberSaleName = value
	case FieldLandownerType:
		r.LandownerType = LandownerType(value)
	case FieldApplicationStatus:
		r.ApplicationStatus = ApplicationStatus(value)
	case FieldDecisionDeadline:
		r.DecisionDeadline = value
	case FieldExpirationDate:
		r.ExpirationDate = value
	case FieldApprovedActivity:
		r.ApprovedActivity = ApprovedActivity(value)
	case FieldNotes:
		r.Notes = value
	}
}

// Get returns the named field's current value.
func (r Record) Get(field FieldName) string {
	switch field {
	case FieldFPANumber:
		return r.FPANumber
	case FieldLandowner:
		return r.Landowner
	case FieldTimberSaleName:
		return r.TimberSaleName
	case FieldLandownerType:
		return string(r.LandownerType)
	case FieldApplicationStatus:
		return string(r.ApplicationStatus)
	case FieldDecisionDeadline:
		return r.DecisionDeadline
	case FieldExpirationDate:
		return r.ExpirationDate
	case FieldApprovedActivity:
		return string(r.ApprovedActivity)
	case FieldNotes:
		return r.Notes
	}
	return ""
}

// FieldLabel is the conversational name for a field, used in prompts and
// acknowledgements.
func FieldLabel(field FieldName) string {
	switch field {
	case FieldFPANumber:
		return "FPA number"
	case FieldTimberSaleName:
		return "timber sale name"
	case FieldLandownerType:
		return "landowner type"
	case FieldApplicationStatus:
		return "application status"
	case FieldDecisionDeadline:
		return "decision deadline"
	case FieldExpirationDate:
		return "expiration date"
	case FieldApprovedActivity:
		return "approved activity"
	default:
		return string(field)
	}
}

// FieldHint extends the label with the accepted value shape, for elicitation
// prompts.
func FieldHint(field FieldName) string {
	switch field {
	case FieldLandownerType:
		return "landowner type (Small/Large)"
	case FieldDecisionDeadline:
		return "decision deadline (YYYY-MM-DD)"
	case FieldExpirationDate:
		return "expiration date (YYYY-MM-DD)"
	case FieldApprovedActivity:
		return "approved activity (Not Started/Started/Completed)"
	default:
		return FieldLabel(field)
	}
}

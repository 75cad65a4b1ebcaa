package command

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/bryentd477/fpa-tracker/extract"
	"github.com/bryentd477/fpa-tracker/structured"
	"github.com/bryentd477/fpa-tracker/types"
)

const (
	parseCommandToolName        = "parse_fpa_command"
	parseCommandToolDescription = "Record the structured interpretation of an FPA management command."

	// DefaultTimeout bounds the model round trip; expiry is treated like any
	// other parse failure and the rule-based path takes over.
	DefaultTimeout = 10 * time.Second
)

type parseCommandInput struct {
	Utterance string
	Records   []types.Record
}

type parseCommandArgs struct {
	Intent            string `json:"intent" jsonschema:"required,enum=create,enum=update,enum=delete,enum=comment,enum=view,enum=list,enum=navigate,enum=summary,enum=help,enum=chat,description=The user's intent"`
	FPANumber         string `json:"fpa_number,omitempty" jsonschema:"description=The FPA number the command targets, if any"`
	Landowner         string `json:"landowner,omitempty"`
	TimberSaleName    string `json:"timber_sale_name,omitempty"`
	LandownerType     string `json:"landowner_type,omitempty" jsonschema:"enum=,enum=Small,enum=Large"`
	ApplicationStatus string `json:"application_status,omitempty" jsonschema:"enum=,enum=In Decision Window,enum=Approved,enum=Withdrawn,enum=Disapproved,enum=Closed Out"`
	DecisionDeadline  string `json:"decision_deadline,omitempty" jsonschema:"description=ISO date YYYY-MM-DD"`
	ExpirationDate    string `json:"expiration_date,omitempty" jsonschema:"description=ISO date YYYY-MM-DD"`
	ApprovedActivity  string `json:"approved_activity,omitempty" jsonschema:"enum=,enum=Not Started,enum=Started,enum=Completed"`
	Notes             string `json:"notes,omitempty"`
	LandownerFilter   string `json:"landowner_filter,omitempty" jsonschema:"description=Landowner name to filter a list request by"`
	View              string `json:"view,omitempty" jsonschema:"enum=,enum=dashboard,enum=list,enum=add,enum=reports"`
	Reply             string `json:"reply,omitempty" jsonschema:"description=Short conversational reply for chat intent"`
}

// ToolParser is the model-backed command parser. It is advisory only: it
// never mutates state, and any failure (network, timeout, schema) is an error
// the caller falls back from.
type ToolParser struct {
	chain *structured.Chain[*parseCommandInput, parseCommandArgs]
}

func NewToolParser(chatModel model.ToolCallingChatModel) (*ToolParser, error) {
	chain, err := structured.NewChain[*parseCommandInput, parseCommandArgs](
		chatModel,
		buildParseCommandPrompt,
		parseCommandToolName,
		parseCommandToolDescription,
	)
	if err != nil {
		return nil, err
	}
	chain.Timeout = DefaultTimeout
	return &ToolParser{chain: chain}, nil
}

func (p *ToolParser) Parse(ctx context.Context, utterance string, records []types.Record) (*Parsed, error) {
	result, err := p.chain.Invoke(ctx, &parseCommandInput{Utterance: utterance, Records: records})
	if err != nil {
		return nil, err
	}
	return cleanParsedArgs(result)
}

func buildParseCommandPrompt(ctx context.Context, input *parseCommandInput) ([]*schema.Message, error) {
	systemPrompt := fmt.Sprintf(`You parse natural-language commands for a Forest Practice Application (FPA) tracker.

An FPA has: fpaNumber (unique identifier), landowner, timberSaleName, landownerType (Small/Large), applicationStatus (In Decision Window/Approved/Withdrawn/Disapproved/Closed Out), decisionDeadline, expirationDate, approvedActivity (Not Started/Started/Completed), notes.

Interpret the user's command and call the '%s' tool with the result:
- create: the user wants a new FPA. Fill every field they mentioned.
- update: the user wants to change fields on an existing FPA.
- delete: the user wants to remove an FPA.
- comment: the user wants to add a note to an FPA.
- view: the user wants to open one FPA.
- list: the user wants to see FPAs, optionally filtered by status, landowner or landowner type.
- navigate: the user wants a different screen (dashboard, list, add, reports).
- summary: the user asks for counts or a one-line record summary.
- help: the user asks what you can do.
- chat: anything else; put a short helpful answer in reply.

Dates must be normalized to YYYY-MM-DD. Map status synonyms ("pending" means In Decision Window). Match fpa_number against the known FPAs when the user refers to an existing one, tolerating typos.`, parseCommandToolName)

	userPrompt := fmt.Sprintf("%s\n\n# Command:\n%s", types.FormatRecordsTable(input.Records), input.Utterance)

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt),
	}, nil
}

var validIntents = map[types.Intent]bool{
	types.IntentCreate: true, types.IntentUpdate: true, types.IntentDelete: true,
	types.IntentComment: true, types.IntentView: true, types.IntentList: true,
	types.IntentNavigate: true, types.IntentSummary: true, types.IntentHelp: true,
	types.IntentChat: true,
}

// cleanParsedArgs validates the tool payload against the schema and
// normalizes the free-text slots. An intent outside the enum is a schema
// failure, not something to guess around.
func cleanParsedArgs(args *parseCommandArgs) (*Parsed, error) {
	intent := types.Intent(strings.ToLower(strings.TrimSpace(args.Intent)))
	if !validIntents[intent] {
		return nil, fmt.Errorf("model returned invalid intent %q", args.Intent)
	}

	parsed := &Parsed{
		Intent:    intent,
		FPANumber: strings.TrimSpace(args.FPANumber),
		Fields:    map[types.FieldName]string{},
		View:      strings.TrimSpace(args.View),
		Reply:     strings.TrimSpace(args.Reply),
	}

	setIfPresent(parsed.Fields, types.FieldLandowner, cleanFreeText(args.Landowner))
	setIfPresent(parsed.Fields, types.FieldTimberSaleName, cleanFreeText(args.TimberSaleName))
	setIfPresent(parsed.Fields, types.FieldLandownerType, string(extract.LandownerKind(args.LandownerType)))
	setIfPresent(parsed.Fields, types.FieldApplicationStatus, string(extract.Status(args.ApplicationStatus)))
	setIfPresent(parsed.Fields, types.FieldDecisionDeadline, extract.Date(args.DecisionDeadline))
	setIfPresent(parsed.Fields, types.FieldExpirationDate, extract.Date(args.ExpirationDate))
	setIfPresent(parsed.Fields, types.FieldApprovedActivity, string(extract.Activity(args.ApprovedActivity)))
	setIfPresent(parsed.Fields, types.FieldNotes, capitalizeNote(cleanFreeText(args.Notes)))

	if intent == types.IntentList {
		switch {
		case parsed.Fields[types.FieldApplicationStatus] != "":
			status := parsed.Fields[types.FieldApplicationStatus]
			parsed.Filter = &ListFilter{Kind: "status", Value: status, Label: status + " FPAs"}
		case strings.TrimSpace(args.LandownerFilter) != "":
			owner := cleanFreeText(args.LandownerFilter)
			parsed.Filter = &ListFilter{Kind: "landowner", Value: owner, Label: "Landowner: " + owner}
		case parsed.Fields[types.FieldLandownerType] != "":
			kind := parsed.Fields[types.FieldLandownerType]
			parsed.Filter = &ListFilter{Kind: "landownerType", Value: kind, Label: kind + " landowner FPAs"}
		default:
			parsed.Filter = &ListFilter{Kind: "all", Label: "All FPAs"}
		}
	}

	return parsed, nil
}

func setIfPresent(fields map[types.FieldName]string, name types.FieldName, value string) {
	if value != "" {
		fields[name] = value
	}
}

var (
	fillerPrefixRe = regexp.MustCompile(`(?i)^(?:named|called|that|is)\s+`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// cleanFreeText strips leading filler words the model tends to echo and
// collapses internal whitespace.
func cleanFreeText(value string) string {
	value = strings.TrimSpace(value)
	value = fillerPrefixRe.ReplaceAllString(value, "")
	return whitespaceRe.ReplaceAllString(value, " ")
}

func capitalizeNote(note string) string {
	if note == "" {
		return note
	}
	return strings.ToUpper(note[:1]) + note[1:]
}

var _ Parser = (*ToolParser)(nil)

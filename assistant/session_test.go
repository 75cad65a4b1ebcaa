package assistant

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryentd477/fpa-tracker/command"
	"github.com/bryentd477/fpa-tracker/reply"
	"github.com/bryentd477/fpa-tracker/store"
	"github.com/bryentd477/fpa-tracker/types"
)

type fakeSink struct {
	messages   []string
	highlights [][]types.FieldName
	views      []string
	filters    []command.ListFilter
	selected   []types.Record
}

func (s *fakeSink) AssistantMessage(text string)                { s.messages = append(s.messages, text) }
func (s *fakeSink) HighlightFields(fields []types.FieldName)    { s.highlights = append(s.highlights, fields) }
func (s *fakeSink) Navigate(view string)                        { s.views = append(s.views, view) }
func (s *fakeSink) ApplyListFilter(filter command.ListFilter)   { s.filters = append(s.filters, filter) }
func (s *fakeSink) SelectRecord(record types.Record)            { s.selected = append(s.selected, record) }

func (s *fakeSink) lastMessage() string {
	if len(s.messages) == 0 {
		return ""
	}
	return s.messages[len(s.messages)-1]
}

type fakeEditor struct {
	drafts     []types.Record
	highlights [][]types.FieldName
}

func (e *fakeEditor) OpenEditor(draft types.Record, highlight []types.FieldName) {
	e.drafts = append(e.drafts, draft)
	e.highlights = append(e.highlights, highlight)
}

func newTestSession(t *testing.T, opts Options) (*Session, *fakeSink, *store.MemoryStore) {
	t.Helper()
	memory := store.NewMemoryStore()
	if opts.Store == nil {
		opts.Store = memory
	}
	if opts.Parser == nil {
		opts.Parser = command.NewRuleParser()
	}
	if opts.Reply == nil {
		opts.Reply = reply.LocalGenerator{}
	}
	opts.Logger = zerolog.Nop()
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC) }
	}
	sink := &fakeSink{}
	return NewSession(sink, opts), sink, memory
}

func TestOpenGreetsInRuleBasedMode(t *testing.T) {
	t.Parallel()
	session, sink, _ := newTestSession(t, Options{})
	session.Open(context.Background())
	require.Len(t, sink.messages, 1)
	assert.Contains(t, sink.messages[0], "rule-based")
}

func TestCreateDialogueEndToEnd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	session, sink, memory := newTestSession(t, Options{})

	session.SubmitUtterance(ctx, "add fpa 2024-777")
	require.NotNil(t, session.Pending(ctx))
	assert.Contains(t, sink.lastMessage(), "landowner")

	session.SubmitUtterance(ctx, "landowner John Doe")
	session.SubmitUtterance(ctx, "timber sale Oak Ridge")
	session.SubmitUtterance(ctx, "submit")

	assert.Nil(t, session.Pending(ctx))
	records, err := memory.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-777", records[0].FPANumber)
	assert.Equal(t, "John Doe", records[0].Landowner)
	assert.Equal(t, "Oak Ridge", records[0].TimberSaleName)
	assert.Contains(t, sink.lastMessage(), "Created FPA 2024-777")
}

func TestUpdateSingleShotWritesStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	session, sink, memory := newTestSession(t, Options{})
	created, err := memory.Create(ctx, types.Record{FPANumber: "500", Landowner: "John Doe"})
	require.NoError(t, err)

	session.SubmitUtterance(ctx, "change status for fpa 500 to approved")

	assert.Nil(t, session.Pending(ctx))
	records, err := memory.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, created.ID, records[0].ID)
	assert.Equal(t, types.StatusApproved, records[0].ApplicationStatus)
	assert.Contains(t, sink.lastMessage(), "Updated FPA 500")
}

func TestUpdateHandsOffToEditorWhenAvailable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	editor := &fakeEditor{}
	session, sink, memory := newTestSession(t, Options{Editor: editor})
	_, err := memory.Create(ctx, types.Record{FPANumber: "500", Landowner: "John Doe"})
	require.NoError(t, err)

	session.SubmitUtterance(ctx, "change status for fpa 500 to approved")

	// The store is untouched; the pre-filled draft went to the editor.
	records, err := memory.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.ApplicationStatus(""), records[0].ApplicationStatus)
	require.Len(t, editor.drafts, 1)
	assert.Equal(t, types.StatusApproved, editor.drafts[0].ApplicationStatus)
	assert.Equal(t, []types.FieldName{types.FieldApplicationStatus}, editor.highlights[0])
	assert.Contains(t, sink.views, "edit")
}

func TestDeleteConfirmFlow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	session, sink, memory := newTestSession(t, Options{})
	_, err := memory.Create(ctx, types.Record{FPANumber: "500"})
	require.NoError(t, err)

	session.SubmitUtterance(ctx, "delete fpa 500")
	assert.Contains(t, sink.lastMessage(), "sure")
	records, _ := memory.List(ctx)
	require.Len(t, records, 1, "no store call before confirmation")

	session.SubmitUtterance(ctx, "yes")
	records, _ = memory.List(ctx)
	assert.Empty(t, records)
	assert.Contains(t, sink.lastMessage(), "Deleted FPA 500")
}

func TestDeleteDeclined(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	session, _, memory := newTestSession(t, Options{})
	_, err := memory.Create(ctx, types.Record{FPANumber: "500"})
	require.NoError(t, err)

	session.SubmitUtterance(ctx, "delete fpa 500")
	session.SubmitUtterance(ctx, "no")

	records, _ := memory.List(ctx)
	assert.Len(t, records, 1)
	assert.Nil(t, session.Pending(ctx))
}

func TestCommentAppendsTimestampedNote(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	session, sink, memory := newTestSession(t, Options{})
	_, err := memory.Create(ctx, types.Record{FPANumber: "500", Notes: "first note"})
	require.NoError(t, err)

	session.SubmitUtterance(ctx, "add a note to fpa 500 saying waiting on survey")

	records, _ := memory.List(ctx)
	require.Len(t, records, 1)
	assert.Equal(t, "first note\n[2026-08-31 10:30] waiting on survey", records[0].Notes)
	assert.Contains(t, sink.lastMessage(), "Added your note")
}

func TestListWithStatusFilter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	session, sink, memory := newTestSession(t, Options{})
	_, err := memory.Create(ctx, types.Record{FPANumber: "500", ApplicationStatus: types.StatusApproved})
	require.NoError(t, err)
	_, err = memory.Create(ctx, types.Record{FPANumber: "600", ApplicationStatus: types.StatusWithdrawn})
	require.NoError(t, err)

	session.SubmitUtterance(ctx, "list all approved fpas")

	require.Len(t, sink.filters, 1)
	assert.Equal(t, "status", sink.filters[0].Kind)
	assert.Contains(t, sink.views, "list")
	assert.Contains(t, sink.lastMessage(), "500")
	assert.NotContains(t, sink.lastMessage(), "600")
}

func TestDuplicateCreateIsResumable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	session, sink, memory := newTestSession(t, Options{})
	_, err := memory.Create(ctx, types.Record{FPANumber: "500"})
	require.NoError(t, err)

	session.SubmitUtterance(ctx, "add fpa 500")
	assert.Contains(t, sink.lastMessage(), "already exists")

	pending := session.Pending(ctx)
	require.NotNil(t, pending)
	assert.Equal(t, types.FieldFPANumber, pending.Expecting)
}

func TestHelpAndSummary(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	session, sink, memory := newTestSession(t, Options{})
	_, err := memory.Create(ctx, types.Record{FPANumber: "500", ApplicationStatus: types.StatusApproved})
	require.NoError(t, err)

	session.SubmitUtterance(ctx, "help")
	assert.Contains(t, sink.lastMessage(), "Create a new FPA")

	session.SubmitUtterance(ctx, "summary")
	assert.Contains(t, sink.lastMessage(), "Total: 1")
}

func TestChatFallsBackToLocalReply(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	session, sink, _ := newTestSession(t, Options{})

	session.SubmitUtterance(ctx, "how is your day going")
	assert.Contains(t, sink.lastMessage(), "I'm not sure how to help with that")
}

func TestTranscriptRecordsBothRoles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	session, _, _ := newTestSession(t, Options{})

	session.SubmitUtterance(ctx, "help")
	history, err := session.transcript.All(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, types.RoleUser, history[0].Role)
	assert.Equal(t, types.RoleAssistant, history[1].Role)
}

func TestConversationsAreIsolated(t *testing.T) {
	t.Parallel()
	session, _, _ := newTestSession(t, Options{})
	ctxA := WithConversation(context.Background(), "a")
	ctxB := WithConversation(context.Background(), "b")

	session.SubmitUtterance(ctxA, "add fpa 700")
	assert.NotNil(t, session.Pending(ctxA))
	assert.Nil(t, session.Pending(ctxB))
}

func TestKeepLastNTrimmer(t *testing.T) {
	t.Parallel()
	history := []types.Message{
		{Role: types.RoleUser, Text: "one"},
		{Role: types.RoleAssistant, Text: "two"},
		{Role: types.RoleUser, Text: "three"},
	}
	trimmed := KeepLastN{N: 2}.Trim(history)
	require.Len(t, trimmed, 2)
	assert.Equal(t, "two", trimmed[0].Text)

	assert.Len(t, KeepLastN{N: 5}.Trim(history), 3)
	assert.Empty(t, KeepLastN{}.Trim(history))
}

func TestFilterRecords(t *testing.T) {
	t.Parallel()
	records := []types.Record{
		{FPANumber: "1", Landowner: "John Doe", LandownerType: types.LandownerSmall, ApplicationStatus: types.StatusApproved},
		{FPANumber: "2", Landowner: "Weyerhaeuser", LandownerType: types.LandownerLarge},
	}

	got := filterRecords(records, &command.ListFilter{Kind: "status", Value: "Approved"})
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].FPANumber)

	got = filterRecords(records, &command.ListFilter{Kind: "landowner", Value: "weyer"})
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].FPANumber)

	got = filterRecords(records, &command.ListFilter{Kind: "landownerType", Value: "Small"})
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].FPANumber)

	assert.Len(t, filterRecords(records, &command.ListFilter{Kind: "all"}), 2)
}

func TestStoreFailureClearsPending(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	failing := &failingStore{}
	session, sink, _ := newTestSession(t, Options{Store: failing})

	session.SubmitUtterance(ctx, "anything at all")
	assert.True(t, strings.Contains(sink.lastMessage(), "record store"))
}

type failingStore struct{}

func (f *failingStore) List(ctx context.Context) ([]types.Record, error) {
	return nil, assert.AnError
}

func (f *failingStore) Create(ctx context.Context, record types.Record) (types.Record, error) {
	return types.Record{}, assert.AnError
}

func (f *failingStore) Update(ctx context.Context, id string, fields map[types.FieldName]string) error {
	return assert.AnError
}

func (f *failingStore) Delete(ctx context.Context, id string) error {
	return assert.AnError
}

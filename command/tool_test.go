package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryentd477/fpa-tracker/types"
)

func TestCleanParsedArgsNormalizesSlots(t *testing.T) {
	t.Parallel()
	parsed, err := cleanParsedArgs(&parseCommandArgs{
		Intent:            "Update",
		FPANumber:         " 2741506 ",
		Landowner:         "named  John   Doe",
		ApplicationStatus: "pending",
		DecisionDeadline:  "June 15, 2025",
		ApprovedActivity:  "not started",
	})
	require.NoError(t, err)

	assert.Equal(t, types.IntentUpdate, parsed.Intent)
	assert.Equal(t, "2741506", parsed.FPANumber)
	assert.Equal(t, "John Doe", parsed.Fields[types.FieldLandowner])
	assert.Equal(t, string(types.StatusInDecisionWindow), parsed.Fields[types.FieldApplicationStatus])
	assert.Equal(t, "2025-06-15", parsed.Fields[types.FieldDecisionDeadline])
	assert.Equal(t, string(types.ActivityNotStarted), parsed.Fields[types.FieldApprovedActivity])
}

func TestCleanParsedArgsRejectsUnknownIntent(t *testing.T) {
	t.Parallel()
	_, err := cleanParsedArgs(&parseCommandArgs{Intent: "frobnicate"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid intent")
}

func TestCleanParsedArgsCapitalizesNote(t *testing.T) {
	t.Parallel()
	parsed, err := cleanParsedArgs(&parseCommandArgs{Intent: "comment", FPANumber: "500", Notes: "waiting on survey"})
	require.NoError(t, err)
	assert.Equal(t, "Waiting on survey", parsed.Fields[types.FieldNotes])
}

func TestCleanParsedArgsListFilterPrecedence(t *testing.T) {
	t.Parallel()

	// Status wins over a landowner filter when the model fills both.
	parsed, err := cleanParsedArgs(&parseCommandArgs{
		Intent:            "list",
		ApplicationStatus: "Approved",
		LandownerFilter:   "Smith",
	})
	require.NoError(t, err)
	require.NotNil(t, parsed.Filter)
	assert.Equal(t, "status", parsed.Filter.Kind)
	assert.Equal(t, "Approved", parsed.Filter.Value)

	parsed, err = cleanParsedArgs(&parseCommandArgs{Intent: "list", LandownerFilter: "Smith"})
	require.NoError(t, err)
	assert.Equal(t, "landowner", parsed.Filter.Kind)
	assert.Equal(t, "Smith", parsed.Filter.Value)

	parsed, err = cleanParsedArgs(&parseCommandArgs{Intent: "list"})
	require.NoError(t, err)
	assert.Equal(t, "all", parsed.Filter.Kind)
}

func TestCleanParsedArgsDropsEmptySlots(t *testing.T) {
	t.Parallel()
	parsed, err := cleanParsedArgs(&parseCommandArgs{Intent: "chat", Reply: "Hello there"})
	require.NoError(t, err)
	assert.Empty(t, parsed.Fields)
	assert.Equal(t, "Hello there", parsed.Reply)
}

package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryentd477/fpa-tracker/types"
)

var known = []types.Record{
	{ID: "a", FPANumber: "2024-777", Landowner: "John Doe"},
	{ID: "b", FPANumber: "500", Landowner: "Weyerhaeuser"},
	{ID: "c", FPANumber: "2741506", Landowner: "Smith"},
}

func TestNormalizeID(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "fpa2024777", NormalizeID("FPA 2024-777"))
	assert.Equal(t, "500", NormalizeID(" 500 "))
	assert.Equal(t, "", NormalizeID("---"))
}

func TestRecordContainment(t *testing.T) {
	t.Parallel()
	// The identifier may be embedded in a longer phrase.
	got := Record("please update fpa 2024-777 for me", known)
	require.NotNil(t, got)
	assert.Equal(t, "a", got.ID)

	got = Record("what about 2741506?", known)
	require.NotNil(t, got)
	assert.Equal(t, "c", got.ID)
}

func TestRecordExplicitMention(t *testing.T) {
	t.Parallel()
	got := Record("open fpa 500", known)
	require.NotNil(t, got)
	assert.Equal(t, "b", got.ID)
}

func TestRecordNoMatch(t *testing.T) {
	t.Parallel()
	assert.Nil(t, Record("show me the dashboard", known))
	assert.Nil(t, Record("", known))
	assert.Nil(t, Record("fpa 999999", known))
}

func TestByNumber(t *testing.T) {
	t.Parallel()
	got := ByNumber("2024-777", known)
	require.NotNil(t, got)
	assert.Equal(t, "a", got.ID)

	got = ByNumber("2024777", known)
	require.NotNil(t, got)
	assert.Equal(t, "a", got.ID)

	assert.Nil(t, ByNumber("777", known))
	assert.Nil(t, ByNumber("", known))
}

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDateISO(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "2029-06-20", Date("the deadline is 2029-06-20"))
	assert.Equal(t, "", Date("2029-13-20"), "invalid month")
	assert.Equal(t, "", Date("2029-02-30"), "invalid day")
}

func TestDateIdempotent(t *testing.T) {
	t.Parallel()
	// Feeding an extracted date back through the extractor returns it
	// unchanged.
	for _, in := range []string{"6/20/2029", "June 20, 2029", "2029-06-20", "2029"} {
		first := Date(in)
		assert.NotEmpty(t, first, "input %q", in)
		assert.Equal(t, first, Date(first), "input %q", in)
	}
}

func TestDateMDY(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "2029-06-20", Date("6/20/2029"))
	assert.Equal(t, "2029-06-05", Date("06-05-2029"))
	assert.Equal(t, "", Date("2/30/2029"), "invalid calendar day")
}

func TestDateBareYear(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "2045-01-01", Date("2045"))
}

func TestDateMonthName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "2045-06-20", Date("June 20, 2045"))
	assert.Equal(t, "2045-06-20", Date("June 20 2045"))
	assert.Equal(t, "2045-06-20", Date("jun 20 2045"))
}

func TestDateRejectsTwoDigitYears(t *testing.T) {
	t.Parallel()
	// A two-digit year could land in the wrong century; absent beats a wrong
	// guess.
	assert.Equal(t, "", Date("6/20/29"))
	assert.Equal(t, "", Date("June 20, 29"))
	assert.Equal(t, "", Date("29"))
}

func TestDateAbsent(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", Date("no date here"))
	assert.Equal(t, "", Date(""))
}

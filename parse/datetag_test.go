package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDateTag(t *testing.T) {
	tagger := NewDateTagger(nil)

	tag, err := tagger.FormatDateTag("February 7, 2026")
	require.NoError(t, err)
	assert.Equal(t, "7Feb2026", tag)

	tag, err = tagger.FormatDateTag("December 31, 2025")
	require.NoError(t, err)
	assert.Equal(t, "31Dec2025", tag)

	_, err = tagger.FormatDateTag("7 February 2026 extra")
	assert.Error(t, err)

	_, err = tagger.FormatDateTag("Febuary 7, 2026")
	assert.Error(t, err, "unknown month must fail, not guess")

	_, err = tagger.FormatDateTag("")
	assert.Error(t, err)
}

func TestParseDateTag(t *testing.T) {
	d, err := ParseDateTag("7Feb2026")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.February, 7, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDateTag("31Dec2025")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDateTag("Feb2026")
	assert.Error(t, err)
	_, err = ParseDateTag("7Xyz2026")
	assert.Error(t, err)
	_, err = ParseDateTag("")
	assert.Error(t, err)
}

func TestSortTagsDesc(t *testing.T) {
	tags := []string{"7Feb2026", "31Dec2025", "9Feb2026", "1Jan2026"}
	SortTagsDesc(tags)
	assert.Equal(t, []string{"9Feb2026", "7Feb2026", "1Jan2026", "31Dec2025"}, tags)
}

func TestSortTagsDescMalformedLast(t *testing.T) {
	tags := []string{"bogus", "7Feb2026", "31Dec2025"}
	SortTagsDesc(tags)
	assert.Equal(t, "bogus", tags[len(tags)-1])
	assert.Equal(t, []string{"7Feb2026", "31Dec2025"}, tags[:2])
}

func TestDayTag(t *testing.T) {
	assert.Equal(t, "7Feb2026", DayTag(time.Date(2026, time.February, 7, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "31Dec2025", DayTag(time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)))
}

func TestTagRoundTrip(t *testing.T) {
	tagger := NewDateTagger(nil)
	tag, err := tagger.FormatDateTag("February 7, 2026")
	require.NoError(t, err)

	d, err := ParseDateTag(tag)
	require.NoError(t, err)
	assert.Equal(t, tag, DayTag(d))
}

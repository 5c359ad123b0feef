package showing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stockholm = time.FixedZone("CET", 60*60)

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, stockholm)
}

func TestFormatBuckets(t *testing.T) {
	testCases := []struct {
		now   time.Time
		input string
		want  Kind
	}{
		{at(2026, 2, 22, 11, 14), "Sön 22 feb kl 13:30", KindToday},
		{at(2026, 2, 22, 11, 14), "Mån 23 feb kl 12:00", KindTomorrow},
		{at(2026, 2, 22, 23, 30), "Sön 22 feb kl 23:45", KindToday},
		{at(2026, 2, 21, 23, 30), "Sön 22 feb kl 10:00", KindTomorrow},
		{at(2026, 2, 22, 0, 15), "Sön 22 feb kl 13:30", KindToday},
		{at(2026, 2, 22, 11, 14), "Idag kl 18:00", KindToday},
		{at(2026, 2, 22, 11, 14), "imorgon", KindTomorrow},
		{at(2026, 2, 22, 11, 14), "Tor 26 feb kl 17:45", KindLater},
		{at(2026, 2, 22, 13, 0), "Lör 21 feb kl 23:45", KindFinished},
	}

	for _, tc := range testCases {
		b, ok := Format(tc.input, tc.now)
		require.True(t, ok, tc.input)
		assert.Equal(t, tc.want, b.Kind, "%s at %s", tc.input, tc.now)
	}
}

func TestFormatFinishedBoundary(t *testing.T) {
	now := at(2026, 2, 22, 0, 15)

	// exactly thirty minutes ago is still upcoming
	b, ok := Format("Lör 21 feb kl 23:45", now)
	require.True(t, ok)
	assert.NotEqual(t, KindFinished, b.Kind)
	assert.Equal(t, -1, b.Days)

	b, ok = Format("Lör 21 feb kl 23:44", now)
	require.True(t, ok)
	assert.Equal(t, KindFinished, b.Kind)
}

func TestFormatWithoutDate(t *testing.T) {
	now := at(2026, 2, 22, 11, 14)

	_, ok := Format("", now)
	assert.False(t, ok)

	_, ok = Format("Visning enligt överenskommelse", now)
	assert.False(t, ok)
}

func TestParseYearRollover(t *testing.T) {
	now := at(2026, 2, 22, 11, 14)

	// later this year stays in this year
	assert.Equal(t, at(2026, 12, 15, 0, 0), Parse("15 dec", now))

	// more than thirty days stale moves to next year
	assert.Equal(t, at(2027, 1, 15, 14, 0), Parse("Fre 15 jan kl 14:00", now))

	// recently past stays put
	assert.Equal(t, at(2026, 2, 10, 17, 45), Parse("Tis 10 feb kl 17:45", now))
}

func TestParseRelative(t *testing.T) {
	now := at(2026, 2, 28, 20, 0)

	assert.Equal(t, at(2026, 2, 28, 9, 5), Parse("IDAG kl 9:05", now))
	assert.Equal(t, at(2026, 3, 1, 12, 30), Parse("Imorgon kl 12:30", now))
	assert.Equal(t, at(2026, 2, 28, 0, 0), Parse("  idag  ", now))
}

func TestParseSentinel(t *testing.T) {
	now := at(2026, 2, 22, 11, 14)

	for _, input := range []string{"", "   ", "snart", "kl 14:00"} {
		parsed := Parse(input, now)
		assert.True(t, IsUnparseable(parsed), input)
		assert.Equal(t, 2099, parsed.Year())
		assert.True(t, parsed.After(now))
	}
}

func TestLabel(t *testing.T) {
	now := at(2026, 2, 22, 11, 14)

	testCases := []struct {
		input string
		want  string
	}{
		{"Sön 22 feb kl 13:30", "Idag 13:30"},
		{"Mån 23 feb", "Imorgon"},
		{"Tor 26 feb kl 17:45", "Tor 17:45"},
		{"Sön 1 mar kl 11:00", "Sön 11:00"},
		{"Tis 10 mar kl 17:45", "10 mar 17:45"},
	}

	for _, tc := range testCases {
		b, ok := Format(tc.input, now)
		require.True(t, ok, tc.input)
		assert.Equal(t, tc.want, b.Label(), tc.input)
	}
}

func TestSort(t *testing.T) {
	now := at(2026, 2, 22, 11, 14)
	items := []string{"", "Tis 10 mar", "Idag kl 15:00", "okänt", "Imorgon kl 10:00", "Idag kl 15:00 (2)"}

	Sort(items, func(s string) string { return s }, now)

	assert.Equal(t, []string{"Idag kl 15:00", "Idag kl 15:00 (2)", "Imorgon kl 10:00", "Tis 10 mar", "", "okänt"}, items)
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     int
		want                           bool
	}{
		{"identical", 540, 600, 540, 600, true},
		{"contained", 540, 720, 600, 660, true},
		{"starts during", 540, 600, 570, 630, true},
		{"ends during", 570, 630, 540, 600, true},
		{"adjacent before", 480, 540, 540, 600, false},
		{"adjacent after", 540, 600, 480, 540, false},
		{"disjoint", 480, 540, 600, 660, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// Symmetric
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestReservation_OverlapsWith(t *testing.T) {
	existing := Reservation{SpaceID: 1, Date: "2026-09-10", Start: 540, End: 600}

	sameSlotOtherSpace := Reservation{SpaceID: 2, Date: "2026-09-10", Start: 540, End: 600}
	assert.False(t, existing.OverlapsWith(&sameSlotOtherSpace))

	sameSlotOtherDate := Reservation{SpaceID: 1, Date: "2026-09-11", Start: 540, End: 600}
	assert.False(t, existing.OverlapsWith(&sameSlotOtherDate))

	overlapping := Reservation{SpaceID: 1, Date: "2026-09-10", Start: 570, End: 630}
	assert.True(t, existing.OverlapsWith(&overlapping))

	backToBack := Reservation{SpaceID: 1, Date: "2026-09-10", Start: 600, End: 660}
	assert.False(t, existing.OverlapsWith(&backToBack))
}

func TestParseClock(t *testing.T) {
	min, err := ParseClock("08:30")
	assert.NoError(t, err)
	assert.Equal(t, 510, min)

	_, err = ParseClock("25:00")
	assert.Error(t, err)
	_, err = ParseClock("8am")
	assert.Error(t, err)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "08:05", FormatClock(485))
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "17:15", FormatClock(1035))
}

func TestParseBlockToken(t *testing.T) {
	start, end, err := ParseBlockToken("08:00-09:00")
	assert.NoError(t, err)
	assert.Equal(t, 480, start)
	assert.Equal(t, 540, end)

	for _, bad := range []string{"", "08:00", "09:00-08:00", "08:00-08:00", "8-9", "08:00-nope"} {
		_, _, err := ParseBlockToken(bad)
		assert.Error(t, err, "token %q should not parse", bad)
	}
}

func TestParseDate(t *testing.T) {
	day, _, err := ParseDate("2026-09-10")
	assert.NoError(t, err)
	assert.Equal(t, "2026-09-10", day)

	_, _, err = ParseDate("10/09/2026")
	assert.Error(t, err)
}

func TestParseCategoryBoardroom(t *testing.T) {
	c, err := ParseCategory("boardroom")
	assert.NoError(t, err)
	assert.Equal(t, CategoryBoardroom, c)

	_, err = ParseCategory("directorio")
	assert.Error(t, err)
}

func TestReservation_Clocks(t *testing.T) {
	r := Reservation{Start: 615, End: 735}
	assert.Equal(t, "10:15", r.StartClock())
	assert.Equal(t, "12:15", r.EndClock())
	assert.Equal(t, 120.0, r.Duration().Minutes())
}

package aggregate

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/models"
)

func res(id, office, space int64, date string, start, end int) models.Reservation {
	return models.Reservation{ID: id, OfficeID: office, SpaceID: space, Date: date, Start: start, End: end}
}

func TestGroup_Empty(t *testing.T) {
	assert.Nil(t, Group(nil))
	assert.Nil(t, Group([]models.Reservation{}))
}

func TestGroup_SingleRecord(t *testing.T) {
	groups := Group([]models.Reservation{res(1, 10, 1, "2026-09-11", 540, 600)})
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "09:00", g.Start)
	assert.Equal(t, "10:00", g.End)
	assert.Equal(t, 60, g.Minutes)
	assert.Equal(t, []int64{1}, g.IDs)
	assert.False(t, g.Aggregated)
}

func TestGroup_ContiguousBlocksMerge(t *testing.T) {
	groups := Group([]models.Reservation{
		res(1, 10, 1, "2026-09-11", 540, 600), // 09:00-10:00
		res(2, 10, 1, "2026-09-11", 600, 660), // 10:00-11:00
	})
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "09:00", g.Start)
	assert.Equal(t, "11:00", g.End)
	assert.Equal(t, 120, g.Minutes)
	assert.Equal(t, []int64{1, 2}, g.IDs)
	assert.True(t, g.Aggregated)
}

func TestGroup_GapBreaksGroup(t *testing.T) {
	groups := Group([]models.Reservation{
		res(1, 10, 1, "2026-09-11", 540, 600),
		res(2, 10, 1, "2026-09-11", 660, 720), // 11:00, one hour gap
	})
	require.Len(t, groups, 2)
	assert.False(t, groups[0].Aggregated)
	assert.False(t, groups[1].Aggregated)
}

func TestGroup_BoundariesBreakGroups(t *testing.T) {
	groups := Group([]models.Reservation{
		// Sorted by (office, space, date, start).
		res(1, 10, 1, "2026-09-11", 540, 600),
		res(2, 10, 1, "2026-09-11", 600, 660),
		res(3, 10, 1, "2026-09-12", 540, 600), // other date
		res(4, 10, 2, "2026-09-11", 600, 660), // other space
		res(5, 20, 1, "2026-09-11", 660, 720), // other office
	})
	require.Len(t, groups, 4)
	assert.Equal(t, []int64{1, 2}, groups[0].IDs)
	assert.Equal(t, []int64{3}, groups[1].IDs)
	assert.Equal(t, []int64{4}, groups[2].IDs)
	assert.Equal(t, []int64{5}, groups[3].IDs)
}

func TestGroup_LongChain(t *testing.T) {
	var rs []models.Reservation
	for i := 0; i < 8; i++ {
		start := 480 + i*60
		rs = append(rs, res(int64(i+1), 10, 1, "2026-09-11", start, start+60))
	}
	groups := Group(rs)
	require.Len(t, groups, 1)
	assert.Equal(t, "08:00", groups[0].Start)
	assert.Equal(t, "16:00", groups[0].End)
	assert.Equal(t, 480, groups[0].Minutes)
	assert.Len(t, groups[0].IDs, 8)
}

// Re-grouping the flattened output must reproduce the original groups.
func TestGroup_Idempotent(t *testing.T) {
	original := []models.Reservation{
		res(1, 10, 1, "2026-09-11", 540, 600),
		res(2, 10, 1, "2026-09-11", 600, 660),
		res(3, 10, 1, "2026-09-11", 720, 780),
		res(4, 10, 2, "2026-09-11", 540, 600),
		res(5, 20, 1, "2026-09-11", 540, 600),
	}
	first := Group(original)

	// Expand groups back into their constituent records, re-sort, re-group.
	byID := make(map[int64]models.Reservation, len(original))
	for _, r := range original {
		byID[r.ID] = r
	}
	var flattened []models.Reservation
	for _, g := range first {
		for _, id := range g.IDs {
			flattened = append(flattened, byID[id])
		}
	}
	sort.Slice(flattened, func(i, j int) bool {
		a, b := flattened[i], flattened[j]
		if a.OfficeID != b.OfficeID {
			return a.OfficeID < b.OfficeID
		}
		if a.SpaceID != b.SpaceID {
			return a.SpaceID < b.SpaceID
		}
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.Start < b.Start
	})

	second := Group(flattened)
	assert.Equal(t, first, second)
}

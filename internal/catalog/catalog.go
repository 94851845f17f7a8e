// Package catalog produces the fixed set of bookable time blocks for
// each space category. Tables are hand-curated; the generic meeting-room
// schedule is the fallback for categories without one.
package catalog

import (
	"fmt"

	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/models"
)

var blockTables = map[models.Category][]models.TimeBlock{
	models.CategoryBoardroom: {
		{Start: "08:00", End: "10:00", Label: "8:00 AM - 10:00 AM"},
		{Start: "10:15", End: "12:15", Label: "10:15 AM - 12:15 PM"},
		{Start: "13:00", End: "15:00", Label: "1:00 PM - 3:00 PM"},
		{Start: "15:15", End: "17:15", Label: "3:15 PM - 5:15 PM"},
	},
	models.CategoryMeetingRoom: hourly(8, 18),
	models.CategoryTerrace: {
		{Start: "08:00", End: "10:00", Label: "8:00 AM - 10:00 AM"},
		{Start: "10:00", End: "12:00", Label: "10:00 AM - 12:00 PM"},
		{Start: "14:00", End: "16:00", Label: "2:00 PM - 4:00 PM"},
		{Start: "16:00", End: "18:00", Label: "4:00 PM - 6:00 PM"},
	},
	models.CategoryDining:  hourly(12, 16),
	models.CategoryParking: hourly(7, 19),
}

// hourly builds back-to-back one-hour blocks covering [fromHour, toHour).
func hourly(fromHour, toHour int) []models.TimeBlock {
	blocks := make([]models.TimeBlock, 0, toHour-fromHour)
	for h := fromHour; h < toHour; h++ {
		start := h * 60
		end := (h + 1) * 60
		blocks = append(blocks, models.TimeBlock{
			Start: models.FormatClock(start),
			End:   models.FormatClock(end),
			Label: clockLabel(start) + " - " + clockLabel(end),
		})
	}
	return blocks
}

func clockLabel(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	display := h % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, m, suffix)
}

// BlocksFor returns the ordered block table for a category. Categories
// without a table get the meeting-room schedule. The returned slice is a
// copy; callers may set the Occupied flag freely.
func BlocksFor(category models.Category) []models.TimeBlock {
	table, ok := blockTables[category]
	if !ok {
		table = blockTables[models.CategoryMeetingRoom]
	}
	out := make([]models.TimeBlock, len(table))
	copy(out, table)
	return out
}

// BlocksForSpace resolves the effective table for a space, honoring its
// custom schedule override when enabled.
func BlocksForSpace(space *models.Space) []models.TimeBlock {
	if space.UseCustomBlocks && len(space.CustomBlocks) > 0 {
		out := make([]models.TimeBlock, len(space.CustomBlocks))
		copy(out, space.CustomBlocks)
		return out
	}
	return BlocksFor(space.Category)
}

package models

import "fmt"

// Category identifies the kind of bookable space. The catalog and the
// booking rules both dispatch on it.
type Category string

const (
	CategoryMeetingRoom Category = "meeting_room"
	CategoryBoardroom   Category = "boardroom"
	CategoryTerrace     Category = "terrace"
	CategoryParking     Category = "parking"
	CategoryDining      Category = "dining"
)

// ParseCategory validates a category string from config or storage.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryMeetingRoom, CategoryBoardroom, CategoryTerrace, CategoryParking, CategoryDining:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown space category: %q", s)
}

// Office is a tenant account that owns reservations.
type Office struct {
	ID          int64  `json:"id"`
	Number      string `json:"number"`
	CompanyName string `json:"company_name"`
}

// Space is a bookable physical resource. Immutable except for the
// active flag; OwnerOfficeID is only meaningful for parking spots.
type Space struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Category        Category    `json:"category"`
	Active          bool        `json:"active"`
	OwnerOfficeID   *int64      `json:"owner_office_id,omitempty"`
	VisitorParking  bool        `json:"visitor_parking"`
	UseCustomBlocks bool        `json:"use_custom_blocks"`
	CustomBlocks    []TimeBlock `json:"custom_blocks,omitempty"`
}

// TimeBlock is one bookable interval from the catalog. Occupied is set
// by the availability checker, never persisted.
type TimeBlock struct {
	Start    string `json:"start"` // "08:00"
	End      string `json:"end"`   // "09:00"
	Label    string `json:"label"`
	Occupied bool   `json:"occupied"`
}

// VisitorInfo carries the visitor fields used for parking reservations.
type VisitorInfo struct {
	Name    string `json:"name"`
	Plate   string `json:"plate"`
	Company string `json:"company"`
}

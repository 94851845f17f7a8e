// Package availability answers read-only occupancy questions for a
// space and date. It never locks; submissions serialize elsewhere.
package availability

import (
	"context"
	"fmt"

	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/models"
)

// ReservationSource provides the stored reservations a check runs against.
type ReservationSource interface {
	FindBySpaceDate(ctx context.Context, spaceID int64, date string) ([]models.Reservation, error)
}

// Checker evaluates block occupancy against existing reservations.
type Checker struct {
	src ReservationSource
}

// NewChecker creates a checker over a reservation source.
func NewChecker(src ReservationSource) *Checker {
	return &Checker{src: src}
}

// Occupied reports whether [startMin, endMin) overlaps any existing
// reservation for the space and date. Touching endpoints are free, so
// adjacent blocks can be booked back to back.
func (c *Checker) Occupied(ctx context.Context, spaceID int64, date string, startMin, endMin int) (bool, error) {
	existing, err := c.src.FindBySpaceDate(ctx, spaceID, date)
	if err != nil {
		return false, fmt.Errorf("load reservations: %w", err)
	}
	for i := range existing {
		if models.Overlaps(startMin, endMin, existing[i].Start, existing[i].End) {
			return true, nil
		}
	}
	return false, nil
}

// MarkOccupancy returns the blocks with their Occupied flag set against
// the reservations stored for the space and date. The input slice is not
// modified.
func (c *Checker) MarkOccupancy(ctx context.Context, spaceID int64, date string, blocks []models.TimeBlock) ([]models.TimeBlock, error) {
	existing, err := c.src.FindBySpaceDate(ctx, spaceID, date)
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}

	marked := make([]models.TimeBlock, len(blocks))
	copy(marked, blocks)
	for i := range marked {
		start, err := models.ParseClock(marked[i].Start)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		end, err := models.ParseClock(marked[i].End)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		for j := range existing {
			if models.Overlaps(start, end, existing[j].Start, existing[j].End) {
				marked[i].Occupied = true
				break
			}
		}
	}
	return marked, nil
}

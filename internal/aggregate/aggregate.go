// Package aggregate folds contiguous reservation records into logical
// groups for display and grouped deletion.
package aggregate

import (
	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/models"
)

// Group merges adjacent reservations sharing office, space and date into
// ReservationGroups. The input must already be sorted by (office, space,
// date, start); the function does not sort, and unsorted input yields
// undefined grouping. A lone record still gets a one-element ID list so
// deletion handles every group the same way.
func Group(reservations []models.Reservation) []models.ReservationGroup {
	if len(reservations) == 0 {
		return nil
	}

	groups := make([]models.ReservationGroup, 0, len(reservations))
	cur := open(&reservations[0])

	for i := 1; i < len(reservations); i++ {
		r := &reservations[i]
		if extends(cur, r) {
			cur.end = r.End
			cur.ids = append(cur.ids, r.ID)
			continue
		}
		groups = append(groups, cur.close())
		cur = open(r)
	}
	return append(groups, cur.close())
}

type building struct {
	officeID int64
	spaceID  int64
	date     string
	start    int
	end      int
	ids      []int64
}

func open(r *models.Reservation) building {
	return building{
		officeID: r.OfficeID,
		spaceID:  r.SpaceID,
		date:     r.Date,
		start:    r.Start,
		end:      r.End,
		ids:      []int64{r.ID},
	}
}

// extends reports whether r continues the group: same office, space and
// date, starting exactly where the group ends.
func extends(g building, r *models.Reservation) bool {
	return r.OfficeID == g.officeID &&
		r.SpaceID == g.spaceID &&
		r.Date == g.date &&
		r.Start == g.end
}

func (g building) close() models.ReservationGroup {
	return models.ReservationGroup{
		OfficeID:   g.officeID,
		SpaceID:    g.spaceID,
		Date:       g.date,
		Start:      models.FormatClock(g.start),
		End:        models.FormatClock(g.end),
		Minutes:    g.end - g.start,
		IDs:        g.ids,
		Aggregated: len(g.ids) > 1,
	}
}

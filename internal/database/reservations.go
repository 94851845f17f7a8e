package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/models"
)

const reservationColumns = `
	id, office_id, space_id, date, start_minute, end_minute,
	visitor_name, visitor_plate, visitor_company, created_at`

// FindBySpaceDate returns all reservations for a space on a date,
// ordered by start minute.
func (db *DB) FindBySpaceDate(ctx context.Context, spaceID int64, date string) ([]models.Reservation, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE space_id = ? AND date = ?
		ORDER BY start_minute`, spaceID, date)
	if err != nil {
		return nil, fmt.Errorf("find reservations for space %d on %s: %w", spaceID, date, err)
	}
	defer rows.Close()
	return collectReservations(rows)
}

// FindByOffice returns all reservations of an office, ordered so that
// contiguous blocks sit next to each other for aggregation.
func (db *DB) FindByOffice(ctx context.Context, officeID int64) ([]models.Reservation, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE office_id = ?
		ORDER BY office_id, space_id, date, start_minute`, officeID)
	if err != nil {
		return nil, fmt.Errorf("find reservations for office %d: %w", officeID, err)
	}
	defer rows.Close()
	return collectReservations(rows)
}

func collectReservations(rows *sql.Rows) ([]models.Reservation, error) {
	var out []models.Reservation
	for rows.Next() {
		var (
			r       models.Reservation
			name    sql.NullString
			plate   sql.NullString
			company sql.NullString
		)
		err := rows.Scan(&r.ID, &r.OfficeID, &r.SpaceID, &r.Date, &r.Start, &r.End,
			&name, &plate, &company, &r.CreatedAt)
		if err != nil {
			return nil, err
		}
		r.VisitorName = name.String
		r.VisitorPlate = plate.String
		r.VisitorCompany = company.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// InsertReservations writes all records in one transaction and returns
// the assigned ids in input order. Either every record lands or none do.
func (db *DB) InsertReservations(ctx context.Context, reservations []models.Reservation) ([]int64, error) {
	if len(reservations) == 0 {
		return nil, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO reservations (office_id, space_id, date, start_minute, end_minute, visitor_name, visitor_plate, visitor_company)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	ids := make([]int64, 0, len(reservations))
	for _, r := range reservations {
		res, err := stmt.ExecContext(ctx, r.OfficeID, r.SpaceID, r.Date, r.Start, r.End,
			nullable(r.VisitorName), nullable(r.VisitorPlate), nullable(r.VisitorCompany))
		if err != nil {
			return nil, fmt.Errorf("insert reservation: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("insert reservation id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert: %w", err)
	}
	return ids, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// DeleteOwned removes the given reservations that belong to officeID
// and reports how many rows actually went away. Ids owned by other
// offices are silently skipped.
func (db *DB) DeleteOwned(ctx context.Context, officeID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, officeID)

	res, err := db.ExecContext(ctx,
		`DELETE FROM reservations WHERE id IN (`+placeholders+`) AND office_id = ?`, args...)
	if err != nil {
		return 0, fmt.Errorf("delete reservations: %w", err)
	}
	return res.RowsAffected()
}

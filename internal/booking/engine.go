// Package booking implements the reservation policy engine: it decides
// whether a requested set of time blocks may coexist with existing
// reservations, enforces per-category rules, and creates or deletes
// reservations atomically.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/metrics"
	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/models"
)

// Store is the persistence surface the engine needs. InsertReservations
// must be transactional: either every row becomes visible or none does.
type Store interface {
	FindSpace(ctx context.Context, id int64) (*models.Space, error)
	FindBySpaceDate(ctx context.Context, spaceID int64, date string) ([]models.Reservation, error)
	InsertReservations(ctx context.Context, reservations []models.Reservation) ([]int64, error)
	DeleteOwned(ctx context.Context, officeID int64, ids []int64) (int64, error)
}

// Clock supplies the current time for the cutoff rule; injected so
// tests and callers control "now".
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// EventPublisher receives reservation lifecycle events. Publishing is
// best-effort; failures are logged, never surfaced to the caller.
type EventPublisher interface {
	PublishJSON(eventType string, payload any) error
}

// BlockLimit bounds the number of blocks a single submission may carry
// for one category. Zero MinBlocks means no minimum; zero MaxBlocks
// means no cap.
type BlockLimit struct {
	MinBlocks int
	MaxBlocks int
}

// Rules holds the configurable policy parameters. CutoffMinutes rejects
// same-day submissions starting sooner than now+cutoff; zero disables
// the rule.
type Rules struct {
	CutoffMinutes int
	Limits        map[models.Category]BlockLimit
}

// DefaultRules mirrors the standing building policy: meeting rooms and
// dining areas cap at 8 blocks, boardrooms take 2 to 8 blocks, bookings
// close 30 minutes before the block starts.
func DefaultRules() Rules {
	return Rules{
		CutoffMinutes: 30,
		Limits: map[models.Category]BlockLimit{
			models.CategoryMeetingRoom: {MaxBlocks: 8},
			models.CategoryDining:      {MaxBlocks: 8},
			models.CategoryBoardroom:   {MinBlocks: 2, MaxBlocks: 8},
		},
	}
}

// SubmitRequest is one booking submission: a set of block tokens for a
// single space and date, owned by one office. Visitor fields only matter
// for parking categories.
type SubmitRequest struct {
	OfficeID int64
	SpaceID  int64
	Date     string
	Blocks   []string // "HH:MM-HH:MM" tokens, processed in order
	Visitor  *models.VisitorInfo
}

// SubmitResult reports a successful submission.
type SubmitResult struct {
	Created int     `json:"created"`
	IDs     []int64 `json:"ids"`
}

// Engine validates and persists reservation submissions.
type Engine struct {
	store  Store
	clock  Clock
	rules  Rules
	events EventPublisher
	locks  lockTable
	logger *zerolog.Logger
}

// NewEngine wires the policy engine. A nil clock falls back to the
// system clock; a nil publisher disables events.
func NewEngine(store Store, clock Clock, rules Rules, events EventPublisher, logger *zerolog.Logger) *Engine {
	if clock == nil {
		clock = SystemClock()
	}
	return &Engine{
		store:  store,
		clock:  clock,
		rules:  rules,
		events: events,
		logger: logger,
	}
}

// Submit validates the request and creates one reservation per block,
// all-or-nothing. The conflict check and the insert are serialized with
// respect to other submissions for the same space and date.
func (e *Engine) Submit(ctx context.Context, req SubmitRequest) (SubmitResult, error) {
	res, err := e.submit(ctx, req)
	if err != nil {
		metrics.IncSubmission("rejected")
		return SubmitResult{}, err
	}
	metrics.IncSubmission("created")
	metrics.AddReservationsCreated(res.Created)
	return res, nil
}

func (e *Engine) submit(ctx context.Context, req SubmitRequest) (SubmitResult, error) {
	if req.OfficeID <= 0 {
		return SubmitResult{}, fmt.Errorf("%w: office is required", ErrValidation)
	}
	if req.SpaceID <= 0 {
		return SubmitResult{}, fmt.Errorf("%w: space is required", ErrValidation)
	}
	if len(req.Blocks) == 0 {
		return SubmitResult{}, fmt.Errorf("%w: at least one time block is required", ErrValidation)
	}
	date, _, err := models.ParseDate(req.Date)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	space, err := e.store.FindSpace(ctx, req.SpaceID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("%w: find space: %v", ErrPersistence, err)
	}
	if space == nil {
		return SubmitResult{}, fmt.Errorf("%w: space %d", ErrNotFound, req.SpaceID)
	}
	if !space.Active {
		return SubmitResult{}, fmt.Errorf("%w: space %q is not active", ErrValidation, space.Name)
	}

	if err := e.checkOwnership(space, req.OfficeID); err != nil {
		return SubmitResult{}, err
	}
	if err := e.checkBlockCount(space.Category, len(req.Blocks)); err != nil {
		return SubmitResult{}, err
	}

	pending, err := e.parseBlocks(req, space, date)
	if err != nil {
		return SubmitResult{}, err
	}
	if err := e.checkCutoff(date, pending); err != nil {
		return SubmitResult{}, err
	}

	// Conflict check and insert must not interleave with another
	// submission for the same space and date.
	mu := e.locks.acquire(space.ID, date)
	defer mu.Unlock()

	existing, err := e.store.FindBySpaceDate(ctx, space.ID, date)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("%w: load reservations: %v", ErrPersistence, err)
	}
	for i := range pending {
		if token, conflicted := conflictsAny(&pending[i], existing, pending[:i]); conflicted {
			metrics.IncConflict()
			return SubmitResult{}, fmt.Errorf("%w: block %s is already reserved", ErrConflict, token)
		}
	}

	ids, err := e.store.InsertReservations(ctx, pending)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("%w: insert reservations: %v", ErrPersistence, err)
	}
	if len(ids) == 0 {
		// A non-empty submission must create rows; zero is a failure,
		// not a 0-count success.
		return SubmitResult{}, fmt.Errorf("%w: no reservations created", ErrPersistence)
	}

	e.logger.Info().
		Int64("office_id", req.OfficeID).
		Int64("space_id", space.ID).
		Str("date", date).
		Int("blocks", len(ids)).
		Msg("reservations created")

	e.publish("reservation.created", map[string]any{
		"office_id": req.OfficeID,
		"space_id":  space.ID,
		"date":      date,
		"ids":       ids,
	})

	return SubmitResult{Created: len(ids), IDs: ids}, nil
}

func (e *Engine) checkOwnership(space *models.Space, officeID int64) error {
	if space.Category != models.CategoryParking {
		return nil
	}
	if space.OwnerOfficeID == nil || *space.OwnerOfficeID == officeID {
		return nil
	}
	if space.VisitorParking {
		return nil
	}
	return fmt.Errorf("%w: parking %q belongs to another office", ErrPermission, space.Name)
}

func (e *Engine) checkBlockCount(category models.Category, count int) error {
	limit, ok := e.rules.Limits[category]
	if !ok {
		return nil
	}
	if limit.MinBlocks > 0 && count < limit.MinBlocks {
		return fmt.Errorf("%w: %s requires at least %d blocks per submission", ErrPolicyLimit, category, limit.MinBlocks)
	}
	if limit.MaxBlocks > 0 && count > limit.MaxBlocks {
		return fmt.Errorf("%w: %s allows at most %d blocks per submission", ErrPolicyLimit, category, limit.MaxBlocks)
	}
	return nil
}

// parseBlocks turns the submitted tokens into unpersisted reservations,
// preserving submission order.
func (e *Engine) parseBlocks(req SubmitRequest, space *models.Space, date string) ([]models.Reservation, error) {
	now := e.clock.Now()
	pending := make([]models.Reservation, 0, len(req.Blocks))
	for _, token := range req.Blocks {
		start, end, err := models.ParseBlockToken(token)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		r := models.Reservation{
			OfficeID:  req.OfficeID,
			SpaceID:   space.ID,
			Date:      date,
			Start:     start,
			End:       end,
			CreatedAt: now,
		}
		if req.Visitor != nil {
			r.VisitorName = req.Visitor.Name
			r.VisitorPlate = req.Visitor.Plate
			r.VisitorCompany = req.Visitor.Company
		}
		pending = append(pending, r)
	}
	return pending, nil
}

// checkCutoff rejects past dates and, when the cutoff is enabled,
// same-day blocks starting sooner than now+cutoff.
func (e *Engine) checkCutoff(date string, pending []models.Reservation) error {
	now := e.clock.Now()
	today := now.Format("2006-01-02")
	if date < today {
		return fmt.Errorf("%w: cannot book past dates", ErrValidation)
	}
	if e.rules.CutoffMinutes <= 0 || date != today {
		return nil
	}
	earliest := now.Hour()*60 + now.Minute() + e.rules.CutoffMinutes
	for i := range pending {
		if pending[i].Start < earliest {
			return fmt.Errorf("%w: block %s-%s starts within the %d minute cutoff",
				ErrPolicyLimit, pending[i].StartClock(), pending[i].EndClock(), e.rules.CutoffMinutes)
		}
	}
	return nil
}

// conflictsAny checks a pending block against stored reservations and
// the blocks accepted earlier in the same submission.
func conflictsAny(block *models.Reservation, existing, accepted []models.Reservation) (string, bool) {
	token := block.StartClock() + "-" + block.EndClock()
	for i := range existing {
		if models.Overlaps(block.Start, block.End, existing[i].Start, existing[i].End) {
			return token, true
		}
	}
	for i := range accepted {
		if models.Overlaps(block.Start, block.End, accepted[i].Start, accepted[i].End) {
			return token, true
		}
	}
	return token, false
}

// Delete removes the given reservations, silently excluding ids not
// owned by the office. Callers compare the returned count against the
// requested count to detect partial authorization.
func (e *Engine) Delete(ctx context.Context, officeID int64, ids []int64) (int64, error) {
	if officeID <= 0 {
		return 0, fmt.Errorf("%w: office is required", ErrValidation)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	deleted, err := e.store.DeleteOwned(ctx, officeID, ids)
	if err != nil {
		return 0, fmt.Errorf("%w: delete reservations: %v", ErrPersistence, err)
	}
	if deleted > 0 {
		metrics.AddReservationsDeleted(deleted)
		e.logger.Info().
			Int64("office_id", officeID).
			Int("requested", len(ids)).
			Int64("deleted", deleted).
			Msg("reservations deleted")
		e.publish("reservation.deleted", map[string]any{
			"office_id": officeID,
			"ids":       ids,
			"deleted":   deleted,
		})
	}
	return deleted, nil
}

func (e *Engine) publish(eventType string, payload any) {
	if e.events == nil {
		return
	}
	if err := e.events.PublishJSON(eventType, payload); err != nil {
		e.logger.Warn().Err(err).Str("event", eventType).Msg("event publish failed")
	}
}

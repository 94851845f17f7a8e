package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/aggregate"
	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/booking"
	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/catalog"
	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/metrics"
	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/models"
)

// handleListSpaces returns the active space catalog.
// GET /api/spaces
func (s *Server) handleListSpaces(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("list_spaces")

	spaces, err := s.spaces.ListSpaces(r.Context(), true)
	if err != nil {
		s.logger.Error().Err(err).Msg("list spaces failed")
		writeError(w, http.StatusInternalServerError, "failed to list spaces")
		return
	}
	if spaces == nil {
		spaces = []models.Space{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"spaces": spaces})
}

// BlocksResponse is the response for GET /api/spaces/{id}/blocks.
type BlocksResponse struct {
	SpaceID int64              `json:"space_id"`
	Date    string             `json:"date"`
	Blocks  []models.TimeBlock `json:"blocks"`
}

// handleSpaceBlocks returns the block table for a space with occupancy
// flags for the requested date.
// GET /api/spaces/{id}/blocks?date=YYYY-MM-DD
func (s *Server) handleSpaceBlocks(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("space_blocks")

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid space id")
		return
	}
	date, _, err := models.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date; expected YYYY-MM-DD")
		return
	}

	space, err := s.spaces.FindSpace(r.Context(), id)
	if err != nil {
		s.logger.Error().Err(err).Int64("space_id", id).Msg("find space failed")
		writeError(w, http.StatusInternalServerError, "failed to load space")
		return
	}
	if space == nil || !space.Active {
		writeError(w, http.StatusNotFound, "space not found")
		return
	}

	blocks, err := s.occupancy.MarkOccupancy(r.Context(), id, date, catalog.BlocksForSpace(space))
	if err != nil {
		s.logger.Error().Err(err).Int64("space_id", id).Msg("mark occupancy failed")
		writeError(w, http.StatusInternalServerError, "failed to check availability")
		return
	}

	writeJSON(w, http.StatusOK, BlocksResponse{SpaceID: id, Date: date, Blocks: blocks})
}

// SubmitRequest is the request body for POST /api/reservations.
type SubmitRequest struct {
	OfficeID int64               `json:"office_id"`
	SpaceID  int64               `json:"space_id"`
	Date     string              `json:"date"`
	Blocks   []string            `json:"blocks"` // "HH:MM-HH:MM" tokens
	Visitor  *models.VisitorInfo `json:"visitor,omitempty"`
}

// handleSubmit creates reservations for the submitted blocks,
// all-or-nothing.
// POST /api/reservations
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("submit_reservations")

	var req SubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.engine.Submit(r.Context(), booking.SubmitRequest{
		OfficeID: req.OfficeID,
		SpaceID:  req.SpaceID,
		Date:     req.Date,
		Blocks:   req.Blocks,
		Visitor:  req.Visitor,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// handleListReservations returns an office's reservations with
// contiguous blocks folded into groups.
// GET /api/reservations?office_id=N
func (s *Server) handleListReservations(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("list_reservations")

	officeID, err := strconv.ParseInt(r.URL.Query().Get("office_id"), 10, 64)
	if err != nil || officeID <= 0 {
		writeError(w, http.StatusBadRequest, "office_id is required")
		return
	}

	reservations, err := s.records.FindByOffice(r.Context(), officeID)
	if err != nil {
		s.logger.Error().Err(err).Int64("office_id", officeID).Msg("list reservations failed")
		writeError(w, http.StatusInternalServerError, "failed to list reservations")
		return
	}

	groups := aggregate.Group(reservations)
	if groups == nil {
		groups = []models.ReservationGroup{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"reservations": groups})
}

// DeleteRequest is the request body for DELETE /api/reservations.
type DeleteRequest struct {
	OfficeID int64   `json:"office_id"`
	IDs      []int64 `json:"ids"`
}

// DeleteResponse reports how many of the requested rows were removed.
type DeleteResponse struct {
	Requested int   `json:"requested"`
	Deleted   int64 `json:"deleted"`
}

// handleDelete removes the office's reservations. Ids belonging to other
// offices are silently excluded from the count.
// DELETE /api/reservations
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("delete_reservations")

	var req DeleteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	deleted, err := s.engine.Delete(r.Context(), req.OfficeID, req.IDs)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{Requested: len(req.IDs), Deleted: deleted})
}

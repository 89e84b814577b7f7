package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/deskbook/deskbook/internal/api/middleware"
	"github.com/deskbook/deskbook/internal/api/response"
	"github.com/deskbook/deskbook/internal/domain"
	"github.com/deskbook/deskbook/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// BookingHandler handles reservation endpoints
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create handles reservation creation
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.ReservationCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	reservation, err := h.bookingService.Create(r.Context(), userID, input)
	if err != nil {
		writeBookingError(w, err)
		return
	}

	response.Created(w, reservation)
}

// Update handles partial reservation updates
func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	reservationID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var patch domain.ReservationUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(patch); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	reservation, err := h.bookingService.Update(r.Context(), reservationID, userID, patch)
	if err != nil {
		writeBookingError(w, err)
		return
	}

	response.OK(w, reservation)
}

// Cancel handles reservation cancellation
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	reservationID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.bookingService.Cancel(r.Context(), reservationID, userID); err != nil {
		writeBookingError(w, err)
		return
	}

	response.OK(w, map[string]string{"message": "booking cancelled"})
}

// Delete handles reservation deletion
func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	reservationID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.bookingService.Delete(r.Context(), reservationID, userID); err != nil {
		writeBookingError(w, err)
		return
	}

	response.NoContent(w)
}

// List handles the my-bookings view: upcoming and past partitions
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	list, err := h.bookingService.ListForUser(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "failed to list reservations")
		return
	}

	response.OK(w, list)
}

// Get handles reservation detail lookup
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	reservationID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	reservation, err := h.bookingService.Get(r.Context(), reservationID, userID)
	if err != nil {
		writeBookingError(w, err)
		return
	}

	response.OK(w, reservation)
}

// writeBookingError maps the domain error taxonomy onto HTTP responses.
// Validation failures carry the full field-errors map so the client can show
// every broken rule at once.
func writeBookingError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		response.BadRequest(w, verr.FieldErrors())
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, "booking not found")
	case errors.Is(err, domain.ErrPreconditionFailed):
		response.PreconditionFailed(w, "booking can no longer be modified")
	case errors.Is(err, domain.ErrConflict):
		response.Conflict(w, "another booking is in progress for this slot, please retry")
	default:
		response.InternalError(w, "internal error")
	}
}

func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "reservationID"))
	if err != nil {
		response.BadRequest(w, "invalid reservation ID")
		return uuid.Nil, false
	}
	return id, true
}

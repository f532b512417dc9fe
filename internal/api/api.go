package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	models "github.com/roamly/travelbook/internal"
	"github.com/roamly/travelbook/internal/auth"
	"github.com/roamly/travelbook/internal/ports"
	"github.com/roamly/travelbook/internal/utils"
	"github.com/roamly/travelbook/internal/validator"
)

type BookingHandler struct {
	service   ports.BookingService
	validator *validator.CustomValidator
	log       *zap.Logger
}

func NewBookingHandler(service ports.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service:   service,
		validator: validator.NewCustomValidator(),
		log:       log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request models.BookingRequest
	if err := utils.JsonDecodeBody(r, &request); err != nil {
		ae := utils.NewBadRequest("error json decoding body")
		utils.RenderJSON(w, ae.StatusCode, ae)
		return
	}
	if err := h.validator.Validate(request); err != nil {
		ae := utils.NewBadRequest(err.Error())
		utils.RenderJSON(w, ae.StatusCode, ae)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), &request, auth.ActorFromContext(r.Context()))
	if err != nil {
		ae := h.apiError(err)
		utils.RenderJSON(w, ae.StatusCode, ae)
		return
	}

	utils.RenderJSON(w, http.StatusCreated, models.CreateBookingResponse{
		Booking:       *booking,
		BookingNumber: booking.BookingNumber,
		TrackingID:    booking.TrackingID,
	})
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := h.bookingID(w, ps)
	if !ok {
		return
	}
	booking, err := h.service.GetBooking(r.Context(), id, auth.ActorFromContext(r.Context()))
	if err != nil {
		ae := h.apiError(err)
		utils.RenderJSON(w, ae.StatusCode, ae)
		return
	}
	utils.RenderJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := h.bookingID(w, ps)
	if !ok {
		return
	}

	var update models.BookingUpdate
	if err := utils.JsonDecodeBody(r, &update); err != nil {
		ae := utils.NewBadRequest("error json decoding body")
		utils.RenderJSON(w, ae.StatusCode, ae)
		return
	}
	if err := h.validator.Validate(update); err != nil {
		ae := utils.NewBadRequest(err.Error())
		utils.RenderJSON(w, ae.StatusCode, ae)
		return
	}

	booking, err := h.service.UpdateBooking(r.Context(), id, &update, auth.ActorFromContext(r.Context()))
	if err != nil {
		ae := h.apiError(err)
		utils.RenderJSON(w, ae.StatusCode, ae)
		return
	}
	utils.RenderJSON(w, http.StatusOK, booking)
}

// Cancel handles DELETE but performs a status transition; booking rows are
// never removed.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := h.bookingID(w, ps)
	if !ok {
		return
	}
	booking, err := h.service.CancelBooking(r.Context(), id, auth.ActorFromContext(r.Context()))
	if err != nil {
		ae := h.apiError(err)
		utils.RenderJSON(w, ae.StatusCode, ae)
		return
	}
	utils.RenderJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) ListByUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, err := uuid.Parse(ps.ByName("id"))
	if err != nil {
		ae := utils.NewBadRequest("invalid user id")
		utils.RenderJSON(w, ae.StatusCode, ae)
		return
	}
	if !auth.ActorFromContext(r.Context()).Is(userID) {
		ae := utils.NewForbidden("cannot list another user's bookings")
		utils.RenderJSON(w, ae.StatusCode, ae)
		return
	}

	status, ok := h.statusFilter(w, r)
	if !ok {
		return
	}
	page, limit := utils.Pagination(r)

	res, err := h.service.BookingsByUser(r.Context(), userID, status, page, limit)
	if err != nil {
		ae := h.apiError(err)
		utils.RenderJSON(w, ae.StatusCode, ae)
		return
	}
	utils.RenderJSON(w, http.StatusOK, res)
}

func (h *BookingHandler) ListByPackage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	packageID, err := uuid.Parse(ps.ByName("id"))
	if err != nil {
		ae := utils.NewBadRequest("invalid package id")
		utils.RenderJSON(w, ae.StatusCode, ae)
		return
	}

	status, ok := h.statusFilter(w, r)
	if !ok {
		return
	}
	from, ok := h.dateFilter(w, r, "from")
	if !ok {
		return
	}
	to, ok := h.dateFilter(w, r, "to")
	if !ok {
		return
	}
	page, limit := utils.Pagination(r)

	res, err := h.service.BookingsByPackage(r.Context(), packageID, status, from, to, page, limit)
	if err != nil {
		ae := h.apiError(err)
		utils.RenderJSON(w, ae.StatusCode, ae)
		return
	}
	utils.RenderJSON(w, http.StatusOK, res)
}

// Track is the only lookup requiring no identity at all: knowledge of the
// tracking code is the credential, and only the redacted view comes back.
func (h *BookingHandler) Track(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tracked, err := h.service.TrackBooking(r.Context(), ps.ByName("code"))
	if err != nil {
		ae := h.apiError(err)
		utils.RenderJSON(w, ae.StatusCode, ae)
		return
	}
	utils.RenderJSON(w, http.StatusOK, tracked)
}

func (h *BookingHandler) bookingID(w http.ResponseWriter, ps httprouter.Params) (uuid.UUID, bool) {
	id, err := uuid.Parse(ps.ByName("id"))
	if err != nil {
		ae := utils.NewBadRequest("invalid booking id")
		utils.RenderJSON(w, ae.StatusCode, ae)
		return uuid.Nil, false
	}
	return id, true
}

func (h *BookingHandler) statusFilter(w http.ResponseWriter, r *http.Request) (*models.BookingStatus, bool) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, true
	}
	status := models.BookingStatus(raw)
	if !status.Valid() {
		ae := utils.NewBadRequest("invalid status filter")
		utils.RenderJSON(w, ae.StatusCode, ae)
		return nil, false
	}
	return &status, true
}

func (h *BookingHandler) dateFilter(w http.ResponseWriter, r *http.Request, key string) (*time.Time, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		if t, err = time.Parse("2006-01-02", raw); err != nil {
			ae := utils.NewBadRequest("invalid " + key + " date")
			utils.RenderJSON(w, ae.StatusCode, ae)
			return nil, false
		}
	}
	return &t, true
}

func (h *BookingHandler) apiError(err error) utils.ApiError {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return utils.NewBadRequest(err.Error())
	case errors.Is(err, models.ErrPackageNotFound),
		errors.Is(err, models.ErrBookingNotFound):
		return utils.NewNotFound(err.Error())
	case errors.Is(err, models.ErrForbidden):
		return utils.NewForbidden(err.Error())
	case errors.Is(err, models.ErrPackageInactive),
		errors.Is(err, models.ErrCapacityExceeded),
		errors.Is(err, models.ErrCancelCutoff),
		errors.Is(err, models.ErrInvalidStatusChange):
		return utils.NewConflict(err.Error())
	default:
		// Store failures and generator exhaustion stay opaque to clients.
		h.log.Error("internal error handling booking request", zap.Error(err))
		return utils.NewInternalServerError("internal server error")
	}
}

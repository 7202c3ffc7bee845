package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"staybook/internal/adapters/observability"
	"staybook/internal/app"
	"staybook/internal/domain"
)

type Handlers struct {
	Ledger  *app.Ledger
	Catalog *app.CatalogService
	Admin   *app.AdminService
	Auth    *Authenticator
	Writes  *rate.Limiter
}

var validate = validator.New()

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		// public catalog reads
		r.Get("/hotels", h.listHotels)
		r.Get("/hotels/{id}", h.getHotel)
		r.Get("/rooms/{id}/availability", h.availability)

		// authenticated
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.Middleware)
			r.Get("/bookings", h.myBookings)
			r.Get("/admin/stats", h.adminStats)
			r.Get("/admin/bookings", h.adminBookings)

			// mutations additionally pass the write limiter
			r.Group(func(r chi.Router) {
				r.Use(RateLimit(h.Writes))
				r.Post("/hotels", h.createHotel)
				r.Put("/hotels/{id}", h.updateHotel)
				r.Delete("/hotels/{id}", h.deleteHotel)
				r.Post("/hotels/{id}/rooms", h.createRoom)
				r.Put("/rooms/{id}", h.updateRoom)
				r.Delete("/rooms/{id}", h.deleteRoom)
				r.Post("/rooms/{id}/bookings", h.createBooking)
				r.Post("/bookings/{id}/cancel", h.cancelBooking)
				r.Post("/bookings/{id}/confirm", h.confirmBooking)
			})
		})
	})
}

// ---- wire helpers ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeRejection maps the ledger's typed rejections onto HTTP statuses.
// Transient storage contention gets its own status so clients know the
// whole operation is retryable.
func writeRejection(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrInvalidGuestCount),
		errors.Is(err, domain.ErrCapacityExceeded):
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
	case errors.Is(err, domain.ErrRoomUnavailable),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrHasBookings):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, domain.ErrStorageContention):
		writeProblem(w, http.StatusServiceUnavailable, "Storage Busy", "please retry")
	default:
		log.Error().Err(err).Msg("internal error")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func decodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

// ---- booking DTOs ----

type createBookingRequest struct {
	CheckIn  string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests   int    `json:"guests" validate:"required,min=1"`
}

type bookingResponse struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	RoomID     int64  `json:"room_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Guests     int    `json:"guests"`
	TotalPrice int64  `json:"total_price"`
	Status     string `json:"status"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:         b.ID,
		UserID:     b.UserID,
		RoomID:     b.RoomID,
		CheckIn:    b.CheckIn.Format(dateLayout),
		CheckOut:   b.CheckOut.Format(dateLayout),
		Guests:     b.Guests,
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
	}
}

type bookingViewResponse struct {
	bookingResponse
	RoomName  string `json:"room_name"`
	HotelID   int64  `json:"hotel_id"`
	HotelName string `json:"hotel_name"`
}

func toBookingViews(in []domain.BookingView) []bookingViewResponse {
	out := make([]bookingViewResponse, 0, len(in))
	for _, v := range in {
		out = append(out, bookingViewResponse{
			bookingResponse: toBookingResponse(v.Booking),
			RoomName:        v.RoomName,
			HotelID:         v.HotelID,
			HotelName:       v.HotelName,
		})
	}
	return out
}

// ---- booking handlers ----

func (h *Handlers) availability(w http.ResponseWriter, r *http.Request) {
	roomID, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	in, err1 := parseDate(r.URL.Query().Get("check_in"))
	out, err2 := parseDate(r.URL.Query().Get("check_out"))
	if err1 != nil || err2 != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Dates", "check_in and check_out must be YYYY-MM-DD")
		return
	}
	if !in.Before(out) {
		writeRejection(w, domain.ErrInvalidDateRange)
		return
	}
	// the room must exist for the answer to mean anything
	if _, err := h.Catalog.GetRoom(r.Context(), roomID); err != nil {
		writeRejection(w, err)
		return
	}
	avail, err := h.Ledger.IsAvailable(r.Context(), roomID, in, out)
	if err != nil {
		writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": avail})
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	roomID, okID := pathID(r)
	if !okID {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	var req createBookingRequest
	if err := decodeValid(r, &req); err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return
	}
	in, _ := parseDate(req.CheckIn)
	out, _ := parseDate(req.CheckOut)

	b, err := h.Ledger.CreateBooking(r.Context(), app.BookingRequest{
		RoomID:   roomID,
		UserID:   actor.UserID,
		CheckIn:  in,
		CheckOut: out,
		Guests:   req.Guests,
	})
	if err != nil {
		observability.ObserveBooking("create", outcomeOf(err))
		writeRejection(w, err)
		return
	}
	observability.ObserveBooking("create", "ok")
	writeJSON(w, http.StatusCreated, toBookingResponse(b))
}

func (h *Handlers) myBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	views, err := h.Ledger.MyBookings(r.Context(), actor.UserID)
	if err != nil {
		writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toBookingViews(views)})
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, okID := pathID(r)
	if !okID {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	b, err := h.Ledger.CancelBooking(r.Context(), id, actor)
	if err != nil {
		observability.ObserveBooking("cancel", outcomeOf(err))
		writeRejection(w, err)
		return
	}
	observability.ObserveBooking("cancel", "ok")
	writeJSON(w, http.StatusOK, toBookingResponse(b))
}

func (h *Handlers) confirmBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok || !actor.IsAdmin() {
		writeProblem(w, http.StatusForbidden, "Forbidden", "admin authority required")
		return
	}
	id, okID := pathID(r)
	if !okID {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	b, err := h.Ledger.ConfirmBooking(r.Context(), id)
	if err != nil {
		observability.ObserveBooking("confirm", outcomeOf(err))
		writeRejection(w, err)
		return
	}
	observability.ObserveBooking("confirm", "ok")
	writeJSON(w, http.StatusOK, toBookingResponse(b))
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrInvalidGuestCount),
		errors.Is(err, domain.ErrRoomUnavailable),
		errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrNotFound):
		return "rejected"
	}
	return "error"
}

package httpserver

import (
	"net/http"
	"strconv"

	"staybook/internal/domain"
)

// ---- catalog DTOs ----

type hotelRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
	Address     string  `json:"address" validate:"required,max=500"`
	City        string  `json:"city" validate:"required,max=100"`
	Phone       *string `json:"phone" validate:"omitempty,max=30"`
	Email       *string `json:"email" validate:"omitempty,email"`
}

type roomRequest struct {
	Name          string  `json:"name" validate:"required,max=255"`
	Description   *string `json:"description"`
	PricePerNight int64   `json:"price_per_night" validate:"required,min=1"`
	Capacity      int     `json:"capacity" validate:"required,min=1"`
	Amenities     *string `json:"amenities"`
	ImageURL      *string `json:"image_url" validate:"omitempty,url"`
}

type hotelResponse struct {
	ID          int64   `json:"id"`
	OwnerID     int64   `json:"owner_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
}

type roomResponse struct {
	ID            int64   `json:"id"`
	HotelID       int64   `json:"hotel_id"`
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	PricePerNight int64   `json:"price_per_night"`
	Capacity      int     `json:"capacity"`
	Amenities     *string `json:"amenities,omitempty"`
	ImageURL      *string `json:"image_url,omitempty"`
}

func toHotelResponse(h domain.Hotel) hotelResponse {
	return hotelResponse{
		ID: h.ID, OwnerID: h.OwnerID, Name: h.Name, Description: h.Description,
		Address: h.Address, City: h.City, Phone: h.Phone, Email: h.Email,
	}
}

func toRoomResponse(r domain.Room) roomResponse {
	return roomResponse{
		ID: r.ID, HotelID: r.HotelID, Name: r.Name, Description: r.Description,
		PricePerNight: r.PricePerNight, Capacity: r.Capacity,
		Amenities: r.Amenities, ImageURL: r.ImageURL,
	}
}

type hotelDetailResponse struct {
	hotelResponse
	Rooms []roomResponse `json:"rooms"`
}

// ---- catalog handlers ----

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	q := domain.HotelsQuery{}
	if city := r.URL.Query().Get("city"); city != "" {
		q.City = &city
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			q.Limit = n
		}
	}
	hotels, err := h.Catalog.ListHotels(r.Context(), q)
	if err != nil {
		writeRejection(w, err)
		return
	}
	items := make([]hotelResponse, 0, len(hotels))
	for _, hh := range hotels {
		items = append(items, toHotelResponse(hh))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	hd, err := h.Catalog.GetHotel(r.Context(), id)
	if err != nil {
		writeRejection(w, err)
		return
	}
	resp := hotelDetailResponse{hotelResponse: toHotelResponse(hd.Hotel), Rooms: make([]roomResponse, 0, len(hd.Rooms))}
	for _, rm := range hd.Rooms {
		resp.Rooms = append(resp.Rooms, toRoomResponse(rm))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	var req hotelRequest
	if err := decodeValid(r, &req); err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return
	}
	created, err := h.Catalog.CreateHotel(r.Context(), actor, domain.Hotel{
		Name: req.Name, Description: req.Description, Address: req.Address,
		City: req.City, Phone: req.Phone, Email: req.Email,
	})
	if err != nil {
		writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHotelResponse(created))
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
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
	var req hotelRequest
	if err := decodeValid(r, &req); err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return
	}
	updated, err := h.Catalog.UpdateHotel(r.Context(), actor, domain.Hotel{
		ID: id, Name: req.Name, Description: req.Description, Address: req.Address,
		City: req.City, Phone: req.Phone, Email: req.Email,
	})
	if err != nil {
		writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHotelResponse(updated))
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
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
	if err := h.Catalog.DeleteHotel(r.Context(), actor, id); err != nil {
		writeRejection(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	hotelID, okID := pathID(r)
	if !okID {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	var req roomRequest
	if err := decodeValid(r, &req); err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return
	}
	created, err := h.Catalog.CreateRoom(r.Context(), actor, domain.Room{
		HotelID: hotelID, Name: req.Name, Description: req.Description,
		PricePerNight: req.PricePerNight, Capacity: req.Capacity,
		Amenities: req.Amenities, ImageURL: req.ImageURL,
	})
	if err != nil {
		writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRoomResponse(created))
}

func (h *Handlers) updateRoom(w http.ResponseWriter, r *http.Request) {
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
	var req roomRequest
	if err := decodeValid(r, &req); err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return
	}
	updated, err := h.Catalog.UpdateRoom(r.Context(), actor, domain.Room{
		ID: id, Name: req.Name, Description: req.Description,
		PricePerNight: req.PricePerNight, Capacity: req.Capacity,
		Amenities: req.Amenities, ImageURL: req.ImageURL,
	})
	if err != nil {
		writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomResponse(updated))
}

func (h *Handlers) deleteRoom(w http.ResponseWriter, r *http.Request) {
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
	if err := h.Catalog.DeleteRoom(r.Context(), actor, id); err != nil {
		writeRejection(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- admin handlers ----

func (h *Handlers) adminStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok || !actor.IsAdmin() {
		writeProblem(w, http.StatusForbidden, "Forbidden", "admin authority required")
		return
	}
	stats, err := h.Admin.Stats(r.Context())
	if err != nil {
		writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handlers) adminBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok || !actor.IsAdmin() {
		writeProblem(w, http.StatusForbidden, "Forbidden", "admin authority required")
		return
	}
	status := domain.Status(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		writeProblem(w, http.StatusBadRequest, "Invalid Status", "status must be pending, confirmed or cancelled")
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	views, err := h.Admin.ListBookings(r.Context(), status, limit)
	if err != nil {
		writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toBookingViews(views)})
}

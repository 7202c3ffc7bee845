package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"staybook/internal/domain"
)

func echoActor(w http.ResponseWriter, r *http.Request) {
	a, ok := actorFrom(r.Context())
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user_id": a.UserID, "role": string(a.Role)})
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	auth := NewAuthenticator("test-secret")
	tok, err := auth.Sign(domain.Actor{UserID: 42, Role: domain.RoleAdmin}, time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	h := auth.Middleware(http.HandlerFunc(echoActor))
	req := httptest.NewRequest("GET", "/v1/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rr.Code, rr.Body.String())
	}
	var body struct {
		UserID int64  `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.UserID != 42 || body.Role != "admin" {
		t.Fatalf("unexpected actor: %+v", body)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	auth := NewAuthenticator("test-secret")
	h := auth.Middleware(http.HandlerFunc(echoActor))

	otherSecret := NewAuthenticator("another-secret")
	forged, _ := otherSecret.Sign(domain.Actor{UserID: 1, Role: domain.RoleUser}, time.Minute)
	expired, _ := auth.Sign(domain.Actor{UserID: 1, Role: domain.RoleUser}, -time.Minute)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong signature", "Bearer " + forged},
		{"expired", "Bearer " + expired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/bookings", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Fatalf("expected problem+json, got %s", ct)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	// bucket of 2, no refill within the test window
	mw := RateLimit(rate.NewLimiter(rate.Limit(0.001), 2))
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("POST", "/v1/rooms/1/bookings", nil))
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent {
		t.Fatalf("first two requests should pass: %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("third request should be limited: %v", codes)
	}
}

func TestWriteRejection_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrInvalidDateRange, http.StatusUnprocessableEntity},
		{domain.ErrInvalidGuestCount, http.StatusUnprocessableEntity},
		{domain.ErrCapacityExceeded, http.StatusUnprocessableEntity},
		{domain.ErrRoomUnavailable, http.StatusConflict},
		{domain.ErrInvalidTransition, http.StatusConflict},
		{domain.ErrHasBookings, http.StatusConflict},
		{domain.ErrStorageContention, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		writeRejection(rr, tc.err)
		if rr.Code != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, rr.Code)
		}
	}
}

// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"inhotel/internal/adapters/observability"
	"inhotel/internal/app"
	"inhotel/internal/domain"
)

// Handlers carries the services behind the public routes. Places may be
// nil, in which case /places is not mounted.
type Handlers struct {
	Auth       *app.AuthService
	Booking    *app.BookingService
	Q          *app.QueryService
	Places     domain.PlacesClient
	LoginRPS   float64
	LoginBurst int
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type bookedResponse struct {
	Message       string `json:"message"`
	TransactionID int64  `json:"transaction_id"`
}

const (
	msgLoginMissing = "Please enter both Username and Password"
	msgLoginWrong   = "Username or Password is incorrect, please try again"
	msgLoggedIn     = "you are now logged in"
)

// far-future session expiry
var sessionExpiry = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.With(RateLimit(h.LoginRPS, h.LoginBurst)).Post("/login", h.login)
	s.mux.Get("/hotels", h.listHotels)
	s.mux.Get("/hotels/{hid}", h.getHotel)
	s.mux.Post("/book", h.book)
	s.mux.Get("/reservations", h.reservations)
	s.mux.Post("/reservations", h.reservations)
	if h.Places != nil {
		s.mux.With(AllowAnyOrigin).Get("/places", h.places)
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeServerError(w http.ResponseWriter) {
	writeProblem(w, http.StatusInternalServerError, string(domain.OutcomeServerError), domain.ServerErrorMessage)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("marshal JSON response failed")
		writeServerError(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// readFields pulls the named fields from a JSON object body or a form body,
// verbatim. JSON numbers are rendered back to their shortest decimal form.
func readFields(r *http.Request, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body map[string]any
		err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&body)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		for _, k := range keys {
			switch v := body[k].(type) {
			case string:
				out[k] = v
			case float64:
				out[k] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
		return out, nil
	}
	if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	for _, k := range keys {
		out[k] = r.PostFormValue(k)
	}
	return out, nil
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	f, err := readFields(r, "name", "password")
	if err != nil || f["name"] == "" || f["password"] == "" {
		writeProblem(w, http.StatusBadRequest, "MISSING_PARAMS", msgLoginMissing)
		return
	}
	uid, err := h.Auth.FindUserID(r.Context(), f["name"], f["password"])
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusBadRequest, "INVALID_CREDENTIALS", msgLoginWrong)
		return
	case err != nil:
		log.Error().Err(err).Msg("login lookup failed")
		writeServerError(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    strconv.FormatInt(uid, 10),
		Path:     "/",
		Expires:  sessionExpiry,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(msgLoggedIn))
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := domain.NewHotelFilter(q.Get("search"), q.Get("country_filter"), q.Get("min"), q.Get("max"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "INVALID_FILTER", err.Error())
		return
	}

	list, err := h.Q.ListHotels(r.Context(), f)
	if err != nil {
		log.Error().Err(err).Msg("hotel search failed")
		writeServerError(w)
		return
	}

	// both shapes go out under "hotels"
	var hotels any
	if f.Empty() {
		hotels = nonNil(list.Hotels)
	} else {
		hotels = nonNil(list.Refs)
	}
	writeJSON(w, http.StatusOK, map[string]any{"hotels": hotels})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	hid, err := strconv.ParseInt(chi.URLParam(r, "hid"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, string(domain.OutcomeHotelNotFound), domain.OutcomeHotelNotFound.Message())
		return
	}
	hotel, err := h.Q.GetHotel(r.Context(), hid)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusBadRequest, string(domain.OutcomeHotelNotFound), domain.OutcomeHotelNotFound.Message())
	case err != nil:
		log.Error().Err(err).Int64("hid", hid).Msg("hotel lookup failed")
		writeServerError(w)
	default:
		writeJSON(w, http.StatusOK, hotel)
	}
}

func (h *Handlers) book(w http.ResponseWriter, r *http.Request) {
	f, err := readFields(r, "hid", "checkin", "checkout")
	if err != nil {
		// an unreadable body carries no usable parameters
		f = map[string]string{}
	}
	res := h.Booking.AttemptBooking(r.Context(), SessionFrom(r.Context()), domain.BookingParams{
		HotelID:  f["hid"],
		Checkin:  f["checkin"],
		Checkout: f["checkout"],
	})
	observability.ObserveBooking(string(res.Reason))

	switch res.Status {
	case domain.StatusSuccess:
		log.Info().Int64("transaction_id", res.TransactionID).Msg("booking created")
		writeJSON(w, http.StatusOK, bookedResponse{Message: res.Message, TransactionID: res.TransactionID})
	case domain.StatusRejected:
		log.Info().Str("outcome", string(res.Reason)).Str("hid", f["hid"]).Msg("booking rejected")
		writeProblem(w, http.StatusBadRequest, string(res.Reason), res.Message)
	default:
		writeServerError(w)
	}
}

func (h *Handlers) reservations(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Reservations(r.Context(), SessionFrom(r.Context()))
	switch {
	case errors.Is(err, app.ErrNotLoggedIn):
		writeProblem(w, http.StatusBadRequest, string(domain.OutcomeNotLoggedIn), domain.OutcomeNotLoggedIn.Message())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusBadRequest, string(domain.OutcomeUserNotFound), domain.OutcomeUserNotFound.Message())
	case err != nil:
		log.Error().Err(err).Msg("reservations lookup failed")
		writeServerError(w)
	default:
		writeJSON(w, http.StatusOK, nonNil(out))
	}
}

func (h *Handlers) places(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	placeID := strings.TrimSpace(q.Get("place_id"))
	if placeID == "" {
		writeProblem(w, http.StatusBadRequest, "error", "place_id is required")
		return
	}
	var fields []string
	for _, f := range strings.Split(q.Get("fields"), ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}

	out, err := h.Places.Details(r.Context(), placeID, fields)
	if err != nil {
		log.Warn().Err(err).Str("place_id", placeID).Msg("places lookup failed")
		writeProblem(w, http.StatusInternalServerError, "error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

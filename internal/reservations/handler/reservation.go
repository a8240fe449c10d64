package handler

import (
	"net/http"
	"strconv"

	"courtbook/internal/reservations/service"
	apperrors "courtbook/pkg/errors"
	httputil "courtbook/pkg/http"
	"courtbook/pkg/logger"
	"courtbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log,
	}
}

type slotView struct {
	Index int    `json:"index"`
	Start string `json:"start_time"`
	End   string `json:"end_time"`
}

type availabilityView struct {
	CourtID string     `json:"court_id"`
	Date    string     `json:"date"`
	Unit    string     `json:"unit"`
	Slots   []slotView `json:"slots"`
}

func (h *ReservationHandler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	params, err := httputil.RequireQuery(r, "date")
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}
	courtID := ps.ByName("court_id")
	unit := r.URL.Query().Get("unit")

	slots, err := h.service.AvailableSlots(r.Context(), courtID, params["date"], unit)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	view := availabilityView{CourtID: courtID, Date: params["date"], Unit: unit, Slots: make([]slotView, 0, len(slots))}
	if view.Unit == "" {
		view.Unit = model.WholeCourt().String()
	}
	for i, s := range slots {
		view.Slots = append(view.Slots, slotView{
			Index: i,
			Start: s.Start.Format("15:04"),
			End:   s.End.Format("15:04"),
		})
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Create", err)
		return
	}
	if req.CustomerID == "" {
		req.CustomerID = r.Header.Get("X-Customer-ID")
	}

	reservation, err := h.service.Request(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, reservation); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservation, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

// Search lists a court's reservations on a date, paginated. Cancelled ones
// are included only with include_cancelled=true.
func (h *ReservationHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	params, err := httputil.RequireQuery(r, "court_id", "date")
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	includeCancelled := false
	if s := r.URL.Query().Get("include_cancelled"); s != "" {
		if includeCancelled, err = strconv.ParseBool(s); err != nil {
			h.writeError(w, "Search", apperrors.InvalidInput("invalid include_cancelled parameter: "+s))
			return
		}
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	reservations, err := h.service.ListByCourtAndDate(r.Context(), params["court_id"], params["date"], includeCancelled)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	page := httputil.Page(reservations, limit, offset)
	if err := httputil.WritePaginated(w, page, int64(len(reservations)), limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "operation", "WritePaginated", "error", err)
	}
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.CancelRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	reservation, err := h.service.Cancel(r.Context(), ps.ByName("id"), req.Actor)
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservation, err := h.service.MarkCompleted(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Complete", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "Complete", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/courts/:court_id/availability", h.Availability)
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.GET("/api/v1/reservations/search", h.Search)
	router.POST("/api/v1/reservations/id/:id/cancel", h.Cancel)
	router.POST("/api/v1/reservations/id/:id/complete", h.Complete)
}

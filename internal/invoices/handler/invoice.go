package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"courtbook/internal/catalog"
	"courtbook/internal/invoices/service"
	httputil "courtbook/pkg/http"
	"courtbook/pkg/logger"
	"courtbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type InvoiceHandler struct {
	service service.InvoiceService
	courts  catalog.Reader
	log     *logger.Logger
}

func NewInvoiceHandler(service service.InvoiceService, courts catalog.Reader, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		service: service,
		courts:  courts,
		log:     log,
	}
}

func (h *InvoiceHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	invoice, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, invoice); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *InvoiceHandler) GetByReservation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	invoice, err := h.service.GetByReservation(r.Context(), ps.ByName("reservation_id"))
	if err != nil {
		h.writeError(w, "GetByReservation", err)
		return
	}

	if err := httputil.WriteSuccess(w, invoice); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByReservation", "operation", "WriteSuccess", "error", err)
	}
}

// Presentation renders the invoice for the customer, with the court name in
// place of its id when the catalog knows it.
func (h *InvoiceHandler) Presentation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	invoice, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Presentation", err)
		return
	}

	courtName := ""
	if court, err := h.courts.GetCourt(r.Context(), invoice.CourtID); err == nil {
		courtName = court.Name
	} else if !errors.Is(err, catalog.ErrCourtNotFound) {
		h.log.Warn("Failed to resolve court for invoice", "invoice_id", invoice.ID, "court_id", invoice.CourtID, "error", err)
	}

	if err := httputil.WriteSuccess(w, invoice.Presentation(courtName)); err != nil {
		h.log.Error("failed to write success response", "handler", "Presentation", "operation", "WriteSuccess", "error", err)
	}
}

// Pay marks the invoice paid. An empty body means paid now.
func (h *InvoiceHandler) Pay(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.PayRequest
	if err := httputil.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, "Pay", err)
		return
	}

	var paidAt time.Time
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	invoice, err := h.service.MarkPaid(r.Context(), ps.ByName("id"), paidAt)
	if err != nil {
		h.writeError(w, "Pay", err)
		return
	}

	if err := httputil.WriteSuccess(w, invoice); err != nil {
		h.log.Error("failed to write success response", "handler", "Pay", "operation", "WriteSuccess", "error", err)
	}
}

func (h *InvoiceHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *InvoiceHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/invoices/id/:id", h.GetByID)
	router.GET("/api/v1/invoices/id/:id/presentation", h.Presentation)
	router.POST("/api/v1/invoices/id/:id/pay", h.Pay)
	router.GET("/api/v1/invoices/reservation/:reservation_id", h.GetByReservation)
}

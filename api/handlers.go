/*
handlers.go - HTTP API handlers for the ledger engine

PURPOSE:
  Exposes the pos.Service via REST. Handles HTTP request/response, JSON
  serialization, and delegates everything else to the domain layer.

ENDPOINTS:
  Customers:
    POST   /api/customers                 Create customer
    GET    /api/customers/{id}            Get customer with balances
    DELETE /api/customers/{id}            Delete (unreferenced) customer
    GET    /api/customers/{id}/statement  Account statement

  Sales:
    POST   /api/sales                     Record sale
    DELETE /api/sales/{id}                Delete sale (reverses effects)
    POST   /api/sales/{id}/pay            Mark sale paid

  Vouchers:
    POST   /api/vouchers                  Record receipt/payment voucher
    POST   /api/vouchers/{id}/cancel      Cancel voucher

  Returns:
    POST   /api/returns                   Record merchandise return

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, insufficient stock, missing currency
  - 404: Record not found
  - 409: Reconciliation failures (books need repair - never hidden)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/kervanji/HisabX-sub001/ledger"
	"github.com/kervanji/HisabX-sub001/pos"
)

// =============================================================================
// HANDLER
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *pos.Service
	Log     zerolog.Logger
}

func NewHandler(service *pos.Service, log zerolog.Logger) *Handler {
	return &Handler{Service: service, Log: log.With().Str("component", "api").Logger()}
}

// =============================================================================
// CUSTOMERS
// =============================================================================

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, &pos.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	c, err := h.Service.CreateCustomer(r.Context(), pos.CustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toCustomerDTO(c))
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toCustomerDTO(c))
}

func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteCustomer(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetStatement generates the account statement. Query parameters:
// currency (required), project, from, to (RFC3339 or 2006-01-02),
// detail (bool: include line items in descriptions).
func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := pos.StatementRequest{
		Currency:          ledger.Currency(q.Get("currency")),
		Location:          q.Get("project"),
		IncludeItemDetail: q.Get("detail") == "true",
	}
	if raw := q.Get("from"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			h.writeError(w, &pos.ValidationError{Field: "from", Reason: "invalid date"})
			return
		}
		req.From = &t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			h.writeError(w, &pos.ValidationError{Field: "to", Reason: "invalid date"})
			return
		}
		req.To = &t
	}

	items, err := h.Service.GenerateStatement(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toStatementDTO(items))
}

// =============================================================================
// SALES
// =============================================================================

func (h *Handler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var req RecordSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, &pos.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	in := pos.SaleInput{
		CustomerID:     req.CustomerID,
		InvoiceNumber:  req.InvoiceNumber,
		Date:           req.Date,
		Currency:       ledger.Currency(req.Currency),
		DiscountAmount: req.DiscountAmount,
		PaidAmount:     req.PaidAmount,
		Location:       req.Location,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, pos.SaleItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
		})
	}
	sale, err := h.Service.RecordSale(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toSaleDTO(sale))
}

func (h *Handler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteSale(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) PaySale(w http.ResponseWriter, r *http.Request) {
	sale, err := h.Service.MarkSalePaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toSaleDTO(sale))
}

// =============================================================================
// VOUCHERS
// =============================================================================

func (h *Handler) RecordVoucher(w http.ResponseWriter, r *http.Request) {
	var req RecordVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, &pos.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	v, err := h.Service.RecordVoucher(r.Context(), pos.VoucherInput{
		Type:       pos.VoucherType(req.Type),
		CustomerID: req.CustomerID,
		Amount:     req.Amount,
		Currency:   ledger.Currency(req.Currency),
		Date:       req.Date,
		Location:   req.Location,
		Notes:      req.Notes,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toVoucherDTO(v))
}

func (h *Handler) CancelVoucher(w http.ResponseWriter, r *http.Request) {
	v, err := h.Service.CancelVoucher(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toVoucherDTO(v))
}

// =============================================================================
// RETURNS
// =============================================================================

func (h *Handler) RecordReturn(w http.ResponseWriter, r *http.Request) {
	var req RecordReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, &pos.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	in := pos.ReturnInput{
		SaleID: req.SaleID,
		Date:   req.Date,
		Reason: req.Reason,
		Status: pos.ReturnStatus(req.Status),
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, pos.ReturnItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Condition: pos.ItemCondition(it.Condition),
		})
	}
	ret, err := h.Service.RecordReturn(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toReturnDTO(ret))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Log.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError maps domain errors to HTTP statuses. Reconciliation errors
// get their own status and kind: the caller must learn the books need
// repair, a generic 500 would hide it.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case pos.IsValidation(err), errors.Is(err, ledger.ErrCurrencyRequired):
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "validation"})
	case pos.IsNotFound(err):
		h.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error(), Kind: "not_found"})
	case pos.IsReconciliation(err):
		h.Log.Error().Err(err).Msg("reconciliation failure")
		h.writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error(), Kind: "reconciliation"})
	default:
		h.Log.Error().Err(err).Msg("internal error")
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error", Kind: "internal"})
	}
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

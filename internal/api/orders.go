package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/safar/gymwear-api/internal/logger"
	"github.com/safar/gymwear-api/internal/receipt"
	"github.com/safar/gymwear-api/internal/store"
)

type orderItemRequest struct {
	ProductVariantID *int64              `json:"product_variant_id" validate:"omitempty,gt=0"`
	Quantity         *int                `json:"quantity" validate:"omitempty,gt=0"`
	UnitPrice        decimal.NullDecimal `json:"unit_price"`
	LineTotal        decimal.NullDecimal `json:"line_total"`
}

type orderRequest struct {
	UserID            int64               `json:"user_id" validate:"required,gt=0"`
	Status            string              `json:"status" validate:"omitempty,max=50"`
	GrandTotal        decimal.NullDecimal `json:"grand_total"`
	ShippingAddressID *int64              `json:"shipping_address_id" validate:"omitempty,gt=0"`
	Items             []orderItemRequest  `json:"items" validate:"omitempty,dive"`
}

func (req orderRequest) input() store.OrderInput {
	in := store.OrderInput{
		UserID:            req.UserID,
		Status:            req.Status,
		GrandTotal:        req.GrandTotal,
		ShippingAddressID: req.ShippingAddressID,
	}
	if req.Items != nil {
		in.Items = make([]store.OrderItemInput, 0, len(req.Items))
		for _, item := range req.Items {
			in.Items = append(in.Items, store.OrderItemInput{
				ProductVariantID: item.ProductVariantID,
				Quantity:         item.Quantity,
				UnitPrice:        item.UnitPrice,
				LineTotal:        item.LineTotal,
			})
		}
	}
	return in
}

type emailResponse struct {
	Message   string `json:"message"`
	Recipient string `json:"recipient"`
	OrderID   int64  `json:"order_id"`
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePage(r)

	result, err := store.ListOrders(r.Context(), h.db, page, pageSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeValidationError(w, r, err)
		return
	}

	order, err := store.CreateOrder(r.Context(), h.db, req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.lookup.Order(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// updateOrder replaces the order header. The item set is replaced only when
// the body carries an "items" array.
func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req orderRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeValidationError(w, r, err)
		return
	}

	order, err := store.UpdateOrder(r.Context(), h.db, id, req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := store.DeleteOrder(r.Context(), h.db, id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) orderReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.lookup.Order(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	doc, err := h.receipts.Generate(order)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", receipt.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+receipt.Filename(order.ID))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		logger.FromContext(r.Context(), h.logger).WarnContext(r.Context(), "write receipt",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}
}

// orderEmail sends the order's status email to the owning user. A delivery
// failure is reported to the caller but leaves the order untouched.
func (h *Handler) orderEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.lookup.Order(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.lookup.User(r.Context(), order.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.notifier.Notify(r.Context(), user.Email, order.ID, order.Status); err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, emailResponse{
		Message:   "email sent to " + user.Email,
		Recipient: user.Email,
		OrderID:   order.ID,
	})
}

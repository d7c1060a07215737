package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"restaurant-platform/internal/domain"
	"restaurant-platform/internal/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Handler exposes the platform over HTTP. It decodes and validates
// payloads, delegates to the service, and maps domain errors to status
// codes.
type Handler struct {
	service  *Service
	validate *validator.Validate
	log      *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// Routes builds the API mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/menu/products", h.createProduct)
	mux.HandleFunc("POST /api/v1/menu/combos", h.createCombo)
	mux.HandleFunc("GET /api/v1/menu", h.listMenu)

	mux.HandleFunc("POST /api/v1/customers", h.registerCustomer)
	mux.HandleFunc("GET /api/v1/customers/{id}", h.getCustomer)
	mux.HandleFunc("POST /api/v1/customers/{id}/funds", h.addFunds)
	mux.HandleFunc("POST /api/v1/customers/{id}/cart/items", h.addCartItem)
	mux.HandleFunc("DELETE /api/v1/customers/{id}/cart/items/{itemID}", h.removeCartItem)
	mux.HandleFunc("POST /api/v1/customers/{id}/checkout", h.checkout)

	mux.HandleFunc("POST /api/v1/kitchen/queue", h.submitToKitchen)
	mux.HandleFunc("POST /api/v1/kitchen/start", h.startNext)
	mux.HandleFunc("POST /api/v1/kitchen/orders/{id}/complete", h.completeOrder)
	mux.HandleFunc("POST /api/v1/kitchen/orders/{id}/deliver", h.deliverOrder)
	mux.HandleFunc("GET /api/v1/kitchen/status", h.kitchenStatus)

	mux.HandleFunc("GET /api/v1/orders/{id}", h.getOrder)
	mux.HandleFunc("POST /api/v1/orders/{id}/cancel", h.cancelOrder)
	mux.HandleFunc("POST /api/v1/orders/{id}/advance", h.advanceOrder)
	mux.HandleFunc("GET /api/v1/orders/{id}/timeline", h.orderTimeline)

	return mux
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid id in path")
		return uuid.UUID{}, false
	}
	return id, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("response_encode_failed", err, nil)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError translates a core error into an HTTP status code.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidAmount):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrEmptyQueue),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrTerminalState):
		h.writeError(w, http.StatusConflict, err.Error())
	default:
		h.log.Error("internal_error", err, nil)
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// Menu.

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.CreateProduct(req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, view)
}

func (h *Handler) createCombo(w http.ResponseWriter, r *http.Request) {
	var req CreateComboRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.CreateCombo(req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, view)
}

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Menu())
}

// Customers.

func (h *Handler) registerCustomer(w http.ResponseWriter, r *http.Request) {
	var req RegisterCustomerRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.RegisterCustomer(req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, view)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	view, err := h.service.Customer(id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) addFunds(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req AddFundsRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.AddFunds(id, req.Amount)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req CartItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid item_id")
		return
	}
	view, err := h.service.AddCartItem(id, itemID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(w, r, "itemID")
	if !ok {
		return
	}
	view, err := h.service.RemoveCartItem(id, itemID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	resp, err := h.service.Checkout(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// Kitchen.

func (h *Handler) submitToKitchen(w http.ResponseWriter, r *http.Request) {
	var req SubmitOrderRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.SubmitToKitchen(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusAccepted, view)
}

func (h *Handler) startNext(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.StartNextOrder(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) completeOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	view, err := h.service.CompleteOrder(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) deliverOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	view, err := h.service.DeliverOrder(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) kitchenStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.KitchenStatus())
}

// Orders.

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	view, err := h.service.Order(id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	view, err := h.service.CancelOrder(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) advanceOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	view, err := h.service.AdvanceOrder(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) orderTimeline(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	entries, err := h.service.Timeline(r.Context(), id, limit, offset)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

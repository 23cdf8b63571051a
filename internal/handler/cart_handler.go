package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles the authenticated user's cart.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	items, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Add handles POST /api/cart.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	var req model.AddToCartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	items, err := h.service.AddItem(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Update handles PUT /api/cart/{productId}.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	productID, err := pathInt64(r, "productId")
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	var req model.UpdateCartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	items, err := h.service.SetQuantity(r.Context(), userID, productID, req.Quantity)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Remove handles DELETE /api/cart/{productId}.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	productID, err := pathInt64(r, "productId")
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	items, err := h.service.RemoveItem(r.Context(), userID, productID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	items, err := h.service.Clear(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

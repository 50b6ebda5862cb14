package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shestoi/magazyn/internal/policy"
	"github.com/shestoi/magazyn/internal/repository"
	"github.com/shestoi/magazyn/internal/service"
	"github.com/shestoi/magazyn/internal/store"
	"github.com/shestoi/magazyn/platform/observability"
)

// Handler содержит HTTP-обработчики magazyn
type Handler struct {
	inventoryService *service.InventoryService
	logger           *zap.Logger
}

// NewHandler создаёт новый HTTP handler
func NewHandler(inventoryService *service.InventoryService, logger *zap.Logger) *Handler {
	return &Handler{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

// ItemResponse позиция инвентаря в HTTP ответе; цены с двумя знаками
type ItemResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	AddedAt   string `json:"added_at"`
	Value     string `json:"value"`
}

// AddItemRequest тело POST /items
type AddItemRequest struct {
	Name      *string          `json:"name"`
	Quantity  *int             `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	// AddedAt YYYY-MM-DD, по умолчанию сегодня
	AddedAt *string `json:"added_at"`
}

// DepleteRequest тело POST /items/{id}/deplete
type DepleteRequest struct {
	Amount *int `json:"amount"`
}

// SummaryResponse ответ GET /summary
type SummaryResponse struct {
	ItemCount     int    `json:"item_count"`
	TotalQuantity int    `json:"total_quantity"`
	TotalValue    string `json:"total_value"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ListItems обрабатывает GET /items
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventoryService.ListItems(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toItemResponse(item))
	}
	h.writeJSON(w, r, http.StatusOK, resp)
}

// AddItem обрабатывает POST /items
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: invalid JSON: %v", service.ErrInvalidInput, err))
		return
	}
	if req.Name == nil || req.Quantity == nil || req.UnitPrice == nil {
		h.writeError(w, r, fmt.Errorf("%w: name, quantity and unit_price are required", service.ErrInvalidInput))
		return
	}

	input := service.AddItemInput{
		Name:      *req.Name,
		Quantity:  *req.Quantity,
		UnitPrice: *req.UnitPrice,
	}
	if req.AddedAt != nil && *req.AddedAt != "" {
		addedAt, err := time.ParseInLocation(repository.DateLayout, *req.AddedAt, time.UTC)
		if err != nil {
			h.writeError(w, r, fmt.Errorf("%w: added_at must be YYYY-MM-DD", service.ErrInvalidInput))
			return
		}
		input.AddedAt = addedAt
	}

	if err := h.inventoryService.AddItem(r.Context(), input); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// DepleteItem обрабатывает POST /items/{id}/deplete
func (h *Handler) DepleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req DepleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: invalid JSON: %v", service.ErrInvalidInput, err))
		return
	}
	if req.Amount == nil {
		h.writeError(w, r, fmt.Errorf("%w: amount is required", service.ErrInvalidInput))
		return
	}

	if _, err := h.inventoryService.DepleteItem(r.Context(), service.DepleteItemInput{ID: id, Amount: *req.Amount}); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveItem обрабатывает DELETE /items/{id}; отсутствующий id тоже даёт 204
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if err := h.inventoryService.RemoveItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Summary обрабатывает GET /summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.inventoryService.Summary(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, SummaryResponse{
		ItemCount:     summary.ItemCount,
		TotalQuantity: summary.TotalQuantity,
		TotalValue:    summary.TotalValue.StringFixed(2),
	})
}

func toItemResponse(item repository.Item) ItemResponse {
	return ItemResponse{
		ID:        item.ID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice.StringFixed(2),
		AddedAt:   repository.FormatDate(item.AddedAt),
		Value:     item.Value().StringFixed(2),
	}
}

// statusFor сопоставляет ошибку service/policy/repository с HTTP статусом
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, policy.ErrInvalidQuantity),
		errors.Is(err, store.ErrInvalidItem):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	logger := observability.L(r.Context(), h.logger)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	} else {
		logger.Info("Request rejected", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	h.writeJSON(w, r, status, errorResponse{Error: err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		observability.L(r.Context(), h.logger).Error("Failed to encode response", zap.Error(err))
	}
}

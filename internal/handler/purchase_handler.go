package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"ufscompras/internal/domain"
	"ufscompras/internal/middleware"
)

// Purchaser submits purchases. *purchase.Submitter implements it.
type Purchaser interface {
	Purchase(ctx context.Context, token, productID string, quantity int, accessoryIDs []string) (domain.PurchaseResult, error)
}

// PurchaseHandler handles checkout
type PurchaseHandler struct {
	purchaser Purchaser
}

func NewPurchaseHandler(p Purchaser) *PurchaseHandler {
	return &PurchaseHandler{purchaser: p}
}

// Purchase must run behind middleware.RequireBearer.
func (h *PurchaseHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.GetToken(r.Context())

	var req domain.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, MessageInvalidBody)
		return
	}

	result, err := h.purchaser.Purchase(r.Context(), token, req.ProductID, req.Quantity, req.Accessories)
	if err != nil {
		var purchaseErr *domain.PurchaseError
		switch {
		case errors.As(err, &purchaseErr):
			writeError(w, clientStatus(purchaseErr.Status, http.StatusBadRequest), purchaseErr.Message)
		case errors.Is(err, domain.ErrMissingToken):
			writeError(w, http.StatusUnauthorized, middleware.MissingTokenMessage)
		case errors.Is(err, domain.ErrInvalidQuantity):
			writeError(w, http.StatusBadRequest, "Quantidade inválida")
		default:
			backendFailure(w, r, "purchase", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Package purchase submits purchases to the backend and announces the
// confirmed ones.
package purchase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ufscompras/internal/backend"
	"ufscompras/internal/domain"
	"ufscompras/internal/observability"
)

// Poster sends an authenticated JSON request. *backend.Client implements it.
type Poster interface {
	DoJSON(ctx context.Context, method, path, token string, payload, out any) (int, error)
}

// Submitter sends purchases on behalf of a logged-in user.
type Submitter struct {
	client Poster
	events domain.EventPublisher
	now    func() time.Time
}

// NewSubmitter creates a submitter. publisher may be nil, in which case no
// events are published.
func NewSubmitter(client Poster, publisher domain.EventPublisher) *Submitter {
	return &Submitter{
		client: client,
		events: publisher,
		now:    time.Now,
	}
}

// Purchase buys quantity units of productID with the given accessories. A
// rejected purchase yields *domain.PurchaseError carrying the backend's
// message or the generic fallback.
func (s *Submitter) Purchase(ctx context.Context, token, productID string, quantity int, accessoryIDs []string) (domain.PurchaseResult, error) {
	if token == "" {
		return domain.PurchaseResult{}, domain.ErrMissingToken
	}
	if quantity < 1 {
		return domain.PurchaseResult{}, domain.ErrInvalidQuantity
	}

	req := domain.PurchaseRequest{
		ProductID:   strings.TrimSpace(productID),
		Quantity:    quantity,
		Accessories: accessoryIDs,
	}
	if req.Accessories == nil {
		req.Accessories = []string{}
	}

	var record backend.PurchaseRecord
	if _, err := s.client.DoJSON(ctx, http.MethodPost, "/purchase", token, req, &record); err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			return domain.PurchaseResult{}, domain.NewPurchaseError(apiErr.Status, apiErr.Message)
		}
		return domain.PurchaseResult{}, fmt.Errorf("failed to submit purchase: %w", err)
	}

	result := domain.PurchaseResult{
		Message:        record.Message,
		RemainingStock: int(record.Stock),
	}

	observability.FromContext(ctx).Info("purchase confirmed",
		slog.String("product_id", req.ProductID),
		slog.Int("quantity", req.Quantity),
		slog.Int("remaining_stock", result.RemainingStock),
	)

	s.announce(ctx, req, result)
	return result, nil
}

func (s *Submitter) announce(ctx context.Context, req domain.PurchaseRequest, result domain.PurchaseResult) {
	if s.events == nil {
		return
	}

	event := domain.PurchaseConfirmed{
		ProductID:      req.ProductID,
		Quantity:       req.Quantity,
		Accessories:    req.Accessories,
		RemainingStock: result.RemainingStock,
		Message:        result.Message,
		Timestamp:      s.now().UTC(),
	}

	if err := s.events.PublishPurchaseConfirmed(ctx, event); err != nil {
		observability.PurchaseEventsPublished.WithLabelValues("error").Inc()
		observability.FromContext(ctx).Warn("failed to publish purchase event",
			slog.String("product_id", req.ProductID),
			slog.String("error", err.Error()),
		)
		return
	}
	observability.PurchaseEventsPublished.WithLabelValues("success").Inc()
}

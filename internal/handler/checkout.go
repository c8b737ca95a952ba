package handler

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v82"
)

// CheckoutHandler issues mock payment intents. Nothing is sent to Stripe;
// the stripe-go types only give the response its real shape.
type CheckoutHandler struct {
	now    func() time.Time
	logger *slog.Logger
}

func NewCheckoutHandler(logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{now: time.Now, logger: logger}
}

type paymentIntentRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type paymentIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Status          string `json:"status"`
}

// newPaymentIntent converts a major-unit amount to minor units.
func (h *CheckoutHandler) newPaymentIntent(amount float64, currency string) *stripe.PaymentIntent {
	now := h.now()
	id := fmt.Sprintf("pi_%d", now.UnixMilli())
	return &stripe.PaymentIntent{
		ID:           id,
		Amount:       int64(math.Round(amount * 100)),
		Currency:     stripe.Currency(currency),
		ClientSecret: id + "_secret_mock",
		Status:       stripe.PaymentIntentStatusRequiresPaymentMethod,
	}
}

func (h *CheckoutHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req paymentIntentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Amount must be greater than zero"})
		return
	}
	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}

	pi := h.newPaymentIntent(req.Amount, currency)
	h.logger.InfoContext(r.Context(), "payment intent created",
		"id", pi.ID,
		"amount", pi.Amount,
		"currency", pi.Currency,
	)

	writeJSON(w, http.StatusOK, paymentIntentResponse{
		ClientSecret:    pi.ClientSecret,
		PaymentIntentID: pi.ID,
		Amount:          pi.Amount,
		Currency:        string(pi.Currency),
		Status:          string(pi.Status),
	})
}

package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v82"
)

func newTestCheckout() *CheckoutHandler {
	h := NewCheckoutHandler(testLogger)
	h.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return h
}

func TestCreatePaymentIntent(t *testing.T) {
	h := newTestCheckout()

	req := httptest.NewRequest("POST", "/api/create-payment-intent", strings.NewReader(`{"amount":49.99}`))
	rec := httptest.NewRecorder()
	h.CreatePaymentIntent(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["paymentIntentId"] != "pi_1700000000123" {
		t.Errorf("paymentIntentId = %v", body["paymentIntentId"])
	}
	if body["clientSecret"] != "pi_1700000000123_secret_mock" {
		t.Errorf("clientSecret = %v", body["clientSecret"])
	}
	if body["amount"] != float64(4999) {
		t.Errorf("amount = %v, want 4999", body["amount"])
	}
	if body["currency"] != "usd" {
		t.Errorf("currency = %v, want usd", body["currency"])
	}
	if body["status"] != "requires_payment_method" {
		t.Errorf("status = %v", body["status"])
	}
}

func TestNewPaymentIntent(t *testing.T) {
	h := newTestCheckout()

	pi := h.newPaymentIntent(49.99, "eur")
	if pi.Amount != 4999 {
		t.Errorf("Amount = %d, want 4999", pi.Amount)
	}
	if pi.Currency != stripe.CurrencyEUR {
		t.Errorf("Currency = %q", pi.Currency)
	}
	if pi.Status != stripe.PaymentIntentStatusRequiresPaymentMethod {
		t.Errorf("Status = %q", pi.Status)
	}
}

func TestCreatePaymentIntentInvalid(t *testing.T) {
	h := newTestCheckout()

	for _, body := range []string{`{"amount":0}`, `{"amount":-5}`, `{}`, `nope`} {
		req := httptest.NewRequest("POST", "/api/create-payment-intent", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.CreatePaymentIntent(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, rec.Code)
		}
		if got := decodeBody(t, rec); got["error"] == nil {
			t.Errorf("%s: missing error field", body)
		}
	}
}

package validation

import (
	"errors"
	"testing"

	"github.com/mmeshcher/readytoeat/internal/model"
)

func TestIsValidCardNumber(t *testing.T) {
	tests := []struct {
		name   string
		number string
		valid  bool
	}{
		{
			name:   "valid visa",
			number: "4539578763621486",
			valid:  true,
		},
		{
			name:   "valid with spaces",
			number: "4539 5787 6362 1486",
			valid:  true,
		},
		{
			name:   "invalid checksum",
			number: "4539578763621487",
			valid:  false,
		},
		{
			name:   "contains letters",
			number: "1234a67890",
			valid:  false,
		},
		{
			name:   "empty string",
			number: "",
			valid:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidCardNumber(tt.number)
			if got != tt.valid {
				t.Fatalf("IsValidCardNumber(%q) = %v, want %v", tt.number, got, tt.valid)
			}
		})
	}
}

func TestValidatePayment(t *testing.T) {
	card := model.PaymentDetails{
		CardNumber: "4539578763621486",
		CardName:   "A Student",
		CardExpiry: "12/29",
		CardCVV:    "123",
	}

	tests := []struct {
		name    string
		method  model.PaymentMethod
		details model.PaymentDetails
		wantErr error
	}{
		{name: "cash", method: model.PaymentCash},
		{name: "paytm ok", method: model.PaymentPaytm, details: model.PaymentDetails{PaytmNumber: "9876543210"}},
		{name: "paytm with country code", method: model.PaymentPaytm, details: model.PaymentDetails{PaytmNumber: "+91 9876543210"}},
		{name: "paytm with inner plus", method: model.PaymentPaytm, details: model.PaymentDetails{PaytmNumber: "91+9876543210"}, wantErr: ErrIncompletePayment},
		{name: "paytm short", method: model.PaymentPaytm, details: model.PaymentDetails{PaytmNumber: "98765"}, wantErr: ErrIncompletePayment},
		{name: "gpay ok", method: model.PaymentGPay, details: model.PaymentDetails{GPayUPI: "student@okbank"}},
		{name: "gpay no at", method: model.PaymentGPay, details: model.PaymentDetails{GPayUPI: "student"}, wantErr: ErrIncompletePayment},
		{name: "card ok", method: model.PaymentCard, details: card},
		{name: "card bad luhn", method: model.PaymentCard, details: model.PaymentDetails{CardNumber: "4539578763621487", CardName: "x", CardExpiry: "12/29", CardCVV: "123"}, wantErr: ErrIncompletePayment},
		{name: "card no name", method: model.PaymentCard, details: model.PaymentDetails{CardNumber: card.CardNumber, CardExpiry: "12/29", CardCVV: "123"}, wantErr: ErrIncompletePayment},
		{name: "card short cvv", method: model.PaymentCard, details: model.PaymentDetails{CardNumber: card.CardNumber, CardName: "x", CardExpiry: "12/29", CardCVV: "12"}, wantErr: ErrIncompletePayment},
		{name: "unknown", method: "bitcoin", wantErr: ErrUnknownPaymentMethod},
		{name: "empty", method: "", wantErr: ErrUnknownPaymentMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePayment(tt.method, tt.details)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	got := Redact(model.PaymentCard, model.PaymentDetails{
		CardNumber:  "4539 5787 6362 1486",
		CardName:    "A Student",
		CardExpiry:  "12/29",
		CardCVV:     "123",
		PaytmNumber: "leftover",
	})

	if got.CardNumber != "************1486" {
		t.Fatalf("card number = %q", got.CardNumber)
	}
	if got.CardCVV != "" || got.PaytmNumber != "" {
		t.Fatalf("sensitive fields leaked: %+v", got)
	}
}

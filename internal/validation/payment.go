package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mmeshcher/readytoeat/internal/model"
)

var (
	// ErrUnknownPaymentMethod возвращается для неподдерживаемого способа оплаты.
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	// ErrIncompletePayment возвращается, если реквизиты оплаты заполнены не полностью.
	ErrIncompletePayment = errors.New("payment details are incomplete")
)

// ValidatePayment проверяет полноту реквизитов для выбранного способа оплаты.
func ValidatePayment(method model.PaymentMethod, d model.PaymentDetails) error {
	switch method {
	case model.PaymentPaytm:
		if len(phoneDigits(d.PaytmNumber)) < 10 {
			return fmt.Errorf("%w: paytm number", ErrIncompletePayment)
		}
	case model.PaymentGPay:
		if !strings.Contains(d.GPayUPI, "@") {
			return fmt.Errorf("%w: upi id", ErrIncompletePayment)
		}
	case model.PaymentCard:
		if len(digitsOnly(d.CardNumber)) < 16 || !IsValidCardNumber(d.CardNumber) {
			return fmt.Errorf("%w: card number", ErrIncompletePayment)
		}
		if strings.TrimSpace(d.CardName) == "" {
			return fmt.Errorf("%w: card holder", ErrIncompletePayment)
		}
		if len(d.CardExpiry) < 5 {
			return fmt.Errorf("%w: card expiry", ErrIncompletePayment)
		}
		if len(digitsOnly(d.CardCVV)) < 3 {
			return fmt.Errorf("%w: card cvv", ErrIncompletePayment)
		}
	case model.PaymentCash:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, method)
	}
	return nil
}

// phoneDigits возвращает цифры номера телефона, допуская код страны с "+".
func phoneDigits(s string) string {
	return digitsOnly(strings.TrimPrefix(strings.TrimSpace(s), "+"))
}

// Redact оставляет в реквизитах только данные выбранного способа оплаты
// и маскирует номер карты и CVV.
func Redact(method model.PaymentMethod, d model.PaymentDetails) model.PaymentDetails {
	switch method {
	case model.PaymentPaytm:
		return model.PaymentDetails{PaytmNumber: d.PaytmNumber}
	case model.PaymentGPay:
		return model.PaymentDetails{GPayUPI: d.GPayUPI}
	case model.PaymentCard:
		digits := digitsOnly(d.CardNumber)
		masked := digits
		if len(digits) > 4 {
			masked = strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
		}
		return model.PaymentDetails{
			CardNumber: masked,
			CardName:   d.CardName,
			CardExpiry: d.CardExpiry,
		}
	default:
		return model.PaymentDetails{}
	}
}

// Package validation содержит функции валидации платёжных данных.
package validation

import "unicode"

// IsValidCardNumber проверяет номер карты по алгоритму Луна. Пробелы и
// дефисы между группами цифр допускаются.
func IsValidCardNumber(number string) bool {
	digits := digitsOnly(number)
	if digits == "" {
		return false
	}

	sum := 0
	double := false

	for i := len(digits) - 1; i >= 0; i-- {
		digit := int(digits[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}

	return sum%10 == 0
}

// digitsOnly возвращает цифры строки без разделителей или "", если
// встретился недопустимый символ.
func digitsOnly(s string) string {
	buf := make([]byte, 0, len(s))
	for _, ch := range s {
		switch {
		case unicode.IsDigit(ch) && ch < 128:
			buf = append(buf, byte(ch))
		case ch == ' ' || ch == '-':
		default:
			return ""
		}
	}
	return string(buf)
}

// Package cart реализует хранилище строк корзины одной клиентской сессии.
package cart

import (
	"strconv"
	"strings"

	"github.com/mmeshcher/readytoeat/internal/model"
)

const extraSuffix = "_extra"

// EncodeKey возвращает строковое представление ключа, используемое в хранилище.
// Вознаграждение занимает тот же ключ, что и обычная позиция.
func EncodeKey(k model.LineKey) string {
	id := strconv.FormatInt(k.ItemID, 10)
	if k.Variant == model.VariantExtra {
		return id + extraSuffix
	}
	return id
}

// DecodeKey разбирает строковый ключ. Вариант Reward из строки не
// восстанавливается: хранилище различает его по флагу строки.
func DecodeKey(s string) (model.LineKey, bool) {
	variant := model.VariantStandard
	if strings.HasSuffix(s, extraSuffix) {
		variant = model.VariantExtra
		s = strings.TrimSuffix(s, extraSuffix)
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return model.LineKey{}, false
	}

	return model.LineKey{ItemID: id, Variant: variant}, true
}

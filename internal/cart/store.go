package cart

import (
	"sort"

	"github.com/mmeshcher/readytoeat/internal/model"
)

// Store хранит строки корзины по строковому ключу. Не потокобезопасен:
// владелец сериализует обращения сам.
type Store struct {
	lines map[string]*model.CartLine
}

// NewStore создаёт корзину и, при необходимости, восстанавливает строки.
func NewStore(lines ...model.CartLine) *Store {
	s := &Store{lines: make(map[string]*model.CartLine)}
	s.Restore(lines)
	return s
}

// Restore заменяет содержимое корзины переданными строками.
// Строки с неположительным количеством или идентификатором пропускаются.
func (s *Store) Restore(lines []model.CartLine) {
	s.lines = make(map[string]*model.CartLine, len(lines))
	for _, l := range lines {
		if l.ItemID <= 0 || l.Quantity <= 0 {
			continue
		}
		line := l
		s.lines[EncodeKey(line.Key())] = &line
	}
}

// AddLine добавляет единицу позиции. Повторное добавление увеличивает количество.
func (s *Store) AddLine(itemID int64, hasExtra bool) []model.CartLine {
	if itemID <= 0 {
		return s.Lines()
	}

	variant := model.VariantStandard
	if hasExtra {
		variant = model.VariantExtra
	}
	key := EncodeKey(model.LineKey{ItemID: itemID, Variant: variant})

	if line, ok := s.lines[key]; ok {
		// Ключ занят вознаграждением: снять его можно только отменой обмена.
		if !line.IsReward {
			line.Quantity++
		}
		return s.Lines()
	}

	s.lines[key] = &model.CartLine{
		ItemID:   itemID,
		HasExtra: hasExtra,
		Quantity: 1,
	}
	return s.Lines()
}

// RemoveLine уменьшает на единицу количество и обычной, и extra-строки позиции.
func (s *Store) RemoveLine(itemID int64) []model.CartLine {
	for _, v := range []model.Variant{model.VariantStandard, model.VariantExtra} {
		key := EncodeKey(model.LineKey{ItemID: itemID, Variant: v})
		line, ok := s.lines[key]
		if !ok || line.IsReward {
			continue
		}
		line.Quantity--
		if line.Quantity <= 0 {
			delete(s.lines, key)
		}
	}
	return s.Lines()
}

// SetQuantity перезаписывает количество строки. Неположительное значение
// удаляет строку вместе с её extra-вариантом.
func (s *Store) SetQuantity(key model.LineKey, quantity int) []model.CartLine {
	if key.Variant == model.VariantReward {
		return s.Lines()
	}

	encoded := EncodeKey(key)
	if line, ok := s.lines[encoded]; ok && line.IsReward {
		return s.Lines()
	}

	if quantity <= 0 {
		for _, v := range []model.Variant{model.VariantStandard, model.VariantExtra} {
			k := EncodeKey(model.LineKey{ItemID: key.ItemID, Variant: v})
			if line, ok := s.lines[k]; ok && !line.IsReward {
				delete(s.lines, k)
			}
		}
		return s.Lines()
	}

	if line, ok := s.lines[encoded]; ok {
		line.Quantity = quantity
	}
	return s.Lines()
}

// AddRewardLine добавляет строку вознаграждения. Возвращает false, если
// в корзине уже есть активное вознаграждение.
func (s *Store) AddRewardLine(item model.RewardItem, tier model.RewardTier) bool {
	if item.ID <= 0 {
		return false
	}
	if _, ok := s.ActiveReward(); ok {
		return false
	}

	quantity := item.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	s.lines[EncodeKey(model.LineKey{ItemID: item.ID, Variant: model.VariantReward})] = &model.CartLine{
		ItemID:          item.ID,
		Quantity:        quantity,
		Name:            item.Name,
		IsReward:        true,
		RewardID:        item.RewardID,
		RewardTierID:    tier.ID,
		RewardPointCost: tier.PointThreshold,
	}
	return true
}

// RemoveRewardLine удаляет строку вознаграждения и возвращает её.
func (s *Store) RemoveRewardLine(rewardID string) (model.CartLine, bool) {
	for key, line := range s.lines {
		if line.IsReward && line.RewardID == rewardID {
			delete(s.lines, key)
			return *line, true
		}
	}
	return model.CartLine{}, false
}

// ActiveReward возвращает текущую строку вознаграждения, если она есть.
func (s *Store) ActiveReward() (model.CartLine, bool) {
	for _, line := range s.lines {
		if line.IsReward {
			return *line, true
		}
	}
	return model.CartLine{}, false
}

// Lines возвращает копию строк, упорядоченную по позиции и варианту.
func (s *Store) Lines() []model.CartLine {
	res := make([]model.CartLine, 0, len(s.lines))
	for _, line := range s.lines {
		res = append(res, *line)
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].ItemID != res[j].ItemID {
			return res[i].ItemID < res[j].ItemID
		}
		return res[i].Key().Variant < res[j].Key().Variant
	})
	return res
}

// Len возвращает число строк.
func (s *Store) Len() int {
	return len(s.lines)
}

// ItemCount возвращает суммарное количество единиц в корзине.
func (s *Store) ItemCount() int {
	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

// Clear очищает корзину.
func (s *Store) Clear() {
	s.lines = make(map[string]*model.CartLine)
}

// Package rewards реализует обмен баллов лояльности на бесплатные позиции корзины.
package rewards

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mmeshcher/readytoeat/internal/model"
)

// DefaultTiers возвращает встроенную таблицу уровней программы лояльности.
func DefaultTiers() []model.RewardTier {
	return []model.RewardTier{
		{
			ID:             "tier1",
			Title:          "500 Points",
			PointThreshold: 500,
			Items: []model.RewardItem{
				{ID: 101, Name: "Samosa", Quantity: 2, RewardID: "samosa-500"},
				{ID: 102, Name: "Kachori", Quantity: 2, RewardID: "kachori-500"},
			},
		},
		{
			ID:             "tier2",
			Title:          "1000 Points",
			PointThreshold: 1000,
			Items: []model.RewardItem{
				{ID: 103, Name: "Veg Burger", Quantity: 1, RewardID: "burger-1000"},
				{ID: 104, Name: "Hakka Noodles", Quantity: 1, RewardID: "noodles-1000"},
			},
		},
		{
			ID:             "tier3",
			Title:          "5000 Points",
			PointThreshold: 5000,
			Items: []model.RewardItem{
				{
					ID: 105, Name: "Pav Bhaji + Lays + Coca Cola", Quantity: 1, RewardID: "combo1-5000", IsCombo: true,
					ComboItems: []model.ComboPart{
						{ID: 4, Name: "Pav Bhaji", Quantity: 1},
						{ID: 11, Name: "Lays Chips", Quantity: 1},
						{ID: 13, Name: "Coca Cola", Quantity: 1},
					},
				},
				{
					ID: 106, Name: "Chole Bhature + Kurkure + Frooti", Quantity: 1, RewardID: "combo2-5000", IsCombo: true,
					ComboItems: []model.ComboPart{
						{ID: 3, Name: "Chole Bhature", Quantity: 1},
						{ID: 12, Name: "Kurkure", Quantity: 1},
						{ID: 14, Name: "Frooti", Quantity: 1},
					},
				},
			},
		},
	}
}

type tiersFile struct {
	Tiers []model.RewardTier `yaml:"tiers"`
}

// LoadTiers читает таблицу уровней из YAML-файла.
func LoadTiers(path string) ([]model.RewardTier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tiers file: %w", err)
	}

	var f tiersFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse tiers file: %w", err)
	}

	if err := validateTiers(f.Tiers); err != nil {
		return nil, err
	}
	return f.Tiers, nil
}

func validateTiers(tiers []model.RewardTier) error {
	if len(tiers) == 0 {
		return errors.New("no reward tiers defined")
	}

	seen := make(map[string]struct{})
	for _, t := range tiers {
		if t.ID == "" || t.PointThreshold <= 0 {
			return fmt.Errorf("tier %q: id and positive point_threshold are required", t.ID)
		}
		for _, it := range t.Items {
			if it.ID <= 0 || it.RewardID == "" || it.Quantity <= 0 {
				return fmt.Errorf("tier %q: item %q is incomplete", t.ID, it.RewardID)
			}
			if _, dup := seen[it.RewardID]; dup {
				return fmt.Errorf("duplicate reward id %q", it.RewardID)
			}
			seen[it.RewardID] = struct{}{}
		}
	}
	return nil
}

// Find ищет уровень и позицию вознаграждения.
func Find(tiers []model.RewardTier, tierID, rewardID string) (model.RewardTier, model.RewardItem, bool) {
	for _, t := range tiers {
		if t.ID != tierID {
			continue
		}
		for _, it := range t.Items {
			if it.RewardID == rewardID {
				return t, it, true
			}
		}
	}
	return model.RewardTier{}, model.RewardItem{}, false
}

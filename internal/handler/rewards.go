package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/readytoeat/internal/model"
	"github.com/mmeshcher/readytoeat/internal/service"
)

type rewardItemResponse struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	Quantity   int               `json:"quantity"`
	RewardID   string            `json:"reward_id"`
	IsCombo    bool              `json:"is_combo,omitempty"`
	ComboItems []model.ComboPart `json:"combo_items,omitempty"`
	Disabled   bool              `json:"disabled"`
	Redeemed   bool              `json:"redeemed"`
}

type rewardTierResponse struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	PointThreshold int64                `json:"point_threshold"`
	Unlocked       bool                 `json:"unlocked"`
	Items          []rewardItemResponse `json:"items"`
}

type rewardsResponse struct {
	Points         int64                `json:"points"`
	ActiveRewardID string               `json:"active_reward_id,omitempty"`
	Tiers          []rewardTierResponse `json:"tiers"`
}

func toRewardsResponse(v *service.RewardsView) rewardsResponse {
	tiers := make([]rewardTierResponse, 0, len(v.Tiers))
	for _, t := range v.Tiers {
		items := make([]rewardItemResponse, 0, len(t.Options))
		for _, o := range t.Options {
			items = append(items, rewardItemResponse{
				ID:         o.Item.ID,
				Name:       o.Item.Name,
				Quantity:   o.Item.Quantity,
				RewardID:   o.Item.RewardID,
				IsCombo:    o.Item.IsCombo,
				ComboItems: o.Item.ComboItems,
				Disabled:   o.Disabled,
				Redeemed:   o.Redeemed,
			})
		}
		tiers = append(tiers, rewardTierResponse{
			ID:             t.Tier.ID,
			Title:          t.Tier.Title,
			PointThreshold: t.Tier.PointThreshold,
			Unlocked:       t.Unlocked,
			Items:          items,
		})
	}

	return rewardsResponse{
		Points:         v.Points,
		ActiveRewardID: v.ActiveRewardID,
		Tiers:          tiers,
	}
}

// GetRewards возвращает баланс баллов и уровни программы лояльности.
func (h *Handler) GetRewards(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.service.Rewards(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "get rewards")
		return
	}

	writeJSON(w, http.StatusOK, toRewardsResponse(view))
}

type redeemRequest struct {
	TierID   string `json:"tier_id"`
	RewardID string `json:"reward_id"`
}

// Redeem обменивает баллы на вознаграждение.
func (h *Handler) Redeem(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "")
		return
	}
	if req.TierID == "" || req.RewardID == "" {
		writeError(w, http.StatusBadRequest, "tier_id and reward_id are required")
		return
	}

	view, err := h.service.Redeem(r.Context(), id, req.TierID, req.RewardID)
	if err != nil {
		h.writeServiceError(w, err, "redeem")
		return
	}

	writeJSON(w, http.StatusOK, toRewardsResponse(view))
}

// Unredeem отменяет обмен баллов.
func (h *Handler) Unredeem(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.service.Unredeem(r.Context(), id, chi.URLParam(r, "rewardID"))
	if err != nil {
		h.writeServiceError(w, err, "unredeem")
		return
	}

	writeJSON(w, http.StatusOK, toRewardsResponse(view))
}

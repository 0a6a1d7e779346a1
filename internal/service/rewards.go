package service

import (
	"context"

	"github.com/mmeshcher/readytoeat/internal/model"
	"github.com/mmeshcher/readytoeat/internal/rewards"
)

// RewardOption описывает позицию уровня вместе с признаками доступности.
type RewardOption struct {
	Item     model.RewardItem
	Disabled bool
	Redeemed bool
}

// TierView описывает уровень программы лояльности для отображения.
type TierView struct {
	Tier     model.RewardTier
	Unlocked bool
	Options  []RewardOption
}

// RewardsView описывает состояние обмена баллов для сессии.
type RewardsView struct {
	Points         int64
	ActiveRewardID string
	Tiers          []TierView
}

// Rewards возвращает баланс и таблицу уровней с доступностью позиций.
func (s *Service) Rewards(ctx context.Context, id string) (*RewardsView, error) {
	sess, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	if sess.role == model.RoleGuest {
		return nil, ErrRewardsUnavailable
	}

	return s.rewardsView(sess), nil
}

// Redeem обменивает баллы на вознаграждение и добавляет его в корзину.
func (s *Service) Redeem(ctx context.Context, id, tierID, rewardID string) (*RewardsView, error) {
	sess, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	if sess.role == model.RoleGuest {
		return nil, ErrRewardsUnavailable
	}

	points, err := s.rewards.Redeem(ctx, s.pointsWriter(sess), tierID, rewardID, sess.points, sess.cart)
	if err != nil {
		return nil, err
	}

	sess.setPoints(points)
	s.persist(ctx, sess)

	return s.rewardsView(sess), nil
}

// Unredeem отменяет обмен и возвращает списанные баллы. Отмена
// отсутствующего вознаграждения ничего не меняет.
func (s *Service) Unredeem(ctx context.Context, id, rewardID string) (*RewardsView, error) {
	sess, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	if sess.role == model.RoleGuest {
		return nil, ErrRewardsUnavailable
	}

	points := s.rewards.Unredeem(ctx, s.pointsWriter(sess), rewardID, sess.points, sess.cart)
	sess.setPoints(points)
	s.persist(ctx, sess)

	return s.rewardsView(sess), nil
}

func (s *Service) pointsWriter(sess *session) rewards.PointsUpdater {
	if s.api == nil || sess.upstream == "" {
		return nil
	}
	return pointsWriter{api: s.api, upstream: sess.upstream}
}

func (s *Service) rewardsView(sess *session) *RewardsView {
	slot := rewards.SlotOf(sess.cart)

	view := &RewardsView{
		Points:         sess.points,
		ActiveRewardID: slot.RewardID,
	}
	for _, tier := range s.rewards.Tiers() {
		tv := TierView{
			Tier:     tier,
			Unlocked: sess.points >= tier.PointThreshold,
		}
		for _, item := range tier.Items {
			tv.Options = append(tv.Options, RewardOption{
				Item:     item,
				Disabled: rewards.Disabled(tier, item, sess.points, slot),
				Redeemed: slot.RewardID == item.RewardID,
			})
		}
		view.Tiers = append(view.Tiers, tv)
	}
	return view
}

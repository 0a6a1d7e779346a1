package rewards

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mmeshcher/readytoeat/internal/model"
)

var (
	// ErrUnknownReward возвращается, если уровень или вознаграждение не найдены.
	ErrUnknownReward = errors.New("unknown reward")
	// ErrInsufficientPoints возвращается, если баллов меньше порога уровня.
	ErrInsufficientPoints = errors.New("insufficient points")
	// ErrRedemptionActive возвращается, если в корзине уже есть вознаграждение.
	ErrRedemptionActive = errors.New("another reward is already redeemed")
)

// Cart описывает операции корзины, нужные для обмена баллов.
type Cart interface {
	ActiveReward() (model.CartLine, bool)
	AddRewardLine(item model.RewardItem, tier model.RewardTier) bool
	RemoveRewardLine(rewardID string) (model.CartLine, bool)
}

// PointsUpdater сохраняет баланс баллов в удалённой системе.
type PointsUpdater interface {
	UpdatePoints(ctx context.Context, points int64) error
}

// Slot описывает состояние слота обмена: пустой или занятый вознаграждением.
type Slot struct {
	RewardID string
}

// Occupied сообщает, занят ли слот.
func (s Slot) Occupied() bool {
	return s.RewardID != ""
}

// SlotOf вычисляет состояние слота по содержимому корзины.
func SlotOf(c Cart) Slot {
	if line, ok := c.ActiveReward(); ok {
		return Slot{RewardID: line.RewardID}
	}
	return Slot{}
}

// Engine выполняет обмен баллов и его отмену.
type Engine struct {
	tiers  []model.RewardTier
	logger *zap.Logger
}

// NewEngine создаёт движок обмена для указанной таблицы уровней.
func NewEngine(tiers []model.RewardTier, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{tiers: tiers, logger: logger}
}

// Tiers возвращает таблицу уровней.
func (e *Engine) Tiers() []model.RewardTier {
	return e.tiers
}

// Disabled сообщает, что позиция недоступна: баллов не хватает или слот
// занят другим вознаграждением. Уже выбранная позиция не блокируется,
// чтобы её можно было отменить.
func Disabled(tier model.RewardTier, item model.RewardItem, points int64, slot Slot) bool {
	if slot.Occupied() {
		return slot.RewardID != item.RewardID
	}
	return points < tier.PointThreshold
}

// Redeem добавляет в корзину вознаграждение и списывает баллы. Ошибка
// сохранения баланса в удалённой системе только логируется.
func (e *Engine) Redeem(ctx context.Context, updater PointsUpdater, tierID, rewardID string, currentPoints int64, c Cart) (int64, error) {
	tier, item, ok := Find(e.tiers, tierID, rewardID)
	if !ok {
		return currentPoints, ErrUnknownReward
	}

	// Повторный обмен того же вознаграждения тоже отклоняется:
	// иначе баллы списались бы дважды за одну строку.
	if SlotOf(c).Occupied() {
		return currentPoints, ErrRedemptionActive
	}

	if currentPoints < tier.PointThreshold {
		return currentPoints, ErrInsufficientPoints
	}

	if !c.AddRewardLine(item, tier) {
		return currentPoints, ErrRedemptionActive
	}

	newPoints := currentPoints - tier.PointThreshold
	e.sync(ctx, updater, newPoints, zap.String("reward", rewardID), zap.String("op", "redeem"))

	return newPoints, nil
}

// Unredeem удаляет вознаграждение из корзины и возвращает ровно ту стоимость,
// которая была записана в строке при обмене.
func (e *Engine) Unredeem(ctx context.Context, updater PointsUpdater, rewardID string, currentPoints int64, c Cart) int64 {
	line, ok := c.RemoveRewardLine(rewardID)
	if !ok {
		return currentPoints
	}

	newPoints := currentPoints + line.RewardPointCost
	e.sync(ctx, updater, newPoints, zap.String("reward", rewardID), zap.String("op", "unredeem"))

	return newPoints
}

func (e *Engine) sync(ctx context.Context, updater PointsUpdater, points int64, fields ...zap.Field) {
	if updater == nil {
		return
	}
	if err := updater.UpdatePoints(ctx, points); err != nil {
		e.logger.Warn("points sync failed", append(fields, zap.Int64("points", points), zap.Error(err))...)
	}
}

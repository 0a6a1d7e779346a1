package rewards

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmeshcher/readytoeat/internal/cart"
	"github.com/mmeshcher/readytoeat/internal/model"
)

type stubUpdater struct {
	calls []int64
	err   error
}

func (u *stubUpdater) UpdatePoints(ctx context.Context, points int64) error {
	u.calls = append(u.calls, points)
	return u.err
}

func newTestEngine() *Engine {
	return NewEngine(DefaultTiers(), zap.NewNop())
}

func TestRedeem_Success(t *testing.T) {
	e := newTestEngine()
	store := cart.NewStore()
	upd := &stubUpdater{}

	points, err := e.Redeem(context.Background(), upd, "tier1", "samosa-500", 500, store)
	require.NoError(t, err)

	assert.Equal(t, int64(0), points)
	assert.Equal(t, []int64{0}, upd.calls)

	line, ok := store.ActiveReward()
	require.True(t, ok)
	assert.Equal(t, int64(500), line.RewardPointCost)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, Slot{RewardID: "samosa-500"}, SlotOf(store))

	_, err = e.Redeem(context.Background(), upd, "tier2", "burger-1000", 5000, store)
	assert.ErrorIs(t, err, ErrRedemptionActive)
	assert.Len(t, upd.calls, 1, "rejected redemption must not touch the remote balance")
}

func TestRedeem_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		tierID   string
		rewardID string
		points   int64
		prefill  bool
		wantErr  error
	}{
		{name: "insufficient points", tierID: "tier2", rewardID: "burger-1000", points: 999, wantErr: ErrInsufficientPoints},
		{name: "unknown tier", tierID: "tier9", rewardID: "burger-1000", points: 9999, wantErr: ErrUnknownReward},
		{name: "reward from another tier", tierID: "tier1", rewardID: "burger-1000", points: 9999, wantErr: ErrUnknownReward},
		{name: "same reward twice", tierID: "tier1", rewardID: "samosa-500", points: 9999, prefill: true, wantErr: ErrRedemptionActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine()
			store := cart.NewStore()
			if tt.prefill {
				_, err := e.Redeem(context.Background(), nil, "tier1", "samosa-500", 500, store)
				require.NoError(t, err)
			}
			before := store.Lines()

			points, err := e.Redeem(context.Background(), nil, tt.tierID, tt.rewardID, tt.points, store)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.points, points)
			assert.Equal(t, before, store.Lines())
		})
	}
}

func TestRedeem_ActiveRewardReportedBeforeBalance(t *testing.T) {
	e := newTestEngine()
	store := cart.NewStore()

	points, err := e.Redeem(context.Background(), nil, "tier1", "samosa-500", 700, store)
	require.NoError(t, err)
	require.Equal(t, int64(200), points)

	// Остатка не хватает на второй уровень, но причина отказа в активном обмене.
	got, err := e.Redeem(context.Background(), nil, "tier1", "kachori-500", points, store)
	assert.ErrorIs(t, err, ErrRedemptionActive)
	assert.Equal(t, points, got)
	assert.Equal(t, Slot{RewardID: "samosa-500"}, SlotOf(store))
}

func TestRedeem_RemoteFailureKeepsLocalState(t *testing.T) {
	e := newTestEngine()
	store := cart.NewStore()
	upd := &stubUpdater{err: errors.New("network down")}

	points, err := e.Redeem(context.Background(), upd, "tier2", "noodles-1000", 1200, store)
	require.NoError(t, err)
	assert.Equal(t, int64(200), points)
	assert.Equal(t, 1, store.Len())
}

func TestUnredeem_RefundsRecordedCost(t *testing.T) {
	tiers := DefaultTiers()
	e := NewEngine(tiers, zap.NewNop())
	store := cart.NewStore()
	upd := &stubUpdater{}

	points, err := e.Redeem(context.Background(), upd, "tier1", "kachori-500", 700, store)
	require.NoError(t, err)
	require.Equal(t, int64(200), points)

	// Порог уровня меняется после обмена: возврат считается по строке.
	tiers[0].PointThreshold = 800

	points = e.Unredeem(context.Background(), upd, "kachori-500", points, store)
	assert.Equal(t, int64(700), points)
	assert.Equal(t, []int64{200, 700}, upd.calls)
	assert.False(t, SlotOf(store).Occupied())
}

func TestUnredeem_NotPresent(t *testing.T) {
	e := newTestEngine()
	store := cart.NewStore(model.CartLine{ItemID: 1, Quantity: 1})
	upd := &stubUpdater{}

	points := e.Unredeem(context.Background(), upd, "samosa-500", 42, store)
	assert.Equal(t, int64(42), points)
	assert.Empty(t, upd.calls)
	assert.Equal(t, 1, store.Len())
}

func TestDisabled(t *testing.T) {
	tier, item, ok := Find(DefaultTiers(), "tier1", "samosa-500")
	require.True(t, ok)
	_, other, _ := Find(DefaultTiers(), "tier1", "kachori-500")

	assert.True(t, Disabled(tier, item, 499, Slot{}))
	assert.False(t, Disabled(tier, item, 500, Slot{}))
	assert.False(t, Disabled(tier, item, 0, Slot{RewardID: "samosa-500"}))
	assert.True(t, Disabled(tier, other, 5000, Slot{RewardID: "samosa-500"}))
}

func TestLoadTiers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiers.yaml")

	content := `
tiers:
  - id: gold
    title: Gold
    point_threshold: 300
    items:
      - id: 201
        name: Cold Coffee
        quantity: 1
        reward_id: coffee-300
      - id: 202
        name: Tea + Samosa
        quantity: 1
        reward_id: combo-300
        is_combo: true
        combo_items:
          - {id: 9, name: Cup of Tea, quantity: 1}
          - {id: 1, name: Samosa, quantity: 1}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	tiers, err := LoadTiers(path)
	require.NoError(t, err)
	require.Len(t, tiers, 1)
	assert.Equal(t, int64(300), tiers[0].PointThreshold)
	require.Len(t, tiers[0].Items, 2)
	assert.True(t, tiers[0].Items[1].IsCombo)
	assert.Len(t, tiers[0].Items[1].ComboItems, 2)
}

func TestLoadTiers_Invalid(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"empty.yaml":     "tiers: []\n",
		"threshold.yaml": "tiers:\n  - id: a\n    point_threshold: 0\n",
		"dup.yaml": `tiers:
  - id: a
    point_threshold: 10
    items:
      - {id: 1, name: x, quantity: 1, reward_id: r}
      - {id: 2, name: y, quantity: 1, reward_id: r}
`,
	}

	for name, content := range cases {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		_, err := LoadTiers(path)
		assert.Error(t, err, name)
	}

	_, err := LoadTiers(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

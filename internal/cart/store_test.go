package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/readytoeat/internal/model"
)

func samosaReward() (model.RewardItem, model.RewardTier) {
	item := model.RewardItem{ID: 101, Name: "Samosa", Quantity: 2, RewardID: "samosa-500"}
	tier := model.RewardTier{ID: "tier1", PointThreshold: 500, Items: []model.RewardItem{item}}
	return item, tier
}

func TestKeyCodec(t *testing.T) {
	tests := []struct {
		name    string
		key     model.LineKey
		encoded string
	}{
		{name: "standard", key: model.LineKey{ItemID: 3}, encoded: "3"},
		{name: "extra", key: model.LineKey{ItemID: 3, Variant: model.VariantExtra}, encoded: "3_extra"},
		{name: "reward shares plain key", key: model.LineKey{ItemID: 3, Variant: model.VariantReward}, encoded: "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.encoded, EncodeKey(tt.key))
		})
	}

	k, ok := DecodeKey("12_extra")
	require.True(t, ok)
	assert.Equal(t, model.LineKey{ItemID: 12, Variant: model.VariantExtra}, k)

	for _, bad := range []string{"", "abc", "-1", "0_extra", "_extra"} {
		_, ok := DecodeKey(bad)
		assert.False(t, ok, bad)
	}
}

func TestAddLine(t *testing.T) {
	s := NewStore()

	s.AddLine(3, false)
	s.AddLine(3, false)
	lines := s.AddLine(3, true)

	require.Len(t, lines, 2)
	assert.Equal(t, model.CartLine{ItemID: 3, Quantity: 2}, lines[0])
	assert.Equal(t, model.CartLine{ItemID: 3, HasExtra: true, Quantity: 1}, lines[1])
	assert.Equal(t, 3, s.ItemCount())
}

func TestAddLine_InvalidIDIsNoop(t *testing.T) {
	s := NewStore()
	s.AddLine(-1, false)
	s.AddLine(0, true)
	assert.Equal(t, 0, s.Len())
}

func TestAddThenRemoveRoundTrip(t *testing.T) {
	s := NewStore(model.CartLine{ItemID: 5, Quantity: 1})
	before := s.Lines()

	s.AddLine(5, false)
	after := s.RemoveLine(5)

	assert.Equal(t, before, after)

	s.AddLine(7, false)
	assert.Equal(t, before, s.RemoveLine(7))
}

func TestRemoveLine_DecrementsBothVariants(t *testing.T) {
	s := NewStore(
		model.CartLine{ItemID: 4, Quantity: 2},
		model.CartLine{ItemID: 4, HasExtra: true, Quantity: 1},
	)

	lines := s.RemoveLine(4)

	require.Len(t, lines, 1)
	assert.Equal(t, model.CartLine{ItemID: 4, Quantity: 1}, lines[0])
}

func TestRemoveLine_EmptyCart(t *testing.T) {
	s := NewStore()
	assert.Empty(t, s.RemoveLine(9))
}

func TestSetQuantity(t *testing.T) {
	s := NewStore(
		model.CartLine{ItemID: 2, Quantity: 1},
		model.CartLine{ItemID: 2, HasExtra: true, Quantity: 3},
	)

	lines := s.SetQuantity(model.LineKey{ItemID: 2}, 5)
	assert.Equal(t, 5, lines[0].Quantity)

	lines = s.SetQuantity(model.LineKey{ItemID: 2, Variant: model.VariantExtra}, 0)
	assert.Empty(t, lines)

	assert.Empty(t, s.SetQuantity(model.LineKey{ItemID: 8}, 4), "absent key must not be created")
}

func TestRewardLines(t *testing.T) {
	s := NewStore(model.CartLine{ItemID: 1, Quantity: 1})
	item, tier := samosaReward()

	require.True(t, s.AddRewardLine(item, tier))

	line, ok := s.ActiveReward()
	require.True(t, ok)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, int64(500), line.RewardPointCost)
	assert.Equal(t, "tier1", line.RewardTierID)

	other := model.RewardItem{ID: 102, Name: "Kachori", Quantity: 2, RewardID: "kachori-500"}
	assert.False(t, s.AddRewardLine(other, tier), "second reward must be refused")

	s.RemoveLine(101)
	s.SetQuantity(model.LineKey{ItemID: 101}, 0)
	s.AddLine(101, false)
	_, ok = s.ActiveReward()
	assert.True(t, ok, "reward line survives decrement and overwrite attempts")

	removed, ok := s.RemoveRewardLine("samosa-500")
	require.True(t, ok)
	assert.Equal(t, "samosa-500", removed.RewardID)

	_, ok = s.RemoveRewardLine("samosa-500")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestRewardOverwritesPlainKey(t *testing.T) {
	item, tier := samosaReward()
	s := NewStore(model.CartLine{ItemID: item.ID, Quantity: 4})

	require.True(t, s.AddRewardLine(item, tier))

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.True(t, lines[0].IsReward)
}

func TestClear(t *testing.T) {
	s := NewStore(model.CartLine{ItemID: 1, Quantity: 1})
	s.Clear()
	assert.Equal(t, 0, s.Len())
}

package inventory

import (
	"testing"

	"github.com/annel0/shopcraft/internal/catalog"
	"github.com/annel0/shopcraft/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultItems(t *testing.T) []Item {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return ItemsFrom(block.NewDefaultRegistry(), cat)
}

func TestItemsFrom_Order(t *testing.T) {
	items := defaultItems(t)

	require.Len(t, items, 6+8)
	assert.Equal(t, "floor", items[0].ID)
	assert.Equal(t, "door", items[5].ID)
	assert.Equal(t, KindBlock, items[5].Kind)
	assert.Equal(t, "cashier_counter", items[6].ID)
	assert.Equal(t, KindFurniture, items[6].Kind)
	assert.Equal(t, "▦", items[0].Icon)
}

func TestRegister_Counts(t *testing.T) {
	r := NewRegister(defaultItems(t), DefaultOptions())

	assert.Equal(t, 99, r.Count("wall"))
	r.Add("wall", -1)
	assert.Equal(t, 98, r.Count("wall"))
	r.Add("wall", -500)
	assert.Equal(t, 0, r.Count("wall"), "счётчик не уходит в минус")

	r.Set("pallet", 3)
	assert.Equal(t, 3, r.Snapshot()["pallet"])
	assert.Equal(t, 0, r.Count("unknown"))
}

func TestRegister_PlotUpgrades(t *testing.T) {
	r := NewRegister(nil, DefaultOptions())
	assert.Equal(t, 250, r.Money())

	next, ok := r.NextPlotUpgrade()
	require.True(t, ok)
	assert.Equal(t, 500, next.Cost)
	assert.False(t, r.CanAffordPlotUpgrade())

	_, err := r.BuyNextPlotUpgrade()
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 250, r.Money(), "неудачная покупка не списывает деньги")

	r.AddMoney(10000)
	for i := 0; i < 4; i++ {
		_, err := r.BuyNextPlotUpgrade()
		require.NoError(t, err)
	}
	assert.Equal(t, 250+10000-500-1200-2500-5000, r.Money())
	assert.Equal(t, 4, r.UpgradesBought())

	_, err = r.BuyNextPlotUpgrade()
	assert.ErrorIs(t, err, ErrNoMoreUpgrades)
	_, ok = r.NextPlotUpgrade()
	assert.False(t, ok)
}

func TestRegister_Spend(t *testing.T) {
	r := NewRegister(nil, Options{StartMoney: 100, Upgrades: []PlotUpgrade{}})

	assert.True(t, r.Spend(40))
	assert.False(t, r.Spend(61))
	assert.False(t, r.Spend(-1))
	assert.Equal(t, 60, r.Money())

	_, ok := r.NextPlotUpgrade()
	assert.False(t, ok, "пустая лестница улучшений")
}

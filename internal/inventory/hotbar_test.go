package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHotbar_Paging(t *testing.T) {
	h := NewHotbar(defaultItems(t), 0)

	it, ok := h.Selected()
	require.True(t, ok)
	assert.Equal(t, "floor", it.ID)
	assert.Len(t, h.PageItems(), DefaultPageSize)

	h.SetSelected(12)
	assert.Equal(t, 10, h.PageStart(), "выбор на второй странице")
	assert.Len(t, h.PageItems(), 4)

	assert.True(t, h.SetSelectedInPage(3))
	assert.Equal(t, 13, h.SelectedIndex())
	assert.False(t, h.SetSelectedInPage(4), "за концом списка")

	h.SetSelected(100)
	assert.Equal(t, 13, h.SelectedIndex(), "индекс прижимается к последнему")
}

func TestHotbar_CycleWraps(t *testing.T) {
	h := NewHotbar(defaultItems(t), 10)

	h.Cycle(-1)
	assert.Equal(t, 13, h.SelectedIndex())
	assert.Equal(t, 10, h.PageStart())

	h.Cycle(1)
	assert.Equal(t, 0, h.SelectedIndex())
	assert.Equal(t, 0, h.PageStart())
}

func TestHotbar_Empty(t *testing.T) {
	h := NewHotbar(nil, 10)
	_, ok := h.Selected()
	assert.False(t, ok)
	h.Cycle(1)
	assert.False(t, h.SetSelectedInPage(0))
	assert.Empty(t, h.PageItems())
}

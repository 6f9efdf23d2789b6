package inventory

// DefaultPageSize — число слотов на одной странице хотбара
const DefaultPageSize = 10

// Hotbar — постраничный выбор предмета
type Hotbar struct {
	items     []Item
	pageSize  int
	selected  int
	pageStart int
}

// NewHotbar создает хотбар; pageSize <= 0 означает DefaultPageSize
func NewHotbar(items []Item, pageSize int) *Hotbar {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Hotbar{items: items, pageSize: pageSize}
}

// Selected возвращает выбранный предмет; false для пустого хотбара
func (h *Hotbar) Selected() (Item, bool) {
	if len(h.items) == 0 {
		return Item{}, false
	}
	return h.items[h.selected], true
}

// SelectedIndex возвращает индекс выбранного предмета
func (h *Hotbar) SelectedIndex() int { return h.selected }

// PageStart возвращает индекс первого слота текущей страницы
func (h *Hotbar) PageStart() int { return h.pageStart }

// PageItems возвращает предметы текущей страницы
func (h *Hotbar) PageItems() []Item {
	end := h.pageStart + h.pageSize
	if end > len(h.items) {
		end = len(h.items)
	}
	return h.items[h.pageStart:end]
}

// SetSelected выбирает предмет по индексу, прижимая его к допустимому диапазону
func (h *Hotbar) SetSelected(idx int) {
	if len(h.items) == 0 {
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(h.items) {
		idx = len(h.items) - 1
	}
	h.selected = idx
	h.updatePage()
}

// SetSelectedInPage выбирает слот текущей страницы (0..pageSize-1)
func (h *Hotbar) SetSelectedInPage(slot int) bool {
	idx := h.pageStart + slot
	if slot < 0 || slot >= h.pageSize || idx >= len(h.items) {
		return false
	}
	h.SetSelected(idx)
	return true
}

// Cycle сдвигает выбор на dir позиций по кругу
func (h *Hotbar) Cycle(dir int) {
	n := len(h.items)
	if n == 0 {
		return
	}
	h.selected = ((h.selected+dir)%n + n) % n
	h.updatePage()
}

func (h *Hotbar) updatePage() {
	h.pageStart = (h.selected / h.pageSize) * h.pageSize
}

package inventory

import (
	"errors"
	"sort"
	"sync"

	"github.com/annel0/shopcraft/internal/catalog"
	"github.com/annel0/shopcraft/internal/world/block"
)

// Ошибки покупки улучшений участка
var (
	ErrNoMoreUpgrades    = errors.New("no more plot upgrades")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// ItemKind различает блоки и мебель в списке предметов
type ItemKind string

const (
	KindBlock     ItemKind = "block"
	KindFurniture ItemKind = "furniture"
)

// Item — предмет, который можно положить в хотбар
type Item struct {
	ID   string
	Name string
	Icon string
	Kind ItemKind
}

// PlotUpgrade — платное расширение участка
type PlotUpgrade struct {
	ID      string `yaml:"id"`
	Cost    int    `yaml:"cost"`
	ExpandX int    `yaml:"expand_x"`
	ExpandZ int    `yaml:"expand_z"`
}

// DefaultPlotUpgrades возвращает стандартную лестницу улучшений
func DefaultPlotUpgrades() []PlotUpgrade {
	return []PlotUpgrade{
		{ID: "plot_1", Cost: 500, ExpandX: 2, ExpandZ: 2},
		{ID: "plot_2", Cost: 1200, ExpandX: 3, ExpandZ: 3},
		{ID: "plot_3", Cost: 2500, ExpandX: 4, ExpandZ: 4},
		{ID: "plot_4", Cost: 5000, ExpandX: 6, ExpandZ: 6},
	}
}

// Options — стартовые значения регистра
type Options struct {
	StartCount int           // Стартовое количество каждого предмета
	StartMoney int           // Стартовые деньги
	Upgrades   []PlotUpgrade // nil — DefaultPlotUpgrades()
}

// DefaultOptions возвращает значения по умолчанию: 99 штук и 250 монет
func DefaultOptions() Options {
	return Options{StartCount: 99, StartMoney: 250}
}

// Register хранит счётчики предметов, деньги и прогресс улучшений.
// Реализует world.Inventory.
type Register struct {
	mu          sync.RWMutex
	items       []Item
	counts      map[string]int
	money       int
	upgrades    []PlotUpgrade
	nextUpgrade int
}

// NewRegister создает регистр для набора предметов
func NewRegister(items []Item, opts Options) *Register {
	if opts.Upgrades == nil {
		opts.Upgrades = DefaultPlotUpgrades()
	}

	r := &Register{
		items:    append([]Item(nil), items...),
		counts:   make(map[string]int, len(items)),
		money:    opts.StartMoney,
		upgrades: append([]PlotUpgrade(nil), opts.Upgrades...),
	}
	for _, it := range items {
		r.counts[it.ID] = opts.StartCount
	}
	return r
}

// ItemsFrom собирает список предметов: сначала блоки реестра, затем мебель каталога
func ItemsFrom(blocks *block.Registry, cat *catalog.Catalog) []Item {
	var items []Item
	for _, id := range blockOrder(blocks) {
		def, _ := blocks.Get(id)
		items = append(items, Item{ID: def.ID, Name: def.Name, Icon: blockIcons[def.ID], Kind: KindBlock})
	}
	if cat != nil {
		for _, id := range cat.IDs() {
			f, _ := cat.Furniture(id)
			icon := f.Icon
			if icon == "" {
				icon = "⬛"
			}
			items = append(items, Item{ID: f.ID, Name: f.Name, Icon: icon, Kind: KindFurniture})
		}
	}
	return items
}

var blockIcons = map[string]string{
	block.FloorID:  "▦",
	block.WallID:   "■",
	block.SlabID:   "▭",
	block.GlassID:  "▢",
	block.WindowID: "▣",
	block.DoorID:   "▥",
}

// blockOrder — стандартные блоки в привычном порядке, остальные по алфавиту
func blockOrder(blocks *block.Registry) []string {
	standard := []string{block.FloorID, block.WallID, block.SlabID, block.GlassID, block.WindowID, block.DoorID}
	seen := make(map[string]bool)
	var out []string
	for _, id := range standard {
		if blocks.IsValidID(id) {
			out = append(out, id)
			seen[id] = true
		}
	}
	var rest []string
	for _, id := range blocks.IDs() {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// Items возвращает список предметов
func (r *Register) Items() []Item {
	return append([]Item(nil), r.items...)
}

// Count возвращает количество предмета
func (r *Register) Count(id string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counts[id]
}

// Add меняет количество предмета; результат не опускается ниже нуля
func (r *Register) Add(id string, delta int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.counts[id] + delta
	if n < 0 {
		n = 0
	}
	r.counts[id] = n
}

// Set задаёт количество предмета
func (r *Register) Set(id string, n int) {
	if n < 0 {
		n = 0
	}
	r.mu.Lock()
	r.counts[id] = n
	r.mu.Unlock()
}

// Snapshot возвращает копию всех счётчиков
func (r *Register) Snapshot() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}

// Money возвращает баланс
func (r *Register) Money() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.money
}

// AddMoney пополняет баланс
func (r *Register) AddMoney(amount int) {
	if amount <= 0 {
		return
	}
	r.mu.Lock()
	r.money += amount
	r.mu.Unlock()
}

// Spend списывает деньги; false при нехватке средств
func (r *Register) Spend(amount int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if amount < 0 || r.money < amount {
		return false
	}
	r.money -= amount
	return true
}

// NextPlotUpgrade возвращает следующее доступное улучшение
func (r *Register) NextPlotUpgrade() (PlotUpgrade, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.nextUpgrade >= len(r.upgrades) {
		return PlotUpgrade{}, false
	}
	return r.upgrades[r.nextUpgrade], true
}

// CanAffordPlotUpgrade проверяет, хватает ли денег на следующее улучшение
func (r *Register) CanAffordPlotUpgrade() bool {
	next, ok := r.NextPlotUpgrade()
	return ok && r.Money() >= next.Cost
}

// BuyNextPlotUpgrade покупает следующее улучшение
func (r *Register) BuyNextPlotUpgrade() (PlotUpgrade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nextUpgrade >= len(r.upgrades) {
		return PlotUpgrade{}, ErrNoMoreUpgrades
	}
	up := r.upgrades[r.nextUpgrade]
	if r.money < up.Cost {
		return PlotUpgrade{}, ErrInsufficientFunds
	}
	r.money -= up.Cost
	r.nextUpgrade++
	return up, nil
}

// UpgradesBought возвращает число купленных улучшений
func (r *Register) UpgradesBought() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nextUpgrade
}

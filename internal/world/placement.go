package world

import (
	"github.com/annel0/shopcraft/internal/catalog"
	"github.com/annel0/shopcraft/internal/vec"
	"github.com/annel0/shopcraft/internal/world/block"
)

// PlacementID — непрозрачный идентификатор размещения.
// Выдаётся монотонно, начиная с 1, и никогда не переиспользуется.
type PlacementID uint64

// NoPlacement — нулевой идентификатор, не соответствующий ни одному размещению
const NoPlacement PlacementID = 0

// Rotation — поворот вокруг вертикальной оси в четвертях оборота (0..3)
type Rotation uint8

// NewRotation нормализует произвольное число четвертей в диапазон 0..3
func NewRotation(quarters int) Rotation {
	q := quarters % 4
	if q < 0 {
		q += 4
	}
	return Rotation(q)
}

// CW поворачивает на четверть по часовой стрелке
func (r Rotation) CW() Rotation { return NewRotation(int(r) + 1) }

// CCW поворачивает на четверть против часовой стрелки
func (r Rotation) CCW() Rotation { return NewRotation(int(r) + 3) }

// Odd возвращает true, если ширина и глубина меняются местами
func (r Rotation) Odd() bool { return r%2 == 1 }

// ItemKind различает варианты Item
type ItemKind uint8

const (
	KindBlock ItemKind = iota
	KindFurniture
)

// String возвращает имя варианта
func (k ItemKind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindFurniture:
		return "furniture"
	default:
		return "unknown"
	}
}

// Item — размещаемый предмет: BlockItem или FurnitureItem.
// Набор вариантов закрыт неэкспортируемым методом.
type Item interface {
	Kind() ItemKind
	TypeID() string
	isItem()
}

// BlockItem — блок из реестра блоков
type BlockItem struct {
	Def *block.Def
}

// Kind реализует Item
func (BlockItem) Kind() ItemKind { return KindBlock }

// TypeID реализует Item
func (b BlockItem) TypeID() string { return b.Def.ID }

func (BlockItem) isItem() {}

// FurnitureItem — мебель из каталога
type FurnitureItem struct {
	Def *catalog.Furniture
}

// Kind реализует Item
func (FurnitureItem) Kind() ItemKind { return KindFurniture }

// TypeID реализует Item
func (f FurnitureItem) TypeID() string { return f.Def.ID }

func (FurnitureItem) isItem() {}

// Placement — один размещённый объект
type Placement struct {
	ID        PlacementID
	Item      Item
	Origin    vec.Vec3   // Минимальный угол footprint
	Cells     []vec.Vec3 // Все занятые ячейки
	Rotation  Rotation
	Layer     Layer
	AutoFloor bool // Создан автоматически, не участвует в учёте инвентаря
}

// IsDoor возвращает true для дверей обоих вариантов
func (p *Placement) IsDoor() bool {
	switch it := p.Item.(type) {
	case BlockItem:
		return it.Def.IsDoor()
	case FurnitureItem:
		return it.Def.IsDoor()
	}
	return false
}

// IsTransparent возвращает true для прозрачных блоков (стекло, окно)
func (p *Placement) IsTransparent() bool {
	it, ok := p.Item.(BlockItem)
	return ok && it.Def.IsTransparent()
}

// arena — плотное хранилище размещений: индекс = ID-1.
// Освобождённые слоты остаются nil, ID не переиспользуются.
type arena struct {
	slots []*Placement
	live  int
}

func (a *arena) alloc(p *Placement) PlacementID {
	a.slots = append(a.slots, p)
	p.ID = PlacementID(len(a.slots))
	a.live++
	return p.ID
}

func (a *arena) get(id PlacementID) (*Placement, bool) {
	if id == NoPlacement || int(id) > len(a.slots) {
		return nil, false
	}
	p := a.slots[id-1]
	return p, p != nil
}

func (a *arena) free(id PlacementID) {
	if _, ok := a.get(id); !ok {
		return
	}
	a.slots[id-1] = nil
	a.live--
}

// each обходит живые размещения по возрастанию ID
func (a *arena) each(fn func(p *Placement)) {
	for _, p := range a.slots {
		if p != nil {
			fn(p)
		}
	}
}

package world

import (
	"math"
	"sort"

	"github.com/annel0/shopcraft/internal/catalog"
	"github.com/annel0/shopcraft/internal/physics"
	"github.com/annel0/shopcraft/internal/vec"
)

// Colliders кеширует составные AABB каждого размещения
type Colliders struct {
	occ   *Occupancy
	cache map[PlacementID][]physics.AABB
}

// NewColliders создает пустой кеш коллайдеров
func NewColliders(occ *Occupancy) *Colliders {
	return &Colliders{occ: occ, cache: make(map[PlacementID][]physics.AABB)}
}

// BuildCompoundBoxes строит коробки размещения без учёта проходимости
func BuildCompoundBoxes(p *Placement) []physics.AABB {
	switch it := p.Item.(type) {
	case BlockItem:
		if it.Def.IsFloor() {
			return nil
		}
		size := it.Def.Size
		if p.Rotation.Odd() {
			size.X, size.Z = size.Z, size.X
		}
		center := vec.Vec3Float{
			X: float64(p.Origin.X) + 0.5,
			Y: float64(p.Origin.Y) + it.Def.YOffset,
			Z: float64(p.Origin.Z) + 0.5,
		}
		return []physics.AABB{physics.NewAABB(center, size)}
	case FurnitureItem:
		return furnitureBoxes(it.Def, p.Origin, p.Rotation)
	}
	return nil
}

func furnitureBoxes(def *catalog.Furniture, origin vec.Vec3, rot Rotation) []physics.AABB {
	fp := def.FootprintFor(int(rot))
	base := vec.Vec3Float{
		X: float64(origin.X) + float64(fp.X)/2,
		Y: float64(origin.Y) + def.YOffset,
		Z: float64(origin.Z) + float64(fp.Z)/2,
	}

	parts := def.Parts
	if len(parts) == 0 {
		parts = []catalog.Part{{
			Center: vec.Vec3Float{Y: def.Size.Y / 2},
			Size:   def.Size,
		}}
	}

	boxes := make([]physics.AABB, 0, len(parts))
	for _, part := range parts {
		center, size := rotateQuarter(part.Center, part.Size, rot)
		boxes = append(boxes, physics.NewAABB(base.Add(center), size))
	}
	return boxes
}

// rotateQuarter поворачивает локальную коробку вокруг оси Y на rot четвертей
func rotateQuarter(center, size vec.Vec3Float, rot Rotation) (vec.Vec3Float, vec.Vec3Float) {
	switch rot {
	case 1:
		center = vec.Vec3Float{X: center.Z, Y: center.Y, Z: -center.X}
	case 2:
		center = vec.Vec3Float{X: -center.X, Y: center.Y, Z: -center.Z}
	case 3:
		center = vec.Vec3Float{X: -center.Z, Y: center.Y, Z: center.X}
	}
	if rot.Odd() {
		size.X, size.Z = size.Z, size.X
	}
	return center, size
}

// Refresh пересчитывает и кеширует коробки размещения.
// Если ни одна ячейка не коллизионна (открытая дверь), кеш пуст.
func (c *Colliders) Refresh(p *Placement) []physics.AABB {
	if !c.anyCollidable(p) {
		delete(c.cache, p.ID)
		return nil
	}
	boxes := BuildCompoundBoxes(p)
	if len(boxes) == 0 {
		delete(c.cache, p.ID)
		return nil
	}
	c.cache[p.ID] = boxes
	return boxes
}

func (c *Colliders) anyCollidable(p *Placement) bool {
	for _, cell := range p.Cells {
		if occ, ok := c.occ.Get(p.Layer, cell); ok && occ.Ref == p.ID && occ.Collidable {
			return true
		}
	}
	return false
}

// Drop удаляет коробки размещения из кеша
func (c *Colliders) Drop(id PlacementID) {
	delete(c.cache, id)
}

// Boxes возвращает закешированные коробки размещения
func (c *Colliders) Boxes(id PlacementID) []physics.AABB {
	return c.cache[id]
}

// ListAll возвращает плоский список коллайдеров, упорядоченный по ссылке
func (c *Colliders) ListAll() []physics.Collider {
	ids := make([]PlacementID, 0, len(c.cache))
	for id := range c.cache {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []physics.Collider
	for _, id := range ids {
		for _, box := range c.cache[id] {
			out = append(out, physics.Collider{Ref: uint64(id), Box: box})
		}
	}
	return out
}

// Slice — вертикальный интервал [MinY, MaxY) внутри ячейки
type Slice struct {
	MinY float64
	MaxY float64
}

// QueryColumnSlice возвращает твёрдую часть ячейки cell.
// Нет occupant или он не коллизионен — ничего.
// Нет закешированных коробок — вся ячейка.
// Коробки есть, но колонку не пересекают — ничего.
func (c *Colliders) QueryColumnSlice(cell vec.Vec3) (Slice, bool) {
	occ, ok := c.occ.Solid(cell)
	if !ok || !occ.Collidable {
		return Slice{}, false
	}

	y0, y1 := float64(cell.Y), float64(cell.Y+1)
	boxes := c.cache[occ.Ref]
	if len(boxes) == 0 {
		return Slice{MinY: y0, MaxY: y1}, true
	}

	x0, x1 := float64(cell.X), float64(cell.X+1)
	z0, z1 := float64(cell.Z), float64(cell.Z+1)

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, b := range boxes {
		if b.Max.X <= x0 || b.Min.X >= x1 || b.Max.Z <= z0 || b.Min.Z >= z1 {
			continue
		}
		if b.Max.Y <= y0 || b.Min.Y >= y1 {
			continue
		}
		minY = math.Min(minY, b.Min.Y)
		maxY = math.Max(maxY, b.Max.Y)
	}
	if minY > maxY {
		return Slice{}, false
	}
	return Slice{MinY: math.Max(minY, y0), MaxY: math.Min(maxY, y1)}, true
}

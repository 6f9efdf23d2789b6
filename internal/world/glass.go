package world

import "github.com/annel0/shopcraft/internal/vec"

// FaceMask — битовая маска видимых граней в порядке vec.Cardinal:
// бит 0 — +X, 1 — -X, 2 — +Y, 3 — -Y, 4 — +Z, 5 — -Z.
type FaceMask uint8

// AllFaces — все шесть граней видимы
const AllFaces FaceMask = 0x3F

// Visible проверяет грань по индексу направления
func (m FaceMask) Visible(dir int) bool {
	return m&(1<<uint(dir)) != 0
}

// Count возвращает число видимых граней
func (m FaceMask) Count() int {
	n := 0
	for i := 0; i < 6; i++ {
		if m.Visible(i) {
			n++
		}
	}
	return n
}

// GlassCuller скрывает грани между соседними прозрачными блоками одного семейства
type GlassCuller struct {
	occ    *Occupancy
	lookup func(PlacementID) (*Placement, bool)
	masks  map[PlacementID]FaceMask
}

// NewGlassCuller создает culler поверх хранилища занятости
func NewGlassCuller(occ *Occupancy, lookup func(PlacementID) (*Placement, bool)) *GlassCuller {
	return &GlassCuller{occ: occ, lookup: lookup, masks: make(map[PlacementID]FaceMask)}
}

// family возвращает семейство прозрачного блока в ячейке или ""
func (g *GlassCuller) family(cell vec.Vec3) (PlacementID, string) {
	occ, ok := g.occ.Solid(cell)
	if !ok || occ.Kind != KindBlock {
		return NoPlacement, ""
	}
	p, ok := g.lookup(occ.Ref)
	if !ok {
		return NoPlacement, ""
	}
	it, ok := p.Item.(BlockItem)
	if !ok {
		return NoPlacement, ""
	}
	return p.ID, it.Def.Family
}

// recompute пересчитывает маску блока в ячейке, если он прозрачный
func (g *GlassCuller) recompute(cell vec.Vec3) {
	id, fam := g.family(cell)
	if fam == "" {
		return
	}
	mask := AllFaces
	for i, n := range cell.Neighbors() {
		if _, nf := g.family(n); nf == fam {
			mask &^= 1 << uint(i)
		}
	}
	g.masks[id] = mask
}

// Update пересчитывает ячейку и шесть её соседей
func (g *GlassCuller) Update(cell vec.Vec3) {
	g.recompute(cell)
	for _, n := range cell.Neighbors() {
		g.recompute(n)
	}
}

// Drop забывает маску размещения
func (g *GlassCuller) Drop(id PlacementID) {
	delete(g.masks, id)
}

// VisibleFaces возвращает маску прозрачного блока; для остальных — все грани
func (g *GlassCuller) VisibleFaces(id PlacementID) FaceMask {
	if m, ok := g.masks[id]; ok {
		return m
	}
	return AllFaces
}

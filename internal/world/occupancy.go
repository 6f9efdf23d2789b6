package world

import "github.com/annel0/shopcraft/internal/vec"

// Occupant — запись о том, чем занята ячейка в конкретном слое
type Occupant struct {
	Ref        PlacementID
	Kind       ItemKind
	TypeID     string
	Collidable bool
}

// Occupancy хранит занятость ячеек в двух независимых слоях.
// Ключ — структура vec.Vec3, поэтому поиск O(1) без склейки строк.
// Валидации здесь нет: хранилище доверяет вызывающему.
type Occupancy struct {
	layers [MaxLayers]map[vec.Vec3]Occupant
}

// NewOccupancy создает пустое хранилище
func NewOccupancy() *Occupancy {
	o := &Occupancy{}
	for i := range o.layers {
		o.layers[i] = make(map[vec.Vec3]Occupant)
	}
	return o
}

// Get возвращает occupant ячейки в слое
func (o *Occupancy) Get(layer Layer, cell vec.Vec3) (Occupant, bool) {
	if layer >= MaxLayers {
		return Occupant{}, false
	}
	occ, ok := o.layers[layer][cell]
	return occ, ok
}

// Solid возвращает occupant твёрдого слоя
func (o *Occupancy) Solid(cell vec.Vec3) (Occupant, bool) {
	return o.Get(LayerSolid, cell)
}

// Floor возвращает occupant слоя пола
func (o *Occupancy) Floor(cell vec.Vec3) (Occupant, bool) {
	return o.Get(LayerFloor, cell)
}

// Occupied проверяет, занята ли ячейка хотя бы в одном слое
func (o *Occupancy) Occupied(cell vec.Vec3) bool {
	for i := range o.layers {
		if _, ok := o.layers[i][cell]; ok {
			return true
		}
	}
	return false
}

// Mark записывает occupant во все перечисленные ячейки слоя
func (o *Occupancy) Mark(occ Occupant, cells []vec.Vec3, layer Layer) {
	if layer >= MaxLayers {
		return
	}
	m := o.layers[layer]
	for _, c := range cells {
		m[c] = occ
	}
}

// Unmark освобождает ячейки слоя
func (o *Occupancy) Unmark(cells []vec.Vec3, layer Layer) {
	if layer >= MaxLayers {
		return
	}
	m := o.layers[layer]
	for _, c := range cells {
		delete(m, c)
	}
}

// SetCollidable меняет флаг коллизии у занятых ячеек слоя.
// Возвращает true, если хотя бы один флаг изменился.
func (o *Occupancy) SetCollidable(cells []vec.Vec3, layer Layer, collidable bool) bool {
	if layer >= MaxLayers {
		return false
	}
	m := o.layers[layer]
	changed := false
	for _, c := range cells {
		occ, ok := m[c]
		if !ok || occ.Collidable == collidable {
			continue
		}
		occ.Collidable = collidable
		m[c] = occ
		changed = true
	}
	return changed
}

// Len возвращает число занятых ячеек в слое
func (o *Occupancy) Len(layer Layer) int {
	if layer >= MaxLayers {
		return 0
	}
	return len(o.layers[layer])
}

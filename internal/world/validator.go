package world

import (
	"github.com/annel0/shopcraft/internal/catalog"
	"github.com/annel0/shopcraft/internal/vec"
	"github.com/annel0/shopcraft/internal/world/block"
)

// Validator решает, допустимо ли размещение. Ничего не изменяет.
//
// Правила опоры у блоков и мебели различаются намеренно:
// блоку достаточно любого из пяти соседей (снизу и по бокам),
// мебели нужна опора строго под каждой ячейкой footprint.
type Validator struct {
	blocks  *block.Registry
	catalog FurnitureCatalog
	occ     *Occupancy
	parcel  *Parcel
}

// NewValidator создает валидатор поверх общего состояния движка
func NewValidator(blocks *block.Registry, cat FurnitureCatalog, occ *Occupancy, parcel *Parcel) *Validator {
	return &Validator{blocks: blocks, catalog: cat, occ: occ, parcel: parcel}
}

// ValidateBlock проверяет размещение блока typeID в ячейке cell
func (v *Validator) ValidateBlock(typeID string, cell vec.Vec3) error {
	def, ok := v.blocks.Get(typeID)
	if !ok {
		return ErrUnknownType
	}
	return v.validateBlockDef(def, cell)
}

// CanPlaceBlock — булева обёртка над ValidateBlock
func (v *Validator) CanPlaceBlock(typeID string, cell vec.Vec3) bool {
	return v.ValidateBlock(typeID, cell) == nil
}

func (v *Validator) validateBlockDef(def *block.Def, cell vec.Vec3) error {
	if !v.parcel.ContainsXZ(cell.X, cell.Z) {
		return ErrOutOfParcelBounds
	}
	if !v.parcel.ContainsY(cell.Y) {
		return ErrOutOfHeightBounds
	}
	if _, taken := v.occ.Get(blockLayer(def), cell); taken {
		return ErrCellOccupied
	}
	if !v.blockSupported(cell) {
		return ErrUnsupported
	}
	return nil
}

// blockSupported: земля или любой занятый сосед снизу/сбоку в любом слое
func (v *Validator) blockSupported(cell vec.Vec3) bool {
	if cell.Y == 0 {
		return true
	}
	candidates := [5]vec.Vec3{
		cell.Below(),
		{X: cell.X + 1, Y: cell.Y, Z: cell.Z},
		{X: cell.X - 1, Y: cell.Y, Z: cell.Z},
		{X: cell.X, Y: cell.Y, Z: cell.Z + 1},
		{X: cell.X, Y: cell.Y, Z: cell.Z - 1},
	}
	for _, c := range candidates {
		if v.occ.Occupied(c) {
			return true
		}
	}
	return false
}

// ValidateFurniture проверяет размещение мебели id с минимальным углом cell
func (v *Validator) ValidateFurniture(id string, cell vec.Vec3, rot Rotation) error {
	def, ok := v.catalog.Furniture(id)
	if !ok {
		return ErrUnknownType
	}
	return v.validateFurnitureDef(def, cell, rot)
}

// CanPlaceFurniture — булева обёртка над ValidateFurniture
func (v *Validator) CanPlaceFurniture(id string, cell vec.Vec3, rot Rotation) bool {
	return v.ValidateFurniture(id, cell, rot) == nil
}

func (v *Validator) validateFurnitureDef(def *catalog.Furniture, cell vec.Vec3, rot Rotation) error {
	fp := def.FootprintFor(int(rot))
	height := def.HeightCells()

	for dx := 0; dx < fp.X; dx++ {
		for dz := 0; dz < fp.Z; dz++ {
			x, z := cell.X+dx, cell.Z+dz
			if !v.parcel.ContainsXZ(x, z) {
				return ErrOutOfParcelBounds
			}
			for dy := 0; dy < height; dy++ {
				c := vec.Vec3{X: x, Y: cell.Y + dy, Z: z}
				if !v.parcel.ContainsY(c.Y) {
					return ErrOutOfHeightBounds
				}
				if _, taken := v.occ.Solid(c); taken {
					return ErrCellOccupied
				}
			}
			// Боковая опора для мебели не засчитывается
			if cell.Y > 0 && !v.occ.Occupied(vec.Vec3{X: x, Y: cell.Y - 1, Z: z}) {
				return ErrUnsupported
			}
		}
	}
	return nil
}

// blockLayer выбирает слой для блока: напольные плиты живут в слое пола
func blockLayer(def *block.Def) Layer {
	if def.IsFloor() {
		return LayerFloor
	}
	return LayerSolid
}

// furnitureCells перечисляет ячейки мебели: footprint × слои высоты
func furnitureCells(def *catalog.Furniture, origin vec.Vec3, rot Rotation) []vec.Vec3 {
	fp := def.FootprintFor(int(rot))
	height := def.HeightCells()
	cells := make([]vec.Vec3, 0, fp.X*fp.Z*height)
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < fp.X; dx++ {
			for dz := 0; dz < fp.Z; dz++ {
				cells = append(cells, vec.Vec3{X: origin.X + dx, Y: origin.Y + dy, Z: origin.Z + dz})
			}
		}
	}
	return cells
}

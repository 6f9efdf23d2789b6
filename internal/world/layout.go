package world

import (
	"fmt"

	"github.com/annel0/shopcraft/internal/vec"
)

// LayoutVersion — версия формата снимка планировки
const LayoutVersion = 1

// LayoutEntry — одно размещение в снимке
type LayoutEntry struct {
	Kind      ItemKind `json:"kind"`
	TypeID    string   `json:"type_id"`
	Origin    vec.Vec3 `json:"origin"`
	Rotation  Rotation `json:"rotation"`
	AutoFloor bool     `json:"auto_floor,omitempty"`
}

// Layout — снимок планировки участка
type Layout struct {
	Version int           `json:"version"`
	Parcel  Parcel        `json:"parcel"`
	Entries []LayoutEntry `json:"entries"`
}

// Export возвращает снимок всех размещений по возрастанию ID
func (e *Engine) Export() Layout {
	l := Layout{Version: LayoutVersion, Parcel: e.parcel}
	e.placements.each(func(p *Placement) {
		l.Entries = append(l.Entries, LayoutEntry{
			Kind:      p.Item.Kind(),
			TypeID:    p.Item.TypeID(),
			Origin:    p.Origin,
			Rotation:  p.Rotation,
			AutoFloor: p.AutoFloor,
		})
	})
	return l
}

// Import заменяет содержимое мира снимком. Инвентарь не списывается,
// опора не проверяется, авто-пол берётся только из снимка.
// При ошибке текущее состояние не меняется.
func (e *Engine) Import(l Layout) error {
	if l.Version != 0 && l.Version != LayoutVersion {
		return fmt.Errorf("неподдерживаемая версия планировки: %d", l.Version)
	}

	parcel := l.Parcel
	if parcel == (Parcel{}) {
		parcel = e.parcel
	}

	next := NewEngine(Options{
		Parcel:    parcel,
		Blocks:    e.blocks,
		Catalog:   e.catalog,
		Inventory: e.inv,
		Doors:     e.doorCfg,
		Logger:    e.log,
	})
	for i, entry := range l.Entries {
		if err := next.restore(entry); err != nil {
			return fmt.Errorf("запись %d (%s): %w", i, entry.TypeID, err)
		}
	}

	e.parcel = next.parcel
	e.occ = next.occ
	e.placements = next.placements
	e.counts = next.counts
	e.colliders = next.colliders
	e.doors = next.doors
	e.validator = NewValidator(e.blocks, e.catalog, e.occ, &e.parcel)
	e.glass = &GlassCuller{occ: e.occ, lookup: e.Placement, masks: next.glass.masks}

	e.log.Info("планировка загружена: %d размещений", e.placements.live)
	e.sink.Emit(LayoutImportedEvent{Parcel: e.parcel, Live: e.placements.live, Doors: e.doors.Len()})
	return nil
}

func (e *Engine) restore(entry LayoutEntry) error {
	rot := NewRotation(int(entry.Rotation))

	switch entry.Kind {
	case KindBlock:
		def, ok := e.blocks.Get(entry.TypeID)
		if !ok {
			return ErrUnknownType
		}
		if err := e.checkFree([]vec.Vec3{entry.Origin}, blockLayer(def)); err != nil {
			return err
		}
		e.commitBlock(def, entry.Origin, rot, commitOpts{autoFloor: entry.AutoFloor})
	case KindFurniture:
		def, ok := e.catalog.Furniture(entry.TypeID)
		if !ok {
			return ErrUnknownType
		}
		if err := e.checkFree(furnitureCells(def, entry.Origin, rot), LayerSolid); err != nil {
			return err
		}
		e.commitFurniture(def, entry.Origin, rot, commitOpts{})
	default:
		return ErrUnknownType
	}
	return nil
}

// checkFree проверяет границы и занятость без правил опоры
func (e *Engine) checkFree(cells []vec.Vec3, layer Layer) error {
	for _, c := range cells {
		if !e.parcel.ContainsXZ(c.X, c.Z) {
			return ErrOutOfParcelBounds
		}
		if !e.parcel.ContainsY(c.Y) {
			return ErrOutOfHeightBounds
		}
		if _, taken := e.occ.Get(layer, c); taken {
			return ErrCellOccupied
		}
	}
	return nil
}

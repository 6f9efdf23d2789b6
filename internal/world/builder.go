package world

import "github.com/annel0/shopcraft/internal/vec"

// GhostInput — то, что сообщает слой ввода за кадр.
// Hit заполнен, если луч попал в геометрию; Ray — всегда, когда есть камера.
type GhostInput struct {
	Hit *SurfaceHit
	Ray *Ray
}

// Ghost — предпросмотр размещения
type Ghost struct {
	Cell     vec.Vec3
	Rotation Rotation
	Valid    bool
	Visible  bool
	Kind     ItemKind
	TypeID   string
}

// Builder — поверхность для слоя ввода: выбор предмета, поворот,
// призрак размещения и подтверждение установки/удаления.
type Builder struct {
	engine    *Engine
	buildMode bool
	selected  string
	kind      ItemKind
	rotation  Rotation
	ghost     Ghost
}

// NewBuilder создает builder поверх движка
func NewBuilder(engine *Engine) *Builder {
	return &Builder{engine: engine}
}

// SetBuildMode включает или выключает режим строительства
func (b *Builder) SetBuildMode(on bool) {
	b.buildMode = on
	if !on {
		b.ghost = Ghost{}
	}
}

// BuildMode возвращает текущий режим
func (b *Builder) BuildMode() bool { return b.buildMode }

// Select выбирает предмет по ID: сначала среди блоков, затем в каталоге
func (b *Builder) Select(itemID string) bool {
	if b.engine.blocks.IsValidID(itemID) {
		b.selected, b.kind = itemID, KindBlock
		return true
	}
	if _, ok := b.engine.catalog.Furniture(itemID); ok {
		b.selected, b.kind = itemID, KindFurniture
		return true
	}
	return false
}

// Selected возвращает выбранный предмет
func (b *Builder) Selected() (string, ItemKind) { return b.selected, b.kind }

// Rotation возвращает текущий поворот
func (b *Builder) Rotation() Rotation { return b.rotation }

// RotateCW поворачивает призрак по часовой стрелке
func (b *Builder) RotateCW() { b.rotation = b.rotation.CW() }

// RotateCCW поворачивает призрак против часовой стрелки
func (b *Builder) RotateCCW() { b.rotation = b.rotation.CCW() }

// Ghost возвращает последний вычисленный призрак
func (b *Builder) Ghost() Ghost { return b.ghost }

// UpdateGhost пересчитывает призрак по данным луча
func (b *Builder) UpdateGhost(in GhostInput) Ghost {
	b.ghost = Ghost{}
	if !b.buildMode || b.selected == "" {
		return b.ghost
	}

	cell, ok := b.resolve(in)
	if !ok {
		return b.ghost
	}

	b.ghost = Ghost{
		Cell:     cell,
		Rotation: b.rotation,
		Visible:  true,
		Kind:     b.kind,
		TypeID:   b.selected,
		Valid:    b.validate(cell),
	}
	return b.ghost
}

// resolve выбирает режим по типу предмета: мебель всегда по плоскости
// земли с прижатием всего footprint, блоки по попаданию в поверхность.
func (b *Builder) resolve(in GhostInput) (vec.Vec3, bool) {
	parcel := b.engine.parcel
	if b.kind == KindFurniture {
		ray := in.Ray
		if ray == nil && in.Hit != nil {
			// Без камеры опускаем вертикальный луч через точку попадания
			p := in.Hit.Point
			ray = &Ray{Origin: vec.Vec3Float{X: p.X, Y: p.Y + 1, Z: p.Z}, Dir: vec.Vec3Float{Y: -1}}
		}
		if ray == nil {
			return vec.Vec3{}, false
		}
		return ResolveGround(*ray, b.footprint(), parcel)
	}

	switch {
	case in.Hit != nil:
		return ResolveSurface(*in.Hit, parcel), true
	case in.Ray != nil:
		return ResolveGround(*in.Ray, vec.Vec2{X: 1, Z: 1}, parcel)
	}
	return vec.Vec3{}, false
}

func (b *Builder) footprint() vec.Vec2 {
	if b.kind == KindFurniture {
		if def, ok := b.engine.catalog.Furniture(b.selected); ok {
			return def.FootprintFor(int(b.rotation))
		}
	}
	return vec.Vec2{X: 1, Z: 1}
}

func (b *Builder) validate(cell vec.Vec3) bool {
	if b.kind == KindFurniture {
		return b.engine.validator.CanPlaceFurniture(b.selected, cell, b.rotation)
	}
	return b.engine.validator.CanPlaceBlock(b.selected, cell)
}

// TryCommitPlace устанавливает предмет в ячейку призрака
func (b *Builder) TryCommitPlace() bool {
	if !b.buildMode || !b.ghost.Valid {
		return false
	}
	g := b.ghost
	var ok bool
	if g.Kind == KindFurniture {
		ok = b.engine.PlaceFurniture(g.TypeID, g.Cell, g.Rotation)
	} else {
		ok = b.engine.PlaceBlock(g.TypeID, g.Cell, g.Rotation)
	}
	if ok {
		// Ячейка занята — до следующего кадра призрак недействителен
		b.ghost.Valid = false
	}
	return ok
}

// TryCommitBreak удаляет размещение, в которое смотрит игрок
func (b *Builder) TryCommitBreak(id PlacementID) bool {
	if !b.buildMode {
		return false
	}
	return b.engine.Break(id)
}

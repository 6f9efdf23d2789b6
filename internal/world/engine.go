package world

import (
	"math"

	"github.com/annel0/shopcraft/internal/catalog"
	"github.com/annel0/shopcraft/internal/logging"
	"github.com/annel0/shopcraft/internal/physics"
	"github.com/annel0/shopcraft/internal/vec"
	"github.com/annel0/shopcraft/internal/world/block"
)

// Options — зависимости и настройки движка
type Options struct {
	Parcel    Parcel           // Нулевое значение — DefaultParcel()
	Blocks    *block.Registry  // nil — block.NewDefaultRegistry()
	Catalog   FurnitureCatalog // nil — пустой каталог
	Inventory Inventory        // nil — бесконечный инвентарь
	Sink      EventSink        // nil — события отбрасываются
	Doors     DoorConfig       // Нулевое значение — DefaultDoorConfig()
	Logger    *logging.Logger  // nil — logging.GetWorldLogger()
}

// Engine — движок размещения: проверяет, меняет занятость,
// списывает и возвращает инвентарь, обновляет коллайдеры, двери и стекло.
// Однопоточный: все вызовы должны идти из одного кадрового цикла.
type Engine struct {
	parcel  Parcel
	blocks  *block.Registry
	catalog FurnitureCatalog
	inv     Inventory
	sink    EventSink
	doorCfg DoorConfig
	log     *logging.Logger

	occ        *Occupancy
	placements arena
	counts     map[string]int // Размещено по типу, без авто-пола

	validator *Validator
	colliders *Colliders
	doors     *Doors
	glass     *GlassCuller
}

// NewEngine создает пустой мир
func NewEngine(opts Options) *Engine {
	if opts.Parcel == (Parcel{}) {
		opts.Parcel = DefaultParcel()
	}
	if opts.Blocks == nil {
		opts.Blocks = block.NewDefaultRegistry()
	}
	if opts.Catalog == nil {
		opts.Catalog = emptyCatalog{}
	}
	if opts.Inventory == nil {
		opts.Inventory = unlimitedInventory{}
	}
	if opts.Sink == nil {
		opts.Sink = nopSink{}
	}
	if opts.Doors == (DoorConfig{}) {
		opts.Doors = DefaultDoorConfig()
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetWorldLogger()
	}

	e := &Engine{
		parcel:  opts.Parcel,
		blocks:  opts.Blocks,
		catalog: opts.Catalog,
		inv:     opts.Inventory,
		sink:    opts.Sink,
		doorCfg: opts.Doors,
		log:     opts.Logger,
	}
	e.resetState()
	return e
}

func (e *Engine) resetState() {
	e.occ = NewOccupancy()
	e.placements = arena{}
	e.counts = make(map[string]int)
	e.validator = NewValidator(e.blocks, e.catalog, e.occ, &e.parcel)
	e.colliders = NewColliders(e.occ)
	e.doors = NewDoors()
	e.glass = NewGlassCuller(e.occ, e.Placement)
}

// Parcel возвращает текущие границы участка
func (e *Engine) Parcel() Parcel { return e.parcel }

// Occupancy возвращает хранилище занятости (только для чтения)
func (e *Engine) Occupancy() *Occupancy { return e.occ }

// Validator возвращает валидатор движка
func (e *Engine) Validator() *Validator { return e.validator }

// Blocks возвращает реестр блоков
func (e *Engine) Blocks() *block.Registry { return e.blocks }

// Catalog возвращает каталог мебели
func (e *Engine) Catalog() FurnitureCatalog { return e.catalog }

// Placement возвращает размещение по ID
func (e *Engine) Placement(id PlacementID) (*Placement, bool) {
	return e.placements.get(id)
}

// Len возвращает число живых размещений, включая авто-пол
func (e *Engine) Len() int { return e.placements.live }

// PlacedCount возвращает число размещённых объектов типа typeID без авто-пола
func (e *Engine) PlacedCount(typeID string) int { return e.counts[typeID] }

// Each обходит размещения по возрастанию ID
func (e *Engine) Each(fn func(p *Placement)) { e.placements.each(fn) }

// commitOpts управляет побочными эффектами фиксации размещения
type commitOpts struct {
	charge      bool // Списать единицу инвентаря
	autoFloor   bool // Само размещение — авто-пол
	ensureFloor bool // Подложить авто-пол, если его нет
}

// PlaceBlock размещает блок; false при любом отказе
func (e *Engine) PlaceBlock(typeID string, cell vec.Vec3, rot Rotation) bool {
	_, err := e.TryPlaceBlock(typeID, cell, rot)
	return err == nil
}

// TryPlaceBlock размещает блок и возвращает причину отказа.
// При отказе состояние мира и инвентарь не меняются.
func (e *Engine) TryPlaceBlock(typeID string, cell vec.Vec3, rot Rotation) (PlacementID, error) {
	def, ok := e.blocks.Get(typeID)
	if !ok {
		return NoPlacement, e.reject("place", KindBlock, typeID, cell, ErrUnknownType)
	}
	if err := e.validator.validateBlockDef(def, cell); err != nil {
		return NoPlacement, e.reject("place", KindBlock, typeID, cell, err)
	}
	if e.inv.Count(typeID) < 1 {
		return NoPlacement, e.reject("place", KindBlock, typeID, cell, ErrInsufficientInventory)
	}

	p := e.commitBlock(def, cell, rot, commitOpts{charge: true, ensureFloor: def.AutoFloor})
	return p.ID, nil
}

// PlaceFurniture размещает мебель; false при любом отказе
func (e *Engine) PlaceFurniture(id string, cell vec.Vec3, rot Rotation) bool {
	_, err := e.TryPlaceFurniture(id, cell, rot)
	return err == nil
}

// TryPlaceFurniture размещает мебель и возвращает причину отказа
func (e *Engine) TryPlaceFurniture(id string, cell vec.Vec3, rot Rotation) (PlacementID, error) {
	def, ok := e.catalog.Furniture(id)
	if !ok {
		return NoPlacement, e.reject("place", KindFurniture, id, cell, ErrUnknownType)
	}
	if err := e.validator.validateFurnitureDef(def, cell, rot); err != nil {
		return NoPlacement, e.reject("place", KindFurniture, id, cell, err)
	}
	if e.inv.Count(id) < 1 {
		return NoPlacement, e.reject("place", KindFurniture, id, cell, ErrInsufficientInventory)
	}

	p := e.commitFurniture(def, cell, rot, commitOpts{charge: true, ensureFloor: true})
	return p.ID, nil
}

func (e *Engine) commitBlock(def *block.Def, cell vec.Vec3, rot Rotation, o commitOpts) *Placement {
	if o.ensureFloor {
		e.ensureAutoFloor(cell)
	}

	layer := blockLayer(def)
	p := &Placement{
		Item:      BlockItem{Def: def},
		Origin:    cell,
		Cells:     []vec.Vec3{cell},
		Rotation:  rot,
		Layer:     layer,
		AutoFloor: o.autoFloor,
	}
	e.placements.alloc(p)
	e.occ.Mark(Occupant{
		Ref:        p.ID,
		Kind:       KindBlock,
		TypeID:     def.ID,
		Collidable: layer == LayerSolid,
	}, p.Cells, layer)

	e.account(p, o.charge)

	if def.IsDoor() {
		e.doors.Add(p.ID, e.doorCfg.Block, doorCenter(p))
	}
	if def.IsTransparent() {
		e.glass.Update(cell)
	}
	e.colliders.Refresh(p)
	e.emitPlaced(p)
	return p
}

func (e *Engine) commitFurniture(def *catalog.Furniture, cell vec.Vec3, rot Rotation, o commitOpts) *Placement {
	if o.ensureFloor {
		fp := def.FootprintFor(int(rot))
		for dx := 0; dx < fp.X; dx++ {
			for dz := 0; dz < fp.Z; dz++ {
				e.ensureAutoFloor(vec.Vec3{X: cell.X + dx, Y: cell.Y, Z: cell.Z + dz})
			}
		}
	}

	p := &Placement{
		Item:     FurnitureItem{Def: def},
		Origin:   cell,
		Cells:    furnitureCells(def, cell, rot),
		Rotation: rot,
		Layer:    LayerSolid,
	}
	e.placements.alloc(p)
	e.occ.Mark(Occupant{
		Ref:        p.ID,
		Kind:       KindFurniture,
		TypeID:     def.ID,
		Collidable: true,
	}, p.Cells, LayerSolid)

	e.account(p, o.charge)

	if def.IsDoor() {
		e.doors.Add(p.ID, e.doorCfg.FurnitureParams(def.Door), doorCenter(p))
	}
	e.colliders.Refresh(p)
	e.emitPlaced(p)
	return p
}

// ensureAutoFloor подкладывает бесплатную плиту пола, если ячейка пола свободна
func (e *Engine) ensureAutoFloor(cell vec.Vec3) {
	if _, taken := e.occ.Floor(cell); taken {
		return
	}
	def, ok := e.blocks.Get(block.FloorID)
	if !ok {
		return
	}
	e.commitBlock(def, cell, 0, commitOpts{autoFloor: true})
}

func (e *Engine) account(p *Placement, charge bool) {
	if p.AutoFloor {
		return
	}
	e.counts[p.Item.TypeID()]++
	if charge {
		e.inv.Add(p.Item.TypeID(), -1)
	}
}

// Break удаляет размещение; false, если ID неизвестен
func (e *Engine) Break(id PlacementID) bool {
	return e.TryBreak(id) == nil
}

// TryBreak удаляет размещение и возвращает единицу в инвентарь (кроме авто-пола)
func (e *Engine) TryBreak(id PlacementID) error {
	p, ok := e.placements.get(id)
	if !ok {
		return e.reject("break", KindBlock, "", vec.Vec3{}, ErrUnknownReference)
	}

	e.occ.Unmark(p.Cells, p.Layer)
	e.colliders.Drop(id)
	e.doors.Remove(id)
	e.glass.Drop(id)
	e.placements.free(id)

	typeID := p.Item.TypeID()
	refunded := false
	if !p.AutoFloor {
		e.counts[typeID]--
		if e.counts[typeID] == 0 {
			delete(e.counts, typeID)
		}
		e.inv.Add(typeID, 1)
		refunded = true
	}

	if p.IsTransparent() {
		e.glass.Update(p.Origin)
	}

	e.log.Trace("удалено %s #%d в %v", typeID, id, p.Origin)
	e.sink.Emit(BrokenEvent{
		ID:        id,
		Kind:      p.Item.Kind(),
		TypeID:    typeID,
		Origin:    p.Origin,
		AutoFloor: p.AutoFloor,
		Refunded:  refunded,
	})
	return nil
}

// BreakAt удаляет объект в ячейке: сначала твёрдый, иначе пол
func (e *Engine) BreakAt(cell vec.Vec3) bool {
	return e.TryBreakAt(cell) == nil
}

// TryBreakAt — вариант BreakAt с причиной отказа
func (e *Engine) TryBreakAt(cell vec.Vec3) error {
	if occ, ok := e.occ.Solid(cell); ok {
		return e.TryBreak(occ.Ref)
	}
	if occ, ok := e.occ.Floor(cell); ok {
		return e.TryBreak(occ.Ref)
	}
	return e.reject("break", KindBlock, "", cell, ErrUnknownReference)
}

// Tick продвигает автоматику дверей. Смена проходимости сразу
// меняет флаги коллизии и коллайдеры двери.
func (e *Engine) Tick(agents []vec.Vec3Float, dt float64) {
	for _, ch := range e.doors.Tick(agents, dt) {
		st, _ := e.doors.Get(ch.ID)
		p, ok := e.placements.get(ch.ID)
		if !ok {
			continue
		}
		if ch.PassChanged {
			e.occ.SetCollidable(p.Cells, p.Layer, !st.Passable)
			e.colliders.Refresh(p)
		}
		e.sink.Emit(DoorPhaseEvent{ID: ch.ID, Phase: st.Phase, Open: st.Open, Passable: st.Passable})
	}
}

// ListColliders возвращает все коллайдеры для физики, упорядоченные по ссылке
func (e *Engine) ListColliders() []physics.Collider { return e.colliders.ListAll() }

// Colliders возвращает закешированные коробки размещения
func (e *Engine) Colliders(id PlacementID) []physics.AABB { return e.colliders.Boxes(id) }

// RefreshColliders пересчитывает коробки размещения
func (e *Engine) RefreshColliders(id PlacementID) []physics.AABB {
	p, ok := e.placements.get(id)
	if !ok {
		return nil
	}
	return e.colliders.Refresh(p)
}

// QueryColumnSlice возвращает твёрдую часть ячейки
func (e *Engine) QueryColumnSlice(cell vec.Vec3) (Slice, bool) {
	return e.colliders.QueryColumnSlice(cell)
}

// IsSolid проверяет, занята ли ячейка в твёрдом слое
func (e *Engine) IsSolid(cell vec.Vec3) bool {
	_, ok := e.occ.Solid(cell)
	return ok
}

// IsCollidable проверяет, блокирует ли твёрдый occupant движение
func (e *Engine) IsCollidable(cell vec.Vec3) bool {
	occ, ok := e.occ.Solid(cell)
	return ok && occ.Collidable
}

// DoorPassState возвращает степень открытия и порог двери
func (e *Engine) DoorPassState(id PlacementID) (DoorPass, bool) {
	st, ok := e.doors.Get(id)
	if !ok {
		return DoorPass{}, false
	}
	return DoorPass{Open: st.Open, PassThreshold: st.Params.PassThreshold}, true
}

// DoorState возвращает полное состояние двери
func (e *Engine) DoorState(id PlacementID) (DoorState, bool) {
	st, ok := e.doors.Get(id)
	if !ok {
		return DoorState{}, false
	}
	return *st, true
}

// VisibleFaces возвращает маску видимых граней прозрачного блока
func (e *Engine) VisibleFaces(id PlacementID) FaceMask {
	return e.glass.VisibleFaces(id)
}

// ExpandParcel расширяет участок на dx/dz клеток с каждой стороны
func (e *Engine) ExpandParcel(dx, dz int) Parcel {
	e.parcel = e.parcel.Expand(dx, dz)
	e.log.Info("участок расширен до X[%d..%d] Z[%d..%d]",
		e.parcel.MinX, e.parcel.MaxX, e.parcel.MinZ, e.parcel.MaxZ)
	e.sink.Emit(ParcelExpandedEvent{Parcel: e.parcel})
	return e.parcel
}

// StarterPlatform строит стартовую площадку в углу участка:
// пол 6x6, стену и стекло на нём. Инвентарь не расходуется,
// занятые ячейки пропускаются. Возвращает число новых размещений.
func (e *Engine) StarterPlatform() int {
	placed := 0
	put := func(typeID string, cell vec.Vec3) {
		def, ok := e.blocks.Get(typeID)
		if !ok || e.validator.validateBlockDef(def, cell) != nil {
			return
		}
		e.commitBlock(def, cell, 0, commitOpts{ensureFloor: def.AutoFloor})
		placed++
	}

	minX, minZ := e.parcel.MinX, e.parcel.MinZ
	for x := minX; x < minX+6; x++ {
		for z := minZ; z < minZ+6; z++ {
			put(block.FloorID, vec.Vec3{X: x, Y: 0, Z: z})
		}
	}
	put(block.WallID, vec.Vec3{X: minX + 2, Y: 1, Z: minZ + 2})
	put(block.GlassID, vec.Vec3{X: minX + 3, Y: 1, Z: minZ + 2})

	e.log.Debug("стартовая площадка: %d размещений", placed)
	return placed
}

func (e *Engine) emitPlaced(p *Placement) {
	e.log.Trace("размещено %s #%d в %v (поворот %d)", p.Item.TypeID(), p.ID, p.Origin, p.Rotation)
	e.sink.Emit(PlacedEvent{
		ID:        p.ID,
		Kind:      p.Item.Kind(),
		TypeID:    p.Item.TypeID(),
		Origin:    p.Origin,
		Rotation:  p.Rotation,
		Cells:     len(p.Cells),
		AutoFloor: p.AutoFloor,
	})
}

func (e *Engine) reject(op string, kind ItemKind, typeID string, cell vec.Vec3, err error) error {
	e.log.Debug("отказ %s %s в %v: %v", op, typeID, cell, err)
	e.sink.Emit(RejectedEvent{
		Op:     op,
		Kind:   kind,
		TypeID: typeID,
		Cell:   cell,
		Reason: Reason(err),
		Err:    err,
	})
	return err
}

type emptyCatalog struct{}

func (emptyCatalog) Furniture(string) (*catalog.Furniture, bool) { return nil, false }

// unlimitedInventory используется, когда учёт предметов не нужен
type unlimitedInventory struct{}

func (unlimitedInventory) Count(string) int { return math.MaxInt32 }
func (unlimitedInventory) Add(string, int)  {}

package block

import "github.com/annel0/shopcraft/internal/vec"

// ID базовых блоков
const (
	FloorID  = "floor"
	WallID   = "wall"
	SlabID   = "slab"
	GlassID  = "glass"
	WindowID = "window"
	DoorID   = "door"
)

// FamilyGlass — общее семейство стекла и окон: соседние грани между ними не рисуются
const FamilyGlass = "glass"

// NewDefaultRegistry создаёт реестр со всеми базовыми блоками
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(Def{ID: FloorID, Name: "Floor", Size: vec.Vec3Float{X: 1, Y: 0.10, Z: 1}, YOffset: 0.05, Kind: KindFloor})
	r.Register(Def{ID: WallID, Name: "Wall", Size: vec.Vec3Float{X: 1, Y: 1, Z: 1}, YOffset: 0.5, Kind: KindSolid})
	r.Register(Def{ID: SlabID, Name: "Slab", Size: vec.Vec3Float{X: 1, Y: 0.5, Z: 1}, YOffset: 0.25, Kind: KindSolid})
	r.Register(Def{ID: GlassID, Name: "Glass", Size: vec.Vec3Float{X: 1, Y: 1, Z: 1}, YOffset: 0.5, Kind: KindGlass, Family: FamilyGlass})
	r.Register(Def{ID: WindowID, Name: "Window", Size: vec.Vec3Float{X: 1, Y: 1, Z: 0.2}, YOffset: 0.5, Kind: KindGlass, Family: FamilyGlass, AutoFloor: true})
	r.Register(Def{ID: DoorID, Name: "Door", Size: vec.Vec3Float{X: 1, Y: 2, Z: 0.2}, YOffset: 1.0, Kind: KindDoor, AutoFloor: true})

	return r
}

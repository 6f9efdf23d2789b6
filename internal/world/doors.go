package world

import (
	"math"
	"sort"

	"github.com/annel0/shopcraft/internal/catalog"
	"github.com/annel0/shopcraft/internal/vec"
)

// DoorPhase — целевое состояние двери
type DoorPhase uint8

const (
	DoorClosed DoorPhase = iota
	DoorOpen
)

// String возвращает имя фазы
func (p DoorPhase) String() string {
	if p == DoorOpen {
		return "open"
	}
	return "closed"
}

// DoorParams — параметры автоматики одной двери
type DoorParams struct {
	OpenRadius    float64 `yaml:"open_radius"`    // Открыться, если агент ближе
	CloseRadius   float64 `yaml:"close_radius"`   // Закрыться, только если все дальше
	Speed         float64 `yaml:"speed"`          // Скорость сглаживания, 1/с
	PassThreshold float64 `yaml:"pass_threshold"` // Проходима при Open выше порога
}

// DoorConfig — настройки дверей движка.
// Мебельные двери и старая блочная дверь настраиваются независимо.
type DoorConfig struct {
	Furniture        catalog.DoorSpec // Значения для пустых полей каталога
	HysteresisMargin float64          // CloseRadius = Range + HysteresisMargin
	Block            DoorParams       // Блок "door"
}

// DefaultDoorConfig возвращает стандартные параметры дверей
func DefaultDoorConfig() DoorConfig {
	return DoorConfig{
		Furniture:        catalog.DoorSpec{Range: 1.45, Speed: 5.5, PassThreshold: 0.72},
		HysteresisMargin: 0.30,
		Block:            DoorParams{OpenRadius: 1.10, CloseRadius: 1.40, Speed: 8.0, PassThreshold: 0.78},
	}
}

// FurnitureParams собирает параметры мебельной двери из записи каталога
func (c DoorConfig) FurnitureParams(spec *catalog.DoorSpec) DoorParams {
	var s catalog.DoorSpec
	if spec != nil {
		s = *spec
	}
	s = s.Merge(c.Furniture)
	return DoorParams{
		OpenRadius:    s.Range,
		CloseRadius:   s.Range + c.HysteresisMargin,
		Speed:         s.Speed,
		PassThreshold: s.PassThreshold,
	}
}

// DoorState — состояние одной двери
type DoorState struct {
	ID       PlacementID
	Open     float64 // 0 — закрыта, 1 — полностью открыта
	Phase    DoorPhase
	Params   DoorParams
	Center   vec.Vec2Float // Центр на плоскости XZ
	Passable bool
}

// Step продвигает дверь на dt секунд по позициям агентов
func (d *DoorState) Step(agents []vec.Vec3Float, dt float64) (phaseChanged, passChanged bool) {
	nearest := math.Inf(1)
	for _, a := range agents {
		if dist := a.Planar().DistanceTo(d.Center); dist < nearest {
			nearest = dist
		}
	}

	prevPhase := d.Phase
	switch d.Phase {
	case DoorClosed:
		if nearest < d.Params.OpenRadius {
			d.Phase = DoorOpen
		}
	case DoorOpen:
		if nearest > d.Params.CloseRadius {
			d.Phase = DoorClosed
		}
	}

	target := 0.0
	if d.Phase == DoorOpen {
		target = 1.0
	}
	if dt > 0 {
		d.Open += (target - d.Open) * (1 - math.Exp(-d.Params.Speed*dt))
	}

	prevPass := d.Passable
	d.Passable = d.Open > d.Params.PassThreshold

	return d.Phase != prevPhase, d.Passable != prevPass
}

// DoorPass — то, что нужно физике: степень открытия и порог
type DoorPass struct {
	Open          float64
	PassThreshold float64
}

// DoorChange — изменение двери за тик
type DoorChange struct {
	ID           PlacementID
	PhaseChanged bool
	PassChanged  bool
}

// Doors хранит состояния всех дверей
type Doors struct {
	states map[PlacementID]*DoorState
}

// NewDoors создает пустой набор дверей
func NewDoors() *Doors {
	return &Doors{states: make(map[PlacementID]*DoorState)}
}

// Add регистрирует дверь
func (d *Doors) Add(id PlacementID, params DoorParams, center vec.Vec2Float) *DoorState {
	st := &DoorState{ID: id, Phase: DoorClosed, Params: params, Center: center}
	d.states[id] = st
	return st
}

// Remove удаляет дверь
func (d *Doors) Remove(id PlacementID) {
	delete(d.states, id)
}

// Get возвращает состояние двери
func (d *Doors) Get(id PlacementID) (*DoorState, bool) {
	st, ok := d.states[id]
	return st, ok
}

// Len возвращает число дверей
func (d *Doors) Len() int { return len(d.states) }

// Tick продвигает все двери в порядке возрастания ID
func (d *Doors) Tick(agents []vec.Vec3Float, dt float64) []DoorChange {
	ids := make([]PlacementID, 0, len(d.states))
	for id := range d.states {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var changes []DoorChange
	for _, id := range ids {
		phase, pass := d.states[id].Step(agents, dt)
		if phase || pass {
			changes = append(changes, DoorChange{ID: id, PhaseChanged: phase, PassChanged: pass})
		}
	}
	return changes
}

// doorCenter возвращает центр двери на плоскости XZ
func doorCenter(p *Placement) vec.Vec2Float {
	if it, ok := p.Item.(FurnitureItem); ok {
		fp := it.Def.FootprintFor(int(p.Rotation))
		return vec.Vec2Float{
			X: float64(p.Origin.X) + float64(fp.X)/2,
			Z: float64(p.Origin.Z) + float64(fp.Z)/2,
		}
	}
	return vec.Vec2Float{X: float64(p.Origin.X) + 0.5, Z: float64(p.Origin.Z) + 0.5}
}

package world

import "github.com/annel0/shopcraft/internal/vec"

// EventType определяет тип события
type EventType uint8

const (
	EventTypePlaced         EventType = iota // Размещение
	EventTypeBroken                          // Удаление
	EventTypeRejected                        // Отказ в размещении/удалении
	EventTypeDoorPhase                       // Смена фазы или проходимости двери
	EventTypeParcelExpanded                  // Расширение участка
	EventTypeLayoutImported                  // Мир заменён снимком
)

// String возвращает имя типа события
func (t EventType) String() string {
	switch t {
	case EventTypePlaced:
		return "placed"
	case EventTypeBroken:
		return "broken"
	case EventTypeRejected:
		return "rejected"
	case EventTypeDoorPhase:
		return "door_phase"
	case EventTypeParcelExpanded:
		return "parcel_expanded"
	case EventTypeLayoutImported:
		return "layout_imported"
	default:
		return "unknown"
	}
}

// Event представляет собой интерфейс для всех событий
type Event interface {
	GetType() EventType
}

// EventSink получает события движка. Вызывается синхронно из кадра.
type EventSink interface {
	Emit(Event)
}

// PlacedEvent — объект размещён
type PlacedEvent struct {
	ID        PlacementID `json:"id"`
	Kind      ItemKind    `json:"kind"`
	TypeID    string      `json:"type_id"`
	Origin    vec.Vec3    `json:"origin"`
	Rotation  Rotation    `json:"rotation"`
	Cells     int         `json:"cells"`
	AutoFloor bool        `json:"auto_floor"`
}

// GetType возвращает тип события
func (PlacedEvent) GetType() EventType { return EventTypePlaced }

// BrokenEvent — объект удалён
type BrokenEvent struct {
	ID        PlacementID `json:"id"`
	Kind      ItemKind    `json:"kind"`
	TypeID    string      `json:"type_id"`
	Origin    vec.Vec3    `json:"origin"`
	AutoFloor bool        `json:"auto_floor"`
	Refunded  bool        `json:"refunded"`
}

// GetType возвращает тип события
func (BrokenEvent) GetType() EventType { return EventTypeBroken }

// RejectedEvent — операция отклонена без изменений состояния
type RejectedEvent struct {
	Op     string   `json:"op"` // "place" или "break"
	Kind   ItemKind `json:"kind"`
	TypeID string   `json:"type_id"`
	Cell   vec.Vec3 `json:"cell"`
	Reason string   `json:"reason"`
	Err    error    `json:"-"`
}

// GetType возвращает тип события
func (RejectedEvent) GetType() EventType { return EventTypeRejected }

// DoorPhaseEvent — дверь сменила фазу или проходимость
type DoorPhaseEvent struct {
	ID       PlacementID `json:"id"`
	Phase    DoorPhase   `json:"phase"`
	Open     float64     `json:"open"`
	Passable bool        `json:"passable"`
}

// GetType возвращает тип события
func (DoorPhaseEvent) GetType() EventType { return EventTypeDoorPhase }

// ParcelExpandedEvent — участок расширен
type ParcelExpandedEvent struct {
	Parcel Parcel `json:"parcel"`
}

// GetType возвращает тип события
func (ParcelExpandedEvent) GetType() EventType { return EventTypeParcelExpanded }

// LayoutImportedEvent — мир целиком заменён снимком планировки.
// Прежние размещения и двери перестали существовать без BrokenEvent.
type LayoutImportedEvent struct {
	Parcel Parcel `json:"parcel"`
	Live   int    `json:"live"`  // Размещений после импорта, включая авто-пол
	Doors  int    `json:"doors"` // Дверей после импорта, все закрыты
}

// GetType возвращает тип события
func (LayoutImportedEvent) GetType() EventType { return EventTypeLayoutImported }

// MultiSink рассылает события нескольким получателям по порядку
type MultiSink []EventSink

// Emit реализует EventSink
func (m MultiSink) Emit(e Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(e)
		}
	}
}

// SinkFunc позволяет использовать функцию как EventSink
type SinkFunc func(Event)

// Emit реализует EventSink
func (f SinkFunc) Emit(e Event) { f(e) }

type nopSink struct{}

func (nopSink) Emit(Event) {}

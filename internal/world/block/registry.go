package block

import (
	"sort"

	"github.com/annel0/shopcraft/internal/vec"
)

// Kind определяет семейство поведения блока
type Kind uint8

const (
	KindSolid Kind = iota // Обычный непрозрачный блок
	KindFloor             // Напольное покрытие: отдельный слой, без коллизий
	KindGlass             // Прозрачный блок, участвует в отсечении граней
	KindDoor              // Раздвижная дверь-блок
)

// String возвращает строковое представление вида блока
func (k Kind) String() string {
	switch k {
	case KindSolid:
		return "solid"
	case KindFloor:
		return "floor"
	case KindGlass:
		return "glass"
	case KindDoor:
		return "door"
	default:
		return "unknown"
	}
}

// Def описывает тип блока. Размеры в метрах, ячейка сетки = 1 м.
type Def struct {
	ID      string
	Name    string
	Size    vec.Vec3Float // Габариты визуальной/коллизионной коробки
	YOffset float64       // Смещение центра коробки от низа ячейки
	Kind    Kind
	Family  string // Семейство прозрачности; пусто для непрозрачных
	// AutoFloor — при установке под блоком автоматически создаётся бесплатный пол
	AutoFloor bool
}

// IsFloor возвращает true для напольных блоков
func (d *Def) IsFloor() bool { return d.Kind == KindFloor }

// IsTransparent возвращает true для блоков с семейством прозрачности
func (d *Def) IsTransparent() bool { return d.Family != "" }

// IsDoor возвращает true для блока-двери
func (d *Def) IsDoor() bool { return d.Kind == KindDoor }

// Registry — реестр типов блоков. Создаётся явно и передаётся зависимостью.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry создаёт пустой реестр
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register добавляет тип блока в реестр (повторная регистрация заменяет запись)
func (r *Registry) Register(def Def) {
	d := def
	r.defs[def.ID] = &d
}

// Get возвращает описание для указанного ID
func (r *Registry) Get(id string) (*Def, bool) {
	def, exists := r.defs[id]
	return def, exists
}

// IsValidID проверяет, является ли ID допустимым идентификатором блока
func (r *Registry) IsValidID(id string) bool {
	_, exists := r.defs[id]
	return exists
}

// IDs возвращает отсортированный список зарегистрированных ID
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.defs))
	for id := range r.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

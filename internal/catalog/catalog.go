package catalog

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/annel0/shopcraft/internal/vec"
	"gopkg.in/yaml.v3"
)

//go:embed furniture.yaml
var defaultFurnitureYAML []byte

// DoorSpec — параметры автоматической двери из каталога.
// Нулевые поля заполняются значениями по умолчанию движка.
type DoorSpec struct {
	Range         float64 `yaml:"range"`          // Радиус открытия, м
	Speed         float64 `yaml:"speed"`          // Скорость сглаживания, 1/с
	PassThreshold float64 `yaml:"pass_threshold"` // Порог проходимости
}

// Merge дополняет нулевые поля значениями из defaults
func (d DoorSpec) Merge(defaults DoorSpec) DoorSpec {
	if d.Range <= 0 {
		d.Range = defaults.Range
	}
	if d.Speed <= 0 {
		d.Speed = defaults.Speed
	}
	if d.PassThreshold <= 0 {
		d.PassThreshold = defaults.PassThreshold
	}
	return d
}

// Part — одна жёсткая часть мебели (коллизионная коробка в локальных координатах)
type Part struct {
	Center vec.Vec3Float
	Size   vec.Vec3Float
}

// Furniture описывает предмет мебели
type Furniture struct {
	ID        string
	Name      string
	Icon      string
	Size      vec.Vec3Float // Габариты в метрах (ширина, высота, глубина)
	YOffset   float64
	Footprint vec.Vec2 // Занимаемые ячейки до поворота
	Parts     []Part
	Door      *DoorSpec // nil для обычной мебели
}

// IsDoor возвращает true для автоматических дверей
func (f *Furniture) IsDoor() bool { return f.Door != nil }

// HeightCells возвращает число занимаемых слоёв по высоте (не меньше одного)
func (f *Furniture) HeightCells() int {
	h := int(math.Ceil(f.Size.Y))
	if h < 1 {
		return 1
	}
	return h
}

// FootprintFor возвращает footprint с учётом поворота:
// на нечётных четвертях ширина и глубина меняются местами.
func (f *Furniture) FootprintFor(quarter int) vec.Vec2 {
	if quarter%2 != 0 {
		return f.Footprint.Swap()
	}
	return f.Footprint
}

// Catalog — неизменяемый справочник мебели
type Catalog struct {
	byID  map[string]*Furniture
	order []string
}

type fileYAML struct {
	Furniture []furnitureYAML `yaml:"furniture"`
}

type furnitureYAML struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	Icon      string     `yaml:"icon"`
	Size      []float64  `yaml:"size"`
	YOffset   float64    `yaml:"y_offset"`
	Footprint []int      `yaml:"footprint"`
	Parts     []partYAML `yaml:"parts"`
	Door      *DoorSpec  `yaml:"door"`
}

type partYAML struct {
	Center []float64 `yaml:"center"`
	Size   []float64 `yaml:"size"`
}

// Default возвращает встроенный каталог
func Default() (*Catalog, error) {
	return Parse(defaultFurnitureYAML)
}

// Load читает каталог из YAML файла.
// Если path == "", возвращает встроенный каталог.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения каталога %s: %w", path, err)
	}
	return Parse(data)
}

// Parse разбирает YAML каталога и проверяет записи
func Parse(data []byte) (*Catalog, error) {
	var raw fileYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ошибка разбора каталога: %w", err)
	}

	c := &Catalog{byID: make(map[string]*Furniture, len(raw.Furniture))}
	for i, fy := range raw.Furniture {
		f, err := fy.toFurniture()
		if err != nil {
			return nil, fmt.Errorf("мебель #%d (%q): %w", i, fy.ID, err)
		}
		if _, dup := c.byID[f.ID]; dup {
			return nil, fmt.Errorf("дублирующийся id мебели %q", f.ID)
		}
		c.byID[f.ID] = f
		c.order = append(c.order, f.ID)
	}
	return c, nil
}

// Furniture возвращает описание мебели по ID
func (c *Catalog) Furniture(id string) (*Furniture, bool) {
	f, ok := c.byID[id]
	return f, ok
}

// IDs возвращает ID в порядке объявления в файле
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// SortedIDs возвращает ID в алфавитном порядке
func (c *Catalog) SortedIDs() []string {
	out := c.IDs()
	sort.Strings(out)
	return out
}

func (fy furnitureYAML) toFurniture() (*Furniture, error) {
	if fy.ID == "" {
		return nil, fmt.Errorf("пустой id")
	}
	size, err := toVec3(fy.Size)
	if err != nil {
		return nil, fmt.Errorf("size: %w", err)
	}
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return nil, fmt.Errorf("size должен быть положительным")
	}
	if len(fy.Footprint) != 2 || fy.Footprint[0] < 1 || fy.Footprint[1] < 1 {
		return nil, fmt.Errorf("footprint должен содержать два положительных числа")
	}

	f := &Furniture{
		ID:        fy.ID,
		Name:      fy.Name,
		Icon:      fy.Icon,
		Size:      size,
		YOffset:   fy.YOffset,
		Footprint: vec.Vec2{X: fy.Footprint[0], Z: fy.Footprint[1]},
		Door:      fy.Door,
	}

	for j, py := range fy.Parts {
		center, err := toVec3(py.Center)
		if err != nil {
			return nil, fmt.Errorf("parts[%d].center: %w", j, err)
		}
		psize, err := toVec3(py.Size)
		if err != nil {
			return nil, fmt.Errorf("parts[%d].size: %w", j, err)
		}
		f.Parts = append(f.Parts, Part{Center: center, Size: psize})
	}

	if f.Door != nil && f.Door.PassThreshold >= 1 {
		return nil, fmt.Errorf("door.pass_threshold должен быть меньше 1")
	}
	return f, nil
}

func toVec3(v []float64) (vec.Vec3Float, error) {
	if len(v) != 3 {
		return vec.Vec3Float{}, fmt.Errorf("ожидалось 3 числа, получено %d", len(v))
	}
	return vec.Vec3Float{X: v[0], Y: v[1], Z: v[2]}, nil
}

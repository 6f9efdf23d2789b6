package app

import (
	"context"
	"fmt"

	"github.com/annel0/shopcraft/internal/catalog"
	"github.com/annel0/shopcraft/internal/config"
	"github.com/annel0/shopcraft/internal/inventory"
	"github.com/annel0/shopcraft/internal/logging"
	"github.com/annel0/shopcraft/internal/physics"
	"github.com/annel0/shopcraft/internal/storage"
	"github.com/annel0/shopcraft/internal/vec"
	"github.com/annel0/shopcraft/internal/world"
	"github.com/annel0/shopcraft/internal/world/block"
)

const gravity = 20.0

// Session связывает движок мира с инвентарём, хотбаром, строителем,
// телом игрока и хранилищем планировок. Как и движок, однопоточна.
type Session struct {
	Engine   *world.Engine
	Register *inventory.Register
	Hotbar   *inventory.Hotbar
	Builder  *world.Builder
	Player   *physics.Body

	store  storage.LayoutStore
	logger *logging.Logger
}

// NewSession собирает сессию по конфигурации. store может быть nil,
// тогда Save и Load недоступны.
func NewSession(cfg *config.Config, cat *catalog.Catalog, sink world.EventSink, store storage.LayoutStore, logger *logging.Logger) *Session {
	if logger == nil {
		logger = logging.GetWorldLogger()
	}

	blocks := block.NewDefaultRegistry()
	items := inventory.ItemsFrom(blocks, cat)
	reg := inventory.NewRegister(items, cfg.Inventory.Options())

	var furniture world.FurnitureCatalog
	if cat != nil {
		furniture = cat
	}

	engine := world.NewEngine(world.Options{
		Parcel:    cfg.Parcel,
		Blocks:    blocks,
		Catalog:   furniture,
		Inventory: reg,
		Sink:      sink,
		Doors:     cfg.Doors.World(),
		Logger:    logger,
	})

	p := engine.Parcel()
	spawn := vec.Vec3Float{
		X: float64(p.MinX+p.MaxX) / 2,
		Y: physics.DefaultHeight,
		Z: float64(p.MinZ+p.MaxZ) / 2,
	}

	return &Session{
		Engine:   engine,
		Register: reg,
		Hotbar:   inventory.NewHotbar(items, inventory.DefaultPageSize),
		Builder:  world.NewBuilder(engine),
		Player:   physics.NewBody(spawn),
		store:    store,
		logger:   logger,
	}
}

// SelectSlot выбирает слот текущей страницы хотбара и передаёт предмет строителю
func (s *Session) SelectSlot(slot int) bool {
	if !s.Hotbar.SetSelectedInPage(slot) {
		return false
	}
	return s.syncSelection()
}

// CycleHotbar листает хотбар и передаёт предмет строителю
func (s *Session) CycleHotbar(dir int) bool {
	s.Hotbar.Cycle(dir)
	return s.syncSelection()
}

func (s *Session) syncSelection() bool {
	item, ok := s.Hotbar.Selected()
	if !ok {
		return false
	}
	return s.Builder.Select(item.ID)
}

// BuyPlotUpgrade покупает следующее улучшение участка и расширяет его
func (s *Session) BuyPlotUpgrade() (world.Parcel, error) {
	up, err := s.Register.BuyNextPlotUpgrade()
	if err != nil {
		return s.Engine.Parcel(), err
	}
	p := s.Engine.ExpandParcel(up.ExpandX, up.ExpandZ)
	s.logger.Info("куплено улучшение %q за %d, осталось %d", up.ID, up.Cost, s.Register.Money())
	return p, nil
}

// Step проводит один кадр: двери по позиции игрока, гравитация,
// перемещение и выталкивание тела из коллайдеров
func (s *Session) Step(dt float64) {
	if dt <= 0 {
		return
	}
	s.Engine.Tick([]vec.Vec3Float{s.Player.Pos}, dt)

	b := s.Player
	b.Vel.Y -= gravity * dt
	b.Pos = b.Pos.Add(b.Vel.Mul(dt))
	b.Resolve(s.Engine.ListColliders())
}

// Walk задаёт горизонтальную скорость игрока
func (s *Session) Walk(vx, vz float64) {
	s.Player.Vel.X, s.Player.Vel.Z = vx, vz
}

// Save сохраняет планировку под именем name
func (s *Session) Save(ctx context.Context, name string) error {
	if s.store == nil {
		return fmt.Errorf("хранилище не настроено")
	}
	l := s.Engine.Export()
	if err := s.store.Save(ctx, name, l); err != nil {
		return fmt.Errorf("сохранение %q: %w", name, err)
	}
	s.logger.Info("💾 планировка %q сохранена: %d размещений", name, len(l.Entries))
	return nil
}

// Load заменяет мир сохранённой планировкой и сводит регистр: предметы
// прежнего мира возвращаются, предметы загруженного списываются, авто-пол
// не учитывается. Если предметов не хватает, мир и регистр остаются прежними,
// а ошибка оборачивает world.ErrInsufficientInventory.
func (s *Session) Load(ctx context.Context, name string) error {
	if s.store == nil {
		return fmt.Errorf("хранилище не настроено")
	}
	l, err := s.store.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("загрузка %q: %w", name, err)
	}

	prev := s.Engine.Export()
	if err := s.Engine.Import(l); err != nil {
		return fmt.Errorf("восстановление %q: %w", name, err)
	}

	need := itemCounts(l)
	for id, n := range itemCounts(prev) {
		need[id] -= n
	}
	for id, n := range need {
		if n > s.Register.Count(id) {
			if err := s.Engine.Import(prev); err != nil {
				s.logger.Error("откат к прежней планировке: %v", err)
			}
			return fmt.Errorf("восстановление %q: %s не хватает %d шт.: %w",
				name, id, n-s.Register.Count(id), world.ErrInsufficientInventory)
		}
	}
	for id, n := range need {
		if n != 0 {
			s.Register.Add(id, -n)
		}
	}

	s.logger.Info("📂 планировка %q загружена: %d размещений", name, s.Engine.Len())
	return nil
}

// itemCounts считает предметы планировки без авто-пола
func itemCounts(l world.Layout) map[string]int {
	out := make(map[string]int)
	for _, e := range l.Entries {
		if !e.AutoFloor {
			out[e.TypeID]++
		}
	}
	return out
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/shopcraft/internal/app"
	"github.com/annel0/shopcraft/internal/catalog"
	"github.com/annel0/shopcraft/internal/config"
	"github.com/annel0/shopcraft/internal/eventbus"
	"github.com/annel0/shopcraft/internal/logging"
	"github.com/annel0/shopcraft/internal/metrics"
	"github.com/annel0/shopcraft/internal/storage"
	"github.com/annel0/shopcraft/internal/vec"
	"github.com/annel0/shopcraft/internal/world"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	var (
		configPath = flag.String("config", "", "Путь к YAML-конфигурации (иначе SHOPCRAFT_CONFIG)")
		layoutName = flag.String("layout", "default", "Имя планировки для загрузки и сохранения")
		frames     = flag.Int("frames", 600, "Число кадров демонстрации (60 кадров = 1 с)")
		serve      = flag.Bool("serve", false, "После демонстрации отдавать /metrics до сигнала")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	logCfg, err := cfg.Logging.Logging()
	if err != nil {
		log.Fatalf("❌ Ошибка конфигурации логирования: %v", err)
	}
	if err := logging.InitDefaultLogger(logCfg); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	logging.Info("🛒 Запуск песочницы магазина")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, *layoutName, *frames, *serve); err != nil {
		logging.Error("❌ %v", err)
		logging.CloseDefaultLogger()
		os.Exit(1)
	}
	logging.Info("👋 Песочница остановлена")
}

func run(ctx context.Context, cfg *config.Config, layoutName string, frames int, serve bool) error {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("каталог мебели: %w", err)
	}
	logging.Debug("каталог: %d предметов мебели", len(cat.IDs()))

	// === МЕТРИКИ ===
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	// === ШИНА СОБЫТИЙ ===
	bus, err := openBus(cfg.EventBus)
	if err != nil {
		return err
	}
	defer bus.Close()

	exporter := eventbus.NewMetricsExporter(bus, reg)
	exporter.Start(time.Second)
	defer exporter.Stop()

	if _, err := eventbus.StartLoggingListener(ctx, bus, logging.GetEventBusLogger()); err != nil {
		return fmt.Errorf("подписка журнала: %w", err)
	}

	journal := eventbus.NewWorldSink(bus, "sandbox", 1024, logging.GetEventBusLogger())
	journal.Start(ctx)
	defer journal.Close()

	// === ХРАНИЛИЩЕ ===
	store, err := storage.Open(ctx, cfg.Storage, logging.GetStorageLogger())
	if err != nil {
		return fmt.Errorf("хранилище: %w", err)
	}
	defer store.Close()

	// === МИР ===
	sink := world.MultiSink{collector, journal}
	s := app.NewSession(cfg, cat, sink, store, logging.GetWorldLogger())
	collector.SetParcel(s.Engine.Parcel())

	metricsAddr := fmt.Sprintf(":%d", cfg.Server.GetMetricsPort())
	serveCtx, stopServe := context.WithCancel(ctx)
	defer stopServe()
	serveErr := make(chan error, 1)
	go func() { serveErr <- metrics.Serve(serveCtx, metricsAddr, reg, logging.GetServerLogger()) }()

	if err := s.Load(ctx, layoutName); err != nil {
		logging.Info("планировка %q не найдена, строим стартовую площадку: %v", layoutName, err)
		logging.Info("стартовая площадка: %d размещений", s.Engine.StarterPlatform())
	}

	demo(s)

	for i := 0; i < frames && ctx.Err() == nil; i++ {
		s.Step(1.0 / 60)
	}
	p := s.Player.Pos
	logging.Info("игрок в (%.2f, %.2f, %.2f), коллайдеров: %d", p.X, p.Y, p.Z, len(s.Engine.ListColliders()))

	if err := s.Save(ctx, layoutName); err != nil {
		return err
	}

	if serve {
		logging.Info("⏳ Метрики доступны до сигнала завершения")
		<-ctx.Done()
	}
	stopServe()
	return <-serveErr
}

// openBus выбирает JetStream при заданном URL, иначе шину в памяти
func openBus(cfg config.EventBusConfig) (eventbus.EventBus, error) {
	if cfg.URL == "" {
		return eventbus.NewMemoryBus(1024), nil
	}
	bus, err := eventbus.NewJetStreamBus(cfg.URL, cfg.Stream, time.Duration(cfg.Retention)*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("JetStream %s: %w", cfg.URL, err)
	}
	logging.Info("📡 События публикуются в JetStream %s (stream %s)", cfg.URL, cfg.Stream)
	return bus, nil
}

// demo выставляет витрину через хотбар и строитель, покупает расширение
// участка и ставит раздвижную дверь на новой полосе
func demo(s *app.Session) {
	s.Builder.SetBuildMode(true)

	placeAt := func(itemID string, cell vec.Vec3) {
		if !s.Builder.Select(itemID) {
			return
		}
		// Камера на высоте 3 м в 2 м перед ячейкой смотрит на её центр
		target := vec.Vec3Float{X: float64(cell.X) + 0.5, Y: float64(cell.Y), Z: float64(cell.Z) + 0.5}
		eye := vec.Vec3Float{X: target.X, Y: target.Y + 3, Z: target.Z - 2}
		dir := target.Sub(eye)
		in := world.GhostInput{
			Hit: &world.SurfaceHit{Point: target, Normal: vec.Vec3Float{Y: 1}, RayDir: dir},
			Ray: &world.Ray{Origin: eye, Dir: dir},
		}
		g := s.Builder.UpdateGhost(in)
		if g.Valid && s.Builder.TryCommitPlace() {
			logging.Debug("поставлен %s в %v", itemID, g.Cell)
		} else {
			logging.Debug("не удалось поставить %s в %v", itemID, g.Cell)
		}
	}

	placeAt("cashier_counter", vec.Vec3{X: 0, Y: 0, Z: 4})
	placeAt("aisle_shelf", vec.Vec3{X: -3, Y: 0, Z: 0})
	s.Builder.RotateCW()
	placeAt("fridge_wall", vec.Vec3{X: 4, Y: 0, Z: -2})
	s.Builder.RotateCCW()

	s.Register.AddMoney(500)
	if p, err := s.BuyPlotUpgrade(); err == nil {
		placeAt("glass_sliding_door", vec.Vec3{X: 0, Y: 0, Z: p.MaxZ})
	} else {
		logging.Warn("улучшение участка: %v", err)
	}

	s.Builder.SetBuildMode(false)
	s.Walk(0, 1.5)
}

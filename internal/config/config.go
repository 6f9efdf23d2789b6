package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/annel0/shopcraft/internal/catalog"
	"github.com/annel0/shopcraft/internal/inventory"
	"github.com/annel0/shopcraft/internal/logging"
	"github.com/annel0/shopcraft/internal/world"
	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
// Незаданные в файле поля сохраняют значения из Default().
type Config struct {
	Parcel    world.Parcel    `yaml:"parcel"`
	Doors     DoorsConfig     `yaml:"doors"`
	Inventory InventoryConfig `yaml:"inventory"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Storage   StorageConfig   `yaml:"storage"`
	EventBus  EventBusConfig  `yaml:"eventbus"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DoorsConfig — параметры мебельных дверей и старой блочной двери
type DoorsConfig struct {
	Furniture        catalog.DoorSpec `yaml:"furniture"`
	HysteresisMargin float64          `yaml:"hysteresis_margin"`
	Block            world.DoorParams `yaml:"block"`
}

// World переводит настройки в формат движка
func (d DoorsConfig) World() world.DoorConfig {
	return world.DoorConfig{
		Furniture:        d.Furniture,
		HysteresisMargin: d.HysteresisMargin,
		Block:            d.Block,
	}
}

type InventoryConfig struct {
	StartCount int                     `yaml:"start_count"`
	StartMoney int                     `yaml:"start_money"`
	Upgrades   []inventory.PlotUpgrade `yaml:"plot_upgrades"`
}

// Options переводит настройки в формат регистра
func (i InventoryConfig) Options() inventory.Options {
	return inventory.Options{StartCount: i.StartCount, StartMoney: i.StartMoney, Upgrades: i.Upgrades}
}

type CatalogConfig struct {
	Path string `yaml:"path"` // Пусто — встроенный каталог
}

type StorageConfig struct {
	BadgerDir       string `yaml:"badger_dir"`
	Compression     bool   `yaml:"compression"`
	RedisURL        string `yaml:"redis_url"` // Пусто — без кеша
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
}

// CacheTTL возвращает время жизни записи в Redis
func (s StorageConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

type EventBusConfig struct {
	URL       string `yaml:"url"` // Пусто — шина в памяти
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
}

type ServerConfig struct {
	MetricsPort int `yaml:"metrics_port"`
}

type LoggingConfig struct {
	Dir          string `yaml:"dir"`
	ConsoleLevel string `yaml:"console_level"`
	FileLevel    string `yaml:"file_level"`

	// Пороги отдельных компонентов: world, storage, eventbus, server.
	// Пустое поле наследует общий уровень.
	Components map[string]ComponentLogging `yaml:"components"`
}

type ComponentLogging struct {
	ConsoleLevel string `yaml:"console_level"`
	FileLevel    string `yaml:"file_level"`
}

// Logging переводит настройки в формат пакета logging
func (l LoggingConfig) Logging() (logging.Config, error) {
	console, err := logging.ParseLevel(l.ConsoleLevel)
	if err != nil {
		return logging.Config{}, err
	}
	file, err := logging.ParseLevel(l.FileLevel)
	if err != nil {
		return logging.Config{}, err
	}
	cfg := logging.Config{Dir: l.Dir, ConsoleLevel: console, FileLevel: file}

	for name, c := range l.Components {
		lv := logging.Levels{Console: console, File: file}
		if c.ConsoleLevel != "" {
			if lv.Console, err = logging.ParseLevel(c.ConsoleLevel); err != nil {
				return logging.Config{}, fmt.Errorf("components.%s: %w", name, err)
			}
		}
		if c.FileLevel != "" {
			if lv.File, err = logging.ParseLevel(c.FileLevel); err != nil {
				return logging.Config{}, fmt.Errorf("components.%s: %w", name, err)
			}
		}
		if cfg.Components == nil {
			cfg.Components = make(map[string]logging.Levels, len(l.Components))
		}
		cfg.Components[name] = lv
	}
	return cfg, nil
}

// GetMetricsPort возвращает Prometheus метрики порт с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "SHOPCRAFT_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	doors := world.DefaultDoorConfig()
	inv := inventory.DefaultOptions()
	return &Config{
		Parcel: world.DefaultParcel(),
		Doors: DoorsConfig{
			Furniture:        doors.Furniture,
			HysteresisMargin: doors.HysteresisMargin,
			Block:            doors.Block,
		},
		Inventory: InventoryConfig{
			StartCount: inv.StartCount,
			StartMoney: inv.StartMoney,
			Upgrades:   inventory.DefaultPlotUpgrades(),
		},
		Storage: StorageConfig{
			BadgerDir:       "data/layouts",
			Compression:     true,
			CacheTTLSeconds: 600,
		},
		EventBus: EventBusConfig{
			Stream:    "SHOPCRAFT",
			Retention: 72,
		},
		Logging: LoggingConfig{
			ConsoleLevel: "INFO",
			FileLevel:    "DEBUG",
		},
	}
}

// Load читает YAML файл конфигурации поверх Default().
// Если path == "", пытается прочитать из ENV SHOPCRAFT_CONFIG,
// а без неё возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("SHOPCRAFT_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения конфигурации %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("некорректная конфигурация %s: %w", path, err)
	}

	return cfg, nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	p := c.Parcel
	if p.MinX > p.MaxX || p.MinZ > p.MaxZ {
		return fmt.Errorf("parcel: минимум больше максимума")
	}
	if p.MaxY <= 0 {
		return fmt.Errorf("parcel.max_y должен быть положительным")
	}

	b := c.Doors.Block
	if b.CloseRadius <= b.OpenRadius {
		return fmt.Errorf("doors.block: close_radius должен быть больше open_radius")
	}
	if b.PassThreshold <= 0 || b.PassThreshold >= 1 {
		return fmt.Errorf("doors.block.pass_threshold вне (0, 1)")
	}
	if f := c.Doors.Furniture.PassThreshold; f <= 0 || f >= 1 {
		return fmt.Errorf("doors.furniture.pass_threshold вне (0, 1)")
	}
	// Без зазора дверь на границе радиуса открывается и закрывается каждый тик
	if c.Doors.HysteresisMargin <= 0 {
		return fmt.Errorf("doors.hysteresis_margin должен быть положительным")
	}

	if c.Inventory.StartCount < 0 || c.Inventory.StartMoney < 0 {
		return fmt.Errorf("inventory: отрицательные стартовые значения")
	}

	if _, err := c.Logging.Logging(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

package logging

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
)

// Имена компонентов, которые используют пакеты модуля
const (
	ComponentWorld    = "world"
	ComponentStorage  = "storage"
	ComponentEventBus = "eventbus"
	ComponentServer   = "server"
)

// LoggerManager хранит по одному логгеру на компонент
type LoggerManager struct {
	mu      sync.Mutex
	loggers map[string]*Logger
}

var globalManager = &LoggerManager{loggers: make(map[string]*Logger)}

// GetLoggerManager возвращает глобальный менеджер логгеров
func GetLoggerManager() *LoggerManager { return globalManager }

// GetLogger возвращает логгер компонента, создавая его по текущей конфигурации
func (lm *LoggerManager) GetLogger(component string) (*Logger, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if l, ok := lm.loggers[component]; ok {
		return l, nil
	}
	l, err := NewLogger(component)
	if err != nil {
		return nil, fmt.Errorf("логгер %s: %w", component, err)
	}
	lm.loggers[component] = l
	return l, nil
}

// MustGetLogger при ошибке файла отдаёт логгер только в консоль
func (lm *LoggerManager) MustGetLogger(component string) *Logger {
	l, err := lm.GetLogger(component)
	if err == nil {
		return l
	}
	lv := loadConfig().levelsFor(component)
	return NewWriterLogger(component, os.Stdout, lv.Console)
}

// relevel применяет пороги cfg к уже созданным логгерам
func (lm *LoggerManager) relevel(cfg Config) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	for component, l := range lm.loggers {
		lv := cfg.levelsFor(component)
		l.SetLevels(lv.Console, lv.File)
	}
}

// CloseAll закрывает файлы всех логгеров и забывает их
func (lm *LoggerManager) CloseAll() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	var errs []error
	for component, l := range lm.loggers {
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("логгер %s: %w", component, err))
		}
	}
	lm.loggers = make(map[string]*Logger)
	return errors.Join(errs...)
}

// Components возвращает отсортированные имена созданных логгеров
func (lm *LoggerManager) Components() []string {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	names := make([]string, 0, len(lm.loggers))
	for name := range lm.loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetComponentLogger возвращает логгер компонента из глобального менеджера
func GetComponentLogger(component string) *Logger {
	return globalManager.MustGetLogger(component)
}

func GetWorldLogger() *Logger    { return GetComponentLogger(ComponentWorld) }
func GetStorageLogger() *Logger  { return GetComponentLogger(ComponentStorage) }
func GetEventBusLogger() *Logger { return GetComponentLogger(ComponentEventBus) }
func GetServerLogger() *Logger   { return GetComponentLogger(ComponentServer) }

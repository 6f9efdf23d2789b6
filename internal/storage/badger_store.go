package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/annel0/shopcraft/internal/logging"
	"github.com/annel0/shopcraft/internal/world"
	"github.com/dgraph-io/badger/v3"
)

// BadgerStore хранит планировки в BadgerDB под ключами layout:<name>
type BadgerStore struct {
	db      *badger.DB
	dbPath  string
	codec   *Codec
	logger  *logging.Logger
	mutex   sync.RWMutex
	isReady bool
}

// NewBadgerStore открывает (или создаёт) базу в каталоге dir.
// Пустой dir открывает базу в памяти.
func NewBadgerStore(dir string, compress bool, logger *logging.Logger) (*BadgerStore, error) {
	if logger == nil {
		logger = logging.GetStorageLogger()
	}

	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	codec, err := NewCodec(compress)
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("BadgerDB открыта: %q (zstd: %v)", dir, compress)
	return &BadgerStore{
		db:      db,
		dbPath:  dir,
		codec:   codec,
		logger:  logger,
		isReady: true,
	}, nil
}

// Close закрывает хранилище данных
func (s *BadgerStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isReady {
		return nil
	}

	s.isReady = false
	s.codec.Close()
	return s.db.Close()
}

func (s *BadgerStore) ready(ctx context.Context) error {
	if !s.isReady {
		return fmt.Errorf("хранилище не готово")
	}
	return ctx.Err()
}

// Save сохраняет снимок планировки
func (s *BadgerStore) Save(ctx context.Context, name string, l world.Layout) error {
	if err := validateName(name); err != nil {
		return err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if err := s.ready(ctx); err != nil {
		return err
	}

	data, err := s.codec.Encode(l)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(layoutKey(name), data)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}

	s.logger.Debug("сохранена планировка %q: %d размещений, %d байт", name, len(l.Entries), len(data))
	return nil
}

// Load загружает снимок планировки
func (s *BadgerStore) Load(ctx context.Context, name string) (world.Layout, error) {
	if err := validateName(name); err != nil {
		return world.Layout{}, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if err := s.ready(ctx); err != nil {
		return world.Layout{}, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(layoutKey(name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return world.Layout{}, ErrNotFound
	}
	if err != nil {
		return world.Layout{}, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	return s.codec.Decode(data)
}

// List возвращает имена сохранённых планировок
func (s *BadgerStore) List(ctx context.Context) ([]string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(layoutPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			names = append(names, strings.TrimPrefix(key, layoutPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка обхода BadgerDB: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// Delete удаляет снимок планировки
func (s *BadgerStore) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if err := s.ready(ctx); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(layoutKey(name))
	})
	if err != nil {
		return fmt.Errorf("ошибка удаления из BadgerDB: %w", err)
	}
	return nil
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/annel0/shopcraft/internal/world"
)

// ErrNotFound возвращается, если планировка с таким именем не сохранена
var ErrNotFound = errors.New("layout not found")

// LayoutStore определяет интерфейс для сохранения снимков планировки участка.
// Имя — произвольный непустой ключ без ':' (например, имя игрока или слота).
type LayoutStore interface {
	// Save перезаписывает снимок под именем name
	Save(ctx context.Context, name string, l world.Layout) error

	// Load возвращает снимок или ErrNotFound
	Load(ctx context.Context, name string) (world.Layout, error)

	// List возвращает сохранённые имена по возрастанию
	List(ctx context.Context) ([]string, error)

	// Delete удаляет снимок; отсутствие снимка не ошибка
	Delete(ctx context.Context, name string) error

	// Close освобождает ресурсы хранилища
	Close() error
}

func validateName(name string) error {
	if name == "" || strings.ContainsRune(name, ':') {
		return fmt.Errorf("недопустимое имя планировки %q", name)
	}
	return nil
}

func layoutKey(name string) []byte {
	return []byte(layoutPrefix + name)
}

const layoutPrefix = "layout:"

package world

import (
	"testing"

	"github.com/annel0/shopcraft/internal/catalog"
	"github.com/annel0/shopcraft/internal/logging"
	"github.com/stretchr/testify/require"
)

// testInventory — простой счётчик предметов для тестов
type testInventory map[string]int

func (inv testInventory) Count(id string) int    { return inv[id] }
func (inv testInventory) Add(id string, delta int) { inv[id] += delta }

// recorder запоминает все события движка
type recorder struct {
	events []Event
}

func (r *recorder) Emit(e Event) { r.events = append(r.events, e) }

func (r *recorder) ofType(t EventType) []Event {
	var out []Event
	for _, e := range r.events {
		if e.GetType() == t {
			out = append(out, e)
		}
	}
	return out
}

func newTestEngine(t *testing.T, inv testInventory) (*Engine, *recorder) {
	t.Helper()

	cat, err := catalog.Default()
	require.NoError(t, err, "встроенный каталог должен загружаться")

	rec := &recorder{}
	e := NewEngine(Options{
		Catalog:   cat,
		Inventory: inv,
		Sink:      rec,
		Logger:    logging.Discard(),
	})
	return e, rec
}

// fullInventory выдаёт по 99 единиц каждого блока и мебели
func fullInventory(t *testing.T) testInventory {
	t.Helper()

	cat, err := catalog.Default()
	require.NoError(t, err)

	inv := testInventory{}
	for _, id := range []string{"floor", "wall", "slab", "glass", "window", "door"} {
		inv[id] = 99
	}
	for _, id := range cat.IDs() {
		inv[id] = 99
	}
	return inv
}

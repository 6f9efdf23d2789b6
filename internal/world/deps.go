package world

import "github.com/annel0/shopcraft/internal/catalog"

// Inventory — счётчики предметов игрока.
// inventory.Register реализует этот интерфейс.
type Inventory interface {
	Count(id string) int
	Add(id string, delta int)
}

// FurnitureCatalog — источник описаний мебели.
// catalog.Catalog реализует этот интерфейс.
type FurnitureCatalog interface {
	Furniture(id string) (*catalog.Furniture, bool)
}

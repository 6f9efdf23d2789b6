package world

// Layer определяет слой занятости ячейки.
// Пол и твёрдые объекты хранятся независимо, поэтому в одной ячейке
// могут одновременно находиться напольная плита и блок/мебель.
//
// 0 – LayerFloor: напольные плиты и авто-пол под дверями/мебелью;
// 1 – LayerSolid: блоки и мебель.
type Layer uint8

const (
	LayerFloor Layer = iota
	LayerSolid

	MaxLayers // всегда последний: количество слоев
)

// String возвращает имя слоя для логов и меток метрик
func (l Layer) String() string {
	switch l {
	case LayerFloor:
		return "floor"
	case LayerSolid:
		return "solid"
	default:
		return "unknown"
	}
}

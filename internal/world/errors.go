package world

import "errors"

// Причины отказа в размещении/удалении
var (
	ErrOutOfParcelBounds     = errors.New("cell outside parcel bounds")
	ErrOutOfHeightBounds     = errors.New("cell outside height range")
	ErrCellOccupied          = errors.New("cell already occupied")
	ErrUnsupported           = errors.New("placement has no support")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrUnknownReference      = errors.New("unknown placement reference")
	ErrUnknownType           = errors.New("unknown item type")
)

// Reason возвращает короткую метку причины отказа (для метрик и событий)
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrOutOfParcelBounds):
		return "out_of_parcel"
	case errors.Is(err, ErrOutOfHeightBounds):
		return "out_of_height"
	case errors.Is(err, ErrCellOccupied):
		return "occupied"
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	case errors.Is(err, ErrInsufficientInventory):
		return "no_inventory"
	case errors.Is(err, ErrUnknownReference):
		return "unknown_ref"
	case errors.Is(err, ErrUnknownType):
		return "unknown_type"
	default:
		return "other"
	}
}

package world

import (
	"testing"

	"github.com/annel0/shopcraft/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSampleLayout(t *testing.T, e *Engine) {
	t.Helper()
	require.True(t, e.PlaceBlock("wall", vec.Vec3{X: 0, Y: 0, Z: 0}, 0))
	require.True(t, e.PlaceBlock("glass", vec.Vec3{X: 0, Y: 1, Z: 0}, 0))
	require.True(t, e.PlaceBlock("door", vec.Vec3{X: 2, Y: 0, Z: 0}, 1))
	require.True(t, e.PlaceFurniture("cashier_counter", vec.Vec3{X: -5, Y: 0, Z: -5}, 3))
}

func TestLayout_ExportImportRoundTrip(t *testing.T) {
	src, _ := newTestEngine(t, fullInventory(t))
	src.ExpandParcel(2, 0)
	buildSampleLayout(t, src)

	layout := src.Export()
	assert.Equal(t, LayoutVersion, layout.Version)
	assert.Equal(t, src.Len(), len(layout.Entries))

	inv := testInventory{}
	dst, _ := newTestEngine(t, inv)
	require.NoError(t, dst.Import(layout))

	assert.Empty(t, inv, "загрузка не списывает инвентарь")
	assert.Equal(t, src.Parcel(), dst.Parcel())
	assert.Equal(t, src.Len(), dst.Len())
	assert.Equal(t, src.Occupancy().Len(LayerFloor), dst.Occupancy().Len(LayerFloor), "авто-пол не дублируется")
	assert.Equal(t, src.Occupancy().Len(LayerSolid), dst.Occupancy().Len(LayerSolid))
	assert.Equal(t, 1, dst.PlacedCount("cashier_counter"))
	assert.Equal(t, len(src.ListColliders()), len(dst.ListColliders()))
	assert.Equal(t, layout, dst.Export())

	// Движок после загрузки полностью рабочий
	occ, ok := dst.Occupancy().Solid(vec.Vec3{X: 2, Y: 0, Z: 0})
	require.True(t, ok)
	_, ok = dst.DoorPassState(occ.Ref)
	assert.True(t, ok, "двери восстанавливаются")
	assert.True(t, dst.Break(occ.Ref))
	assert.Equal(t, 1, inv["door"], "удаление загруженного объекта возвращает предмет")
}

func TestLayout_ImportSkipsSupportRules(t *testing.T) {
	e, _ := newTestEngine(t, fullInventory(t))

	err := e.Import(Layout{Entries: []LayoutEntry{
		{Kind: KindBlock, TypeID: "wall", Origin: vec.Vec3{X: 0, Y: 5, Z: 0}},
	}})
	require.NoError(t, err)
	assert.True(t, e.IsSolid(vec.Vec3{X: 0, Y: 5, Z: 0}))
}

func TestLayout_ImportFailureKeepsState(t *testing.T) {
	e, _ := newTestEngine(t, fullInventory(t))
	buildSampleLayout(t, e)
	before := e.Export()

	err := e.Import(Layout{Entries: []LayoutEntry{
		{Kind: KindBlock, TypeID: "wall", Origin: vec.Vec3{X: 1, Y: 0, Z: 1}},
		{Kind: KindBlock, TypeID: "wall", Origin: vec.Vec3{X: 1, Y: 0, Z: 1}},
	}})
	assert.ErrorIs(t, err, ErrCellOccupied)
	assert.Equal(t, before, e.Export(), "при ошибке мир не меняется")

	err = e.Import(Layout{Entries: []LayoutEntry{{Kind: KindFurniture, TypeID: "sofa"}}})
	assert.ErrorIs(t, err, ErrUnknownType)

	err = e.Import(Layout{Version: 99})
	assert.Error(t, err)
}

func TestLayout_ImportEmitsSnapshotEvent(t *testing.T) {
	src, _ := newTestEngine(t, fullInventory(t))
	buildSampleLayout(t, src)
	layout := src.Export()

	dst, rec := newTestEngine(t, fullInventory(t))
	require.True(t, dst.PlaceBlock("slab", vec.Vec3{X: 7, Y: 0, Z: 7}, 0))

	bad := Layout{Entries: []LayoutEntry{{Kind: KindFurniture, TypeID: "sofa"}}}
	require.Error(t, dst.Import(bad))
	assert.Empty(t, rec.ofType(EventTypeLayoutImported), "неудачный импорт не сообщает о замене")

	require.NoError(t, dst.Import(layout))
	events := rec.ofType(EventTypeLayoutImported)
	require.Len(t, events, 1)

	ev := events[0].(LayoutImportedEvent)
	assert.Equal(t, dst.Len(), ev.Live)
	assert.Equal(t, 1, ev.Doors)
	assert.Equal(t, dst.Parcel(), ev.Parcel)
}

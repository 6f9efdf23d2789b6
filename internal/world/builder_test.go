package world

import (
	"testing"

	"github.com/annel0/shopcraft/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groundHit(x, z float64) GhostInput {
	return GhostInput{Hit: &SurfaceHit{Point: vec.Vec3Float{X: x, Z: z}}}
}

func TestBuilder_RequiresBuildMode(t *testing.T) {
	e, _ := newTestEngine(t, fullInventory(t))
	b := NewBuilder(e)
	require.True(t, b.Select("wall"))

	g := b.UpdateGhost(groundHit(0.5, 0.5))
	assert.False(t, g.Visible)
	assert.False(t, b.TryCommitPlace())
}

func TestBuilder_PlaceAndBreak(t *testing.T) {
	inv := fullInventory(t)
	e, _ := newTestEngine(t, inv)
	b := NewBuilder(e)
	b.SetBuildMode(true)

	assert.False(t, b.Select("marble"), "неизвестный предмет")
	require.True(t, b.Select("wall"))

	g := b.UpdateGhost(groundHit(1.5, 2.5))
	require.True(t, g.Visible)
	assert.True(t, g.Valid)
	assert.Equal(t, vec.Vec3{X: 1, Y: 0, Z: 2}, g.Cell)

	require.True(t, b.TryCommitPlace())
	assert.False(t, b.TryCommitPlace(), "повторная установка без нового призрака запрещена")
	assert.Equal(t, 98, inv["wall"])

	g = b.UpdateGhost(groundHit(1.5, 2.5))
	assert.False(t, g.Valid, "ячейка уже занята")

	occ, ok := e.Occupancy().Solid(vec.Vec3{X: 1, Y: 0, Z: 2})
	require.True(t, ok)
	require.True(t, b.TryCommitBreak(occ.Ref))
	assert.Equal(t, 99, inv["wall"])

	b.SetBuildMode(false)
	assert.False(t, b.TryCommitBreak(occ.Ref))
}

func TestBuilder_FurnitureOnGroundRay(t *testing.T) {
	e, _ := newTestEngine(t, fullInventory(t))
	b := NewBuilder(e)
	b.SetBuildMode(true)
	require.True(t, b.Select("sliding_door_wide"))

	b.RotateCW()
	assert.Equal(t, Rotation(1), b.Rotation())

	// Луч у дальней границы по Z: footprint 1x3 сдвигается внутрь
	g := b.UpdateGhost(GhostInput{Ray: &Ray{
		Origin: vec.Vec3Float{X: 0.5, Y: 1, Z: 9.5},
		Dir:    vec.Vec3Float{Z: 0.1, Y: -1},
	}})
	require.True(t, g.Visible)
	assert.Equal(t, vec.Vec3{X: 0, Y: 0, Z: e.Parcel().MaxZ - 2}, g.Cell)
	assert.True(t, g.Valid)
	require.True(t, b.TryCommitPlace())
	assert.True(t, e.IsSolid(vec.Vec3{X: 0, Y: 0, Z: e.Parcel().MaxZ}))
}

func TestBuilder_Rotation(t *testing.T) {
	b := NewBuilder(NewEngine(Options{}))

	b.RotateCCW()
	assert.Equal(t, Rotation(3), b.Rotation())
	for i := 0; i < 5; i++ {
		b.RotateCW()
	}
	assert.Equal(t, Rotation(0), b.Rotation())
}

func TestBuilder_FurnitureUsesGroundPickEvenWithHit(t *testing.T) {
	e, _ := newTestEngine(t, fullInventory(t))
	b := NewBuilder(e)
	b.SetBuildMode(true)
	require.True(t, b.Select("sliding_door_wide"))

	// Рендер прислал и попадание, и луч у восточной границы участка
	in := GhostInput{
		Hit: &SurfaceHit{Point: vec.Vec3Float{X: 9.5, Y: 0, Z: 0.5}},
		Ray: &Ray{Origin: vec.Vec3Float{X: 9.5, Y: 2, Z: 0.5}, Dir: vec.Vec3Float{Y: -1}},
	}
	g := b.UpdateGhost(in)
	require.True(t, g.Visible)
	assert.Equal(t, vec.Vec3{X: 8, Y: 0, Z: 0}, g.Cell, "footprint 3x1 целиком внутри участка")
	assert.True(t, g.Valid)

	// Только попадание: мебель всё равно прижимается по footprint
	g = b.UpdateGhost(GhostInput{Hit: in.Hit})
	require.True(t, g.Visible)
	assert.Equal(t, vec.Vec3{X: 8, Y: 0, Z: 0}, g.Cell)

	// Блок по тому же попаданию занимает ячейку под точкой
	require.True(t, b.Select("wall"))
	g = b.UpdateGhost(in)
	assert.Equal(t, vec.Vec3{X: 9, Y: 0, Z: 0}, g.Cell)
}

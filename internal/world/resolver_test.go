package world

import (
	"testing"

	"github.com/annel0/shopcraft/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSurface_EmptyGeometry(t *testing.T) {
	parcel := DefaultParcel()

	cell := ResolveSurface(SurfaceHit{Point: vec.Vec3Float{X: 2.3, Y: 0, Z: -1.7}}, parcel)
	assert.Equal(t, vec.Vec3{X: 2, Y: 0, Z: -2}, cell)

	// Попадание в стену окружения всё равно проецируется на землю
	cell = ResolveSurface(SurfaceHit{Point: vec.Vec3Float{X: 0.5, Y: 3.2, Z: 0.5}}, parcel)
	assert.Equal(t, vec.Vec3{X: 0, Y: 0, Z: 0}, cell)
}

func TestResolveSurface_PlacementFaces(t *testing.T) {
	parcel := DefaultParcel()

	top := SurfaceHit{
		Point:       vec.Vec3Float{X: 0.5, Y: 1.0, Z: 0.5},
		Normal:      vec.Vec3Float{Y: 1},
		RayDir:      vec.Vec3Float{X: 0.2, Y: -1},
		OnPlacement: true,
	}
	assert.Equal(t, vec.Vec3{X: 0, Y: 1, Z: 0}, ResolveSurface(top, parcel))

	side := SurfaceHit{
		Point:       vec.Vec3Float{X: 1.0, Y: 0.5, Z: 0.5},
		Normal:      vec.Vec3Float{X: 0.9, Y: 0.1},
		RayDir:      vec.Vec3Float{X: -1},
		OnPlacement: true,
	}
	assert.Equal(t, vec.Vec3{X: 1, Y: 0, Z: 0}, ResolveSurface(side, parcel), "нормаль прижимается к оси X")
}

func TestResolveSurface_FlipsBackFaceNormal(t *testing.T) {
	hit := SurfaceHit{
		Point:       vec.Vec3Float{X: 0.5, Y: 1.0, Z: 0.5},
		Normal:      vec.Vec3Float{Y: -1},
		RayDir:      vec.Vec3Float{Y: -1},
		OnPlacement: true,
	}
	assert.Equal(t, vec.Vec3{X: 0, Y: 1, Z: 0}, ResolveSurface(hit, DefaultParcel()),
		"нормаль, смотрящая от камеры, разворачивается")
}

func TestResolveSurface_Clamps(t *testing.T) {
	parcel := Parcel{MinX: 0, MaxX: 4, MinZ: 0, MaxZ: 4, MaxY: 3}

	hit := SurfaceHit{
		Point:       vec.Vec3Float{X: 9.5, Y: 3.0, Z: -2.5},
		Normal:      vec.Vec3Float{Y: 1},
		RayDir:      vec.Vec3Float{Y: -1},
		OnPlacement: true,
	}
	assert.Equal(t, vec.Vec3{X: 4, Y: 2, Z: 0}, ResolveSurface(hit, parcel))
}

func TestResolveGround(t *testing.T) {
	parcel := DefaultParcel()

	cell, ok := ResolveGround(Ray{
		Origin: vec.Vec3Float{X: 0, Y: 2, Z: 0.5},
		Dir:    vec.Vec3Float{X: 1, Y: -1},
	}, vec.Vec2{X: 1, Z: 1}, parcel)
	require.True(t, ok)
	assert.Equal(t, vec.Vec3{X: 2, Y: 0, Z: 0}, cell)

	// Footprint 3x1 у правой границы сдвигается внутрь целиком
	cell, ok = ResolveGround(Ray{
		Origin: vec.Vec3Float{X: 9.5, Y: 1, Z: 0.5},
		Dir:    vec.Vec3Float{X: 0.1, Y: -1},
	}, vec.Vec2{X: 3, Z: 1}, parcel)
	require.True(t, ok)
	assert.Equal(t, vec.Vec3{X: parcel.MaxX - 2, Y: 0, Z: 0}, cell)

	_, ok = ResolveGround(Ray{Origin: vec.Vec3Float{Y: 2}, Dir: vec.Vec3Float{X: 1, Y: 0.5}}, vec.Vec2{X: 1, Z: 1}, parcel)
	assert.False(t, ok, "луч вверх не пересекает землю")

	_, ok = ResolveGround(Ray{Origin: vec.Vec3Float{Y: 2}, Dir: vec.Vec3Float{X: 1}}, vec.Vec2{X: 1, Z: 1}, parcel)
	assert.False(t, ok, "горизонтальный луч")
}

package world

import (
	"math"

	"github.com/annel0/shopcraft/internal/vec"
)

// SurfaceHit — результат луча по геометрии, подготовленный рендером
type SurfaceHit struct {
	Point       vec.Vec3Float // Точка попадания
	Normal      vec.Vec3Float // Нормаль грани в мировых координатах
	RayDir      vec.Vec3Float // Направление луча
	OnPlacement bool          // Попали в размещённый объект, а не в окружение
}

// Ray — луч от камеры
type Ray struct {
	Origin vec.Vec3Float
	Dir    vec.Vec3Float
}

// hitNudge сдвигает точку внутрь ячейки при попадании ровно в границу
const hitNudge = 0.0001

// ResolveSurface переводит попадание луча в ячейку-кандидат.
// Попадание в окружение даёт ячейку на земле под точкой.
// Попадание в объект даёт соседнюю ячейку со стороны грани:
// нормаль, смотрящая от камеры, разворачивается и прижимается к оси.
func ResolveSurface(hit SurfaceHit, parcel Parcel) vec.Vec3 {
	var cell vec.Vec3
	if !hit.OnPlacement {
		cell = vec.Vec3{
			X: int(math.Floor(hit.Point.X + hitNudge)),
			Y: 0,
			Z: int(math.Floor(hit.Point.Z + hitNudge)),
		}
	} else {
		n := hit.Normal
		if n.Dot(hit.RayDir) > 0 {
			n = n.Mul(-1)
		}
		n = n.DominantAxis()
		cell = hit.Point.Add(n.Mul(0.5)).Floor()
	}
	return parcel.Clamp(cell)
}

// ResolveGround пересекает луч с плоскостью y=0 и возвращает origin
// footprint так, чтобы весь footprint остался внутри участка.
// false — луч не пересекает землю перед камерой.
func ResolveGround(ray Ray, footprint vec.Vec2, parcel Parcel) (vec.Vec3, bool) {
	if ray.Dir.Y == 0 {
		return vec.Vec3{}, false
	}
	t := -ray.Origin.Y / ray.Dir.Y
	if t < 0 || math.IsInf(t, 0) || math.IsNaN(t) {
		return vec.Vec3{}, false
	}

	ix := ray.Origin.X + ray.Dir.X*t
	iz := ray.Origin.Z + ray.Dir.Z*t
	origin := vec.Vec3{X: int(math.Floor(ix)), Y: 0, Z: int(math.Floor(iz))}
	return parcel.ClampFootprint(origin, footprint), true
}

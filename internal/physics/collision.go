package physics

import (
	"github.com/annel0/shopcraft/internal/vec"
)

// AABB представляет выровненный по осям бокс в мировых координатах
type AABB struct {
	Min vec.Vec3Float
	Max vec.Vec3Float
}

// Collider — один бокс составного коллайдера размещения.
// Ref — непрозрачный идентификатор размещения-владельца.
type Collider struct {
	Ref uint64
	Box AABB
}

// NewAABB создаёт бокс по центру и полным размерам
func NewAABB(center, size vec.Vec3Float) AABB {
	half := size.Mul(0.5)
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// Intersects проверяет строгое пересечение двух боксов (касание не считается)
func (b AABB) Intersects(other AABB) bool {
	return b.Max.X > other.Min.X && b.Min.X < other.Max.X &&
		b.Max.Y > other.Min.Y && b.Min.Y < other.Max.Y &&
		b.Max.Z > other.Min.Z && b.Min.Z < other.Max.Z
}

// IsPointInside проверяет, находится ли точка внутри бокса
func (b AABB) IsPointInside(p vec.Vec3Float) bool {
	return p.X >= b.Min.X && p.X < b.Max.X &&
		p.Y >= b.Min.Y && p.Y < b.Max.Y &&
		p.Z >= b.Min.Z && p.Z < b.Max.Z
}

// Center возвращает центр бокса
func (b AABB) Center() vec.Vec3Float {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Translate сдвигает бокс на вектор
func (b AABB) Translate(d vec.Vec3Float) AABB {
	return AABB{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Empty возвращает true для вырожденного бокса
func (b AABB) Empty() bool {
	return b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y || b.Max.Z <= b.Min.Z
}

// CanOccupy проверяет, что бокс не пересекается ни с одним коллайдером.
// Аналог проверки перемещения по точкам, но для составных боксов.
func CanOccupy(box AABB, colliders []Collider) bool {
	for _, c := range colliders {
		if box.Intersects(c.Box) {
			return false
		}
	}
	return true
}

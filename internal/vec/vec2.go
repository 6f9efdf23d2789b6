package vec

// Vec2 представляет целочисленные координаты на плоскости XZ
// (колонка сетки или размеры footprint: X — ширина, Z — глубина).
type Vec2 struct {
	X, Z int
}

// Swap меняет оси местами (поворот footprint на нечётное число четвертей)
func (v Vec2) Swap() Vec2 {
	return Vec2{X: v.Z, Z: v.X}
}

// At поднимает колонку на высоту y
func (v Vec2) At(y int) Vec3 {
	return Vec3{X: v.X, Y: y, Z: v.Z}
}

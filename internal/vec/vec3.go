package vec

import "math"

// Vec3 представляет трехмерный вектор с целочисленными координатами.
// Используется как адрес ячейки сетки (1 ячейка = 1 метр) и как ключ карт.
type Vec3 struct {
	X int
	Y int
	Z int
}

// Vec3Float представляет трехмерный вектор с плавающими координатами
type Vec3Float struct {
	X float64
	Y float64
	Z float64
}

// Cardinal — шесть осевых направлений: +X, -X, +Y, -Y, +Z, -Z.
// Порядок совпадает с битами FaceMask в пакете world.
var Cardinal = [6]Vec3{
	{X: 1}, {X: -1},
	{Y: 1}, {Y: -1},
	{Z: 1}, {Z: -1},
}

// ToVec2 проецирует ячейку на плоскость XZ
func (v Vec3) ToVec2() Vec2 {
	return Vec2{X: v.X, Z: v.Z}
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// Below возвращает ячейку под текущей
func (v Vec3) Below() Vec3 {
	return Vec3{X: v.X, Y: v.Y - 1, Z: v.Z}
}

// Neighbors возвращает шесть соседей по граням в порядке Cardinal
func (v Vec3) Neighbors() [6]Vec3 {
	var out [6]Vec3
	for i, d := range Cardinal {
		out[i] = v.Add(d)
	}
	return out
}

// Float переводит ячейку в мировые координаты её минимального угла
func (v Vec3) Float() Vec3Float {
	return Vec3Float{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

// Add складывает два вектора
func (v Vec3Float) Add(other Vec3Float) Vec3Float {
	return Vec3Float{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Sub вычитает вектор
func (v Vec3Float) Sub(other Vec3Float) Vec3Float {
	return Vec3Float{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Mul умножает вектор на скаляр
func (v Vec3Float) Mul(scalar float64) Vec3Float {
	return Vec3Float{X: v.X * scalar, Y: v.Y * scalar, Z: v.Z * scalar}
}

// Dot — скалярное произведение
func (v Vec3Float) Dot(other Vec3Float) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Length возвращает длину вектора
func (v Vec3Float) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Floor округляет каждую компоненту вниз и возвращает ячейку
func (v Vec3Float) Floor() Vec3 {
	return Vec3{
		X: int(math.Floor(v.X)),
		Y: int(math.Floor(v.Y)),
		Z: int(math.Floor(v.Z)),
	}
}

// DominantAxis оставляет только компоненту с наибольшим модулем,
// приведённую к ±1. Нулевой вектор остаётся нулевым.
// При равенстве модулей приоритет у Y, затем у X.
func (v Vec3Float) DominantAxis() Vec3Float {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	switch {
	case ax == 0 && ay == 0 && az == 0:
		return Vec3Float{}
	case ay >= ax && ay >= az:
		return Vec3Float{Y: math.Copysign(1, v.Y)}
	case ax >= az:
		return Vec3Float{X: math.Copysign(1, v.X)}
	default:
		return Vec3Float{Z: math.Copysign(1, v.Z)}
	}
}

// Planar отбрасывает высоту
func (v Vec3Float) Planar() Vec2Float {
	return Vec2Float{X: v.X, Z: v.Z}
}

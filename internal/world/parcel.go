package world

import "github.com/annel0/shopcraft/internal/vec"

// Parcel — участок, на котором разрешено строить.
// X/Z границы включительные, высота — полуинтервал [0, MaxY).
type Parcel struct {
	MinX int `yaml:"min_x" json:"min_x"`
	MaxX int `yaml:"max_x" json:"max_x"`
	MinZ int `yaml:"min_z" json:"min_z"`
	MaxZ int `yaml:"max_z" json:"max_z"`
	MaxY int `yaml:"max_y" json:"max_y"`
}

// DefaultParcel возвращает стартовый участок 21x21 высотой 16
func DefaultParcel() Parcel {
	return Parcel{MinX: -10, MaxX: 10, MinZ: -10, MaxZ: 10, MaxY: 16}
}

// ContainsXZ проверяет, что колонка лежит внутри участка
func (p Parcel) ContainsXZ(x, z int) bool {
	return x >= p.MinX && x <= p.MaxX && z >= p.MinZ && z <= p.MaxZ
}

// ContainsY проверяет высоту
func (p Parcel) ContainsY(y int) bool {
	return y >= 0 && y < p.MaxY
}

// Contains проверяет ячейку целиком
func (p Parcel) Contains(c vec.Vec3) bool {
	return p.ContainsXZ(c.X, c.Z) && p.ContainsY(c.Y)
}

// Width возвращает ширину участка в ячейках по X
func (p Parcel) Width() int { return p.MaxX - p.MinX + 1 }

// Depth возвращает глубину участка в ячейках по Z
func (p Parcel) Depth() int { return p.MaxZ - p.MinZ + 1 }

// Clamp прижимает ячейку к участку и диапазону высот
func (p Parcel) Clamp(c vec.Vec3) vec.Vec3 {
	maxY := p.MaxY - 1
	if maxY < 0 {
		maxY = 0
	}
	return vec.Vec3{
		X: clampInt(c.X, p.MinX, p.MaxX),
		Y: clampInt(c.Y, 0, maxY),
		Z: clampInt(c.Z, p.MinZ, p.MaxZ),
	}
}

// ClampFootprint сдвигает origin так, чтобы весь footprint поместился
// в участок. Если footprint шире участка, origin прижимается к минимуму.
func (p Parcel) ClampFootprint(origin vec.Vec3, fp vec.Vec2) vec.Vec3 {
	maxX := p.MaxX - fp.X + 1
	maxZ := p.MaxZ - fp.Z + 1
	if maxX < p.MinX {
		maxX = p.MinX
	}
	if maxZ < p.MinZ {
		maxZ = p.MinZ
	}
	return vec.Vec3{
		X: clampInt(origin.X, p.MinX, maxX),
		Y: origin.Y,
		Z: clampInt(origin.Z, p.MinZ, maxZ),
	}
}

// Expand расширяет участок на dx по обе стороны X и на dz по обе стороны Z
func (p Parcel) Expand(dx, dz int) Parcel {
	if dx < 0 {
		dx = 0
	}
	if dz < 0 {
		dz = 0
	}
	p.MinX -= dx
	p.MaxX += dx
	p.MinZ -= dz
	p.MaxZ += dz
	return p
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

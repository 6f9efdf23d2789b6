package physics

import (
	"github.com/annel0/shopcraft/internal/vec"
)

const (
	// DefaultRadius — полуширина тела игрока по X/Z
	DefaultRadius = 0.28
	// DefaultHeight — рост игрока от ступней до глаз
	DefaultHeight = 1.70

	resolveIterations = 2
	pushEpsilon       = 0.001
	wallFriction      = 0.2
)

// Body — тело игрока. Pos задаёт точку глаз, ступни находятся на Pos.Y-Height.
type Body struct {
	Pos      vec.Vec3Float
	Vel      vec.Vec3Float
	Radius   float64
	Height   float64
	Grounded bool
}

// NewBody создаёт тело со стандартными размерами игрока
func NewBody(pos vec.Vec3Float) *Body {
	return &Body{Pos: pos, Radius: DefaultRadius, Height: DefaultHeight}
}

// Bounds возвращает текущий бокс тела
func (b *Body) Bounds() AABB {
	return AABB{
		Min: vec.Vec3Float{X: b.Pos.X - b.Radius, Y: b.Pos.Y - b.Height, Z: b.Pos.Z - b.Radius},
		Max: vec.Vec3Float{X: b.Pos.X + b.Radius, Y: b.Pos.Y, Z: b.Pos.Z + b.Radius},
	}
}

// Resolve выталкивает тело из всех коллайдеров по оси наименьшего проникновения
// и удерживает ступни над плоскостью y=0.
func (b *Body) Resolve(colliders []Collider) {
	b.Grounded = false

	for iter := 0; iter < resolveIterations; iter++ {
		p := b.Bounds()
		for _, c := range colliders {
			if !p.Intersects(c.Box) {
				continue
			}
			b.pushOut(p, c.Box)
			p = b.Bounds()
		}
	}

	// Плоскость земли
	if feet := b.Pos.Y - b.Height; feet < 0 {
		b.Pos.Y = b.Height
		if b.Vel.Y < 0 {
			b.Vel.Y = 0
		}
		b.Grounded = true
	}
}

func (b *Body) pushOut(p, box AABB) {
	penX := min(box.Max.X-p.Min.X, p.Max.X-box.Min.X)
	penY := min(box.Max.Y-p.Min.Y, p.Max.Y-box.Min.Y)
	penZ := min(box.Max.Z-p.Min.Z, p.Max.Z-box.Min.Z)
	center := box.Center()

	switch {
	case penY <= penX && penY <= penZ:
		if b.Pos.Y > center.Y {
			b.Pos.Y += penY + pushEpsilon
			b.Vel.Y = max(0, b.Vel.Y)
			b.Grounded = true
		} else {
			b.Pos.Y -= penY + pushEpsilon
			b.Vel.Y = min(0, b.Vel.Y)
		}
	case penX <= penZ:
		if b.Pos.X > center.X {
			b.Pos.X += penX + pushEpsilon
		} else {
			b.Pos.X -= penX + pushEpsilon
		}
		b.Vel.X *= wallFriction
	default:
		if b.Pos.Z > center.Z {
			b.Pos.Z += penZ + pushEpsilon
		} else {
			b.Pos.Z -= penZ + pushEpsilon
		}
		b.Vel.Z *= wallFriction
	}
}

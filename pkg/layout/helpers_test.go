package layout

import "math"

func distFromOrigin(b Box) float64 {
	cx, cy := b.Center()
	return math.Hypot(cx, cy)
}

func distBetween(a, b Box) float64 {
	ax, ay := a.Center()
	bx, by := b.Center()
	return math.Hypot(ax-bx, ay-by)
}

func finite(b Box) bool {
	for _, v := range []float64{b.X, b.Y, b.Width, b.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func overlaps(a, b Box) bool {
	const eps = 1e-6
	return a.X < b.X+b.Width-eps && b.X < a.X+a.Width-eps &&
		a.Y < b.Y+b.Height-eps && b.Y < a.Y+a.Height-eps
}

package geom

// Separating planes are derived from a partition's mean heading. The
// plane normal must be orthogonal to the heading, so it is built by
// crossing the heading with a fixed axis. The axis order is Y, then Z,
// then X, skipping any axis nearly parallel to the heading so the cross
// product cannot degenerate.

const planeEps = 1e-6

var planeAxes = [3]Vec{
	{0, 1, 0},
	{0, 0, 1},
	{1, 0, 0},
}

// PlaneNormal returns a unit normal orthogonal to heading, suitable for
// use as a separating plane through the partition's centroid. A zero
// heading falls back to the X axis.
func PlaneNormal(heading *Vec) Vec {
	out := Vec{}
	for i := range planeAxes {
		heading.CrossAt(&planeAxes[i], &out)
		if out.Dot(&out) > planeEps {
			out.NormalizeSelf()
			return out
		}
	}
	return Vec{1, 0, 0}
}

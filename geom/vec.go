/*package geom contains the small amount of vector geometry needed by the
flocking simulation.

Agent state lives in large flat buffers, so Vec is a bare [3]float32 and
every operation works through pointer receivers without allocating.
*/
package geom

import (
	"math"
)

// Vec is a three dimensional vector.
type Vec [3]float32

// AddSelf adds u into v and returns v for chaining.
func (v *Vec) AddSelf(u *Vec) *Vec {
	v[0] += u[0]
	v[1] += u[1]
	v[2] += u[2]
	return v
}

// SubAt places v - u at out and returns out.
func (v *Vec) SubAt(u, out *Vec) *Vec {
	out[0] = v[0] - u[0]
	out[1] = v[1] - u[1]
	out[2] = v[2] - u[2]
	return out
}

// ScaleSelf multiplies each component of v by s and returns v.
func (v *Vec) ScaleSelf(s float32) *Vec {
	v[0] *= s
	v[1] *= s
	v[2] *= s
	return v
}

// AddScaledSelf adds u*s into v and returns v.
func (v *Vec) AddScaledSelf(u *Vec, s float32) *Vec {
	v[0] += u[0] * s
	v[1] += u[1] * s
	v[2] += u[2] * s
	return v
}

// Dot returns the inner product of v and u.
func (v *Vec) Dot(u *Vec) float32 {
	return v[0]*u[0] + v[1]*u[1] + v[2]*u[2]
}

// CrossAt places v cross u at out and returns out.
func (v *Vec) CrossAt(u, out *Vec) *Vec {
	out[0] = v[1]*u[2] - v[2]*u[1]
	out[1] = v[2]*u[0] - v[0]*u[2]
	out[2] = v[0]*u[1] - v[1]*u[0]
	return out
}

// Norm returns the Euclidean length of v.
func (v *Vec) Norm() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// NormalizeSelf scales v to unit length and returns v. A zero vector
// produces non-finite components, which IsFinite detects.
func (v *Vec) NormalizeSelf() *Vec {
	return v.ScaleSelf(1 / v.Norm())
}

// NormalizedAt places the unit vector along v at out and returns out. A
// zero input leaves out zeroed instead of propagating NaNs.
func (v *Vec) NormalizedAt(out *Vec) *Vec {
	n := v.Norm()
	if n == 0 {
		*out = Vec{}
		return out
	}
	out[0] = v[0] / n
	out[1] = v[1] / n
	out[2] = v[2] / n
	return out
}

// LerpAt places the linear blend (1-t)*v + t*u at out and returns out.
func (v *Vec) LerpAt(u *Vec, t float32, out *Vec) *Vec {
	out[0] = v[0] + (u[0]-v[0])*t
	out[1] = v[1] + (u[1]-v[1])*t
	out[2] = v[2] + (u[2]-v[2])*t
	return out
}

// IsFinite returns true if no component of v is an infinity or NaN.
func (v *Vec) IsFinite() bool {
	for i := 0; i < 3; i++ {
		f := float64(v[i])
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

package gallery

import "math"

// Vec3 is a point or direction in scene units.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LengthSq() float64 { return v.Dot(v) }
func (v Vec3) Length() float64   { return math.Sqrt(v.LengthSq()) }

func (v Vec3) DistSqTo(o Vec3) float64 { return v.Sub(o).LengthSq() }
func (v Vec3) DistTo(o Vec3) float64   { return math.Sqrt(v.DistSqTo(o)) }

// Normalized returns v scaled to unit length, or the zero vector unchanged.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1.0 / l)
}

// Lerp interpolates toward o by t in [0,1].
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{
		v.X + (o.X-v.X)*t,
		v.Y + (o.Y-v.Y)*t,
		v.Z + (o.Z-v.Z)*t,
	}
}

// Mat4 is a column-major 4x4 matrix (OpenGL layout).
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * o[c*4+k]
			}
			r[c*4+row] = sum
		}
	}
	return r
}

// Mat4Perspective builds a right-handed perspective projection.
// fovDeg is the vertical field of view in degrees.
func Mat4Perspective(fovDeg, aspect, near, far float64) Mat4 {
	f := 1.0 / math.Tan(fovDeg*math.Pi/180.0/2.0)
	nf := 1.0 / (near - far)
	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) * nf
	m[11] = -1
	m[14] = 2 * far * near * nf
	return m
}

// Mat4LookAt builds a right-handed view matrix.
func Mat4LookAt(eye, target, up Vec3) Mat4 {
	z := eye.Sub(target).Normalized()
	x := up.Cross(z).Normalized()
	y := z.Cross(x)
	var m Mat4
	m[0], m[4], m[8] = x.X, x.Y, x.Z
	m[1], m[5], m[9] = y.X, y.Y, y.Z
	m[2], m[6], m[10] = z.X, z.Y, z.Z
	m[12] = -x.Dot(eye)
	m[13] = -y.Dot(eye)
	m[14] = -z.Dot(eye)
	m[15] = 1
	return m
}

// Float32 flattens the matrix for GL uniform upload.
func (m Mat4) Float32() [16]float32 {
	var out [16]float32
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}

// JitterStream is the deterministic layout jitter source: repeated
// s = sin(s)*10000, emitting the fractional part. The constructor performs
// one warm-up step so the first emitted value is already decorrelated from
// small integer seeds.
type JitterStream struct {
	s float64
}

func NewJitterStream(seed float64) *JitterStream {
	j := &JitterStream{s: seed}
	j.s = math.Sin(j.s) * 10000
	return j
}

// Next returns the next value in [0,1).
func (j *JitterStream) Next() float64 {
	j.s = math.Sin(j.s) * 10000
	return j.s - math.Floor(j.s)
}

// Shuffle permutes ids in place using the stream (Fisher-Yates).
func (j *JitterStream) Shuffle(ids []string) {
	for i := len(ids) - 1; i > 0; i-- {
		k := int(math.Floor(j.Next() * float64(i+1)))
		ids[i], ids[k] = ids[k], ids[i]
	}
}

// idHash folds an item id into a small deterministic integer, used to derive
// stable per-item oscillation phases.
func idHash(id string) int {
	h := 0
	for i := 0; i < len(id); i++ {
		h += int(id[i]) * (i + 1)
	}
	return h
}

// idPhase maps an id (plus a per-axis salt) onto [0,2pi).
func idPhase(id string, salt int) float64 {
	return float64((idHash(id)+salt)%1000) / 1000.0 * 2 * math.Pi
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lerpF(a, b, t float64) float64 {
	return a + (b-a)*t
}

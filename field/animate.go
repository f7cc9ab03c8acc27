package field

import "github.com/chewxy/math32"

// Animate displaces every particle vertically: y = sin(elapsed + x0), where x0
// is the particle's x at generation time. Buffers are rewritten in place and the
// field is marked dirty; count and allocation never change.
func Animate(f *ParticleField, elapsed float32) {
	if f == nil || f.released || len(f.refX) == 0 {
		return
	}
	for i, x0 := range f.refX {
		f.Positions[i*3+1] = math32.Sin(elapsed + x0)
	}
	f.dirty = true
}

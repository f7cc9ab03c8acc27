package field

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidParameter is returned for generation input that cannot produce a field.
// The caller is expected to reject the input and keep the previous field.
var ErrInvalidParameter = errors.New("invalid generation parameter")

// Mode selects the placement rule used by Generate.
type Mode uint8

const (
	ModeGalaxy   Mode = iota // spiral arms around the origin
	ModeScatter              // uniform random cube
	ModeWaveGrid             // flat x/z grid, displaced by Animate
)

var modeNames = [...]string{"galaxy", "scatter", "wave"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidParameter, s)
}

// RGB is a colour with channels in [0, 1].
type RGB struct {
	R, G, B float32
}

// ParseHex parses a "#rrggbb" colour string.
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: colour %q: %v", ErrInvalidParameter, s, err)
	}
	return fromColorful(c), nil
}

// MustParseHex is like ParseHex but panics on error.
func MustParseHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Lerp blends a towards b by t, with t clamped to [0, 1].
func (a RGB) Lerp(b RGB, t float32) RGB {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return fromColorful(a.colorful().BlendRgb(b.colorful(), float64(t)))
}

// Hex returns the colour as "#rrggbb".
func (a RGB) Hex() string {
	return a.colorful().Clamped().Hex()
}

func (a RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(a.R), G: float64(a.G), B: float64(a.B)}
}

func fromColorful(c colorful.Color) RGB {
	return RGB{R: float32(c.R), G: float32(c.G), B: float32(c.B)}
}

// GenerationParameters describes one Generate call. Values are copied, never shared.
type GenerationParameters struct {
	Mode            Mode
	Count           int
	Radius          float32 // galaxy radius, or cube/grid extent for scatter and wave
	Branches        int
	Spin            float32
	Randomness      float32
	RandomnessPower float32
	InsideColor     RGB
	OutsideColor    RGB
	Size            float32 // shared point size
	SizeVariation   float32 // 0 disables per-particle sizes
	Seed            int64   // 0 = time-based, output not reproducible
}

// DefaultParameters returns the galaxy defaults used by the scenes.
func DefaultParameters() GenerationParameters {
	return GenerationParameters{
		Mode:            ModeGalaxy,
		Count:           100000,
		Radius:          5,
		Branches:        3,
		Spin:            1,
		Randomness:      0.2,
		RandomnessPower: 3,
		InsideColor:     MustParseHex("#ff6030"),
		OutsideColor:    MustParseHex("#1b3984"),
		Size:            0.01,
	}
}

// Validate checks the parameters against the allocation ceiling maxCount.
func (p GenerationParameters) Validate(maxCount int) error {
	switch {
	case p.Count <= 0:
		return fmt.Errorf("%w: count %d must be positive", ErrInvalidParameter, p.Count)
	case maxCount > 0 && p.Count > maxCount:
		return fmt.Errorf("%w: count %d exceeds max %d", ErrInvalidParameter, p.Count, maxCount)
	case !finite(p.Radius) || p.Radius < 0:
		return fmt.Errorf("%w: radius %v must be finite and non-negative", ErrInvalidParameter, p.Radius)
	case !finite(p.Spin):
		return fmt.Errorf("%w: spin %v must be finite", ErrInvalidParameter, p.Spin)
	case !finite(p.Randomness) || p.Randomness < 0:
		return fmt.Errorf("%w: randomness %v must be finite and non-negative", ErrInvalidParameter, p.Randomness)
	case !finite(p.RandomnessPower) || p.RandomnessPower < 1:
		return fmt.Errorf("%w: randomness power %v must be >= 1", ErrInvalidParameter, p.RandomnessPower)
	case !finite(p.Size) || p.Size < 0:
		return fmt.Errorf("%w: size %v must be finite and non-negative", ErrInvalidParameter, p.Size)
	case !finite(p.SizeVariation) || p.SizeVariation < 0 || p.SizeVariation > 1:
		return fmt.Errorf("%w: size variation %v must be in [0, 1]", ErrInvalidParameter, p.SizeVariation)
	}

	switch p.Mode {
	case ModeGalaxy:
		if p.Branches < 1 {
			return fmt.Errorf("%w: branches %d must be >= 1", ErrInvalidParameter, p.Branches)
		}
	case ModeScatter, ModeWaveGrid:
	default:
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidParameter, p.Mode)
	}
	return nil
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}

package universe

import (
	"math/rand"

	"github.com/aquilax/go-perlin"
)

const (
	//the permutation table is fixed, the offsets are what changes between seedings
	noisePermutationSeed = 1
	noiseAlpha           = 2.
	noiseBeta            = 2.
	noiseOctaves         = 1
	//one octave of go-perlin stays within about [-0.6, 0.55]
	noisePeak = 0.6
)

//Offsets decorrelate successive seedings of the NoiseField
type Offsets struct {
	X float64
	Y float64
	Z float64
}

//NoiseField is the coherent noise used to seed the grid
//for fixed offsets Sample is a pure function of the coordinates
type NoiseField struct {
	noise   *perlin.Perlin
	scale   float64
	offsets Offsets
}

//NewNoiseField creates the field, scale controls the feature size of the generated terrain
func NewNoiseField(scale float64) *NoiseField {
	if scale <= 0 {
		scale = DefNoiseScale
	}
	return &NoiseField{
		noise: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, noisePermutationSeed),
		scale: scale,
	}
}

//Seed draws three fresh offsets from rng and keeps them
func (n *NoiseField) Seed(rng *rand.Rand) Offsets {
	n.offsets = Offsets{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()}
	return n.offsets
}

//SetOffsets installs explicit offsets
func (n *NoiseField) SetOffsets(o Offsets) {
	n.offsets = o
}

func (n *NoiseField) Offsets() Offsets {
	return n.offsets
}

func (n *NoiseField) Scale() float64 {
	return n.scale
}

//Sample returns the field value in [-1, 1] for the cell x, y of a width x height grid
func (n *NoiseField) Sample(x int, y int, width int, height int) float64 {
	fx := float64(x)/float64(width)*n.scale + n.offsets.X
	fy := float64(y)/float64(height)*n.scale + n.offsets.Y
	v := n.noise.Noise3D(fx, fy, n.offsets.Z) / noisePeak
	if v > 1 {
		return 1
	} else if v < -1 {
		return -1
	}
	return v
}

//Field samples the whole width x height pass row-major
//the pass is stretched linearly so its lowest value is -1 and its highest is 1
func (n *NoiseField) Field(width int, height int) []float64 {
	f := make([]float64, width*height)
	lo, hi := 1., -1.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := n.Sample(x, y, width, height)
			f[y*width+x] = v
			lo, hi = min(lo, v), max(hi, v)
		}
	}
	if hi <= lo {
		return f
	}
	for i, v := range f {
		f[i] = 2*(v-lo)/(hi-lo) - 1
	}
	return f
}

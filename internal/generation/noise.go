package generation

import (
	"fmt"
	"math"
	"strconv"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"

	"dconn.dev/realmgen/internal/random"
)

// NoiseBackend selects the 2D noise function octaves are built from
type NoiseBackend string

const (
	// NoiseLattice is seeded gradient noise with hashed lattice gradients
	NoiseLattice NoiseBackend = "lattice"
	// NoisePerlin is classic permutation-table Perlin noise
	NoisePerlin NoiseBackend = "perlin"
	// NoiseSimplex is OpenSimplex noise
	NoiseSimplex NoiseBackend = "simplex"
)

// ParseNoiseBackend validates a backend name
func ParseNoiseBackend(s string) (NoiseBackend, error) {
	switch NoiseBackend(s) {
	case NoiseLattice, NoisePerlin, NoiseSimplex:
		return NoiseBackend(s), nil
	case "":
		return NoiseLattice, nil
	}
	return "", fmt.Errorf("unknown noise backend %q", s)
}

// noiseSource samples one octave. Output is roughly in [-1, 1].
type noiseSource interface {
	Sample(x, y float64) float64
}

func newNoiseSource(backend NoiseBackend, seed string) noiseSource {
	switch backend {
	case NoisePerlin:
		return perlinSource{p: perlin.NewPerlin(2, 2, 3, int64(random.Hash(seed)))}
	case NoiseSimplex:
		return simplexSource{n: opensimplex.New(int64(random.Hash(seed)))}
	default:
		return latticeSource{seed: random.Hash(seed)}
	}
}

// latticeSource is gradient noise whose corner gradients are derived from
// the seed and lattice coordinate alone, so overlapping regions agree.
type latticeSource struct {
	seed uint64
}

func (s latticeSource) Sample(x, y float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	ix, iy := int64(x0), int64(y0)
	sx := fade(x - x0)
	sy := fade(y - y0)

	n0 := s.dotGradient(ix, iy, x, y)
	n1 := s.dotGradient(ix+1, iy, x, y)
	top := lerp(n0, n1, sx)
	n2 := s.dotGradient(ix, iy+1, x, y)
	n3 := s.dotGradient(ix+1, iy+1, x, y)
	bottom := lerp(n2, n3, sx)
	return lerp(top, bottom, sy)
}

func (s latticeSource) dotGradient(ix, iy int64, x, y float64) float64 {
	angle := random.Unit(random.Mix(s.seed, ix, iy)) * 2 * math.Pi
	dx := x - float64(ix)
	dy := y - float64(iy)
	return dx*math.Cos(angle) + dy*math.Sin(angle)
}

type perlinSource struct {
	p *perlin.Perlin
}

func (s perlinSource) Sample(x, y float64) float64 {
	return s.p.Noise2D(x, y)
}

type simplexSource struct {
	n opensimplex.Noise
}

func (s simplexSource) Sample(x, y float64) float64 {
	return s.n.Eval2(x, y)
}

// quintic smoothstep 6t^5 - 15t^4 + 10t^3
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// NoiseField generates layered noise over a region. Values are in [0, 1],
// indexed [y-MinY][x-MinX], and depend only on the seed and world coordinate.
func NoiseField(backend NoiseBackend, seed string, b Bounds, octaves int, persistence float64) [][]float64 {
	sources := make([]noiseSource, octaves)
	for i := range sources {
		sources[i] = newNoiseSource(backend, seed+strconv.Itoa(i))
	}

	field := make([][]float64, b.Height())
	for y := range field {
		field[y] = make([]float64, b.Width())
		for x := range field[y] {
			field[y][x] = sampleOctaves(sources, float64(b.MinX+x), float64(b.MinY+y), persistence)
		}
	}
	return field
}

func sampleOctaves(sources []noiseSource, wx, wy, persistence float64) float64 {
	amplitude, frequency := 1.0, 1.0
	var sum, maxAmp float64
	for _, src := range sources {
		sum += src.Sample(wx*frequency/100, wy*frequency/100) * amplitude
		maxAmp += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	if maxAmp == 0 {
		return 0.5
	}
	return clampFloat((sum/maxAmp)*0.5+0.5, 0, 1)
}

// noiseChannel is one named field of the climate model
type noiseChannel struct {
	suffix      string
	octaves     int
	persistence float64
}

var (
	elevationChannel   = noiseChannel{"_elevation", 8, 0.5}
	temperatureChannel = noiseChannel{"_temperature", 6, 0.7}
	moistureChannel    = noiseChannel{"_moisture", 7, 0.6}
	riverChannel       = noiseChannel{"_river", 10, 0.8}
)

// climateFields are the four noise channels sampled over one region
type climateFields struct {
	bounds      Bounds
	elevation   [][]float64
	temperature [][]float64
	moisture    [][]float64
	river       [][]float64
}

func sampleClimateFields(backend NoiseBackend, seed string, b Bounds) climateFields {
	gen := func(c noiseChannel) [][]float64 {
		return NoiseField(backend, seed+c.suffix, b, c.octaves, c.persistence)
	}
	return climateFields{
		bounds:      b,
		elevation:   gen(elevationChannel),
		temperature: gen(temperatureChannel),
		moisture:    gen(moistureChannel),
		river:       gen(riverChannel),
	}
}

// raw returns the four channel values at a world coordinate
func (f climateFields) raw(p Point) (e, t, m, r float64) {
	y, x := p.Y-f.bounds.MinY, p.X-f.bounds.MinX
	return f.elevation[y][x], f.temperature[y][x], f.moisture[y][x], f.river[y][x]
}

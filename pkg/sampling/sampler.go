package sampling

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/df07/go-flat-raytracer/pkg/core"
)

// DefaultNumSets is the number of independent sample sets generated per sampler.
// A prime keeps the set sequence from lining up with image dimensions.
const DefaultNumSets = 83

// Strategy selects how the points of each set are laid out in the unit square
type Strategy int

const (
	// Uniform places samples at the centres of an n×n grid (no randomness)
	Uniform Strategy = iota
	// Random places every sample independently
	Random
	// Jittered places one random sample inside each cell of an n×n grid
	Jittered
)

// String returns the flag name of the strategy
func (s Strategy) String() string {
	switch s {
	case Uniform:
		return "uniform"
	case Random:
		return "random"
	case Jittered:
		return "jittered"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// RequiresSquare reports whether the strategy needs a perfect-square sample count
func (s Strategy) RequiresSquare() bool {
	return s == Uniform || s == Jittered
}

// ParseStrategy converts a name such as "jittered" into a Strategy
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "uniform", "regular":
		return Uniform, nil
	case "random":
		return Random, nil
	case "jittered", "jitter":
		return Jittered, nil
	default:
		return 0, fmt.Errorf("%w: unknown sampling strategy %q", core.ErrInvalidConfiguration, name)
	}
}

// Sampler hands out precomputed points in [0,1)² for sub-pixel jitter.
//
// Points are consumed a set at a time: every NumSamples calls the sampler moves
// to another set and walks it through a shuffled index permutation, so
// neighbouring pixels do not see the same pattern. A full cycle of
// NumSamples*NumSets calls visits every set exactly once.
//
// A Sampler is not safe for concurrent use; give each worker its own Clone.
type Sampler struct {
	strategy   Strategy
	numSamples int
	numSets    int

	// Read-only after construction, shared between clones
	samples  []core.Vec2
	shuffled []int

	setOrder []int
	count    int
	jump     int
	random   *rand.Rand
}

// NewSampler creates a sampler with DefaultNumSets sets of numSamples points
func NewSampler(strategy Strategy, numSamples int, seed int64) (*Sampler, error) {
	return NewSamplerWithSets(strategy, numSamples, DefaultNumSets, seed)
}

// ValidateCount reports whether strategy can produce numSamples points per set
func ValidateCount(strategy Strategy, numSamples int) error {
	if numSamples <= 0 {
		return fmt.Errorf("%w: sample count must be positive, got %d", core.ErrInvalidConfiguration, numSamples)
	}
	if strategy.RequiresSquare() && !isPerfectSquare(numSamples) {
		return fmt.Errorf("%w: %s sampling needs a perfect square sample count, got %d",
			core.ErrInvalidConfiguration, strategy, numSamples)
	}
	return nil
}

// NewSamplerWithSets creates a sampler with an explicit number of sets.
// The point table is generated eagerly from seed.
func NewSamplerWithSets(strategy Strategy, numSamples, numSets int, seed int64) (*Sampler, error) {
	if err := ValidateCount(strategy, numSamples); err != nil {
		return nil, err
	}
	if numSets <= 0 {
		return nil, fmt.Errorf("%w: set count must be positive, got %d", core.ErrInvalidConfiguration, numSets)
	}

	random := rand.New(rand.NewSource(seed))

	var samples []core.Vec2
	switch strategy {
	case Uniform:
		samples = generateUniform(numSamples, numSets)
	case Random:
		samples = generateRandom(numSamples, numSets, random)
	case Jittered:
		samples = generateJittered(numSamples, numSets, random)
	default:
		return nil, fmt.Errorf("%w: unknown sampling strategy %d", core.ErrInvalidConfiguration, int(strategy))
	}

	s := &Sampler{
		strategy:   strategy,
		numSamples: numSamples,
		numSets:    numSets,
		samples:    samples,
		shuffled:   shuffleIndices(numSamples, numSets, random),
		setOrder:   make([]int, numSets),
		random:     random,
	}
	s.Reset(seed)
	return s, nil
}

// Strategy returns the generation strategy
func (s *Sampler) Strategy() Strategy { return s.strategy }

// NumSamples returns the number of samples per set
func (s *Sampler) NumSamples() int { return s.numSamples }

// NumSets returns the number of sample sets
func (s *Sampler) NumSets() int { return s.numSets }

// Samples returns a copy of the generated points in generation order
func (s *Sampler) Samples() []core.Vec2 {
	out := make([]core.Vec2, len(s.samples))
	copy(out, s.samples)
	return out
}

// Clone returns a sampler sharing this sampler's point table but owning
// its own cursor and random source
func (s *Sampler) Clone(seed int64) *Sampler {
	c := &Sampler{
		strategy:   s.strategy,
		numSamples: s.numSamples,
		numSets:    s.numSets,
		samples:    s.samples,
		shuffled:   s.shuffled,
		setOrder:   make([]int, s.numSets),
		random:     rand.New(rand.NewSource(seed)),
	}
	c.Reset(seed)
	return c
}

// Reset rewinds the cursor and reseeds set selection
func (s *Sampler) Reset(seed int64) {
	s.random.Seed(seed)
	s.count = 0
	s.jump = 0
}

// SampleUnitSquare returns the next sample point in [0,1)²
func (s *Sampler) SampleUnitSquare() core.Vec2 {
	cycle := s.numSamples * s.numSets
	if s.count%cycle == 0 {
		s.shuffleSetOrder()
	}
	if s.count%s.numSamples == 0 {
		set := s.setOrder[(s.count%cycle)/s.numSamples]
		s.jump = set * s.numSamples
	}

	index := s.jump + s.shuffled[s.jump+s.count%s.numSamples]
	s.count++
	return s.samples[index]
}

func (s *Sampler) shuffleSetOrder() {
	for i := range s.setOrder {
		s.setOrder[i] = i
	}
	s.random.Shuffle(len(s.setOrder), func(i, j int) {
		s.setOrder[i], s.setOrder[j] = s.setOrder[j], s.setOrder[i]
	})
}

// shuffleIndices builds one random permutation of [0, numSamples) per set
func shuffleIndices(numSamples, numSets int, random *rand.Rand) []int {
	indices := make([]int, 0, numSamples*numSets)
	for p := 0; p < numSets; p++ {
		perm := random.Perm(numSamples)
		indices = append(indices, perm...)
	}
	return indices
}

func generateUniform(numSamples, numSets int) []core.Vec2 {
	n := intSqrt(numSamples)
	samples := make([]core.Vec2, 0, numSamples*numSets)
	for p := 0; p < numSets; p++ {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				samples = append(samples, core.NewVec2(
					(float64(j)+0.5)/float64(n),
					(float64(i)+0.5)/float64(n),
				))
			}
		}
	}
	return samples
}

func generateRandom(numSamples, numSets int, random *rand.Rand) []core.Vec2 {
	samples := make([]core.Vec2, 0, numSamples*numSets)
	for p := 0; p < numSets; p++ {
		for i := 0; i < numSamples; i++ {
			samples = append(samples, core.NewVec2(random.Float64(), random.Float64()))
		}
	}
	return samples
}

func generateJittered(numSamples, numSets int, random *rand.Rand) []core.Vec2 {
	n := intSqrt(numSamples)
	samples := make([]core.Vec2, 0, numSamples*numSets)
	for p := 0; p < numSets; p++ {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				samples = append(samples, core.NewVec2(
					stratum(j, n, random.Float64()),
					stratum(i, n, random.Float64()),
				))
			}
		}
	}
	return samples
}

// stratum maps an offset u in [0,1) into cell k of n, staying below 1
func stratum(k, n int, u float64) float64 {
	v := (float64(k) + u) / float64(n)
	if v >= 1 {
		v = math.Nextafter(1, 0)
	}
	return v
}

func intSqrt(n int) int {
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

func isPerfectSquare(n int) bool {
	r := intSqrt(n)
	return r*r == n
}

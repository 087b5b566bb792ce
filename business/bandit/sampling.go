package bandit

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// maxGammaIterations bounds the Marsaglia-Tsang rejection loop. The
// acceptance rate is above 95% for any shape >= 1, so hitting the bound
// means a broken generator; the sample falls back to the distribution
// mean.
const maxGammaIterations = 1000

// sampler draws Beta variates through the Gamma ratio. The generator is
// seeded at construction so tests can force deterministic sequences; a
// single mutex serializes draws because rand.Rand is not safe for
// concurrent use.
type sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newSampler(seed int64) *sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &sampler{rng: rand.New(rand.NewSource(seed))}
}

// Beta draws one sample from Beta(alpha, beta).
//
// Two shortcuts trade statistical purity for speed and stability:
// Beta(1,1) is exactly Uniform(0,1), and once alpha+beta exceeds the
// evidence threshold the posterior is narrow enough that mean plus a
// small uniform jitter is indistinguishable in ranking terms.
func (sp *sampler) Beta(alpha, beta, jitterBound, evidenceThreshold float64) float64 {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	if alpha == 1 && beta == 1 {
		return sp.rng.Float64()
	}

	if alpha+beta > evidenceThreshold {
		mean := alpha / (alpha + beta)
		jitter := (sp.rng.Float64()*2 - 1) * jitterBound
		return clamp01(mean + jitter)
	}

	x := sp.gammaLocked(alpha)
	y := sp.gammaLocked(beta)
	if x+y == 0 {
		return 0.5
	}
	return x / (x + y)
}

// Intn mirrors rand.Intn behind the sampler's lock.
func (sp *sampler) Intn(n int) int {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.rng.Intn(n)
}

// gammaLocked samples Gamma(shape, 1) by Marsaglia-Tsang. Caller holds
// sp.mu. Shapes below 1 are boosted through Gamma(shape+1) and scaled by
// u^(1/shape).
func (sp *sampler) gammaLocked(shape float64) float64 {
	if shape <= 0 {
		return 0
	}
	if shape < 1 {
		u := sp.rng.Float64()
		for u == 0 {
			u = sp.rng.Float64()
		}
		return sp.gammaLocked(shape+1) * math.Pow(u, 1/shape)
	}

	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)

	for i := 0; i < maxGammaIterations; i++ {
		x := sp.normalLocked()
		v := 1.0 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v

		u := sp.rng.Float64()
		if u < 1.0-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v
		}
	}

	return shape
}

// normalLocked draws a standard normal by Box-Muller. Caller holds sp.mu.
func (sp *sampler) normalLocked() float64 {
	u1 := 1.0 - sp.rng.Float64()
	u2 := sp.rng.Float64()
	return math.Sqrt(-2.0*math.Log(u1)) * math.Cos(2.0*math.Pi*u2)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

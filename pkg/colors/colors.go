// Package colors assigns distinguishable colors to annotation categories
package colors

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
)

// NumCandidates is the number of random colors drawn per new category
const NumCandidates = 10

// RGB is an 8-bit color
type RGB [3]uint8

func (c RGB) String() string {
	return fmt.Sprintf("[%d, %d, %d]", c[0], c[1], c[2])
}

// Dist is the Euclidean distance in RGB space
func Dist(a, b RGB) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// ArgmaxDist picks the candidate whose closest existing color is furthest
// away. With no existing colors every candidate scores zero and the first
// one is returned.
func ArgmaxDist(picklist, existing []RGB) RGB {
	if len(picklist) == 0 {
		return RGB{}
	}
	best, bestDist := picklist[0], -1.0
	for _, c := range picklist {
		minDist := math.Inf(1)
		for _, e := range existing {
			minDist = math.Min(minDist, Dist(c, e))
		}
		if len(existing) == 0 {
			minDist = 0
		}
		if minDist > bestDist {
			best, bestDist = c, minDist
		}
	}
	return best
}

// Picker draws new colors. It is safe for concurrent use.
type Picker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPicker creates a Picker with a random seed
func NewPicker() *Picker {
	return &Picker{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewPickerWithSeed creates a deterministic Picker
func NewPickerWithSeed(seed uint64) *Picker {
	return &Picker{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Random draws a single uniformly distributed color
func (p *Picker) Random() RGB {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.random()
}

func (p *Picker) random() RGB {
	return RGB{uint8(p.rng.UintN(256)), uint8(p.rng.UintN(256)), uint8(p.rng.UintN(256))}
}

// NewColor draws NumCandidates colors and keeps the one most distant from existing
func (p *Picker) NewColor(existing []RGB) RGB {
	p.mu.Lock()
	picklist := make([]RGB, NumCandidates)
	for i := range picklist {
		picklist[i] = p.random()
	}
	p.mu.Unlock()
	return ArgmaxDist(picklist, existing)
}

var defaultPicker = NewPicker()

// NewColor draws a new color with the package level picker
func NewColor(existing []RGB) RGB {
	return defaultPicker.NewColor(existing)
}

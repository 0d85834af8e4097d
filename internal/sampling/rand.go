package sampling

import (
	"math/rand/v2"
	"time"
)

// Rand is the single source of randomness for a Sampler.
type Rand interface {
	// IntN returns a uniform value in [0, n). n > 0.
	IntN(n int) int
}

func newRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func clockSeed() uint64 { return uint64(time.Now().UnixNano()) }

// chooseDistinct picks k distinct positions out of [0, n) uniformly, in draw
// order (partial Fisher-Yates). k <= n.
func chooseDistinct(r Rand, n, k int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + r.IntN(n-i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm[:k]
}

// chooseOne picks a single element with replacement.
func chooseOne(r Rand, items []int) int {
	return items[r.IntN(len(items))]
}

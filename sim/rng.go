package sim

import (
	"hash/fnv"
	"math/rand"
)

// PartitionedRNG provides isolated RNG streams per subsystem so that adding a
// consumer of randomness in one component cannot perturb another component's
// draws across runs with the same seed.
type PartitionedRNG struct {
	masterSeed int64
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a new partitioned RNG with the given master seed
func NewPartitionedRNG(masterSeed int64) *PartitionedRNG {
	return &PartitionedRNG{
		masterSeed: masterSeed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns an RNG for the given subsystem name. The subsystem RNG
// is created lazily and deterministically derived from the master seed;
// repeated calls with the same name return the same instance.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, exists := p.subsystems[name]; exists {
		return rng
	}
	rng := rand.New(rand.NewSource(p.DeriveSeed(name)))
	p.subsystems[name] = rng
	return rng
}

// DeriveSeed deterministically derives a subsystem seed from the master seed
// and the subsystem name. Hash-based derivation keeps the result independent
// of the order subsystems are first touched:
// subsystemSeed = masterSeed XOR hash(subsystemName)
func (p *PartitionedRNG) DeriveSeed(subsystemName string) int64 {
	h := fnv.New64a()
	h.Write([]byte(subsystemName))
	return p.masterSeed ^ int64(h.Sum64())
}

// Subsystem name constants for common subsystems
const (
	SubsystemLink    = "link"
	SubsystemTraffic = "traffic"
)

// Moduli of the MRG32k3a generator underlying rngstream. Seed state values
// must be nonzero and below the modulus of their component.
const (
	mrgM1 = 4294967087
	mrgM2 = 4294944443
)

// StreamState expands the derived subsystem seed into a six-value seed state
// suitable for rngstream.SetPackageSeed. The first three values seed the
// generator's first component, the last three its second; all six are kept in
// [1, m-1] so the state is always valid.
func (p *PartitionedRNG) StreamState(name string) []uint64 {
	src := rand.New(rand.NewSource(p.DeriveSeed(name)))
	state := make([]uint64, 6)
	for i := range state {
		if i < 3 {
			state[i] = uint64(src.Int63n(mrgM1-1)) + 1
		} else {
			state[i] = uint64(src.Int63n(mrgM2-1)) + 1
		}
	}
	return state
}

package analyze

// bitset is a fixed-size bit vector used as the step-groups visited set,
// per §4.2's "A visited set of size N is required; implementations
// should use a bitset."
type bitset struct {
	words []uint64
}

func newBitset(n int) *bitset {
	return &bitset{words: make([]uint64, (n+63)/64)}
}

func (b *bitset) set(i int32) {
	b.words[uint32(i)/64] |= 1 << (uint32(i) % 64)
}

func (b *bitset) has(i int32) bool {
	return b.words[uint32(i)/64]&(1<<(uint32(i)%64)) != 0
}

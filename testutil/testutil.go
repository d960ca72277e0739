package testutil

import (
	"math/rand"
	"sync"
)

const alphabet = "ACGT"

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Sequence returns n uniformly random nucleotides.
func (r *RNG) Sequence(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sequenceLocked(n)
}

func (r *RNG) sequenceLocked(n int) []byte {
	seq := make([]byte, n)
	for i := range seq {
		seq[i] = alphabet[r.rand.Intn(4)]
	}
	return seq
}

// Sequences returns num random sequences of the given length.
// Uses a single backing array for efficiency.
func (r *RNG) Sequences(num, length int) [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := r.sequenceLocked(num * length)
	seqs := make([][]byte, num)
	for i := range num {
		seqs[i] = data[i*length : (i+1)*length : (i+1)*length]
	}
	return seqs
}

// Reads samples num substrings of the given length from genome, uniformly.
// Each k-mer of genome is covered about num*(length-k+1)/len(genome) times.
func (r *RNG) Reads(genome []byte, num, length int) [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	if length > len(genome) {
		length = len(genome)
	}
	reads := make([][]byte, num)
	for i := range reads {
		start := r.rand.Intn(len(genome) - length + 1)
		read := make([]byte, length)
		copy(read, genome[start:start+length])
		reads[i] = read
	}
	return reads
}

// Mutate returns a copy of seq where each position is substituted by a
// different nucleotide with probability rate.
func (r *RNG) Mutate(seq []byte, rate float64) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]byte, len(seq))
	copy(out, seq)
	for i := range out {
		if r.rand.Float64() >= rate {
			continue
		}
		for {
			c := alphabet[r.rand.Intn(4)]
			if c != out[i] {
				out[i] = c
				break
			}
		}
	}
	return out
}

// ReverseComplement returns the reverse complement of an upper-case ACGT string.
// It is a slow reference implementation for tests.
func ReverseComplement(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		var c byte
		switch s[i] {
		case 'A':
			c = 'T'
		case 'C':
			c = 'G'
		case 'G':
			c = 'C'
		case 'T':
			c = 'A'
		default:
			c = s[i]
		}
		out[len(s)-1-i] = c
	}
	return string(out)
}

// Canonical returns the lexicographically smaller of s and its reverse complement.
func Canonical(s string) string {
	if rc := ReverseComplement(s); rc < s {
		return rc
	}
	return s
}

// DistinctCanonical returns the set of distinct canonical k-mers of seqs.
// Windows containing symbols outside ACGT are skipped.
func DistinctCanonical(seqs [][]byte, k int) map[string]int {
	counts := make(map[string]int)
	for _, seq := range seqs {
	window:
		for i := 0; i+k <= len(seq); i++ {
			w := seq[i : i+k]
			for _, c := range w {
				switch c {
				case 'A', 'C', 'G', 'T':
				default:
					continue window
				}
			}
			counts[Canonical(string(w))]++
		}
	}
	return counts
}

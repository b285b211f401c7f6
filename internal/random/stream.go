package random

// splitmix64 constants. The increment positions the state for a given
// sequence number, so a stream can be reopened at any cursor in O(1).
const (
	gamma = 0x9E3779B97F4A7C15
	mixA  = 0xBF58476D1CE4E5B9
	mixB  = 0x94D049BB133111EB
)

// Stream is a deterministic 64-bit value stream addressed by a seed and a
// monotonically increasing sequence cursor.
//
// # Determinism
//
// Two streams opened with the same seed and sequence produce identical
// value sequences. The cursor only moves forward: the stream never rewinds
// itself, so replaying a draw requires reopening the stream at the recorded
// (seed, sequence) pair.
type Stream struct {
	seed     int64
	sequence uint64
}

// NewStream opens a stream at the provided seed and sequence cursor.
func NewStream(seed int64, sequence uint64) *Stream {
	return &Stream{seed: seed, sequence: sequence}
}

// Next returns the next 64-bit value and advances the sequence by one.
func (s *Stream) Next() uint64 {
	s.sequence++
	state := uint64(s.seed) + s.sequence*gamma

	z := state
	z = (z ^ (z >> 30)) * mixA
	z = (z ^ (z >> 27)) * mixB
	return z ^ (z >> 31)
}

// IntN returns a value in [0, bound). It panics if bound is not positive,
// matching the contract of math/rand.Intn.
func (s *Stream) IntN(bound int) int {
	if bound <= 0 {
		panic("random: bound must be positive")
	}
	return int(s.Next() % uint64(bound))
}

// Seed returns the seed the stream was opened with.
func (s *Stream) Seed() int64 {
	return s.seed
}

// Sequence returns the current cursor: the number of values consumed since
// sequence zero.
func (s *Stream) Sequence() uint64 {
	return s.sequence
}

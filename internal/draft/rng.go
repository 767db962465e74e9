package draft

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"strconv"
)

// Source is a deterministic pseudorandom stream seeded from a string.
//
// Bytes come from HMAC-SHA256(key=seed, message="draft:<round>") in 32-byte
// rounds; each Float64 consumes 4 bytes. Identical seeds produce identical
// streams on every platform.
type Source struct {
	mac    hash.Hash
	round  uint64
	pos    int
	buffer [32]byte
}

// NewSource creates a stream for the given seed.
func NewSource(seed string) *Source {
	s := &Source{mac: hmac.New(sha256.New, []byte(seed))}
	s.generateRound()
	return s
}

func (s *Source) generateRound() {
	s.mac.Reset()
	s.mac.Write([]byte("draft:" + strconv.FormatUint(s.round, 10)))
	copy(s.buffer[:], s.mac.Sum(nil))
	s.pos = 0
}

func (s *Source) next() byte {
	if s.pos >= len(s.buffer) {
		s.round++
		s.generateRound()
	}
	b := s.buffer[s.pos]
	s.pos++
	return b
}

// Float64 returns the next draw in [0,1).
func (s *Source) Float64() float64 {
	var b [4]byte
	for i := range b {
		b[i] = s.next()
	}
	return float64(binary.BigEndian.Uint32(b[:])) / (1 << 32)
}

// Intn returns a uniform index in [0,n). It panics if n <= 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		panic("draft: Intn called with non-positive n")
	}
	i := int(s.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

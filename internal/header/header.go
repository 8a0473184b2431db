/*
NAME
  header.go

DESCRIPTION
  header builds and recovers the 48-byte stream header (magic tag,
  payload length, SHA-256 of the payload) and its triplicated,
  majority-vote-recoverable on-wire form.
*/

// Package header implements the vortex stream header: a magic tag,
// payload length and integrity hash, triplicated for redundancy.
package header

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/vortexcodec/vortex/internal/params"
	"github.com/vortexcodec/vortex/internal/vortexerr"
)

// Magic is the fixed 8-byte tag identifying a vortex stream and codec
// version.
var Magic = [8]byte{0x44, 0x41, 0x43, 0x4F, 0x00, 0xFF, 0x00, 0x01}

// Header is the decoded contents of a recovered 48-byte header.
type Header struct {
	Magic  [8]byte
	Length uint64
	Hash   [32]byte
}

// Build constructs the 48-byte header for payload (the raw payload,
// before Hamming encoding) and returns it triplicated to
// params.HeaderTriplicatedLen bytes.
func Build(payload []byte) []byte {
	var single [params.HeaderLen]byte
	copy(single[0:8], Magic[:])
	binary.LittleEndian.PutUint64(single[8:16], uint64(len(payload)))
	hash := sha256.Sum256(payload)
	copy(single[16:48], hash[:])

	out := make([]byte, 0, params.HeaderTriplicatedLen)
	out = append(out, single[:]...)
	out = append(out, single[:]...)
	out = append(out, single[:]...)
	return out
}

// Recover takes a triplicated header of params.HeaderTriplicatedLen
// bytes and reconstructs a single header by bitwise majority vote
// across the three copies, then parses it. Recovery tolerates a single
// bit flip in at most one of the three copies at any given bit
// position; it only fails if the resulting bytes cannot be parsed,
// which cannot happen for this fixed-width layout, but the signature
// returns an error for forward-compatibility with alternate encodings.
func Recover(triplicated []byte) (Header, error) {
	if len(triplicated) != params.HeaderTriplicatedLen {
		return Header{}, vortexerr.Framingf(
			"header: triplicated input length (%d) does not match expected (%d)",
			len(triplicated), params.HeaderTriplicatedLen,
		)
	}

	part1 := triplicated[0:params.HeaderLen]
	part2 := triplicated[params.HeaderLen : 2*params.HeaderLen]
	part3 := triplicated[2*params.HeaderLen : 3*params.HeaderLen]

	var majority [params.HeaderLen]byte
	for i := 0; i < params.HeaderLen; i++ {
		majority[i] = (part1[i] & part2[i]) | (part2[i] & part3[i]) | (part1[i] & part3[i])
	}

	var h Header
	copy(h.Magic[:], majority[0:8])
	h.Length = binary.LittleEndian.Uint64(majority[8:16])
	copy(h.Hash[:], majority[16:48])
	return h, nil
}

// IsAllZero reports whether every byte of data is zero, used by the
// frame scan to distinguish a blank guard frame from a header frame.
func IsAllZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}

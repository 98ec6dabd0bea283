package nodehash

import (
	"encoding/binary"
	"hash"
)

// hashWriteUint64 feeds the sizes and positions committed to by the typed
// scheme to h as 8 big endian bytes.
func hashWriteUint64(h hash.Hash, value uint64) {
	b := [8]byte{}
	binary.BigEndian.PutUint64(b[:], value)
	h.Write(b[:])
}

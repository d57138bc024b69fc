package shape

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ContentHash identifies a tree by its content. Structurally identical
// trees with bit-identical numbers hash the same.
type ContentHash [sha256.Size]byte

// String returns the full hex digest.
func (h ContentHash) String() string {
	return hex.EncodeToString(h[:])
}

// Short returns the first 12 hex characters.
func (h ContentHash) Short() string {
	return h.String()[:12]
}

// Hash returns the SHA-256 of the canonical msgpack encoding of n.
func Hash(n *Node) ContentHash {
	b, err := msgpack.Marshal(toWire(n))
	if err != nil {
		// wireNode holds only plain values; encoding cannot fail.
		panic(fmt.Sprintf("shape: hash encode: %v", err))
	}
	return sha256.Sum256(b)
}

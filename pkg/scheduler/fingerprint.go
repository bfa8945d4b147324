package scheduler

import (
	"fmt"
	"hash/fnv"
)

// SampleSize is the number of leading ids hashed into a fingerprint.
const SampleSize = 50

// Fingerprint is a cheap structural summary of a node set.
type Fingerprint struct {
	Count int
	Hash  uint64
}

func (f Fingerprint) String() string {
	return fmt.Sprintf("%d:%016x", f.Count, f.Hash)
}

// FingerprintOf hashes the first SampleSize ids plus the last id.
func FingerprintOf(ids []string) Fingerprint {
	h := fnv.New64a()
	n := min(len(ids), SampleSize)
	for _, id := range ids[:n] {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	if len(ids) > n {
		h.Write([]byte(ids[len(ids)-1]))
	}
	return Fingerprint{Count: len(ids), Hash: h.Sum64()}
}

// Key is what a rebuild is compared on.
type Key struct {
	Fingerprint Fingerprint
	LayoutType  string
}

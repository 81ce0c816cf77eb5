package project

import (
	"crypto/sha256"
)

// Digest is a fixed 256-bit hash, compatible with source.File.Hash.
type Digest [32]byte

// Combine builds an aggregate hash: H(d1 || d2 || ...). Callers must feed
// the digests in a deterministic order.
func Combine(digests ...Digest) Digest {
	h := sha256.New()
	for _, d := range digests {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// ContentHash digests the manifest path plus every analyzed file's path and
// content hash, in file order. Two programs with the same hash would produce
// the same migration.
func (p *Program) ContentHash() Digest {
	h := sha256.New()
	_, _ = h.Write([]byte(p.Manifest.Path))
	for _, fid := range p.Files {
		sf := p.Tree.File(fid)
		f := p.FileSet.Get(sf.File)
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(f.Path))
		_, _ = h.Write(f.Hash[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// IsZero reports whether the digest is all zero bytes.
func (d Digest) IsZero() bool {
	var z Digest
	return d == z
}

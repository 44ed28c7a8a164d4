// Package digest computes hex digests by the algorithm names accepted for
// --import-hash-algorithm.
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"slices"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

// ErrUnknownAlgorithm is returned for algorithm names not in Algorithms().
var ErrUnknownAlgorithm = errors.New("digest: unknown algorithm")

var algorithms = map[string]func() hash.Hash{
	"md5":        md5.New,
	"sha1":       sha1.New,
	"sha224":     sha256.New224,
	"sha256":     sha256.New,
	"sha384":     sha512.New384,
	"sha512":     sha512.New,
	"sha512-224": sha512.New512_224,
	"sha512-256": sha512.New512_256,
	"sha3-224":   sha3.New224,
	"sha3-256":   sha3.New256,
	"sha3-384":   sha3.New384,
	"sha3-512":   sha3.New512,
	"blake2b512": func() hash.Hash {
		h, _ := blake2b.New512(nil)
		return h
	},
	"blake2s256": func() hash.Hash {
		h, _ := blake2s.New256(nil)
		return h
	},
}

// Supported reports whether name is a known algorithm.
func Supported(name string) bool {
	_, ok := algorithms[name]
	return ok
}

// Algorithms lists the supported algorithm names in sorted order.
func Algorithms() []string {
	names := make([]string, 0, len(algorithms))
	for n := range algorithms {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Sum returns the lower-case hex digest of data.
func Sum(algorithm string, data []byte) (string, error) {
	newHash, ok := algorithms[algorithm]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
	h := newHash()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

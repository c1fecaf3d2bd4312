// Package password implements the storefront password encoders.
//
// New hashes are produced by one configured algorithm; verification accepts
// any hash family the package knows, picked by the stored hash prefix. A value
// with no known prefix (legacy plaintext, for instance) never matches.
package password

import (
	"fmt"
	"strings"
)

// Algorithm names accepted by New.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// scheme is one hash family.
type scheme interface {
	// handles reports whether stored carries this scheme's prefix.
	handles(stored string) bool
	verify(plaintext, stored string) bool
}

// encodingScheme is a scheme that can also produce hashes.
type encodingScheme interface {
	scheme
	encode(plaintext string) (string, error)
}

// Options configures New.
type Options struct {
	Algorithm  string
	BcryptCost int
}

// Encoder encodes with a single scheme and verifies against all of them.
type Encoder struct {
	current encodingScheme
	schemes []scheme
}

// New returns an Encoder producing hashes with opts.Algorithm (bcrypt when empty).
func New(opts Options) (*Encoder, error) {
	bc := newBcryptScheme(opts.BcryptCost)
	ar := newArgon2idScheme()

	var current encodingScheme
	switch strings.ToLower(opts.Algorithm) {
	case "", AlgorithmBcrypt:
		current = bc
	case AlgorithmArgon2id:
		current = ar
	default:
		return nil, fmt.Errorf("password: unknown algorithm %q", opts.Algorithm)
	}

	return &Encoder{
		current: current,
		schemes: []scheme{bc, ar, unixCryptScheme{}},
	}, nil
}

// Encode hashes plaintext with the configured algorithm.
func (e *Encoder) Encode(plaintext string) (string, error) {
	return e.current.encode(plaintext)
}

// Matches reports whether plaintext verifies against stored.
func (e *Encoder) Matches(plaintext, stored string) bool {
	for _, s := range e.schemes {
		if s.handles(stored) {
			return s.verify(plaintext, stored)
		}
	}
	return false
}

// NeedsUpgrade reports whether stored was not produced by the configured
// algorithm, plaintext included.
func (e *Encoder) NeedsUpgrade(stored string) bool {
	return !e.current.handles(stored)
}

// Package common contains some data types and utilities used throughout
// the lms, ots and hss packages.
//
// This file implements the deterministic seed-derivation scheme an HSS
// key uses to expand its single root seed into every subtree, following
// the same keyed-derivation hash shape component D (lm_ots) already
// uses for its private-key elements.
package common

import (
	"crypto/sha256"
	"encoding/binary"
)

// DeriveChildSeed derives the seed for the subtree rooted at leaf q of
// the tree identified by (parentID, parentSeed), truncated to n bytes.
func DeriveChildSeed(parentID ID, parentSeed []byte, q uint32, n uint64) []byte {
	return deriveChild(parentID, parentSeed, q, SEED_CHILD_SEED, n)
}

// DeriveChildID derives the 16-byte I value for the subtree rooted at
// leaf q of the tree identified by (parentID, parentSeed).
func DeriveChildID(parentID ID, parentSeed []byte, q uint32) ID {
	var id ID
	copy(id[:], deriveChild(parentID, parentSeed, q, SEED_CHILD_I, ID_LEN))
	return id
}

func deriveChild(parentID ID, parentSeed []byte, q uint32, which uint16, n uint64) []byte {
	var qBe [4]byte
	var whichBe [2]byte
	binary.BigEndian.PutUint32(qBe[:], q)
	binary.BigEndian.PutUint16(whichBe[:], which)

	h := sha256.New()
	HashWrite(h, parentID[:])
	HashWrite(h, qBe[:])
	HashWrite(h, whichBe[:])
	HashWrite(h, []byte{0xff})
	HashWrite(h, parentSeed)

	return HashSum(h, n)
}

// DeriveTopLevel expands an HSS root seed into the (seed, I) pair of the
// top-most (level 0) LMS tree, using the D_TOPSEED domain separator so
// that this derivation can never collide with DeriveChildSeed/DeriveChildID,
// which are always called with a real parent I value.
//
// The root seed is first "pre-whitened" by hashing it together with the
// domain separator before deriving seed and I from the whitened value;
// this extra round is part of the derivation and not optional.
func DeriveTopLevel(rootSeed []byte, n uint64) (seed []byte, id ID) {
	preimage := make([]byte, 3+len(rootSeed))
	preimage[0] = byte(D_TOPSEED >> 8)
	preimage[1] = byte(D_TOPSEED & 0xff)
	// preimage[2] is the TOPSEED_WHICH byte, left zero for the
	// pre-whitening round below.
	copy(preimage[3:], rootSeed)

	h := sha256.New()
	HashWrite(h, preimage)
	whitened := h.Sum(nil)
	h.Reset()
	copy(preimage[3:], whitened[:len(rootSeed)])

	preimage[2] = TOPSEED_WHICH_SEED
	HashWrite(h, preimage)
	seed = HashSum(h, n)
	h.Reset()

	preimage[2] = TOPSEED_WHICH_I
	HashWrite(h, preimage)
	idBytes := HashSum(h, ID_LEN)
	h.Reset()

	copy(id[:], idBytes)
	return seed, id
}

// Package hss implements the Hierarchical Signature System (RFC 8554)
// on top of the lms and ots packages: a chain of up to MAX_HSS_LEVELS
// LMS trees, with only the top tree's public key published and every
// lower tree rederived on demand from one root seed.
package hss

import (
	"github.com/hbsig/hss-go/lms/common"
	"github.com/hbsig/hss-go/lms/lms"
)

// LevelParam selects the LMS and LM-OTS algorithm used by one level of
// an HSS key.
type LevelParam struct {
	Lms common.LmsAlgorithmType
	Ots common.LmsOtsAlgorithmType
}

// HssPrivateKey is a chain of L LMS trees signed from a single root
// seed. Every level's (seed, I) is rederived fresh on each Sign call;
// nothing but q and the root seed is carried between signatures.
type HssPrivateKey struct {
	levels    []LevelParam
	q         uint64
	rootSeed  []byte
	exhausted bool
}

// HssPublicKey is the published root of an HSS private key.
type HssPublicKey struct {
	l      uint32
	rootPk lms.LmsPublicKey
}

// SignedPublicKey is one link of an HSS signature chain: the signature
// a parent level produced over the next level's public key.
type SignedPublicKey struct {
	signature lms.LmsSignature
	publicKey lms.LmsPublicKey
}

// HssSignature is the chain of signed public keys down to the final
// message signature.
type HssSignature struct {
	signedPublicKeys []SignedPublicKey
	signature        lms.LmsSignature
}

// Q returns the current global leaf counter.
func (priv *HssPrivateKey) Q() uint64 {
	return priv.q
}

// Exhausted reports whether every leaf of this key has been signed.
func (priv *HssPrivateKey) Exhausted() bool {
	return priv.exhausted
}

// L returns the number of levels in this public key.
func (pub *HssPublicKey) L() uint32 {
	return pub.l
}

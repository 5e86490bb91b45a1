package hss

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/hbsig/hss-go/lms/common"
	"github.com/hbsig/hss-go/lms/lms"
)

// GeneratePrivateKey returns a new HssPrivateKey for the given chain of
// levels, seeded by a cryptographically secure random number generator.
func GeneratePrivateKey(levels []LevelParam) (HssPrivateKey, error) {
	if err := validateLevels(levels); err != nil {
		return HssPrivateKey{}, err
	}
	params, err := levels[0].Ots.Params()
	if err != nil {
		return HssPrivateKey{}, err
	}

	rootSeed := make([]byte, params.N)
	if _, err := rand.Read(rootSeed); err != nil {
		return HssPrivateKey{}, err
	}

	return NewPrivateKeyFromSeed(levels, rootSeed)
}

// NewPrivateKeyFromSeed returns a new HssPrivateKey deterministically
// derived from rootSeed, with Q starting at 0.
func NewPrivateKeyFromSeed(levels []LevelParam, rootSeed []byte) (HssPrivateKey, error) {
	if err := validateLevels(levels); err != nil {
		return HssPrivateKey{}, err
	}
	params, err := levels[0].Ots.Params()
	if err != nil {
		return HssPrivateKey{}, err
	}
	if uint64(len(rootSeed)) != params.N {
		return HssPrivateKey{}, errors.New("NewPrivateKeyFromSeed(): root seed has the wrong length for level 0")
	}

	return HssPrivateKey{
		levels:   levels,
		q:        0,
		rootSeed: rootSeed,
	}, nil
}

// levelTrees derives the (seed, I) pair for every level and builds the
// corresponding LmsPrivateKey positioned at the leaf index that level's
// slice of Q calls for. Every level is rederived from scratch: nothing
// is cached between signing calls, per the naive-recomputation design.
func (priv *HssPrivateKey) levelTrees(qIndices []uint32) ([]lms.LmsPrivateKey, error) {
	trees := make([]lms.LmsPrivateKey, len(priv.levels))

	ots0, err := priv.levels[0].Ots.Params()
	if err != nil {
		return nil, err
	}
	seed, id := common.DeriveTopLevel(priv.rootSeed, ots0.N)

	for k, lvl := range priv.levels {
		tree, err := lms.NewPrivateKeyFromSeedAtIndex(lvl.Lms, lvl.Ots, id, seed, qIndices[k])
		if err != nil {
			return nil, err
		}
		trees[k] = tree

		if k+1 < len(priv.levels) {
			nextOts, err := priv.levels[k+1].Ots.Params()
			if err != nil {
				return nil, err
			}
			nextSeed := common.DeriveChildSeed(id, seed, qIndices[k], nextOts.N)
			nextID := common.DeriveChildID(id, seed, qIndices[k])
			seed, id = nextSeed, nextID
		}
	}

	return trees, nil
}

// Sign produces an HSS signature over msg and advances Q by one. The
// rng argument is optional; if nil, crypto/rand.Reader is used for
// every LM-OTS nonce drawn along the chain.
func (priv *HssPrivateKey) Sign(msg []byte, rng io.Reader) (HssSignature, error) {
	if rng == nil {
		rng = rand.Reader
	}
	if priv.exhausted {
		return HssSignature{}, errors.New("Sign(): private key is exhausted")
	}

	heights, err := levelHeights(priv.levels)
	if err != nil {
		return HssSignature{}, err
	}
	totalCapacity := capacity(heights)
	if totalCapacity.IsUint64() && priv.q >= totalCapacity.Uint64() {
		priv.exhausted = true
		return HssSignature{}, errors.New("Sign(): private key is exhausted")
	}

	qIndices := decomposeQ(priv.q, heights)
	trees, err := priv.levelTrees(qIndices)
	if err != nil {
		return HssSignature{}, err
	}

	L := len(priv.levels)
	signedPublicKeys := make([]SignedPublicKey, L-1)
	for k := 0; k < L-1; k++ {
		nextPub := trees[k+1].Public()
		sig, err := trees[k].Sign(nextPub.ToBytes(), rng)
		if err != nil {
			return HssSignature{}, err
		}
		signedPublicKeys[k] = SignedPublicKey{signature: sig, publicKey: nextPub}
	}

	finalSig, err := trees[L-1].Sign(msg, rng)
	if err != nil {
		return HssSignature{}, err
	}

	priv.q++
	if totalCapacity.IsUint64() && priv.q >= totalCapacity.Uint64() {
		priv.exhausted = true
	}

	return HssSignature{
		signedPublicKeys: signedPublicKeys,
		signature:        finalSig,
	}, nil
}

// Public returns the HssPublicKey that validates signatures produced by
// this private key. The public key does not depend on Q, so it can be
// computed with the level-0 tree fixed at leaf 0.
func (priv *HssPrivateKey) Public() (HssPublicKey, error) {
	ots0, err := priv.levels[0].Ots.Params()
	if err != nil {
		return HssPublicKey{}, err
	}
	seed, id := common.DeriveTopLevel(priv.rootSeed, ots0.N)

	tree0, err := lms.NewPrivateKeyFromSeedAtIndex(priv.levels[0].Lms, priv.levels[0].Ots, id, seed, 0)
	if err != nil {
		return HssPublicKey{}, err
	}

	return HssPublicKey{
		l:      uint32(len(priv.levels)),
		rootPk: tree0.Public(),
	}, nil
}

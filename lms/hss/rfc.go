// This file implements the RFC-style private-key wire format:
// u64(Q) || compressed_parameter_set[8] || seed[n], per
// original_source/hss/rfc_private_key.rs.
package hss

import (
	"encoding/binary"
	"errors"

	"github.com/hbsig/hss-go/lms/common"
)

// ToBytes serializes the private key's persistable state: the global
// counter, the level parameter set, and the root seed. The derived
// per-level trees are never serialized - they are always rederived.
func (priv *HssPrivateKey) ToBytes() ([]byte, error) {
	var serialized []byte
	var u64_be [8]byte

	binary.BigEndian.PutUint64(u64_be[:], priv.q)
	serialized = append(serialized, u64_be[:]...)

	paramSet, err := packParamSet(priv.levels)
	if err != nil {
		return nil, err
	}
	serialized = append(serialized, paramSet...)
	serialized = append(serialized, priv.rootSeed...)

	return serialized, nil
}

// HssPrivateKeyFromBytes returns an HssPrivateKey that represents b.
// This is the inverse of ToBytes.
func HssPrivateKeyFromBytes(b []byte) (HssPrivateKey, error) {
	if uint64(len(b)) < 8+common.MAX_HSS_LEVELS {
		return HssPrivateKey{}, errors.New("HssPrivateKeyFromBytes(): key is too short")
	}

	q := binary.BigEndian.Uint64(b[0:8])
	levels, err := unpackParamSet(b[8 : 8+common.MAX_HSS_LEVELS])
	if err != nil {
		return HssPrivateKey{}, err
	}

	seed := b[8+common.MAX_HSS_LEVELS:]
	ots0, err := levels[0].Ots.Params()
	if err != nil {
		return HssPrivateKey{}, err
	}
	if uint64(len(seed)) != ots0.N {
		return HssPrivateKey{}, errors.New("HssPrivateKeyFromBytes(): root seed has the wrong length for level 0")
	}

	return HssPrivateKey{
		levels:   levels,
		q:        q,
		rootSeed: seed,
	}, nil
}

// packParamSet packs each level's (LMS, LM-OTS) pair into one byte,
// padding with PARAM_SET_END up to MAX_HSS_LEVELS slots.
func packParamSet(levels []LevelParam) ([]byte, error) {
	packed := make([]byte, common.MAX_HSS_LEVELS)
	for i := range packed {
		packed[i] = common.PARAM_SET_END
	}

	for i, lvl := range levels {
		b, err := common.PackLevelByte(lvl.Lms, lvl.Ots)
		if err != nil {
			return nil, err
		}
		packed[i] = b
	}

	return packed, nil
}

// unpackParamSet is the inverse of packParamSet: it decodes levels
// until it hits the PARAM_SET_END terminator, and requires every byte
// after that terminator to also be PARAM_SET_END.
func unpackParamSet(packed []byte) ([]LevelParam, error) {
	var levels []LevelParam
	terminated := false

	for _, b := range packed {
		if b == common.PARAM_SET_END {
			terminated = true
			continue
		}
		if terminated {
			return nil, errors.New("unpackParamSet(): non-terminator byte after PARAM_SET_END")
		}
		lmsType, otsType, err := common.UnpackLevelByte(b)
		if err != nil {
			return nil, err
		}
		levels = append(levels, LevelParam{Lms: lmsType, Ots: otsType})
	}

	if len(levels) < 1 {
		return nil, errors.New("unpackParamSet(): no levels")
	}
	return levels, nil
}

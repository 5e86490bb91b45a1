// Package ots implements one-time signatures (LM-OTS) for use in LMS
//
// This file implements the signature (including serialization).
package ots

import (
	"encoding/binary"
	"errors"

	"github.com/hbsig/hss-go/lms/common"
)

// LmsOtsSignatureFromBytes returns an LmsOtsSignature represented by b.
func LmsOtsSignatureFromBytes(b []byte) (LmsOtsSignature, error) {
	if len(b) < 4 {
		return LmsOtsSignature{}, errors.New("LmsOtsSignatureFromBytes(): no typecode")
	}

	// Typecode is the first 4 bytes
	typecode, err := common.Uint32ToLmotsType(binary.BigEndian.Uint32(b[0:4])).LmsOtsType()
	if err != nil {
		return LmsOtsSignature{}, err
	}
	params, err := typecode.Params()
	if err != nil {
		return LmsOtsSignature{}, err
	}

	// check the length of the signature
	if uint64(len(b)) < params.SIG_LEN {
		return LmsOtsSignature{}, errors.New("LmsOtsSignatureFromBytes(): signature too short")
	} else if uint64(len(b)) > params.SIG_LEN {
		return LmsOtsSignature{}, errors.New("LmsOtsSignatureFromBytes(): signature too long")
	}

	// parse the signature
	c := b[4 : 4+int(params.N)]
	cur := uint64(4 + params.N)

	y := make([][]byte, params.P)
	for i := uint64(0); i < params.P; i++ {
		y[i] = b[cur : cur+params.N]
		cur += params.N
	}

	return LmsOtsSignature{
		typecode: typecode,
		c:        c,
		y:        y,
	}, nil
}

// Typecode returns the LM-OTS algorithm this signature claims to be
// encoded under. Callers that bind a signature to a specific algorithm
// (e.g. the LMS layer, which expects a fixed OTS type per public key)
// must check this against their own expectation - RecoverPublicKey
// trusts whatever type code the signature carries.
func (sig *LmsOtsSignature) Typecode() common.LmsOtsAlgorithmType {
	return sig.typecode
}

// PeekLmsOtsSignatureLength returns the total on-wire length of the
// LM-OTS signature that begins at b, without parsing it. Used by the
// LMS and HSS layers to find the boundary between a signature and
// whatever follows it in a larger, chained wire format.
func PeekLmsOtsSignatureLength(b []byte) (uint64, error) {
	if len(b) < 4 {
		return 0, errors.New("PeekLmsOtsSignatureLength(): no typecode")
	}
	typecode, err := common.Uint32ToLmotsType(binary.BigEndian.Uint32(b[0:4])).LmsOtsType()
	if err != nil {
		return 0, err
	}
	return typecode.LmsOtsSigLength()
}

// ToBytes() serializes the LM-OTS signature into a byte string for transmission or storage.
func (sig *LmsOtsSignature) ToBytes() ([]byte, error) {
	typecode, err := sig.typecode.LmsOtsType()
	if err != nil {
		return nil, err
	}
	params, err := typecode.Params()
	if err != nil {
		return nil, err
	}

	var serialized []byte
	var u32_be [4]byte

	// First 4 bytes: LMOTS typecode
	binary.BigEndian.PutUint32(u32_be[:], typecode.ToUint32())
	serialized = append(serialized, u32_be[:]...)

	// Next N bytes: nonce C
	serialized = append(serialized, sig.c...)

	// Next P * N bytes: y[0] ... y[p-1]
	for i := uint64(0); i < params.P; i++ {
		serialized = append(serialized, sig.y[i]...)
	}

	return serialized, nil
}

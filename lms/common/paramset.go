// Package common contains some data types and utilities used throughout
// the lms, ots and hss packages.
//
// This file implements the compressed parameter-set encoding used by the
// RFC-style HSS private-key blob: one byte per level, (lms_type<<4) |
// lmots_type, terminated by 0xFF.
package common

import (
	"errors"
	"fmt"
)

// PackLevelByte packs one HSS level's (LMS, LM-OTS) type pair into the
// single byte used by the compressed parameter set. Both typecodes must
// fit in a nibble, which holds for every type code registered today.
func PackLevelByte(tc LmsAlgorithmType, otstc LmsOtsAlgorithmType) (byte, error) {
	lms, err := tc.LmsType()
	if err != nil {
		return 0, fmt.Errorf("PackLevelByte(): %w", err)
	}
	ots, err := otstc.LmsOtsType()
	if err != nil {
		return 0, fmt.Errorf("PackLevelByte(): %w", err)
	}

	lmsNibble := lms.ToUint32()
	otsNibble := ots.ToUint32()
	if lmsNibble > 0x0f || otsNibble > 0x0f {
		return 0, errors.New("PackLevelByte(): type code does not fit in a nibble")
	}

	return byte(lmsNibble<<4) | byte(otsNibble), nil
}

// UnpackLevelByte is the inverse of PackLevelByte. It rejects any byte
// whose nibbles do not decode to a pair of registered type codes.
func UnpackLevelByte(b byte) (LmsAlgorithmType, LmsOtsAlgorithmType, error) {
	lmsNibble := uint32(b >> 4)
	otsNibble := uint32(b & 0x0f)

	lms, err := Uint32ToLmsType(lmsNibble).LmsType()
	if err != nil {
		return nil, nil, fmt.Errorf("UnpackLevelByte(): %w", err)
	}
	ots, err := Uint32ToLmotsType(otsNibble).LmsOtsType()
	if err != nil {
		return nil, nil, fmt.Errorf("UnpackLevelByte(): %w", err)
	}

	return lms, ots, nil
}

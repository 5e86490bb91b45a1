// Package common contains some data types and utilities used throughout
// the lms, ots and hss packages.
//
// This file defines values that should be treated as constants.
package common

const ID_LEN uint64 = 16

// MAX_HSS_LEVELS is the largest L the compressed HSS parameter set and
// the RFC-style private key blob can express: one nibble pair per byte,
// eight bytes total.
const MAX_HSS_LEVELS uint64 = 8

// PARAM_SET_END marks unused trailing levels in a compressed parameter set.
const PARAM_SET_END uint8 = 0xff

// arrays cannot be constant in go
// please never change these values
var D_PBLC = [2]uint8{0x80, 0x80}
var D_MESG = [2]uint8{0x81, 0x81}
var D_LEAF = [2]uint8{0x82, 0x82}
var D_INTR = [2]uint8{0x83, 0x83}

// D_TOPSEED separates the HSS root (seed, I) derivation from every other
// domain-separated hash in this package; TOPSEED_WHICH selects which of
// the two outputs (seed or I) a given derivation call produces.
const D_TOPSEED uint16 = 0x7768

const (
	TOPSEED_WHICH_SEED uint8 = 0x01
	TOPSEED_WHICH_I    uint8 = 0x02
)

// SEED_CHILD_SEED and SEED_CHILD_I are reserved indices used in place of
// the LM-OTS chain index i when deriving a child tree's (seed, I) pair
// from its parent. Every registered LM-OTS parameter set has p < 0xfffe,
// so these sentinels never collide with a real chain-index derivation.
const (
	SEED_CHILD_SEED uint16 = 0xfffe
	SEED_CHILD_I    uint16 = 0xffff
)

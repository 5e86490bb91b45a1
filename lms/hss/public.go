package hss

import (
	"encoding/binary"
	"errors"

	"github.com/hbsig/hss-go/lms/lms"
)

// Verify returns true if sig is a valid HSS signature of msg under pub.
// It walks the chain top-down: each level's signature is checked
// against the serialized public key of the level below, then that
// public key becomes the verifying key for the next link; the last
// link verifies msg itself.
func (pub *HssPublicKey) Verify(msg []byte, sig HssSignature) bool {
	if uint32(len(sig.signedPublicKeys)+1) != pub.l {
		return false
	}

	key := pub.rootPk
	for _, link := range sig.signedPublicKeys {
		if !key.Verify(link.publicKey.ToBytes(), link.signature) {
			return false
		}
		key = link.publicKey
	}

	return key.Verify(msg, sig.signature)
}

// ToBytes serializes the public key into a byte string for
// transmission or storage: u32(L) || lms_pubkey_0.
func (pub *HssPublicKey) ToBytes() []byte {
	var serialized []byte
	var u32_be [4]byte

	binary.BigEndian.PutUint32(u32_be[:], pub.l)
	serialized = append(serialized, u32_be[:]...)
	serialized = append(serialized, pub.rootPk.ToBytes()...)

	return serialized
}

// HssPublicKeyFromBytes returns an HssPublicKey that represents b. This
// is the inverse of ToBytes.
func HssPublicKeyFromBytes(b []byte) (HssPublicKey, error) {
	if len(b) < 4 {
		return HssPublicKey{}, errors.New("HssPublicKeyFromBytes(): key is too short")
	}
	l := binary.BigEndian.Uint32(b[0:4])
	if l < 1 {
		return HssPublicKey{}, errors.New("HssPublicKeyFromBytes(): L must be at least 1")
	}

	rootPk, err := lms.LmsPublicKeyFromBytes(b[4:])
	if err != nil {
		return HssPublicKey{}, err
	}

	return HssPublicKey{l: l, rootPk: rootPk}, nil
}

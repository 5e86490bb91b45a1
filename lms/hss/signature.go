package hss

import (
	"encoding/binary"
	"errors"

	"github.com/hbsig/hss-go/lms/lms"
)

// ToBytes serializes the signature into a byte string for transmission
// or storage: u32(Nspk) || (lms_sig_k || lms_pub_{k+1}) for each link
// || lms_sig over the message.
func (sig *HssSignature) ToBytes() ([]byte, error) {
	var serialized []byte
	var u32_be [4]byte

	binary.BigEndian.PutUint32(u32_be[:], uint32(len(sig.signedPublicKeys)))
	serialized = append(serialized, u32_be[:]...)

	for _, link := range sig.signedPublicKeys {
		linkSig, err := link.signature.ToBytes()
		if err != nil {
			return nil, err
		}
		serialized = append(serialized, linkSig...)
		serialized = append(serialized, link.publicKey.ToBytes()...)
	}

	finalSig, err := sig.signature.ToBytes()
	if err != nil {
		return nil, err
	}
	serialized = append(serialized, finalSig...)

	return serialized, nil
}

// HssSignatureFromBytes returns an HssSignature that represents b. This
// is the inverse of ToBytes. L (the expected chain depth) is supplied by
// the caller from the corresponding HssPublicKey; the signature's own
// Nspk field must equal L-1 or parsing fails.
func HssSignatureFromBytes(b []byte, l uint32) (HssSignature, error) {
	if len(b) < 4 {
		return HssSignature{}, errors.New("HssSignatureFromBytes(): signature is too short")
	}

	nspk := binary.BigEndian.Uint32(b[0:4])
	if nspk+1 != l {
		return HssSignature{}, errors.New("HssSignatureFromBytes(): level count mismatch")
	}

	cur := 4
	signedPublicKeys := make([]SignedPublicKey, nspk)
	for i := uint32(0); i < nspk; i++ {
		sigLen, err := lms.PeekLmsSignatureLength(b[cur:])
		if err != nil {
			return HssSignature{}, err
		}
		if uint64(len(b)-cur) < sigLen {
			return HssSignature{}, errors.New("HssSignatureFromBytes(): signature is too short")
		}
		linkSig, err := lms.LmsSignatureFromBytes(b[cur : cur+int(sigLen)])
		if err != nil {
			return HssSignature{}, err
		}
		cur += int(sigLen)

		pubLen, err := lms.PeekLmsPublicKeyLength(b[cur:])
		if err != nil {
			return HssSignature{}, err
		}
		if uint64(len(b)-cur) < pubLen {
			return HssSignature{}, errors.New("HssSignatureFromBytes(): public key is too short")
		}
		linkPub, err := lms.LmsPublicKeyFromBytes(b[cur : cur+int(pubLen)])
		if err != nil {
			return HssSignature{}, err
		}
		cur += int(pubLen)

		signedPublicKeys[i] = SignedPublicKey{signature: linkSig, publicKey: linkPub}
	}

	finalSig, err := lms.LmsSignatureFromBytes(b[cur:])
	if err != nil {
		return HssSignature{}, err
	}

	return HssSignature{
		signedPublicKeys: signedPublicKeys,
		signature:        finalSig,
	}, nil
}

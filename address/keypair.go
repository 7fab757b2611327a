package address

import "crypto/ed25519"

// KeyPair holds an Ed25519 key pair derived from a 32-byte seed, plus the
// seed itself so callers can zeroize it once signing is done.
type KeyPair struct {
	Seed    [32]byte
	Private ed25519.PrivateKey
	Public  ed25519.PublicKey
}

// NewKeyPairFromSeed derives an Ed25519 key pair from a 32-byte seed, as
// produced by AddressToSeed / ExtractIdentitySeed.
func NewKeyPairFromSeed(seed [32]byte) *KeyPair {
	priv := ed25519.NewKeyFromSeed(seed[:])
	return &KeyPair{
		Seed:    seed,
		Private: priv,
		Public:  priv.Public().(ed25519.PublicKey),
	}
}

// PublicKey32 copies the public key into a fixed-size array, the form the
// Codec and RCD-building code expect.
func (kp *KeyPair) PublicKey32() [32]byte {
	var pub [32]byte
	copy(pub[:], kp.Public)
	return pub
}

// Sign produces a detached Ed25519 signature over message.
func (kp *KeyPair) Sign(message []byte) []byte {
	return ed25519.Sign(kp.Private, message)
}

// Verify checks a detached Ed25519 signature against a raw 32-byte public key.
func Verify(pubKey [32]byte, message, signature []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(pubKey[:]), message, signature)
}

// Zero overwrites the seed and private key bytes in place. Callers holding
// a KeyPair only transiently (builders) should call this once signing
// completes.
func (kp *KeyPair) Zero() {
	for i := range kp.Seed {
		kp.Seed[i] = 0
	}
	for i := range kp.Private {
		kp.Private[i] = 0
	}
}

// Package address adapts the external Factoid/identity address codec that
// the token core treats as a black box (see spec section 4.2). It exposes
// the small capability surface the rest of the library needs — classifying
// address strings, deriving seeds and public addresses — behind a Codec
// interface, plus a self-contained default implementation grounded in the
// real Factoid address scheme (version prefix + RCD hash + checksum,
// base58-encoded) so the library is usable without an external dependency
// wired in.
package address

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"

	"fattoken/errs"
)

// Reserved sentinel addresses (spec section 3.2 / 6.3).
const (
	CoinbasePublic  = "FA1zT4aFpEvcnPqPCigB3fvGu4Q4mTXY22iiuV69DqE1pNhdF2MC"
	CoinbasePrivate = "Fs1KWJrpLdfucvmYwN2nWrwepLn8ercpMbzXshd1g8zyhKXLVLWj"

	// RCDType1 tags an RCD as "single Ed25519 key, single signature".
	RCDType1 byte = 0x01
)

// Role names used in InvalidAddress errors.
const (
	RolePrivateFct = "private_fct"
	RolePublicFct  = "public_fct"
	RoleSK1        = "sk1"
	RoleID1        = "id1"
)

var (
	prefixPrivateFct = []byte{0x64, 0x78}
	prefixPublicFct  = []byte{0x5f, 0xb1}
	prefixSK1        = []byte{0x4d, 0xb6, 0xc9}
	prefixID1        = []byte{0x3f, 0xbe, 0xba}
)

const (
	payloadLen  = 32
	checksumLen = 4
)

// Codec is the external address/key capability set the token core
// consumes (spec section 4.2). Implementations need add no logic beyond
// type/length guards; Base58Codec below provides the default.
type Codec interface {
	IsValidPrivateFct(s string) bool
	IsValidPublicFct(s string) bool
	IsValidSK1(s string) bool
	IsValidID1(s string) bool

	AddressToSeed(privateFct string) ([32]byte, error)
	PublicAddressOf(privateFct string) (string, error)
	KeyToPublicFct(pubKey [32]byte) (string, error)
	ExtractIdentitySeed(sk1 string) ([32]byte, error)
	ExtractIdentityPublic(id1 string) ([32]byte, error)
	ComputeTokenChainID(tokenID string, issuerChainIDHex string) (string, error)
}

// Default is the Codec used when a builder is not given one explicitly.
var Default Codec = Base58Codec{}

// Base58Codec implements Codec using the real Factoid address layout:
// a version prefix (2 bytes for Fs/FA addresses, 3 bytes for sk1/id1
// identity keys), a 32-byte payload, and a 4-byte double-SHA256
// checksum, all base58-encoded.
type Base58Codec struct{}

func (Base58Codec) IsValidPrivateFct(s string) bool { return validate(s, prefixPrivateFct) == nil }
func (Base58Codec) IsValidPublicFct(s string) bool  { return validate(s, prefixPublicFct) == nil }
func (Base58Codec) IsValidSK1(s string) bool        { return validate(s, prefixSK1) == nil }
func (Base58Codec) IsValidID1(s string) bool        { return validate(s, prefixID1) == nil }

func (c Base58Codec) AddressToSeed(privateFct string) ([32]byte, error) {
	var seed [32]byte
	payload, err := validate(privateFct, prefixPrivateFct)
	if err != nil {
		return seed, errs.Address(RolePrivateFct, err.Error())
	}
	copy(seed[:], payload)
	return seed, nil
}

func (c Base58Codec) PublicAddressOf(privateFct string) (string, error) {
	seed, err := c.AddressToSeed(privateFct)
	if err != nil {
		return "", err
	}
	priv := ed25519.NewKeyFromSeed(seed[:])
	pub := priv.Public().(ed25519.PublicKey)
	var pubArr [32]byte
	copy(pubArr[:], pub)
	return c.KeyToPublicFct(pubArr)
}

func (Base58Codec) KeyToPublicFct(pubKey [32]byte) (string, error) {
	rcd := append([]byte{RCDType1}, pubKey[:]...)
	sum := sha256.Sum256(rcd)
	sum = sha256.Sum256(sum[:])
	return encode(prefixPublicFct, sum[:]), nil
}

func (c Base58Codec) ExtractIdentitySeed(sk1 string) ([32]byte, error) {
	var seed [32]byte
	payload, err := validate(sk1, prefixSK1)
	if err != nil {
		return seed, errs.IssuerKey(RoleSK1, err.Error())
	}
	copy(seed[:], payload)
	return seed, nil
}

func (c Base58Codec) ExtractIdentityPublic(id1 string) ([32]byte, error) {
	var pub [32]byte
	payload, err := validate(id1, prefixID1)
	if err != nil {
		return pub, errs.IssuerKey(RoleID1, err.Error())
	}
	copy(pub[:], payload)
	return pub, nil
}

// ComputeTokenChainID derives token_chain_id = H(token_id, "0", issuer_chain_id)
// the way the underlying chain system derives any chain ID from its ext-ids:
// the SHA-256 of the concatenation of the SHA-256 of each ext-id (spec
// section 6.2). Implementations MUST call the ecosystem's canonical helper
// rather than reimplementing; Base58Codec stands in for that helper.
func (Base58Codec) ComputeTokenChainID(tokenID string, issuerChainIDHex string) (string, error) {
	issuerBytes, err := hex.DecodeString(issuerChainIDHex)
	if err != nil || len(issuerBytes) != 32 {
		return "", errs.New(errs.InvalidChainId, "issuer chain ID must be 64 hex characters")
	}
	extIDs := [][]byte{[]byte(tokenID), []byte("0"), issuerBytes}
	digest := sha256.New()
	for _, ext := range extIDs {
		sum := sha256.Sum256(ext)
		digest.Write(sum[:])
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}

// EncodePrivateFct encodes a raw 32-byte seed as a private Factoid
// address. Most callers derive addresses from existing private keys, but
// tooling and tests that mint a keypair from scratch need a way to turn
// the seed into the address string the rest of this package accepts.
func EncodePrivateFct(seed [32]byte) string { return encode(prefixPrivateFct, seed[:]) }

// EncodeSK1 encodes a raw 32-byte seed as an sk1 identity private key.
func EncodeSK1(seed [32]byte) string { return encode(prefixSK1, seed[:]) }

// EncodeID1 encodes a raw 32-byte public key as an id1 identity public key.
func EncodeID1(pub [32]byte) string { return encode(prefixID1, pub[:]) }

func encode(prefix []byte, payload []byte) string {
	body := append(append([]byte{}, prefix...), payload...)
	sum := sha256.Sum256(body)
	sum = sha256.Sum256(sum[:])
	full := append(body, sum[:checksumLen]...)
	return base58.Encode(full)
}

// validate decodes s, checks its prefix and checksum, and returns the
// 32-byte payload.
func validate(s string, prefix []byte) ([]byte, error) {
	decoded := base58.Decode(s)
	if len(decoded) != len(prefix)+payloadLen+checksumLen {
		return nil, fmt.Errorf("unexpected decoded length %d", len(decoded))
	}
	for i, b := range prefix {
		if decoded[i] != b {
			return nil, fmt.Errorf("unexpected address prefix")
		}
	}
	body := decoded[:len(prefix)+payloadLen]
	checksum := decoded[len(prefix)+payloadLen:]
	sum := sha256.Sum256(body)
	sum = sha256.Sum256(sum[:])
	for i := 0; i < checksumLen; i++ {
		if checksum[i] != sum[i] {
			return nil, fmt.Errorf("checksum mismatch")
		}
	}
	return body[len(prefix):], nil
}

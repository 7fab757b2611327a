// Package txcore holds the transaction/builder logic shared by the FAT-0
// and FAT-1 packages: everything in the spec that depends only on "some
// amount type A", not on whether A is a uint64 balance or an NFT ID set.
// fat0 and fat1 each instantiate the generic types here and supply the
// amount-specific validation the spec calls out as varying between them.
package txcore

import (
	"encoding/json"
)

// Input is one funding line of a transaction: a public Factoid address
// (or the coinbase sentinel) paired with the amount it contributes.
type Input[A any] struct {
	Address  string
	Amount   A
	Coinbase bool
}

// Output is one destination line of a transaction: a public Factoid
// address (or the coinbase sentinel, meaning burn) paired with the
// amount it receives.
type Output[A any] struct {
	Address string
	Amount  A
	Burn    bool
}

// TokenMetadataEntry is one entry of a FAT-1 coinbase transaction's
// optional token_metadata list: an ID set paired with caller-supplied
// JSON describing the newly minted tokens in that set.
type TokenMetadataEntry[A any] struct {
	IDs      A
	Metadata json.RawMessage
}

// Transaction is the immutable, fully-built result of a Builder. Every
// field is populated at construction time and never mutated afterward;
// all access goes through the Get* methods below so callers can't reach
// into a built transaction and change it out from under a signature.
type Transaction[A any] struct {
	chainID       string
	inputs        []Input[A]
	outputs       []Output[A]
	metadata      json.RawMessage // nil if absent
	tokenMetadata []TokenMetadataEntry[A]
	timestamp     int64
	content       []byte // canonical content bytes, excluding signatures
	rcds          [][]byte
	signatures    [][]byte

	// expectedIssuerID1 is set only for a coinbase transaction whose issuer
	// signature was deferred via ID1 rather than signed immediately via
	// SK1 (spec section 4.4's two-phase flow, applied to the issuer
	// identity key rather than an ordinary input). It has no bearing on
	// content or signing and exists purely so a Builder re-wrapping this
	// transaction for external signing knows which identity key slot 0 is
	// waiting on.
	expectedIssuerID1 string
}

// GetExpectedIssuerID1 reports the id1 identity address a pending coinbase
// signature is waiting on, if any.
func (t *Transaction[A]) GetExpectedIssuerID1() (string, bool) {
	if t.expectedIssuerID1 == "" {
		return "", false
	}
	return t.expectedIssuerID1, true
}

func (t *Transaction[A]) GetChainID() string { return t.chainID }

func (t *Transaction[A]) GetInputs() []Input[A] {
	out := make([]Input[A], len(t.inputs))
	copy(out, t.inputs)
	return out
}

func (t *Transaction[A]) GetOutputs() []Output[A] {
	out := make([]Output[A], len(t.outputs))
	copy(out, t.outputs)
	return out
}

func (t *Transaction[A]) GetMetadata() (json.RawMessage, bool) {
	if t.metadata == nil {
		return nil, false
	}
	out := make(json.RawMessage, len(t.metadata))
	copy(out, t.metadata)
	return out, true
}

func (t *Transaction[A]) GetTokenMetadata() []TokenMetadataEntry[A] {
	out := make([]TokenMetadataEntry[A], len(t.tokenMetadata))
	copy(out, t.tokenMetadata)
	return out
}

func (t *Transaction[A]) GetTimestamp() int64 { return t.timestamp }

func (t *Transaction[A]) GetContent() []byte {
	out := make([]byte, len(t.content))
	copy(out, t.content)
	return out
}

// IsCoinbase reports whether the sole input is the coinbase sentinel.
func (t *Transaction[A]) IsCoinbase() bool {
	return len(t.inputs) == 1 && t.inputs[0].Coinbase
}

// RCD returns the redeem-condition datastructure for input slot i, or nil
// if that slot hasn't been filled yet (a partially-built, external-signing
// transaction).
func (t *Transaction[A]) RCD(i int) []byte {
	if i < 0 || i >= len(t.rcds) || len(t.rcds[i]) == 0 {
		return nil
	}
	out := make([]byte, len(t.rcds[i]))
	copy(out, t.rcds[i])
	return out
}

// Signature returns the detached Ed25519 signature for input slot i, or
// nil if that slot hasn't been filled yet.
func (t *Transaction[A]) Signature(i int) []byte {
	if i < 0 || i >= len(t.signatures) || len(t.signatures[i]) == 0 {
		return nil
	}
	out := make([]byte, len(t.signatures[i]))
	copy(out, t.signatures[i])
	return out
}

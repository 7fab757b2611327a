package fat1

import (
	"encoding/json"

	"fattoken/address"
	"fattoken/idset"
	"fattoken/internal/txcore"
)

// Builder accumulates a FAT-1 transaction's inputs and outputs. See
// txcore.Builder for the underlying state machine; this type narrows its
// method set to what a non-fungible-token caller should see, and adds
// TokenMetadata.
type Builder struct {
	inner *txcore.Builder[idset.Set]
}

// NewBuilder starts a builder for the given token chain ID using the
// default Factoid address codec.
func NewBuilder(chainID string) (*Builder, error) {
	return NewBuilderWithCodec(chainID, defaultCodec)
}

// NewBuilderWithCodec is NewBuilder with an explicit address codec, for
// tests or alternate address schemes.
func NewBuilderWithCodec(chainID string, codec address.Codec) (*Builder, error) {
	inner, err := txcore.NewBuilder[idset.Set](chainID, codec, hooks())
	if err != nil {
		return nil, err
	}
	return &Builder{inner: inner}, nil
}

func (b *Builder) Input(addr string, ids idset.Set) error { return b.inner.Input(addr, ids) }
func (b *Builder) CoinbaseInput(ids idset.Set) error      { return b.inner.CoinbaseInput(ids) }
func (b *Builder) Output(addr string, ids idset.Set) error { return b.inner.Output(addr, ids) }
func (b *Builder) BurnOutput(ids idset.Set) error         { return b.inner.BurnOutput(ids) }
func (b *Builder) Metadata(v any) error                   { return b.inner.Metadata(v) }
func (b *Builder) TokenMetadata(entries []TokenMetadataEntry) error {
	return b.inner.SetTokenMetadata(entries)
}
func (b *Builder) SK1(sk1 string) error         { return b.inner.SK1(sk1) }
func (b *Builder) ID1(id1 string) error         { return b.inner.ID1(id1) }
func (b *Builder) Build() (*Transaction, error) { return b.inner.Build() }
func (b *Builder) PkSignature(pubKey [32]byte, sig []byte) error {
	return b.inner.PkSignature(pubKey, sig)
}
func (b *Builder) Id1Signature(id1Pub [32]byte, sig []byte) error {
	return b.inner.Id1Signature(id1Pub, sig)
}

// ForExternalSigning re-wraps a partially or wholly unsigned Transaction
// so its remaining signature slots can be filled externally.
func ForExternalSigning(tx *Transaction, codec address.Codec) *Builder {
	if codec == nil {
		codec = defaultCodec
	}
	return &Builder{inner: txcore.ForExternalSigning[idset.Set](tx, codec)}
}

// ParseTransaction reconstructs a Transaction from its wire form: the
// chain ID, the ext-ids of its Entry, and the content bytes that were
// signed.
func ParseTransaction(chainID string, extIDs [][]byte, content []byte) (*Transaction, error) {
	return txcore.ParseTransaction[idset.Set](chainID, extIDs, content, parseAmount)
}

func parseAmount(raw json.RawMessage) (idset.Set, error) {
	var set idset.Set
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, err
	}
	return set, validateAmount(set)
}

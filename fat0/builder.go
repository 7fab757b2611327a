package fat0

import (
	"encoding/json"

	"fattoken/address"
	"fattoken/errs"
	"fattoken/internal/txcore"
)

// Builder accumulates a FAT-0 transaction's inputs and outputs. See
// txcore.Builder for the underlying state machine; this type just narrows
// its method set to what a fungible-token caller should see.
type Builder struct {
	inner *txcore.Builder[uint64]
}

// NewBuilder starts a builder for the given token chain ID using the
// default Factoid address codec.
func NewBuilder(chainID string) (*Builder, error) {
	return NewBuilderWithCodec(chainID, defaultCodec)
}

// NewBuilderWithCodec is NewBuilder with an explicit address codec, for
// tests or alternate address schemes.
func NewBuilderWithCodec(chainID string, codec address.Codec) (*Builder, error) {
	inner, err := txcore.NewBuilder[uint64](chainID, codec, hooks())
	if err != nil {
		return nil, err
	}
	return &Builder{inner: inner}, nil
}

func (b *Builder) Input(addr string, amount uint64) error       { return b.inner.Input(addr, amount) }
func (b *Builder) CoinbaseInput(amount uint64) error             { return b.inner.CoinbaseInput(amount) }
func (b *Builder) Output(addr string, amount uint64) error       { return b.inner.Output(addr, amount) }
func (b *Builder) BurnOutput(amount uint64) error                { return b.inner.BurnOutput(amount) }
func (b *Builder) Metadata(v any) error                          { return b.inner.Metadata(v) }
func (b *Builder) SK1(sk1 string) error                          { return b.inner.SK1(sk1) }
func (b *Builder) ID1(id1 string) error                          { return b.inner.ID1(id1) }
func (b *Builder) Build() (*Transaction, error)                  { return b.inner.Build() }
func (b *Builder) PkSignature(pubKey [32]byte, sig []byte) error { return b.inner.PkSignature(pubKey, sig) }
func (b *Builder) Id1Signature(id1Pub [32]byte, sig []byte) error {
	return b.inner.Id1Signature(id1Pub, sig)
}

// ForExternalSigning re-wraps a partially or wholly unsigned Transaction
// so its remaining signature slots can be filled externally.
func ForExternalSigning(tx *Transaction, codec address.Codec) *Builder {
	if codec == nil {
		codec = defaultCodec
	}
	return &Builder{inner: txcore.ForExternalSigning[uint64](tx, codec)}
}

// ParseTransaction reconstructs a Transaction from its wire form: the
// chain ID, the ext-ids of its Entry, and the content bytes that were
// signed.
func ParseTransaction(chainID string, extIDs [][]byte, content []byte) (*Transaction, error) {
	return txcore.ParseTransaction[uint64](chainID, extIDs, content, parseAmount)
}

func parseAmount(raw json.RawMessage) (uint64, error) {
	var amount uint64
	if err := json.Unmarshal(raw, &amount); err != nil {
		return 0, errs.Wrap(errs.InvalidAmount, "amount is not a non-negative integer", err)
	}
	return amount, validateAmount(amount)
}

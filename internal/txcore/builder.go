package txcore

import (
	"encoding/json"
	"time"

	"fattoken/address"
	"fattoken/errs"
)

// Hooks supplies the amount-type-specific behavior a generic Builder can't
// know on its own: how to validate a single amount, how to check that a
// completed transaction balances, and (FAT-1 only) how to validate a
// token_metadata list. fat0 and fat1 each provide their own.
type Hooks[A any] struct {
	ValidateAmount        func(A) error
	CheckBalance          func(inputs []Input[A], outputs []Output[A]) error
	ValidateTokenMetadata func([]TokenMetadataEntry[A]) error // nil for FAT-0
	Clock                 func() int64                        // nil means time.Now().Unix
}

func (h Hooks[A]) now() int64 {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now().Unix()
}

type phase int

const (
	phaseBuilding phase = iota
	phaseAwaitingSigs
	phaseDone
)

type pendingInput[A any] struct {
	address  string
	amount   A
	coinbase bool
	keyPair  *address.KeyPair // nil when the signature is deferred (two-phase)
}

// Builder is the single-threaded, mutable scratch object that accumulates
// a transaction's inputs, outputs, and metadata before producing an
// immutable Transaction. A Builder is used once: after Build succeeds it
// refuses further use, and its supporting key material has been zeroized.
type Builder[A any] struct {
	codec address.Codec
	hooks Hooks[A]

	chainID string
	phase   phase

	inputs  []pendingInput[A]
	outputs []Output[A]

	inputAddrs  map[string]bool
	outputAddrs map[string]bool

	coinbaseSet bool
	burnSet     bool

	metadata      json.RawMessage
	tokenMetadata []TokenMetadataEntry[A]

	sk1 string
	id1 string

	// Populated only once this builder has been re-wrapped around an
	// unsigned transaction via ForExternalSigning (phaseAwaitingSigs).
	frozenOutputs     []Output[A]
	frozenTimestamp   int64
	frozenContent     []byte
	expectedIssuerID1 string
	inputIndexByAddr  map[string]int
	pubKeys           [][32]byte
	signatures        [][]byte
}

// NewBuilder starts a fresh builder for the given token chain ID (64 lower
// or upper case hex characters).
func NewBuilder[A any](chainID string, codec address.Codec, hooks Hooks[A]) (*Builder[A], error) {
	if len(chainID) != 64 {
		return nil, errs.New(errs.InvalidChainId, "chain ID must be 64 hex characters")
	}
	if codec == nil {
		codec = address.Default
	}
	return &Builder[A]{
		codec:       codec,
		hooks:       hooks,
		chainID:     chainID,
		inputAddrs:  map[string]bool{},
		outputAddrs: map[string]bool{},
	}, nil
}

func (b *Builder[A]) requireBuilding() error {
	if b.phase != phaseBuilding {
		return errs.New(errs.BuilderFinalized, "builder is no longer accepting input/output/metadata calls")
	}
	return nil
}

// Input adds a funding line. addr may be either a private (Fs...) or
// public (FA...) Factoid address: a private address is resolved to its
// public form immediately and its key material is held for single-pass
// signing at Build time; a public address defers signing to a later
// external-signing pass (spec section 4.4).
func (b *Builder[A]) Input(addr string, amount A) error {
	if err := b.requireBuilding(); err != nil {
		return err
	}
	if err := b.hooks.ValidateAmount(amount); err != nil {
		return err
	}
	if addr == address.CoinbasePublic {
		return errs.Address(address.RolePublicFct, "use CoinbaseInput to mint, not Input")
	}
	if b.coinbaseSet {
		return errs.New(errs.CoinbaseWithExtraInputs, "coinbase input cannot share a transaction with other inputs")
	}

	var finalAddr string
	var keyPair *address.KeyPair
	switch {
	case b.codec.IsValidPrivateFct(addr):
		seed, err := b.codec.AddressToSeed(addr)
		if err != nil {
			return err
		}
		keyPair = address.NewKeyPairFromSeed(seed)
		pub, err := b.codec.KeyToPublicFct(keyPair.PublicKey32())
		if err != nil {
			return err
		}
		finalAddr = pub
	case b.codec.IsValidPublicFct(addr):
		finalAddr = addr
	default:
		return errs.Address(address.RolePublicFct, "not a valid private or public Factoid address")
	}

	if b.inputAddrs[finalAddr] {
		return errs.Address("duplicate_input", "address already appears as an input of this transaction")
	}
	if b.outputAddrs[finalAddr] {
		return errs.New(errs.AddressAppearsOnBothSides, finalAddr+" appears as both an input and an output")
	}

	b.inputAddrs[finalAddr] = true
	b.inputs = append(b.inputs, pendingInput[A]{address: finalAddr, amount: amount, keyPair: keyPair})
	return nil
}

// CoinbaseInput mints amount, using the reserved coinbase sentinel as the
// sole input. It must be the first and only input call on this builder.
func (b *Builder[A]) CoinbaseInput(amount A) error {
	if err := b.requireBuilding(); err != nil {
		return err
	}
	if err := b.hooks.ValidateAmount(amount); err != nil {
		return err
	}
	if len(b.inputs) > 0 {
		return errs.New(errs.CoinbaseWithExtraInputs, "coinbase input must be the only input")
	}
	if b.outputAddrs[address.CoinbasePublic] {
		return errs.New(errs.AddressAppearsOnBothSides, "coinbase sentinel already appears as a burn output")
	}
	b.coinbaseSet = true
	b.inputAddrs[address.CoinbasePublic] = true
	b.inputs = append(b.inputs, pendingInput[A]{address: address.CoinbasePublic, amount: amount, coinbase: true})
	return nil
}

// Output adds a destination line. addr must be a public (FA...) Factoid
// address; the coinbase sentinel is only valid via BurnOutput.
func (b *Builder[A]) Output(addr string, amount A) error {
	if err := b.requireBuilding(); err != nil {
		return err
	}
	if err := b.hooks.ValidateAmount(amount); err != nil {
		return err
	}
	if addr == address.CoinbasePublic {
		return errs.Address(address.RolePublicFct, "use BurnOutput to burn, not Output")
	}
	if !b.codec.IsValidPublicFct(addr) {
		return errs.Address(address.RolePublicFct, "not a valid public Factoid address")
	}
	if b.outputAddrs[addr] {
		return errs.Address("duplicate_output", "address already appears as an output of this transaction")
	}
	if b.inputAddrs[addr] {
		return errs.New(errs.AddressAppearsOnBothSides, addr+" appears as both an input and an output")
	}

	b.outputAddrs[addr] = true
	b.outputs = append(b.outputs, Output[A]{Address: addr, Amount: amount})
	return nil
}

// BurnOutput sends amount to the reserved coinbase sentinel, destroying
// it. At most one burn output is allowed per transaction.
func (b *Builder[A]) BurnOutput(amount A) error {
	if err := b.requireBuilding(); err != nil {
		return err
	}
	if err := b.hooks.ValidateAmount(amount); err != nil {
		return err
	}
	if b.burnSet {
		return errs.New(errs.DuplicateBurnOutput, "at most one burn output is allowed")
	}
	if b.inputAddrs[address.CoinbasePublic] {
		return errs.New(errs.AddressAppearsOnBothSides, "coinbase sentinel already appears as the coinbase input")
	}
	b.burnSet = true
	b.outputAddrs[address.CoinbasePublic] = true
	b.outputs = append(b.outputs, Output[A]{Address: address.CoinbasePublic, Amount: amount, Burn: true})
	return nil
}

// Metadata attaches caller-supplied, JSON-serializable transaction
// metadata.
func (b *Builder[A]) Metadata(v any) error {
	if err := b.requireBuilding(); err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return errs.Wrap(errs.MetadataNotSerializable, "metadata must be JSON-serializable", err)
	}
	b.metadata = raw
	return nil
}

// SetTokenMetadata attaches a token_metadata list. Build rejects it unless
// the transaction is a coinbase mint.
func (b *Builder[A]) SetTokenMetadata(entries []TokenMetadataEntry[A]) error {
	if err := b.requireBuilding(); err != nil {
		return err
	}
	if b.hooks.ValidateTokenMetadata != nil {
		if err := b.hooks.ValidateTokenMetadata(entries); err != nil {
			return err
		}
	}
	b.tokenMetadata = entries
	return nil
}

// SK1 sets the issuer identity private key that signs a coinbase input
// immediately at Build time. Mutually exclusive with ID1.
func (b *Builder[A]) SK1(sk1 string) error {
	if err := b.requireBuilding(); err != nil {
		return err
	}
	if !b.codec.IsValidSK1(sk1) {
		return errs.IssuerKey(address.RoleSK1, "not a valid sk1 identity private key")
	}
	b.sk1 = sk1
	return nil
}

// ID1 sets the issuer identity public key, deferring the coinbase
// signature to a later external-signing pass. Mutually exclusive with SK1.
func (b *Builder[A]) ID1(id1 string) error {
	if err := b.requireBuilding(); err != nil {
		return err
	}
	if !b.codec.IsValidID1(id1) {
		return errs.IssuerKey(address.RoleID1, "not a valid id1 identity public key")
	}
	b.id1 = id1
	return nil
}

// ForExternalSigning re-wraps a partially or wholly unsigned Transaction
// (produced by a phase-1 Build using public addresses and/or ID1) so its
// remaining signature slots can be filled via PkSignature/Id1Signature.
func ForExternalSigning[A any](tx *Transaction[A], codec address.Codec) *Builder[A] {
	if codec == nil {
		codec = address.Default
	}
	inputs := tx.GetInputs()
	b := &Builder[A]{
		codec:            codec,
		chainID:          tx.chainID,
		phase:            phaseAwaitingSigs,
		inputs:           make([]pendingInput[A], len(inputs)),
		frozenOutputs:    tx.GetOutputs(),
		frozenTimestamp:  tx.timestamp,
		frozenContent:    tx.GetContent(),
		tokenMetadata:    tx.GetTokenMetadata(),
		inputIndexByAddr: map[string]int{},
		pubKeys:          make([][32]byte, len(inputs)),
		signatures:       make([][]byte, len(inputs)),
	}
	if meta, ok := tx.GetMetadata(); ok {
		b.metadata = meta
	}
	if id1, ok := tx.GetExpectedIssuerID1(); ok {
		b.expectedIssuerID1 = id1
	}
	for i, in := range inputs {
		b.inputs[i] = pendingInput[A]{address: in.Address, amount: in.Amount, coinbase: in.Coinbase}
		b.inputIndexByAddr[in.Address] = i
		if rcd := tx.RCD(i); rcd != nil {
			copy(b.pubKeys[i][:], rcd[1:])
		}
		if sig := tx.Signature(i); sig != nil {
			b.signatures[i] = sig
		}
	}
	return b
}

// PkSignature fills the signature slot for the input whose address is
// derived from pubKey. Valid only on a builder produced by
// ForExternalSigning.
func (b *Builder[A]) PkSignature(pubKey [32]byte, sig []byte) error {
	if b.phase != phaseAwaitingSigs {
		return errs.New(errs.BuilderFinalized, "pkSignature is only valid while awaiting external signatures")
	}
	pubAddr, err := b.codec.KeyToPublicFct(pubKey)
	if err != nil {
		return err
	}
	idx, ok := b.inputIndexByAddr[pubAddr]
	if !ok {
		return errs.New(errs.UnknownPublicKey, "public key does not match any input of this transaction")
	}
	b.pubKeys[idx] = pubKey
	b.signatures[idx] = sig
	return nil
}

// Id1Signature fills the deferred coinbase issuer-signature slot. Valid
// only on a builder produced by ForExternalSigning, and only when the
// wrapped transaction's coinbase signature was deferred via ID1.
func (b *Builder[A]) Id1Signature(id1Pub [32]byte, sig []byte) error {
	if b.phase != phaseAwaitingSigs {
		return errs.New(errs.BuilderFinalized, "id1Signature is only valid while awaiting external signatures")
	}
	if b.expectedIssuerID1 == "" {
		return errs.New(errs.Id1Mismatch, "transaction has no pending identity signature slot")
	}
	expectedPub, err := b.codec.ExtractIdentityPublic(b.expectedIssuerID1)
	if err != nil {
		return err
	}
	if expectedPub != id1Pub {
		return errs.New(errs.Id1Mismatch, "identity key does not match the declared id1")
	}
	b.pubKeys[0] = id1Pub
	b.signatures[0] = sig
	return nil
}

// Build produces the immutable Transaction. It succeeds at most once;
// any call after a successful Build fails with BuilderFinalized. A failed
// Build leaves the builder in its current phase.
func (b *Builder[A]) Build() (*Transaction[A], error) {
	switch b.phase {
	case phaseAwaitingSigs:
		return b.buildAwaitingSigs()
	case phaseBuilding:
		return b.buildFresh()
	default:
		return nil, errs.New(errs.BuilderFinalized, "builder has already produced a transaction")
	}
}

func (b *Builder[A]) buildFresh() (*Transaction[A], error) {
	if len(b.inputs) == 0 {
		return nil, errs.New(EmptyInputs, "transaction requires at least one input")
	}
	if len(b.outputs) == 0 {
		return nil, errs.New(EmptyOutputs, "transaction requires at least one output")
	}
	coinbase := len(b.inputs) == 1 && b.inputs[0].coinbase
	if len(b.tokenMetadata) > 0 && !coinbase {
		return nil, errs.New(errs.TokenMetadataNotCoinbase, "token_metadata is only valid on a coinbase transaction")
	}

	var issuerKeyPair *address.KeyPair
	var expectedIssuerID1 string
	if coinbase {
		hasSK1, hasID1 := b.sk1 != "", b.id1 != ""
		switch {
		case hasSK1 && hasID1:
			return nil, errs.New(errs.MissingIssuerKey, "specify exactly one of sk1 or id1, not both")
		case hasSK1:
			seed, err := b.codec.ExtractIdentitySeed(b.sk1)
			if err != nil {
				return nil, err
			}
			issuerKeyPair = address.NewKeyPairFromSeed(seed)
		case hasID1:
			if _, err := b.codec.ExtractIdentityPublic(b.id1); err != nil {
				return nil, err
			}
			expectedIssuerID1 = b.id1
		default:
			return nil, errs.New(errs.MissingIssuerKey, "coinbase transaction requires sk1 or id1")
		}
	}

	inputsFinal := make([]Input[A], len(b.inputs))
	for i, in := range b.inputs {
		inputsFinal[i] = Input[A]{Address: in.address, Amount: in.amount, Coinbase: in.coinbase}
	}
	if err := b.hooks.CheckBalance(inputsFinal, b.outputs); err != nil {
		return nil, err
	}

	content := b.encodeContent()
	timestamp := b.hooks.now()

	rcds := make([][]byte, len(b.inputs))
	sigs := make([][]byte, len(b.inputs))
	for i, in := range b.inputs {
		kp := in.keyPair
		if in.coinbase {
			kp = issuerKeyPair
		}
		if kp == nil {
			continue // deferred: left empty for a later external-signing pass
		}
		pub := kp.PublicKey32()
		rcd := append([]byte{address.RCDType1}, pub[:]...)
		preimage, err := buildPreimage(i, timestamp, b.chainID, content)
		if err != nil {
			return nil, err
		}
		digest := signDigest(preimage)
		rcds[i] = rcd
		sigs[i] = kp.Sign(digest[:])
		kp.Zero()
	}

	tx := &Transaction[A]{
		chainID:           b.chainID,
		inputs:            inputsFinal,
		outputs:           append([]Output[A]{}, b.outputs...),
		metadata:          b.metadata,
		tokenMetadata:     b.tokenMetadata,
		timestamp:         timestamp,
		content:           content,
		rcds:              rcds,
		signatures:        sigs,
		expectedIssuerID1: expectedIssuerID1,
	}
	b.phase = phaseDone
	return tx, nil
}

func (b *Builder[A]) buildAwaitingSigs() (*Transaction[A], error) {
	for i := range b.inputs {
		if len(b.signatures[i]) == 0 {
			return nil, errs.MissingSig(i)
		}
	}
	rcds := make([][]byte, len(b.inputs))
	for i, pub := range b.pubKeys {
		rcds[i] = append([]byte{address.RCDType1}, pub[:]...)
	}
	inputsFinal := make([]Input[A], len(b.inputs))
	for i, in := range b.inputs {
		inputsFinal[i] = Input[A]{Address: in.address, Amount: in.amount, Coinbase: in.coinbase}
	}
	tx := &Transaction[A]{
		chainID:           b.chainID,
		inputs:            inputsFinal,
		outputs:           b.frozenOutputs,
		metadata:          b.metadata,
		tokenMetadata:     b.tokenMetadata,
		timestamp:         b.frozenTimestamp,
		content:           b.frozenContent,
		rcds:              rcds,
		signatures:        b.signatures,
		expectedIssuerID1: "",
	}
	b.phase = phaseDone
	return tx, nil
}

func (b *Builder[A]) encodeContent() []byte {
	inputFields := make([]addressAmount, len(b.inputs))
	for i, in := range b.inputs {
		amt, _ := json.Marshal(in.amount)
		inputFields[i] = addressAmount{address: in.address, amount: amt}
	}
	outputFields := make([]addressAmount, len(b.outputs))
	for i, out := range b.outputs {
		amt, _ := json.Marshal(out.Amount)
		outputFields[i] = addressAmount{address: out.Address, amount: amt}
	}

	fields := []field{
		{key: "inputs", value: encodeAddressAmountObject(inputFields)},
		{key: "outputs", value: encodeAddressAmountObject(outputFields)},
	}
	if b.metadata != nil {
		fields = append(fields, field{key: "metadata", value: b.metadata})
	}
	if len(b.tokenMetadata) > 0 {
		entries := make([][]byte, len(b.tokenMetadata))
		for i, e := range b.tokenMetadata {
			idsJSON, _ := json.Marshal(e.IDs)
			entries[i] = encodeObject([]field{
				{key: "ids", value: idsJSON},
				{key: "metadata", value: e.Metadata},
			})
		}
		fields = append(fields, field{key: "tokenmetadata", value: encodeArray(entries)})
	}
	return encodeObject(fields)
}

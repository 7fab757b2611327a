// Package issuance implements the token issuance entry each FAT token
// chain carries exactly one of: the declaration, signed by the issuer's
// identity key, of a token's symbol, supply cap, and descriptive
// metadata. It is a much smaller sibling of the transaction core — a
// single signer, no inputs or outputs — so it gets its own small
// accessor/builder pair rather than trying to squeeze it into
// txcore.Transaction.
package issuance

import (
	"bytes"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"

	"golang.org/x/crypto/sha3"

	"fattoken/address"
	"fattoken/errs"
)

// SupplyUnlimited is the sentinel value meaning the token has no maximum
// supply. Any other negative value is invalid.
const SupplyUnlimited int64 = -1

// The two token flavors an issuance can declare (spec section 3.5).
const (
	TypeFAT0 = "FAT-0"
	TypeFAT1 = "FAT-1"
)

// Issuance is a fully-built, immutable issuance entry.
type Issuance struct {
	tokenType     string
	tokenID       string
	issuerChainID string
	chainID       string // derived token chain ID, hex
	supply        int64
	symbol        string
	metadata      json.RawMessage
	timestamp     int64
	content       []byte
	rcd           []byte
	signature     []byte
}

func (iss *Issuance) GetType() string          { return iss.tokenType }
func (iss *Issuance) GetTokenID() string       { return iss.tokenID }
func (iss *Issuance) GetIssuerChainID() string { return iss.issuerChainID }
func (iss *Issuance) GetChainID() string       { return iss.chainID }
func (iss *Issuance) GetSupply() int64         { return iss.supply }
func (iss *Issuance) GetTimestamp() int64      { return iss.timestamp }

func (iss *Issuance) GetSymbol() (string, bool) {
	if iss.symbol == "" {
		return "", false
	}
	return iss.symbol, true
}

func (iss *Issuance) GetMetadata() (json.RawMessage, bool) {
	if iss.metadata == nil {
		return nil, false
	}
	out := make(json.RawMessage, len(iss.metadata))
	copy(out, iss.metadata)
	return out, true
}

func (iss *Issuance) GetContent() []byte {
	out := make([]byte, len(iss.content))
	copy(out, iss.content)
	return out
}

func (iss *Issuance) preimage() ([]byte, error) {
	chainBytes, err := hex.DecodeString(iss.chainID)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidChainId, "chain ID is not valid hex", err)
	}
	msg := make([]byte, 0, 16+len(chainBytes)+len(iss.content))
	msg = append(msg, []byte(strconv.FormatInt(iss.timestamp, 10))...)
	msg = append(msg, chainBytes...)
	msg = append(msg, iss.content...)
	return msg, nil
}

// Entry is the chain-system entry shape an issuance commits as: a chain
// ID, a three-element ext-id list (timestamp, then a single RCD and
// signature pair — there is exactly one signer), and the content payload.
type Entry struct {
	ChainID string
	ExtIDs  [][]byte
	Content []byte
}

// GetEntry assembles the chain-system entry for this issuance.
func (iss *Issuance) GetEntry() Entry {
	return Entry{
		ChainID: iss.chainID,
		ExtIDs:  [][]byte{[]byte(strconv.FormatInt(iss.timestamp, 10)), iss.rcd, iss.signature},
		Content: iss.GetContent(),
	}
}

// GetEntryHash is a convenience SHAKE256 digest over the entry's bytes,
// the same non-authoritative fingerprint Transaction.GetEntryHash
// provides.
func (iss *Issuance) GetEntryHash() [32]byte {
	e := iss.GetEntry()
	h := sha3.NewShake256()
	h.Write([]byte(e.ChainID))
	for _, id := range e.ExtIDs {
		h.Write(id)
	}
	h.Write(e.Content)
	var out [32]byte
	h.Read(out[:])
	return out
}

// ValidateSignature recomputes the signing digest and Ed25519-verifies it
// against the embedded RCD's public key. Like Transaction.ValidateSignatures,
// it reports false rather than raising on a crypto mismatch.
func (iss *Issuance) ValidateSignature() bool {
	if len(iss.rcd) != 33 || len(iss.signature) == 0 {
		return false
	}
	preimage, err := iss.preimage()
	if err != nil {
		return false
	}
	digest := sha512.Sum512(preimage)
	var pub [32]byte
	copy(pub[:], iss.rcd[1:])
	return address.Verify(pub, digest[:], iss.signature)
}

// Builder accumulates an issuance's fields before producing an immutable
// Issuance signed by the issuer's sk1 identity key.
type Builder struct {
	tokenType     string
	tokenID       string
	issuerChainID string
	codec         address.Codec
	clock         func() int64

	supply    int64
	supplySet bool
	symbol    string
	metadata  json.RawMessage
	sk1       string
	done      bool
}

// NewBuilder starts an issuance builder for tokenID on the given issuer
// identity chain (64 hex characters). tokenType is normally TypeFAT0 or
// TypeFAT1.
func NewBuilder(tokenType, tokenID, issuerChainIDHex string) (*Builder, error) {
	return NewBuilderWithCodec(tokenType, tokenID, issuerChainIDHex, address.Default)
}

// NewBuilderWithCodec is NewBuilder with an explicit address codec.
func NewBuilderWithCodec(tokenType, tokenID, issuerChainIDHex string, codec address.Codec) (*Builder, error) {
	if len(issuerChainIDHex) != 64 {
		return nil, errs.New(errs.InvalidChainId, "issuer chain ID must be 64 hex characters")
	}
	if codec == nil {
		codec = address.Default
	}
	return &Builder{tokenType: tokenType, tokenID: tokenID, issuerChainID: issuerChainIDHex, codec: codec}, nil
}

// Supply sets the maximum supply: SupplyUnlimited (-1) for no cap, or any
// non-negative integer.
func (b *Builder) Supply(n int64) error {
	if n < SupplyUnlimited {
		return errs.New(errs.InvalidAmount, "supply must be -1 (unlimited) or non-negative")
	}
	b.supply = n
	b.supplySet = true
	return nil
}

// Symbol sets the token's display symbol.
func (b *Builder) Symbol(symbol string) { b.symbol = symbol }

// Metadata attaches caller-supplied, JSON-serializable token metadata.
func (b *Builder) Metadata(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errs.Wrap(errs.MetadataNotSerializable, "metadata must be JSON-serializable", err)
	}
	b.metadata = raw
	return nil
}

// SK1 sets the issuer identity private key that signs the issuance.
func (b *Builder) SK1(sk1 string) error {
	if !b.codec.IsValidSK1(sk1) {
		return errs.IssuerKey(address.RoleSK1, "not a valid sk1 identity private key")
	}
	b.sk1 = sk1
	return nil
}

// Build produces the immutable, signed Issuance.
func (b *Builder) Build() (*Issuance, error) {
	if b.done {
		return nil, errs.New(errs.BuilderFinalized, "builder has already produced an issuance")
	}
	if !b.supplySet {
		return nil, errs.New(errs.InvalidAmount, "supply must be set before Build")
	}
	if b.sk1 == "" {
		return nil, errs.New(errs.MissingIssuerKey, "issuance requires sk1")
	}

	chainID, err := b.codec.ComputeTokenChainID(b.tokenID, b.issuerChainID)
	if err != nil {
		return nil, err
	}
	seed, err := b.codec.ExtractIdentitySeed(b.sk1)
	if err != nil {
		return nil, err
	}
	kp := address.NewKeyPairFromSeed(seed)

	fields := []field{
		{key: "type", value: mustJSON(b.tokenType)},
		{key: "tokenid", value: mustJSON(b.tokenID)},
		{key: "supply", value: mustJSON(b.supply)},
	}
	if b.symbol != "" {
		fields = append(fields, field{key: "symbol", value: mustJSON(b.symbol)})
	}
	if b.metadata != nil {
		fields = append(fields, field{key: "metadata", value: b.metadata})
	}
	content := encodeObject(fields)

	timestamp := b.now()
	iss := &Issuance{
		tokenType:     b.tokenType,
		tokenID:       b.tokenID,
		issuerChainID: b.issuerChainID,
		chainID:       chainID,
		supply:        b.supply,
		symbol:        b.symbol,
		metadata:      b.metadata,
		timestamp:     timestamp,
		content:       content,
	}
	preimage, err := iss.preimage()
	if err != nil {
		return nil, err
	}
	digest := sha512.Sum512(preimage)
	pub := kp.PublicKey32()
	iss.rcd = append([]byte{address.RCDType1}, pub[:]...)
	iss.signature = kp.Sign(digest[:])
	kp.Zero()

	b.done = true
	return iss, nil
}

func (b *Builder) now() int64 {
	if b.clock != nil {
		return b.clock()
	}
	return time.Now().Unix()
}

func mustJSON(v any) []byte {
	raw, _ := json.Marshal(v)
	return raw
}

// ParseEntry reconstructs an Issuance from its wire form: the chain ID,
// the ext-ids of its Entry (timestamp, rcd, signature), and the content
// bytes that were signed. This is the "parsed entry dictionary" path —
// the resulting Issuance is a pure accessor bag, built from bytes a
// consumer read off the chain rather than from a Builder.
func ParseEntry(chainID string, extIDs [][]byte, content []byte) (*Issuance, error) {
	if len(chainID) != 64 {
		return nil, errs.New(errs.InvalidChainId, "chain ID must be 64 hex characters")
	}
	if len(extIDs) != 3 {
		return nil, errs.New(errs.MissingSignature, "issuance ext-id list must be timestamp, rcd, signature")
	}
	timestamp, err := strconv.ParseInt(string(extIDs[0]), 10, 64)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidChainId, "ext-id 0 is not a valid ascii timestamp", err)
	}
	rcd := extIDs[1]
	signature := extIDs[2]

	dec := json.NewDecoder(bytes.NewReader(content))
	tok, err := dec.Token()
	if err != nil {
		return nil, errs.Wrap(errs.MetadataNotSerializable, "malformed issuance content", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errs.New(errs.MetadataNotSerializable, "issuance content must be a JSON object")
	}

	iss := &Issuance{chainID: chainID, timestamp: timestamp, content: append([]byte{}, content...), rcd: rcd, signature: signature}
	iss.supply = 0
	haveSupply := false
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, errs.Wrap(errs.MetadataNotSerializable, "malformed issuance content key", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errs.New(errs.MetadataNotSerializable, "issuance content key is not a string")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, errs.Wrap(errs.MetadataNotSerializable, "malformed issuance content value", err)
		}
		switch key {
		case "type":
			if err := json.Unmarshal(raw, &iss.tokenType); err != nil {
				return nil, errs.Wrap(errs.MetadataNotSerializable, "type is not a string", err)
			}
		case "tokenid":
			if err := json.Unmarshal(raw, &iss.tokenID); err != nil {
				return nil, errs.Wrap(errs.MetadataNotSerializable, "tokenid is not a string", err)
			}
		case "supply":
			if err := json.Unmarshal(raw, &iss.supply); err != nil {
				return nil, errs.Wrap(errs.InvalidAmount, "supply is not an integer", err)
			}
			haveSupply = true
		case "symbol":
			if err := json.Unmarshal(raw, &iss.symbol); err != nil {
				return nil, errs.Wrap(errs.MetadataNotSerializable, "symbol is not a string", err)
			}
		case "metadata":
			iss.metadata = raw
		}
	}
	if !haveSupply {
		return nil, errs.New(errs.InvalidAmount, "issuance content missing supply")
	}
	return iss, nil
}

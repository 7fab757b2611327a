package txcore

import (
	"crypto/sha512"
	"encoding/hex"
	"strconv"

	"golang.org/x/crypto/sha3"

	"fattoken/address"
	"fattoken/errs"
)

// Entry is the external chain system's entry shape: a chain ID, an
// ordered list of ext-ids, and a content payload. Building one from a
// Transaction is how a caller would eventually submit it; this module
// never submits anything itself (out of scope), it only assembles the
// bytes.
type Entry struct {
	ChainID string
	ExtIDs  [][]byte
	Content []byte
}

// MarshalDataSig returns the pre-hash preimage signed for input slot i:
// ascii(i) || ascii(unix_seconds) || chain_id_bytes || content_bytes.
// The actual signed message is SHA-512 of this preimage, not the preimage
// itself — see signDigest.
func (t *Transaction[A]) MarshalDataSig(i int) ([]byte, error) {
	if i < 0 || i >= len(t.inputs) {
		return nil, errs.New(errs.MissingSignature, "input slot index out of range")
	}
	return buildPreimage(i, t.timestamp, t.chainID, t.content)
}

// buildPreimage is shared by Transaction.MarshalDataSig and the builder,
// which needs the same bytes before a Transaction exists to sign them.
func buildPreimage(slot int, timestamp int64, chainIDHex string, content []byte) ([]byte, error) {
	chainBytes, err := hex.DecodeString(chainIDHex)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidChainId, "chain ID is not valid hex", err)
	}
	msg := make([]byte, 0, 32+len(chainBytes)+len(content))
	msg = append(msg, []byte(strconv.Itoa(slot))...)
	msg = append(msg, []byte(strconv.FormatInt(timestamp, 10))...)
	msg = append(msg, chainBytes...)
	msg = append(msg, content...)
	return msg, nil
}

// signDigest is the 64-byte SHA-512 digest actually handed to Ed25519;
// signatures are detached over this digest, not over the preimage.
func signDigest(preimage []byte) [64]byte {
	return sha512.Sum512(preimage)
}

// ValidateSignatures recomputes every slot's digest and Ed25519-verifies
// it against the corresponding RCD's public key. It returns false (never
// an error) for a crypto mismatch; a structurally incomplete transaction
// (unequal slot counts, or any slot not yet filled) also reports false,
// since a Transaction is only ever handed out by Builder.Build once its
// state machine considers it either fully signed or deliberately partial.
func (t *Transaction[A]) ValidateSignatures() bool {
	n := len(t.inputs)
	if len(t.rcds) != n || len(t.signatures) != n {
		return false
	}
	for i := 0; i < n; i++ {
		rcd := t.rcds[i]
		sig := t.signatures[i]
		if len(rcd) != 33 || len(sig) == 0 {
			return false
		}
		var pub [32]byte
		copy(pub[:], rcd[1:])
		preimage, err := t.MarshalDataSig(i)
		if err != nil {
			return false
		}
		digest := signDigest(preimage)
		if !address.Verify(pub, digest[:], sig) {
			return false
		}
	}
	return true
}

// GetEntry assembles the chain-system entry for a transaction: ext-id 0 is
// the decimal timestamp, followed by one RCD/signature pair per input in
// slot order.
func (t *Transaction[A]) GetEntry() Entry {
	extIDs := make([][]byte, 0, 1+2*len(t.inputs))
	extIDs = append(extIDs, []byte(strconv.FormatInt(t.timestamp, 10)))
	for i := range t.inputs {
		extIDs = append(extIDs, t.RCD(i), t.Signature(i))
	}
	return Entry{
		ChainID: t.chainID,
		ExtIDs:  extIDs,
		Content: t.GetContent(),
	}
}

// GetEntryHash is a convenience digest over the entry's bytes, in the same
// SHAKE256 style the token engine uses for its own entry hashes. It is not
// the chain system's authoritative entry hash (computing that requires
// the chain system's own commit procedure, out of scope here) — it exists
// so callers can cheaply fingerprint or deduplicate a Transaction.
func (t *Transaction[A]) GetEntryHash() [32]byte {
	e := t.GetEntry()
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

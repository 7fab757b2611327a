package fat0

import (
	"crypto/sha512"
	"encoding/json"
	"testing"

	"fattoken/address"
	"fattoken/errs"
)

const testChainID = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func seedFor(b byte) [32]byte {
	var s [32]byte
	for i := range s {
		s[i] = b
	}
	return s
}

func TestSingleInputSingleOutputRoundTrips(t *testing.T) {
	priv := address.EncodePrivateFct(seedFor(1))
	pub, err := address.Default.PublicAddressOf(priv)
	if err != nil {
		t.Fatalf("PublicAddressOf: %v", err)
	}
	dest, err := address.Default.PublicAddressOf(address.EncodePrivateFct(seedFor(2)))
	if err != nil {
		t.Fatalf("PublicAddressOf: %v", err)
	}

	b, err := NewBuilder(testChainID)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	if err := b.Input(priv, 100); err != nil {
		t.Fatalf("Input: %v", err)
	}
	if err := b.Output(dest, 100); err != nil {
		t.Fatalf("Output: %v", err)
	}
	tx, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !tx.ValidateSignatures() {
		t.Fatalf("expected signatures to validate")
	}
	ins := tx.GetInputs()
	if len(ins) != 1 || ins[0].Address != pub || ins[0].Amount != 100 {
		t.Fatalf("unexpected inputs: %+v", ins)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(tx.GetContent(), &decoded); err != nil {
		t.Fatalf("content is not valid JSON: %v", err)
	}
	if _, ok := decoded["inputs"]; !ok {
		t.Fatalf("content missing inputs key")
	}
	if _, ok := decoded["outputs"]; !ok {
		t.Fatalf("content missing outputs key")
	}
}

func TestCoinbaseSignedWithSK1(t *testing.T) {
	issuerSeed := seedFor(3)
	sk1 := address.EncodeSK1(issuerSeed)
	dest, _ := address.Default.PublicAddressOf(address.EncodePrivateFct(seedFor(16)))

	b, err := NewBuilder(testChainID)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	if err := b.CoinbaseInput(500); err != nil {
		t.Fatalf("CoinbaseInput: %v", err)
	}
	if err := b.SK1(sk1); err != nil {
		t.Fatalf("SK1: %v", err)
	}
	if err := b.Output(dest, 500); err != nil {
		t.Fatalf("Output: %v", err)
	}
	tx, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !tx.IsCoinbase() {
		t.Fatalf("expected IsCoinbase")
	}
	if !tx.ValidateSignatures() {
		t.Fatalf("expected coinbase signature to validate")
	}
}

func TestBalanceMismatchRejected(t *testing.T) {
	priv := address.EncodePrivateFct(seedFor(4))
	dest, _ := address.Default.PublicAddressOf(address.EncodePrivateFct(seedFor(5)))

	b, _ := NewBuilder(testChainID)
	if err := b.Input(priv, 100); err != nil {
		t.Fatalf("Input: %v", err)
	}
	if err := b.Output(dest, 99); err != nil {
		t.Fatalf("Output: %v", err)
	}
	_, err := b.Build()
	if !errs.Is(err, errs.BalanceMismatch) {
		t.Fatalf("expected BalanceMismatch, got %v", err)
	}
}

func TestBalanceOverflowRejected(t *testing.T) {
	priv1 := address.EncodePrivateFct(seedFor(6))
	priv2 := address.EncodePrivateFct(seedFor(7))
	dest, _ := address.Default.PublicAddressOf(address.EncodePrivateFct(seedFor(8)))

	b, _ := NewBuilder(testChainID)
	if err := b.Input(priv1, ^uint64(0)); err != nil {
		t.Fatalf("Input: %v", err)
	}
	if err := b.Input(priv2, 1); err != nil {
		t.Fatalf("Input: %v", err)
	}
	if err := b.Output(dest, 1); err != nil {
		t.Fatalf("Output: %v", err)
	}
	_, err := b.Build()
	if !errs.Is(err, errs.BalanceOverflow) {
		t.Fatalf("expected BalanceOverflow, got %v", err)
	}
}

func TestCoinbaseWithExtraInputsRejected(t *testing.T) {
	priv := address.EncodePrivateFct(seedFor(9))

	b, _ := NewBuilder(testChainID)
	if err := b.CoinbaseInput(10); err != nil {
		t.Fatalf("CoinbaseInput: %v", err)
	}
	err := b.Input(priv, 1)
	if !errs.Is(err, errs.CoinbaseWithExtraInputs) {
		t.Fatalf("expected CoinbaseWithExtraInputs, got %v", err)
	}
}

func TestDuplicateBurnOutputRejected(t *testing.T) {
	priv := address.EncodePrivateFct(seedFor(15))

	b, _ := NewBuilder(testChainID)
	if err := b.Input(priv, 10); err != nil {
		t.Fatalf("Input: %v", err)
	}
	if err := b.BurnOutput(5); err != nil {
		t.Fatalf("BurnOutput: %v", err)
	}
	err := b.BurnOutput(5)
	if !errs.Is(err, errs.DuplicateBurnOutput) {
		t.Fatalf("expected DuplicateBurnOutput, got %v", err)
	}
}

func TestAddressAppearsOnBothSidesRejected(t *testing.T) {
	priv := address.EncodePrivateFct(seedFor(10))
	pub, _ := address.Default.PublicAddressOf(priv)

	b, _ := NewBuilder(testChainID)
	if err := b.Input(priv, 10); err != nil {
		t.Fatalf("Input: %v", err)
	}
	err := b.Output(pub, 10)
	if !errs.Is(err, errs.AddressAppearsOnBothSides) {
		t.Fatalf("expected AddressAppearsOnBothSides, got %v", err)
	}
}

func TestMissingIssuerKeyRejected(t *testing.T) {
	dest, _ := address.Default.PublicAddressOf(address.EncodePrivateFct(seedFor(17)))

	b, _ := NewBuilder(testChainID)
	if err := b.CoinbaseInput(10); err != nil {
		t.Fatalf("CoinbaseInput: %v", err)
	}
	if err := b.Output(dest, 10); err != nil {
		t.Fatalf("Output: %v", err)
	}
	_, err := b.Build()
	if !errs.Is(err, errs.MissingIssuerKey) {
		t.Fatalf("expected MissingIssuerKey, got %v", err)
	}
}

func TestMalformedSK1Rejected(t *testing.T) {
	b, _ := NewBuilder(testChainID)
	if err := b.CoinbaseInput(10); err != nil {
		t.Fatalf("CoinbaseInput: %v", err)
	}
	err := b.SK1("not-a-valid-sk1")
	if !errs.Is(err, errs.InvalidIssuerKey) {
		t.Fatalf("expected InvalidIssuerKey, got %v", err)
	}
}

func TestRoundTripThroughEntry(t *testing.T) {
	priv := address.EncodePrivateFct(seedFor(13))
	dest, _ := address.Default.PublicAddressOf(address.EncodePrivateFct(seedFor(14)))

	b, _ := NewBuilder(testChainID)
	if err := b.Input(priv, 77); err != nil {
		t.Fatalf("Input: %v", err)
	}
	if err := b.Output(dest, 77); err != nil {
		t.Fatalf("Output: %v", err)
	}
	tx, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	entry := tx.GetEntry()
	roundTripped, err := ParseTransaction(entry.ChainID, entry.ExtIDs, entry.Content)
	if err != nil {
		t.Fatalf("ParseTransaction: %v", err)
	}
	if !roundTripped.ValidateSignatures() {
		t.Fatalf("expected round-tripped transaction to validate")
	}
	if roundTripped.GetTimestamp() != tx.GetTimestamp() {
		t.Fatalf("timestamp mismatch")
	}
	got, want := roundTripped.GetInputs(), tx.GetInputs()
	if len(got) != len(want) || got[0].Address != want[0].Address || got[0].Amount != want[0].Amount {
		t.Fatalf("inputs mismatch: got %+v, want %+v", got, want)
	}
}

func TestTwoPhaseExternalSigning(t *testing.T) {
	seed := seedFor(11)
	priv := address.EncodePrivateFct(seed)
	pub, _ := address.Default.PublicAddressOf(priv)
	dest, _ := address.Default.PublicAddressOf(address.EncodePrivateFct(seedFor(12)))

	// Phase 1: build unsigned, using the public address.
	b, _ := NewBuilder(testChainID)
	if err := b.Input(pub, 42); err != nil {
		t.Fatalf("Input: %v", err)
	}
	if err := b.Output(dest, 42); err != nil {
		t.Fatalf("Output: %v", err)
	}
	unsigned, err := b.Build()
	if err != nil {
		t.Fatalf("Build (phase 1): %v", err)
	}
	if unsigned.ValidateSignatures() {
		t.Fatalf("expected unsigned transaction to not validate")
	}

	// Phase 2: sign externally and re-wrap.
	kp := address.NewKeyPairFromSeed(seed)
	preimage, err := unsigned.MarshalDataSig(0)
	if err != nil {
		t.Fatalf("MarshalDataSig: %v", err)
	}
	digest := sha512.Sum512(preimage)
	sig := kp.Sign(digest[:])

	b2 := ForExternalSigning(unsigned, address.Default)
	if err := b2.PkSignature(kp.PublicKey32(), sig); err != nil {
		t.Fatalf("PkSignature: %v", err)
	}
	signed, err := b2.Build()
	if err != nil {
		t.Fatalf("Build (phase 2): %v", err)
	}
	if !signed.ValidateSignatures() {
		t.Fatalf("expected fully-signed transaction to validate")
	}
}

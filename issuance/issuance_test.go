package issuance

import (
	"testing"

	"fattoken/address"
	"fattoken/errs"
)

func seedFor(b byte) [32]byte {
	var s [32]byte
	for i := range s {
		s[i] = b
	}
	return s
}

const testIssuerChainID = "cccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc"

func TestIssuanceSignedWithSK1Validates(t *testing.T) {
	sk1 := address.EncodeSK1(seedFor(40))

	b, err := NewBuilder(TypeFAT0, "mytoken", testIssuerChainID)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	if err := b.Supply(1_000_000); err != nil {
		t.Fatalf("Supply: %v", err)
	}
	b.Symbol("MYT")
	if err := b.Metadata(map[string]string{"description": "a test token"}); err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if err := b.SK1(sk1); err != nil {
		t.Fatalf("SK1: %v", err)
	}
	iss, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !iss.ValidateSignature() {
		t.Fatalf("expected signature to validate")
	}
	if iss.GetSupply() != 1_000_000 {
		t.Fatalf("unexpected supply %d", iss.GetSupply())
	}
	if symbol, ok := iss.GetSymbol(); !ok || symbol != "MYT" {
		t.Fatalf("unexpected symbol %q, ok=%v", symbol, ok)
	}
	if iss.GetType() != TypeFAT0 {
		t.Fatalf("unexpected type %q", iss.GetType())
	}
}

func TestRoundTripThroughEntry(t *testing.T) {
	sk1 := address.EncodeSK1(seedFor(44))
	b, _ := NewBuilder(TypeFAT1, "mytoken", testIssuerChainID)
	if err := b.Supply(42); err != nil {
		t.Fatalf("Supply: %v", err)
	}
	b.Symbol("MYT")
	if err := b.SK1(sk1); err != nil {
		t.Fatalf("SK1: %v", err)
	}
	iss, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	entry := iss.GetEntry()
	parsed, err := ParseEntry(entry.ChainID, entry.ExtIDs, entry.Content)
	if err != nil {
		t.Fatalf("ParseEntry: %v", err)
	}
	if !parsed.ValidateSignature() {
		t.Fatalf("expected round-tripped issuance to validate")
	}
	if parsed.GetType() != TypeFAT1 || parsed.GetTokenID() != "mytoken" || parsed.GetSupply() != 42 {
		t.Fatalf("unexpected parsed fields: %+v", parsed)
	}
	if symbol, ok := parsed.GetSymbol(); !ok || symbol != "MYT" {
		t.Fatalf("unexpected symbol %q, ok=%v", symbol, ok)
	}
}

func TestUnlimitedSupplySentinel(t *testing.T) {
	sk1 := address.EncodeSK1(seedFor(41))
	b, _ := NewBuilder(TypeFAT0, "mytoken", testIssuerChainID)
	if err := b.Supply(SupplyUnlimited); err != nil {
		t.Fatalf("Supply: %v", err)
	}
	if err := b.SK1(sk1); err != nil {
		t.Fatalf("SK1: %v", err)
	}
	iss, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if iss.GetSupply() != -1 {
		t.Fatalf("expected -1, got %d", iss.GetSupply())
	}
}

func TestNegativeSupplyOtherThanSentinelRejected(t *testing.T) {
	b, _ := NewBuilder(TypeFAT0, "mytoken", testIssuerChainID)
	err := b.Supply(-2)
	if !errs.Is(err, errs.InvalidAmount) {
		t.Fatalf("expected InvalidAmount, got %v", err)
	}
}

func TestMissingSupplyRejected(t *testing.T) {
	sk1 := address.EncodeSK1(seedFor(42))
	b, _ := NewBuilder(TypeFAT0, "mytoken", testIssuerChainID)
	if err := b.SK1(sk1); err != nil {
		t.Fatalf("SK1: %v", err)
	}
	_, err := b.Build()
	if !errs.Is(err, errs.InvalidAmount) {
		t.Fatalf("expected InvalidAmount, got %v", err)
	}
}

func TestMalformedSK1Rejected(t *testing.T) {
	b, _ := NewBuilder(TypeFAT0, "mytoken", testIssuerChainID)
	err := b.SK1("not-a-valid-sk1")
	if !errs.Is(err, errs.InvalidIssuerKey) {
		t.Fatalf("expected InvalidIssuerKey, got %v", err)
	}
}

func TestMissingIssuerKeyRejected(t *testing.T) {
	b, _ := NewBuilder(TypeFAT0, "mytoken", testIssuerChainID)
	if err := b.Supply(10); err != nil {
		t.Fatalf("Supply: %v", err)
	}
	_, err := b.Build()
	if !errs.Is(err, errs.MissingIssuerKey) {
		t.Fatalf("expected MissingIssuerKey, got %v", err)
	}
}

func TestBuilderSingleUse(t *testing.T) {
	sk1 := address.EncodeSK1(seedFor(43))
	b, _ := NewBuilder(TypeFAT0, "mytoken", testIssuerChainID)
	if err := b.Supply(10); err != nil {
		t.Fatalf("Supply: %v", err)
	}
	if err := b.SK1(sk1); err != nil {
		t.Fatalf("SK1: %v", err)
	}
	if _, err := b.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	_, err := b.Build()
	if !errs.Is(err, errs.BuilderFinalized) {
		t.Fatalf("expected BuilderFinalized, got %v", err)
	}
}

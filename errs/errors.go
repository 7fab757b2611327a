// Package errs defines the tagged error variants shared across the token
// transaction core. Every construction-time failure surfaces one of these
// kinds rather than an ad-hoc string, so callers can switch on Kind instead
// of matching error text.
package errs

import (
	"errors"
	"fmt"
)

// Kind tags the class of failure. See spec section 7 for the full catalogue.
type Kind string

const (
	InvalidChainId            Kind = "invalid_chain_id"
	InvalidAddress            Kind = "invalid_address"
	InvalidIdSet              Kind = "invalid_id_set"
	InvalidAmount             Kind = "invalid_amount"
	BalanceMismatch           Kind = "balance_mismatch"
	BalanceOverflow           Kind = "balance_overflow"
	AddressAppearsOnBothSides Kind = "address_appears_on_both_sides"
	CoinbaseWithExtraInputs   Kind = "coinbase_with_extra_inputs"
	DuplicateBurnOutput       Kind = "duplicate_burn_output"
	MissingIssuerKey          Kind = "missing_issuer_key"
	InvalidIssuerKey          Kind = "invalid_issuer_key"
	TokenMetadataNotCoinbase  Kind = "token_metadata_not_coinbase"
	MetadataNotSerializable  Kind = "metadata_not_serializable"
	MissingSignature          Kind = "missing_signature"
	UnknownPublicKey          Kind = "unknown_public_key"
	Id1Mismatch               Kind = "id1_mismatch"
	BuilderFinalized          Kind = "builder_finalized"
)

// Reason narrows InvalidIdSet failures.
type Reason string

const (
	ReasonNonInteger    Reason = "non_integer"
	ReasonNegativeBound Reason = "negative_bound"
	ReasonEmptyRange    Reason = "empty_range"
	ReasonOverlap       Reason = "overlap"
	ReasonNotAnArray    Reason = "not_an_array"
)

// Error is the single tagged error type returned by every construction-time
// failure in this module. Only the fields relevant to Kind are populated.
type Error struct {
	Kind   Kind
	Reason Reason // InvalidIdSet
	Role   string // InvalidAddress, InvalidIssuerKey
	Slot   int    // MissingSignature
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Reason != "" {
		msg += fmt.Sprintf("[%s]", e.Reason)
	}
	if e.Role != "" {
		msg += fmt.Sprintf("[%s]", e.Role)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error with no wrapped cause.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Wrap builds an Error carrying a lower-level cause.
func Wrap(kind Kind, detail string, cause error) *Error {
	return &Error{Kind: kind, Detail: detail, Cause: cause}
}

// IdSet builds an InvalidIdSet error tagged with a reason.
func IdSet(reason Reason, detail string) *Error {
	return &Error{Kind: InvalidIdSet, Reason: reason, Detail: detail}
}

// Address builds an InvalidAddress error tagged with the offending role.
func Address(role, detail string) *Error {
	return &Error{Kind: InvalidAddress, Role: role, Detail: detail}
}

// IssuerKey builds an InvalidIssuerKey error tagged with the offending
// role (RoleSK1/RoleID1) — distinct from Address so callers can tell a
// malformed issuer identity key apart from a malformed regular Factoid
// address.
func IssuerKey(role, detail string) *Error {
	return &Error{Kind: InvalidIssuerKey, Role: role, Detail: detail}
}

// MissingSig builds a MissingSignature error tagged with the empty slot.
func MissingSig(slot int) *Error {
	return &Error{Kind: MissingSignature, Slot: slot, Detail: fmt.Sprintf("signature slot %d is empty", slot)}
}

// Is reports whether err is (or wraps) an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

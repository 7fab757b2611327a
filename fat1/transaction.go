// Package fat1 implements the non-fungible token flavor of the token
// transaction core: every amount is an idset.Set of token IDs, and a
// transaction balances when the (disjoint, deduplicated) union of IDs
// moved by its inputs exactly equals the union moved by its outputs.
package fat1

import (
	"sort"

	"fattoken/address"
	"fattoken/errs"
	"fattoken/idset"
	"fattoken/internal/txcore"
)

// Transaction is a fully-built, immutable FAT-1 transaction.
type Transaction = txcore.Transaction[idset.Set]

// Input is one funding line of a FAT-1 transaction.
type Input = txcore.Input[idset.Set]

// Output is one destination line of a FAT-1 transaction.
type Output = txcore.Output[idset.Set]

// TokenMetadataEntry pairs an ID set with caller-supplied metadata
// describing the newly minted tokens in that set. Only valid on a
// coinbase transaction.
type TokenMetadataEntry = txcore.TokenMetadataEntry[idset.Set]

func validateAmount(a idset.Set) error {
	if err := idset.Validate(a); err != nil {
		return err
	}
	if len(a) == 0 {
		return errs.New(errs.InvalidAmount, "token ID set must be non-empty")
	}
	return nil
}

// expandAllDisjoint expands every set in amounts and confirms no ID is
// covered twice across different entries (an ID can only be moved by one
// input, or land in one output, per transaction).
func expandAllDisjoint(amounts []idset.Set) ([]uint64, error) {
	var all []uint64
	for _, s := range amounts {
		ids, err := idset.Expand(s)
		if err != nil {
			return nil, err
		}
		all = append(all, ids...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	for i := 1; i < len(all); i++ {
		if all[i] == all[i-1] {
			return nil, errs.IdSet(errs.ReasonOverlap, "token ID appears in more than one input or output")
		}
	}
	return all, nil
}

func checkBalance(inputs []Input, outputs []Output) error {
	inAmounts := make([]idset.Set, len(inputs))
	for i, in := range inputs {
		inAmounts[i] = in.Amount
	}
	outAmounts := make([]idset.Set, len(outputs))
	for i, out := range outputs {
		outAmounts[i] = out.Amount
	}

	inIDs, err := expandAllDisjoint(inAmounts)
	if err != nil {
		return err
	}
	outIDs, err := expandAllDisjoint(outAmounts)
	if err != nil {
		return err
	}
	if len(inIDs) != len(outIDs) {
		return errs.New(errs.BalanceMismatch, "input and output token ID sets differ")
	}
	for i := range inIDs {
		if inIDs[i] != outIDs[i] {
			return errs.New(errs.BalanceMismatch, "input and output token ID sets differ")
		}
	}
	return nil
}

// validateTokenMetadata confirms every entry's ID set is well-formed and
// that no token ID is described by more than one entry. It does not
// require the union of entries to equal the coinbase input's minted set:
// a coinbase mint may describe metadata for only some of its new IDs.
func validateTokenMetadata(entries []TokenMetadataEntry) error {
	amounts := make([]idset.Set, len(entries))
	for i, e := range entries {
		amounts[i] = e.IDs
	}
	_, err := expandAllDisjoint(amounts)
	return err
}

func hooks() txcore.Hooks[idset.Set] {
	return txcore.Hooks[idset.Set]{
		ValidateAmount:        validateAmount,
		CheckBalance:          checkBalance,
		ValidateTokenMetadata: validateTokenMetadata,
	}
}

var defaultCodec address.Codec = address.Default

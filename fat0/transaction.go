// Package fat0 implements the fungible token flavor of the token
// transaction core: every amount is a positive uint64 balance, and a
// transaction balances when its input amounts sum to its output amounts
// exactly, with overflow during summation reported as its own error kind
// rather than silently wrapping.
package fat0

import (
	"fmt"

	"fattoken/address"
	"fattoken/errs"
	"fattoken/internal/txcore"
)

// Transaction is a fully-built, immutable FAT-0 transaction.
type Transaction = txcore.Transaction[uint64]

// Input is one funding line of a FAT-0 transaction.
type Input = txcore.Input[uint64]

// Output is one destination line of a FAT-0 transaction.
type Output = txcore.Output[uint64]

func validateAmount(a uint64) error {
	if a == 0 {
		return errs.New(errs.InvalidAmount, "amount must be positive")
	}
	return nil
}

// sumWithOverflow adds vals left to right, reporting whether the running
// sum ever wrapped past math.MaxUint64.
func sumWithOverflow(vals []uint64) (sum uint64, overflowed bool) {
	for _, v := range vals {
		next := sum + v
		if next < sum {
			return sum, true
		}
		sum = next
	}
	return sum, false
}

func checkBalance(inputs []Input, outputs []Output) error {
	inAmounts := make([]uint64, len(inputs))
	for i, in := range inputs {
		inAmounts[i] = in.Amount
	}
	outAmounts := make([]uint64, len(outputs))
	for i, out := range outputs {
		outAmounts[i] = out.Amount
	}

	inSum, inOverflow := sumWithOverflow(inAmounts)
	outSum, outOverflow := sumWithOverflow(outAmounts)
	if inOverflow || outOverflow {
		return errs.New(errs.BalanceOverflow, "summing transaction amounts overflowed uint64")
	}
	if inSum != outSum {
		return errs.New(errs.BalanceMismatch, fmt.Sprintf("inputs sum to %d, outputs sum to %d", inSum, outSum))
	}
	return nil
}

func hooks() txcore.Hooks[uint64] {
	return txcore.Hooks[uint64]{
		ValidateAmount: validateAmount,
		CheckBalance:   checkBalance,
	}
}

// defaultCodec is used by every constructor in this package that doesn't
// take an explicit address.Codec.
var defaultCodec address.Codec = address.Default

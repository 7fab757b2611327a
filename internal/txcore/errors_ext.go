package txcore

import "fattoken/errs"

// These two kinds extend the catalogue in package errs: the non-empty
// inputs/outputs invariant (spec section 3.3) needs a tagged variant of
// its own, the same way every other invariant violation does.
const (
	EmptyInputs  errs.Kind = "empty_inputs"
	EmptyOutputs errs.Kind = "empty_outputs"
)

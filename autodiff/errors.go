package autodiff

import "errors"

// Sentinel errors returned by primitives and Grad. All failures are
// deterministic and caused by caller error, except ErrCorruptTape which
// guards internal invariants and is unreachable through the public API.
var (
	// ErrShapeMismatch means the operands violate a primitive's size rule.
	ErrShapeMismatch = errors.New("autodiff: shape mismatch")

	// ErrTapeMismatch means the operands reference different tapes.
	ErrTapeMismatch = errors.New("autodiff: operands recorded on different tapes")

	// ErrNotScalar means Grad was called on a non-1x1 root of a tape that
	// is no longer elementwise-only.
	ErrNotScalar = errors.New("autodiff: gradient root is not a 1x1 scalar")

	// ErrEmptyInput means VertCat was called with no operands.
	ErrEmptyInput = errors.New("autodiff: no input tensors")

	// ErrCorruptTape means a node references an index outside its own
	// range. Fails loudly; should never happen.
	ErrCorruptTape = errors.New("autodiff: corrupt tape")
)

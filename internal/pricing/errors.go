package pricing

import "errors"

//
// ==========================
// Error taxonomy
// ==========================
//

// Typed errors allow callers and tests to detect failure categories
// with errors.Is instead of string matching. Every failure site wraps
// one of these sentinels together with the offending value.
var (
	// ErrInvalidParameter marks constructor inputs outside the model's
	// domain (non-positive strike/maturity/spot, negative or implausible
	// volatility, NaN or infinite inputs).
	ErrInvalidParameter = errors.New("invalid model parameter")

	// ErrDegenerateInput marks volatility or maturity too small for a
	// numerically meaningful d1/d2. Callers needing the zero-vol or
	// zero-time limit should compute intrinsic value instead.
	ErrDegenerateInput = errors.New("degenerate input for d1/d2")

	// ErrNumerical marks an overflow or underflow detected during
	// pricing, such as a non-finite discount factor from extreme r*T.
	ErrNumerical = errors.New("numerical error in pricing")
)

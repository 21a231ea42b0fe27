package curves

import "errors"

var (
	// ErrInvalidAlgorithm reports an unsupported edge-detection algorithm.
	ErrInvalidAlgorithm = errors.New("curves: invalid algorithm")

	// ErrInvalidParameter reports malformed thresholds or sample counts.
	ErrInvalidParameter = errors.New("curves: invalid parameter")
)

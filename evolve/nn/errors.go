package nn

import "errors"

// Every message is prefixed with "nn: " so wrapped errors stay greppable.
// Callers match these with errors.Is; context is added with fmt.Errorf("...: %w").
var (
	// ErrAllocation is returned when a matrix or network cannot be allocated,
	// including non-positive or overflowing dimensions.
	ErrAllocation = errors.New("nn: allocation failed")

	// ErrDimensionMismatch indicates shape-incompatible operands, e.g. Dot where
	// a.Cols() != b.Rows(), or a Forward input with the wrong width.
	ErrDimensionMismatch = errors.New("nn: dimension mismatch")

	// ErrInvalidArchitecture indicates a layer-width sequence shorter than two
	// or containing a non-positive width.
	ErrInvalidArchitecture = errors.New("nn: invalid architecture")

	// ErrArchitectureMismatch is returned by Crossover when the parents do not
	// share an architecture. Callers are expected to recover from it.
	ErrArchitectureMismatch = errors.New("nn: architecture mismatch")

	// ErrCorruptFormat is returned by Decode for any malformed or truncated stream.
	ErrCorruptFormat = errors.New("nn: corrupt network format")
)

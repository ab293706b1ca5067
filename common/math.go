package common

// AlignUp rounds n up to the next multiple of align. align must be a power of two.
//
// Parameters:
//   - n: the value to round
//   - align: the power-of-two alignment
//
// Returns:
//   - uint64: n rounded up to a multiple of align
func AlignUp(n, align uint64) uint64 {
	return (n + align - 1) &^ (align - 1)
}

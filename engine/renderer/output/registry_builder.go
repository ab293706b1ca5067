package output

import "github.com/Carmen-Shannon/oxy-vector/engine/renderer/variant"

// RegistryBuilderOption is a functional option for configuring a Registry.
// Use the With* functions to create options.
type RegistryBuilderOption func(r *registry)

// WithEagerVariants compiles the given kinds when the registry is created and again after
// every format change, whether or not a class uses them yet.
//
// Parameters:
//   - kinds: the kinds to compile up front
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithEagerVariants(kinds ...variant.Kind) RegistryBuilderOption {
	return func(r *registry) {
		r.eager = append(r.eager, kinds...)
	}
}

// WithVariantOptions passes options to every variant set the registry builds, including the
// sets rebuilt after a format change.
//
// Parameters:
//   - opts: the variant set options
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithVariantOptions(opts ...variant.SetBuilderOption) RegistryBuilderOption {
	return func(r *registry) {
		r.variantOpts = append(r.variantOpts, opts...)
	}
}

// WithWorkers sets the number of worker goroutines AddInstances validates and encodes
// batches on. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithWorkers(n int) RegistryBuilderOption {
	return func(r *registry) {
		r.workers = max(n, 1)
	}
}

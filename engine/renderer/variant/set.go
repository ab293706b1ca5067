package variant

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-vector/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// set is the implementation of the Set interface.
type set struct {
	compiler Compiler
	format   wgpu.TextureFormat
	cfg      config

	variants [kindCount]*variant
	errs     [kindCount]error
}

// Set holds at most one realized variant per kind for a single target format.
// It is not safe for concurrent use.
type Set interface {
	// Format returns the target format every variant in the set is compiled against.
	Format() wgpu.TextureFormat

	// Compile returns the variant for kind, compiling it on first use. Repeated calls return
	// the same Variant, or the same *ConfigError if compilation failed.
	//
	// Parameters:
	//   - kind: the variant kind
	//
	// Returns:
	//   - Variant: the compiled variant, nil on failure
	//   - error: a *ConfigError describing the failure
	Compile(kind Kind) (Variant, error)

	// Variant returns the already compiled variant for kind without compiling.
	//
	// Parameters:
	//   - kind: the variant kind
	//
	// Returns:
	//   - Variant: the variant, or nil
	//   - bool: true if the variant has been compiled successfully
	Variant(kind Kind) (Variant, bool)

	// Err returns the cached compile failure for kind, or nil.
	Err(kind Kind) error

	// Compiled returns every successfully compiled variant in kind order.
	Compiled() []Variant

	// Release frees every compiled variant and forgets cached failures.
	Release()
}

var _ Set = &set{}

// NewSet creates an empty Set. Nothing touches the device until Compile is called.
//
// Parameters:
//   - compiler: the device used to realize variants
//   - format: the color target format
//   - opts: functional options configuring initial uniform values and images
//
// Returns:
//   - Set: the empty set
func NewSet(compiler Compiler, format wgpu.TextureFormat, opts ...SetBuilderOption) Set {
	s := &set{
		compiler: compiler,
		format:   format,
		cfg:      defaultConfig(),
	}
	for _, opt := range opts {
		opt(&s.cfg)
	}
	return s
}

func (s *set) Format() wgpu.TextureFormat {
	return s.format
}

func (s *set) Compile(kind Kind) (Variant, error) {
	if !kind.Valid() {
		return nil, &ConfigError{Kind: kind, Format: s.format, Err: ErrInvalidKind}
	}
	if v := s.variants[kind]; v != nil {
		return v, nil
	}
	if err := s.errs[kind]; err != nil {
		return nil, err
	}

	v, err := compile(s.compiler, kind, s.format, &s.cfg)
	if err != nil {
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			cfgErr = &ConfigError{Kind: kind, Format: s.format, Err: err}
		}
		s.errs[kind] = cfgErr
		common.Logger().Warn("shader variant unavailable", "kind", kind.String(), "format", s.format, "error", err)
		return nil, cfgErr
	}

	common.Logger().Debug("shader variant compiled", "kind", kind.String(), "format", s.format, "bind_group", v.provider != nil)
	s.variants[kind] = v
	return v, nil
}

func (s *set) Variant(kind Kind) (Variant, bool) {
	if !kind.Valid() || s.variants[kind] == nil {
		return nil, false
	}
	return s.variants[kind], true
}

func (s *set) Err(kind Kind) error {
	if !kind.Valid() {
		return nil
	}
	return s.errs[kind]
}

func (s *set) Compiled() []Variant {
	out := make([]Variant, 0, kindCount)
	for _, v := range s.variants {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

func (s *set) Release() {
	for k, v := range s.variants {
		if v != nil {
			v.release(s.compiler)
			s.variants[k] = nil
		}
		s.errs[k] = nil
	}
}

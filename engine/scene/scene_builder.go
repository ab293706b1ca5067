package scene

// SceneBuilderOption is a functional option for configuring how a Scene is parsed.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithBaseDir sets the directory relative texture paths resolve against.
// Load defaults it to the directory of the scene file.
//
// Parameters:
//   - dir: the base directory
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBaseDir(dir string) SceneBuilderOption {
	return func(s *scene) {
		s.baseDir = dir
	}
}

// WithSegments sets the outline segment count for circles and ellipses that do not specify
// their own. Values below 3 are ignored. Defaults to 48.
//
// Parameters:
//   - n: the number of segments
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSegments(n int) SceneBuilderOption {
	return func(s *scene) {
		if n >= 3 {
			s.segments = n
		}
	}
}

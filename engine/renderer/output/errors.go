package output

import "errors"

// ErrPrecondition is wrapped by every error caused by a call the registry's current state
// does not permit. Nothing is changed when one is returned.
var ErrPrecondition = errors.New("precondition violated")

var (
	// ErrClassNotEmpty is returned by RemoveClass while the class still owns instances.
	ErrClassNotEmpty = preconditionError("class still has instances")

	// ErrIndexOutOfRange is returned when an index addresses a vertex outside the class vertex buffer.
	ErrIndexOutOfRange = preconditionError("index addresses a vertex outside the class")

	// ErrUnknownClass is returned for a class handle that is not registered.
	ErrUnknownClass = preconditionError("unknown class")

	// ErrUnknownInstance is returned for an instance handle that is not registered.
	ErrUnknownInstance = preconditionError("unknown instance")

	// ErrInvalidVertices is returned when vertex data is empty or not a whole number of vertices.
	ErrInvalidVertices = preconditionError("invalid vertex data")

	// ErrInvalidIndices is returned when index data is empty or not a whole number of triangles.
	ErrInvalidIndices = preconditionError("invalid index data")

	// ErrFrameInFlight is returned by removals between Dispatch and the end of that frame's submission.
	ErrFrameInFlight = preconditionError("frame in flight")
)

type precondition struct {
	msg string
}

func preconditionError(msg string) error {
	return &precondition{msg: msg}
}

func (e *precondition) Error() string {
	return e.msg
}

func (e *precondition) Unwrap() error {
	return ErrPrecondition
}

package output

import (
	"encoding/binary"
	"fmt"
)

// validateVertices checks that data holds a whole, non-zero number of vertices of stride bytes.
func validateVertices(data []byte, stride uint64) (uint32, error) {
	if stride == 0 || len(data) == 0 || uint64(len(data))%stride != 0 {
		return 0, fmt.Errorf("%w: %d bytes with a %d byte stride", ErrInvalidVertices, len(data), stride)
	}
	count := uint64(len(data)) / stride
	if count > uint64(^uint32(0)) {
		return 0, fmt.Errorf("%w: %d vertices exceeds the uint32 index range", ErrInvalidVertices, count)
	}
	return uint32(count), nil
}

// encodeIndices validates a triangle list against vertexCount and returns its little-endian bytes.
func encodeIndices(indices []uint32, vertexCount uint32) ([]byte, error) {
	if len(indices) == 0 || len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices is not a whole number of triangles", ErrInvalidIndices, len(indices))
	}
	out := make([]byte, len(indices)*4)
	for i, idx := range indices {
		if idx >= vertexCount {
			return nil, fmt.Errorf("%w: index %d at position %d, class has %d vertices", ErrIndexOutOfRange, idx, i, vertexCount)
		}
		binary.LittleEndian.PutUint32(out[i*4:], idx)
	}
	return out, nil
}

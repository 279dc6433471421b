package compute

import (
	"fmt"
)

// Buffer is a fixed-length device-side array of T. Host code moves data
// in and out with Write and Read, which always copy; kernels operate on
// the backing slice directly through Data. Host reads are therefore
// snapshots and never alias device state.
type Buffer[T any] struct {
	data []T
}

// NewBuffer allocates a device buffer holding n elements.
func NewBuffer[T any](n int) (*Buffer[T], error) {
	if n <= 0 {
		return nil, fmt.Errorf("compute: buffer length must be positive, got %d", n)
	}
	return &Buffer[T]{data: make([]T, n)}, nil
}

// Len returns the buffer's element count.
func (b *Buffer[T]) Len() int { return len(b.data) }

// Data returns the device-side view of the buffer. Only kernels may
// touch it; host code goes through Read and Write.
func (b *Buffer[T]) Data() []T { return b.data }

// Write copies src into the front of the buffer.
func (b *Buffer[T]) Write(src []T) error {
	if len(src) > len(b.data) {
		return fmt.Errorf("compute: write of %d elements into buffer of %d",
			len(src), len(b.data))
	}
	copy(b.data, src)
	return nil
}

// Read copies the front of the buffer into dst.
func (b *Buffer[T]) Read(dst []T) error {
	if len(dst) > len(b.data) {
		return fmt.Errorf("compute: read of %d elements from buffer of %d",
			len(dst), len(b.data))
	}
	copy(dst, b.data)
	return nil
}

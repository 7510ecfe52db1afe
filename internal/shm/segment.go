package shm

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/elbo-studio/pivot-sdk-go/internal/shared/uid"
)

// GeneratedPrefix is prepended to auto-generated segment names.
const GeneratedPrefix = "pshm_"

// maxNameLen keeps names portable; macOS caps POSIX shm names at 31 chars.
const maxNameLen = 31

var (
	// ErrZeroSize is returned when creating a segment with size 0.
	ErrZeroSize = errors.New("segment size must be greater than zero")

	// ErrEmptyName is returned when opening a segment without a name.
	ErrEmptyName = errors.New("segment name required when opening")
)

// Segment is one named OS shared-memory mapping, exclusively owned by its
// creator or opener until Close. A Segment is either fully mapped or fully
// closed; no partial state is observable.
type Segment struct {
	name string
	data []byte // mapped region, nil once closed
}

// Create allocates and maps a new shared-memory object of exactly size bytes.
// An empty name generates a fresh "pshm_<uid>" identifier. On any failure no
// handle is retained.
func Create(name string, size int) (*Segment, error) {
	if size <= 0 {
		return nil, ErrZeroSize
	}
	if name == "" {
		name = GeneratedPrefix + uid.New()
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	data, err := mapCreate(name, size)
	if err != nil {
		return nil, fmt.Errorf("failed to create segment %q: %w", name, err)
	}

	return &Segment{name: name, data: data}, nil
}

// Open attaches to an existing named segment. The mapped size is whatever was
// specified at creation.
func Open(name string) (*Segment, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	data, err := mapOpen(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open segment %q: %w", name, err)
	}

	return &Segment{name: name, data: data}, nil
}

// Close unmaps the segment and releases the local handle. It never removes
// the OS-level object; only the engine unlinks segments once it has consumed
// them. Close is idempotent and safe to defer.
func (s *Segment) Close() error {
	if s.data == nil {
		return nil
	}
	data := s.data
	s.data = nil
	if err := unmapSegment(data); err != nil {
		return fmt.Errorf("failed to unmap segment %q: %w", s.name, err)
	}
	return nil
}

// Name returns the segment's OS-wide name.
func (s *Segment) Name() string { return s.name }

// Size returns the mapped size in bytes, or 0 when closed.
func (s *Segment) Size() int { return len(s.data) }

// IsClosed reports whether the mapping has been released.
func (s *Segment) IsClosed() bool { return s.data == nil }

// Bytes returns the mapped region. The slice is only valid while the segment
// is open; it is nil once closed.
func (s *Segment) Bytes() []byte { return s.data }

// Float32s returns a zero-copy float32 view of the mapping. Writes through
// the slice land directly in shared memory. Valid only while open.
func (s *Segment) Float32s() []float32 {
	return typedView[float32](s.data)
}

// Uint32s returns a zero-copy uint32 view of the mapping. Valid only while
// open.
func (s *Segment) Uint32s() []uint32 {
	return typedView[uint32](s.data)
}

// typedView reinterprets the mapping as a slice of T. The mapping is
// page-aligned, so any fixed-size scalar T is safely aligned.
func typedView[T any](data []byte) []T {
	if len(data) == 0 {
		return nil
	}
	elem := int(unsafe.Sizeof(*new(T)))
	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), len(data)/elem)
}

// validateName rejects names the underlying OS object namespace cannot hold.
func validateName(name string) error {
	if strings.ContainsRune(name, '/') {
		return fmt.Errorf("segment name %q must not contain '/'", name)
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("segment name %q exceeds %d characters", name, maxNameLen)
	}
	return nil
}

package events

// KindMemoryReset identifies a memory reset request.
const KindMemoryReset Kind = "memory.reset"

// MemoryReset reports whether a reset found anything to clear.
type MemoryReset struct {
	Base
	Cleared bool
}

// NewMemoryReset creates a memory reset event.
func NewMemoryReset(cleared bool) MemoryReset {
	return MemoryReset{Base: NewBase(KindMemoryReset), Cleared: cleared}
}

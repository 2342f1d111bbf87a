package history

import (
	"sync"
)

// DefaultMaxEntries bounds the undo depth when no option overrides it.
const DefaultMaxEntries = 1000

// UpdateFunc computes the next value from the current present value.
// It must be pure: no side effects, no retained references to its input.
type UpdateFunc[T any] func(T) T

// Manager maintains a linear undo/redo timeline over a value of type T.
type Manager[T any] struct {
	mu sync.Mutex

	past    []T
	present T
	future  []T

	// saved is the last value explicitly marked as persisted.
	saved T

	equal      EqualFunc[T]
	maxEntries int

	// Grouping state
	grouping  bool
	groupBase T
}

// New creates a manager whose present value and saved marker start at
// initial, with empty past and future.
func New[T any](initial T, opts ...Option[T]) *Manager[T] {
	m := &Manager[T]{
		present:    initial,
		saved:      initial,
		equal:      JSONEqual[T],
		maxEntries: DefaultMaxEntries,
	}

	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Set replaces the present value with v.
// It reports whether the state changed.
func (m *Manager[T]) Set(v T) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setLocked(v)
}

// Update replaces the present value with fn(present). fn is invoked with
// the present value as it is at this moment, under the manager's lock,
// never with a stale snapshot. It reports whether the state changed.
func (m *Manager[T]) Update(fn UpdateFunc[T]) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setLocked(fn(m.present))
}

// setLocked applies the write rules without acquiring the lock.
func (m *Manager[T]) setLocked(next T) bool {
	if m.equal(next, m.present) {
		return false
	}

	if m.grouping {
		m.present = next
		return true
	}

	// A write that lands exactly on the newest past entry replaces the
	// present without pushing a frame; past and future stay untouched.
	if n := len(m.past); n > 0 && m.equal(m.past[n-1], next) {
		m.present = next
		return true
	}

	m.pushLocked(next)
	return true
}

// pushLocked records the present as history and installs next.
// Clears the future: a new write invalidates the redo path.
func (m *Manager[T]) pushLocked(next T) {
	m.past = append(m.past, m.present)
	m.present = next
	m.future = nil

	// Enforce max entries
	if len(m.past) > m.maxEntries {
		excess := len(m.past) - m.maxEntries
		m.past = m.past[excess:]
	}
}

// Undo steps the present back to the newest past entry. The displaced
// present becomes the nearest future entry. It reports whether a step
// was taken; with an empty past it is a no-op.
func (m *Manager[T]) Undo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.past) == 0 {
		return false
	}

	previous := m.past[len(m.past)-1]
	m.past = m.past[:len(m.past)-1]
	m.future = append([]T{m.present}, m.future...)
	m.present = previous
	return true
}

// Redo steps the present forward to the nearest future entry. The
// displaced present returns to the past. It reports whether a step was
// taken; with an empty future it is a no-op.
func (m *Manager[T]) Redo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.future) == 0 {
		return false
	}

	next := m.future[0]
	m.future = m.future[1:]
	m.past = append(m.past, m.present)
	m.present = next
	return true
}

// Reset discards the entire timeline: past and future are cleared, the
// present and the saved marker both become v. Any open group is
// abandoned.
func (m *Manager[T]) Reset(v T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.past = nil
	m.future = nil
	m.present = v
	m.saved = v
	m.grouping = false
	var zero T
	m.groupBase = zero
}

// MarkSaved records the present value as the last persisted state.
// Past and future are unaffected.
func (m *Manager[T]) MarkSaved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = m.present
}

// Present returns the current value.
func (m *Manager[T]) Present() T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.present
}

// CanUndo returns true if at least one past entry exists.
func (m *Manager[T]) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.past) > 0
}

// CanRedo returns true if at least one future entry exists.
func (m *Manager[T]) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.future) > 0
}

// HasUnsavedChanges reports whether the present value differs from the
// saved marker.
func (m *Manager[T]) HasUnsavedChanges() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.equal(m.present, m.saved)
}

// UndoCount returns the number of undo steps available.
func (m *Manager[T]) UndoCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.past)
}

// RedoCount returns the number of redo steps available.
func (m *Manager[T]) RedoCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.future)
}

// Past returns a copy of the past entries, oldest first.
func (m *Manager[T]) Past() []T {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]T, len(m.past))
	copy(out, m.past)
	return out
}

// Future returns a copy of the future entries, nearest first.
func (m *Manager[T]) Future() []T {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]T, len(m.future))
	copy(out, m.future)
	return out
}

// BeginGroup starts collapsing writes into a single undo frame.
// Nested calls are ignored.
func (m *Manager[T]) BeginGroup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.grouping {
		return
	}
	m.grouping = true
	m.groupBase = m.present
}

// EndGroup finishes the group. If the present moved away from the value
// at BeginGroup, the group's base value is recorded as one past entry,
// subject to the same deduplication rules as a single write.
func (m *Manager[T]) EndGroup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.grouping {
		return
	}
	m.grouping = false

	base := m.groupBase
	var zero T
	m.groupBase = zero

	if m.equal(m.present, base) {
		return
	}

	// Net effect of the group was an undo-equivalent write: the present
	// already sits on the newest past entry, so no frame is pushed.
	if n := len(m.past); n > 0 && m.equal(m.past[n-1], m.present) {
		return
	}

	m.past = append(m.past, base)
	m.future = nil

	if len(m.past) > m.maxEntries {
		excess := len(m.past) - m.maxEntries
		m.past = m.past[excess:]
	}
}

// CancelGroup abandons the group and restores the present to its value
// at BeginGroup. No history frame is recorded.
func (m *Manager[T]) CancelGroup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.grouping {
		return
	}
	m.grouping = false
	m.present = m.groupBase
	var zero T
	m.groupBase = zero
}

// IsGrouping returns true if a group is currently open.
func (m *Manager[T]) IsGrouping() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.grouping
}

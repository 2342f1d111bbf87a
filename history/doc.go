// Package history provides a linear undo/redo timeline over an arbitrary
// value type.
//
// A Manager owns a three-part record: past states (oldest first), the
// present state, and future states (nearest first). Writes move the
// present into the past; undo and redo walk the timeline in either
// direction. Key concepts:
//
// # Writes
//
// Set replaces the present with a literal value. Update computes the next
// value from the current present, which avoids stale-snapshot bugs when
// the caller's view of the state may be out of date:
//
//	m := history.New(doc)
//
//	m.Set(nextDoc)
//	m.Update(func(d Document) Document {
//	    d.Title = "draft"
//	    return d
//	})
//
// A write equal to the present value is a no-op. A write equal to the
// newest past entry replaces the present without growing history, so a
// computed value that lands back on the previous state does not pollute
// the timeline with a duplicate frame. Any other write clears the future:
// a new branch invalidates the redo path.
//
// # Undo and Redo
//
// Undo and Redo report whether a step was taken. At the boundary (empty
// past or empty future) they are no-ops, not errors - UI affordances may
// race against rapid input and call them freely:
//
//	if m.Undo() {
//	    render(m.Present())
//	}
//
// # Saved marker
//
// MarkSaved records the present value as the last persisted state;
// HasUnsavedChanges reports whether the present has drifted from it.
// Reset replaces the entire timeline and the saved marker at once.
//
// # Grouping
//
// Multiple writes can be collapsed into a single undo frame:
//
//	m.BeginGroup()
//	// ... several Set/Update calls ...
//	m.EndGroup()
//
// Now one Undo restores the value from before the group.
//
// # Equality
//
// "Unchanged" and "duplicate" are decided by an equality function. The
// default, JSONEqual, compares canonical JSON encodings: deep, order
// sensitive for sequences, key-set sensitive for mappings. The tracked
// type must therefore be serialization-stable - embedded timestamps,
// random ids, or values json cannot encode make deduplication and dirty
// detection unreliable. Supply WithEqual to substitute a custom function.
package history

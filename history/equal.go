package history

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// EqualFunc reports whether two values represent the same state.
type EqualFunc[T any] func(a, b T) bool

// JSONEqual compares two values by their canonical JSON encoding.
// encoding/json writes map keys in sorted order, so independently
// constructed but structurally identical values encode to identical
// bytes. Values json cannot encode (cycles, channels, functions) fall
// back to reflect.DeepEqual.
//
// Caller contract: the compared type must be serialization-stable.
// Non-deterministic fields such as timestamps or random ids make two
// semantically equal values compare unequal.
func JSONEqual[T any](a, b T) bool {
	ab, aerr := json.Marshal(a)
	bb, berr := json.Marshal(b)
	if aerr != nil || berr != nil {
		return reflect.DeepEqual(a, b)
	}
	return bytes.Equal(ab, bb)
}

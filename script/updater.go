package script

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/rewind/history"
)

// DefaultBudget bounds the execution time of a single chunk evaluation
// or Apply call. A script that exceeds it is aborted with an error.
const DefaultBudget = 5 * time.Second

// ErrNotAFunction is returned when a compiled chunk does not evaluate to
// a Lua function.
var ErrNotAFunction = errors.New("script: chunk did not return a function")

// Updater is a compiled, sandboxed Lua state transform.
type Updater struct {
	mu     sync.Mutex
	name   string
	budget time.Duration
	L      *lua.LState
	fn     *lua.LFunction
}

// Option configures an Updater during compilation.
type Option func(*Updater)

// WithBudget sets the execution budget for chunk evaluation and each
// Apply call. Values of zero or less keep the default.
func WithBudget(d time.Duration) Option {
	return func(u *Updater) {
		if d > 0 {
			u.budget = d
		}
	}
}

// Compile evaluates source in a fresh sandboxed Lua state. The chunk must
// return a function of one argument; that function is retained and run on
// every Apply. The name appears in error messages.
func Compile(name, source string, opts ...Option) (*Updater, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	u := &Updater{name: name, budget: DefaultBudget, L: L}
	for _, opt := range opts {
		opt(u)
	}

	if err := openSafeLibs(L); err != nil {
		L.Close()
		return nil, fmt.Errorf("script %s: open libraries: %w", name, err)
	}
	stripUnsafeGlobals(L)

	chunk, err := L.LoadString(source)
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("script %s: compile: %w", name, err)
	}

	L.Push(chunk)
	if err := u.callBudgeted(0, 1); err != nil {
		L.Close()
		return nil, fmt.Errorf("script %s: evaluate chunk: %w", name, err)
	}

	ret := L.Get(-1)
	L.Pop(1)

	fn, ok := ret.(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("script %s: %w", name, ErrNotAFunction)
	}

	u.fn = fn
	return u, nil
}

// Apply runs the compiled function against state and returns the result.
// State is converted to Lua values on the way in and back to Go values
// (bool, int64, float64, string, []any, map[string]any, nil) on the way
// out. Arbitrary Go structs are normalized through their JSON encoding.
// A script that exceeds the execution budget is aborted.
func (u *Updater) Apply(state any) (any, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.L == nil {
		return nil, fmt.Errorf("script %s: updater is closed", u.name)
	}

	u.L.Push(u.fn)
	u.L.Push(toLua(u.L, state))
	if err := u.callBudgeted(1, 1); err != nil {
		return nil, fmt.Errorf("script %s: %w", u.name, err)
	}

	out := u.L.Get(-1)
	u.L.Pop(1)
	return fromLua(out, make(map[*lua.LTable]bool)), nil
}

// callBudgeted runs a protected call with the execution budget installed
// as the Lua state's context. The VM checks the context as it executes,
// so a non-terminating script is aborted at the deadline instead of
// spinning forever.
func (u *Updater) callBudgeted(nargs, nret int) error {
	ctx, cancel := context.WithTimeout(context.Background(), u.budget)
	defer cancel()

	u.L.SetContext(ctx)
	defer u.L.RemoveContext()

	if err := u.L.PCall(nargs, nret, nil); err != nil {
		// Leave no residue on the stack after an aborted call.
		u.L.SetTop(0)
		return err
	}
	return nil
}

// UpdateFunc adapts the updater to a history manager over any. A script
// error leaves the state unchanged, which the manager then treats as a
// no-op write.
func (u *Updater) UpdateFunc() history.UpdateFunc[any] {
	return func(prev any) any {
		next, err := u.Apply(prev)
		if err != nil {
			return prev
		}
		return next
	}
}

// Close releases the underlying Lua state.
func (u *Updater) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.L != nil {
		u.L.Close()
		u.L = nil
		u.fn = nil
	}
}

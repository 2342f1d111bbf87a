// Package script compiles Lua chunks into state updater functions.
//
// A chunk must return a single function of one argument. The tracked
// state crosses the boundary as Lua tables and scalars; the function's
// return value becomes the next state:
//
//	u, err := script.Compile("bump", `
//	    return function(state)
//	        state.count = state.count + 1
//	        return state
//	    end
//	`)
//
//	next, err := u.Apply(map[string]any{"count": 1})
//
// Execution is sandboxed: only the base, table, string, and math
// libraries are available, chunk-loading functions are removed, and
// every evaluation runs under an execution budget (WithBudget) so a
// non-terminating script aborts instead of hanging its caller.
// An Updater serializes calls internally because a Lua state is not
// goroutine-safe.
package script

package script

import (
	"errors"
	"testing"
	"time"

	"github.com/dshills/rewind/history"
)

func TestCompileAndApply(t *testing.T) {
	u, err := Compile("bump", `
		return function(state)
			state.count = state.count + 1
			return state
		end
	`)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	defer u.Close()

	out, err := u.Apply(map[string]any{"count": int64(1), "name": "doc"})
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	m, ok := out.(map[string]any)
	if !ok {
		t.Fatalf("Apply() returned %T, want map", out)
	}
	if m["count"] != int64(2) {
		t.Errorf("count = %v, want 2", m["count"])
	}
	if m["name"] != "doc" {
		t.Errorf("name = %v, want doc", m["name"])
	}
}

func TestApplyScalarAndArray(t *testing.T) {
	u, err := Compile("double", `
		return function(xs)
			local out = {}
			for i, x in ipairs(xs) do
				out[i] = x * 2
			end
			return out
		end
	`)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	defer u.Close()

	out, err := u.Apply([]any{int64(1), int64(2), int64(3)})
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	arr, ok := out.([]any)
	if !ok {
		t.Fatalf("Apply() returned %T, want slice", out)
	}
	want := []int64{2, 4, 6}
	for i, w := range want {
		if arr[i] != w {
			t.Errorf("arr[%d] = %v, want %d", i, arr[i], w)
		}
	}
}

func TestApplyStructNormalizedThroughJSON(t *testing.T) {
	type doc struct {
		Title string `json:"title"`
		Draft bool   `json:"draft"`
	}

	u, err := Compile("publish", `
		return function(d)
			d.draft = false
			return d
		end
	`)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	defer u.Close()

	out, err := u.Apply(doc{Title: "notes", Draft: true})
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	m, ok := out.(map[string]any)
	if !ok {
		t.Fatalf("Apply() returned %T, want map", out)
	}
	if m["draft"] != false {
		t.Errorf("draft = %v, want false", m["draft"])
	}
	if m["title"] != "notes" {
		t.Errorf("title = %v, want notes", m["title"])
	}
}

func TestCompileNotAFunction(t *testing.T) {
	_, err := Compile("bad", `return 42`)
	if !errors.Is(err, ErrNotAFunction) {
		t.Errorf("Compile() error = %v, want ErrNotAFunction", err)
	}
}

func TestCompileSyntaxError(t *testing.T) {
	if _, err := Compile("broken", `return function(`); err == nil {
		t.Error("Compile() should fail on a syntax error")
	}
}

func TestApplyRuntimeError(t *testing.T) {
	u, err := Compile("boom", `
		return function(state)
			error("boom")
		end
	`)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	defer u.Close()

	if _, err := u.Apply(map[string]any{}); err == nil {
		t.Error("Apply() should surface the Lua runtime error")
	}
}

func TestSandboxBlocksChunkLoading(t *testing.T) {
	for _, global := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		u, err := Compile(global, `
			return function(state)
				return `+global+` == nil
			end
		`)
		if err != nil {
			t.Fatalf("Compile() error: %v", err)
		}

		out, err := u.Apply(nil)
		u.Close()
		if err != nil {
			t.Fatalf("Apply() error: %v", err)
		}
		if out != true {
			t.Errorf("%s should be removed from the sandbox", global)
		}
	}
}

func TestSandboxHasNoOSLibrary(t *testing.T) {
	u, err := Compile("os-check", `
		return function(state)
			return os == nil and io == nil
		end
	`)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	defer u.Close()

	out, err := u.Apply(nil)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if out != true {
		t.Error("os and io libraries should not be loaded")
	}
}

func TestApplyAbortsNonTerminatingScript(t *testing.T) {
	u, err := Compile("spin", `
		return function(state)
			while true do end
		end
	`, WithBudget(50*time.Millisecond))
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	defer u.Close()

	start := time.Now()
	_, err = u.Apply(nil)
	if err == nil {
		t.Fatal("Apply() should abort a non-terminating script")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Apply() aborted after %v, budget not enforced promptly", elapsed)
	}
}

func TestCompileAbortsNonTerminatingChunk(t *testing.T) {
	_, err := Compile("spin-chunk", `
		while true do end
	`, WithBudget(50*time.Millisecond))
	if err == nil {
		t.Fatal("Compile() should abort a non-terminating chunk")
	}
}

func TestApplyAfterClose(t *testing.T) {
	u, err := Compile("closed", `return function(s) return s end`)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	u.Close()
	if _, err := u.Apply(nil); err == nil {
		t.Error("Apply() on a closed updater should fail")
	}
}

func TestUpdateFuncWithHistoryManager(t *testing.T) {
	u, err := Compile("bump", `
		return function(state)
			state.count = state.count + 1
			return state
		end
	`)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	defer u.Close()

	m := history.New[any](map[string]any{"count": int64(0)})

	m.Update(u.UpdateFunc())
	m.Update(u.UpdateFunc())

	present, ok := m.Present().(map[string]any)
	if !ok {
		t.Fatalf("Present() is %T, want map", m.Present())
	}
	if present["count"] != int64(2) {
		t.Errorf("count = %v, want 2", present["count"])
	}
	if m.UndoCount() != 2 {
		t.Errorf("UndoCount() = %d, want 2", m.UndoCount())
	}

	m.Undo()
	present = m.Present().(map[string]any)
	if present["count"] != int64(1) {
		t.Errorf("count after undo = %v, want 1", present["count"])
	}
}

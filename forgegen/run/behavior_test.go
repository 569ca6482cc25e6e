package run_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/mockforge/mockforge/forgegen/run"
)

// diskFileSystem passes reads and writes straight through to the OS, for
// tests that assemble a real scratch module.
type diskFileSystem struct{}

func (diskFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (diskFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

const userServiceYAML = `interface: UserService
concurrency: threadsafe
members:
  - op:
      name: fetchUser
      params:
        - name: id
          type: int
      result: string
  - op:
      name: save
      params:
        - name: user
          type: string
  - op:
      name: save
      params:
        - name: user
          type: string
        - name: flag
          type: bool
  - op:
      name: transform
      generics:
        - T
      params:
        - name: value
          type: T
      result: T
  - property:
      name: retries
      type: int
      mutable: true
`

const probeYAML = `interface: Probe
members:
  - op:
      name: ping
  - condition: scratchcond
    op:
      name: tuned
`

// mockBehaviorSource asserts the runtime contract of the generated mocks:
// call tracking, handler dispatch, the unset-handler panic, overload
// isolation, erasure round-trips, concurrent tracking fidelity, and
// idempotent reset. It compiles against the generated sources inside the
// scratch module.
const mockBehaviorSource = `package mocks

import (
	"sync"
	"testing"
)

func TestFetchUser_TracksAndDispatches(t *testing.T) {
	mock := NewUserServiceMock()
	mock.SetFetchUserHandler(func(id int) string { return "User 42" })

	if got := mock.FetchUser(42); got != "User 42" {
		t.Fatalf("FetchUser returned %q", got)
	}

	if count := mock.FetchUserCallCount(); count != 1 {
		t.Fatalf("call count = %d, want 1", count)
	}

	calls := mock.FetchUserCalls()
	if len(calls) != 1 || calls[0].Id != 42 {
		t.Fatalf("call log = %v", calls)
	}
}

func TestFetchUser_PanicsWithoutHandler(t *testing.T) {
	defer func() {
		msg, ok := recover().(string)
		if !ok || msg != "UserServiceMock.FetchUser: no handler configured" {
			t.Fatalf("unexpected panic value: %v", msg)
		}
	}()

	NewUserServiceMock().FetchUser(1)
}

func TestSaveOverloads_TrackIndependently(t *testing.T) {
	mock := NewUserServiceMock()

	mock.SaveString("a")
	mock.SaveString("b")

	if count := mock.SaveStringCallCount(); count != 2 {
		t.Fatalf("SaveString count = %d, want 2", count)
	}

	if count := mock.SaveStringBoolCallCount(); count != 0 {
		t.Fatalf("SaveStringBool count = %d, want 0", count)
	}
}

func TestTransform_ErasedRoundTrip(t *testing.T) {
	mock := NewUserServiceMock()
	mock.SetTransformHandler(func(value any) any { return value })

	type record struct{ A int }

	for _, value := range []any{1, "x", record{A: 7}} {
		if got := mock.Transform(value); got != value {
			t.Fatalf("Transform(%v) = %v", value, got)
		}
	}
}

func TestFetchUser_ConcurrentTracking(t *testing.T) {
	const callers = 200

	mock := NewUserServiceMock()
	mock.SetFetchUserHandler(func(id int) string { return "" })

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()
			mock.FetchUser(n)
		}(i)
	}
	wg.Wait()

	if count := mock.FetchUserCallCount(); count != callers {
		t.Fatalf("call count = %d, want %d", count, callers)
	}

	if calls := mock.FetchUserCalls(); len(calls) != callers {
		t.Fatalf("call log holds %d entries, want %d", len(calls), callers)
	}
}

func TestReset_Idempotent(t *testing.T) {
	mock := NewUserServiceMock()
	mock.SetFetchUserHandler(func(id int) string { return "" })
	mock.FetchUser(1)
	mock.SetRetries(3)

	mock.Reset()
	mock.Reset()

	if count := mock.FetchUserCallCount(); count != 0 {
		t.Fatalf("count after reset = %d", count)
	}

	if calls := mock.FetchUserCalls(); len(calls) != 0 {
		t.Fatalf("log after reset = %v", calls)
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected the reset handler to be unset")
			}
		}()

		mock.FetchUser(1)
	}()

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected the reset backing value to be unset")
			}
		}()

		mock.Retries()
	}()
}

func TestZeroValueMock_Locks(t *testing.T) {
	var mock UserServiceMock

	mock.SetFetchUserHandler(func(id int) string { return "ok" })

	if got := mock.FetchUser(7); got != "ok" {
		t.Fatalf("FetchUser on a zero-value mock returned %q", got)
	}
}

func TestProbe_DirectFieldsAndReset(t *testing.T) {
	mock := NewProbeMock()

	mock.Ping()

	called := false
	mock.PingHandler = func() { called = true }
	mock.Ping()

	if !called {
		t.Fatal("handler field was not invoked")
	}

	if mock.PingCallCount != 2 {
		t.Fatalf("PingCallCount = %d, want 2", mock.PingCallCount)
	}

	mock.Reset()

	if mock.PingCallCount != 0 || mock.PingHandler != nil {
		t.Fatal("reset left direct state behind")
	}
}
`

// condBehaviorSource exercises the conditioned member; it compiles only when
// its build condition is on.
const condBehaviorSource = `//go:build scratchcond

package mocks

import "testing"

func TestTuned_TracksUnderCondition(t *testing.T) {
	mock := NewProbeMock()

	mock.Tuned()

	if mock.TunedCallCount != 1 {
		t.Fatalf("TunedCallCount = %d, want 1", mock.TunedCallCount)
	}

	mock.Reset()

	if mock.TunedCallCount != 0 {
		t.Fatal("reset left the conditioned count behind")
	}
}
`

// TestGeneratedMockBehavior generates mocks into a scratch module and runs
// its test suite under the race detector, once per lock emission: the
// default mutex shim with the condition group stubbed out, then the channel
// shim with the condition group active.
func TestGeneratedMockBehavior(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping scratch-module build in short mode")
	}

	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go binary not available")
	}

	dir := t.TempDir()

	writeScratchFile(t, dir, "go.mod", "module scratchmocks\n\ngo 1.25\n")
	writeScratchFile(t, dir, "userservice.yaml", userServiceYAML)
	writeScratchFile(t, dir, "probe.yaml", probeYAML)
	writeScratchFile(t, dir, "behavior_test.go", mockBehaviorSource)
	writeScratchFile(t, dir, "cond_on_test.go", condBehaviorSource)

	for _, spec := range []string{"userservice.yaml", "probe.yaml"} {
		args := []string{"forgegen", filepath.Join(dir, spec), "--out", dir, "--package", "mocks"}

		err := run.Run(args, func(string) string { return "" }, diskFileSystem{}, &fakePackageLoader{}, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("generation from %s failed: %v", spec, err)
		}
	}

	runs := [][]string{
		{"test", "-race", "."},
		{"test", "-race", "-tags=scratchcond,forge_legacy_locks", "."},
	}

	for _, args := range runs {
		cmd := exec.Command(goBin, args...)
		cmd.Dir = dir

		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("go %v failed: %v\n%s", args, err, out)
		}
	}
}

func writeScratchFile(t *testing.T, dir, name, content string) {
	t.Helper()

	err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600)
	if err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

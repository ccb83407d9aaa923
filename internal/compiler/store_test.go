package compiler

import (
	"errors"
	"sync"
	"testing"

	"github.com/solar-lang/solar-compiler/internal/diagnostics"
	"github.com/solar-lang/solar-compiler/internal/mir"
	"github.com/solar-lang/solar-compiler/internal/symbols"
	"github.com/solar-lang/solar-compiler/internal/typesystem"
)

func testSSID(item int, args ...typesystem.TypeID) symbols.SSID {
	return symbols.SSID{Symbol: symbols.SymbolID{Module: "app", Item: item}, Args: args}
}

func TestStoreReserveComplete(t *testing.T) {
	s := NewFunctionStore()
	ssid := testSSID(0, typesystem.Int64)

	if _, _, ok := s.GetByKey(ssid); ok {
		t.Fatalf("empty store returned an entry")
	}

	id, fresh := s.Reserve(ssid, &chain{})
	if !fresh || id != 0 {
		t.Fatalf("Reserve got=(%d, %v), want=(0, true)", id, fresh)
	}
	again, fresh := s.Reserve(ssid, &chain{})
	if fresh || again != id {
		t.Fatalf("second Reserve got=(%d, %v), want=(%d, false)", again, fresh, id)
	}

	_, e, ok := s.GetByKey(ssid)
	if !ok || e.State != Reserved {
		t.Fatalf("entry got=%v ok=%v, want reserved", e.State, ok)
	}
	if _, ok := s.Lookup(id); ok {
		t.Errorf("Lookup must not return a reserved entry")
	}

	fn := &mir.Function{Name: "f", Return: typesystem.Int64}
	s.Complete(id, fn)
	_, e, _ = s.GetByKey(ssid)
	if e.State != Complete || e.Function != fn {
		t.Errorf("entry got=%+v, want complete with fn", e)
	}
	if got, ok := s.Lookup(id); !ok || got != fn {
		t.Errorf("Lookup got=%v ok=%v", got, ok)
	}
	select {
	case <-e.done:
	default:
		t.Errorf("done channel not closed after Complete")
	}
}

func TestStoreDistinctArgsGetDistinctIndices(t *testing.T) {
	s := NewFunctionStore()
	a, _ := s.Reserve(testSSID(0, typesystem.Int32, typesystem.Int32), &chain{})
	b, _ := s.Reserve(testSSID(0, typesystem.Int64, typesystem.Int64), &chain{})
	c, _ := s.Reserve(testSSID(1, typesystem.Int32, typesystem.Int32), &chain{})
	if a == b || b == c || a == c {
		t.Errorf("indices got=%d,%d,%d, want distinct", a, b, c)
	}
	if s.Len() != 3 {
		t.Errorf("Len got=%d, want=3", s.Len())
	}
}

func TestStoreFail(t *testing.T) {
	s := NewFunctionStore()
	ssid := testSSID(0)
	id, _ := s.Reserve(ssid, &chain{})
	boom := errors.New("boom")
	s.Fail(id, boom)

	_, e, _ := s.GetByKey(ssid)
	if e.State != Failed || e.Err != boom {
		t.Errorf("entry got=%+v, want failed with boom", e)
	}

	var err error
	func() {
		defer diagnostics.RecoverFatal(&err)
		s.Complete(id, &mir.Function{})
	}()
	if !diagnostics.IsFatal(err) {
		t.Errorf("completing a failed entry got=%v, want fatal", err)
	}
}

func TestStoreConcurrentReserve(t *testing.T) {
	s := NewFunctionStore()
	ssid := testSSID(7, typesystem.String)

	const workers = 16
	var wg sync.WaitGroup
	ids := make([]mir.FunctionID, workers)
	fresh := make([]bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], fresh[i] = s.Reserve(ssid, &chain{})
		}(i)
	}
	wg.Wait()

	winners := 0
	for i := range ids {
		if ids[i] != ids[0] {
			t.Errorf("worker %d got index %d, want %d", i, ids[i], ids[0])
		}
		if fresh[i] {
			winners++
		}
	}
	if winners != 1 {
		t.Errorf("fresh reservations got=%d, want=1", winners)
	}
}

func TestStoreWaitForDetectsCycle(t *testing.T) {
	s := NewFunctionStore()
	a, b := &chain{}, &chain{}

	if !s.waitFor(a, b) {
		t.Fatalf("a may wait on b")
	}
	if s.waitFor(b, a) {
		t.Fatalf("b waiting on a would deadlock")
	}
	s.doneWaiting(a)
	if !s.waitFor(b, a) {
		t.Fatalf("b may wait on a once a stopped waiting")
	}
}

func TestStoreSnapshot(t *testing.T) {
	s := NewFunctionStore()
	id0, _ := s.Reserve(testSSID(0), &chain{})
	id1, _ := s.Reserve(testSSID(1), &chain{})
	s.Complete(id1, &mir.Function{Name: "g"})

	snap := s.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("len got=%d, want=2", len(snap))
	}
	if snap[0].ID != id0 || snap[0].State != Reserved {
		t.Errorf("entry 0 got=%+v", snap[0])
	}
	if snap[1].ID != id1 || snap[1].State != Complete || snap[1].Function.Name != "g" {
		t.Errorf("entry 1 got=%+v", snap[1])
	}
}

func TestStoreFailCascadesToCallers(t *testing.T) {
	s := NewFunctionStore()
	callee, _ := s.Reserve(testSSID(0), &chain{})
	caller, _ := s.Reserve(testSSID(1), &chain{})
	top, _ := s.Reserve(testSSID(2), &chain{})
	s.AddCall(caller, callee)
	s.AddCall(top, caller)
	if err := s.Complete(caller, &mir.Function{Name: "caller"}); err != nil {
		t.Fatalf("Complete got=%v", err)
	}
	if err := s.Complete(top, &mir.Function{Name: "top"}); err != nil {
		t.Fatalf("Complete got=%v", err)
	}

	boom := errors.New("boom")
	s.Fail(callee, boom)

	for _, id := range []mir.FunctionID{caller, top} {
		_, e, _ := s.GetByKey(testSSID(int(id)))
		if e.State != Failed || !errors.Is(e.Err, boom) {
			t.Errorf("entry #%d got=%s err=%v, want failed wrapping boom", id, e.State, e.Err)
		}
		if _, ok := s.Lookup(id); ok {
			t.Errorf("Lookup must not return failed entry #%d", id)
		}
	}
}

func TestStoreCompleteAfterCalleeFailed(t *testing.T) {
	s := NewFunctionStore()
	callee, _ := s.Reserve(testSSID(0), &chain{})
	caller, _ := s.Reserve(testSSID(1), &chain{})
	s.AddCall(caller, callee)
	s.Fail(callee, errors.New("boom"))

	err := s.Complete(caller, &mir.Function{Name: "caller"})
	var de *DependencyError
	if !errors.As(err, &de) || de.Callee != callee {
		t.Fatalf("got=%v, want *DependencyError on #%d", err, callee)
	}
	_, e, _ := s.GetByKey(testSSID(1))
	if e.State != Failed {
		t.Errorf("state got=%s, want failed", e.State)
	}
	select {
	case <-e.done:
	default:
		t.Errorf("done channel not closed")
	}
}

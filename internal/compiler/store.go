package compiler

import (
	"math"
	"sync"

	"github.com/solar-lang/solar-compiler/internal/diagnostics"
	"github.com/solar-lang/solar-compiler/internal/mir"
	"github.com/solar-lang/solar-compiler/internal/symbols"
)

// EntryState is the lifecycle of a store entry:
// Reserved -> Complete, or Reserved -> Failed.
type EntryState int

const (
	Reserved EntryState = iota
	Complete
	Failed
)

func (s EntryState) String() string {
	switch s {
	case Reserved:
		return "reserved"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// chain identifies one top-level compilation request and everything it
// compiles recursively. waiting is the chain it currently blocks on.
type chain struct {
	waiting *chain
}

// Entry is a snapshot of one function store slot.
type Entry struct {
	SSID     symbols.SSID
	State    EntryState
	Function *mir.Function // set once Complete
	Err      error         // set once Failed

	owner *chain
	done  chan struct{} // closed on Complete or Fail
}

// FunctionStore memoizes compiled functions by SSID. Indices are allocated
// once and never reused; a complete entry is never recompiled.
//
// Call edges between entries are recorded as bodies are lowered so that a
// failure also fails every complete function that calls into it.
type FunctionStore struct {
	mu      sync.RWMutex
	entries []*Entry
	byKey   map[symbols.SSIDKey]mir.FunctionID
	calls   map[mir.FunctionID][]mir.FunctionID // caller -> callees
	callers map[mir.FunctionID][]mir.FunctionID // callee -> callers
}

func NewFunctionStore() *FunctionStore {
	return &FunctionStore{
		byKey:   make(map[symbols.SSIDKey]mir.FunctionID),
		calls:   make(map[mir.FunctionID][]mir.FunctionID),
		callers: make(map[mir.FunctionID][]mir.FunctionID),
	}
}

// GetByKey returns the index and a copy of the entry for ssid.
func (s *FunctionStore) GetByKey(ssid symbols.SSID) (mir.FunctionID, Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byKey[ssid.Key()]
	if !ok {
		return 0, Entry{}, false
	}
	return id, *s.entries[id], true
}

// Reserve allocates a fresh index for ssid and marks it Reserved. When
// another caller reserved ssid first, its index is returned with
// fresh == false.
func (s *FunctionStore) Reserve(ssid symbols.SSID, owner *chain) (id mir.FunctionID, fresh bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byKey[ssid.Key()]; ok {
		return id, false
	}
	if len(s.entries) >= math.MaxUint32 {
		diagnostics.Fatalf("function store exhausted")
	}
	id = mir.FunctionID(len(s.entries))
	args := append(ssid.Args[:0:0], ssid.Args...)
	s.entries = append(s.entries, &Entry{
		SSID:  symbols.SSID{Symbol: ssid.Symbol, Args: args},
		State: Reserved,
		owner: owner,
		done:  make(chan struct{}),
	})
	s.byKey[ssid.Key()] = id
	return id, true
}

// AddCall records that the body of caller contains a call to callee.
func (s *FunctionStore) AddCall(caller, callee mir.FunctionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[caller] = append(s.calls[caller], callee)
	s.callers[callee] = append(s.callers[callee], caller)
}

// Complete stores the finished function at a reserved index. When one of
// the function's callees has failed in the meantime the entry is failed
// instead and the resulting *DependencyError is returned.
func (s *FunctionStore) Complete(id mir.FunctionID, fn *mir.Function) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.reserved(id)
	e.Function = fn
	for _, callee := range s.calls[id] {
		if dep := s.entries[callee]; dep.State == Failed {
			err := &DependencyError{Name: fn.Name, Callee: callee, Err: dep.Err}
			s.fail(id, err)
			return err
		}
	}
	e.State = Complete
	e.owner = nil
	close(e.done)
	return nil
}

// Fail records that compilation of a reserved index did not finish. Later
// requests for the same SSID get err back instead of recompiling. Complete
// functions that call id, directly or transitively, fail with it.
func (s *FunctionStore) Fail(id mir.FunctionID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reserved(id)
	s.fail(id, err)
}

func (s *FunctionStore) fail(id mir.FunctionID, err error) {
	e := s.entries[id]
	wasReserved := e.State == Reserved
	e.State = Failed
	e.Err = err
	e.owner = nil
	if wasReserved {
		close(e.done)
	}
	for _, caller := range s.callers[id] {
		if c := s.entries[caller]; c.State == Complete {
			s.fail(caller, &DependencyError{Name: c.Function.Name, Callee: id, Err: err})
		}
	}
}

func (s *FunctionStore) reserved(id mir.FunctionID) *Entry {
	if int(id) >= len(s.entries) {
		diagnostics.Fatalf("function index %d was never reserved", id)
	}
	e := s.entries[id]
	if e.State != Reserved {
		diagnostics.Fatalf("function index %d is %s, not reserved", id, e.State)
	}
	return e
}

// Lookup returns a complete function by index.
func (s *FunctionStore) Lookup(id mir.FunctionID) (*mir.Function, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(id) >= len(s.entries) || s.entries[id].State != Complete {
		return nil, false
	}
	return s.entries[id].Function, true
}

func (s *FunctionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// SnapshotEntry is a store entry together with its index.
type SnapshotEntry struct {
	ID mir.FunctionID
	Entry
}

// Snapshot copies every entry in index order.
func (s *FunctionStore) Snapshot() []SnapshotEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SnapshotEntry, len(s.entries))
	for i, e := range s.entries {
		out[i] = SnapshotEntry{ID: mir.FunctionID(i), Entry: *e}
	}
	return out
}

// waitFor registers that ch is about to block on a reservation held by
// owner. It refuses (returns false) when owner is, directly or through other
// waiting chains, already waiting on ch: blocking would deadlock, so the
// caller must treat the entry as a forward reference instead.
func (s *FunctionStore) waitFor(ch, owner *chain) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := owner; c != nil; c = c.waiting {
		if c == ch {
			return false
		}
	}
	ch.waiting = owner
	return true
}

func (s *FunctionStore) doneWaiting(ch *chain) {
	s.mu.Lock()
	ch.waiting = nil
	s.mu.Unlock()
}

package hooking

import (
	"sync"
)

// PosCountTracer counts how many times each hook position is triggered.
type PosCountTracer struct {
	lock sync.Mutex

	posNames []string
	posCount map[string]uint64
}

// NewPosCountTracer creates a new PosCountTracer.
func NewPosCountTracer() *PosCountTracer {
	return &PosCountTracer{
		posCount: make(map[string]uint64),
	}
}

// Func counts the position of the hook.
func (t *PosCountTracer) Func(ctx HookCtx) {
	t.lock.Lock()
	defer t.lock.Unlock()

	_, ok := t.posCount[ctx.Pos.Name]
	if !ok {
		t.posNames = append(t.posNames, ctx.Pos.Name)
	}

	t.posCount[ctx.Pos.Name]++
}

// GetPosNames returns the names of all the positions seen, in the order they
// were first seen.
func (t *PosCountTracer) GetPosNames() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	return append([]string(nil), t.posNames...)
}

// GetCount returns how many times the position was triggered.
func (t *PosCountTracer) GetCount(pos *HookPos) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.posCount[pos.Name]
}

// Reset clears all the counters.
func (t *PosCountTracer) Reset() {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.posNames = nil
	t.posCount = make(map[string]uint64)
}

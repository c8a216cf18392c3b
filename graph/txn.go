package graph

import (
	"bytes"
	"runtime"
	"strconv"
	"time"

	"github.com/graphia-go/graphon/notify"
)

// TransactionGuard is the reentrant scope returned by BeginTransaction.
// It has no goroutine-safe methods beyond EndTransaction: it must be
// closed by the same goroutine that opened it, exactly once, preferably
// via defer immediately after BeginTransaction (spec.md §4.5: "scoped,
// acquired on entry to a block, guaranteed to release on all exit
// paths").
type TransactionGuard struct {
	g *MutableGraph
}

// goroutineID extracts the calling goroutine's numeric id from its own
// stack trace header. This is the only way to detect same-goroutine
// reentrancy without passing an explicit token through every call site;
// no third-party goroutine-identity library appears anywhere in the
// retrieval pack, and it is how spec.md §4.5's "reentrant only through
// the depth counter on the same thread" is actually satisfied in Go.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return id
}

// BeginTransaction acquires the graph's writer lock (blocking until any
// other goroutine's transaction completes) and returns a guard. Calling
// BeginTransaction again on the same goroutine before closing the first
// guard is safe and simply increments the depth counter rather than
// deadlocking — this is the one legitimate, spec-mandated form of
// reentrancy; a second goroutine calling BeginTransaction concurrently
// always blocks on the real mutex like any other writer.
func (g *MutableGraph) BeginTransaction() *TransactionGuard {
	gid := goroutineID()

	g.state.Lock()
	reentrant := g.depth > 0 && g.owner == gid
	g.state.Unlock()

	if reentrant {
		g.state.Lock()
		g.depth++
		g.state.Unlock()
		return &TransactionGuard{g: g}
	}

	waitStart := time.Now()
	g.mu.Lock()
	wait := time.Since(waitStart)

	g.state.Lock()
	g.owner = gid
	g.depth = 1
	g.changeOccurred = false
	g.lastLockWait = wait
	if g.lockWaitWarnThreshold > 0 && wait >= g.lockWaitWarnThreshold {
		g.slowLockWaits++
	}
	g.state.Unlock()

	g.bus.Publish(notify.Event{Kind: notify.TransactionWillBegin})
	g.bus.Publish(notify.Event{Kind: notify.GraphWillChange})

	return &TransactionGuard{g: g}
}

// EndTransaction closes one level of the guard's scope. changeOccurred
// reports whether the caller's own work produced a visible change; it is
// OR-ed into the graph's per-transaction flag. On the outermost close,
// this runs update(), fires graphChanged(flag), clears the phase label,
// releases the writer lock, and fires transactionEnded.
func (tg *TransactionGuard) EndTransaction(changeOccurred bool) {
	g := tg.g

	g.state.Lock()
	g.changeOccurred = g.changeOccurred || changeOccurred
	g.depth--
	outermost := g.depth == 0
	flag := g.changeOccurred
	g.state.Unlock()

	if !outermost {
		return
	}

	g.update()
	if g.checkConsistency {
		violations := NewConsistencyChecker().Check(g)
		g.state.Lock()
		g.lastViolations = violations
		g.state.Unlock()
	}
	g.bus.Publish(notify.Event{Kind: notify.GraphChanged, Changed: flag})

	g.state.Lock()
	g.phase = ""
	g.state.Unlock()

	g.mu.Unlock()
	g.bus.Publish(notify.Event{Kind: notify.TransactionEnded})
}

// withTransaction opens a transaction (or joins the caller's already-open
// one), runs fn, and closes it, reporting fn's own changeOccurred value.
// Every public mutation method goes through this so that it behaves
// correctly both as a top-level call and nested inside a caller's own
// transaction (spec.md §4.4: "all must be called inside a transaction;
// the graph enters one implicitly if the caller has not").
func (g *MutableGraph) withTransaction(fn func() bool) bool {
	tg := g.BeginTransaction()
	changed := fn()
	tg.EndTransaction(changed)
	return changed
}

// Package graph implements MutableGraph (spec.md §4.4): the primary
// node/edge storage, the mutation API, multi-element merge semantics,
// and the edge-incidence indexes built on package dset.
//
// All mutations run inside a transaction (see txn.go); a mutation method
// called outside one opens and closes its own. Reads are safe to call
// from any goroutine once a transaction that could race with them has
// closed; see the package-level concurrency notes in txn.go.
package graph

import (
	"sync"
	"time"

	"github.com/graphia-go/graphon/dset"
	"github.com/graphia-go/graphon/handle"
	"github.com/graphia-go/graphon/harray"
	"github.com/graphia-go/graphon/notify"
)

// GroupType reports a handle's position in its multi-element group: Not
// (ungrouped or a singleton group), Head (the group's representative) or
// Tail (any other member). It is the same three-way classification
// dset.Collection exposes, re-exported here because MutableGraph is
// where callers actually ask "what type is this handle" (spec.md §6:
// typeOf(handle)).
type GroupType = dset.Type

const (
	Not  = dset.Not
	Head = dset.Head
	Tail = dset.Tail
)

type node struct {
	inUse        bool
	multiplicity int
	outgoingHead handle.EdgeHandle
	incomingHead handle.EdgeHandle
}

type edge struct {
	inUse        bool
	multiplicity int
	source       handle.NodeHandle
	target       handle.NodeHandle
}

type undirectedKey struct {
	lo, hi handle.NodeHandle
}

func keyFor(a, b handle.NodeHandle) undirectedKey {
	if b < a {
		a, b = b, a
	}
	return undirectedKey{lo: a, hi: b}
}

// MutableGraph is a concurrent, transactional, handle-indexed directed
// multigraph with node/edge merge semantics. The zero value is not
// usable; construct with New.
type MutableGraph struct {
	mu    sync.Mutex // writer exclusion, held for the outermost transaction
	state sync.Mutex // guards depth/owner/changeOccurred/phase only
	depth int
	owner uint64
	changeOccurred bool
	phase string

	directed bool
	checkConsistency bool
	lastViolations   []Violation

	lockWaitWarnThreshold time.Duration
	lastLockWait          time.Duration
	slowLockWaits         int

	nodeReg *harray.Registry
	edgeReg *harray.Registry

	nodes []node
	edges []edge

	nextNode handle.NodeHandle
	nextEdge handle.EdgeHandle
	freeNodes []handle.NodeHandle
	freeEdges []handle.EdgeHandle

	outgoingEdges *dset.Collection[handle.Edge]
	incomingEdges *dset.Collection[handle.Edge]
	mergedNodes   *dset.Collection[handle.Node]
	mergedEdges   *dset.Collection[handle.Edge]

	undirectedIndex map[undirectedKey][]handle.EdgeHandle

	orderedNodes []handle.NodeHandle
	orderedEdges []handle.EdgeHandle

	bus *notify.Bus
}

// Option configures a MutableGraph at construction time, mirroring the
// teacher's functional-options shape (core.NewGraph(directed, weighted)
// generalized here to a variadic option list since graphon has more than
// two independent booleans worth configuring).
type Option func(*MutableGraph)

// WithDirected controls whether AddEdge records directed or undirected
// semantics for incidence purposes. Edges are always stored with an
// explicit source/target; this only affects whether neighboursOf also
// walks incoming edges. Defaults to true.
func WithDirected(directed bool) Option {
	return func(g *MutableGraph) { g.directed = directed }
}

// WithConsistencyChecking enables the consistency checker (SPEC_FULL.md
// §5.1) to run automatically at the end of every outermost transaction.
// Off by default: the checker is O(V+E) and is meant for debug builds
// and tests, per original_source's own _debug-gated checker. Violations
// found this way don't fail the transaction; they accumulate in
// LastConsistencyViolations for a caller to poll.
func WithConsistencyChecking() Option {
	return func(g *MutableGraph) { g.checkConsistency = true }
}

// WithLockWaitWarnThreshold sets the duration above which a
// BeginTransaction wait for the writer mutex counts as "slow" (spec.md
// §5: "A diagnostic wrapper logs if that wait exceeds ~100 ms"). graphon
// itself never logs (SPEC_FULL.md §3.2: no logging dependency in the
// core); exceeding the threshold is recorded and surfaced through
// SlowLockWaitCount/LastLockWaitDuration for the host application's own
// logger to report. Zero (the default) disables tracking.
func WithLockWaitWarnThreshold(d time.Duration) Option {
	return func(g *MutableGraph) { g.lockWaitWarnThreshold = d }
}

// New constructs an empty MutableGraph.
func New(opts ...Option) *MutableGraph {
	g := &MutableGraph{
		directed:        true,
		nodeReg:         harray.NewRegistry(),
		edgeReg:         harray.NewRegistry(),
		undirectedIndex: make(map[undirectedKey][]handle.EdgeHandle),
		bus:             notify.New(),
	}
	g.outgoingEdges = dset.NewCollection[handle.Edge](g.edgeReg)
	g.incomingEdges = dset.NewCollection[handle.Edge](g.edgeReg)
	g.mergedNodes = dset.NewCollection[handle.Node](g.nodeReg)
	g.mergedEdges = dset.NewCollection[handle.Edge](g.edgeReg)
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Bus returns the graph's notification bus, for subscribing to the
// events listed in spec.md §4.7.
func (g *MutableGraph) Bus() *notify.Bus { return g.bus }

// Directed reports whether the graph was constructed with WithDirected(true)
// (the default).
func (g *MutableGraph) Directed() bool { return g.directed }

// Phase returns the current mutator phase annotation (spec.md §6:
// "Optional phase annotation"), or the empty string if none is set.
func (g *MutableGraph) Phase() string {
	g.state.Lock()
	defer g.state.Unlock()
	return g.phase
}

// SetPhase sets a human-readable phase label for UI surfaces. It is
// purely informational and is reset automatically when the outermost
// transaction ends.
func (g *MutableGraph) SetPhase(p string) {
	g.state.Lock()
	defer g.state.Unlock()
	g.phase = p
}

// NodeRegistry returns the registry external HandleArrays over nodes
// should register against (spec.md §6: registerNodeArray), so they grow
// in lockstep with node allocation.
func (g *MutableGraph) NodeRegistry() *harray.Registry { return g.nodeReg }

// EdgeRegistry returns the registry external HandleArrays over edges
// should register against.
func (g *MutableGraph) EdgeRegistry() *harray.Registry { return g.edgeReg }

// LastLockWaitDuration reports how long the most recent BeginTransaction
// call spent waiting for the writer mutex (zero if it didn't have to
// wait, or if no transaction has opened yet).
func (g *MutableGraph) LastLockWaitDuration() time.Duration {
	g.state.Lock()
	defer g.state.Unlock()
	return g.lastLockWait
}

// SlowLockWaitCount reports how many BeginTransaction calls have waited
// longer than WithLockWaitWarnThreshold's configured duration. Always
// zero if no threshold was configured.
func (g *MutableGraph) SlowLockWaitCount() int {
	g.state.Lock()
	defer g.state.Unlock()
	return g.slowLockWaits
}

// LastConsistencyViolations returns the violations found by the most
// recent automatic consistency check (WithConsistencyChecking), or nil if
// none is enabled or the last check found nothing.
func (g *MutableGraph) LastConsistencyViolations() []Violation {
	g.state.Lock()
	defer g.state.Unlock()
	return g.lastViolations
}

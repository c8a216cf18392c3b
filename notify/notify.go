// Package notify implements NotificationBus (spec.md §4.7): synchronous,
// same-goroutine, strictly-ordered publish/subscribe fan-out for graph
// change events.
//
// Publication happens on the emitter's own goroutine (graph.MutableGraph's
// transaction-closing code, almost always); subscribers that need to move
// work off that goroutine are responsible for enqueuing into their own
// executor. This is deliberately not modeled on an asynchronous,
// at-least-once cloud pub/sub abstraction (gocloud.dev/pubsub, as used by
// go-digitaltwin) — spec.md's ordering guarantees (§4.7, §5) require
// synchronous, exactly-once, in-order delivery within a single
// transaction, which an async broker cannot promise.
package notify

import (
	"sync"

	"github.com/graphia-go/graphon/handle"
)

// Kind identifies one of the ten event families spec.md §4.7 enumerates.
type Kind int

const (
	TransactionWillBegin Kind = iota
	GraphWillChange
	NodeAdded
	NodeRemoved
	EdgeAdded
	EdgeRemoved
	ComponentsWillMerge
	ComponentWillBeRemoved
	ComponentAdded
	ComponentSplit
	NodeAddedToComponent
	EdgeAddedToComponent
	NodeRemovedFromComponent
	EdgeRemovedFromComponent
	NodeMovedBetweenComponents
	EdgeMovedBetweenComponents
	GraphChanged
	TransactionEnded
)

func (k Kind) String() string {
	switch k {
	case TransactionWillBegin:
		return "transactionWillBegin"
	case GraphWillChange:
		return "graphWillChange"
	case NodeAdded:
		return "nodeAdded"
	case NodeRemoved:
		return "nodeRemoved"
	case EdgeAdded:
		return "edgeAdded"
	case EdgeRemoved:
		return "edgeRemoved"
	case ComponentsWillMerge:
		return "componentsWillMerge"
	case ComponentWillBeRemoved:
		return "componentWillBeRemoved"
	case ComponentAdded:
		return "componentAdded"
	case ComponentSplit:
		return "componentSplit"
	case NodeAddedToComponent:
		return "nodeAddedToComponent"
	case EdgeAddedToComponent:
		return "edgeAddedToComponent"
	case NodeRemovedFromComponent:
		return "nodeRemovedFromComponent"
	case EdgeRemovedFromComponent:
		return "edgeRemovedFromComponent"
	case NodeMovedBetweenComponents:
		return "nodeMovedBetweenComponents"
	case EdgeMovedBetweenComponents:
		return "edgeMovedBetweenComponents"
	case GraphChanged:
		return "graphChanged"
	case TransactionEnded:
		return "transactionEnded"
	default:
		return "unknown"
	}
}

// ComponentSplitEvent carries a componentSplit payload: the component
// handle that existed before the split, and the full set of component
// handles (including the original, if reused) that exist after it.
type ComponentSplitEvent struct {
	Before handle.ComponentHandle
	After  []handle.ComponentHandle
}

// ComponentMergeEvent carries a componentsWillMerge payload: the set of
// component handles about to be combined, and the survivor.
type ComponentMergeEvent struct {
	Merging  []handle.ComponentHandle
	Survivor handle.ComponentHandle
}

// ElementMoveEvent carries a node/edgeMovedBetweenComponents payload.
type ElementMoveEvent[K any] struct {
	Element handle.ID[K]
	From, To handle.ComponentHandle
}

// Event is the payload passed to a subscriber callback. Exactly one
// field is meaningful for any given Kind; callers type-switch on Kind
// before reading the accompanying field.
type Event struct {
	Kind Kind

	Node      handle.NodeHandle
	Edge      handle.EdgeHandle
	Component handle.ComponentHandle

	Merge *ComponentMergeEvent
	Split *ComponentSplitEvent

	NodeMove *ElementMoveEvent[handle.Node]
	EdgeMove *ElementMoveEvent[handle.Edge]

	// Changed is graphChanged's payload: true if the transaction
	// produced any visible change, false for a no-op transaction.
	Changed bool
}

// Handler receives published events. Handlers run synchronously, in
// subscription order, on the publisher's goroutine.
type Handler func(Event)

// Subscription identifies a registered Handler for later Unsubscribe.
type Subscription int

// Bus is a synchronous, ordered publish/subscribe fan-out. The zero
// value is not usable; construct with New.
type Bus struct {
	mu       sync.Mutex
	handlers map[Subscription]Handler
	next     Subscription
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{handlers: make(map[Subscription]Handler)}
}

// Subscribe registers h and returns a token for Unsubscribe. Handlers
// fire in the order they were subscribed.
func (b *Bus) Subscribe(h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	tok := b.next
	b.next++
	b.handlers[tok] = h
	return tok
}

// Unsubscribe removes a previously registered Handler. Idempotent.
func (b *Bus) Unsubscribe(tok Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, tok)
}

// Publish delivers ev to every currently subscribed Handler, in
// subscription order, synchronously on the caller's goroutine.
//
// The handler list is snapshotted under the lock and then invoked
// outside it, so a handler that subscribes or unsubscribes during
// delivery cannot deadlock the bus and never affects the event
// currently being delivered.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	order := make([]Subscription, 0, len(b.handlers))
	for tok := range b.handlers {
		order = append(order, tok)
	}
	// Deterministic delivery order: subscription tokens are assigned
	// monotonically, so sorting by token reproduces subscription order.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && order[j-1] > order[j]; j-- {
			order[j-1], order[j] = order[j], order[j-1]
		}
	}
	handlers := make([]Handler, len(order))
	for i, tok := range order {
		handlers[i] = b.handlers[tok]
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

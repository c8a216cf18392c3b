// Package attr implements the narrow AttributeBridge surface (spec.md
// §4.9): the graph core exposes handle-array registration, event
// subscription, and deterministic handle iteration so that an external
// attribute layer (user-node-data, user-edge-data) can keep its own
// parallel storage in sync without the core knowing anything about
// attribute values themselves.
//
// Table is this package's concrete, exercised consumer of that bridge: a
// generic parallel-storage type that auto-initializes a default value for
// every node or edge as it's added, and drops it again on removal.
package attr

import (
	"github.com/graphia-go/graphon/handle"
	"github.com/graphia-go/graphon/harray"
	"github.com/graphia-go/graphon/notify"
)

// Bridge is the interface spec.md §4.9 requires the graph core to expose.
// *graph.MutableGraph satisfies it already (NodeRegistry/EdgeRegistry,
// Bus, NodeHandles/EdgeHandles); Table depends only on this interface so
// it can be exercised against a fake in tests without a real graph.
type Bridge interface {
	NodeRegistry() *harray.Registry
	EdgeRegistry() *harray.Registry
	Bus() *notify.Bus
	NodeHandles() []handle.NodeHandle
	EdgeHandles() []handle.EdgeHandle
}

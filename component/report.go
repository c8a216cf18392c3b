package component

import (
	"github.com/graphia-go/graphon/handle"
	"github.com/graphia-go/graphon/notify"
)

// UpdateReport is SPEC_FULL.md §5.2's supplemented feature: a structured
// summary of one Tracker.Update() pass, letting a caller (or a test)
// inspect what happened without having to subscribe to the bus and
// reassemble it from individual events.
type UpdateReport struct {
	Added   []handle.ComponentHandle
	Removed []handle.ComponentHandle

	// Split maps a pre-update component handle to the full set of
	// handles (including itself, if reused) it split into.
	Split map[handle.ComponentHandle][]handle.ComponentHandle

	// Merged maps a surviving component handle to the set of handles
	// (excluding itself) that were folded into it.
	Merged map[handle.ComponentHandle][]handle.ComponentHandle

	NodeAdds    map[handle.NodeHandle]handle.ComponentHandle
	EdgeAdds    map[handle.EdgeHandle]handle.ComponentHandle
	NodeRemoves map[handle.NodeHandle]handle.ComponentHandle
	EdgeRemoves map[handle.EdgeHandle]handle.ComponentHandle

	NodeMoves []notify.ElementMoveEvent[handle.Node]
	EdgeMoves []notify.ElementMoveEvent[handle.Edge]
}

// LastUpdateReport returns the report produced by the most recent
// Update() call (the initial construction-time update included).
func (t *Tracker) LastUpdateReport() UpdateReport {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastReport
}

// Package metrics wires a graph's notification stream to Prometheus
// counters and gauges. It is a plain external subscriber of notify.Bus —
// the same entry point any other consumer uses (spec.md §4.7, §6) — kept
// deliberately decoupled from the core so the core never imports it.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/graphia-go/graphon/component"
	"github.com/graphia-go/graphon/notify"
)

// Collector holds the Prometheus series this package registers and
// updates from graph and tracker notifications.
type Collector struct {
	transactionsStarted prometheus.Counter
	transactionsEnded   prometheus.Counter
	transactionsChanged prometheus.Counter

	eventsTotal *prometheus.CounterVec

	componentsAdded   prometheus.Counter
	componentsRemoved prometheus.Counter
	componentsSplit   prometheus.Counter
	componentsMerged  prometheus.Counter
	componentsGauge   prometheus.GaugeFunc

	bus    *notify.Bus
	busSub notify.Subscription
}

// NewCollector creates and registers a Collector's series against reg.
// bus is the graph's notify.Bus; it is subscribed immediately and for the
// Collector's lifetime (there is no Close — a graph and its metrics are
// expected to share a process lifetime, same as the graph and its
// ComponentTracker).
func NewCollector(reg prometheus.Registerer, bus *notify.Bus) *Collector {
	c := &Collector{
		transactionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphon",
			Subsystem: "transaction",
			Name:      "started_total",
			Help:      "Transactions begun on the graph.",
		}),
		transactionsEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphon",
			Subsystem: "transaction",
			Name:      "ended_total",
			Help:      "Transactions closed on the graph.",
		}),
		transactionsChanged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphon",
			Subsystem: "transaction",
			Name:      "changed_total",
			Help:      "Transactions that closed having actually mutated the graph.",
		}),
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "graphon",
			Subsystem: "notify",
			Name:      "events_total",
			Help:      "Notifications delivered, by event kind.",
		}, []string{"kind"}),
		componentsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphon",
			Subsystem: "component",
			Name:      "added_total",
			Help:      "Components created.",
		}),
		componentsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphon",
			Subsystem: "component",
			Name:      "removed_total",
			Help:      "Components torn down.",
		}),
		componentsSplit: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphon",
			Subsystem: "component",
			Name:      "split_total",
			Help:      "Component split events observed.",
		}),
		componentsMerged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphon",
			Subsystem: "component",
			Name:      "merged_total",
			Help:      "Component merge events observed.",
		}),
	}

	reg.MustRegister(
		c.transactionsStarted,
		c.transactionsEnded,
		c.transactionsChanged,
		c.eventsTotal,
		c.componentsAdded,
		c.componentsRemoved,
		c.componentsSplit,
		c.componentsMerged,
	)

	c.bus = bus
	c.busSub = bus.Subscribe(c.observe)
	return c
}

// Close unsubscribes the Collector from the graph's bus. Already
// registered Prometheus series are left in place; a caller that wants
// them gone too must Unregister them itself against the same Registerer.
func (c *Collector) Close() {
	c.bus.Unsubscribe(c.busSub)
}

// ObserveTracker additionally wires a component.Tracker's live count into
// a gauge, so components_current reflects the tracker's NumComponents()
// at scrape time rather than being derived from add/remove deltas (which
// would double count across split/merge reclassification).
func (c *Collector) ObserveTracker(reg prometheus.Registerer, t *component.Tracker) {
	c.componentsGauge = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "graphon",
		Subsystem: "component",
		Name:      "current",
		Help:      "Components currently tracked.",
	}, func() float64 { return float64(t.NumComponents()) })
	reg.MustRegister(c.componentsGauge)
}

func (c *Collector) observe(ev notify.Event) {
	c.eventsTotal.WithLabelValues(ev.Kind.String()).Inc()

	switch ev.Kind {
	case notify.TransactionWillBegin:
		c.transactionsStarted.Inc()
	case notify.TransactionEnded:
		c.transactionsEnded.Inc()
	case notify.GraphChanged:
		if ev.Changed {
			c.transactionsChanged.Inc()
		}
	case notify.ComponentAdded:
		c.componentsAdded.Inc()
	case notify.ComponentWillBeRemoved:
		c.componentsRemoved.Inc()
	case notify.ComponentSplit:
		c.componentsSplit.Inc()
	case notify.ComponentsWillMerge:
		c.componentsMerged.Inc()
	}
}

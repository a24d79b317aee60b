package telemetry

import (
	"io"
	"sync"
	"time"
)

// TimingCollector builds a tree of timerNodes, one root per top-level Start
// call, reported as a nested view by Report.
type TimingCollector struct {
	mu      sync.Mutex
	roots   []*timerNode
	current *timerNode
}

type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	parent   *timerNode
	children []*timerNode
}

// NewTimingCollector creates an empty collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: time.Now(), parent: c.current}
	if c.current == nil {
		c.roots = append(c.roots, node)
	} else {
		c.current.children = append(c.current.children, node)
	}
	c.current = node
	return &timingTimer{collector: c, node: node}
}

func (c *TimingCollector) Report(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, root := range c.roots {
		formatTimingTree(w, root)
	}
}

type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
}

func (t *timingTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()
	t.node.end = time.Now()
	t.collector.current = t.node.parent
}

func (t *timingTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	node := &timerNode{name: name, start: time.Now(), parent: t.node}
	t.node.children = append(t.node.children, node)
	t.collector.current = node
	return &timingTimer{collector: t.collector, node: node}
}

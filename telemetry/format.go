package telemetry

import (
	"fmt"
	"io"
	"time"
)

// formatTimingTree prints one root and its descendants as a tree, e.g.:
//
//	check main.ledger: 18ms
//	├─ loader.load main.ledger: 6ms
//	└─ journal.analyze: 5ms
func formatTimingTree(w io.Writer, root *timerNode) {
	fmt.Fprintf(w, "%s: %s\n", root.name, formatDuration(root.end.Sub(root.start)))
	for i, child := range root.children {
		formatNode(w, child, "", i == len(root.children)-1)
	}
}

func formatNode(w io.Writer, node *timerNode, prefix string, isLast bool) {
	branch, extension := "├─ ", "│  "
	if isLast {
		branch, extension = "└─ ", "   "
	}
	fmt.Fprintf(w, "%s%s%s: %s\n", prefix, branch, node.name, formatDuration(node.end.Sub(node.start)))

	childPrefix := prefix + extension
	for i, child := range node.children {
		formatNode(w, child, childPrefix, i == len(node.children)-1)
	}
}

// formatDuration picks µs/ms/s based on magnitude, matching the grain a
// human skimming a timing tree actually cares about.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%.0fµs", float64(d)/float64(time.Microsecond))
	case d < time.Second:
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	default:
		return fmt.Sprintf("%.2fs", float64(d)/float64(time.Second))
	}
}

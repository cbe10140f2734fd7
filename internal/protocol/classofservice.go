package protocol

import "strings"

// ClassOfService carries advisory delivery-intent flags on an outgoing
// message. The core only classifies; channel selection by flag is the
// transport collaborator's decision.
type ClassOfService uint32

const (
	Reliable ClassOfService = 1 << iota
	FixedLatency
	LowLatency
	FixedThroughput
	HighThroughput
)

// Has reports whether every flag in want is set.
func (c ClassOfService) Has(want ClassOfService) bool {
	return c&want == want
}

func (c ClassOfService) String() string {
	if c == 0 {
		return "none"
	}
	names := []struct {
		flag ClassOfService
		name string
	}{
		{Reliable, "reliable"},
		{FixedLatency, "fixed_latency"},
		{LowLatency, "low_latency"},
		{FixedThroughput, "fixed_throughput"},
		{HighThroughput, "high_throughput"},
	}
	parts := make([]string, 0, len(names))
	for _, n := range names {
		if c.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

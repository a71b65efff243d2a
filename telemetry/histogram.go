// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import "fmt"

// Histogram is a tile histogram scaled for display.
type Histogram struct {
	// Values are the input counts divided by Max, each in [0,1].
	Values []float32

	// Max is the largest input count.
	Max uint32

	// Summary is the caption shown above the graph.
	Summary string
}

// NormalizeHistogram scales counts so the largest maps to exactly 1.
// An empty or all-zero input yields all zeros.
func NormalizeHistogram(counts []uint32) Histogram {
	var peak uint32
	for _, count := range counts {
		peak = max(peak, count)
	}

	values := make([]float32, len(counts))
	if peak > 0 {
		for index, count := range counts {
			if count == peak {
				values[index] = 1
				continue
			}
			values[index] = float32(float64(count) / float64(peak))
		}
	}
	return Histogram{
		Values:  values,
		Max:     peak,
		Summary: fmt.Sprintf("max tile: %d", peak),
	}
}

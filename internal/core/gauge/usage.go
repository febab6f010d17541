// Package gauge turns cpu metric snapshots into gauge readings.
package gauge

import "horizonx-gauge/internal/domain"

// SumUsage adds the first sample of every series of every processor.
// Series without a first sample, or whose first sample has no value,
// contribute nothing.
func SumUsage(snapshot domain.CPUSnapshot) float64 {
	var total float64

	for _, series := range snapshot {
		for _, points := range series {
			if len(points) == 0 || points[0].Value == nil {
				continue
			}
			total += *points[0].Value
		}
	}

	return total
}

package gauge

import (
	"math"

	"horizonx-gauge/internal/domain"
)

// Normalize clamps total into [0, 100*cores] and rounds half up. Core
// counts above domain.MaxCoreCount are capped to it.
func Normalize(total float64, cores int) int {
	if cores <= 0 || math.IsNaN(total) {
		return 0
	}

	ceiling := 100 * float64(min(cores, domain.MaxCoreCount))
	clamped := math.Min(math.Max(total, 0), ceiling)

	return int(math.Floor(clamped + 0.5))
}

package snapshot

import "horizonx-gauge/internal/domain"

// GaugeStore holds the readings of the last completed poll.
type GaugeStore struct {
	Store[[]domain.GaugeReading]
}

func NewGaugeStore() *GaugeStore {
	return &GaugeStore{}
}

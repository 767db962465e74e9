// Package metrics tracks in-process counters and latencies for draft
// generation. Nothing is exported to an external system; the API serves a
// snapshot on the status endpoint.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// GenerationMetrics counts generated drafts and simulation runs.
type GenerationMetrics struct {
	GenerateLatency *Histogram
	SimulateLatency *Histogram

	DraftsGenerated    atomic.Uint64
	GenerationFailures atomic.Uint64
	CardsAllocated     atomic.Uint64
	SimulationRuns     atomic.Uint64
	SimulationFailures atomic.Uint64

	clock     clockwork.Clock
	startTime time.Time
}

// NewGenerationMetrics creates a collector. A nil clock uses the real clock.
func NewGenerationMetrics(clock clockwork.Clock) *GenerationMetrics {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &GenerationMetrics{
		GenerateLatency: NewHistogram(1000),
		SimulateLatency: NewHistogram(1000),
		clock:           clock,
		startTime:       clock.Now(),
	}
}

// RecordDraft records one Generate call. cards is the number of cards
// allocated, ignored on failure.
func (m *GenerationMetrics) RecordDraft(d time.Duration, cards int, failed bool) {
	m.GenerateLatency.Record(d)
	if failed {
		m.GenerationFailures.Add(1)
		return
	}
	m.DraftsGenerated.Add(1)
	m.CardsAllocated.Add(uint64(cards))
}

// RecordSimulation records one Simulate call of runs generations.
func (m *GenerationMetrics) RecordSimulation(d time.Duration, runs, failures int) {
	m.SimulateLatency.Record(d)
	m.SimulationRuns.Add(uint64(runs))
	m.SimulationFailures.Add(uint64(failures))
}

// GenerationStats is a point-in-time snapshot of GenerationMetrics.
type GenerationStats struct {
	GenerateLatency LatencyStats `json:"generate_latency"`
	SimulateLatency LatencyStats `json:"simulate_latency"`

	DraftsGenerated    uint64  `json:"drafts_generated"`
	GenerationFailures uint64  `json:"generation_failures"`
	CardsAllocated     uint64  `json:"cards_allocated"`
	SimulationRuns     uint64  `json:"simulation_runs"`
	SimulationFailures uint64  `json:"simulation_failures"`
	SuccessRate        float64 `json:"success_rate"` // percentage of Generate calls

	Uptime string `json:"uptime"`
}

// GetStats returns a snapshot of the current statistics.
func (m *GenerationMetrics) GetStats() *GenerationStats {
	generated := m.DraftsGenerated.Load()
	failed := m.GenerationFailures.Load()

	successRate := 0.0
	if generated+failed > 0 {
		successRate = float64(generated) / float64(generated+failed) * 100
	}

	return &GenerationStats{
		GenerateLatency:    m.GenerateLatency.Stats(),
		SimulateLatency:    m.SimulateLatency.Stats(),
		DraftsGenerated:    generated,
		GenerationFailures: failed,
		CardsAllocated:     m.CardsAllocated.Load(),
		SimulationRuns:     m.SimulationRuns.Load(),
		SimulationFailures: m.SimulationFailures.Load(),
		SuccessRate:        successRate,
		Uptime:             m.clock.Since(m.startTime).Round(time.Second).String(),
	}
}

// Reset clears every counter and sample.
func (m *GenerationMetrics) Reset() {
	m.GenerateLatency.Reset()
	m.SimulateLatency.Reset()
	m.DraftsGenerated.Store(0)
	m.GenerationFailures.Store(0)
	m.CardsAllocated.Store(0)
	m.SimulationRuns.Store(0)
	m.SimulationFailures.Store(0)
	m.startTime = m.clock.Now()
}

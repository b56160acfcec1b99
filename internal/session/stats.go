package session

import (
	"sync/atomic"

	"github.com/nao1215/scamscan/internal/model"
)

// Stats holds the process-lifetime scan counters.
// Counters only grow; there is no reset other than creating a new Stats.
// It is safe for concurrent use.
type Stats struct {
	scans   atomic.Int64
	threats atomic.Int64
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Scans   int64 `json:"scans"`
	Threats int64 `json:"threats"`
}

// RecordScan counts one scan, and one threat when v is VerdictThreat.
func (s *Stats) RecordScan(v model.Verdict) {
	s.scans.Add(1)
	if v == model.VerdictThreat {
		s.threats.Add(1)
	}
}

// Scans returns the number of scans recorded.
func (s *Stats) Scans() int64 {
	return s.scans.Load()
}

// Threats returns the number of threats recorded.
func (s *Stats) Threats() int64 {
	return s.threats.Load()
}

// Snapshot returns both counters. Threats is loaded first, so the snapshot
// never shows more threats than scans.
func (s *Stats) Snapshot() StatsSnapshot {
	threats := s.threats.Load()
	return StatsSnapshot{
		Scans:   s.scans.Load(),
		Threats: threats,
	}
}

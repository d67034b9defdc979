package receiver

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// recentTTL is how long an ICAO address counts as "recently seen" for
// the stats reporter's unique-aircraft tally. It is intentionally
// shorter and looser than icao.Directory's exact FIFO bound: Stats is
// an observability aid, not a correctness-bearing structure.
const recentTTL = 60 * time.Second

// Stats accumulates pipeline counters for the optional periodic
// reporter. All counters are updated from the single processing
// goroutine and only read by the reporter goroutine, so plain atomics
// are enough; the underlying go-cache instance does its own locking.
type Stats struct {
	candidates  uint64
	decodes     uint64
	corrections uint64
	recent      *cache.Cache
}

// NewStats builds an empty counter set.
func NewStats() *Stats {
	return &Stats{
		recent: cache.New(recentTTL, recentTTL/2),
	}
}

func (s *Stats) noteCandidate() {
	atomic.AddUint64(&s.candidates, 1)
}

func (s *Stats) noteDecode(addr uint32, corrected bool) {
	atomic.AddUint64(&s.decodes, 1)
	if corrected {
		atomic.AddUint64(&s.corrections, 1)
	}
	s.recent.SetDefault(fmt.Sprintf("%06x", addr), struct{}{})
}

// Report logs one snapshot of the counters and the number of distinct
// aircraft seen within the last recentTTL window.
func (s *Stats) Report(log *logrus.Logger) {
	log.WithFields(logrus.Fields{
		"candidates":      atomic.LoadUint64(&s.candidates),
		"decodes":         atomic.LoadUint64(&s.decodes),
		"corrections":     atomic.LoadUint64(&s.corrections),
		"recent_aircraft": s.recent.ItemCount(),
	}).Info("receiver stats")
}

// runReporter logs Stats every 30s until done is closed. It is started
// by Processor.Run whenever Processor.Stats is non-nil; cmd/go1090 sets
// Stats only when debug logging is enabled.
func runReporter(s *Stats, log *logrus.Logger, done <-chan struct{}) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Report(log)
		case <-done:
			return
		}
	}
}

/*
autoanalyze.go - Automated leave-analysis sweep

PURPOSE:
  Periodically scans residents' leave requests for any still stuck in
  "Pending Analysis" (§3 Lifecycles) — e.g. because the triggering
  analyzeLeaveRequest call crashed or timed out before the status
  transitioned — and re-invokes the Analyzer on each. Analyzer.Analyze
  is itself idempotent: a request no longer in Pending Analysis is
  skipped, so re-running this sweep is always safe.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Skips residents whose leave list errors rather than aborting the
    whole sweep
  - Logs a summary of processed/skipped counts per sweep

USAGE:
  sweeper := NewAnalysisSweeper(store, handler.Analyzer)
  sweeper.Start()
  // ... later
  sweeper.Stop()

SEE ALSO:
  - handlers.go: AnalyzeLeaveRequest (the manually-triggered path)
  - analyzer/analyzer.go: Analyzer.Analyze
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/neurosurgery/scheduler/analyzer"
	"github.com/neurosurgery/scheduler/domain"
	"github.com/neurosurgery/scheduler/store"
)

// AnalysisSweeper re-runs the Leave Analyzer over any requests stuck in
// Pending Analysis.
type AnalysisSweeper struct {
	Store         store.Store
	Analyzer      analyzer.Analyzer
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewAnalysisSweeper creates a new sweeper with a 1 hour check interval.
func NewAnalysisSweeper(s store.Store, a analyzer.Analyzer) *AnalysisSweeper {
	return &AnalysisSweeper{
		Store:         s,
		Analyzer:      a,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the sweeper.
func (as *AnalysisSweeper) Start() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if !as.Enabled {
		log.Println("[AnalysisSweeper] disabled, not starting")
		return
	}

	as.ticker = time.NewTicker(as.CheckInterval)
	as.wg.Add(1)

	go as.run()

	log.Printf("[AnalysisSweeper] started with check interval: %v", as.CheckInterval)
}

// Stop stops the sweeper.
func (as *AnalysisSweeper) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.ticker != nil {
		as.ticker.Stop()
		close(as.stop)
		as.wg.Wait()
		log.Println("[AnalysisSweeper] stopped")
	}
}

func (as *AnalysisSweeper) run() {
	defer as.wg.Done()

	as.sweep()

	for {
		select {
		case <-as.ticker.C:
			as.sweep()
		case <-as.stop:
			return
		}
	}
}

func (as *AnalysisSweeper) sweep() {
	ctx := context.Background()

	residents, err := as.Store.ListResidents(ctx)
	if err != nil {
		log.Printf("[AnalysisSweeper] error listing residents: %v", err)
		return
	}

	processed, skipped := 0, 0
	for _, resident := range residents {
		requests, err := as.Store.ListLeaveRequestsForResident(ctx, resident.ID, "")
		if err != nil {
			log.Printf("[AnalysisSweeper] error listing requests for %s: %v", resident.ID, err)
			continue
		}
		for _, req := range requests {
			if req.Status != domain.LeaveStatusPendingAnalysis {
				continue
			}
			if _, err := as.Analyzer.Analyze(ctx, req.ID); err != nil {
				log.Printf("[AnalysisSweeper] error analyzing %s: %v", req.ID, err)
				skipped++
				continue
			}
			processed++
		}
	}

	if processed > 0 || skipped > 0 {
		log.Printf("[AnalysisSweeper] completed: %d processed, %d skipped", processed, skipped)
	}
}

// RunNow triggers an immediate sweep (for testing/admin).
func (as *AnalysisSweeper) RunNow() {
	as.sweep()
}

// NextRunTime returns when the next scheduled sweep will occur.
func (as *AnalysisSweeper) NextRunTime() time.Time {
	return time.Now().Add(as.CheckInterval)
}

package memory

import (
	"fmt"
	"time"
)

// StartSweeper launches the background expiration sweep. Safe to call any
// number of times, from any goroutine; only the first call starts the task.
// The task runs for the lifetime of the process.
func (s *Store) StartSweeper() {
	s.sweepOnce.Do(func() {
		go s.sweepLoop()
	})
}

func (s *Store) sweepLoop() {
	ticker := time.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()

	for now := range ticker.C {
		if err := s.sweepPass(now); err != nil {
			s.opts.Logger.Errorf("sweep pass failed: %v", err)
		}
	}
}

// sweepPass runs one eviction scan. A panic inside the pass is converted to
// an error so a bad pass never kills the loop; the next tick still fires.
func (s *Store) sweepPass(now time.Time) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sweep panic: %v", r)
		}
	}()

	removed := s.sweep(now)
	if removed > 0 {
		s.opts.Logger.Infof("sweep removed %d expired entries", removed)
	}
	return nil
}

// sweep removes every entry whose deadline is at or before now and reports
// how many were removed. It holds the same lock as all other mutators.
func (s *Store) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if !e.expiresAt.After(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

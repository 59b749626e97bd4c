package download

import (
	"context"
	"sync"
	"time"

	"github.com/pakt-dev/pakt/pkg/model"
)

// admissionPoll is how long a task sleeps before rechecking a saturated
// host counter.
const admissionPoll = 10 * time.Millisecond

// session is the transient aggregate for one download batch: per-host
// in-flight counters, completion counts and the fatal flag. All mutation
// goes through the mutex; the counters exist to cap load on any single
// mirror regardless of overall concurrency.
type session struct {
	mu        sync.Mutex
	inflight  map[string]int
	ceiling   int
	total     int
	completed int
	succeeded []model.PackageRef
	failed    []model.PackageRef
	fatal     bool
}

func newSession(total, ceiling int) *session {
	return &session{
		inflight: make(map[string]int),
		ceiling:  ceiling,
		total:    total,
	}
}

// acquireHost blocks until the in-flight count for host drops below the
// ceiling, then claims a slot. Returns the context error on cancellation.
func (s *session) acquireHost(ctx context.Context, host string) error {
	for {
		s.mu.Lock()
		if s.inflight[host] < s.ceiling {
			s.inflight[host]++
			s.mu.Unlock()
			return nil
		}
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(admissionPoll):
		}
	}
}

func (s *session) releaseHost(host string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight[host]--
}

// hostCount is used by tests to observe the in-flight ceiling.
func (s *session) hostCount(host string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight[host]
}

func (s *session) recordSuccess(ref model.PackageRef) (completed, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.succeeded = append(s.succeeded, ref)
	s.completed++
	return s.completed, s.total
}

// recordFailure marks ref failed after all mirrors were exhausted. An HTTP
// status failure (other than 401, which the native tool may be able to
// authenticate) escalates to a session-wide fatal flag when escalate is set.
func (s *session) recordFailure(ref model.PackageRef, last *Error, escalate bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = append(s.failed, ref)
	if escalate && last != nil && last.Kind == KindStatus && last.Status != 401 {
		s.fatal = true
	}
}

func (s *session) result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Result{
		Succeeded: append([]model.PackageRef(nil), s.succeeded...),
		Failed:    append([]model.PackageRef(nil), s.failed...),
		Fatal:     s.fatal,
	}
}

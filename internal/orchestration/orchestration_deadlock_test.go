package orchestration

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/agbru/rangesum/internal/partition"
	"github.com/agbru/rangesum/internal/progress"
	"github.com/agbru/rangesum/internal/worker"
)

// stalledReporter never reads until the workers are done, so every
// progress send after the buffer fills must be dropped rather than block.
type stalledReporter struct {
	release chan struct{}
}

func (s *stalledReporter) DisplayProgress(wg *sync.WaitGroup, ch <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	<-s.release
	DrainChannel(ch)
}

// TestOrchestrationNoDeadlock_Plans verifies that ExecuteWorkers completes
// without deadlocking under various plan shapes.
func TestOrchestrationNoDeadlock_Plans(t *testing.T) {
	testCases := []struct {
		name string
		plan Plan
	}{
		{"single_worker", Plan{DataSize: 1000, Workers: 1}},
		{"many_workers", Plan{DataSize: 100_000, Workers: 64}},
		{"empty_ranges", Plan{DataSize: 5, Workers: 32, Policy: partition.Drop}},
		{"progress_flood", Plan{DataSize: 64 * worker.BlockSize, Workers: 2}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			done := make(chan struct{})
			go func() {
				defer close(done)
				_, _ = NewCoordinator().ExecuteWorkers(ctx, tc.plan.Ranges(), NullProgressReporter{}, io.Discard)
			}()

			select {
			case <-done:
			case <-time.After(30 * time.Second):
				t.Fatal("DEADLOCK: ExecuteWorkers did not complete within timeout")
			}
		})
	}
}

// TestOrchestrationNoDeadlock_SlowConsumer verifies that workers never block
// on a reporter that is not reading.
func TestOrchestrationNoDeadlock_SlowConsumer(t *testing.T) {
	reporter := &stalledReporter{release: make(chan struct{})}
	plan := Plan{DataSize: 16 * worker.BlockSize, Workers: 2}

	workersDone := make(chan struct{})
	obs := &recordingObserver{}
	c := NewCoordinator(WithObserver(Observers(obs, doneAfter(2, workersDone))))

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		_, _ = c.ExecuteWorkers(context.Background(), plan.Ranges(), reporter, io.Discard)
	}()

	select {
	case <-workersDone:
	case <-time.After(30 * time.Second):
		t.Fatal("DEADLOCK: workers blocked on a stalled progress consumer")
	}
	close(reporter.release)
	<-finished
}

// TestOrchestrationNoDeadlock_ContextCancellation verifies that cancelling
// the context during execution does not cause a deadlock.
func TestOrchestrationNoDeadlock_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	plan := Plan{DataSize: worker.MaxDataSize, Workers: 2}

	done := make(chan error, 1)
	go func() {
		_, err := NewCoordinator().Run(ctx, plan, NullProgressReporter{}, io.Discard)
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected an error after cancellation")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("DEADLOCK after context cancellation")
	}
}

// doneAfter returns an observer that closes ch after n WorkerDone calls.
func doneAfter(n int, ch chan struct{}) WorkerObserver {
	var mu sync.Mutex
	count := 0
	return &funcObserver{onWorker: func(worker.PartialResult) {
		mu.Lock()
		defer mu.Unlock()
		count++
		if count == n {
			close(ch)
		}
	}}
}

type funcObserver struct {
	onWorker func(worker.PartialResult)
}

func (f *funcObserver) WorkerDone(res worker.PartialResult) { f.onWorker(res) }
func (f *funcObserver) RunDone(Report)                      {}
